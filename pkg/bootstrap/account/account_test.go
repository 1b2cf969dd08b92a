package account_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/account"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/keydir"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/process"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/setup"
)

type mockExecutor struct {
	run func(ctx context.Context, cmd process.Command) (int, error)
}

func (m *mockExecutor) Run(ctx context.Context, cmd process.Command) (int, error) {
	return m.run(ctx, cmd)
}

type mockPasswordReader struct {
	passwords []string
	prompts   []string
}

func (m *mockPasswordReader) ReadPassword(prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if len(m.passwords) == 0 {
		return "", errors.New("no more passwords")
	}
	password := m.passwords[0]
	m.passwords = m.passwords[1:]
	return password, nil
}

func writePasswordFile(t *testing.T, password string) string {
	path := filepath.Join(t.TempDir(), "password.txt")
	require.NoError(t, os.WriteFile(path, []byte(password+"\r\n"), 0600))
	return path
}

func newTestAccount(t *testing.T, password string) (string, accounts.Account) {
	dir := t.TempDir()
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	acc, err := ks.NewAccount(password)
	require.NoError(t, err)
	return dir, acc
}

func TestCommandCreator_Create(t *testing.T) {
	var calls []process.Command
	executor := &mockExecutor{
		run: func(ctx context.Context, cmd process.Command) (int, error) {
			calls = append(calls, cmd)
			return 0, nil
		},
	}

	creator := account.NewCommandCreator(executor, "geth", []string{"account", "new", "--keystore", "{keystore}", "--password", "{password}"})

	err := creator.Create(context.Background(), "/data/keystore", "/data/password.txt")
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, "geth", calls[0].Name)
	assert.Equal(t, []string{"account", "new", "--keystore", "/data/keystore", "--password", "/data/password.txt"}, calls[0].Args)
	assert.Nil(t, calls[0].Env)
}

func TestCommandCreator_CreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		run     func(ctx context.Context, cmd process.Command) (int, error)
		wantErr error
	}{
		{
			name: "non-zero exit",
			run: func(ctx context.Context, cmd process.Command) (int, error) {
				return 1, nil
			},
			wantErr: account.ErrCommandFailed,
		},
		{
			name: "not started",
			run: func(ctx context.Context, cmd process.Command) (int, error) {
				return process.ExitCodeNotStarted, process.ErrNotStarted
			},
			wantErr: process.ErrNotStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := account.NewCommandCreator(&mockExecutor{run: tt.run}, "geth", []string{"--password", "{password}"})
			err := creator.Create(context.Background(), "keystore", "password.txt")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCommandCreator_ArgsNotShared(t *testing.T) {
	args := []string{"--password", "{password}"}
	creator := account.NewCommandCreator(&mockExecutor{}, "geth", args)

	cmd := creator.Command("keystore", "password.txt")
	assert.Equal(t, []string{"--password", "password.txt"}, cmd.Args)
	assert.Equal(t, []string{"--password", "{password}"}, args)
}

func TestKeystoreCreator_Create(t *testing.T) {
	keystoreDir := filepath.Join(t.TempDir(), "keystore")
	passwordFile := writePasswordFile(t, "12345")

	creator := account.NewKeystoreCreator(true)
	require.NoError(t, creator.Create(context.Background(), keystoreDir, passwordFile))

	accs, err := keydir.Accounts(keystoreDir)
	require.NoError(t, err)
	require.Len(t, accs, 1)

	wallet, err := account.UnlockWithPasswordFile(accs[0].URL.Path, passwordFile)
	require.NoError(t, err)
	assert.Equal(t, accs[0].Address, wallet.Address())
}

func TestKeystoreCreator_MissingPasswordFile(t *testing.T) {
	creator := account.NewKeystoreCreator(true)
	err := creator.Create(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestKeystoreCreator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	creator := account.NewKeystoreCreator(true)
	err := creator.Create(ctx, t.TempDir(), writePasswordFile(t, "12345"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCreator(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		wantType account.Creator
		wantErr  bool
	}{
		{name: "exec", mode: setup.AccountModeExec, wantType: &account.CommandCreator{}},
		{name: "keystore", mode: setup.AccountModeKeystore, wantType: &account.KeystoreCreator{}},
		{name: "unknown", mode: "hsm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator, err := account.NewCreator(&setup.Config{AccountMode: tt.mode, AccountCommand: "geth"}, &mockExecutor{})
			if tt.wantErr {
				assert.ErrorIs(t, err, setup.ErrUnknownAccountMode)
				assert.Nil(t, creator)
			} else {
				require.NoError(t, err)
				assert.IsType(t, tt.wantType, creator)
			}
		})
	}
}

func TestUnlock(t *testing.T) {
	dir, acc := newTestAccount(t, "12345")
	keyFile, err := keydir.KeyFile(dir, acc.Address)
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		wallet, err := account.Unlock(keyFile, "12345")
		require.NoError(t, err)
		assert.Equal(t, acc.Address, wallet.Address())
	})

	t.Run("incorrect password", func(t *testing.T) {
		wallet, err := account.Unlock(keyFile, "54321")
		assert.ErrorIs(t, err, account.ErrIncorrectPassword)
		assert.Nil(t, wallet)
	})

	t.Run("missing key file", func(t *testing.T) {
		_, err := account.Unlock(filepath.Join(dir, "missing"), "12345")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	passwordFileTests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "plain", content: "12345"},
		{name: "dos line ending", content: "12345\r\n"},
		{name: "trailing spaces", content: "12345 \n"},
		{name: "leading and trailing spaces", content: "  12345\t \r\n"},
		{name: "wrong password", content: "1234 5\n", wantErr: account.ErrIncorrectPassword},
	}

	for _, tt := range passwordFileTests {
		t.Run("password file "+tt.name, func(t *testing.T) {
			passwordFile := filepath.Join(t.TempDir(), "password.txt")
			require.NoError(t, os.WriteFile(passwordFile, []byte(tt.content), 0600))

			wallet, err := account.UnlockWithPasswordFile(keyFile, passwordFile)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, wallet)
			} else {
				require.NoError(t, err)
				assert.Equal(t, acc.Address, wallet.Address())
			}
		})
	}
}

func TestUnlockWithPrompt(t *testing.T) {
	_, acc := newTestAccount(t, "12345")

	t.Run("third try succeeds", func(t *testing.T) {
		reader := &mockPasswordReader{passwords: []string{"a", "b", "12345"}}
		var out bytes.Buffer

		wallet, err := account.UnlockWithPrompt(reader, &out, acc.Address, acc.URL.Path, account.DefaultUnlockTries)
		require.NoError(t, err)
		assert.Equal(t, acc.Address, wallet.Address())
		assert.Len(t, reader.prompts, 3)
		assert.Contains(t, reader.prompts[0], acc.Address.Hex())
		assert.Contains(t, out.String(), "1 out of 3 tries")
		assert.Contains(t, out.String(), "2 out of 3 tries")
	})

	t.Run("gives up", func(t *testing.T) {
		reader := &mockPasswordReader{passwords: []string{"a", "b", "c", "12345"}}
		var out bytes.Buffer

		wallet, err := account.UnlockWithPrompt(reader, &out, acc.Address, acc.URL.Path, account.DefaultUnlockTries)
		assert.ErrorIs(t, err, account.ErrTooManyAttempts)
		assert.Nil(t, wallet)
		assert.Len(t, reader.prompts, 3)
	})

	t.Run("reader error", func(t *testing.T) {
		reader := &mockPasswordReader{}

		_, err := account.UnlockWithPrompt(reader, &bytes.Buffer{}, acc.Address, acc.URL.Path, account.DefaultUnlockTries)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, account.ErrTooManyAttempts)
	})
}
