package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"

	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/passwordfile"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/process"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/setup"
)

var ErrCommandFailed = errors.New("account command failed")

// Creator produces new key material in a keystore directory.
type Creator interface {
	Create(ctx context.Context, keystoreDir, passwordFile string) error
}

// CommandCreator delegates account creation to an external command such as `geth account new`.
type CommandCreator struct {
	executor process.Executor
	name     string
	args     []string
}

var _ Creator = (*CommandCreator)(nil)

func NewCommandCreator(executor process.Executor, name string, args []string) *CommandCreator {
	return &CommandCreator{
		executor: executor,
		name:     name,
		args:     args,
	}
}

// Command returns the invocation for the given paths. Placeholders in the configured
// arguments are replaced with keystoreDir and passwordFile.
func (c *CommandCreator) Command(keystoreDir, passwordFile string) process.Command {
	replacer := strings.NewReplacer(
		setup.PlaceholderKeystore, keystoreDir,
		setup.PlaceholderPassword, passwordFile,
	)

	args := make([]string, len(c.args))
	for i, arg := range c.args {
		args[i] = replacer.Replace(arg)
	}

	return process.Command{Name: c.name, Args: args}
}

func (c *CommandCreator) Create(ctx context.Context, keystoreDir, passwordFile string) error {
	cmd := c.Command(keystoreDir, passwordFile)

	exitCode, err := c.executor.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to run account command: %w", err)
	}
	if exitCode != 0 {
		return fmt.Errorf("%w: %s exited with code %d", ErrCommandFailed, cmd.Name, exitCode)
	}

	return nil
}

// KeystoreCreator creates accounts in-process with the go-ethereum keystore.
type KeystoreCreator struct {
	scryptN int
	scryptP int
}

var _ Creator = (*KeystoreCreator)(nil)

func NewKeystoreCreator(lightKdf bool) *KeystoreCreator {
	if lightKdf {
		return &KeystoreCreator{scryptN: keystore.LightScryptN, scryptP: keystore.LightScryptP}
	}
	return &KeystoreCreator{scryptN: keystore.StandardScryptN, scryptP: keystore.StandardScryptP}
}

func (c *KeystoreCreator) Create(ctx context.Context, keystoreDir, passwordFile string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	password, err := passwordfile.Read(passwordFile)
	if err != nil {
		return err
	}

	ks := keystore.NewKeyStore(keystoreDir, c.scryptN, c.scryptP)

	account, err := ks.NewAccount(password)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("created account", "address", account.Address.Hex(), "keyFile", account.URL.Path)

	return nil
}

// DryRunCreator logs where an account would be created and leaves the keystore untouched.
type DryRunCreator struct{}

var _ Creator = DryRunCreator{}

func (DryRunCreator) Create(ctx context.Context, keystoreDir, passwordFile string) error {
	slog.Info("dry run", "action", "create account", "keystore", keystoreDir, "passwordFile", passwordFile)
	return nil
}

// NewCreator selects the creator for the configured account mode.
func NewCreator(config *setup.Config, executor process.Executor) (Creator, error) {
	switch config.AccountMode {
	case setup.AccountModeExec:
		return NewCommandCreator(executor, config.AccountCommand, config.AccountArgs), nil
	case setup.AccountModeKeystore:
		return NewKeystoreCreator(config.LightKdf), nil
	default:
		return nil, fmt.Errorf("%w: %q", setup.ErrUnknownAccountMode, config.AccountMode)
	}
}
