package account

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/term"

	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/passwordfile"
)

const DefaultUnlockTries = 3

var (
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrTooManyAttempts   = errors.New("too many unlock attempts")
)

type PasswordReader interface {
	ReadPassword(prompt string) (string, error)
}

// Unlock decrypts the key file with password.
func Unlock(keyFile string, password string) (*Wallet, error) {
	keyJson, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key, err := keystore.DecryptKey(keyJson, password)
	if err != nil {
		if errors.Is(err, keystore.ErrDecrypt) {
			return nil, ErrIncorrectPassword
		}
		return nil, fmt.Errorf("failed to decrypt key: %w", err)
	}

	return NewWallet(key), nil
}

func UnlockWithPasswordFile(keyFile string, passwordFile string) (*Wallet, error) {
	password, err := passwordfile.Read(passwordFile)
	if err != nil {
		return nil, err
	}

	// Surrounding whitespace in the file is not part of the password.
	return Unlock(keyFile, strings.TrimSpace(password))
}

// UnlockWithPrompt asks for the password up to tries times. Progress messages go to out.
func UnlockWithPrompt(reader PasswordReader, out io.Writer, address common.Address, keyFile string, tries int) (*Wallet, error) {
	for current := 0; current < tries; current++ {
		password, err := reader.ReadPassword(fmt.Sprintf("Enter the password to unlock %s: ", address.Hex()))
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}

		wallet, err := Unlock(keyFile, password)
		if err == nil {
			return wallet, nil
		}
		if !errors.Is(err, ErrIncorrectPassword) {
			return nil, err
		}

		fmt.Fprintf(out,
			"Incorrect passphrase to unlock the private key. %d out of %d tries. "+
				"Please try again or kill the process to quit. Usually Ctrl-c.\n",
			current+1, tries)
	}

	return nil, ErrTooManyAttempts
}

// TerminalPasswordReader reads passwords from a terminal without echo.
type TerminalPasswordReader struct {
	In  *os.File
	Out io.Writer
}

var _ PasswordReader = (*TerminalPasswordReader)(nil)

func NewTerminalPasswordReader() *TerminalPasswordReader {
	return &TerminalPasswordReader{
		In:  os.Stdin,
		Out: os.Stderr,
	}
}

func (r *TerminalPasswordReader) ReadPassword(prompt string) (string, error) {
	fd := int(r.In.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal")
	}

	fmt.Fprint(r.Out, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(r.Out)
	if err != nil {
		return "", err
	}

	return string(password), nil
}
