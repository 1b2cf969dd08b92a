// Package keydir inspects the keystore directory produced by account creation.
package keydir

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
)

var ErrAccountNotFound = errors.New("account not found in keystore")

// List writes the name of every entry in dir to w, one per line, sorted by name.
func List(dir string, w io.Writer) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read keystore directory: %w", err)
	}

	for _, entry := range entries {
		if _, err := fmt.Fprintln(w, entry.Name()); err != nil {
			return fmt.Errorf("failed to write listing: %w", err)
		}
	}

	return nil
}

// Accounts returns the accounts stored in dir, ordered by key file path.
func Accounts(dir string) ([]accounts.Account, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("failed to open keystore directory: %w", err)
	}

	return open(dir).Accounts(), nil
}

// KeyFile returns the path of the key file holding address.
func KeyFile(dir string, address common.Address) (string, error) {
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("failed to open keystore directory: %w", err)
	}

	account, err := open(dir).Find(accounts.Account{Address: address})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrAccountNotFound, address.Hex())
	}

	return account.URL.Path, nil
}

// FormatAccounts prints accounts as "[idx] - checksum address" lines.
func FormatAccounts(w io.Writer, accs []accounts.Account) error {
	for idx, account := range accs {
		if _, err := fmt.Fprintf(w, "[%3d] - %s\n", idx, account.Address.Hex()); err != nil {
			return fmt.Errorf("failed to write account: %w", err)
		}
	}
	return nil
}

// Scrypt parameters only matter for writing; reads use the cheapest ones.
func open(dir string) *keystore.KeyStore {
	return keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
}
