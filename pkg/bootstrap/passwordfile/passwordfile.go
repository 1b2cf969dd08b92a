package passwordfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Read returns the password stored at path without its trailing line ending.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read password file: %w", err)
	}

	return strings.TrimRight(string(data), "\r\n"), nil
}

// Ensure writes password to path unless the file already exists.
// It reports whether the file was created.
func Ensure(path, password string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat password file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return false, fmt.Errorf("failed to create password file directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create password file: %w", err)
	}

	// A partially written file would be taken as the operator's password on the next run.
	if err := errors.Join(writePassword(f, password), f.Close()); err != nil {
		if removeErr := os.Remove(path); removeErr != nil {
			err = errors.Join(err, removeErr)
		}
		return false, fmt.Errorf("failed to write password file: %w", err)
	}

	return true, nil
}

var writePassword = func(w io.Writer, password string) error {
	_, err := io.WriteString(w, password+"\n")
	return err
}
