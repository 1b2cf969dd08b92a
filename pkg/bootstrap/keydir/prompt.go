package keydir

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
)

var ErrNoSelection = errors.New("no account selected")

// PromptAccount lists accs on out and reads an index from in until it names one of them.
func PromptAccount(in io.Reader, out io.Writer, accs []accounts.Account) (accounts.Account, error) {
	if len(accs) == 0 {
		return accounts.Account{}, errors.New("no accounts in keystore")
	}

	fmt.Fprintln(out, "The following accounts were found in your machine:")
	fmt.Fprintln(out)
	if err := FormatAccounts(out, accs); err != nil {
		return accounts.Account{}, err
	}
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Select one of them by index to continue: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return accounts.Account{}, fmt.Errorf("failed to read selection: %w", err)
			}
			return accounts.Account{}, ErrNoSelection
		}

		input := strings.TrimSpace(scanner.Text())
		idx, err := strconv.Atoi(input)
		if err != nil {
			continue
		}
		if idx < 0 || idx >= len(accs) {
			fmt.Fprintf(out, "\nError: Provided index %q is out of bounds\n\n", input)
			continue
		}

		return accs[idx], nil
	}
}
