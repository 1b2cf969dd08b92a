package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/account"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/keydir"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/runner"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/setup"
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	var exitErr *exitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		os.Exit(exitErr.code)
	default:
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "lumino-bootstrap",
		Short:         "Create a node account and hand off to the node setup script",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := setup.Setup(configFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			r, err := runner.NewRunner(&runner.RunnerConfig{
				Config: config,
				Stdout: cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			result := r.Run(cmd.Context())
			if result.ExitCode != 0 {
				return &exitError{code: result.ExitCode}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, toml or json)")

	cmd.AddCommand(newAccountsCmd(&configFile))
	cmd.AddCommand(newUnlockCmd(&configFile))

	return cmd
}

func newAccountsCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts found in the keystore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := setup.Setup(*configFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			accs, err := keydir.Accounts(config.KeystorePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "The following accounts were found in your machine:")
			fmt.Fprintln(out)
			if err := keydir.FormatAccounts(out, accs); err != nil {
				return err
			}
			fmt.Fprintln(out)

			return nil
		},
	}
}

func newUnlockCmd(configFile *string) *cobra.Command {
	var prompt bool

	cmd := &cobra.Command{
		Use:   "unlock [address]",
		Short: "Check that the configured password decrypts a keystore account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := setup.Setup(*configFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			address, err := resolveAddress(cmd.InOrStdin(), cmd.ErrOrStderr(), config.KeystorePath, args)
			if err != nil {
				return err
			}

			keyFile, err := keydir.KeyFile(config.KeystorePath, address)
			if err != nil {
				return err
			}

			var wallet *account.Wallet
			if prompt {
				wallet, err = account.UnlockWithPrompt(account.NewTerminalPasswordReader(), cmd.ErrOrStderr(), address, keyFile, account.DefaultUnlockTries)
			} else {
				wallet, err = account.UnlockWithPasswordFile(keyFile, config.PasswordFile)
				if errors.Is(err, account.ErrIncorrectPassword) {
					err = fmt.Errorf("incorrect password for %s in file: %w", address.Hex(), err)
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s\n", wallet.Address().Hex())
			return nil
		},
	}

	cmd.Flags().BoolVar(&prompt, "prompt", false, "ask for the password on the terminal instead of reading the password file")

	return cmd
}

// resolveAddress returns the requested address or the only account in the keystore.
// With several accounts the operator picks one by index.
func resolveAddress(in io.Reader, out io.Writer, keystoreDir string, args []string) (common.Address, error) {
	if len(args) == 1 {
		if !common.IsHexAddress(args[0]) {
			return common.Address{}, fmt.Errorf("invalid address %q", args[0])
		}
		return common.HexToAddress(args[0]), nil
	}

	accs, err := keydir.Accounts(keystoreDir)
	if err != nil {
		return common.Address{}, err
	}

	switch len(accs) {
	case 0:
		return common.Address{}, errors.New("no accounts in keystore")
	case 1:
		return accs[0].Address, nil
	default:
		selected, err := keydir.PromptAccount(in, out, accs)
		if err != nil {
			return common.Address{}, err
		}
		return selected.Address, nil
	}
}
