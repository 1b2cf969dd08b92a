// Package runner drives the node bootstrap: account creation, keystore listing,
// environment assembly and the automation script handoff.
//
// Steps run strictly in order and a failing step never stops the ones after it.
// Failures are logged and recorded in the Result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/account"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/debug"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/keydir"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/nodeenv"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/passwordfile"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/process"
	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/setup"
)

const (
	StepCreateAccount = "create-account"
	StepListKeystore  = "list-keystore"
	StepAssembleEnv   = "assemble-env"
	StepRunAutomation = "run-automation"
)

type StepResult struct {
	Name string
	Err  error
}

type Result struct {
	Steps []StepResult
	// ExitCode is the automation script's exit code.
	ExitCode int
}

// Failed returns the steps that reported an error.
func (r *Result) Failed() []StepResult {
	var failed []StepResult
	for _, step := range r.Steps {
		if step.Err != nil {
			failed = append(failed, step)
		}
	}
	return failed
}

type Runner struct {
	config   *setup.Config
	executor process.Executor
	creator  account.Creator
	stdout   io.Writer
	baseEnv  func() []string
	dryRun   bool
}

type RunnerConfig struct {
	Config   *setup.Config
	Executor process.Executor
	// Creator defaults to the one selected by Config.AccountMode.
	Creator account.Creator
	// Stdout receives the keystore listing. Defaults to os.Stdout.
	Stdout io.Writer
	// BaseEnv is the environment the node variables are layered on. Defaults to os.Environ.
	BaseEnv func() []string
	// DryRun leaves the filesystem untouched and logs commands instead of running them.
	// DEBUG_DRY_RUN=true turns it on as well.
	DryRun bool
}

func NewRunner(config *RunnerConfig) (*Runner, error) {
	if config == nil || config.Config == nil {
		return nil, errors.New("config is nil")
	}

	dryRun := config.DryRun || debug.IsDebugDryRun()

	executor := config.Executor
	if executor == nil {
		if dryRun {
			executor = process.DryRunExecutor{}
		} else {
			executor = process.NewExecExecutor()
		}
	}

	creator := config.Creator
	if creator == nil {
		var err error
		creator, err = account.NewCreator(config.Config, executor)
		if err != nil {
			return nil, fmt.Errorf("failed to create account creator: %w", err)
		}
		// The exec creator already goes through the dry-run executor.
		if dryRun && config.Config.AccountMode == setup.AccountModeKeystore {
			creator = account.DryRunCreator{}
		}
	}

	stdout := config.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	baseEnv := config.BaseEnv
	if baseEnv == nil {
		baseEnv = os.Environ
	}

	return &Runner{
		config:   config.Config,
		executor: executor,
		creator:  creator,
		stdout:   stdout,
		baseEnv:  baseEnv,
		dryRun:   dryRun,
	}, nil
}

// Run executes the four bootstrap steps and returns once the automation script exits.
func (r *Runner) Run(ctx context.Context) *Result {
	result := &Result{}

	record := func(name string, err error) {
		if err != nil {
			slog.Warn("bootstrap step failed, continuing", "step", name, "error", err)
		} else {
			slog.Debug("bootstrap step done", "step", name)
		}
		result.Steps = append(result.Steps, StepResult{Name: name, Err: err})
	}

	record(StepCreateAccount, r.createAccount(ctx))
	record(StepListKeystore, keydir.List(r.config.KeystorePath, r.stdout))

	env := r.config.NodeEnv()
	record(StepAssembleEnv, nil)

	exitCode, err := r.runAutomation(ctx, env)
	result.ExitCode = exitCode
	record(StepRunAutomation, err)

	return result
}

func (r *Runner) createAccount(ctx context.Context) error {
	if r.dryRun {
		slog.Info("dry run", "action", "ensure password file", "path", r.config.PasswordFile)
		return r.creator.Create(ctx, r.config.KeystorePath, r.config.PasswordFile)
	}

	// The account command still runs when the password file cannot be written.
	created, ensureErr := passwordfile.Ensure(r.config.PasswordFile, r.config.Password)
	if created {
		slog.Info("wrote password file", "path", r.config.PasswordFile)
	}

	return errors.Join(ensureErr, r.creator.Create(ctx, r.config.KeystorePath, r.config.PasswordFile))
}

func (r *Runner) runAutomation(ctx context.Context, env *nodeenv.NodeEnv) (int, error) {
	cmd := process.Command{
		Name: r.config.AutomationScript,
		Args: r.config.AutomationArgs,
		Env:  env.Environ(r.baseEnv()),
	}

	slog.Info("starting automation script", "script", cmd.Name)

	exitCode, err := r.executor.Run(ctx, cmd)
	if err != nil {
		return exitCode, fmt.Errorf("failed to run automation script: %w", err)
	}
	if exitCode != 0 {
		slog.Warn("automation script exited with non-zero code", "exitCode", exitCode)
	}

	return exitCode, nil
}
