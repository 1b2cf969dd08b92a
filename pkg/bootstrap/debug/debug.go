package debug

import "os"

const (
	DebugShowSetupKey = "DEBUG_SHOW_SETUP"
	DebugDryRunKey    = "DEBUG_DRY_RUN"
)

// IsDebugShowSetup reports whether the loaded configuration should be logged at startup.
func IsDebugShowSetup() bool {
	return os.Getenv(DebugShowSetupKey) == "true"
}

// IsDebugDryRun reports whether external commands should be logged instead of run.
func IsDebugDryRun() bool {
	return os.Getenv(DebugDryRunKey) == "true"
}
