package setup

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/debug"
)

// Setup loads the configuration and installs the default logger writing to logOutput.
func Setup(configFile string, logOutput io.Writer) (*Config, error) {
	config, err := LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(NewLogger(logOutput, config.LogLevel))

	if debug.IsDebugShowSetup() {
		slog.Info("setup output", "config", config)
	}

	return config, nil
}

func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
