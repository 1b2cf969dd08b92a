package setup

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/nodeenv"
)

const (
	AccountModeExec     = "exec"
	AccountModeKeystore = "keystore"
)

const (
	// Placeholders expanded in AccountArgs.
	PlaceholderKeystore = "{keystore}"
	PlaceholderPassword = "{password}"
)

const configName = "lumino-bootstrap"

var ErrUnknownAccountMode = errors.New("unknown account mode")

type Config struct {
	KeystorePath                        string
	RskNodeUrl                          string
	TokenNetworkRegistryContractAddress string
	SecretRegistryContractAddress       string
	EndpointRegistryContractAddress     string
	RnsDomain                           string
	Password                            string

	PasswordFile     string
	AccountMode      string
	AccountCommand   string
	AccountArgs      []string
	AutomationScript string
	AutomationArgs   []string
	LightKdf         bool
	LogLevel         slog.Level
}

func defaults() map[string]any {
	return map[string]any{
		KeyKeystorePath:                        "keystore",
		KeyRskNodeUrl:                          "http://localhost:4444",
		KeyTokenNetworkRegistryContractAddress: "",
		KeySecretRegistryContractAddress:       "",
		KeyEndpointRegistryContractAddress:     "",
		KeyRnsDomain:                           "",
		KeyPassword:                            "12345",
		KeyPasswordFile:                        "password.txt",
		KeyAccountMode:                         AccountModeExec,
		KeyAccountCommand:                      "geth",
		KeyAccountArgs:                         []string{"account", "new", "--keystore", PlaceholderKeystore, "--password", PlaceholderPassword},
		KeyAutomationScript:                    "./lumino-setup.exp",
		KeyAutomationArgs:                      []string{},
		KeyLightKdf:                            false,
		KeyLogLevel:                            "info",
	}
}

// LoadConfig builds the configuration from defaults, an optional config file and the environment,
// in increasing order of precedence. An empty configFile searches the working directory for
// lumino-bootstrap.{yaml,toml,json} and tolerates its absence.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// An empty variable such as YOUR_RNS_DOMAIN= still overrides the default.
	v.AllowEmptyEnv(true)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	return newConfig(v)
}

func newConfig(v *viper.Viper) (*Config, error) {
	config := &Config{
		KeystorePath:                        v.GetString(KeyKeystorePath),
		RskNodeUrl:                          v.GetString(KeyRskNodeUrl),
		TokenNetworkRegistryContractAddress: v.GetString(KeyTokenNetworkRegistryContractAddress),
		SecretRegistryContractAddress:       v.GetString(KeySecretRegistryContractAddress),
		EndpointRegistryContractAddress:     v.GetString(KeyEndpointRegistryContractAddress),
		RnsDomain:                           v.GetString(KeyRnsDomain),
		Password:                            v.GetString(KeyPassword),

		PasswordFile:     v.GetString(KeyPasswordFile),
		AccountMode:      v.GetString(KeyAccountMode),
		AccountCommand:   v.GetString(KeyAccountCommand),
		AccountArgs:      v.GetStringSlice(KeyAccountArgs),
		AutomationScript: v.GetString(KeyAutomationScript),
		AutomationArgs:   v.GetStringSlice(KeyAutomationArgs),
		LightKdf:         v.GetBool(KeyLightKdf),
	}

	if err := config.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", KeyLogLevel, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks only the settings that select code paths. Node values are passed through as-is.
func (c *Config) Validate() error {
	switch c.AccountMode {
	case AccountModeExec:
		if c.AccountCommand == "" {
			return errors.New("account_command is required in exec account mode")
		}
	case AccountModeKeystore:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAccountMode, c.AccountMode)
	}

	return nil
}

func (c *Config) NodeEnv() *nodeenv.NodeEnv {
	return &nodeenv.NodeEnv{
		KeystorePath:                        c.KeystorePath,
		RskNodeUrl:                          c.RskNodeUrl,
		TokenNetworkRegistryContractAddress: c.TokenNetworkRegistryContractAddress,
		SecretRegistryContractAddress:       c.SecretRegistryContractAddress,
		EndpointRegistryContractAddress:     c.EndpointRegistryContractAddress,
		RnsDomain:                           c.RnsDomain,
		Password:                            c.Password,
	}
}

// LogValue keeps the password out of logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String(KeyKeystorePath, c.KeystorePath),
		slog.String(KeyRskNodeUrl, c.RskNodeUrl),
		slog.String(KeyTokenNetworkRegistryContractAddress, c.TokenNetworkRegistryContractAddress),
		slog.String(KeySecretRegistryContractAddress, c.SecretRegistryContractAddress),
		slog.String(KeyEndpointRegistryContractAddress, c.EndpointRegistryContractAddress),
		slog.String(KeyRnsDomain, c.RnsDomain),
		slog.String(KeyPassword, "[redacted]"),
		slog.String(KeyPasswordFile, c.PasswordFile),
		slog.String(KeyAccountMode, c.AccountMode),
		slog.String(KeyAccountCommand, c.AccountCommand),
		slog.Any(KeyAccountArgs, c.AccountArgs),
		slog.String(KeyAutomationScript, c.AutomationScript),
		slog.Any(KeyAutomationArgs, c.AutomationArgs),
		slog.Bool(KeyLightKdf, c.LightKdf),
		slog.String(KeyLogLevel, c.LogLevel.String()),
	)
}
