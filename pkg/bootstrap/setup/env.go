package setup

import "github.com/NethermindEth/lumino-bootstrap/pkg/bootstrap/nodeenv"

// Variables exported to the automation script. They are also read as configuration inputs.
const (
	EnvKeystorePath                        = nodeenv.EnvKeystorePath
	EnvRskNodeUrl                          = nodeenv.EnvRskNodeUrl
	EnvTokenNetworkRegistryContractAddress = nodeenv.EnvTokenNetworkRegistryContractAddress
	EnvSecretRegistryContractAddress       = nodeenv.EnvSecretRegistryContractAddress
	EnvEndpointRegistryContractAddress     = nodeenv.EnvEndpointRegistryContractAddress
	EnvRnsDomain                           = nodeenv.EnvRnsDomain
	EnvPassword                            = nodeenv.EnvPassword
)

// Bootstrap-only settings.
const (
	EnvPasswordFile     = "LUMINO_BOOTSTRAP_PASSWORD_FILE"
	EnvAccountMode      = "LUMINO_BOOTSTRAP_ACCOUNT_MODE"
	EnvAccountCommand   = "LUMINO_BOOTSTRAP_ACCOUNT_COMMAND"
	EnvAccountArgs      = "LUMINO_BOOTSTRAP_ACCOUNT_ARGS"
	EnvAutomationScript = "LUMINO_BOOTSTRAP_AUTOMATION_SCRIPT"
	EnvAutomationArgs   = "LUMINO_BOOTSTRAP_AUTOMATION_ARGS"
	EnvLightKdf         = "LUMINO_BOOTSTRAP_LIGHT_KDF"
	EnvLogLevel         = "LUMINO_BOOTSTRAP_LOG_LEVEL"
)

// Configuration keys, as used in config files.
const (
	KeyKeystorePath                        = "keystore_path"
	KeyRskNodeUrl                          = "rsk_node_url"
	KeyTokenNetworkRegistryContractAddress = "tokennetwork_registry_contract_address"
	KeySecretRegistryContractAddress       = "secret_registry_contract_address"
	KeyEndpointRegistryContractAddress     = "endpoint_registry_contract_address"
	KeyRnsDomain                           = "rns_domain"
	KeyPassword                            = "password"
	KeyPasswordFile                        = "password_file"
	KeyAccountMode                         = "account_mode"
	KeyAccountCommand                      = "account_command"
	KeyAccountArgs                         = "account_args"
	KeyAutomationScript                    = "automation_script"
	KeyAutomationArgs                      = "automation_args"
	KeyLightKdf                            = "light_kdf"
	KeyLogLevel                            = "log_level"
)

var envBindings = map[string]string{
	KeyKeystorePath:                        EnvKeystorePath,
	KeyRskNodeUrl:                          EnvRskNodeUrl,
	KeyTokenNetworkRegistryContractAddress: EnvTokenNetworkRegistryContractAddress,
	KeySecretRegistryContractAddress:       EnvSecretRegistryContractAddress,
	KeyEndpointRegistryContractAddress:     EnvEndpointRegistryContractAddress,
	KeyRnsDomain:                           EnvRnsDomain,
	KeyPassword:                            EnvPassword,
	KeyPasswordFile:                        EnvPasswordFile,
	KeyAccountMode:                         EnvAccountMode,
	KeyAccountCommand:                      EnvAccountCommand,
	KeyAccountArgs:                         EnvAccountArgs,
	KeyAutomationScript:                    EnvAutomationScript,
	KeyAutomationArgs:                      EnvAutomationArgs,
	KeyLightKdf:                            EnvLightKdf,
	KeyLogLevel:                            EnvLogLevel,
}
