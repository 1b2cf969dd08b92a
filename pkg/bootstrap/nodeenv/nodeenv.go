// Package nodeenv describes the environment handed to the node automation script.
package nodeenv

import "strings"

const (
	EnvKeystorePath                        = "KEYSTORE_PATH"
	EnvRskNodeUrl                          = "RSK_NODE_URL"
	EnvTokenNetworkRegistryContractAddress = "TOKENNETWORK_REGISTRY_CONTRACT_ADDRESS"
	EnvSecretRegistryContractAddress       = "SECRET_REGISTRY_CONTRACT_ADDRESS"
	EnvEndpointRegistryContractAddress     = "ENDPOINT_REGISTRY_CONTRACT_ADDRESS"
	EnvRnsDomain                           = "YOUR_RNS_DOMAIN"
	EnvPassword                            = "PASS"
)

// NodeEnv holds the values the node process reads from its environment.
// Values are passed through verbatim; addresses are not checked.
type NodeEnv struct {
	KeystorePath                        string
	RskNodeUrl                          string
	TokenNetworkRegistryContractAddress string
	SecretRegistryContractAddress       string
	EndpointRegistryContractAddress     string
	RnsDomain                           string
	Password                            string
}

type Var struct {
	Name  string
	Value string
}

func (v Var) String() string {
	return v.Name + "=" + v.Value
}

// Vars returns the seven variables in a fixed order.
func (e *NodeEnv) Vars() []Var {
	return []Var{
		{Name: EnvKeystorePath, Value: e.KeystorePath},
		{Name: EnvRskNodeUrl, Value: e.RskNodeUrl},
		{Name: EnvTokenNetworkRegistryContractAddress, Value: e.TokenNetworkRegistryContractAddress},
		{Name: EnvSecretRegistryContractAddress, Value: e.SecretRegistryContractAddress},
		{Name: EnvEndpointRegistryContractAddress, Value: e.EndpointRegistryContractAddress},
		{Name: EnvRnsDomain, Value: e.RnsDomain},
		{Name: EnvPassword, Value: e.Password},
	}
}

// Environ returns a copy of base with the node variables replacing any entries of the same name.
// The caller's process environment is never modified.
func (e *NodeEnv) Environ(base []string) []string {
	vars := e.Vars()

	names := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		names[v.Name] = struct{}{}
	}

	environ := make([]string, 0, len(base)+len(vars))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, ok := names[name]; ok {
			continue
		}
		environ = append(environ, kv)
	}

	for _, v := range vars {
		environ = append(environ, v.String())
	}

	return environ
}

// Lookup returns the value of a node variable by name.
func (e *NodeEnv) Lookup(name string) (string, bool) {
	for _, v := range e.Vars() {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}
