package params

const (
	Devnet ConfigName = iota
	Minimal
)

// ConfigNames provides network configuration names.
var ConfigNames = map[ConfigName]string{
	Devnet:  "devnet",
	Minimal: "minimal",
}

// ConfigName enum describes the type of known network in use.
type ConfigName int

func (n ConfigName) String() string {
	s, ok := ConfigNames[n]
	if !ok {
		return "undefined"
	}
	return s
}

// ByName returns the known config with the given name.
func ByName(name string) (*BeaconChainConfig, bool) {
	switch name {
	case Devnet.String():
		return MainnetConfig().Copy(), true
	case Minimal.String():
		return MinimalSpecConfig().Copy(), true
	}
	return nil, false
}
