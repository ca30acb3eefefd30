package params

import "time"

type ListenerConfig struct {
	// Network is the network to listen on.
	// The network must be "tcp", "tcp4", "tcp6", "unix" or "unixpacket".
	Network string
	// Address is the address to listen on.
	Address string
}

type WebDaemonConfig struct {
	ListenerConfig
	DataDir string
	// ResultCacheTTL bounds how long finished analyses are served from
	// the daemon's in-memory result cache.
	ResultCacheTTL time.Duration
	// DiversityConfig is applied to analyses run on behalf of uploads.
	DiversityConfig *DiversityConfig
}

func DefaultWebListenerConfig() ListenerConfig {
	return ListenerConfig{
		Network: "tcp",
		Address: "localhost:3000",
	}
}

func DefaultWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir:         DefaultDatadirRoot,
		ListenerConfig:  DefaultWebListenerConfig(),
		ResultCacheTTL:  15 * time.Minute,
		DiversityConfig: DefaultDiversityConfig(),
	}
}

func DefaultTestWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir: "",
		ListenerConfig: ListenerConfig{
			Network: "tcp",
			Address: "localhost:3333",
		},
		ResultCacheTTL:  time.Minute,
		DiversityConfig: DefaultDiversityConfig(),
	}
}
