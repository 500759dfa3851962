package config

import "strings"

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "INFO",
		},
		Server: ServerConfig{
			Host:     "127.0.0.1",
			Port:     0,
			User:     "user",
			Password: "pw",
		},
		Journal: JournalConfig{
			Type: "memory",
		},
	}
}

// ApplyDefaults fills zero values and normalizes the log level.
func ApplyDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)

	if cfg.Server.Host == "" {
		cfg.Server.Host = defaults.Server.Host
	}
	if cfg.Server.User == "" {
		cfg.Server.User = defaults.Server.User
	}

	if cfg.Journal.Type == "" {
		cfg.Journal.Type = defaults.Journal.Type
	}
	cfg.Journal.Type = strings.ToLower(cfg.Journal.Type)
}
