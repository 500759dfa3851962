// Package config loads the settings of the sftptest command.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
	Content ContentConfig `mapstructure:"content"`
	Journal JournalConfig `mapstructure:"journal"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN WARNING ERROR FATAL debug info warn warning error fatal"`
	File    string `mapstructure:"file"`
	JSON    bool   `mapstructure:"json"`
	NoColor bool   `mapstructure:"no_color"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host" validate:"required"`
	Port        int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	HostKeyFile string `mapstructure:"host_key_file"`
	User        string `mapstructure:"user" validate:"required"`
	Password    string `mapstructure:"password"`
}

// ContentConfig points at the YAML document that is served. An empty file
// serves an empty root.
type ContentConfig struct {
	File string `mapstructure:"file"`
}

type JournalConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=memory sqlite none"`
	Path string `mapstructure:"path"`
}

// Load reads the config file at path, applies SFTPTEST_* environment
// overrides and defaults, and validates the result. An empty path loads
// defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setupViper(v, path)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setupViper(v *viper.Viper, path string) {
	v.SetEnvPrefix("SFTPTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only covers keys viper knows about
	defaults := Default()
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.json", defaults.Logging.JSON)
	v.SetDefault("logging.no_color", defaults.Logging.NoColor)
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.host_key_file", defaults.Server.HostKeyFile)
	v.SetDefault("server.user", defaults.Server.User)
	v.SetDefault("server.password", defaults.Server.Password)
	v.SetDefault("content.file", defaults.Content.File)
	v.SetDefault("journal.type", defaults.Journal.Type)
	v.SetDefault("journal.path", defaults.Journal.Path)

	if path != "" {
		v.SetConfigFile(path)
	}
}

func readConfigFile(v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		return nil
	}

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}
