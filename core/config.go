package core

import (
	"fmt"
	"strings"
)

type StoreConfig struct {
	Driver string `koanf:"driver" mapstructure:"driver"`
	DSN    string `koanf:"dsn" mapstructure:"dsn"`
}

type DebugConfig struct {
	// ListLimit caps the debug contact/deal listings.
	ListLimit int `koanf:"list_limit" mapstructure:"list_limit"`
}

type Config struct {
	ServiceName string      `koanf:"service_name" mapstructure:"service_name"`
	ListenAddr  string      `koanf:"listen_addr" mapstructure:"listen_addr"`
	Store       StoreConfig `koanf:"store" mapstructure:"store"`
	Debug       DebugConfig `koanf:"debug" mapstructure:"debug"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "crm-sync",
		ListenAddr:  ":3000",
		Store: StoreConfig{
			Driver: "postgres",
		},
		Debug: DebugConfig{
			ListLimit: 200,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Debug.ListLimit < 0 {
		return fmt.Errorf("core: debug.list_limit must not be negative")
	}
	return nil
}
