package config

import (
	"encoding/json"
	"log"
	"os"
)

type Config struct {
	App       AppConfig                 `json:"app"`
	Server    ServerConfig              `json:"server"`
	Gateways  map[string]GatewayConfig  `json:"gateways"`
	Providers map[string]ProviderConfig `json:"providers"`
	Guard     GuardConfig               `json:"guard"`
	Contacts  ContactsConfig            `json:"contacts"`
}

type AppConfig struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

type ServerConfig struct {
	Port string `json:"port"`
}

type GatewayConfig struct {
	Token   string `json:"token"`
	Enabled bool   `json:"enabled"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
	Enabled bool   `json:"enabled"`
}

type GuardConfig struct {
	MaxRounds int `json:"max_rounds"`
}

type ContactsConfig struct {
	// Path optionally points at a YAML file overriding the built-in
	// region contact tables.
	Path string `json:"path,omitempty"`
}

func LoadConfig(path string) *Config {
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}
	defer file.Close()

	var cfg Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		log.Fatalf("failed to decode config file: %v", err)
	}

	cfg.applyEnvOverrides()
	return &cfg
}

// applyEnvOverrides lets deployment environments supply secrets and ports
// without editing the config file.
func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		for name, p := range c.Providers {
			p.APIKey = key
			c.Providers[name] = p
		}
	}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		if c.Gateways == nil {
			c.Gateways = make(map[string]GatewayConfig)
		}
		tg := c.Gateways["telegram"]
		tg.Token = token
		c.Gateways["telegram"] = tg
	}
}

// GetDefaultProvider returns the first enabled provider
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// GetTelegramConfig returns telegram config if enabled
func (c *Config) GetTelegramConfig() (GatewayConfig, bool) {
	tg, ok := c.Gateways["telegram"]
	if ok && tg.Enabled && tg.Token != "" {
		return tg, true
	}
	return GatewayConfig{}, false
}
