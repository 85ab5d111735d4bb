package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Cache struct {
		// Backend: redis | memory | none (default memory)
		Backend string `yaml:"backend"`
	} `yaml:"cache"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Scraper struct {
		// Domain produk yang didukung, misal "meesho.com"
		Domain         string `yaml:"domain"`
		UserAgent      string `yaml:"userAgent"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"scraper"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Scraper.Domain == "" {
		c.Scraper.Domain = "meesho.com"
	}
	if c.Scraper.TimeoutSeconds == 0 {
		c.Scraper.TimeoutSeconds = 20
	}
	// API key dari env menang atas file, supaya tidak perlu commit secret
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
}

// Validate cek kombinasi config yang tidak masuk akal
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "redis":
		if c.Redis.Address == "" {
			return fmt.Errorf("cache backend redis requires redis.address")
		}
	case "memory", "none":
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Cache.Backend)
	}
	return nil
}

// OpenAIEnabled true kalau ada API key
func (c *Config) OpenAIEnabled() bool {
	return c.OpenAI.APIKey != ""
}
