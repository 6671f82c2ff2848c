package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
		// AdminKey guards the review-history endpoints; empty disables auth.
		AdminKey string `yaml:"adminKey"`
		// AllowedOrigins for the browser client; empty means any origin.
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Database struct {
		// Driver selects the history backend: "mysql", "postgres" or ""
		// to run without persisted history.
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	AI struct {
		// Provider is "anthropic" (content-block proxy) or "openai".
		Provider  string `yaml:"provider"`
		BaseURL   string `yaml:"baseURL"`
		APIKey    string `yaml:"apiKey"`
		Model     string `yaml:"model"`
		MaxTokens int    `yaml:"maxTokens"`
	} `yaml:"ai"`

	Limits struct {
		MaxUploadMB     int `yaml:"maxUploadMB"`
		RateCapacity    int `yaml:"rateCapacity"`
		RateRefill      int `yaml:"rateRefill"`
		SessionTTLMin   int `yaml:"sessionTTLMinutes"`
		PhaseIntervalMS int `yaml:"phaseIntervalMS"`
	} `yaml:"limits"`
}

// Load reads the yaml config file
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
	if c.AI.Provider == "" {
		c.AI.Provider = "anthropic"
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = "http://localhost:8787"
	}
	if c.Limits.MaxUploadMB <= 0 {
		c.Limits.MaxUploadMB = 25
	}
	if c.Limits.RateCapacity <= 0 {
		c.Limits.RateCapacity = 30
	}
	if c.Limits.RateRefill <= 0 {
		c.Limits.RateRefill = 1
	}
	if c.Limits.SessionTTLMin <= 0 {
		c.Limits.SessionTTLMin = 60
	}
}

// MySQLDSN builds the MySQL connection string
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the Postgres connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
