package config

import "time"

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	ClientURL   string `yaml:"client_url"`
}

// JWTConfig holds token validation settings.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// ShurjoPayConfig holds the merchant account and callback targets for
// the payment gateway.
type ShurjoPayConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	Prefix    string        `yaml:"prefix"`
	ReturnURL string        `yaml:"return_url"`
	CancelURL string        `yaml:"cancel_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// RedisConfig holds the token cache connection. The cache is optional;
// with Enabled false the gateway fetches a fresh token per call.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Output      string `yaml:"output"`
	FilePath    string `yaml:"file_path"`
	Development bool   `yaml:"development"`
}
