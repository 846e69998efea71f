package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Download DownloadConfig `mapstructure:"download"`
	People   PeopleConfig   `mapstructure:"people"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Update   UpdateConfig   `mapstructure:"update"`
}

// APIConfig holds the remote service connection details
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig lists the places an access token is read from, in order
type AuthConfig struct {
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token_file"`
	TokenEnv  string `mapstructure:"token_env"`
}

// DownloadConfig controls where attachments are written
type DownloadConfig struct {
	Dir string `mapstructure:"dir"`
}

// PeopleConfig contains people endpoint settings
type PeopleConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
	File   string `mapstructure:"file"`
}

// UpdateConfig names the GitHub repository releases are fetched from
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
