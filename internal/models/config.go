package models

import "time"

// Config represents the application configuration
type Config struct {
	Api      ApiConfig
	Database DatabaseConfig
	Export   ExportConfig
	LogLevel string
}

// ApiConfig holds REST backend connection settings
type ApiConfig struct {
	BaseURL         string
	RequestTimeout  time.Duration
	DialTimeout     time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// DatabaseConfig holds settings for the local session database
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// ExportConfig holds spreadsheet export settings
type ExportConfig struct {
	Directory   string
	HeadersFile string
}
