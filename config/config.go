package config

import "time"

// TenantConfig identifies one credentialed endpoint of the Lever API.
type TenantConfig struct {
	BaseURL string
	APIKey  string
}

// Config holds the application configuration.
type Config struct {
	MongoURI         string
	Source           TenantConfig
	Target           TenantConfig
	MappingDir       string
	WorkDir          string
	BatchSize        int64
	DefaultPerformAs string
	Timeout          time.Duration
}
