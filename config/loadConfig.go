package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"
)

// Defaults and environment variable names.
const (
	defaultTimeoutMinutes  = 60
	defaultMongoURI        = "mongodb://localhost:27017/lever2lever"
	defaultMongoHost       = "localhost"
	defaultMongoPort       = "27017"
	defaultLeverBaseURL    = "https://api.lever.co/v1"
	defaultMappingDir      = "./mapping-data"
	defaultWorkDir         = "./temp/leverOppFiles"
	defaultBatchSize       = 25
	envMongoURI            = "MONGO_URI"
	envMongoHost           = "MONGO_HOST"
	envMongoUser           = "MONGO_USER"
	envMongoPassword       = "MONGO_PASSWORD"
	envSourceBaseURL       = "LEVER_SOURCE_BASE_URL"
	envSourceAPIKey        = "LEVER_SOURCE_API_KEY"
	envTargetBaseURL       = "LEVER_TARGET_BASE_URL"
	envTargetAPIKey        = "LEVER_TARGET_API_KEY"
	envMappingDirectory    = "MAPPING_DIR"
	envWorkDirectory       = "WORK_DIR"
	envBatchSize           = "BATCH_SIZE"
	envDefaultPerformAs    = "DEFAULT_PERFORM_AS"
)

var errMissingAPIKey = errors.New("missing lever api key")
var errMissingPerformAs = errors.New("missing default performing user id")

// MissingAPIKeyError reports which tenant is missing its credential.
func MissingAPIKeyError(envVar string) error {
	return fmt.Errorf("%w, %s", errMissingAPIKey, envVar)
}

// LoadConfig loads the application configuration from environment variables
// or uses default values. Credentials have no defaults; missing credentials
// fail the run.
func LoadConfig(ctx context.Context, logger *slog.Logger) (*Config, error) {
	mongoURI := os.Getenv(envMongoURI)
	mongoURI = formatMongoURI(ctx, mongoURI, logger)

	source, err := loadTenant(ctx, envSourceBaseURL, envSourceAPIKey, logger)
	if err != nil {
		return nil, err
	}

	target, err := loadTenant(ctx, envTargetBaseURL, envTargetAPIKey, logger)
	if err != nil {
		return nil, err
	}

	performAs := os.Getenv(envDefaultPerformAs)
	if performAs == "" {
		return nil, errMissingPerformAs
	}

	mappingDir := getEnvOrDefault(ctx, envMappingDirectory, defaultMappingDir, "mapping directory", logger)
	workDir := getEnvOrDefault(ctx, envWorkDirectory, defaultWorkDir, "work directory", logger)

	batchSize := int64(defaultBatchSize)
	if batchSizeStr := os.Getenv(envBatchSize); batchSizeStr != "" {
		parsed, parseErr := strconv.ParseInt(batchSizeStr, 10, 64)
		if parseErr != nil || parsed <= 0 {
			logger.WarnContext(
				ctx,
				"Invalid value for BATCH_SIZE, using default",
				"value", batchSizeStr,
				"default", defaultBatchSize,
				"error", parseErr,
			)
		} else {
			batchSize = parsed
			logger.DebugContext(ctx, "Set batch size from environment variable", "value", batchSize)
		}
	} else {
		logger.DebugContext(ctx, "Using default batch size", "value", batchSize)
	}

	return &Config{
		MongoURI:         mongoURI,
		Source:           source,
		Target:           target,
		MappingDir:       mappingDir,
		WorkDir:          workDir,
		BatchSize:        batchSize,
		DefaultPerformAs: performAs,
		Timeout:          defaultTimeoutMinutes * time.Minute,
	}, nil
}

// loadTenant assembles one tenant endpoint from its env var pair.
func loadTenant(
	ctx context.Context,
	baseURLVar string,
	apiKeyVar string,
	logger *slog.Logger,
) (TenantConfig, error) {
	baseURL := os.Getenv(baseURLVar)
	if baseURL == "" {
		baseURL = defaultLeverBaseURL
		logger.DebugContext(ctx, "Using default Lever base URL", "env", baseURLVar, "url", baseURL)
	} else {
		logger.DebugContext(ctx, "Using Lever base URL from environment variable", "env", baseURLVar, "url", baseURL)
	}

	apiKey := os.Getenv(apiKeyVar)
	if apiKey == "" {
		return TenantConfig{}, MissingAPIKeyError(apiKeyVar)
	}

	return TenantConfig{BaseURL: baseURL, APIKey: apiKey}, nil
}

// getEnvOrDefault fetches an env var or falls back to a default value.
func getEnvOrDefault(
	ctx context.Context,
	envVar string,
	defaultValue string,
	what string,
	logger *slog.Logger,
) string {
	value := os.Getenv(envVar)
	if value == "" {
		value = defaultValue
		logger.DebugContext(ctx, "Using default "+what, "value", value)
	} else {
		logger.DebugContext(ctx, "Using "+what+" from environment variable", "value", value)
	}

	return value
}

// formatMongoURI formats mongo settings to a url and return the result.
func formatMongoURI(
	ctx context.Context,
	mongoURI string,
	logger *slog.Logger,
) string {
	if mongoURI != "" {
		logger.DebugContext(ctx, "Using MongoDB URI from environment variable", "uri", mongoURI)
		return mongoURI
	}

	mongoHost := os.Getenv(envMongoHost)
	if mongoHost == "" {
		mongoHost = defaultMongoHost
		logger.DebugContext(ctx, "Using default MongoDB host", "host", mongoHost)
	} else {
		logger.DebugContext(ctx, "Using MongoDB host from environment variable", "host", mongoHost)
	}

	mongoUser := os.Getenv(envMongoUser)
	mongoPassword := os.Getenv(envMongoPassword)

	if mongoUser != "" && mongoPassword != "" {
		hostPort := net.JoinHostPort(mongoHost, defaultMongoPort)
		mongoURI = fmt.Sprintf(
			"mongodb://%s:%s@%s/lever2lever?authSource=admin",
			mongoUser,
			mongoPassword,
			hostPort,
		)
		logger.DebugContext(ctx, "Created MongoDB URI from user, password, and host", "uri", mongoURI)
	} else {
		mongoURI = defaultMongoURI
		logger.DebugContext(ctx, "Using default MongoDB URI", "uri", mongoURI)
	}
	return mongoURI
}
