package core

import (
	"errors"
	"fmt"
	"log/slog"
)

const (
	defaultConfigEnvironment = "development"
	defaultConfigPort        = 8000
	defaultSkipAuth          = false

	defaultOtelDisable          = false
	defaultOTLPExporterEndpoint = "localhost:4317"
	defaultOTLPInsecure         = false

	defaultCognitoRegion      = "us-east-1"
	defaultCognitoUserPoolID  = "UNSET"
	defaultCognitoAppClientID = "UNSET"

	defaultRedisAddr     = "localhost:6379"
	defaultRedisPassword = ""
	defaultRedisDB       = 0

	defaultRegistryEnvironment    = "uat"
	defaultRegistryAPIVersion     = "v1.0"
	defaultRegistryTimeoutSeconds = 30
	defaultRegistryBreaker        = false
)

func DefaultConfig() Config {
	return Config{
		Environment: defaultConfigEnvironment,
		LogLevel:    slog.LevelInfo,
		Port:        defaultConfigPort,
		SkipAuth:    defaultSkipAuth,
		Otel: OtelConfig{
			Disable: defaultOtelDisable,
			OtlpExporter: OtlpConfig{
				Endpoint: defaultOTLPExporterEndpoint,
				Insecure: defaultOTLPInsecure,
			},
		},
		Cognito: CognitoConfig{
			Region:      defaultCognitoRegion,
			UserPoolID:  defaultCognitoUserPoolID,
			AppClientID: defaultCognitoAppClientID,
		},
		Redis: RedisConfig{
			Addr:     defaultRedisAddr,
			Password: defaultRedisPassword,
			DB:       defaultRedisDB,
		},
		Registry: RegistryConfig{
			Environment:    defaultRegistryEnvironment,
			APIVersion:     defaultRegistryAPIVersion,
			TimeoutSeconds: defaultRegistryTimeoutSeconds,
			Breaker:        defaultRegistryBreaker,
		},
	}
}

func NewConfig(options ...func(*Config)) Config {
	config := DefaultConfig()
	for _, opt := range options {
		opt(&config)
	}
	return config
}

func NewConfigFromEnv(options ...func(*Config)) (Config, error) {
	config := DefaultConfig()
	err := errors.Join(
		setFromEnv(&config.Environment, "ENVIRONMENT"),
		setFromEnv(&config.LogLevel, "LOG_LEVEL"),
		setFromEnv(&config.Port, "PORT"),
		setFromEnv(&config.SkipAuth, "SKIP_AUTH"),
		setFromEnv(&config.Otel.Disable, "OTEL_DISABLE"),
		setFromEnv(&config.Otel.OtlpExporter.Endpoint, "OTEL_OTLP_EXPORTER_ENDPOINT"),
		setFromEnv(&config.Otel.OtlpExporter.Insecure, "OTEL_OTLP_EXPORTER_INSECURE"),
		setFromEnv(&config.Cognito.Region, "COGNITO_REGION"),
		setFromEnv(&config.Cognito.UserPoolID, "COGNITO_USER_POOL_ID"),
		setFromEnv(&config.Cognito.AppClientID, "COGNITO_APP_CLIENT_ID"),
		setFromEnv(&config.Redis.Addr, "REDIS_ADDR"),
		setFromEnv(&config.Redis.Password, "REDIS_PASSWORD"),
		setFromEnv(&config.Redis.DB, "REDIS_DB"),
		setFromEnv(&config.Registry.Environment, "REGISTRY_ENVIRONMENT"),
		setFromEnv(&config.Registry.BaseURL, "REGISTRY_BASE_URL"),
		setFromEnv(&config.Registry.CertPath, "REGISTRY_CERT_PATH"),
		setFromEnv(&config.Registry.KeyPath, "REGISTRY_KEY_PATH"),
		setFromEnv(&config.Registry.CAPath, "REGISTRY_CA_PATH"),
		setFromEnv(&config.Registry.EncryptionKey, "REGISTRY_ENCRYPTION_KEY"),
		setFromEnv(&config.Registry.APIVersion, "REGISTRY_API_VERSION"),
		setFromEnv(&config.Registry.UEN, "REGISTRY_UEN"),
		setFromEnv(&config.Registry.OAuthClientID, "REGISTRY_OAUTH_CLIENT_ID"),
		setFromEnv(&config.Registry.OAuthClientSecret, "REGISTRY_OAUTH_CLIENT_SECRET"),
		setFromEnv(&config.Registry.OAuthTokenURL, "REGISTRY_OAUTH_TOKEN_URL"),
		setFromEnv(&config.Registry.TimeoutSeconds, "REGISTRY_TIMEOUT_SECONDS"),
		setFromEnv(&config.Registry.Breaker, "REGISTRY_BREAKER"),
	)

	for _, opt := range options {
		opt(&config)
	}

	return config, err
}

func LoadEnv(environment ...string) error {
	filenames := []string{
		".env.local",
		".env",
	}

	env := getEnv("ENVIRONMENT", DefaultConfig().Environment)
	if len(environment) > 0 {
		env = environment[0]
	}

	if env != "" {
		file := ".env." + env + ".local"
		filenames = append([]string{file}, filenames...)
	}

	var errs error

	for _, filename := range filenames {
		err := loadEnvFile(filename)
		if err != nil {
			errs = errors.Join(
				errs,
				fmt.Errorf("error loading %s: %w", filename, err),
			)
		}
	}

	return errs
}
