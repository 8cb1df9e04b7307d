package core

import "log/slog"

type Config struct {
	Cognito     CognitoConfig
	Environment string
	LogLevel    slog.Level
	Otel        OtelConfig
	Port        int
	SkipAuth    bool
	Redis       RedisConfig
	Registry    RegistryConfig
}

type OtlpConfig struct {
	Endpoint string
	Insecure bool
}

type OtelConfig struct {
	OtlpExporter OtlpConfig
	Disable      bool
}

type CognitoConfig struct {
	Region      string
	UserPoolID  string
	AppClientID string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RegistryConfig describes the training registry environment the client
// talks to and the credentials it presents.
type RegistryConfig struct {
	// production, uat or mock.
	Environment string
	// Overrides the environment's base URL when set.
	BaseURL string
	// PEM client certificate, private key and optional CA bundle.
	CertPath string
	KeyPath  string
	CAPath   string
	// Base64 AES-256 key for encrypted payloads.
	EncryptionKey string
	APIVersion    string
	// UEN of the training provider, used as the default for lookups.
	UEN string
	// Optional OAuth client credentials sent on top of mutual TLS.
	OAuthClientID     string
	OAuthClientSecret string
	OAuthTokenURL     string
	// Seconds before a registry request is abandoned.
	TimeoutSeconds int
	// Share breaker state through redis.
	Breaker bool
}
