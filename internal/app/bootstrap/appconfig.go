// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds every runtime setting for ReliefHub.
//
// Values come from environment variables (RELIEFHUB_*), an optional
// config file, and a .env file if one is present, loaded and merged in
// LoadConfig. Defaults are registered in appConfigKeys so a bare
// `reliefhub` starts against local Mongo and Redis with log-only SMS
// and local file storage.
//
// Add fields here as the application grows; every field should have a
// matching entry in appConfigKeys.
type AppConfig struct {
	// Env selects runtime behavior: "dev" or "prod". Prod enables JSON
	// logging and enforces the stricter config validation rules.
	Env string

	// HTTPAddr is the listen address, e.g. ":8080".
	HTTPAddr string

	// MongoDB connection configuration.
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Redis backs the effective-permission cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PermCacheTTL  time.Duration

	// Token configuration. The secret signs HS256 access tokens; refresh
	// tokens are opaque and stored hashed.
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// OTP delivery and throttling.
	OTPExpiry        time.Duration
	OTPSendsPerIP    int
	OTPIPWindow      time.Duration
	OTPSendsPerPhone int
	OTPPhoneWindow   time.Duration

	// SMS gateway configuration. Provider "log" writes codes to the
	// process log instead of sending, for development.
	SMSProvider   string
	SMSGatewayURL string
	SMSAPIKey     string
	SMSSenderID   string

	// File storage configuration. Type is "local" or "s3".
	StorageType      string
	StorageLocalPath string
	StorageLocalURL  string
	StorageS3Region  string
	StorageS3Bucket  string
	StorageS3Prefix  string
	StorageS3BaseURL string

	// Activity log behavior. Mode: "all" (db+log), "db", "log", or "off".
	// RetentionDays <= 0 disables the retention sweep; CleanHard selects
	// hard deletion over tombstoning for both the sweep and the endpoint.
	ActivityLogMode string
	RetentionDays   int
	CleanHard       bool

	// CORS origins allowed to call the API (the admin SPA).
	CORSAllowedOrigins []string

	// SuperAdmin bootstrap: when the phone is set, startup upserts an
	// active super admin account with that number.
	SuperAdminPhone string
	SuperAdminName  string
}
