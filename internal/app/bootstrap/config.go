// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// appKey declares one configuration key with its default and a short
// description for operators reading this file.
type appKey struct {
	Name    string
	Default any
	Desc    string
}

// appConfigKeys defines the configuration keys for ReliefHub.
// Each key is read from the environment as RELIEFHUB_<NAME> (upper
// case), from an optional config file, or falls back to its default.
var appConfigKeys = []appKey{
	{Name: "env", Default: "dev", Desc: "Runtime environment: 'dev' or 'prod'"},
	{Name: "http_addr", Default: ":8080", Desc: "HTTP listen address"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "reliefhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "redis_addr", Default: "localhost:6379", Desc: "Redis address for the permission cache"},
	{Name: "redis_password", Default: "", Desc: "Redis password (blank for none)"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "perm_cache_ttl", Default: "5m", Desc: "Effective-permission cache TTL"},

	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Access token signing key (must be strong in production)"},
	{Name: "jwt_issuer", Default: "reliefhub", Desc: "Access token issuer claim"},
	{Name: "access_token_ttl", Default: "15m", Desc: "Access token lifetime"},
	{Name: "refresh_token_ttl", Default: "720h", Desc: "Refresh token lifetime (default 30 days)"},

	{Name: "otp_expiry", Default: "5m", Desc: "OTP code lifetime"},
	{Name: "otp_sends_per_ip", Default: 10, Desc: "OTP sends allowed per IP per window"},
	{Name: "otp_ip_window", Default: "1m", Desc: "OTP per-IP rate window"},
	{Name: "otp_sends_per_phone", Default: 3, Desc: "OTP sends allowed per phone per window"},
	{Name: "otp_phone_window", Default: "10m", Desc: "OTP per-phone rate window"},

	{Name: "sms_provider", Default: "log", Desc: "SMS provider: 'gateway' or 'log'"},
	{Name: "sms_gateway_url", Default: "", Desc: "SMS gateway endpoint URL"},
	{Name: "sms_api_key", Default: "", Desc: "SMS gateway API key"},
	{Name: "sms_sender_id", Default: "ReliefHub", Desc: "SMS sender ID shown to recipients"},

	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "", Desc: "S3 key prefix"},
	{Name: "storage_s3_base_url", Default: "", Desc: "CDN/base URL for S3 objects (defaults to the bucket endpoint)"},

	{Name: "activity_log_mode", Default: "all", Desc: "Activity logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "activity_log_retention_days", Default: 0, Desc: "Days of activity log to keep (0 disables the sweep)"},
	{Name: "activity_log_clean_hard", Default: false, Desc: "Hard-delete cleaned log entries instead of tombstoning"},

	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated CORS origins for the admin SPA"},

	{Name: "superadmin_phone", Default: "", Desc: "Phone of the super admin account (upserts on startup)"},
	{Name: "superadmin_name", Default: "Super Admin", Desc: "Display name for a newly created super admin"},
}

// LoadConfig loads the app configuration.
//
// Precedence: environment variables (RELIEFHUB_*) > config file
// (RELIEFHUB_CONFIG_FILE, if set) > .env file > defaults. godotenv only
// populates variables that are not already set, so real environment
// always wins over .env.
func LoadConfig(logger *zap.Logger) (AppConfig, error) {
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded .env file")
	}

	v := viper.New()
	v.SetEnvPrefix("RELIEFHUB")
	v.AutomaticEnv()
	for _, k := range appConfigKeys {
		v.SetDefault(k.Name, k.Default)
	}

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		logger.Info("loaded config file", zap.String("path", path))
	}

	cfg := AppConfig{
		Env:      v.GetString("env"),
		HTTPAddr: v.GetString("http_addr"),

		MongoURI:         v.GetString("mongo_uri"),
		MongoDatabase:    v.GetString("mongo_database"),
		MongoMaxPoolSize: uint64(v.GetInt("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(v.GetInt("mongo_min_pool_size")),

		RedisAddr:     v.GetString("redis_addr"),
		RedisPassword: v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),
		PermCacheTTL:  durationKey(v, "perm_cache_ttl", 5*time.Minute),

		JWTSecret:       v.GetString("jwt_secret"),
		JWTIssuer:       v.GetString("jwt_issuer"),
		AccessTokenTTL:  durationKey(v, "access_token_ttl", 15*time.Minute),
		RefreshTokenTTL: durationKey(v, "refresh_token_ttl", 30*24*time.Hour),

		OTPExpiry:        durationKey(v, "otp_expiry", 5*time.Minute),
		OTPSendsPerIP:    v.GetInt("otp_sends_per_ip"),
		OTPIPWindow:      durationKey(v, "otp_ip_window", time.Minute),
		OTPSendsPerPhone: v.GetInt("otp_sends_per_phone"),
		OTPPhoneWindow:   durationKey(v, "otp_phone_window", 10*time.Minute),

		SMSProvider:   v.GetString("sms_provider"),
		SMSGatewayURL: v.GetString("sms_gateway_url"),
		SMSAPIKey:     v.GetString("sms_api_key"),
		SMSSenderID:   v.GetString("sms_sender_id"),

		StorageType:      v.GetString("storage_type"),
		StorageLocalPath: v.GetString("storage_local_path"),
		StorageLocalURL:  v.GetString("storage_local_url"),
		StorageS3Region:  v.GetString("storage_s3_region"),
		StorageS3Bucket:  v.GetString("storage_s3_bucket"),
		StorageS3Prefix:  v.GetString("storage_s3_prefix"),
		StorageS3BaseURL: v.GetString("storage_s3_base_url"),

		ActivityLogMode: v.GetString("activity_log_mode"),
		RetentionDays:   v.GetInt("activity_log_retention_days"),
		CleanHard:       v.GetBool("activity_log_clean_hard"),

		CORSAllowedOrigins: splitOrigins(v.GetString("cors_allowed_origins")),

		SuperAdminPhone: v.GetString("superadmin_phone"),
		SuperAdminName:  v.GetString("superadmin_name"),
	}

	return cfg, nil
}

// durationKey parses a duration-valued key, falling back to def on a
// malformed value. Misconfiguration here should not take the service
// down; the fallback is logged by ValidateConfig callers via defaults.
func durationKey(v *viper.Viper, name string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(name))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}

// ValidateConfig enforces config invariants before anything connects.
//
// Dev mode is permissive so a bare checkout runs; prod mode refuses to
// start with the default JWT secret, a weak secret, or an incomplete
// storage or SMS configuration.
func ValidateConfig(cfg AppConfig, logger *zap.Logger) error {
	if cfg.Env != "dev" && cfg.Env != "prod" {
		return fmt.Errorf("env must be 'dev' or 'prod', got %q", cfg.Env)
	}

	if !strings.HasPrefix(cfg.MongoURI, "mongodb://") && !strings.HasPrefix(cfg.MongoURI, "mongodb+srv://") {
		return fmt.Errorf("mongo_uri must start with mongodb:// or mongodb+srv://")
	}

	switch cfg.StorageType {
	case "local":
	case "s3":
		if cfg.StorageS3Region == "" || cfg.StorageS3Bucket == "" {
			return fmt.Errorf("storage_type 's3' requires storage_s3_region and storage_s3_bucket")
		}
	default:
		return fmt.Errorf("storage_type must be 'local' or 's3', got %q", cfg.StorageType)
	}

	switch cfg.SMSProvider {
	case "log":
	case "gateway":
		if cfg.SMSGatewayURL == "" || cfg.SMSAPIKey == "" {
			return fmt.Errorf("sms_provider 'gateway' requires sms_gateway_url and sms_api_key")
		}
	default:
		return fmt.Errorf("sms_provider must be 'gateway' or 'log', got %q", cfg.SMSProvider)
	}

	switch cfg.ActivityLogMode {
	case "all", "db", "log", "off":
	default:
		return fmt.Errorf("activity_log_mode must be 'all', 'db', 'log', or 'off', got %q", cfg.ActivityLogMode)
	}

	if cfg.Env == "prod" {
		if cfg.JWTSecret == "" || strings.HasPrefix(cfg.JWTSecret, "dev-only-") {
			return fmt.Errorf("jwt_secret must be set to a real secret in prod")
		}
		if len(cfg.JWTSecret) < 32 {
			return fmt.Errorf("jwt_secret must be at least 32 characters in prod")
		}
		if cfg.SMSProvider == "log" {
			logger.Warn("sms_provider is 'log' in prod; no SMS will actually be sent")
		}
	}

	return nil
}
