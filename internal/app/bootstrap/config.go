// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LearnHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_audience, etc.
//   - Environment variables: LEARNHUB_MONGO_URI, LEARNHUB_AUTH_AUDIENCE, etc.
//   - Command-line flags: --mongo_uri, --auth_audience, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "learnhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Token validation
	{Name: "auth_issuer_url", Default: "", Desc: "Identity provider issuer URL (JWKS endpoint lives under it)"},
	{Name: "auth_audience", Default: "learnhub-api", Desc: "Expected audience claim of bearer tokens"},
	{Name: "auth_dev_secret", Default: "", Desc: "HS256 shared secret for local development tokens (never set in production)"},

	// Identity provider management API and webhook
	{Name: "identity_api_url", Default: "https://api.clerk.com", Desc: "Identity provider management API root"},
	{Name: "identity_secret_key", Default: "", Desc: "Identity provider secret key (blank disables role mirroring)"},
	{Name: "webhook_secret", Default: "", Desc: "Signing secret for the identity provider's user webhook"},

	// Thumbnail storage configuration
	{Name: "media_type", Default: "local", Desc: "Thumbnail storage backend: 'local' or 'host'"},
	{Name: "media_local_path", Default: "./uploads/media", Desc: "Local storage path for uploaded thumbnails"},
	{Name: "media_local_url", Default: "/media", Desc: "URL prefix for serving local thumbnails"},
	{Name: "media_upload_url", Default: "", Desc: "Media host upload endpoint (media_type 'host')"},
	{Name: "media_upload_preset", Default: "", Desc: "Media host upload preset (media_type 'host')"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LEARNHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LEARNHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		AuthIssuerURL: appValues.String("auth_issuer_url"),
		AuthAudience:  appValues.String("auth_audience"),
		AuthDevSecret: appValues.String("auth_dev_secret"),

		IdentityAPIURL:    appValues.String("identity_api_url"),
		IdentitySecretKey: appValues.String("identity_secret_key"),
		WebhookSecret:     appValues.String("webhook_secret"),

		MediaType:         appValues.String("media_type"),
		MediaLocalPath:    appValues.String("media_local_path"),
		MediaLocalURL:     appValues.String("media_local_url"),
		MediaUploadURL:    appValues.String("media_upload_url"),
		MediaUploadPreset: appValues.String("media_upload_preset"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// LearnHub validates the MongoDB URI format to catch configuration
// errors early, and enforces the auth invariants: production must use
// the provider's JWKS, never the dev secret.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AuthDevSecret == "" && appCfg.AuthIssuerURL == "" {
		return fmt.Errorf("auth_issuer_url is required unless auth_dev_secret is set")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.AuthDevSecret != "" {
		return fmt.Errorf("auth_dev_secret must not be set in production")
	}

	switch appCfg.MediaType {
	case "local":
		// defaults are always usable
	case "host":
		if appCfg.MediaUploadURL == "" {
			return fmt.Errorf("media_upload_url is required when media_type is 'host'")
		}
	default:
		return fmt.Errorf("media_type must be 'local' or 'host', got %q", appCfg.MediaType)
	}

	return nil
}
