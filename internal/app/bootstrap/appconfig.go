// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: CoreConfig handles
// ports, TLS, logging level, CORS, and other framework settings.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Bearer-token validation. Authentication is delegated to the
	// identity provider; this app only verifies the tokens it issues.
	AuthIssuerURL string // Identity provider issuer URL (JWKS lives under it)
	AuthAudience  string // Expected token audience
	AuthDevSecret string // HS256 shared secret for dev/test tokens (disables JWKS when set)

	// Identity-provider management API (role mirroring) and webhook.
	IdentityAPIURL    string // Provider management API root (e.g., https://api.clerk.com)
	IdentitySecretKey string // Provider secret key; empty disables role mirroring
	WebhookSecret     string // Signing secret for the provider's user webhook

	// Thumbnail storage configuration
	MediaType         string // Storage backend: "local" or "host"
	MediaLocalPath    string // Local storage path (e.g., "./uploads/media")
	MediaLocalURL     string // URL prefix for serving local files (e.g., "/media")
	MediaUploadURL    string // Media host upload endpoint (only for "host")
	MediaUploadPreset string // Media host upload preset name (only for "host")
}
