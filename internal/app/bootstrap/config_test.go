package bootstrap

import (
	"testing"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "learnhub",
		AuthAudience:  "learnhub-api",
		AuthDevSecret: "dev-secret",
		MediaType:     "local",
	}
}

func TestValidateConfigAccepts(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfigRejectsBadMongoURI(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoURI = "not-a-mongo-uri"
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for malformed Mongo URI")
	}
}

func TestValidateConfigRequiresIssuerOrDevSecret(t *testing.T) {
	cfg := validAppConfig()
	cfg.AuthDevSecret = ""
	cfg.AuthIssuerURL = ""
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error when neither issuer nor dev secret is set")
	}
}

func TestValidateConfigRejectsUnknownMediaType(t *testing.T) {
	cfg := validAppConfig()
	cfg.MediaType = "ftp"
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown media type")
	}
}

func TestValidateConfigHostNeedsUploadURL(t *testing.T) {
	cfg := validAppConfig()
	cfg.MediaType = "host"
	cfg.MediaUploadURL = ""
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error when host storage has no upload URL")
	}
}
