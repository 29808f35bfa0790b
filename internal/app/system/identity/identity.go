// Package identity talks to the identity provider's management API.
//
// The provider owns authentication and user profiles; the only write this
// app performs against it is mirroring the educator role into the user's
// public metadata so freshly issued tokens carry the claim.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client is the slice of the provider's management API this app uses.
type Client interface {
	// SetUserRole writes role into the user's public metadata.
	SetUserRole(ctx context.Context, userID, role string) error
}

// HTTPClient calls the provider's management REST API with a secret key.
type HTTPClient struct {
	baseURL   string
	secretKey string
	hc        *http.Client
	log       *zap.Logger
}

// NewHTTPClient builds a management API client. baseURL is the provider's
// API root (e.g. https://api.clerk.com).
func NewHTTPClient(baseURL, secretKey string, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		hc:        &http.Client{Timeout: 10 * time.Second},
		log:       logger,
	}
}

// SetUserRole patches the user's public metadata on the provider.
func (c *HTTPClient) SetUserRole(ctx context.Context, userID, role string) error {
	payload := map[string]any{
		"public_metadata": map[string]any{"role": role},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("identity: marshal metadata: %w", err)
	}

	url := fmt.Sprintf("%s/v1/users/%s/metadata", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("identity: update metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("identity: metadata update rejected",
			zap.String("user_id", userID),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("identity: metadata update failed with status %d", resp.StatusCode)
	}
	return nil
}

// Nop is a Client that does nothing. Used when no provider secret is
// configured (local development) and in tests.
type Nop struct{}

func (Nop) SetUserRole(ctx context.Context, userID, role string) error { return nil }
