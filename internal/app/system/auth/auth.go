// Package auth validates bearer tokens issued by the identity provider.
//
// Authentication itself is delegated: the provider signs session tokens
// and hosts the JWKS used to verify them. This package only checks the
// token and exposes the caller's identity (subject and role claim) to
// handlers through the request context. User records are provisioned
// separately via the provider's webhook, so a valid token does not imply
// a local user record exists yet.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"go.uber.org/zap"

	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/domain/models"
)

// Config selects how tokens are verified.
//
// In production IssuerURL points at the identity provider and keys come
// from its JWKS endpoint. When DevSecret is set, tokens are instead
// verified as HS256 with that shared secret, which is used for local
// development and tests where no provider is reachable.
type Config struct {
	IssuerURL string
	Audience  string
	DevSecret string
}

// CustomClaims carries the provider's public-metadata role claim.
type CustomClaims struct {
	Role string `json:"role"`
}

// Validate implements validator.CustomClaims. The role claim is optional
// (students typically have none), so there is nothing to reject here.
func (c *CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// Verifier wraps the JWT middleware for mounting on routers.
type Verifier struct {
	mw  *jwtmiddleware.JWTMiddleware
	log *zap.Logger
}

// NewVerifier builds a token verifier from config.
func NewVerifier(cfg Config, logger *zap.Logger) (*Verifier, error) {
	if cfg.Audience == "" {
		return nil, fmt.Errorf("auth: audience is required")
	}

	newClaims := func() validator.CustomClaims { return &CustomClaims{} }

	var v *validator.Validator
	var err error
	if cfg.DevSecret != "" {
		logger.Warn("auth: using HS256 dev secret; not for production")
		keyFunc := func(ctx context.Context) (interface{}, error) {
			return []byte(cfg.DevSecret), nil
		}
		v, err = validator.New(
			keyFunc,
			validator.HS256,
			cfg.IssuerURL,
			[]string{cfg.Audience},
			validator.WithCustomClaims(newClaims),
			validator.WithAllowedClockSkew(time.Minute),
		)
	} else {
		issuer, perr := url.Parse(cfg.IssuerURL)
		if perr != nil {
			return nil, fmt.Errorf("auth: parse issuer URL: %w", perr)
		}
		provider := jwks.NewCachingProvider(issuer, 5*time.Minute)
		v, err = validator.New(
			provider.KeyFunc,
			validator.RS256,
			issuer.String(),
			[]string{cfg.Audience},
			validator.WithCustomClaims(newClaims),
			validator.WithAllowedClockSkew(time.Minute),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("auth: build validator: %w", err)
	}

	mw := jwtmiddleware.New(
		v.ValidateToken,
		jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Debug("auth: token rejected", zap.Error(err))
			respond.FailStatus(w, http.StatusUnauthorized, "Unauthorized")
		}),
	)

	return &Verifier{mw: mw, log: logger}, nil
}

// RequireAuth rejects requests without a valid bearer token.
func (v *Verifier) RequireAuth(next http.Handler) http.Handler {
	return v.mw.CheckJWT(next)
}

// RequireEducator rejects requests whose token lacks the educator role
// claim. Must be mounted inside RequireAuth.
func RequireEducator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Role(r) != models.RoleEducator {
			respond.Fail(w, "Unauthorized Access")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the identity provider subject of the validated token.
func UserID(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok || claims.RegisteredClaims.Subject == "" {
		return "", false
	}
	return claims.RegisteredClaims.Subject, true
}

// Role returns the role claim of the validated token, or "" when absent.
func Role(r *http.Request) string {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok {
		return ""
	}
	if cc, ok := claims.CustomClaims.(*CustomClaims); ok && cc != nil {
		return cc.Role
	}
	return ""
}

// WithTestUser injects validated claims for userID into the request
// context, bypassing token verification. Test helper only.
func WithTestUser(r *http.Request, userID, role string) *http.Request {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: userID},
		CustomClaims:     &CustomClaims{Role: role},
	}
	ctx := context.WithValue(r.Context(), jwtmiddleware.ContextKey{}, claims)
	return r.WithContext(ctx)
}
