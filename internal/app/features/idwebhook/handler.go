// internal/app/features/idwebhook/handler.go
package idwebhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/learnhub/internal/domain/models"
)

// maxBodyBytes caps webhook payloads. Provider events are small JSON
// documents.
const maxBodyBytes = 1 << 20

// Handler receives user lifecycle events from the identity provider and
// mirrors them into the users collection. This is the only way user
// records are created, so a signed-in user whose event has not arrived
// yet is simply "User Not Found" to the rest of the API.
type Handler struct {
	Users  *userstore.Store
	Secret string
	Log    *zap.Logger
}

// NewHandler creates a webhook handler. secret is the provider's signing
// secret for this endpoint.
func NewHandler(users *userstore.Store, secret string, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Secret: secret, Log: logger}
}

// event is the provider's webhook envelope.
type event struct {
	Type string    `json:"type"`
	Data eventUser `json:"data"`
}

// eventUser is the user object inside provider events.
type eventUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PublicMetadata struct {
		Role string `json:"role"`
	} `json:"public_metadata"`
}

// Serve handles POST /api/webhooks/identity.
//
// The body must carry a valid signature over (id, timestamp, payload) in
// the provider's webhook headers; anything else is rejected with 401 so
// the provider retries. Unknown event types are acknowledged and ignored.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respond.FailStatus(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := verifySignature(h.Secret, r.Header, body); err != nil {
		h.Log.Warn("webhook: signature rejected", zap.Error(err))
		respond.FailStatus(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var ev event
	if err := json.Unmarshal(body, &ev); err != nil {
		respond.FailStatus(w, http.StatusBadRequest, "invalid payload")
		return
	}

	switch ev.Type {
	case "user.created", "user.updated":
		err = h.upsertUser(ctx, ev.Data)
	case "user.deleted":
		_, err = h.Users.Delete(ctx, ev.Data.ID)
	default:
		h.Log.Debug("webhook: ignoring event", zap.String("type", ev.Type))
	}
	if err != nil {
		// 500 so the provider redelivers.
		h.Log.Error("webhook: apply event failed", zap.String("type", ev.Type), zap.Error(err))
		respond.FailStatus(w, http.StatusInternalServerError, "event not applied")
		return
	}

	respond.OK(w, nil)
}

func (h *Handler) upsertUser(ctx context.Context, u eventUser) error {
	email := ""
	if len(u.EmailAddresses) > 0 {
		email = u.EmailAddresses[0].EmailAddress
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)

	role := u.PublicMetadata.Role
	if role != models.RoleEducator {
		role = models.RoleStudent
	}

	return h.Users.Upsert(ctx, models.User{
		ID:       u.ID,
		Name:     name,
		Email:    email,
		ImageURL: u.ImageURL,
		Role:     role,
	})
}
