package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/learnhub/internal/app/system/auth"
)

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, target, body)
}

// NewJSONRequest creates a request with a JSON-encoded body.
func NewJSONRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal request payload: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates a request carrying validated claims for
// userID, bypassing token verification.
func NewAuthenticatedRequest(method, target string, body io.Reader, userID, role string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return auth.WithTestUser(req, userID, role)
}

// NewAuthenticatedJSONRequest combines NewJSONRequest and WithTestUser.
func NewAuthenticatedJSONRequest(t *testing.T, method, target string, payload any, userID, role string) *http.Request {
	t.Helper()
	req := NewJSONRequest(t, method, target, payload)
	return auth.WithTestUser(req, userID, role)
}

// DecodeEnvelope parses the uniform {success, ...} response body.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return body
}

// AssertSuccess fails the test unless the envelope has success=true.
func AssertSuccess(t *testing.T, body map[string]any) {
	t.Helper()
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v (message: %v)", body["success"], body["message"])
	}
}

// AssertFailure fails the test unless the envelope has success=false with
// the given message.
func AssertFailure(t *testing.T, body map[string]any, message string) {
	t.Helper()
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
	if message != "" && body["message"] != message {
		t.Fatalf("message: got %q, want %q", body["message"], message)
	}
}
