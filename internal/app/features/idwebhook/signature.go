package idwebhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// timestampTolerance bounds how stale a webhook may be before it is
// rejected as a possible replay.
const timestampTolerance = 5 * time.Minute

// secretPrefix marks the provider's signing secrets; the base64 key
// material follows it.
const secretPrefix = "whsec_"

var (
	errNoSecret       = errors.New("no signing secret configured")
	errMissingHeaders = errors.New("missing signature headers")
	errStaleTimestamp = errors.New("timestamp outside tolerance")
	errNoMatch        = errors.New("no matching signature")
)

// verifySignature checks the provider's webhook signature scheme:
// HMAC-SHA256 over "{id}.{timestamp}.{body}" with the decoded endpoint
// secret, compared against each candidate in the signature header
// ("v1,<base64>" entries, space-separated).
func verifySignature(secret string, header http.Header, body []byte) error {
	if secret == "" {
		return errNoSecret
	}
	id := header.Get("svix-id")
	timestamp := header.Get("svix-timestamp")
	sigHeader := header.Get("svix-signature")
	if id == "" || timestamp == "" || sigHeader == "" {
		return errMissingHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}
	age := time.Since(time.Unix(ts, 0))
	if age > timestampTolerance || age < -timestampTolerance {
		return errStaleTimestamp
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return fmt.Errorf("decode secret: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", id, timestamp)
	mac.Write(body)
	want := mac.Sum(nil)

	for _, candidate := range strings.Fields(sigHeader) {
		parts := strings.SplitN(candidate, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		got, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			continue
		}
		if hmac.Equal(got, want) {
			return nil
		}
	}
	return errNoMatch
}

// Sign computes the signature header value for (id, timestamp, body).
// Exported for tests and local tooling that replays events.
func Sign(secret, id, timestamp string, body []byte) (string, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return "", fmt.Errorf("decode secret: %w", err)
	}
	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", id, timestamp)
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
