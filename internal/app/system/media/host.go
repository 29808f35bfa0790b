package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HostStore uploads images to a third-party media host over its HTTP
// upload endpoint and returns the host's stable URL. Only the URL is
// kept; the bytes live with the host.
type HostStore struct {
	uploadURL string
	preset    string
	hc        *http.Client
	log       *zap.Logger
}

// NewHost builds a HostStore. uploadURL is the host's image upload
// endpoint; preset names the host-side upload configuration.
func NewHost(uploadURL, preset string, logger *zap.Logger) *HostStore {
	return &HostStore{
		uploadURL: uploadURL,
		preset:    preset,
		hc:        &http.Client{Timeout: 30 * time.Second},
		log:       logger,
	}
}

func (s *HostStore) PutImage(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", sanitizeName(name))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("upload_preset", s.preset); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, pr)
	if err != nil {
		// Unblock the writer goroutine; nothing will read the pipe.
		pr.CloseWithError(err)
		return "", fmt.Errorf("media: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("media: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		s.log.Error("media: host rejected upload",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", fmt.Errorf("media: upload failed with status %d", resp.StatusCode)
	}

	var out struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("media: decode upload response: %w", err)
	}
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL == "" {
		return "", fmt.Errorf("media: upload response missing URL")
	}
	return out.URL, nil
}
