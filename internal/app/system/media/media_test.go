package media_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/learnhub/internal/app/system/media"
)

func TestLocalStore_PutImage(t *testing.T) {
	dir := t.TempDir()
	store := media.NewLocal(dir, "/files")

	url, err := store.PutImage(context.Background(), "cover.png", strings.NewReader("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("PutImage failed: %v", err)
	}

	if !strings.HasPrefix(url, "/files/thumbnails/") {
		t.Errorf("url: got %q, want /files/thumbnails/ prefix", url)
	}
	if !strings.HasSuffix(url, "-cover.png") {
		t.Errorf("url: got %q, want -cover.png suffix", url)
	}

	// The file must exist under dir at the key the URL points to.
	key := strings.TrimPrefix(url, "/files/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored bytes: got %q, want %q", data, "png-bytes")
	}
}

func TestLocalStore_SanitizesName(t *testing.T) {
	store := media.NewLocal(t.TempDir(), "/files")

	url, err := store.PutImage(context.Background(), "../..//weird name!.png", strings.NewReader("x"), "image/png")
	if err != nil {
		t.Fatalf("PutImage failed: %v", err)
	}
	if strings.Contains(url, "..") || strings.Contains(url, " ") || strings.Contains(url, "!") {
		t.Errorf("url not sanitized: %q", url)
	}
}

func TestHostStore_PutImage(t *testing.T) {
	var gotPreset string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotPreset = r.FormValue("upload_preset")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://media.example.com/img/abc123.png",
		})
	}))
	defer srv.Close()

	store := media.NewHost(srv.URL, "learnhub-thumbs", zap.NewNop())
	url, err := store.PutImage(context.Background(), "cover.png", strings.NewReader("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("PutImage failed: %v", err)
	}
	if url != "https://media.example.com/img/abc123.png" {
		t.Errorf("url: got %q", url)
	}
	if gotPreset != "learnhub-thumbs" {
		t.Errorf("upload_preset: got %q, want %q", gotPreset, "learnhub-thumbs")
	}
}

func TestHostStore_BadUploadURL(t *testing.T) {
	// A control character makes request construction fail before anything
	// reads the multipart pipe; the writer goroutine must still exit.
	store := media.NewHost("http://upload.example.com/\n", "p", zap.NewNop())

	before := runtime.NumGoroutine()
	if _, err := store.PutImage(context.Background(), "cover.png", strings.NewReader("x"), "image/png"); err == nil {
		t.Fatal("expected error for malformed upload URL")
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := runtime.NumGoroutine(); n > before {
		t.Errorf("writer goroutine leaked: %d goroutines, started with %d", n, before)
	}
}

func TestHostStore_UploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad preset", http.StatusBadRequest)
	}))
	defer srv.Close()

	store := media.NewHost(srv.URL, "nope", zap.NewNop())
	if _, err := store.PutImage(context.Background(), "cover.png", strings.NewReader("x"), "image/png"); err == nil {
		t.Fatal("expected error for rejected upload")
	}
}
