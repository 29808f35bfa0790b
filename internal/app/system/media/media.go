// Package media stores course thumbnails and returns stable URLs.
//
// Storage is delegated: either to a third-party media host (uploaded over
// its HTTP API) or to local disk served by the app's file server. Either
// way the rest of the app only ever sees the resulting URL.
package media

import (
	"context"
	"io"
	"path/filepath"
)

// Store persists an image and returns the URL it will be served from.
type Store interface {
	PutImage(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
}

// sanitizeName strips path components and replaces characters that could
// be problematic in object keys or filenames.
func sanitizeName(name string) string {
	name = filepath.Base(name)

	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isAllowedNameChar(c) {
			out = append(out, c)
		} else {
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "file"
	}
	if len(out) > 100 {
		ext := filepath.Ext(string(out))
		if len(ext) > 0 && len(ext) < 10 {
			out = append(out[:100-len(ext)], ext...)
		} else {
			out = out[:100]
		}
	}
	return string(out)
}

func isAllowedNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
