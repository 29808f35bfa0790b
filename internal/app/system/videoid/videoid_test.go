package videoid_test

import (
	"testing"

	"github.com/dalemusser/learnhub/internal/app/system/videoid"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"watch param", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch param with extras", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed path", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"empty", "", ""},
		{"no id", "https://example.com/video", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := videoid.Extract(tc.url); got != tc.want {
				t.Errorf("Extract(%q): got %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}
