// Package videoid extracts YouTube video IDs from lecture URLs.
//
// The player embeds videos by ID only; this system never fetches or
// stores video bytes. Educators paste URLs in several shapes
// (watch?v=, youtu.be/, /embed/), all of which carry an 11-character ID.
package videoid

import "regexp"

var patterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`/embed/([a-zA-Z0-9_-]{11})`),
}

// bare matches a raw 11-character ID anywhere in the string. Last resort
// after the URL shapes, so that "v=" IDs win over path noise.
var bare = regexp.MustCompile(`([a-zA-Z0-9_-]{11})`)

// Extract returns the YouTube video ID found in url, or "" when none is
// recognizable.
func Extract(url string) string {
	if url == "" {
		return ""
	}
	for _, p := range patterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	if m := bare.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}
