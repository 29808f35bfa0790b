// Package timeouts provides shared timeout values for handler operations.
//
// Handlers wrap their request context with these values before touching
// the database so a slow Mongo never pins an HTTP worker.
//
// Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads
//   - Medium: list queries and simple writes
//   - Long: multi-collection writes (enrollment touches two documents)
package timeouts

import "time"

const (
	Ping   = 2 * time.Second
	Short  = 5 * time.Second
	Medium = 10 * time.Second
	Long   = 30 * time.Second
)
