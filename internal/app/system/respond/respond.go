// Package respond writes the API's uniform JSON envelope.
//
// Every endpoint answers with a body of the form {"success": bool, ...}.
// Failures carry a human-readable message in the body rather than a
// distinct HTTP status taxonomy; the transport status stays 200 so the
// web client branches on the success flag alone.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// M is shorthand for an envelope payload.
type M map[string]any

// OK writes {"success":true} merged with the given fields.
func OK(w http.ResponseWriter, fields M) {
	body := M{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	write(w, http.StatusOK, body)
}

// Message writes {"success":true,"message":msg}.
func Message(w http.ResponseWriter, msg string) {
	write(w, http.StatusOK, M{"success": true, "message": msg})
}

// Fail writes {"success":false,"message":msg} with a 200 status.
func Fail(w http.ResponseWriter, msg string) {
	write(w, http.StatusOK, M{"success": false, "message": msg})
}

// FailStatus writes {"success":false,"message":msg} with an explicit
// status code. Used only where the transport status matters to
// intermediaries (auth challenges, webhook acknowledgements).
func FailStatus(w http.ResponseWriter, status int, msg string) {
	write(w, status, M{"success": false, "message": msg})
}

// Error logs err and answers with its message in the failure envelope.
func Error(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	logger.Error(op, zap.Error(err))
	Fail(w, err.Error())
}

func write(w http.ResponseWriter, status int, body M) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
