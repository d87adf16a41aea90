package core

import "github.com/google/uuid"

// NewRunID returns a fresh correlation id attached to every log entry of one run.
func NewRunID() string {
	return uuid.NewString()
}
