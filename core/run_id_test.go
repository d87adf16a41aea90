package core

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Errorf("NewRunID() returned duplicate ids %q", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("NewRunID() = %q, not a valid UUID: %v", a, err)
	}
}
