package store

import (
	"errors"
	"fmt"
	"testing"
)

// Compile-time checks that the interface is importable and usable.
func TestSessionStoreInterfaceExists(t *testing.T) {
	_ = ErrNoSession
	_ = ErrInvalidSession

	var _ SessionStore
}

func TestSentinelErrorsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("unable to load session: %w", ErrNoSession)
	if !errors.Is(err, ErrNoSession) {
		t.Fatal("wrapped error should match ErrNoSession")
	}
	if errors.Is(err, ErrInvalidSession) {
		t.Fatal("wrapped error should not match ErrInvalidSession")
	}
}
