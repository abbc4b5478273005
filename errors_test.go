package permstore

import (
	"errors"
	"strings"
	"testing"
)

func TestAccessErrorCarriesDetails(t *testing.T) {
	store := New(WithOverride("serial", LevelRead))
	_, err := store.Write("serial", "x")
	if err == nil {
		t.Fatal("expected denial")
	}

	var accessErr *AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("expected *AccessError, got %T", err)
	}
	if accessErr.Op != "write" || accessErr.Path != "serial" || accessErr.Level != LevelRead {
		t.Fatalf("unexpected details: %#v", accessErr)
	}
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected sentinel match, got %v", err)
	}
	if !strings.Contains(err.Error(), "serial") {
		t.Fatalf("expected path in message, got %q", err.Error())
	}
}

func TestInvalidPathErrorWrapsSentinel(t *testing.T) {
	store := New()
	_, err := store.Write("", 1)
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
	if errors.Is(err, ErrAccessDenied) {
		t.Fatalf("invalid path must not read as a denial: %v", err)
	}
}

func TestNilAccessError(t *testing.T) {
	var accessErr *AccessError
	if accessErr.Error() != "<nil>" {
		t.Fatalf("nil receiver message = %q", accessErr.Error())
	}
	if accessErr.Unwrap() != nil {
		t.Fatal("nil receiver must unwrap to nil")
	}
}
