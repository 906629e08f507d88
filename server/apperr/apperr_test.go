package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(Transport, CodeRemoteStatus, "communications error", errors.New("http 502"))
	wrapped := fmt.Errorf("turn: %w", err)

	if !errors.Is(wrapped, &Error{Code: CodeRemoteStatus}) {
		t.Fatalf("expected errors.Is to match by code")
	}
	if errors.Is(wrapped, &Error{Code: CodeRemoteNetwork}) {
		t.Fatalf("unexpected match on a different code")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("x: %w", Validationf(CodeMissingTotal, "no total"))); got != Validation {
		t.Fatalf("expected validation, got %q", got)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Fatalf("expected empty kind for plain error, got %q", got)
	}
}

func TestUnwrapReachesCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(Transport, CodeRemoteNetwork, "communications error", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
}
