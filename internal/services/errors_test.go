package services_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"captionfix/internal/services"
)

type classifiedError struct{ kind string }

func (e classifiedError) Error() string     { return "classified" }
func (e classifiedError) ErrorKind() string { return e.kind }

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrValidation, "upload", "read body", base)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"upload", "read body", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}

	if got := services.Wrap(nil, "", "", nil).Error(); got != "service failure" {
		t.Fatalf("unexpected bare error %q", got)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation marker", services.Wrap(services.ErrValidation, "upload", "bad extension", nil), http.StatusBadRequest},
		{"classifier", fmt.Errorf("process: %w", classifiedError{kind: "validation"}), http.StatusBadRequest},
		{"not found", services.Wrap(services.ErrNotFound, "history", "batch", nil), http.StatusNotFound},
		{"too large", services.Wrap(services.ErrTooLarge, "upload", "", nil), http.StatusRequestEntityTooLarge},
		{"configuration", services.Wrap(services.ErrConfiguration, "server", "", nil), http.StatusInternalServerError},
		{"unclassified", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
