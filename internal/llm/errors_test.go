package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		matches []error
		not     []error
	}{
		{
			name:    "validation",
			err:     NewValidationError("bad"),
			matches: []error{ErrChatGPT, ErrValidation},
			not:     []error{ErrAPI, ErrModelNotFound, ErrTimeout},
		},
		{
			name:    "model not found",
			err:     &Error{Kind: KindModelNotFound, Message: "nope"},
			matches: []error{ErrChatGPT, ErrModelNotFound},
			not:     []error{ErrAPI, ErrValidation},
		},
		{
			name:    "connection",
			err:     NewConnectionError(errors.New("dial tcp: refused")),
			matches: []error{ErrChatGPT, ErrAPI, ErrConnection},
			not:     []error{ErrTimeout, ErrBadStatus},
		},
		{
			name:    "status",
			err:     NewStatusError(http.StatusInternalServerError, "boom"),
			matches: []error{ErrChatGPT, ErrAPI, ErrBadStatus},
			not:     []error{ErrJobFailed},
		},
		{
			name:    "job failed",
			err:     NewJobFailedError("t1", "content policy violation"),
			matches: []error{ErrChatGPT, ErrAPI, ErrJobFailed},
			not:     []error{ErrTimeout},
		},
		{
			name:    "timeout",
			err:     NewTimeoutError("t1", nil),
			matches: []error{ErrChatGPT, ErrAPI, ErrTimeout},
			not:     []error{ErrJobFailed},
		},
		{
			name:    "wrapped",
			err:     fmt.Errorf("ask: %w", NewMalformedResponseError("bad json", nil)),
			matches: []error{ErrChatGPT, ErrAPI, ErrMalformedResponse},
		},
		{
			name:    "base",
			err:     Wrap(context.Canceled),
			matches: []error{ErrChatGPT, context.Canceled},
			not:     []error{ErrAPI, ErrValidation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, target := range tt.matches {
				if !errors.Is(tt.err, target) {
					t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, target)
				}
			}
			for _, target := range tt.not {
				if errors.Is(tt.err, target) {
					t.Errorf("errors.Is(%v, %v) = true, want false", tt.err, target)
				}
			}
		})
	}
}

func TestError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"status", NewStatusError(429, "slow down"), []string{"429", "Too Many Requests", "slow down"}},
		{"status no message", NewStatusError(503, ""), []string{"503", "Unexpected Error", "Unknown error"}},
		{"job failed", NewJobFailedError("t1", "content policy violation"), []string{"t1", "content policy violation"}},
		{"timeout", NewTimeoutError("t9", errors.New("last poll: 502")), []string{"t9", "last poll: 502"}},
		{"base", Wrap(errors.New("something odd")), []string{"something odd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.want {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want it to contain %q", msg, want)
				}
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}

	orig := NewJobFailedError("t", "r")
	if Wrap(orig) != error(orig) {
		t.Error("Wrap() should keep *Error values")
	}

	e, ok := AsError(Wrap(errors.New("x")))
	if !ok || e.Kind != KindUnknown {
		t.Errorf("Wrap() kind = %v, want KindUnknown", e)
	}
}

func TestStatusDescription(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{400, "Bad Request"},
		{429, "Too Many Requests"},
		{500, "Internal Server Error"},
		{502, "Unexpected Error"},
		{0, "Unexpected Error"},
	}
	for _, tt := range tests {
		if got := StatusDescription(tt.code); got != tt.want {
			t.Errorf("StatusDescription(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
