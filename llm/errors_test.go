package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestErrorClassifiers(t *testing.T) {
	base := errors.New("boom")

	transient := NewTransientError(base)
	if !IsTransient(transient) {
		t.Error("IsTransient(transient) = false")
	}
	if IsFatal(transient) {
		t.Error("IsFatal(transient) = true")
	}
	if !errors.Is(transient, base) {
		t.Error("transient error lost its cause")
	}

	fatal := NewFatalError(base)
	if !IsFatal(fatal) {
		t.Error("IsFatal(fatal) = false")
	}
	if IsTransient(fatal) {
		t.Error("IsTransient(fatal) = true")
	}

	// Classification survives wrapping.
	wrapped := fmt.Errorf("request failed: %w", transient)
	if !IsTransient(wrapped) {
		t.Error("IsTransient lost through wrapping")
	}

	if IsTransient(base) || IsFatal(base) {
		t.Error("unclassified error misreported")
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantTransient bool
	}{
		{
			name:          "rate limited",
			err:           &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests},
			wantTransient: true,
		},
		{
			name:          "server error",
			err:           &openai.APIError{HTTPStatusCode: http.StatusBadGateway},
			wantTransient: true,
		},
		{
			name:          "bad request",
			err:           &openai.APIError{HTTPStatusCode: http.StatusBadRequest},
			wantTransient: false,
		},
		{
			name:          "unauthorized",
			err:           &openai.APIError{HTTPStatusCode: http.StatusUnauthorized},
			wantTransient: false,
		},
		{
			name:          "request error server side",
			err:           &openai.RequestError{HTTPStatusCode: http.StatusServiceUnavailable},
			wantTransient: true,
		},
		{
			name:          "cancelled context",
			err:           context.Canceled,
			wantTransient: false,
		},
		{
			name:          "connection refused",
			err:           errors.New("dial tcp 127.0.0.1:1234: connect: connection refused"),
			wantTransient: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			if IsTransient(got) != tt.wantTransient {
				t.Errorf("classifyError(%v) transient = %v, want %v", tt.err, IsTransient(got), tt.wantTransient)
			}
			if IsFatal(got) == tt.wantTransient {
				t.Errorf("classifyError(%v) fatal = %v, want %v", tt.err, IsFatal(got), !tt.wantTransient)
			}
		})
	}
}
