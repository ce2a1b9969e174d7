package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeBudgetExhausted, "budget exhausted")
	wrapped := fmt.Errorf("execute turn: %w", New(CodeBudgetExhausted, "no units remaining"))

	if !errors.Is(wrapped, sentinel) {
		t.Fatal("expected errors.Is to match by code")
	}
	if errors.Is(wrapped, New(CodeSessionNotFound, "session not found")) {
		t.Fatal("expected mismatched codes to not match")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"domain error", New(CodeTurnInFlight, "turn in flight"), CodeTurnInFlight},
		{"wrapped domain error", fmt.Errorf("handler: %w", New(CodeSessionNotFound, "missing")), CodeSessionNotFound},
		{"plain error", errors.New("boom"), CodeUnknown},
		{"nil metadata passthrough", Wrap(CodeGenerationTimeout, "invoke narrator", errors.New("deadline")), CodeGenerationTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Fatalf("expected code %s, got %s", tt.want, got)
			}
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeGenerationUnavailable, "invoke wildcard", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Error() != "invoke wildcard: connection refused" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeTurnEmptyInput, http.StatusBadRequest},
		{CodeTurnInFlight, http.StatusConflict},
		{CodeBudgetExhausted, http.StatusConflict},
		{CodeSessionNotFound, http.StatusNotFound},
		{CodeGenerationTimeout, http.StatusGatewayTimeout},
		{CodeGenerationRateLimited, http.StatusTooManyRequests},
		{CodeParticipantInvocationFailed, http.StatusBadGateway},
		{CodeInvalidPhaseTransition, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.HTTPStatus(); got != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, got)
			}
		})
	}
}

func TestUserMessageFormatsMetadata(t *testing.T) {
	err := New(CodeInvalidPhaseTransition, "phase regression").WithMetadata(map[string]string{
		"FromPhase": "climax",
		"ToPhase":   "setup",
	})

	msg := UserMessage(err, "")
	if msg != "Cannot move the story from climax to setup" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestUserMessageUnknownError(t *testing.T) {
	msg := UserMessage(errors.New("stack trace"), "en-US")
	if msg != "An unexpected error occurred" {
		t.Fatalf("expected generic message, got %q", msg)
	}
}

func TestUserMessageFallsBackForUnknownLocale(t *testing.T) {
	msg := UserMessage(New(CodeSessionNotFound, "missing"), "zz-ZZ")
	if msg != "Session not found" {
		t.Fatalf("expected en-US fallback, got %q", msg)
	}
}
