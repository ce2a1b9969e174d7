package errors

import (
	"errors"
	"net/http"

	"github.com/louisbranch/arc-engine/internal/errors/i18n"
)

// DefaultLocale is the default locale for error messages.
const DefaultLocale = "en-US"

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeInvalidArgument,
		CodeSessionEmptyScenarioID,
		CodeTurnEmptyInput,
		CodeChoiceOutOfRange,
		CodeCharacterEmptyName,
		CodeCharacterEmptyArchetype,
		CodeCharacterTooManyTraits,
		CodeBudgetInvalidCost,
		CodeDiceMissing,
		CodeDiceInvalidSpec:
		return http.StatusBadRequest

	// Conflict - state doesn't allow the operation
	case CodeSessionComplete,
		CodeCharacterSetupPending,
		CodeCharacterSetupComplete,
		CodeObjectiveNotActive,
		CodeBudgetExhausted,
		CodeTurnInFlight:
		return http.StatusConflict

	// Not found - resource doesn't exist
	case CodeSessionNotFound,
		CodeScenarioNotFound,
		CodeObjectiveGoalNotFound,
		CodeNotFound:
		return http.StatusNotFound

	// Upstream generation capability failures
	case CodeGenerationTimeout:
		return http.StatusGatewayTimeout
	case CodeGenerationRateLimited:
		return http.StatusTooManyRequests
	case CodeGenerationUnavailable,
		CodeParticipantInvocationFailed:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// UserMessage formats the user-facing message for an error using the i18n
// catalog for the given locale, defaulting to en-US if the locale is empty.
// Unknown errors produce a generic message so internals never leak to clients.
func UserMessage(err error, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}
	catalog := i18n.GetCatalog(locale)

	var appErr *Error
	if errors.As(err, &appErr) {
		return catalog.Format(string(appErr.Code), appErr.Metadata)
	}
	return catalog.Format(string(CodeUnknown), nil)
}
