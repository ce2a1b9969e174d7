// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"
	// CodeInvalidArgument represents a malformed or unparsable request.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Session errors
	CodeSessionNotFound        Code = "SESSION_NOT_FOUND"
	CodeSessionComplete        Code = "SESSION_COMPLETE"
	CodeSessionEmptyScenarioID Code = "SESSION_EMPTY_SCENARIO_ID"
	CodeTurnInFlight           Code = "TURN_IN_FLIGHT"
	CodeTurnEmptyInput         Code = "TURN_EMPTY_INPUT"
	CodeChoiceOutOfRange       Code = "CHOICE_OUT_OF_RANGE"

	// Phase errors
	CodeInvalidPhaseTransition Code = "INVALID_PHASE_TRANSITION"
	CodeCharacterSetupPending  Code = "CHARACTER_SETUP_PENDING"
	CodeCharacterSetupComplete Code = "CHARACTER_SETUP_COMPLETE"

	// Character errors
	CodeCharacterEmptyName      Code = "CHARACTER_EMPTY_NAME"
	CodeCharacterEmptyArchetype Code = "CHARACTER_EMPTY_ARCHETYPE"
	CodeCharacterTooManyTraits  Code = "CHARACTER_TOO_MANY_TRAITS"

	// Objective errors
	CodeObjectiveGoalNotFound Code = "OBJECTIVE_GOAL_NOT_FOUND"
	CodeObjectiveNotActive    Code = "OBJECTIVE_NOT_ACTIVE"

	// Budget errors
	CodeBudgetExhausted   Code = "BUDGET_EXHAUSTED"
	CodeBudgetInvalidCost Code = "BUDGET_INVALID_COST"

	// Generation errors
	CodeParticipantInvocationFailed Code = "PARTICIPANT_INVOCATION_FAILED"
	CodeGenerationTimeout           Code = "GENERATION_TIMEOUT"
	CodeGenerationRateLimited       Code = "GENERATION_RATE_LIMITED"
	CodeGenerationUnavailable       Code = "GENERATION_UNAVAILABLE"

	// Scenario errors
	CodeScenarioNotFound Code = "SCENARIO_NOT_FOUND"
	CodeScenarioInvalid  Code = "SCENARIO_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Dice/mechanics errors
	CodeDiceMissing     Code = "DICE_MISSING"
	CodeDiceInvalidSpec Code = "DICE_INVALID_SPEC"
)
