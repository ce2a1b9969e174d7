package i18n

import "golang.org/x/text/language"

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown         = "UNKNOWN"
	CodeInvalidArgument = "INVALID_ARGUMENT"

	CodeSessionNotFound        = "SESSION_NOT_FOUND"
	CodeSessionComplete        = "SESSION_COMPLETE"
	CodeSessionEmptyScenarioID = "SESSION_EMPTY_SCENARIO_ID"
	CodeTurnInFlight           = "TURN_IN_FLIGHT"
	CodeTurnEmptyInput         = "TURN_EMPTY_INPUT"
	CodeChoiceOutOfRange       = "CHOICE_OUT_OF_RANGE"

	CodeInvalidPhaseTransition = "INVALID_PHASE_TRANSITION"
	CodeCharacterSetupPending  = "CHARACTER_SETUP_PENDING"
	CodeCharacterSetupComplete = "CHARACTER_SETUP_COMPLETE"

	CodeCharacterEmptyName      = "CHARACTER_EMPTY_NAME"
	CodeCharacterEmptyArchetype = "CHARACTER_EMPTY_ARCHETYPE"
	CodeCharacterTooManyTraits  = "CHARACTER_TOO_MANY_TRAITS"

	CodeObjectiveGoalNotFound = "OBJECTIVE_GOAL_NOT_FOUND"
	CodeObjectiveNotActive    = "OBJECTIVE_NOT_ACTIVE"

	CodeBudgetExhausted   = "BUDGET_EXHAUSTED"
	CodeBudgetInvalidCost = "BUDGET_INVALID_COST"

	CodeParticipantInvocationFailed = "PARTICIPANT_INVOCATION_FAILED"
	CodeGenerationTimeout           = "GENERATION_TIMEOUT"
	CodeGenerationRateLimited       = "GENERATION_RATE_LIMITED"
	CodeGenerationUnavailable       = "GENERATION_UNAVAILABLE"

	CodeScenarioNotFound = "SCENARIO_NOT_FOUND"
	CodeScenarioInvalid  = "SCENARIO_INVALID"

	CodeNotFound = "NOT_FOUND"

	CodeDiceMissing     = "DICE_MISSING"
	CodeDiceInvalidSpec = "DICE_INVALID_SPEC"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	tag:    language.AmericanEnglish,
	messages: map[Code]string{
		CodeUnknown:         "An unexpected error occurred",
		CodeInvalidArgument: "The request could not be understood",

		// Session errors
		CodeSessionNotFound:        "Session not found",
		CodeSessionComplete:        "This story has reached its end",
		CodeSessionEmptyScenarioID: "Scenario cannot be empty",
		CodeTurnInFlight:           "A turn is already being played for this session",
		CodeTurnEmptyInput:         "Player input cannot be empty",
		CodeChoiceOutOfRange:       "Choice {{.Choice}} is not one of the offered options",

		// Phase errors
		CodeInvalidPhaseTransition: "Cannot move the story from {{.FromPhase}} to {{.ToPhase}}",
		CodeCharacterSetupPending:  "Finish creating your character before playing",
		CodeCharacterSetupComplete: "Character setup is already complete",

		// Character errors
		CodeCharacterEmptyName:      "Character name cannot be empty",
		CodeCharacterEmptyArchetype: "Character archetype cannot be empty",
		CodeCharacterTooManyTraits:  "A character may have at most {{.MaxTraits}} traits",

		// Objective errors
		CodeObjectiveGoalNotFound: "Objective goal not found",
		CodeObjectiveNotActive:    "This session has no active objective",

		// Budget errors
		CodeBudgetExhausted:   "The narrator has no energy left for this session",
		CodeBudgetInvalidCost: "Invalid budget cost",

		// Generation errors
		CodeParticipantInvocationFailed: "The {{.Role}} lost the thread of the story. Try your action again",
		CodeGenerationTimeout:           "The story took too long to unfold. Try again",
		CodeGenerationRateLimited:       "The storyteller needs a moment to catch their breath",
		CodeGenerationUnavailable:       "The storyteller is unavailable right now",

		// Scenario errors
		CodeScenarioNotFound: "Scenario not found",
		CodeScenarioInvalid:  "Scenario definition is invalid",

		// Storage errors
		CodeNotFound: "Record not found",

		// Dice/mechanics errors
		CodeDiceMissing:     "At least one dice specification is required",
		CodeDiceInvalidSpec: "Dice must have positive sides and count",
	},
}
