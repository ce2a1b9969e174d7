package domain

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/arc-engine/internal/errors"
)

// MaxCharacterTraits bounds the free-form trait list on a character.
const MaxCharacterTraits = 5

var (
	// ErrCharacterEmptyName indicates a character name is required.
	ErrCharacterEmptyName = apperrors.New(apperrors.CodeCharacterEmptyName, "character name is required")
	// ErrCharacterEmptyArchetype indicates a character archetype is required.
	ErrCharacterEmptyArchetype = apperrors.New(apperrors.CodeCharacterEmptyArchetype, "character archetype is required")
	// ErrCharacterTooManyTraits indicates the trait list exceeds the cap.
	ErrCharacterTooManyTraits = apperrors.New(apperrors.CodeCharacterTooManyTraits, "too many character traits")
)

// Character is the player-authored protagonist profile for a session.
type Character struct {
	Name      string
	Archetype string
	Traits    []string
}

// CharacterInput captures user-provided fields for character setup.
type CharacterInput struct {
	Name      string
	Archetype string
	Traits    []string
}

// NormalizeCharacterInput trims and validates character setup input.
func NormalizeCharacterInput(input CharacterInput) (CharacterInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CharacterInput{}, ErrCharacterEmptyName
	}

	input.Archetype = strings.TrimSpace(input.Archetype)
	if input.Archetype == "" {
		return CharacterInput{}, ErrCharacterEmptyArchetype
	}

	traits := make([]string, 0, len(input.Traits))
	for _, trait := range input.Traits {
		trait = strings.TrimSpace(trait)
		if trait != "" {
			traits = append(traits, trait)
		}
	}
	if len(traits) > MaxCharacterTraits {
		return CharacterInput{}, ErrCharacterTooManyTraits.WithMetadata(map[string]string{
			"MaxTraits": strconv.Itoa(MaxCharacterTraits),
		})
	}
	input.Traits = traits

	return input, nil
}

// CompleteCharacterSetup attaches a normalized character to a session still
// in the character setup phase. It does not advance the phase; the opening
// turn does that when it commits.
func (s *Session) CompleteCharacterSetup(input CharacterInput) error {
	if s.Character != nil {
		return ErrCharacterSetupComplete
	}

	normalized, err := NormalizeCharacterInput(input)
	if err != nil {
		return err
	}

	s.Character = &Character{
		Name:      normalized.Name,
		Archetype: normalized.Archetype,
		Traits:    normalized.Traits,
	}
	return nil
}

// Summary renders the one-line character description used in snapshots and
// participant prompts.
func (c *Character) Summary() string {
	if len(c.Traits) == 0 {
		return fmt.Sprintf("%s the %s", c.Name, c.Archetype)
	}
	return fmt.Sprintf("%s the %s (%s)", c.Name, c.Archetype, strings.Join(c.Traits, ", "))
}
