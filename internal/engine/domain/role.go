package domain

// Role identifies a participant in a turn.
type Role string

const (
	// RolePlayer marks player-authored exchanges in history.
	RolePlayer Role = "player"
	// RoleNarrator is the primary storyteller, mandatory in narrative turns.
	RoleNarrator Role = "narrator"
	// RoleMechanics resolves action attempts before narration.
	RoleMechanics Role = "mechanics"
	// RoleWildcard injects an optional complication.
	RoleWildcard Role = "wildcard"
)

// IsValid reports whether the role is a known participant or player role.
func (r Role) IsValid() bool {
	switch r {
	case RolePlayer, RoleNarrator, RoleMechanics, RoleWildcard:
		return true
	default:
		return false
	}
}

// IsParticipant reports whether the role is an automated responder.
func (r Role) IsParticipant() bool {
	return r.IsValid() && r != RolePlayer
}
