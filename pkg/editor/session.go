package editor

// State describes where an editing session stands relative to its
// last-saved snapshot.
type State string

const (
	// StateIdle means the in-memory structure matches the last-saved
	// snapshot. Editors start here and return here on save or discard.
	StateIdle State = "idle"
	// StateEditing means at least one mutation has been applied since the
	// last snapshot. This is the only state in which the in-memory
	// structure may diverge from what the collaborator last persisted.
	StateEditing State = "editing"
)

// session is the state machine shared by the block, schema, and entry
// editors: idle, then editing on the first mutation, then back to idle on
// an explicit save or discard.
type session struct {
	state State
}

func (s *session) markEditing() {
	s.state = StateEditing
}

func (s *session) settle() {
	s.state = StateIdle
}

// State returns the session's current state.
func (s *session) State() State {
	if s.state == "" {
		return StateIdle
	}
	return s.state
}

// Dirty reports whether unsaved mutations exist.
func (s *session) Dirty() bool {
	return s.State() == StateEditing
}

// Direction selects an adjacency swap toward the start or end of a
// sequence.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}
