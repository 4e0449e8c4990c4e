package quiz

import "github.com/google/uuid"

// State is the scheduler's position in the quiz cycle.
type State string

const (
	// Idle means no subtitle line has been seen yet
	Idle State = "idle"

	// Watching means a line is shown and no blank is active
	Watching State = "watching"

	// Quizzing means a blank is shown and a guess is awaited
	Quizzing State = "quizzing"
)

func (s State) String() string {
	return string(s)
}

// LineToken identifies one Line. Delayed rechecks carry the token of the line
// they were armed for so a superseded line is never evaluated.
type LineToken uuid.UUID

func newLineToken() LineToken {
	return LineToken(uuid.New())
}

func (t LineToken) String() string {
	return uuid.UUID(t).String()
}
