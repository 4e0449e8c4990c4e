package quiz

import "time"

// Event is an instruction produced by the Scheduler for the UI layer. The
// Scheduler is the only producer; events are returned in the order they must
// be applied.
type Event interface {
	isEvent()
}

// LineChanged asks the UI to show Text unmasked.
type LineChanged struct {
	Text string
}

// EligibilityRecheckRequested asks for RecheckFired(Token) to be delivered on
// the event loop once After has elapsed.
type EligibilityRecheckRequested struct {
	Token LineToken
	After time.Duration
}

// QuizStarted asks the UI to show the masked line and collect a guess.
type QuizStarted struct {
	Masked string
	Length int
}

// QuizResolved reports the outcome of a guess.
type QuizResolved struct {
	Correct bool
	Word    string
	Guess   string
}

// SessionEnded carries the final report. It is produced at most once.
type SessionEnded struct {
	Report Report
}

// Progress reports the playback position.
type Progress struct {
	Current  time.Duration
	Duration time.Duration
}

// PauseRequested and ResumeRequested are player commands.
type (
	PauseRequested  struct{}
	ResumeRequested struct{}
)

func (LineChanged) isEvent()                 {}
func (EligibilityRecheckRequested) isEvent() {}
func (QuizStarted) isEvent()                 {}
func (QuizResolved) isEvent()                {}
func (SessionEnded) isEvent()                {}
func (Progress) isEvent()                    {}
func (PauseRequested) isEvent()              {}
func (ResumeRequested) isEvent()             {}
