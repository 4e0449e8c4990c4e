package quiz

import (
	"log"
	"math/rand"
	"time"
	"unicode/utf8"
)

const (
	DefaultThreshold    = 600 * time.Millisecond
	DefaultEndTolerance = 2 * time.Second
)

// Tokenizer splits a line into words.
type Tokenizer interface {
	Tokenize(line string) []string
}

// TokenizerFunc adapts a function to Tokenizer.
type TokenizerFunc func(line string) []string

func (f TokenizerFunc) Tokenize(line string) []string {
	return f(line)
}

// Options tunes the scheduler.
type Options struct {
	// Threshold is how close to the end of its cue a line must be to be quizzed.
	Threshold time.Duration
	// Probability that an eligible line is quizzed, in [0,1]. Zero means
	// never; start from DefaultOptions.
	Probability float64
	// MaxAttempts bounds the draws of ChooseBlank.
	MaxAttempts int
	// EndTolerance is how close to the media duration the session counts as finished.
	EndTolerance time.Duration
}

func DefaultOptions() Options {
	return Options{
		Threshold:    DefaultThreshold,
		Probability:  1,
		MaxAttempts:  DefaultMaxAttempts,
		EndTolerance: DefaultEndTolerance,
	}
}

// Config wires a Scheduler to its collaborators.
type Config struct {
	Index     *Index
	Tokenizer Tokenizer
	Blacklist Blacklist
	Rand      Rand
	Options   Options
}

// Scheduler is the quiz state machine. It is driven by one event loop and is
// not safe for concurrent use. Every method returns the events the caller
// must apply, in order.
type Scheduler struct {
	index     *Index
	tokenizer Tokenizer
	blacklist Blacklist
	rng       Rand
	opts      Options
	stats     Stats

	state State
	line  string
	token LineToken
	// pending is true until the current line has been decided (quizzed, gated
	// out or found too short).
	pending  bool
	blank    *Blank
	now      time.Duration
	finished bool
}

func NewScheduler(cfg Config) *Scheduler {
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Tokenizer == nil {
		cfg.Tokenizer = TokenizerFunc(func(string) []string { return nil })
	}
	return &Scheduler{
		index:     cfg.Index,
		tokenizer: cfg.Tokenizer,
		blacklist: cfg.Blacklist,
		rng:       cfg.Rand,
		opts:      cfg.Options.normalized(),
		state:     Idle,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Threshold <= 0 {
		o.Threshold = def.Threshold
	}
	if o.Probability < 0 {
		o.Probability = 0
	}
	if o.Probability > 1 {
		o.Probability = 1
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = def.MaxAttempts
	}
	if o.EndTolerance <= 0 {
		o.EndTolerance = def.EndTolerance
	}
	return o
}

func (s *Scheduler) State() State        { return s.state }
func (s *Scheduler) Line() string        { return s.line }
func (s *Scheduler) Token() LineToken    { return s.token }
func (s *Scheduler) Finished() bool      { return s.finished }
func (s *Scheduler) Report() Report      { return s.stats.Report() }
func (s *Scheduler) Attempts() []Attempt { return s.stats.Attempts() }

// Blank returns the active blank, if any.
func (s *Scheduler) Blank() (Blank, bool) {
	if s.blank == nil {
		return Blank{}, false
	}
	return *s.blank, true
}

// SubtitleChanged handles new text from the player. Empty text (the player
// clears it between cues) and text equal to the current line are ignored.
func (s *Scheduler) SubtitleChanged(text string) []Event {
	line := CollapseLine(text)
	if line == "" || line == s.line {
		return nil
	}

	var events []Event
	if s.state == Quizzing {
		log.Printf("quiz: line replaced while quizzing %q; blank dropped", s.blank.Word)
		s.blank = nil
		events = append(events, ResumeRequested{})
	}
	s.line = line
	s.token = newLineToken()
	s.pending = true
	s.state = Watching
	events = append(events, LineChanged{Text: line})
	return append(events, s.evaluate(true)...)
}

// RecheckFired runs a delayed eligibility check armed for token. Checks for a
// superseded line are dropped.
func (s *Scheduler) RecheckFired(token LineToken) []Event {
	if token != s.token {
		return nil
	}
	return s.evaluate(true)
}

// PlaybackTick records the playback position, reports progress and, once,
// the end of the session. While a line is still pending it also re-runs the
// eligibility check, without arming another timer.
func (s *Scheduler) PlaybackTick(now, duration time.Duration) []Event {
	s.now = now
	events := []Event{Progress{Current: now, Duration: duration}}
	if !s.finished && duration > 0 && absDuration(now-duration) < s.opts.EndTolerance {
		s.finished = true
		events = append(events, SessionEnded{Report: s.stats.Report()})
	}
	return append(events, s.evaluate(false)...)
}

// Submit scores a guess for the active blank. Outside Quizzing it does nothing.
func (s *Scheduler) Submit(guess string) []Event {
	if s.state != Quizzing || s.blank == nil {
		return nil
	}
	word := s.blank.Word
	correct := Equal(word, guess)
	if correct {
		s.stats.RecordCorrect(word)
	} else {
		s.stats.RecordIncorrect(word)
	}
	s.blank = nil
	s.state = Watching
	return []Event{
		QuizResolved{Correct: correct, Word: word, Guess: guess},
		LineChanged{Text: s.line},
		ResumeRequested{},
	}
}

func (s *Scheduler) evaluate(arm bool) []Event {
	if s.state != Watching || !s.pending {
		return nil
	}
	remaining, ok := s.index.Remaining(s.now)
	if !ok {
		return nil
	}
	if remaining > s.opts.Threshold {
		if !arm {
			return nil
		}
		return []Event{EligibilityRecheckRequested{Token: s.token, After: remaining - s.opts.Threshold}}
	}
	s.pending = false
	return s.startQuiz()
}

func (s *Scheduler) startQuiz() []Event {
	if !s.passGate() {
		return nil
	}
	tokens := s.tokenizer.Tokenize(s.line)
	if len(tokens) < MinTokens {
		return nil
	}
	blank, ok := ChooseBlank(s.rng, tokens, s.blacklist, s.opts.MaxAttempts)
	if !ok {
		return []Event{LineChanged{Text: s.line}}
	}
	masked := Mask(s.line, blank.Word)
	if masked == s.line {
		// the tokenizer rewrote the word; it cannot be hidden in the displayed line
		log.Printf("quiz: token %q not found in line %q", blank.Word, s.line)
		return []Event{LineChanged{Text: s.line}}
	}
	s.blank = &blank
	s.state = Quizzing
	return []Event{
		PauseRequested{},
		QuizStarted{Masked: masked, Length: utf8.RuneCountInString(blank.Word)},
	}
}

func (s *Scheduler) passGate() bool {
	switch {
	case s.opts.Probability >= 1:
		return true
	case s.opts.Probability <= 0:
		return false
	default:
		return s.rng.Float64() < s.opts.Probability
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
