package ui

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luismascotto/subquiz/internal/model"
	"github.com/luismascotto/subquiz/internal/player"
	"github.com/luismascotto/subquiz/internal/quiz"
)

type fakePlayer struct {
	mu     sync.Mutex
	calls  []string
	events chan player.Event
}

func (p *fakePlayer) record(call string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
	return nil
}

func (p *fakePlayer) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakePlayer) Events() <-chan player.Event       { return p.events }
func (p *fakePlayer) Pause(context.Context) error       { return p.record("pause") }
func (p *fakePlayer) Resume(context.Context) error      { return p.record("resume") }
func (p *fakePlayer) TogglePause(context.Context) error { return p.record("toggle") }
func (p *fakePlayer) Seek(_ context.Context, d time.Duration) error {
	return p.record(fmt.Sprintf("seek %v", d))
}

// fixedRand always draws the same token index.
type fixedRand int

func (r fixedRand) Intn(n int) int   { return int(r) % n }
func (r fixedRand) Float64() float64 { return 0 }

func newTestModel(t *testing.T) (Model, *fakePlayer) {
	t.Helper()
	return newModelWith(t, fixedRand(3),
		&model.Cue{Start: time.Second, End: 4 * time.Second, Lines: []string{"The quick", "brown fox"}})
}

func newModelWith(t *testing.T, rng quiz.Rand, cues ...*model.Cue) (Model, *fakePlayer) {
	t.Helper()
	sched := quiz.NewScheduler(quiz.Config{
		Index:     quiz.NewIndex(cues),
		Tokenizer: quiz.TokenizerFunc(strings.Fields),
		Rand:      rng,
		Options:   quiz.DefaultOptions(),
	})
	p := &fakePlayer{events: make(chan player.Event)}
	return New(sched, p, Options{GlamourStyle: "notty"}), p
}

// run executes cmd and any batched commands, dropping those that block
// (timers, the player event wait).
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, run(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func update(m Model, msg tea.Msg) (Model, []tea.Msg) {
	next, cmd := m.Update(msg)
	return next.(Model), run(cmd)
}

func hasQuit(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

func startQuiz(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(m, playerMsg{player.Position{Time: 3500 * time.Millisecond, Duration: time.Minute}})
	m, _ = update(m, playerMsg{player.SubtitleText{Text: "The quick\nbrown fox"}})
	if m.sched.State() != quiz.Quizzing {
		t.Fatalf("state = %v; want quizzing", m.sched.State())
	}
	return m
}

func TestModel_QuizRoundTrip(t *testing.T) {
	m, p := newTestModel(t)
	m = startQuiz(t, m)

	if m.line != "The quick brown ___" || !m.masked {
		t.Errorf("line = %q masked = %v", m.line, m.masked)
	}
	if !strings.Contains(m.View(), "The quick brown ___") {
		t.Error("view does not show the masked line")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Fox")})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.sched.State() != quiz.Watching {
		t.Fatalf("state after enter = %v", m.sched.State())
	}
	if m.line != "The quick brown fox" || m.masked {
		t.Errorf("line after submit = %q masked = %v", m.line, m.masked)
	}
	if m.status != "Correct: fox" {
		t.Errorf("status = %q", m.status)
	}
	if got, want := p.Calls(), []string{"pause", "resume"}; !reflect.DeepEqual(got, want) {
		t.Errorf("player calls = %q; want %q", got, want)
	}
}

func TestModel_GiveUp(t *testing.T) {
	m, _ := newTestModel(t)
	m = startQuiz(t, m)

	// "q" is a letter of the guess while quizzing
	m, msgs := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if hasQuit(msgs) {
		t.Fatal("q quit during a quiz")
	}
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if r := m.Report(); !reflect.DeepEqual(r.Incorrect, []string{"fox"}) {
		t.Errorf("report = %+v", r)
	}
	if !strings.HasPrefix(m.status, "Wrong") {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_WatchingKeys(t *testing.T) {
	m, p := newTestModel(t)
	m, _ = update(m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRight})
	want := []string{"toggle", "seek -5s", "seek 5s"}
	if got := p.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("player calls = %q; want %q", got, want)
	}
	if _, msgs := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); !hasQuit(msgs) {
		t.Error("q did not quit while watching")
	}
}

func TestModel_StaleRecheckIgnored(t *testing.T) {
	m, p := newTestModel(t)
	m, _ = update(m, playerMsg{player.Position{Time: 1500 * time.Millisecond}})
	m, _ = update(m, playerMsg{player.SubtitleText{Text: "The quick brown fox"}})
	m, _ = update(m, recheckMsg{})
	if m.sched.State() != quiz.Watching || len(p.Calls()) != 0 {
		t.Errorf("stale recheck acted: state %v calls %q", m.sched.State(), p.Calls())
	}
}

func TestModel_SessionSummary(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(m, playerMsg{player.Position{Time: 59 * time.Second, Duration: time.Minute}})
	if !m.showSummary {
		t.Fatal("summary not shown at the end of the media")
	}
	if !strings.Contains(m.View(), "Session summary") {
		t.Errorf("summary view = %q", m.View())
	}
	if _, msgs := update(m, playerClosedMsg{}); hasQuit(msgs) {
		t.Error("closing the player hid the summary")
	}
	if _, msgs := update(m, tea.KeyMsg{Type: tea.KeyEnter}); !hasQuit(msgs) {
		t.Error("enter did not quit the summary")
	}
}

func TestModel_QuizNearTheEndKeepsSummaryBack(t *testing.T) {
	m, p := newModelWith(t, fixedRand(1),
		&model.Cue{Start: 57 * time.Second, End: 59 * time.Second, Lines: []string{"one two three"}})

	m, _ = update(m, playerMsg{player.Position{Time: 57100 * time.Millisecond, Duration: time.Minute}})
	m, _ = update(m, playerMsg{player.SubtitleText{Text: "one two three"}})
	m, _ = update(m, playerMsg{player.Position{Time: 58500 * time.Millisecond, Duration: time.Minute}})

	if m.sched.State() != quiz.Quizzing {
		t.Fatalf("state = %v; want quizzing", m.sched.State())
	}
	if m.showSummary {
		t.Fatal("summary hides the open quiz")
	}
	if !strings.Contains(m.View(), "one ___ three") {
		t.Errorf("view does not show the quiz: %q", m.View())
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("two")})
	m, msgs := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if hasQuit(msgs) {
		t.Fatal("enter quit instead of submitting")
	}
	if !m.showSummary {
		t.Fatal("summary not shown once the quiz resolved")
	}
	if r := m.Report(); !reflect.DeepEqual(r.Correct, []string{"two"}) {
		t.Errorf("report = %+v", r)
	}
	if got, want := p.Calls(), []string{"pause", "resume"}; !reflect.DeepEqual(got, want) {
		t.Errorf("player calls = %q; want %q", got, want)
	}
	if !strings.Contains(m.View(), "two") {
		t.Errorf("summary does not list the answer: %q", m.View())
	}
}

func TestModel_PlayerClosedQuits(t *testing.T) {
	m, _ := newTestModel(t)
	if _, msgs := update(m, playerClosedMsg{}); !hasQuit(msgs) {
		t.Error("model kept running without a player")
	}
}

func TestModel_CommandError(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(m, commandErrMsg{op: "pause", err: errors.New("broken pipe")})
	if !strings.Contains(m.status, "pause failed") {
		t.Errorf("status = %q", m.status)
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{65 * time.Second, "1:05"},
		{time.Hour + 2*time.Minute + 5*time.Second, "1:02:05"},
		{1499 * time.Millisecond, "0:01"},
	}
	for _, tt := range tests {
		if got := clock(tt.d); got != tt.want {
			t.Errorf("clock(%v) = %q; want %q", tt.d, got, tt.want)
		}
	}
}
