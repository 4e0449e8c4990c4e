// Package ui hosts the quiz scheduler in a Bubble Tea program. Update is the
// only place the scheduler is touched; player I/O and timers run as commands.
package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/luismascotto/subquiz/internal/player"
	"github.com/luismascotto/subquiz/internal/quiz"
)

const (
	width          = 100
	summaryHeight  = 20
	commandTimeout = 2 * time.Second
)

// Player is the part of the media player the UI drives.
type Player interface {
	Events() <-chan player.Event
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	TogglePause(ctx context.Context) error
	Seek(ctx context.Context, delta time.Duration) error
}

type Options struct {
	SeekStep time.Duration
	// GlamourStyle names a glamour standard style; empty picks one from the terminal.
	GlamourStyle string
}

type (
	playerMsg       struct{ ev player.Event }
	playerClosedMsg struct{}
	recheckMsg      struct{ token quiz.LineToken }
	commandErrMsg   struct {
		op  string
		err error
	}
)

type Model struct {
	sched  *quiz.Scheduler
	player Player
	opts   Options

	input    textinput.Model
	progress progress.Model
	summary  viewport.Model

	line        string
	masked      bool
	status      string
	paused      bool
	current     time.Duration
	duration    time.Duration
	showSummary bool

	// summaryPending holds the summary back while a quiz is still open.
	summaryPending bool
}

func New(sched *quiz.Scheduler, p Player, opts Options) Model {
	if opts.SeekStep <= 0 {
		opts.SeekStep = 5 * time.Second
	}
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 64

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = width - 20

	vp := viewport.New(width, summaryHeight)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		PaddingRight(2)

	return Model{
		sched:    sched,
		player:   p,
		opts:     opts,
		input:    in,
		progress: bar,
		summary:  vp,
	}
}

// Report is the session report so far.
func (m Model) Report() quiz.Report {
	return m.sched.Report()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.player.Events()), textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = max(min(msg.Width, width)-20, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case playerMsg:
		cmds := []tea.Cmd{waitForEvent(m.player.Events())}
		switch ev := msg.ev.(type) {
		case player.SubtitleText:
			cmds = append(cmds, m.apply(m.sched.SubtitleChanged(ev.Text)))
		case player.Position:
			cmds = append(cmds, m.apply(m.sched.PlaybackTick(ev.Time, ev.Duration)))
		case player.PauseChanged:
			m.paused = ev.Paused
		case player.Exited:
			log.Print("player connection closed")
		}
		return m, tea.Batch(cmds...)

	case playerClosedMsg:
		if m.showSummary {
			return m, nil
		}
		return m, tea.Quit

	case recheckMsg:
		return m, m.apply(m.sched.RecheckFired(msg.token))

	case commandErrMsg:
		log.Printf("player %s: %v", msg.op, msg.err)
		m.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
		return m, nil
	}

	if m.sched.State() == quiz.Quizzing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showSummary {
		switch key {
		case "q", "esc", "enter":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.summary, cmd = m.summary.Update(msg)
		return m, cmd
	}

	if m.sched.State() == quiz.Quizzing {
		switch key {
		case "enter":
			return m, m.apply(m.sched.Submit(m.input.Value()))
		case "esc":
			return m, m.apply(m.sched.Submit(""))
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case " ", "space":
		return m, m.playerCmd("toggle pause", m.player.TogglePause)
	case "left":
		return m, m.seek(-m.opts.SeekStep)
	case "right":
		return m, m.seek(m.opts.SeekStep)
	}
	return m, nil
}

// apply turns scheduler events into view state and commands. Player
// commands run in one command, in event order.
func (m *Model) apply(events []quiz.Event) tea.Cmd {
	var cmds []tea.Cmd
	var ops []playerOp
	for _, ev := range events {
		switch ev := ev.(type) {
		case quiz.LineChanged:
			m.line = ev.Text
			m.masked = false
		case quiz.EligibilityRecheckRequested:
			token := ev.Token
			cmds = append(cmds, tea.Tick(ev.After, func(time.Time) tea.Msg {
				return recheckMsg{token: token}
			}))
		case quiz.QuizStarted:
			m.line = ev.Masked
			m.masked = true
			m.status = ""
			m.input.Reset()
			m.input.Placeholder = strings.Repeat("_", ev.Length)
			cmds = append(cmds, m.input.Focus())
		case quiz.QuizResolved:
			m.input.Blur()
			m.input.Reset()
			if ev.Correct {
				m.status = "Correct: " + ev.Word
			} else {
				m.status = fmt.Sprintf("Wrong: the word was %q", ev.Word)
			}
		case quiz.SessionEnded:
			m.summaryPending = true
		case quiz.Progress:
			m.current = ev.Current
			m.duration = ev.Duration
		case quiz.PauseRequested:
			ops = append(ops, playerOp{"pause", m.player.Pause})
		case quiz.ResumeRequested:
			ops = append(ops, playerOp{"resume", m.player.Resume})
		}
	}
	if len(ops) > 0 {
		cmds = append(cmds, runOps(ops))
	}
	if m.summaryPending && m.sched.State() != quiz.Quizzing {
		m.summaryPending = false
		m.showSummary = true
		report := m.sched.Report()
		if err := m.renderSummary(report); err != nil {
			log.Printf("render summary: %v", err)
			m.summary.SetContent(report.Markdown())
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) renderSummary(r quiz.Report) error {
	// The glamour render width leaves room for the viewport border and
	// padding plus the gutter glamour adds on the left.
	const glamourGutter = 2
	renderWidth := width - m.summary.Style.GetHorizontalFrameSize() - glamourGutter

	style := glamour.WithAutoStyle()
	if m.opts.GlamourStyle != "" {
		style = glamour.WithStandardStyle(m.opts.GlamourStyle)
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(renderWidth))
	if err != nil {
		return err
	}
	out, err := renderer.Render(r.Markdown())
	if err != nil {
		return err
	}
	m.summary.SetContent(out)
	return nil
}

func (m Model) seek(delta time.Duration) tea.Cmd {
	return m.playerCmd("seek", func(ctx context.Context) error {
		return m.player.Seek(ctx, delta)
	})
}

func (m Model) playerCmd(op string, f func(context.Context) error) tea.Cmd {
	return runOps([]playerOp{{op, f}})
}

type playerOp struct {
	name string
	run  func(context.Context) error
}

func runOps(ops []playerOp) tea.Cmd {
	return func() tea.Msg {
		for _, op := range ops {
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			err := op.run(ctx)
			cancel()
			if err != nil {
				return commandErrMsg{op: op.name, err: err}
			}
		}
		return nil
	}
}

func waitForEvent(ch <-chan player.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return playerClosedMsg{}
		}
		return playerMsg{ev: ev}
	}
}
