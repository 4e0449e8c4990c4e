package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/luismascotto/subquiz/internal/blacklist"
	"github.com/luismascotto/subquiz/internal/player"
	"github.com/luismascotto/subquiz/internal/quiz"
	"github.com/luismascotto/subquiz/internal/rules"
	"github.com/luismascotto/subquiz/internal/subtitle"
	"github.com/luismascotto/subquiz/internal/tokenize"
	"github.com/luismascotto/subquiz/internal/transform"
	"github.com/luismascotto/subquiz/internal/ui"
)

type args struct {
	Subtitles  string `arg:"positional" help:"subtitle file (.srt, .ass, .ssa)"`
	Media      string `arg:"positional" help:"video file to play"`
	Blacklist  string `arg:"-b,--blacklist" help:"words that are never blanked, one per line"`
	Config     string `arg:"-c,--config" help:"YAML config file"`
	Log        string `arg:"--log" default:"subquiz.log" help:"log file"`
	MPV        string `arg:"--mpv" help:"mpv binary (overrides the config)"`
	InitConfig bool   `arg:"--init-config" help:"write the default config to --config and exit"`
}

func (args) Description() string {
	return "Plays a video in mpv and quizzes you on the words of its subtitles."
}

func main() {
	a := args{Config: rules.DefaultPath}
	p := arg.MustParse(&a)
	if !a.InitConfig && (a.Subtitles == "" || a.Media == "") {
		p.Fail("SUBTITLES and MEDIA are required")
	}
	if err := run(a); err != nil {
		exitWithErr(err)
	}
}

// run does all the work of main, so deferred cleanup happens before the
// process exits on an error.
func run(a args) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if a.InitConfig {
		if err := rules.Default().Save(a.Config); err != nil {
			return err
		}
		fmt.Println("wrote", a.Config)
		return nil
	}

	conf, err := rules.Load(a.Config)
	if err != nil {
		return err
	}
	if err := conf.ApplyEnv(os.Getenv); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if a.MPV != "" {
		conf.Player.Path = a.MPV
	}

	logFile, err := tea.LogToFile(a.Log, "subquiz")
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	log.Printf("config loaded from file: %v", conf.LoadedFromFile)

	if err := validateInputPath(a.Media); err != nil {
		log.Printf("media: %v", err)
		return err
	}
	doc, err := subtitle.Load(a.Subtitles, conf.IgnoreMinorErrors)
	if err != nil {
		return err
	}
	bl, err := blacklist.Load(a.Blacklist)
	if err != nil {
		return err
	}
	cleaner, err := transform.NewCleaner(conf.Cleanup)
	if err != nil {
		return fmt.Errorf("cleanup rules: %w", err)
	}
	log.Printf("%d cues spanning %v, %d blacklisted words", len(doc.Cues), doc.Duration(), len(bl))

	sched := quiz.NewScheduler(quiz.Config{
		Index:     quiz.NewIndex(doc.Cues),
		Tokenizer: tokenize.New(cleaner),
		Blacklist: bl,
		Options: quiz.Options{
			Threshold:    conf.Quiz.Threshold,
			Probability:  conf.Quiz.Probability,
			MaxAttempts:  conf.Quiz.MaxAttempts,
			EndTolerance: conf.Quiz.EndTolerance,
		},
	})

	report, err := play(sched, conf, a)
	if err != nil {
		return err
	}

	var sb strings.Builder
	if _, err := report.WriteTo(&sb); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Print(sb.String())
	if conf.CopyReport {
		if err := clipboard.WriteAll(sb.String()); err != nil {
			fmt.Fprintln(os.Stderr, "Error copying report:", err)
		}
	}
	return nil
}

// play runs the session and returns its report. The player is shut down
// before returning, whatever happens.
func play(sched *quiz.Scheduler, conf rules.Config, a args) (quiz.Report, error) {
	mpv, err := player.Launch(context.Background(), player.Options{
		Path:      conf.Player.Path,
		Socket:    conf.Player.Socket,
		Geometry:  conf.Player.Geometry,
		Media:     a.Media,
		Subtitles: a.Subtitles,
	})
	if err != nil {
		return quiz.Report{}, fmt.Errorf("launch player: %w", err)
	}
	defer func() {
		if err := mpv.Close(); err != nil {
			log.Printf("close player: %v", err)
		}
	}()

	m := ui.New(sched, mpv, ui.Options{
		SeekStep:     conf.Player.SeekStep,
		GlamourStyle: conf.UI.GlamourStyle,
	})
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return quiz.Report{}, fmt.Errorf("run tea program: %w", err)
	}
	fm, ok := final.(ui.Model)
	if !ok {
		return quiz.Report{}, errors.New("final model is not a ui.Model")
	}
	return fm.Report(), nil
}

func validateInputPath(p string) error {
	stat, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if stat.IsDir() {
		return errors.New("input is a directory; expected a file")
	}
	return nil
}

func exitWithErr(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
