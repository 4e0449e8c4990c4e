package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config is looked up when no --config is given.
const DefaultPath = "subquiz.yaml"

// Config is the whole runtime configuration.
type Config struct {
	LoadedFromFile bool `yaml:"-"`

	Quiz    Quiz    `yaml:"quiz"`
	Cleanup Cleanup `yaml:"cleanup"`
	Player  Player  `yaml:"player"`
	UI      UI      `yaml:"ui"`

	// IgnoreMinorErrors skips malformed SRT blocks instead of failing.
	IgnoreMinorErrors bool `yaml:"ignore_minor_errors"`
	// CopyReport copies the session report to the clipboard on exit.
	CopyReport bool `yaml:"copy_report"`
}

// Quiz tunes when and how often lines are quizzed.
type Quiz struct {
	Threshold    time.Duration `yaml:"threshold"`
	Probability  float64       `yaml:"probability"`
	MaxAttempts  int           `yaml:"max_attempts"`
	EndTolerance time.Duration `yaml:"end_tolerance"`
}

// Cleanup captures the rules applied to a line before it is tokenized.
// RemoveUppercaseColonWords: speaker labels. eg: "GUARD 2: Hey!", "KAREN: Hello!"
// RemoveSingleLineColon: a line ending with ":" with 3 or fewer words. eg: "That woman said:"
// RemoveBetweenDelimiters: sound descriptions. eg: (tyres screeching), [bird chirping]
// RemoveLineIfContains: drop the whole line when it contains this text. eg: "tense music *"
type Cleanup struct {
	RemoveUppercaseColonWords bool        `yaml:"remove_uppercase_colon_words"`
	RemoveSingleLineColon     bool        `yaml:"remove_single_line_colon"`
	RemoveBetweenDelimiters   []Delimiter `yaml:"remove_between_delimiters"`
	RemoveLineIfContains      string      `yaml:"remove_line_if_contains"`
}

type Delimiter struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// Player configures the mpv process.
type Player struct {
	Path     string        `yaml:"path"`
	Socket   string        `yaml:"socket"`
	Geometry string        `yaml:"geometry"`
	SeekStep time.Duration `yaml:"seek_step"`
}

// UI configures the terminal view.
type UI struct {
	// GlamourStyle names a glamour standard style for the session summary
	// (dark, light, notty, ...). Empty picks one from the terminal.
	GlamourStyle string `yaml:"glamour_style"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Quiz: Quiz{
			Threshold:    600 * time.Millisecond,
			Probability:  1,
			MaxAttempts:  10,
			EndTolerance: 2 * time.Second,
		},
		Cleanup: Cleanup{
			RemoveUppercaseColonWords: true,
			RemoveBetweenDelimiters: []Delimiter{
				{Left: "(", Right: ")"},
				{Left: "[", Right: "]"},
				{Left: "{", Right: "}"},
				{Left: "¶", Right: "¶"},
				{Left: "♪", Right: "♪"},
				{Left: "♫", Right: "♫"},
				{Left: "*", Right: "*"},
			},
			RemoveLineIfContains: " music *",
		},
		Player: Player{
			Path:     "mpv",
			Geometry: "55%",
			SeekStep: 5 * time.Second,
		},
		IgnoreMinorErrors: true,
	}
}

// Load returns the defaults overlaid with the YAML file at path. A missing
// file is not an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	conf, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	conf.LoadedFromFile = true
	return conf, nil
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (Config, error) {
	conf := Default()
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	conf.normalize()
	return conf, nil
}

// Save writes c as YAML, for --init-config.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// ApplyEnv overrides values from SUBQUIZ_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	durations := map[string]*time.Duration{
		"SUBQUIZ_THRESHOLD":     &c.Quiz.Threshold,
		"SUBQUIZ_END_TOLERANCE": &c.Quiz.EndTolerance,
		"SUBQUIZ_SEEK_STEP":     &c.Player.SeekStep,
	}
	for key, dst := range durations {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	if v := strings.TrimSpace(getenv("SUBQUIZ_PROBABILITY")); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SUBQUIZ_PROBABILITY: %w", err)
		}
		c.Quiz.Probability = p
	}
	if v := strings.TrimSpace(getenv("SUBQUIZ_MAX_ATTEMPTS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SUBQUIZ_MAX_ATTEMPTS: %w", err)
		}
		c.Quiz.MaxAttempts = n
	}
	if v := strings.TrimSpace(getenv("SUBQUIZ_COPY_REPORT")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SUBQUIZ_COPY_REPORT: %w", err)
		}
		c.CopyReport = b
	}
	if v := strings.TrimSpace(getenv("SUBQUIZ_MPV")); v != "" {
		c.Player.Path = v
	}
	if v := strings.TrimSpace(getenv("SUBQUIZ_SOCKET")); v != "" {
		c.Player.Socket = v
	}
	if v := strings.TrimSpace(getenv("SUBQUIZ_GLAMOUR_STYLE")); v != "" {
		c.UI.GlamourStyle = v
	}
	c.normalize()
	return nil
}

func (c *Config) normalize() {
	def := Default()
	if c.Quiz.Threshold <= 0 {
		c.Quiz.Threshold = def.Quiz.Threshold
	}
	c.Quiz.Probability = min(max(c.Quiz.Probability, 0), 1)
	if c.Quiz.MaxAttempts <= 0 {
		c.Quiz.MaxAttempts = def.Quiz.MaxAttempts
	}
	if c.Quiz.EndTolerance <= 0 {
		c.Quiz.EndTolerance = def.Quiz.EndTolerance
	}
	if c.Player.Path == "" {
		c.Player.Path = def.Player.Path
	}
	if c.Player.SeekStep <= 0 {
		c.Player.SeekStep = def.Player.SeekStep
	}
}
