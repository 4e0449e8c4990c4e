package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateInputPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "movie.mkv")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"file", file, false},
		{"directory", dir, true},
		{"missing", filepath.Join(dir, "nope.mkv"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateInputPath(tt.path); (err != nil) != tt.wantErr {
				t.Errorf("validateInputPath(%q) error = %v; wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestRun_ErrorStillClosesLog(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	dir := t.TempDir()
	logPath := filepath.Join(dir, "subquiz.log")
	err := run(args{
		Subtitles: filepath.Join(dir, "movie.srt"),
		Media:     filepath.Join(dir, "missing.mkv"),
		Config:    filepath.Join(dir, "subquiz.yaml"),
		Log:       logPath,
	})
	if err == nil {
		t.Fatal("run() with a missing media file succeeded")
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "config loaded from file: false") {
		t.Errorf("log = %q", data)
	}
}

func TestRun_InitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subquiz.yaml")
	if err := run(args{Config: path, InitConfig: true}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not written: %v", err)
	}
}
