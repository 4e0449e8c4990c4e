package player

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Options describe how mpv is started.
type Options struct {
	Path      string // mpv binary, "mpv" when empty
	Socket    string // IPC socket path; a temp path when empty
	Geometry  string
	Media     string
	Subtitles string
	// DialTimeout bounds the wait for mpv to open its IPC socket.
	DialTimeout time.Duration
}

// MPV is a running mpv process with its IPC connection.
type MPV struct {
	*Client
	cmd    *exec.Cmd
	socket string
	exited chan struct{}
}

// Launch starts mpv and connects to its IPC socket. The subtitles are loaded
// but drawn at scale 0, so the only visible line is the one in the terminal.
// ctx bounds the connection attempt, not the lifetime of the process.
func Launch(ctx context.Context, opts Options) (*MPV, error) {
	if opts.Path == "" {
		opts.Path = "mpv"
	}
	if opts.Socket == "" {
		opts.Socket = filepath.Join(os.TempDir(), "subquiz-"+uuid.NewString()+".sock")
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}

	cmd := exec.Command(opts.Path, Args(opts)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", opts.Path, err)
	}
	m := &MPV{cmd: cmd, socket: opts.Socket, exited: make(chan struct{})}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("mpv exited: %v", err)
		}
		close(m.exited)
	}()

	client, err := m.dial(ctx, opts.DialTimeout)
	if err != nil {
		_ = cmd.Process.Kill()
		<-m.exited
		return nil, err
	}
	m.Client = client
	if err := m.Observe(ctx); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

// Args builds the mpv command line for opts.
func Args(opts Options) []string {
	args := []string{
		"--input-ipc-server=" + opts.Socket,
		"--sub-scale=0",
		"--keep-open=no",
		"--force-window=yes",
	}
	if opts.Geometry != "" {
		args = append(args, "--geometry="+opts.Geometry)
	}
	if opts.Subtitles != "" {
		args = append(args, "--sub-file="+opts.Subtitles)
	}
	return append(args, "--", opts.Media)
}

// dial retries until mpv has opened its socket.
func (m *MPV) dial(ctx context.Context, timeout time.Duration) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		client, err := Dial(m.socket)
		if err == nil {
			return client, nil
		}
		select {
		case <-m.exited:
			return nil, errors.New("mpv exited before opening its IPC socket")
		case <-ctx.Done():
			return nil, fmt.Errorf("connect to mpv at %s: %w", m.socket, err)
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// Close asks mpv to quit, waits briefly for it and removes the socket.
func (m *MPV) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if m.Client != nil {
		_ = m.Quit(ctx)
		_ = m.Client.Close()
	}
	select {
	case <-m.exited:
	case <-time.After(2 * time.Second):
		_ = m.cmd.Process.Kill()
		<-m.exited
	}
	if err := os.Remove(m.socket); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove socket: %w", err)
	}
	return nil
}
