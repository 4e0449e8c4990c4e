// Package player drives mpv over its JSON IPC socket. The connection itself
// is mpvipc's; this package turns observed properties into the few events the
// quiz cares about and wraps commands with contexts.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DexterLB/mpvipc"
)

// ErrClosed is returned by commands issued after the connection went away.
var ErrClosed = errors.New("player: connection closed")

// Observed properties, by observe id.
const (
	propSubText = iota + 1
	propPlaybackTime
	propDuration
	propPause
)

var observed = map[int]string{
	propSubText:      "sub-text",
	propPlaybackTime: "playback-time",
	propDuration:     "duration",
	propPause:        "pause",
}

// Event is something the player reports on its own.
type Event interface {
	isPlayerEvent()
}

// SubtitleText carries the text mpv currently shows; empty between cues.
type SubtitleText struct {
	Text string
}

// Position carries the playback time and the media duration (0 until known).
type Position struct {
	Time     time.Duration
	Duration time.Duration
}

// PauseChanged reports the pause property.
type PauseChanged struct {
	Paused bool
}

// Exited is the last event, sent once the connection is gone.
type Exited struct{}

func (SubtitleText) isPlayerEvent() {}
func (Position) isPlayerEvent()     {}
func (PauseChanged) isPlayerEvent() {}
func (Exited) isPlayerEvent()       {}

// Client is an mpv IPC connection. Commands may be issued from any
// goroutine; events are delivered in order on Events.
type Client struct {
	conn   *mpvipc.Connection
	events chan Event
	stop   chan struct{} // closed by Close
	done   chan struct{} // closed when the connection is gone

	closeOnce sync.Once

	// owned by forward
	duration time.Duration
}

// Dial connects to the IPC socket of a running mpv.
func Dial(socket string) (*Client, error) {
	conn := mpvipc.NewConnection(socket)
	if err := conn.Open(); err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

// NewClient takes ownership of an open connection.
func NewClient(conn *mpvipc.Connection) *Client {
	c := &Client{
		conn:   conn,
		events: make(chan Event, 64),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	raw, stopListening := conn.NewEventListener()
	go func() {
		conn.WaitUntilClosed()
		close(c.done)
		close(stopListening)
	}()
	go c.forward(raw)
	return c
}

// Events is closed after the Exited event.
func (c *Client) Events() <-chan Event { return c.events }

// Command sends an IPC command and waits for its reply.
func (c *Client) Command(ctx context.Context, args ...any) (any, error) {
	select {
	case <-c.done:
		return nil, ErrClosed
	default:
	}
	type result struct {
		data any
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := c.conn.Call(args...)
		ch <- result{data: data, err: err}
	}()
	select {
	case r := <-ch:
		if r.err != nil {
			select {
			case <-c.done:
				return nil, ErrClosed
			default:
			}
			return nil, fmt.Errorf("mpv %v: %w", args[0], r.err)
		}
		return r.data, nil
	case <-c.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Observe subscribes to the properties the quiz needs.
func (c *Client) Observe(ctx context.Context) error {
	for id := propSubText; id <= propPause; id++ {
		if _, err := c.Command(ctx, "observe_property", id, observed[id]); err != nil {
			return fmt.Errorf("observe %s: %w", observed[id], err)
		}
	}
	return nil
}

func (c *Client) Pause(ctx context.Context) error {
	_, err := c.Command(ctx, "set_property", "pause", true)
	return err
}

func (c *Client) Resume(ctx context.Context) error {
	_, err := c.Command(ctx, "set_property", "pause", false)
	return err
}

func (c *Client) TogglePause(ctx context.Context) error {
	_, err := c.Command(ctx, "cycle", "pause")
	return err
}

// Seek moves the playhead by delta, relative to the current position.
func (c *Client) Seek(ctx context.Context, delta time.Duration) error {
	_, err := c.Command(ctx, "seek", delta.Seconds(), "relative")
	return err
}

// Quit asks mpv to exit.
func (c *Client) Quit(ctx context.Context) error {
	_, err := c.Command(ctx, "quit")
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

// Close drops the connection. Pending commands fail with ErrClosed.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)
		err = c.conn.Close()
		<-c.done
	})
	return err
}

func (c *Client) forward(raw <-chan *mpvipc.Event) {
	for ev := range raw {
		if e, ok := c.decodeEvent(ev); ok {
			c.emit(e)
		}
	}
	c.emit(Exited{})
	close(c.events)
}

// emit blocks until the event is consumed or the client is closed.
func (c *Client) emit(ev Event) {
	select {
	case c.events <- ev:
	case <-c.stop:
	}
}

func (c *Client) decodeEvent(ev *mpvipc.Event) (Event, bool) {
	if ev == nil || ev.Name != "property-change" {
		return nil, false
	}
	switch int(ev.ID) {
	case propSubText:
		text, _ := ev.Data.(string) // nil between cues
		return SubtitleText{Text: text}, true
	case propPlaybackTime:
		secs, ok := ev.Data.(float64)
		if !ok {
			return nil, false
		}
		return Position{Time: seconds(secs), Duration: c.duration}, true
	case propDuration:
		if secs, ok := ev.Data.(float64); ok {
			c.duration = seconds(secs)
		}
	case propPause:
		if paused, ok := ev.Data.(bool); ok {
			return PauseChanged{Paused: paused}, true
		}
	}
	return nil, false
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
