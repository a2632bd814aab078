package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"agent-finder/internal/model"
)

// Event kinds delivered to the consumer. Disconnect is synthesized
// client-side when the transport drops before a terminal event; it is never
// on the wire.
const (
	EventProgress   = "progress"
	EventComplete   = "complete"
	EventError      = "error"
	EventDisconnect = "disconnect"
)

// Event is one normalized message from the progress channel.
type Event struct {
	Type     string
	Snapshot model.ProgressSnapshot // progress and complete events
	Message  string                 // error events
}

// wireEvent mirrors the server's flat JSON payload: a type discriminator
// alongside the cumulative counters.
type wireEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Error   string `json:"error"`
	model.ProgressSnapshot
}

// Transport opens the raw byte stream for a job's progress feed. Split out
// from the adapter so tests can substitute a scripted stream and assert
// open/close ordering.
type Transport interface {
	Open(ctx context.Context, jobID string) (io.ReadCloser, error)
}

// HTTPTransport dials GET {base}/api/progress/{job_id} as a server-sent
// event stream. The underlying client must not carry a request timeout: a
// progress stream legitimately stays open for many minutes.
type HTTPTransport struct {
	BaseURL string
	Client  *http.Client
}

func (t *HTTPTransport) Open(ctx context.Context, jobID string) (io.ReadCloser, error) {
	endpoint := fmt.Sprintf("%s/api/progress/%s", strings.TrimRight(t.BaseURL, "/"), url.PathEscape(jobID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build progress request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open progress stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("progress stream returned %s", resp.Status)
	}
	return resp.Body, nil
}

// Adapter owns at most one open progress channel at a time. Attach closes
// the previous channel before dialing the next one, so two streams can never
// interleave snapshot updates for the same view.
type Adapter struct {
	transport Transport

	mu      sync.Mutex
	current *Channel
}

func NewAdapter(transport Transport) *Adapter {
	return &Adapter{transport: transport}
}

// Attach opens the progress channel for jobID, replacing any channel that is
// still open. The returned channel's Events() is closed after a terminal
// event, a transport drop, or Close.
func (a *Adapter) Attach(ctx context.Context, jobID string) (*Channel, error) {
	a.mu.Lock()
	prev := a.current
	a.current = nil
	a.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	body, err := a.transport.Open(ctx, jobID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("attach to job %s: %w", jobID, err)
	}

	ch := &Channel{
		jobID:  jobID,
		events: make(chan Event, 16),
		body:   body,
		cancel: cancel,
	}

	a.mu.Lock()
	a.current = ch
	a.mu.Unlock()

	go ch.read()
	return ch, nil
}

// Close tears down the current channel, if any. Idempotent.
func (a *Adapter) Close() {
	a.mu.Lock()
	ch := a.current
	a.current = nil
	a.mu.Unlock()
	if ch != nil {
		ch.Close()
	}
}

// Channel is one live progress stream. Events are delivered in order on a
// single Go channel; the reader goroutine is the only writer.
type Channel struct {
	jobID  string
	events chan Event
	body   io.ReadCloser
	cancel context.CancelFunc

	closeOnce sync.Once
	closed    atomic.Bool
}

func (c *Channel) JobID() string { return c.jobID }

// Events yields normalized events until the stream ends; the channel is
// closed afterwards so consumers can range over it.
func (c *Channel) Events() <-chan Event { return c.events }

// Close stops the stream. Safe to call from any goroutine, any number of
// times, including after the stream already ended on its own.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.cancel()
		_ = c.body.Close()
	})
}

// read consumes the SSE stream: "data:" lines accumulate a payload, a blank
// line dispatches it, ":" heartbeats and unknown fields are skipped.
// Malformed payloads are dropped without surfacing anything; only a
// terminal event ends the job cleanly.
func (c *Channel) read() {
	defer close(c.events)
	defer c.Close()

	sc := bufio.NewScanner(c.body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data strings.Builder
	terminal := false
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				terminal = c.dispatch(data.String())
				data.Reset()
			}
			if terminal {
				return
			}
		case strings.HasPrefix(line, ":"):
			// heartbeat
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		default:
			// event:/id:/retry: fields are not part of the job contract
		}
	}

	// Some servers end the stream right after the last payload without a
	// trailing blank line.
	if data.Len() > 0 {
		terminal = c.dispatch(data.String())
	}
	if !terminal && !c.closed.Load() {
		c.events <- Event{Type: EventDisconnect}
	}
}

// dispatch parses one payload and forwards it; reports whether it was a
// terminal event.
func (c *Channel) dispatch(payload string) bool {
	var raw wireEvent
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		fmt.Fprintf(os.Stderr, "progress channel: dropping malformed payload: %v\n", err)
		return false
	}

	switch raw.Type {
	case EventProgress:
		c.events <- Event{Type: EventProgress, Snapshot: raw.ProgressSnapshot}
		return false
	case EventComplete:
		c.events <- Event{Type: EventComplete, Snapshot: raw.ProgressSnapshot}
		return true
	case EventError:
		msg := raw.Message
		if msg == "" {
			msg = raw.Error
		}
		if msg == "" {
			msg = "job failed"
		}
		c.events <- Event{Type: EventError, Message: msg}
		return true
	default:
		return false
	}
}
