// Package audit carries flow outcome events from the controller to a
// caller-supplied sink without blocking flow execution.
package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Event records the outcome of one authentication flow run.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Flow      string            `json:"flow"`
	Success   bool              `json:"success"`
	UserID    string            `json:"user_id,omitempty"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Sink receives emitted flow events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops flow events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink writes flow events into a buffered channel.
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// Dispatcher forwards flow events to a sink from a single worker
// goroutine, decoupling flow latency from sink latency. A nil Dispatcher
// is valid and drops everything, so disabled audit costs one nil check
// per flow.
type Dispatcher struct {
	sink    Sink
	events  chan Event
	stopped chan struct{}
	drop    bool
	dropped atomic.Uint64

	// mu gates the events channel: Emit sends under the read lock and
	// Close flips closing under the write lock before closing the
	// channel, so no send can race the close.
	mu      sync.RWMutex
	closing bool
}

// NewDispatcher starts the worker and returns the dispatcher, or nil
// when auditing is disabled.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink:    sink,
		events:  make(chan Event, cfg.BufferSize),
		stopped: make(chan struct{}),
		drop:    cfg.DropIfFull,
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.stopped)
	for event := range d.events {
		d.sink.Emit(context.Background(), event)
	}
}

// Emit queues an event for delivery. In drop mode a full buffer discards
// the event and counts it; otherwise Emit blocks until there is room or
// ctx is done. Events emitted after Close are discarded silently.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closing {
		return
	}

	if d.drop {
		select {
		case d.events <- event:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.events <- event:
	case <-ctx.Done():
	}
}

// Close stops accepting events and waits for the worker to deliver
// everything already queued. Idempotent.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if d.closing {
		d.mu.Unlock()
		return
	}
	d.closing = true
	close(d.events)
	d.mu.Unlock()
	<-d.stopped
}

// Dropped reports how many events were discarded due to a full buffer.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
