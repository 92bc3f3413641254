// Package events routes viewer commands to their handlers. Marker
// clicks, UI buttons and API calls all arrive as Events; handlers run
// synchronously by default, or on a per-command queue when registered
// Buffered.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event is one incoming viewer command with its raw string arguments.
type Event struct {
	Command   string
	Args      []string
	Timestamp time.Time
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger is the logging surface the dispatcher needs; *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures how a handler is registered.
type Option func(*registration)

type registration struct {
	queueSize int
	blocking  bool
	logged    bool
}

// Buffered detaches the handler onto a queue of the given size; Dispatch
// returns once the event is accepted.
func Buffered(size int) Option {
	return func(r *registration) {
		r.queueSize = size
	}
}

// Blocking makes a buffered handler wait for queue room instead of
// rejecting events when full.
func Blocking() Option {
	return func(r *registration) {
		r.blocking = true
	}
}

// Logged wraps the handler with debug/error logging and timing.
func Logged() Option {
	return func(r *registration) {
		r.logged = true
	}
}

// Dispatcher maps command names to handlers. Registration happens during
// construction of the viewer; Dispatch may be called from any goroutine
// afterwards.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger
	metrics  dispatchMetrics

	mu     sync.RWMutex
	queues map[string]chan Event
}

// New creates a Dispatcher. Metrics go to the global OTel meter, which is
// a no-op unless a provider is configured.
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		queues:   make(map[string]chan Event),
		logger:   logger,
	}
	if err := d.metrics.init(d.observeQueues); err != nil {
		return nil, err
	}
	return d, nil
}

// observeQueues reports each buffered command's queue depth.
func (d *Dispatcher) observeQueues(o metric.Observer, gauge metric.Int64ObservableGauge) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for cmd, q := range d.queues {
		o.ObserveInt64(gauge, int64(len(q)),
			metric.WithAttributes(attribute.String("command", cmd)))
	}
}

// Register adds a handler for the given command.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	var reg registration
	for _, opt := range opts {
		opt(&reg)
	}

	if reg.queueSize > 0 {
		h = d.detach(command, reg, h)
	}
	if reg.logged {
		h = d.logged(command, h)
	}

	d.handlers[command] = h
}

// Dispatch routes an event to its registered handler.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[e.Command]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", e.Command)
	}
	return h(e)
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[command]
	return ok
}

// detach moves handler execution onto a dedicated queue goroutine. The
// returned HandlerFunc only enqueues; a full queue rejects (or blocks,
// per the registration) so a stuck handler cannot stall its callers.
func (d *Dispatcher) detach(command string, reg registration, h HandlerFunc) HandlerFunc {
	queue := make(chan Event, reg.queueSize)

	d.mu.Lock()
	d.queues[command] = queue
	d.mu.Unlock()

	cmdAttr := attribute.String("command", command)
	go func() {
		for e := range queue {
			h(e)
			d.metrics.processed.Add(context.Background(), 1, metric.WithAttributes(cmdAttr))
		}
	}()

	if reg.blocking {
		return func(e Event) (any, error) {
			queue <- e
			return "queued", nil
		}
	}
	return func(e Event) (any, error) {
		select {
		case queue <- e:
			return "queued", nil
		default:
			d.metrics.dropped.Add(context.Background(), 1, metric.WithAttributes(cmdAttr))
			return nil, fmt.Errorf("queue full: %s", command)
		}
	}
}

func (d *Dispatcher) logged(command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		d.logger.Debug("handling event", "command", command, "args", len(e.Args))

		result, err := h(e)
		if err != nil {
			d.logger.Error("event failed", "command", command, "duration", time.Since(start), "error", err)
			return result, err
		}

		d.logger.Debug("event complete", "command", command, "duration", time.Since(start))
		return result, nil
	}
}
