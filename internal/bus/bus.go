// Package bus provides the single serialization point for domain events.
// Producers publish concurrently; one consumer goroutine drains the queue in
// FIFO order and runs every handler for an event to completion before the
// next event starts, so all subscribers observe the same total order and
// handler state never needs its own locking.
package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mtlprog/slopmesh/internal/domain"
)

// Handler consumes one event inside the serialized consumer. A returned
// error is logged and isolated; it never stops delivery to other handlers or
// later events.
type Handler func(ctx context.Context, ev *domain.Event) error

// DefaultQueueSize bounds the publish queue when no explicit size is given.
const DefaultQueueSize = 1024

// queueItem is either an event or a flush barrier.
type queueItem struct {
	event   *domain.Event
	barrier chan struct{}
}

type subscriber struct {
	name    string
	handler Handler
}

// Bus fans events out to handlers from a single consumer goroutine. The
// queue is bounded: Publish blocks while it is full until space frees, the
// caller's context ends, or the bus stops.
type Bus struct {
	queue chan queueItem
	done  chan struct{} // closed by Stop

	mu          sync.RWMutex
	subscribers []subscriber

	started  atomic.Bool
	stopOnce sync.Once
	drained  chan struct{} // closed when the consumer exits
	seq      uint64        // touched only by the consumer goroutine
}

// New creates a stopped bus. A size of zero or less falls back to
// DefaultQueueSize.
func New(size int) *Bus {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Bus{
		queue:   make(chan queueItem, size),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}
}

// Subscribe registers a named handler. The name only labels failure logs.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, subscriber{name: name, handler: h})
}

// SetSequence resumes event numbering after seq, so a journal-backed restart
// keeps the total order strictly increasing. Must be called before Start.
func (b *Bus) SetSequence(seq uint64) {
	b.seq = seq
}

// Start launches the consumer goroutine. ctx flows into every handler
// invocation; cancelling it does not stop the bus, use Stop for that.
func (b *Bus) Start(ctx context.Context) {
	if !b.started.CompareAndSwap(false, true) {
		return
	}
	go b.run(ctx)
}

// Publish enqueues ev for ordered delivery and returns once the event is
// queued, without waiting for handlers. Safe for arbitrary concurrent
// callers. After Stop it fails with ErrBusClosed; it never drops silently.
func (b *Bus) Publish(ctx context.Context, ev *domain.Event) error {
	select {
	case <-b.done:
		return domain.ErrBusClosed
	default:
	}

	select {
	case b.queue <- queueItem{event: ev}:
		return nil
	case <-b.done:
		return domain.ErrBusClosed
	case <-ctx.Done():
		return fmt.Errorf("publish %s: %w", ev.Type, ctx.Err())
	}
}

// TryPublish enqueues ev without ever blocking. Handlers that emit follow-up
// events while running on the consumer goroutine must use this instead of
// Publish: blocking there would deadlock the bus once the queue fills.
func (b *Bus) TryPublish(ev *domain.Event) error {
	select {
	case <-b.done:
		return domain.ErrBusClosed
	default:
	}

	select {
	case b.queue <- queueItem{event: ev}:
		return nil
	case <-b.done:
		return domain.ErrBusClosed
	default:
		return fmt.Errorf("publish %s: %w", ev.Type, domain.ErrQueueFull)
	}
}

// Flush blocks until every event enqueued before the call has been fully
// processed. It fails if the bus stops first or ctx ends.
func (b *Bus) Flush(ctx context.Context) error {
	barrier := make(chan struct{})

	select {
	case <-b.done:
		return domain.ErrBusClosed
	default:
	}

	select {
	case b.queue <- queueItem{barrier: barrier}:
	case <-b.done:
		return domain.ErrBusClosed
	case <-ctx.Done():
		return fmt.Errorf("flush: %w", ctx.Err())
	}

	select {
	case <-barrier:
		return nil
	case <-b.done:
		return domain.ErrBusClosed
	case <-ctx.Done():
		return fmt.Errorf("flush: %w", ctx.Err())
	}
}

// Stop rejects further publishes, lets the in-flight event finish, and waits
// for the consumer to exit. Events still queued are dropped.
func (b *Bus) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
	})
	if b.started.Load() {
		<-b.drained
	}
}

func (b *Bus) run(ctx context.Context) {
	defer close(b.drained)
	for {
		select {
		case <-b.done:
			return
		default:
		}

		select {
		case <-b.done:
			return
		case item := <-b.queue:
			// Re-check so a stop issued while idle wins over a
			// concurrently queued item.
			select {
			case <-b.done:
				return
			default:
			}
			if item.barrier != nil {
				close(item.barrier)
				continue
			}
			b.dispatch(ctx, item.event)
		}
	}
}

// dispatch assigns the total order and runs every handler to completion.
func (b *Bus) dispatch(ctx context.Context, ev *domain.Event) {
	b.seq++
	ev.Sequence = b.seq

	b.mu.RLock()
	subs := make([]subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, sub := range subs {
		b.invoke(ctx, sub, ev)
	}
}

// invoke isolates one handler call: panics are recovered and errors logged,
// so a broken subscriber cannot block the others or corrupt the order.
func (b *Bus) invoke(ctx context.Context, sub subscriber, ev *domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked",
				"handler", sub.name,
				"event_id", ev.ID,
				"event_type", ev.Type,
				"panic", r,
			)
		}
	}()

	if err := sub.handler(ctx, ev); err != nil {
		slog.Error("event handler failed",
			"handler", sub.name,
			"event_id", ev.ID,
			"event_type", ev.Type,
			"error", err,
		)
	}
}
