package tasks

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagstream/internal/models"
)

// DefaultEventBufferSize is the default buffer size for the event channel.
const DefaultEventBufferSize = 64

// Slot names an independent result list held by [CatalogEngine].
type Slot int

const (
	SlotSearch Slot = iota // tag search results
	SlotAll                // full catalog listing
)

func (s Slot) String() string {
	switch s {
	case SlotSearch:
		return "search"
	case SlotAll:
		return "all"
	default:
		return ""
	}
}

// ResultsReplaced is published every time a slot's list is replaced by a fetched response.
type ResultsReplaced struct {
	Slot  Slot
	Key   string // tag key for search results
	Songs []models.Song
	Seq   uint64
}

// ResultsPublisher receives list replacements.
type ResultsPublisher interface {
	PublishResultsReplaced(event ResultsReplaced)
}

// ResultsSubscriber registers list replacement handlers.
type ResultsSubscriber interface {
	OnResultsReplaced(handler func(context.Context, ResultsReplaced))
}

var (
	_ ResultsPublisher  = (*Bus)(nil)
	_ ResultsSubscriber = (*Bus)(nil)
)

// Bus is a channel-based event bus with a single dispatcher goroutine.
//
// Handlers run on the dispatcher in publish order.
type Bus struct {
	events   chan ResultsReplaced
	handlers []func(context.Context, ResultsReplaced)
	logger   *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewBus creates a Bus with the given buffer size and starts its dispatcher.
func NewBus(bufferSize int, logger *log.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Bus{
		events: make(chan ResultsReplaced, bufferSize),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	b.wg.Add(1)
	go b.dispatch()
	return b
}

func (b *Bus) dispatch() {
	defer b.wg.Done()
	for event := range b.events {
		b.mu.RLock()
		handlers := b.handlers
		b.mu.RUnlock()
		for _, handler := range handlers {
			handler(b.ctx, event)
		}
	}
}

// PublishResultsReplaced publishes a ResultsReplaced event.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *Bus) PublishResultsReplaced(event ResultsReplaced) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.logger.Warn("attempted to publish to closed event bus", "slot", event.Slot)
		return
	}

	select {
	case b.events <- event:
		b.logger.Debug("published event", "slot", event.Slot, "seq", event.Seq, "songs", len(event.Songs))
	default:
		b.logger.Warn("event buffer full, dropping event", "slot", event.Slot, "seq", event.Seq)
	}
}

// OnResultsReplaced registers a handler for ResultsReplaced.
func (b *Bus) OnResultsReplaced(handler func(context.Context, ResultsReplaced)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Close stops accepting events, delivers the ones already queued, and waits for the dispatcher.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.events)
	b.mu.Unlock()

	b.wg.Wait()
	b.cancel()
	b.logger.Debug("event bus closed")
}
