// Package events fans admin changes out to every API instance so per-process
// caches can drop stale data.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/city-directory/internal/metrics"
)

// Event types.
const (
	TypeCreated  = "created"
	TypeUpdated  = "updated"
	TypeDeleted  = "deleted"
	TypeReloaded = "reloaded"
)

// Event describes a write to a collection.
type Event struct {
	Type       string    `json:"type"`
	Collection string    `json:"collection"`
	ID         string    `json:"id,omitempty"`
	Source     string    `json:"source,omitempty"`
	At         time.Time `json:"at"`
}

// Handler receives decoded events. Handlers must not block for long.
type Handler func(Event)

// Bus publishes and delivers change events.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(h Handler) error
	Close()
}

// Encode serializes an event for the wire.
func Encode(e Event) ([]byte, error) {
	if e.Type == "" || e.Collection == "" {
		return nil, fmt.Errorf("event requires type and collection")
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	return json.Marshal(e)
}

// Decode parses a wire payload.
func Decode(payload []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" || e.Collection == "" {
		return Event{}, fmt.Errorf("event missing type or collection")
	}
	return e, nil
}

// OnCollection returns a handler that runs fn for events on collection.
func OnCollection(collection string, fn func(Event)) Handler {
	return func(e Event) {
		if e.Collection == collection {
			fn(e)
		}
	}
}

// LocalBus delivers events synchronously inside the process. It is used
// when no broker is configured.
type LocalBus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

func (b *LocalBus) Publish(ctx context.Context, e Event) error {
	if _, err := Encode(e); err != nil {
		return err
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
	metrics.EventsPublished.WithLabelValues(e.Collection).Inc()
	return nil
}

func (b *LocalBus) Subscribe(h Handler) error {
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
	return nil
}

func (b *LocalBus) Close() {
	b.mu.Lock()
	b.handlers = nil
	b.mu.Unlock()
}

// NopBus drops everything.
type NopBus struct{}

func (NopBus) Publish(context.Context, Event) error { return nil }
func (NopBus) Subscribe(Handler) error              { return nil }
func (NopBus) Close()                               {}

func logDropped(err error, payload []byte) {
	log.WithError(err).WithField("payload", string(payload)).Warn("Dropping malformed event")
}

var (
	_ Bus = (*LocalBus)(nil)
	_ Bus = NopBus{}
	_ Bus = (*MQTTBus)(nil)
)
