// Package memory provides an in-process Broker for tests and local
// development. Published messages are JSON-encoded and fanned out to every
// live subscriber of the channel, mirroring the Redis pub/sub semantics.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type Broker struct {
	mu          sync.Mutex
	subscribers map[string][]chan []byte
	published   map[string][][]byte
	closed      bool

	// PublishErr, when set, makes every Publish fail
	PublishErr error
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string][]chan []byte),
		published:   make(map[string][][]byte),
	}
}

func (b *Broker) Publish(_ context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.PublishErr != nil {
		return b.PublishErr
	}
	if b.closed {
		return fmt.Errorf("broker is closed")
	}

	b.published[channel] = append(b.published[channel], payload)
	for _, ch := range b.subscribers[channel] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *Broker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("broker is closed")
	}

	ch := make(chan []byte, 100)
	b.subscribers[channel] = append(b.subscribers[channel], ch)

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[channel]
		for i, sub := range subs {
			if sub == ch {
				b.subscribers[channel] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}()

	return ch, nil
}

func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Published returns the raw payloads published to a channel, for assertions
func (b *Broker) Published(channel string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]byte, len(b.published[channel]))
	copy(out, b.published[channel])
	return out
}
