// Package notify provides fire-and-forget message emission after successful
// mutations. Delivery is best-effort: the service layer publishes after the
// database commit and never fails a committed write over a publish error.
package notify

import (
	"context"
	"sync"
)

// Publisher emits a message under a routing key. Implementations must be
// safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, routingKey, message string) error
	Close() error
}

// Nop discards every message. Useful when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string) error { return nil }
func (Nop) Close() error                                  { return nil }

// Recorder captures published messages for inspection in tests.
type Recorder struct {
	mu       sync.Mutex
	messages []RecordedMessage
}

// RecordedMessage is one captured publish call.
type RecordedMessage struct {
	RoutingKey string
	Message    string
}

func (r *Recorder) Publish(_ context.Context, routingKey, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, RecordedMessage{RoutingKey: routingKey, Message: message})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Messages returns a copy of everything published so far.
func (r *Recorder) Messages() []RecordedMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedMessage, len(r.messages))
	copy(out, r.messages)
	return out
}
