package events

import (
	"context"
	"sync"
)

// Routing keys published by the services.
const (
	SaleCompleted   = "sale.completed"
	StockIn         = "stock.in"
	EmployeeCreated = "employee.created"
)

// Publisher emits domain events after the owning transaction committed.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ string, _ interface{}) error { return nil }
func (NoopPublisher) Close() error { return nil }

// Message is one event captured by a Recorder.
type Message struct {
	RoutingKey string
	Payload    interface{}
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Publish(_ context.Context, routingKey string, payload interface{}) error {
	r.mu.Lock()
	r.messages = append(r.messages, Message{RoutingKey: routingKey, Payload: payload})
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() error { return nil }

// Messages returns a copy of everything published so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// ByKey returns the payloads published under routingKey.
func (r *Recorder) ByKey(routingKey string) []interface{} {
	var out []interface{}
	for _, m := range r.Messages() {
		if m.RoutingKey == routingKey {
			out = append(out, m.Payload)
		}
	}
	return out
}
