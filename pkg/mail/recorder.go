package mail

import (
	"context"
	"fmt"
	"sync"
)

// Recorder is a Mailer that captures messages for test assertions
type Recorder struct {
	mu       sync.Mutex
	sent     []Message
	failFor  map[string]error
	failNext error
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{failFor: make(map[string]error)}
}

// FailFor makes Send return err for the given recipient
func (r *Recorder) FailFor(to string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failFor[to] = err
}

// FailAll makes every subsequent Send return err
func (r *Recorder) FailAll(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = err
}

// Send records msg, or fails if the recipient was marked to fail
func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNext != nil {
		return r.failNext
	}
	if err, ok := r.failFor[msg.To]; ok {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the captured messages
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}

// SentTo returns the messages captured for one recipient
func (r *Recorder) SentTo(to string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, m := range r.sent {
		if m.To == to {
			out = append(out, m)
		}
	}
	return out
}
