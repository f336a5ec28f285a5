// Package emailtest provides an in-memory email.Sender for tests.
package emailtest

import (
	"context"
	"sync"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/email"
)

type Recorder struct {
	mu       sync.Mutex
	messages []email.Message

	// Err, when set, is returned by Send after FailAfter successful sends.
	Err       error
	FailAfter int
}

func (r *Recorder) Send(_ context.Context, msg email.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil && len(r.messages) >= r.FailAfter {
		return r.Err
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *Recorder) Messages() []email.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]email.Message, len(r.messages))
	copy(result, r.messages)
	return result
}
