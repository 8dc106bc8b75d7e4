package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeNotifier) SendMessage(_ context.Context, phone, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, phone+": "+body)
	return nil
}

func (f *fakeNotifier) delivered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func TestDispatcherDelivers(t *testing.T) {
	fake := &fakeNotifier{}
	d := NewDispatcher(fake, 8, time.Second)

	d.Enqueue("555", "hola")
	d.Enqueue("666", "chau")
	d.Close()

	require.Len(t, fake.delivered(), 2)
	assert.Equal(t, "555: hola", fake.delivered()[0])
}

func TestDispatcherSwallowsSendErrors(t *testing.T) {
	fake := &fakeNotifier{err: errors.New("gateway down")}
	d := NewDispatcher(fake, 8, time.Second)

	// Must not panic or block the caller
	d.Enqueue("555", "hola")
	d.Close()

	assert.Empty(t, fake.delivered())
}

func TestEnqueueNeverBlocksWhenFull(t *testing.T) {
	blocked := make(chan struct{})
	slow := notifierFunc(func(ctx context.Context, phone, body string) error {
		<-blocked
		return nil
	})

	d := NewDispatcher(slow, 1, time.Second)
	defer func() {
		close(blocked)
		d.Close()
	}()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Enqueue("555", "msg")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

type notifierFunc func(ctx context.Context, phone, body string) error

func (f notifierFunc) SendMessage(ctx context.Context, phone, body string) error {
	return f(ctx, phone, body)
}
