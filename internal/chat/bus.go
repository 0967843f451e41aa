// Package chat implements the global chat room: the message bus, the ordered
// message log, presence tracking and the websocket hub.
package chat

import (
	"context"
	"sync"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

// Bus fans chat messages out to every subscriber.
type Bus interface {
	Publish(ctx context.Context, msg models.ChatMessage) error
	// Subscribe returns a channel of published messages and a func that ends the subscription.
	Subscribe() (<-chan models.ChatMessage, func())
}

type Logger interface {
	Infof(string, ...interface{})
	Errorf(string, ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

const subscriberBuffer = 64

// LocalBus delivers messages in-process, in publish order per subscriber.
// A subscriber whose buffer is full is dropped and its channel closed; the
// others still get the message.
type LocalBus struct {
	mu     sync.Mutex
	subs   map[int]chan models.ChatMessage
	nextID int
	logger Logger
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[int]chan models.ChatMessage), logger: nopLogger{}}
}

// Publish hands msg to every subscriber without blocking. It only fails when
// ctx is already done.
func (b *LocalBus) Publish(ctx context.Context, msg models.ChatMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- msg:
		default:
			delete(b.subs, id)
			close(ch)
			b.logger.Errorf("chat: dropped slow subscriber %d at message %s", id, msg.ID)
		}
	}
	return nil
}

// Subscribe returns a channel of published messages and a func that ends the
// subscription. The channel is closed when the subscription ends either way.
func (b *LocalBus) Subscribe() (<-chan models.ChatMessage, func()) {
	ch := make(chan models.ChatMessage, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if cur, ok := b.subs[id]; ok && cur == ch {
			delete(b.subs, id)
			close(ch)
		}
	}
}
