package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

// NATSBus shares the room between service instances: messages are published on
// a NATS subject and every delivery is relayed to local subscribers.
type NATSBus struct {
	conn    *nats.Conn
	subject string
	local   *LocalBus
	sub     *nats.Subscription
	logger  Logger
}

// ConnectNATS dials url with reconnects enabled.
func ConnectNATS(url string, timeout time.Duration) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("projobhub-chat"),
		nats.Timeout(timeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
}

func NewNATSBus(conn *nats.Conn, subject string, logger Logger) (*NATSBus, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	local := NewLocalBus()
	local.logger = logger
	b := &NATSBus{conn: conn, subject: subject, local: local, logger: logger}

	sub, err := conn.Subscribe(subject, b.relay)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	b.sub = sub
	logger.Infof("chat: subscribed to nats subject %s", subject)
	return b, nil
}

func (b *NATSBus) relay(m *nats.Msg) {
	var msg models.ChatMessage
	if err := json.Unmarshal(m.Data, &msg); err != nil {
		b.logger.Errorf("chat: drop malformed nats message on %s: %v", m.Subject, err)
		return
	}
	// never blocks; slow local subscribers are dropped by the local bus
	_ = b.local.Publish(context.Background(), msg)
}

func (b *NATSBus) Publish(ctx context.Context, msg models.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := b.conn.Publish(b.subject, data); err != nil {
		return fmt.Errorf("publish to nats: %w", err)
	}
	return nil
}

func (b *NATSBus) Subscribe() (<-chan models.ChatMessage, func()) {
	return b.local.Subscribe()
}

func (b *NATSBus) Close() error {
	if b.sub != nil {
		return b.sub.Unsubscribe()
	}
	return nil
}
