package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/textproto"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

// natsHeaderCarrier adapts nats.Msg headers for OTel TextMapCarrier. Keys
// are stored in canonical MIME form so lookups are case-insensitive.
type natsHeaderCarrier nats.Msg

func (c *natsHeaderCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	if v := c.Header[textproto.CanonicalMIMEHeaderKey(key)]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c *natsHeaderCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header[textproto.CanonicalMIMEHeaderKey(key)] = []string{val}
}

func (c *natsHeaderCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

// NATSBus carries refresh events over a NATS subject with trace context
// in the message headers.
type NATSBus struct {
	nc      *nats.Conn
	subject string
}

// ConnectNATS dials a NATS server.
func ConnectNATS(url, name, subject string) (*NATSBus, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return NewNATSBus(nc, subject), nil
}

// NewNATSBus wraps an existing connection.
func NewNATSBus(nc *nats.Conn, subject string) *NATSBus {
	return &NATSBus{nc: nc, subject: subject}
}

// Publish implements Bus.
func (b *NATSBus) Publish(ctx context.Context, evt InventoryRefreshed) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := &nats.Msg{Subject: b.subject, Data: data}
	otel.GetTextMapPropagator().Inject(ctx, (*natsHeaderCarrier)(msg))
	return b.nc.PublishMsg(msg)
}

// Subscribe implements Bus. Malformed messages are dropped.
func (b *NATSBus) Subscribe(ctx context.Context, h Handler) (func(), error) {
	sub, err := b.nc.Subscribe(b.subject, func(msg *nats.Msg) {
		var evt InventoryRefreshed
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			return
		}
		h(otel.GetTextMapPropagator().Extract(context.Background(), (*natsHeaderCarrier)(msg)), evt)
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe: %w", err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Close drains the connection.
func (b *NATSBus) Close() error {
	return b.nc.Drain()
}
