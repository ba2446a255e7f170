package pkg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestNotificationMessage(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msg := NotificationMessage(NotificationEvent{
		OutboxID:    42,
		Type:        "LIKE",
		RecipientID: 7,
		Payload:     []byte(`{"type":"LIKE"}`),
		CreatedAt:   at,
	})

	assert.Equal(t, "7", string(msg.Key))
	assert.JSONEq(t, `{"type":"LIKE"}`, string(msg.Value))
	assert.Equal(t, "LIKE", header(msg, HeaderEventType))
	assert.Equal(t, "42", header(msg, HeaderOutboxID))
	assert.Equal(t, at, msg.Time)
}

func TestPublishWritesOneMessage(t *testing.T) {
	w := &memWriter{}
	p := &KafkaProducer{writer: w, topic: "t"}

	require.NoError(t, p.Publish(context.Background(), NotificationEvent{OutboxID: 1, Type: "FOLLOW", RecipientID: 3}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "3", string(w.msgs[0].Key))

	w.err = errors.New("broker down")
	assert.EqualError(t, p.Publish(context.Background(), NotificationEvent{RecipientID: 3}), "broker down")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	assert.NoError(t, (*KafkaProducer)(nil).Close())
}
