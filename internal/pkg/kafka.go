package pkg

import (
	"context"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventType = "event-type"
	HeaderOutboxID  = "outbox-id"
)

// messageWriter *kafka.Writer 的最小子集，测试里替换成内存实现
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducer struct {
	writer messageWriter
	topic  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NotificationEvent 一条待投递的通知事件，Payload 为已编码的 JSON
type NotificationEvent struct {
	OutboxID    uint64
	Type        string
	RecipientID uint64
	Payload     []byte
	CreatedAt   time.Time
}

// NewKafkaProducer 按接收者 id 做 hash 分区，同一接收者的通知保持有序
func NewKafkaProducer(cfg KafkaConfig) *KafkaProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Publish 同步写入；relayer 失败重试时可能重复投递，消费端按 outbox-id 去重
func (p *KafkaProducer) Publish(ctx context.Context, ev NotificationEvent) error {
	return p.writer.WriteMessages(ctx, NotificationMessage(ev))
}

// NotificationMessage key 为接收者 id，事件类型和 outbox id 放在 header
func NotificationMessage(ev NotificationEvent) kafka.Message {
	return kafka.Message{
		Key:   []byte(strconv.FormatUint(ev.RecipientID, 10)),
		Value: ev.Payload,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(ev.Type)},
			{Key: HeaderOutboxID, Value: []byte(strconv.FormatUint(ev.OutboxID, 10))},
		},
		Time: ev.CreatedAt,
	}
}
