package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"traubling/internal/model"
	"traubling/internal/pkg"
	"traubling/internal/repository/db"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sender 投递一条 outbox 事件，返回错误即视为失败，等待重试
type Sender func(ctx context.Context, ob *model.Outbox) error

// OutboxRelayer 从 outbox 表读取事件并交给 sender 投递
type OutboxRelayer struct {
	repo      *db.OutboxRepository
	batchSize int
	maxRetry  int
	interval  time.Duration
	sender    Sender
	log       *zap.Logger
}

type RelayerOptions struct {
	BatchSize int
	MaxRetry  int
	Interval  time.Duration
}

func NewOutboxRelayer(repo *db.OutboxRepository, sender Sender, opts RelayerOptions, log *zap.Logger) *OutboxRelayer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 200
	}
	if opts.MaxRetry <= 0 {
		opts.MaxRetry = 5
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	return &OutboxRelayer{
		repo:      repo,
		batchSize: opts.BatchSize,
		maxRetry:  opts.MaxRetry,
		interval:  opts.Interval,
		sender:    sender,
		log:       log,
	}
}

// Run outbox 启动器，ctx 取消后退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 投递一批，返回成功条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize, r.maxRetry)
	if err != nil {
		r.log.Error("outbox query failed", zap.Error(err))
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			pkg.OutboxEventsTotal.WithLabelValues("failed").Inc()
			r.log.Warn("outbox send failed",
				zap.Uint64("outbox_id", ob.ID), zap.String("event_type", ob.EventType),
				zap.Int("retry", ob.Retry+1), zap.Error(err))
			if err = r.repo.RetryUpdate(ctx, ob.ID); err != nil {
				r.log.Error("outbox retry update failed", zap.Uint64("outbox_id", ob.ID), zap.Error(err))
			}
			continue
		}
		pkg.OutboxEventsTotal.WithLabelValues("sent").Inc()
		if err = r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			r.log.Error("outbox success update failed", zap.Uint64("outbox_id", ob.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

// KafkaSender 把 outbox 行原样发布到通知 topic
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.Outbox) error {
		return p.Publish(ctx, pkg.NotificationEvent{
			OutboxID:    ob.ID,
			Type:        ob.EventType,
			RecipientID: ob.RecipientID,
			Payload:     []byte(ob.Payload),
			CreatedAt:   ob.CreatedAt,
		})
	}
}

// EmailSender 给接收者发通知邮件；接收者已不存在时直接丢弃
func EmailSender(m *pkg.Mailer, users *db.UserRepository, baseURL string) Sender {
	return func(ctx context.Context, ob *model.Outbox) error {
		var ev OutboxEvent
		if err := json.Unmarshal([]byte(ob.Payload), &ev); err != nil {
			return fmt.Errorf("decode outbox payload: %w", err)
		}
		u, err := users.FindByID(ctx, ob.RecipientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				pkg.OutboxEventsTotal.WithLabelValues("dropped").Inc()
				return nil
			}
			return err
		}
		link := strings.TrimRight(baseURL, "/") + "/notifications"
		if ev.PostID != nil {
			link = fmt.Sprintf("%s/posts/%d", strings.TrimRight(baseURL, "/"), *ev.PostID)
		}
		return m.Send(u.Email, "traubling からのお知らせ", pkg.NotificationHTML(ev.Message, link))
	}
}

// LogSender 未配置 kafka/smtp 时只打日志
func LogSender(log *zap.Logger) Sender {
	return func(ctx context.Context, ob *model.Outbox) error {
		log.Info("outbox event",
			zap.Uint64("outbox_id", ob.ID),
			zap.String("event_type", ob.EventType),
			zap.Uint64("recipient_id", ob.RecipientID),
			zap.String("payload", ob.Payload))
		return nil
	}
}
