package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"traubling/internal/model"
	"traubling/internal/repository/db"

	"gorm.io/gorm"
)

const RecentNotificationLimit = 20

// OutboxEvent outbox payload，也是投递到 kafka 的消息体
type OutboxEvent struct {
	Type        model.NotificationType `json:"type"`
	RecipientID uint64                 `json:"recipientId"`
	FromUserID  uint64                 `json:"fromUserId,omitempty"`
	FromName    string                 `json:"fromName,omitempty"`
	PostID      *uint64                `json:"postId,omitempty"`
	Message     string                 `json:"message"`
	EventTime   string                 `json:"eventTime"`
}

// Notice 一条待写入的通知
type Notice struct {
	RecipientID uint64
	From        *model.User
	Type        model.NotificationType
	PostID      *uint64
	Message     string
}

// Notifier 在业务事务内写通知和 outbox
type Notifier struct {
	repo *db.NotificationRepository
}

func NewNotifier(repo *db.NotificationRepository) *Notifier {
	return &Notifier{repo: repo}
}

func displayName(u *model.User) string {
	if u == nil || u.Name == "" {
		return AnonymousLikeName
	}
	return u.Name
}

func LikeMessage(from *model.User, title string) string {
	return fmt.Sprintf("%sがあなたの投稿「%s」にいいねしました。", displayName(from), title)
}

func CommentMessage(from *model.User, title string) string {
	return fmt.Sprintf("%sがあなたの投稿「%s」にコメントしました。", displayName(from), title)
}

func FollowMessage(from *model.User) string {
	return fmt.Sprintf("%sがあなたをフォローしました。", displayName(from))
}

func BestAnswerMessage(title string) string {
	return fmt.Sprintf("あなたのコメントが「%s」のベストアンサーに選ばれました。", title)
}

func (n *Notifier) NotifyTx(tx *gorm.DB, notice Notice) error {
	row := &model.Notification{
		UserID:  notice.RecipientID,
		Type:    notice.Type,
		PostID:  notice.PostID,
		Message: notice.Message,
	}
	event := OutboxEvent{
		Type:        notice.Type,
		RecipientID: notice.RecipientID,
		PostID:      notice.PostID,
		Message:     notice.Message,
		EventTime:   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if notice.From != nil {
		row.FromUserID = &notice.From.ID
		event.FromUserID = notice.From.ID
		event.FromName = notice.From.Name
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.repo.CreateTx(tx, row, &model.Outbox{
		EventType:   string(notice.Type),
		RecipientID: notice.RecipientID,
		Payload:     string(payload),
		Status:      model.OutboxPending,
	})
}

type NotificationService struct {
	repo *db.NotificationRepository
}

func NewNotificationService(repo *db.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

type NotificationPost struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

type NotificationItem struct {
	ID        uint64                 `json:"id"`
	Type      model.NotificationType `json:"type"`
	Message   string                 `json:"message"`
	IsRead    bool                   `json:"isRead"`
	CreatedAt time.Time              `json:"createdAt"`
	FromUser  *AuthorView            `json:"fromUser"`
	Post      *NotificationPost      `json:"post"`
}

// Recent 最新 20 条
func (s *NotificationService) Recent(ctx context.Context, userID uint64) ([]NotificationItem, error) {
	list, err := s.repo.ListRecent(ctx, userID, RecentNotificationLimit)
	if err != nil {
		return nil, err
	}
	out := make([]NotificationItem, 0, len(list))
	for _, n := range list {
		item := NotificationItem{
			ID:        n.ID,
			Type:      n.Type,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if n.FromUser != nil {
			from := authorView(n.FromUser)
			item.FromUser = &from
		}
		if n.Post != nil {
			item.Post = &NotificationPost{ID: n.Post.ID, Title: n.Post.Title}
		}
		out = append(out, item)
	}
	return out, nil
}

// MarkRead 单条已读，仅限本人的通知；返回实际更新条数
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint64) (int64, error) {
	if notificationID == 0 {
		return 0, ErrInvalidID
	}
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	if userID == 0 {
		return 0, nil
	}
	return s.repo.UnreadCount(ctx, userID)
}
