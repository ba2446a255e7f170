package service

import (
	"context"

	"traubling/internal/model"
	"traubling/internal/repository/db"

	"gorm.io/gorm"
)

const (
	FollowedMessage   = "フォローしました。"
	UnfollowedMessage = "フォローを解除しました。"
)

type FollowService struct {
	repo     *db.FollowRepository
	users    *db.UserRepository
	notifier *Notifier
}

func NewFollowService(repo *db.FollowRepository, users *db.UserRepository, notifier *Notifier) *FollowService {
	return &FollowService{repo: repo, users: users, notifier: notifier}
}

// FollowTarget email 和 id 二选一
type FollowTarget struct {
	Email  string
	UserID uint64
}

type FollowResult struct {
	IsFollowing    bool   `json:"isFollowing"`
	FollowersCount int64  `json:"followersCount"`
	Message        string `json:"message"`
}

type FollowUser struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (s *FollowService) resolve(ctx context.Context, t FollowTarget) (*model.User, error) {
	email := normalizeEmail(t.Email)
	switch {
	case email != "" && t.UserID != 0:
		return nil, invalid("specify either targetEmail or targetUserId")
	case email != "":
		u, err := s.users.FindByEmail(ctx, email)
		return u, notFoundAs(err, ErrUserNotFound)
	case t.UserID != 0:
		u, err := s.users.FindByID(ctx, t.UserID)
		return u, notFoundAs(err, ErrUserNotFound)
	default:
		return nil, invalid("targetEmail or targetUserId is required")
	}
}

// Toggle 已关注则取关，否则关注；新关注时给对方发通知
func (s *FollowService) Toggle(ctx context.Context, follower *model.User, t FollowTarget) (*FollowResult, error) {
	target, err := s.resolve(ctx, t)
	if err != nil {
		return nil, err
	}
	if target.ID == follower.ID {
		return nil, ErrCannotFollowSelf
	}

	following, err := s.repo.Toggle(ctx, follower.ID, target.ID, func(tx *gorm.DB) error {
		return s.notifier.NotifyTx(tx, Notice{
			RecipientID: target.ID,
			From:        follower,
			Type:        model.NotificationFollow,
			Message:     FollowMessage(follower),
		})
	})
	if err != nil {
		return nil, err
	}
	count, err := s.repo.FollowersCount(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	res := &FollowResult{IsFollowing: following, FollowersCount: count, Message: UnfollowedMessage}
	if following {
		res.Message = FollowedMessage
	}
	return res, nil
}

// IsFollowing 未登录时恒为 false，但目标不存在仍然报错
func (s *FollowService) IsFollowing(ctx context.Context, viewerID uint64, t FollowTarget) (bool, error) {
	target, err := s.resolve(ctx, t)
	if err != nil {
		return false, err
	}
	if viewerID == 0 || viewerID == target.ID {
		return false, nil
	}
	return s.repo.IsFollowing(ctx, viewerID, target.ID)
}

func (s *FollowService) ListFollowings(ctx context.Context, userID, cursor uint64, limit int) ([]FollowUser, uint64, error) {
	list, next, err := s.repo.ListFollowings(ctx, userID, cursor, limit)
	return followUsers(list), next, err
}

func (s *FollowService) ListFollowers(ctx context.Context, userID, cursor uint64, limit int) ([]FollowUser, uint64, error) {
	list, next, err := s.repo.ListFollowers(ctx, userID, cursor, limit)
	return followUsers(list), next, err
}

func followUsers(list []model.User) []FollowUser {
	out := make([]FollowUser, 0, len(list))
	for _, u := range list {
		out = append(out, FollowUser{ID: u.ID, Name: u.Name, Image: u.Image})
	}
	return out
}
