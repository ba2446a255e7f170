package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"traubling/internal/model"
	"traubling/internal/repository/db"

	"gorm.io/gorm"
)

type CommentService struct {
	repo     *db.CommentRepository
	posts    *db.PostRepository
	notifier *Notifier
}

func NewCommentService(repo *db.CommentRepository, posts *db.PostRepository, notifier *Notifier) *CommentService {
	return &CommentService{repo: repo, posts: posts, notifier: notifier}
}

type CommentUser struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type CommentItem struct {
	ID           uint64       `json:"id"`
	Content      string       `json:"content"`
	PostID       uint64       `json:"postId"`
	UserID       uint64       `json:"userId"`
	IsBestAnswer bool         `json:"isBestAnswer"`
	CreatedAt    time.Time    `json:"createdAt"`
	User         *CommentUser `json:"user"`
}

func commentItem(c *model.Comment) CommentItem {
	item := CommentItem{
		ID:           c.ID,
		Content:      c.Content,
		PostID:       c.PostID,
		UserID:       c.UserID,
		IsBestAnswer: c.IsBestAnswer,
		CreatedAt:    c.CreatedAt,
	}
	if c.User != nil {
		item.User = &CommentUser{ID: c.User.ID, Name: c.User.Name, Image: c.User.Image}
	}
	return item
}

// List 帖子下的评论，旧的在前
func (s *CommentService) List(ctx context.Context, postID uint64) ([]CommentItem, error) {
	if postID == 0 {
		return nil, invalid("postId is required")
	}
	list, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	out := make([]CommentItem, 0, len(list))
	for i := range list {
		out = append(out, commentItem(&list[i]))
	}
	return out, nil
}

// Create 评论者不是帖子作者时通知作者
func (s *CommentService) Create(ctx context.Context, user *model.User, postID uint64, content string) (*CommentItem, error) {
	content = strings.TrimSpace(content)
	if postID == 0 || content == "" {
		return nil, invalid("postId and content are required")
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}

	comment := &model.Comment{PostID: post.ID, UserID: user.ID, Content: content}
	err = s.repo.Create(ctx, comment, func(tx *gorm.DB) error {
		if post.UserID == user.ID {
			return nil
		}
		return s.notifier.NotifyTx(tx, Notice{
			RecipientID: post.UserID,
			From:        user,
			Type:        model.NotificationComment,
			PostID:      &post.ID,
			Message:     CommentMessage(user, post.Title),
		})
	})
	if err != nil {
		return nil, err
	}
	item := commentItem(comment)
	return &item, nil
}

// MarkBestAnswer 只有帖子作者能选，不能选自己的评论，每帖最多一个
func (s *CommentService) MarkBestAnswer(ctx context.Context, user *model.User, commentID uint64) (*CommentItem, error) {
	if commentID == 0 {
		return nil, ErrInvalidID
	}
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return nil, notFoundAs(err, ErrCommentNotFound)
	}
	post, err := s.posts.FindByID(ctx, comment.PostID)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	if post.UserID != user.ID {
		return nil, ErrForbidden
	}
	if comment.UserID == user.ID {
		return nil, invalid("cannot choose your own comment as best answer")
	}
	if post.BestAnswerID != nil {
		return nil, ErrConflict
	}

	err = s.repo.MarkBestAnswer(ctx, post, comment, func(tx *gorm.DB) error {
		return s.notifier.NotifyTx(tx, Notice{
			RecipientID: comment.UserID,
			From:        user,
			Type:        model.NotificationBestAnswer,
			PostID:      &post.ID,
			Message:     BestAnswerMessage(post.Title),
		})
	})
	if errors.Is(err, db.ErrAlreadyAnswered) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	comment.IsBestAnswer = true
	item := commentItem(comment)
	return &item, nil
}

type ExpertiseItem struct {
	ID              uint64 `json:"id"`
	CityName        string `json:"cityName"`
	TroubleName     string `json:"troubleName"`
	BestAnswerCount int    `json:"bestAnswerCount"`
	IsMaster        bool   `json:"isMaster"`
}

func (s *CommentService) Expertises(ctx context.Context, userID uint64) ([]ExpertiseItem, error) {
	if userID == 0 {
		return nil, invalid("userId is required")
	}
	list, err := s.repo.ListExpertises(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ExpertiseItem, 0, len(list))
	for i := range list {
		e := &list[i]
		item := ExpertiseItem{ID: e.ID, BestAnswerCount: e.BestAnswerCount, IsMaster: e.IsMaster()}
		if e.City != nil {
			item.CityName = e.City.JaName
		}
		item.TroubleName = tagOf(e.Trouble)
		out = append(out, item)
	}
	return out, nil
}
