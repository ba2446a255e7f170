package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"traubling/internal/model"
	"traubling/internal/pkg"
	"traubling/internal/repository/db"
	"traubling/internal/repository/redis"
)

type UserService struct {
	repo     *db.UserRepository
	sessions *redis.SessionRepository
	tokens   *pkg.TokenManager
}

func NewUserService(repo *db.UserRepository, sessions *redis.SessionRepository, tokens *pkg.TokenManager) *UserService {
	return &UserService{repo: repo, sessions: sessions, tokens: tokens}
}

type SessionResult struct {
	*pkg.Pair
	User *model.User `json:"user"`
}

// normalizeEmail 所有按 email 查用户的入口都先经过这里
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StartSession 外部身份登录成功后回调：按 email 建档并签发 token
func (s *UserService) StartSession(ctx context.Context, email, name, image string) (*SessionResult, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, invalid("email is required")
	}
	user, err := s.repo.UpsertByEmail(ctx, email, strings.TrimSpace(name), strings.TrimSpace(image))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	sid := pkg.NewSessionID()
	pair, err := s.tokens.GeneratePair(user.ID, user.Email, sid)
	if err != nil {
		return nil, err
	}
	// 将会话写入redis
	if err = s.sessions.Add(ctx, sid, user.ID); err != nil {
		return nil, err
	}
	return &SessionResult{Pair: pair, User: user}, nil
}

// Authenticate access token -> 会话校验 -> 用户
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*model.User, *pkg.Claims, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}
	if err = s.checkSession(ctx, claims); err != nil {
		return nil, nil, err
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, notFoundAs(err, ErrUserNotFound)
	}
	return user, claims, nil
}

func (s *UserService) checkSession(ctx context.Context, claims *pkg.Claims) error {
	err := s.sessions.Check(ctx, claims.SessionID, claims.UserID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.ErrSessionNotFound), errors.Is(err, redis.ErrSessionMismatch):
		return ErrSessionRevoked
	default:
		return err
	}
}

// Refresh 同一会话换发新的 token 对
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if err = s.checkSession(ctx, claims); err != nil {
		return nil, err
	}
	if _, err = s.repo.FindByID(ctx, claims.UserID); err != nil {
		return nil, notFoundAs(err, ErrUnauthenticated)
	}
	return s.tokens.GeneratePair(claims.UserID, claims.Email, claims.SessionID)
}

func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
