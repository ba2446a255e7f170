package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrRefreshExpired    = errors.New("refresh expired")
	ErrRefreshInvalid    = errors.New("refresh invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
)

const (
	subjectAccess  = "access"
	subjectRefresh = "refresh"
)

// Claims 会话 token 载荷，sid 对应 redis 中的会话
type Claims struct {
	UserID    uint64 `json:"uid"`
	Email     string `json:"email"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// NewSessionID 生成新的会话 id
func NewSessionID() string {
	return uuid.NewString()
}

func (m *TokenManager) GeneratePair(userID uint64, email, sessionID string) (*Pair, error) {
	now := time.Now()

	accessToken, err := m.sign(m.accessSecret, userID, email, sessionID, subjectAccess, now, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := m.sign(m.refreshSecret, userID, email, sessionID, subjectRefresh, now, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (m *TokenManager) sign(secret []byte, userID uint64, email, sessionID, subject string, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID,
		Email:     email,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   subject,
		},
	})
	return token.SignedString(secret)
}

// ParseAccess 解析 access
func (m *TokenManager) ParseAccess(tokenStr string) (*Claims, error) {
	claims, err := parse(tokenStr, m.accessSecret, subjectAccess)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, ErrTokenParseFailure):
			return nil, err
		default:
			return nil, ErrTokenInvalid
		}
	}
	return claims, nil
}

// ParseRefresh 解析 refresh，是否吊销由调用方查会话
func (m *TokenManager) ParseRefresh(tokenStr string) (*Claims, error) {
	claims, err := parse(tokenStr, m.refreshSecret, subjectRefresh)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrRefreshExpired
		}
		return nil, ErrRefreshInvalid
	}
	return claims, nil
}

func parse(tokenStr string, secret []byte, subject string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithSubject(subject))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 || claims.SessionID == "" {
		return nil, ErrTokenParseFailure
	}
	return claims, nil
}
