package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"traubling/internal/model"
	"traubling/internal/pkg"
	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserIDKey    = "user_id"
	ContextUserKey      = "user"
	ContextSessionIDKey = "session_id"
)

// Authenticator 由 access token 解析出当前用户
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.User, *pkg.Claims, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setUser(c *gin.Context, user *model.User, claims *pkg.Claims) {
	c.Set(ContextUserIDKey, user.ID)
	c.Set(ContextUserKey, user)
	c.Set(ContextSessionIDKey, claims.SessionID)
}

// RequireAuth 必须登录；用户已被删除时返回 404
func RequireAuth(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing or invalid authorization header"})
			return
		}

		user, claims, err := auth.Authenticate(c.Request.Context(), tokenStr)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrUnauthenticated):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			return
		case errors.Is(err, service.ErrSessionRevoked):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "session has been revoked"})
			return
		case errors.Is(err, service.ErrUserNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"msg": "user not found"})
			return
		default:
			log.Error("authenticate failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
			return
		}

		setUser(c, user, claims)
		c.Next()
	}
}

// OptionalAuth 有合法 token 就注入用户，否则按匿名继续
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if user, claims, err := auth.Authenticate(c.Request.Context(), tokenStr); err == nil {
				setUser(c, user, claims)
			}
		}
		c.Next()
	}
}

// CurrentUser 未登录返回 nil
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if u, ok2 := v.(*model.User); ok2 {
			return u
		}
	}
	return nil
}

func CurrentUserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}

func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionIDKey)
}
