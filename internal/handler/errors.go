package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestTimeout = 5 * time.Second

// writeError 业务错误到状态码的唯一映射处；500 记日志，不把内部错误返回给客户端
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"msg": ve.Msg})
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrCannotFollowSelf):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrSessionRevoked):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": msg})
}

// parseID 路径或查询参数里的正整数 id
func parseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// optionalID 空串视为未提供
func optionalID(raw string) (uint64, bool) {
	if raw == "" {
		return 0, true
	}
	return parseID(raw)
}

func timeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}
