package handler

import (
	"net/http"

	"traubling/internal/middleware"
	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LikeHandler struct {
	svc *service.LikeService
	log *zap.Logger
}

func NewLikeHandler(svc *service.LikeService, log *zap.Logger) *LikeHandler {
	return &LikeHandler{svc: svc, log: log}
}

// Toggle 点赞状态由服务端决定，请求体中的 isLiked 被忽略
func (h *LikeHandler) Toggle(c *gin.Context) {
	pid, ok := parseID(c.Param("id"))
	if !ok {
		badRequest(c, "invalid post id")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	liked, count, err := h.svc.Toggle(ctx, middleware.CurrentUser(c), pid)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likeCount": count})
}

func (h *LikeHandler) Status(c *gin.Context) {
	pid, ok := parseID(c.Param("id"))
	if !ok {
		badRequest(c, "invalid post id")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	liked, count, err := h.svc.Status(ctx, middleware.CurrentUserID(c), pid)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likeCount": count})
}
