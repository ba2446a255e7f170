package handler

import (
	"net/http"

	"traubling/internal/middleware"
	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	svc *service.NotificationService
	log *zap.Logger
}

func NewNotificationHandler(svc *service.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

// List 最新 20 条
func (h *NotificationHandler) List(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	list, err := h.svc.Recent(ctx, middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type markReadReq struct {
	NotificationID uint64 `json:"notificationId"`
	MarkAllAsRead  bool   `json:"markAllAsRead"`
}

// MarkRead 全部已读或单条已读；单条只作用于本人的通知
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req markReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	uid := middleware.CurrentUserID(c)

	var err error
	switch {
	case req.MarkAllAsRead:
		_, err = h.svc.MarkAllRead(ctx, uid)
	case req.NotificationID != 0:
		_, err = h.svc.MarkRead(ctx, uid, req.NotificationID)
	default:
		badRequest(c, "notificationId or markAllAsRead is required")
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UnreadCount 未登录或出错时返回 0
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	count, err := h.svc.UnreadCount(ctx, middleware.CurrentUserID(c))
	if err != nil {
		h.log.Warn("unread count failed", zap.Error(err))
		count = 0
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
