package handler

import (
	"context"
	"net/http"
	"strconv"

	"traubling/internal/middleware"
	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FollowHandler struct {
	svc *service.FollowService
	log *zap.Logger
}

func NewFollowHandler(svc *service.FollowService, log *zap.Logger) *FollowHandler {
	return &FollowHandler{svc: svc, log: log}
}

type followReq struct {
	TargetEmail  string `json:"targetEmail"`
	TargetUserID uint64 `json:"targetUserId"`
}

// Follow 关注/取关切换
func (h *FollowHandler) Follow(c *gin.Context) {
	var req followReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	res, err := h.svc.Toggle(ctx, middleware.CurrentUser(c), service.FollowTarget{
		Email:  req.TargetEmail,
		UserID: req.TargetUserID,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Relation 当前用户是否关注了目标
func (h *FollowHandler) Relation(c *gin.Context) {
	target := service.FollowTarget{Email: c.Query("targetEmail")}
	var ok bool
	if target.UserID, ok = optionalID(c.Query("targetUserId")); !ok {
		badRequest(c, "invalid targetUserId")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	following, err := h.svc.IsFollowing(ctx, middleware.CurrentUserID(c), target)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFollowing": following})
}

// ListFollowings 获取关注列表
func (h *FollowHandler) ListFollowings(c *gin.Context) {
	h.list(c, h.svc.ListFollowings)
}

// ListFollowers 获取粉丝列表
func (h *FollowHandler) ListFollowers(c *gin.Context) {
	h.list(c, h.svc.ListFollowers)
}

type listFunc func(ctx context.Context, userID, cursor uint64, limit int) ([]service.FollowUser, uint64, error)

func (h *FollowHandler) list(c *gin.Context, fn listFunc) {
	userID, ok := parseID(c.Param("userId"))
	if !ok {
		badRequest(c, "invalid user id")
		return
	}
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	ctx, cancel := timeout(c)
	defer cancel()
	rows, next, err := fn(ctx, userID, cursor, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "nextCursor": next})
}
