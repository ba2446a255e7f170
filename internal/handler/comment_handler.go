package handler

import (
	"net/http"

	"traubling/internal/middleware"
	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	svc *service.CommentService
	log *zap.Logger
}

func NewCommentHandler(svc *service.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, log: log}
}

func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := parseID(c.Query("postId"))
	if !ok {
		badRequest(c, "postId is required")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	list, err := h.svc.List(ctx, postID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type createCommentReq struct {
	PostID  uint64 `json:"postId"`
	Content string `json:"content"`
}

type createCommentResp struct {
	*service.CommentItem
	Success bool `json:"success"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	item, err := h.svc.Create(ctx, middleware.CurrentUser(c), req.PostID, req.Content)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, createCommentResp{CommentItem: item, Success: true})
}

// BestAnswer 帖子作者选出最佳回答
func (h *CommentHandler) BestAnswer(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		badRequest(c, "invalid comment id")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	item, err := h.svc.MarkBestAnswer(ctx, middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comment": item})
}

func (h *CommentHandler) Expertises(c *gin.Context) {
	userID, ok := parseID(c.Query("userId"))
	if !ok {
		badRequest(c, "userId is required")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	list, err := h.svc.Expertises(ctx, userID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
