package handler

import (
	"net/http"
	"strings"

	"traubling/internal/middleware"
	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	svc *service.ProfileService
	log *zap.Logger
}

func NewProfileHandler(svc *service.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, log: log}
}

// Me 当前用户资料
func (h *ProfileHandler) Me(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	v, err := h.svc.Get(ctx, middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Lookup ?email= 查看指定用户，否则返回当前用户
func (h *ProfileHandler) Lookup(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		if middleware.CurrentUserID(c) == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthenticated"})
			return
		}
		h.Me(c)
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	v, err := h.svc.GetByEmail(ctx, email)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type updateProfileReq struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	v, err := h.svc.Update(ctx, middleware.CurrentUserID(c), service.UpdateProfileInput{
		Name:     req.Name,
		Bio:      req.Bio,
		Location: req.Location,
		Website:  req.Website,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Public 他人主页
func (h *ProfileHandler) Public(c *gin.Context) {
	id, ok := parseID(c.Param("userId"))
	if !ok {
		badRequest(c, "invalid user id")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	v, err := h.svc.Public(ctx, middleware.CurrentUserID(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
