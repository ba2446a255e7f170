package handler

import (
	"crypto/subtle"
	"net/http"

	"traubling/internal/middleware"
	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const CallbackSecretHeader = "X-Auth-Callback-Secret"

type AuthHandler struct {
	svc            *service.UserService
	callbackSecret string
	log            *zap.Logger
}

func NewAuthHandler(svc *service.UserService, callbackSecret string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, callbackSecret: callbackSecret, log: log}
}

type sessionReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Session 外部登录成功后的回调，凭共享密钥调用
func (h *AuthHandler) Session(c *gin.Context) {
	secret := c.GetHeader(CallbackSecretHeader)
	if h.callbackSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.callbackSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid callback secret"})
		return
	}
	var req sessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}

	ctx, cancel := timeout(c)
	defer cancel()
	res, err := h.svc.StartSession(ctx, req.Email, req.Name, req.Image)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refreshToken is required")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	pair, err := h.svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	if err := h.svc.Logout(ctx, middleware.SessionID(c)); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "logged out"})
}
