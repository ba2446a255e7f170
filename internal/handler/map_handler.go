package handler

import (
	"net/http"

	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MapHandler struct {
	svc *service.MapService
	log *zap.Logger
}

func NewMapHandler(svc *service.MapService, log *zap.Logger) *MapHandler {
	return &MapHandler{svc: svc, log: log}
}

func queryPtr(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}

// Search 地图上的帖子
func (h *MapHandler) Search(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	res, err := h.svc.Search(ctx, service.MapQuery{
		Q:         c.Query("q"),
		TroubleID: queryPtr(c, "troubleId"),
		CountryID: queryPtr(c, "countryId"),
		Bounds:    queryPtr(c, "bounds"),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type facetReq struct {
	Type string `json:"type"`
}

// Facets 地图筛选项及其帖子数
func (h *MapHandler) Facets(c *gin.Context) {
	var req facetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	res, err := h.svc.Facets(ctx, req.Type)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
