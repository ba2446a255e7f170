package handler

import (
	"net/http"

	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	svc *service.CatalogService
	log *zap.Logger
}

func NewCatalogHandler(svc *service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: log}
}

// Cities 海外城市，按国家分组
func (h *CatalogHandler) Cities(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	groups, err := h.svc.InternationalCities(ctx)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *CatalogHandler) Countries(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	list, err := h.svc.Countries(ctx)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) Troubles(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	list, err := h.svc.Troubles(ctx)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) SearchFilters(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	res, err := h.svc.SearchFilters(ctx)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
