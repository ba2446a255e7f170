package handler

import (
	"net/http"
	"strconv"

	"traubling/internal/middleware"
	"traubling/internal/repository/db"
	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	svc *service.PostService
	log *zap.Logger
}

func NewPostHandler(svc *service.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{svc: svc, log: log}
}

type createPostReq struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	CountryID   uint64   `json:"countryId"`
	CityID      *uint64  `json:"cityId"`
	TroubleID   uint64   `json:"troubleId"`
	TravelMonth int      `json:"travelMonth"`
	TravelYear  int      `json:"travelYear"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// CreatePost 发帖
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req createPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	post, err := h.svc.Create(ctx, middleware.CurrentUserID(c), service.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		CountryID:   req.CountryID,
		CityID:      req.CityID,
		TroubleID:   req.TroubleID,
		TravelMonth: req.TravelMonth,
		TravelYear:  req.TravelYear,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		badRequest(c, "invalid post id")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	item, err := h.svc.Get(ctx, middleware.CurrentUserID(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type updatePostReq struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

// UpdatePost 仅作者可编辑
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		badRequest(c, "invalid post id")
		return
	}
	var req updatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	item, err := h.svc.Update(ctx, middleware.CurrentUserID(c), id, service.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// searchFilter 解析检索参数，非法时返回错误信息
func searchFilter(c *gin.Context) (db.SearchFilter, string) {
	f := db.SearchFilter{Term: c.Query("term"), SortBy: c.Query("sortBy")}
	switch c.Query("category") {
	case "":
	case "domestic":
		v := true
		f.Domestic = &v
	case "overseas":
		v := false
		f.Domestic = &v
	default:
		return f, "category must be domestic or overseas"
	}
	switch f.SortBy {
	case "", db.SortNewest, db.SortLikes, db.SortComments:
	default:
		return f, "sortBy must be newest, likes or comments"
	}

	var ok bool
	if f.CountryID, ok = optionalID(c.Query("countryId")); !ok {
		return f, "invalid countryId"
	}
	if f.CityID, ok = optionalID(c.Query("cityId")); !ok {
		return f, "invalid cityId"
	}
	if f.TroubleID, ok = optionalID(c.Query("troubleId")); !ok {
		return f, "invalid troubleId"
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return f, "invalid page"
		}
		f.Page = page
	}
	return f, ""
}

// Search 检索；不带参数时返回全部帖子
func (h *PostHandler) Search(c *gin.Context) {
	f, msg := searchFilter(c)
	if msg != "" {
		badRequest(c, msg)
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	posts, total, err := h.svc.Search(ctx, middleware.CurrentUserID(c), f)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "totalCount": total})
}

// MyPosts 当前用户的帖子
func (h *PostHandler) MyPosts(c *gin.Context) {
	h.listByUser(c, middleware.CurrentUserID(c))
}

func (h *PostHandler) UserPosts(c *gin.Context) {
	id, ok := parseID(c.Param("userId"))
	if !ok {
		badRequest(c, "invalid user id")
		return
	}
	h.listByUser(c, id)
}

func (h *PostHandler) listByUser(c *gin.Context, userID uint64) {
	ctx, cancel := timeout(c)
	defer cancel()
	list, err := h.svc.ListByUser(ctx, userID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PostHandler) Ranking(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	list, err := h.svc.Ranking(ctx, middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PostHandler) LikedPosts(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	list, err := h.svc.LikedPosts(ctx, middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
