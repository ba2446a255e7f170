package db

import (
	"context"
	"strings"

	"traubling/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

const (
	SortNewest   = "newest"
	SortLikes    = "likes"
	SortComments = "comments"
)

// SearchFilter 零值字段不参与过滤；Term 按空白拆词；PageSize=0 时返回全部
type SearchFilter struct {
	Term      string
	Domestic  *bool
	CountryID uint64
	CityID    uint64
	TroubleID uint64
	SortBy    string
	Page      int
	PageSize  int
}

// MapFilter 地图检索条件
type MapFilter struct {
	Terms     []string
	TroubleID uint64
	CountryID uint64
	Bounds    *Bounds
	Limit     int
}

type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("User").Preload("Country").Preload("City").Preload("Trouble")
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

// FindByID 带上作者、国家、城市、分类
func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := withRelations(r.DB.WithContext(ctx)).First(&post, id).Error
	return &post, err
}

// Update 仅更新给定列
func (r *PostRepository) Update(ctx context.Context, postID uint64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", postID).Updates(updates).Error
}

// matchTerms 每个关键词都要命中标题、正文或国家/城市/分类的日英名称之一
func (r *PostRepository) matchTerms(q *gorm.DB, terms []string) *gorm.DB {
	for _, term := range terms {
		p := containsPattern(term)
		names := "LOWER(ja_name) LIKE ? " + likeEscape + " OR LOWER(en_name) LIKE ? " + likeEscape
		countries := r.DB.Model(&model.Country{}).Select("id").Where(names, p, p)
		cities := r.DB.Model(&model.City{}).Select("id").Where(names, p, p)
		troubles := r.DB.Model(&model.Trouble{}).Select("id").Where(names, p, p)
		q = q.Where("(LOWER(posts.title) LIKE ? "+likeEscape+" OR LOWER(posts.content) LIKE ? "+likeEscape+
			" OR posts.country_id IN (?) OR posts.city_id IN (?) OR posts.trouble_id IN (?))",
			p, p, countries, cities, troubles)
	}
	return q
}

func (r *PostRepository) searchQuery(ctx context.Context, f SearchFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&model.Post{})
	q = r.matchTerms(q, strings.Fields(f.Term))
	if f.Domestic != nil {
		domestic := r.DB.Model(&model.Country{}).Select("id").Where("is_domestic = ?", *f.Domestic)
		q = q.Where("posts.country_id IN (?)", domestic)
	}
	if f.CountryID > 0 {
		q = q.Where("posts.country_id = ?", f.CountryID)
	}
	if f.CityID > 0 {
		q = q.Where("posts.city_id = ?", f.CityID)
	}
	if f.TroubleID > 0 {
		q = q.Where("posts.trouble_id = ?", f.TroubleID)
	}
	return q
}

// Search 检索帖子，返回当前页和总数
func (r *PostRepository) Search(ctx context.Context, f SearchFilter) ([]model.Post, int64, error) {
	var total int64
	if err := r.searchQuery(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := withRelations(r.searchQuery(ctx, f))
	switch f.SortBy {
	case SortLikes:
		q = q.Order("posts.like_count DESC").Order("posts.created_at DESC")
	case SortComments:
		q = q.Order("(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) DESC").Order("posts.created_at DESC")
	default:
		q = q.Order("posts.created_at DESC")
	}
	q = q.Order("posts.id DESC")
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
	}

	var list []model.Post
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PostRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Post, error) {
	var list []model.Post
	err := withRelations(r.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, err
}

// Ranking 点赞数排行
func (r *PostRepository) Ranking(ctx context.Context, limit int) ([]model.Post, error) {
	var list []model.Post
	err := withRelations(r.DB.WithContext(ctx)).
		Order("like_count DESC").Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListLikedByUser 用户点过赞的帖子，按点赞时间倒序
func (r *PostRepository) ListLikedByUser(ctx context.Context, userID uint64) ([]model.Post, error) {
	var list []model.Post
	err := withRelations(r.DB.WithContext(ctx)).
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").Order("posts.id DESC").
		Find(&list).Error
	return list, err
}

// MapSearch 有坐标的帖子；每个关键词都要命中标题、正文或国家/城市/分类名之一
func (r *PostRepository) MapSearch(ctx context.Context, f MapFilter) ([]model.Post, error) {
	q := withRelations(r.DB.WithContext(ctx)).
		Where("posts.latitude IS NOT NULL AND posts.longitude IS NOT NULL")

	q = r.matchTerms(q, f.Terms)
	if f.TroubleID > 0 {
		q = q.Where("posts.trouble_id = ?", f.TroubleID)
	}
	if f.CountryID > 0 {
		q = q.Where("posts.country_id = ?", f.CountryID)
	}
	if b := f.Bounds; b != nil {
		q = q.Where("posts.latitude BETWEEN ? AND ? AND posts.longitude BETWEEN ? AND ?", b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
	}

	var list []model.Post
	err := q.Order("posts.created_at DESC").Order("posts.id DESC").Limit(f.Limit).Find(&list).Error
	return list, err
}

// CommentCounts 批量统计评论数
func (r *PostRepository) CommentCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID uint64
		Total  int64
	}
	if err := r.DB.WithContext(ctx).Model(&model.Comment{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = row.Total
	}
	return out, nil
}

// CommentIDs 每个帖子的评论 id，按 id 升序
func (r *PostRepository) CommentIDs(ctx context.Context, postIDs []uint64) (map[uint64][]uint64, error) {
	out := make(map[uint64][]uint64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ID     uint64
		PostID uint64
	}
	if err := r.DB.WithContext(ctx).Model(&model.Comment{}).
		Select("id, post_id").
		Where("post_id IN ?", postIDs).
		Order("id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = append(out[row.PostID], row.ID)
	}
	return out, nil
}
