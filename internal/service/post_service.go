package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"traubling/internal/model"
	"traubling/internal/repository/db"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	SearchPageSize = 10
	RankingSize    = 3
	maxTitleLen    = 200
)

type PostService struct {
	posts   *db.PostRepository
	catalog *db.CatalogRepository
	likes   *db.LikeRepository
	log     *zap.Logger
}

func NewPostService(posts *db.PostRepository, catalog *db.CatalogRepository, likes *db.LikeRepository, log *zap.Logger) *PostService {
	return &PostService{posts: posts, catalog: catalog, likes: likes, log: log}
}

type CreatePostInput struct {
	Title       string
	Content     string
	CountryID   uint64
	CityID      *uint64
	TroubleID   uint64
	TravelMonth int
	TravelYear  int
	Latitude    *float64
	Longitude   *float64
}

// ValidateCreate 写库前的校验，不访问数据库
func ValidateCreate(in CreatePostInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return invalid("title is required")
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return invalid(fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	if strings.TrimSpace(in.Content) == "" {
		return invalid("content is required")
	}
	if in.CountryID == 0 || in.TroubleID == 0 {
		return invalid("countryId and troubleId are required")
	}
	if in.CityID != nil && *in.CityID == 0 {
		return invalid("cityId is invalid")
	}
	if in.TravelMonth < model.MinTravelMonth || in.TravelMonth > model.MaxTravelMonth {
		return invalid(fmt.Sprintf("travelMonth must be between %d and %d", model.MinTravelMonth, model.MaxTravelMonth))
	}
	if in.TravelYear < model.MinTravelYear || in.TravelYear > model.MaxTravelYear {
		return invalid(fmt.Sprintf("travelYear must be between %d and %d", model.MinTravelYear, model.MaxTravelYear))
	}
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return invalid("latitude and longitude must be given together")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return invalid("latitude must be between -90 and 90")
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return invalid("longitude must be between -180 and 180")
	}
	return nil
}

// Create 校验 -> 确认国家/城市/分类存在 -> 写入
func (s *PostService) Create(ctx context.Context, userID uint64, in CreatePostInput) (*model.Post, error) {
	if err := ValidateCreate(in); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:      userID,
		CountryID:   in.CountryID,
		CityID:      in.CityID,
		TroubleID:   in.TroubleID,
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		TravelMonth: in.TravelMonth,
		TravelYear:  in.TravelYear,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *PostService) checkRefs(ctx context.Context, in CreatePostInput) error {
	if _, err := s.catalog.FindCountry(ctx, in.CountryID); err != nil {
		return notFoundAs(err, invalid("country does not exist"))
	}
	if in.CityID != nil {
		city, err := s.catalog.FindCity(ctx, *in.CityID)
		if err != nil {
			return notFoundAs(err, invalid("city does not exist"))
		}
		if city.CountryID != in.CountryID {
			return invalid("city does not belong to country")
		}
	}
	if _, err := s.catalog.FindTrouble(ctx, in.TroubleID); err != nil {
		return notFoundAs(err, invalid("trouble does not exist"))
	}
	return nil
}

// notFoundAs 把记录不存在翻译为业务错误，其余原样返回
func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func (s *PostService) findPost(ctx context.Context, postID uint64) (*model.Post, error) {
	if postID == 0 {
		return nil, ErrInvalidID
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	return post, nil
}

// Get 单个帖子
func (s *PostService) Get(ctx context.Context, viewerID, postID uint64) (*PostItem, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	items, err := s.toItems(ctx, viewerID, []model.Post{*post})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

type UpdatePostInput struct {
	Title   *string
	Content *string
	Tags    []string
}

// Update 只有作者能编辑；tags[0] 按日文名匹配分类，匹配不到只记日志不改分类
func (s *PostService) Update(ctx context.Context, userID, postID uint64, in UpdatePostInput) (*OwnPostItem, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}

	updates := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" || utf8.RuneCountInString(title) > maxTitleLen {
			return nil, invalid("title must be 1 to 200 characters")
		}
		updates["title"] = title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, invalid("content must not be empty")
		}
		updates["content"] = *in.Content
	}
	if len(in.Tags) > 0 && in.Tags[0] != "" {
		trouble, err := s.catalog.FindTroubleByJaName(ctx, in.Tags[0])
		switch {
		case err == nil:
			updates["trouble_id"] = trouble.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.log.Warn("tag does not match any trouble, keeping current one",
				zap.Uint64("post_id", postID), zap.String("tag", in.Tags[0]))
		default:
			return nil, err
		}
	}

	if err = s.posts.Update(ctx, postID, updates); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	post, err = s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	counts, err := s.posts.CommentCounts(ctx, []uint64{postID})
	if err != nil {
		return nil, err
	}
	item := ownPostItem(post, counts[postID])
	return &item, nil
}

// Search 无分页参数时返回全部
func (s *PostService) Search(ctx context.Context, viewerID uint64, f db.SearchFilter) ([]PostItem, int64, error) {
	if f.Page > 0 {
		f.PageSize = SearchPageSize
	}
	list, total, err := s.posts.Search(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("search posts: %w", err)
	}
	items, err := s.toItems(ctx, viewerID, list)
	return items, total, err
}

// ListByUser 个人页帖子
func (s *PostService) ListByUser(ctx context.Context, userID uint64) ([]OwnPostItem, error) {
	list, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.posts.CommentCounts(ctx, postIDs(list))
	if err != nil {
		return nil, err
	}
	out := make([]OwnPostItem, 0, len(list))
	for i := range list {
		out = append(out, ownPostItem(&list[i], counts[list[i].ID]))
	}
	return out, nil
}

func (s *PostService) Ranking(ctx context.Context, viewerID uint64) ([]PostItem, error) {
	list, err := s.posts.Ranking(ctx, RankingSize)
	if err != nil {
		return nil, err
	}
	return s.toItems(ctx, viewerID, list)
}

// LikedPosts 用户点过赞的帖子，isLiked 恒为 true
func (s *PostService) LikedPosts(ctx context.Context, userID uint64) ([]PostItem, error) {
	list, err := s.posts.ListLikedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	comments, err := s.posts.CommentIDs(ctx, postIDs(list))
	if err != nil {
		return nil, err
	}
	out := make([]PostItem, 0, len(list))
	for i := range list {
		out = append(out, postItem(&list[i], comments[list[i].ID], true))
	}
	return out, nil
}

func (s *PostService) toItems(ctx context.Context, viewerID uint64, list []model.Post) ([]PostItem, error) {
	ids := postIDs(list)
	comments, err := s.posts.CommentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.likes.LikedSet(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]PostItem, 0, len(list))
	for i := range list {
		out = append(out, postItem(&list[i], comments[list[i].ID], liked[list[i].ID]))
	}
	return out, nil
}
