package service

import (
	"time"

	"traubling/internal/model"
)

const (
	AnonymousName     = "匿名"
	AnonymousLikeName = "匿名ユーザー"
	UnknownTag        = "不明"
)

var jst = time.FixedZone("JST", 9*60*60)

type CountryView struct {
	ID     uint64 `json:"id"`
	EnName string `json:"enName"`
	JaName string `json:"jaName"`
}

type CityView struct {
	ID     uint64 `json:"id"`
	EnName string `json:"enName"`
	JaName string `json:"jaName"`
}

type TroubleView struct {
	ID     uint64 `json:"id"`
	EnName string `json:"enName"`
	JaName string `json:"jaName"`
}

// AuthorView 作者不存在时只有 name=匿名
type AuthorView struct {
	ID    uint64 `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

type CommentRef struct {
	ID uint64 `json:"id"`
}

// PostItem 检索、排行、点赞列表共用的帖子视图
type PostItem struct {
	ID           uint64       `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	TravelMonth  int          `json:"travelMonth"`
	TravelYear   int          `json:"travelYear"`
	Country      *CountryView `json:"country"`
	City         *CityView    `json:"city"`
	Comments     []CommentRef `json:"comments"`
	CommentCount int64        `json:"commentCount"`
	User         AuthorView   `json:"user"`
	Tags         []string     `json:"tags"`
	IsJapan      bool         `json:"isJapan"`
	LikeCount    int64        `json:"likeCount"`
	IsLiked      bool         `json:"isLiked"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// OwnPostItem 个人页帖子列表、编辑结果
type OwnPostItem struct {
	ID       uint64   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Date     string   `json:"date"`
	Likes    int64    `json:"likes"`
	Comments int64    `json:"comments"`
	Tags     []string `json:"tags"`
}

func countryView(c *model.Country) *CountryView {
	if c == nil {
		return nil
	}
	return &CountryView{ID: c.ID, EnName: c.EnName, JaName: c.JaName}
}

func cityView(c *model.City) *CityView {
	if c == nil {
		return nil
	}
	return &CityView{ID: c.ID, EnName: c.EnName, JaName: c.JaName}
}

func troubleView(t *model.Trouble) *TroubleView {
	if t == nil {
		return nil
	}
	return &TroubleView{ID: t.ID, EnName: t.EnName, JaName: t.JaName}
}

func authorView(u *model.User) AuthorView {
	if u == nil {
		return AuthorView{Name: AnonymousName}
	}
	return AuthorView{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

// tagOf 分类名，优先日文
func tagOf(t *model.Trouble) string {
	switch {
	case t == nil:
		return UnknownTag
	case t.JaName != "":
		return t.JaName
	case t.EnName != "":
		return t.EnName
	default:
		return UnknownTag
	}
}

// FormatDate 日本时间 YYYY/M/D
func FormatDate(t time.Time) string {
	return t.In(jst).Format("2006/1/2")
}

func postItem(p *model.Post, commentIDs []uint64, liked bool) PostItem {
	comments := make([]CommentRef, 0, len(commentIDs))
	for _, id := range commentIDs {
		comments = append(comments, CommentRef{ID: id})
	}
	return PostItem{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		TravelMonth:  p.TravelMonth,
		TravelYear:   p.TravelYear,
		Country:      countryView(p.Country),
		City:         cityView(p.City),
		Comments:     comments,
		CommentCount: int64(len(comments)),
		User:         authorView(p.User),
		Tags:         []string{tagOf(p.Trouble)},
		IsJapan:      p.Country != nil && p.Country.IsDomestic,
		LikeCount:    p.LikeCount,
		IsLiked:      liked,
		CreatedAt:    p.CreatedAt,
	}
}

func ownPostItem(p *model.Post, comments int64) OwnPostItem {
	return OwnPostItem{
		ID:       p.ID,
		Title:    p.Title,
		Content:  p.Content,
		Date:     FormatDate(p.CreatedAt),
		Likes:    p.LikeCount,
		Comments: comments,
		Tags:     []string{tagOf(p.Trouble)},
	}
}

func postIDs(posts []model.Post) []uint64 {
	ids := make([]uint64, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}
	return ids
}
