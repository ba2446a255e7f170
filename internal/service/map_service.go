package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"traubling/internal/repository/db"
)

const (
	MapPostLimit   = 500
	previewRunes   = 200
	FacetTroubles  = "troubles"
	FacetCountries = "countries"
	FacetCities    = "cities"
)

type MapService struct {
	posts   *db.PostRepository
	catalog *db.CatalogRepository
}

func NewMapService(posts *db.PostRepository, catalog *db.CatalogRepository) *MapService {
	return &MapService{posts: posts, catalog: catalog}
}

// MapQuery 地图检索参数，保留原始字符串用于回显
type MapQuery struct {
	Q         string
	TroubleID *string
	CountryID *string
	Bounds    *string
}

type MapUser struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type MapPost struct {
	ID           uint64       `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	Country      *CountryView `json:"country"`
	City         *CityView    `json:"city"`
	Trouble      *TroubleView `json:"trouble"`
	User         *MapUser     `json:"user"`
	LikeCount    int64        `json:"likeCount"`
	CommentCount int64        `json:"commentCount"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type MapStats struct {
	TotalPosts     int `json:"totalPosts"`
	CountriesCount int `json:"countriesCount"`
	TroublesCount  int `json:"troublesCount"`
}

type MapQueryEcho struct {
	SearchQuery string  `json:"searchQuery"`
	TroubleID   *string `json:"troubleId"`
	CountryID   *string `json:"countryId"`
	Bounds      *string `json:"bounds"`
}

type MapResult struct {
	Posts []MapPost    `json:"posts"`
	Stats MapStats     `json:"stats"`
	Query MapQueryEcho `json:"query"`
}

// ParseBounds "lat1,lng1,lat2,lng2"，两个角点顺序任意
func ParseBounds(raw string) (*db.Bounds, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, invalid("bounds must be lat1,lng1,lat2,lng2")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, invalid("bounds must be lat1,lng1,lat2,lng2")
		}
		v[i] = f
	}
	return &db.Bounds{
		MinLat: math.Min(v[0], v[2]),
		MaxLat: math.Max(v[0], v[2]),
		MinLng: math.Min(v[1], v[3]),
		MaxLng: math.Max(v[1], v[3]),
	}, nil
}

// Preview 按字符截断到 200，超出时追加 ...
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= previewRunes {
		return content
	}
	return string([]rune(content)[:previewRunes]) + "..."
}

func parseOptionalID(raw *string, field string) (uint64, error) {
	if raw == nil || *raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(*raw, 10, 64)
	if err != nil || id == 0 {
		return 0, invalid(field + " is invalid")
	}
	return id, nil
}

func (s *MapService) Search(ctx context.Context, q MapQuery) (*MapResult, error) {
	f := db.MapFilter{Terms: strings.Fields(q.Q), Limit: MapPostLimit}
	var err error
	if f.TroubleID, err = parseOptionalID(q.TroubleID, "troubleId"); err != nil {
		return nil, err
	}
	if f.CountryID, err = parseOptionalID(q.CountryID, "countryId"); err != nil {
		return nil, err
	}
	if q.Bounds != nil && *q.Bounds != "" {
		if f.Bounds, err = ParseBounds(*q.Bounds); err != nil {
			return nil, err
		}
	}

	list, err := s.posts.MapSearch(ctx, f)
	if err != nil {
		return nil, err
	}
	counts, err := s.posts.CommentCounts(ctx, postIDs(list))
	if err != nil {
		return nil, err
	}

	res := &MapResult{
		Posts: make([]MapPost, 0, len(list)),
		Query: MapQueryEcho{SearchQuery: q.Q, TroubleID: q.TroubleID, CountryID: q.CountryID, Bounds: q.Bounds},
	}
	countries := make(map[uint64]struct{})
	troubles := make(map[uint64]struct{})
	for i := range list {
		p := &list[i]
		item := MapPost{
			ID:           p.ID,
			Title:        p.Title,
			Content:      Preview(p.Content),
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			Country:      countryView(p.Country),
			City:         cityView(p.City),
			Trouble:      troubleView(p.Trouble),
			LikeCount:    p.LikeCount,
			CommentCount: counts[p.ID],
			CreatedAt:    p.CreatedAt,
		}
		if p.User != nil {
			item.User = &MapUser{ID: p.User.ID, Name: p.User.Name}
		}
		if p.Country != nil {
			countries[p.Country.ID] = struct{}{}
		}
		if p.Trouble != nil {
			troubles[p.Trouble.ID] = struct{}{}
		}
		res.Posts = append(res.Posts, item)
	}
	res.Stats = MapStats{TotalPosts: len(res.Posts), CountriesCount: len(countries), TroublesCount: len(troubles)}
	return res, nil
}

type MapFacet struct {
	ID     uint64 `json:"id"`
	JaName string `json:"jaName"`
	EnName string `json:"enName"`
	Count  int64  `json:"count"`

	// 仅 cities 类型带国家名
	Country *FacetCountry `json:"country,omitempty"`
}

type FacetCountry struct {
	JaName string `json:"jaName"`
	EnName string `json:"enName"`
}

type MapFacets struct {
	Type  string     `json:"type"`
	Data  []MapFacet `json:"data"`
	Total int        `json:"total"`
}

// Facets 只统计有坐标的帖子，过滤掉计数为 0 的项
func (s *MapService) Facets(ctx context.Context, typ string) (*MapFacets, error) {
	var (
		rows []db.FacetCount
		err  error
	)
	switch typ {
	case FacetTroubles:
		rows, err = s.catalog.TroubleFacets(ctx, true)
	case FacetCountries:
		rows, err = s.catalog.CountryFacets(ctx, true)
	case FacetCities:
		rows, err = s.catalog.CityFacets(ctx, true)
	default:
		return nil, invalid("無効なタイプが指定されました")
	}
	if err != nil {
		return nil, err
	}

	out := &MapFacets{Type: typ, Data: make([]MapFacet, 0, len(rows))}
	for _, r := range rows {
		if r.PostCount == 0 {
			continue
		}
		f := MapFacet{ID: r.ID, JaName: r.JaName, EnName: r.EnName, Count: r.PostCount}
		if typ == FacetCities {
			f.Country = &FacetCountry{JaName: r.CountryJaName, EnName: r.CountryEnName}
		}
		out.Data = append(out.Data, f)
	}
	out.Total = len(out.Data)
	return out, nil
}
