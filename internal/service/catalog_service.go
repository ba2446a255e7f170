package service

import (
	"context"
	"sort"

	"traubling/internal/model"
	"traubling/internal/repository/db"
)

type CatalogService struct {
	repo *db.CatalogRepository
}

func NewCatalogService(repo *db.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

type GroupedCity struct {
	ID       uint64 `json:"id"`
	EnName   string `json:"enName"`
	JaName   string `json:"jaName"`
	PhotoURL string `json:"Photourl"`
}

// CountryGroup 按国家分组的城市
type CountryGroup struct {
	ID     uint64        `json:"id"`
	JaName string        `json:"jaName"`
	Cities []GroupedCity `json:"cities"`
}

// GroupCities 分组顺序就是城市列表里国家首次出现的顺序
func GroupCities(cities []model.City) []CountryGroup {
	groups := make([]CountryGroup, 0)
	index := make(map[uint64]int)
	for _, c := range cities {
		i, ok := index[c.CountryID]
		if !ok {
			g := CountryGroup{ID: c.CountryID, Cities: []GroupedCity{}}
			if c.Country != nil {
				g.JaName = c.Country.JaName
			}
			groups = append(groups, g)
			i = len(groups) - 1
			index[c.CountryID] = i
		}
		groups[i].Cities = append(groups[i].Cities, GroupedCity{
			ID:       c.ID,
			EnName:   c.EnName,
			JaName:   c.JaName,
			PhotoURL: c.PhotoURL,
		})
	}
	return groups
}

// InternationalCities 海外城市，按国家分组
func (s *CatalogService) InternationalCities(ctx context.Context) ([]CountryGroup, error) {
	cities, err := s.repo.ListInternationalCities(ctx)
	if err != nil {
		return nil, err
	}
	return GroupCities(cities), nil
}

func (s *CatalogService) Countries(ctx context.Context) ([]model.Country, error) {
	return s.repo.ListCountries(ctx)
}

func (s *CatalogService) Troubles(ctx context.Context) ([]model.Trouble, error) {
	return s.repo.ListTroubles(ctx)
}

type FacetItem struct {
	ID        uint64 `json:"id"`
	JaName    string `json:"jaName"`
	EnName    string `json:"enName"`
	PostCount int64  `json:"postCount"`
}

type CityFacetGroup struct {
	Country string      `json:"country"`
	Cities  []FacetItem `json:"cities"`
}

type SearchFilters struct {
	Categories []FacetItem      `json:"categories"`
	Cities     []CityFacetGroup `json:"cities"`
}

// SearchFilters 检索页的分面：分类按帖子数倒序，城市按国家名分组、组内按帖子数倒序
func (s *CatalogService) SearchFilters(ctx context.Context) (*SearchFilters, error) {
	troubles, err := s.repo.TroubleFacets(ctx, false)
	if err != nil {
		return nil, err
	}
	cities, err := s.repo.CityFacets(ctx, false)
	if err != nil {
		return nil, err
	}

	out := &SearchFilters{
		Categories: make([]FacetItem, 0, len(troubles)),
		Cities:     make([]CityFacetGroup, 0),
	}
	for _, t := range troubles {
		out.Categories = append(out.Categories, FacetItem{ID: t.ID, JaName: t.JaName, EnName: t.EnName, PostCount: t.PostCount})
	}
	sort.SliceStable(out.Categories, func(i, j int) bool {
		return out.Categories[i].PostCount > out.Categories[j].PostCount
	})

	index := make(map[string]int)
	for _, c := range cities {
		i, ok := index[c.CountryJaName]
		if !ok {
			out.Cities = append(out.Cities, CityFacetGroup{Country: c.CountryJaName})
			i = len(out.Cities) - 1
			index[c.CountryJaName] = i
		}
		out.Cities[i].Cities = append(out.Cities[i].Cities, FacetItem{ID: c.ID, JaName: c.JaName, EnName: c.EnName, PostCount: c.PostCount})
	}
	sort.SliceStable(out.Cities, func(i, j int) bool {
		return out.Cities[i].Country < out.Cities[j].Country
	})
	for i := range out.Cities {
		list := out.Cities[i].Cities
		sort.SliceStable(list, func(a, b int) bool { return list[a].PostCount > list[b].PostCount })
	}
	return out, nil
}
