package db

import (
	"context"

	"traubling/internal/model"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// FacetCount 分面统计行
type FacetCount struct {
	ID            uint64
	JaName        string
	EnName        string
	CountryJaName string
	CountryEnName string
	PostCount     int64
}

// ListInternationalCities 非国内城市，按 id 顺序返回并带上国家
func (r *CatalogRepository) ListInternationalCities(ctx context.Context) ([]model.City, error) {
	var list []model.City
	err := r.DB.WithContext(ctx).
		Joins("JOIN countries ON countries.id = cities.country_id").
		Where("countries.is_domestic = ?", false).
		Preload("Country").
		Order("cities.id ASC").
		Find(&list).Error
	return list, err
}

func (r *CatalogRepository) ListCountries(ctx context.Context) ([]model.Country, error) {
	var list []model.Country
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *CatalogRepository) ListTroubles(ctx context.Context) ([]model.Trouble, error) {
	var list []model.Trouble
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *CatalogRepository) FindCountry(ctx context.Context, id uint64) (*model.Country, error) {
	var c model.Country
	err := r.DB.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *CatalogRepository) FindCity(ctx context.Context, id uint64) (*model.City, error) {
	var c model.City
	err := r.DB.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *CatalogRepository) FindTrouble(ctx context.Context, id uint64) (*model.Trouble, error) {
	var t model.Trouble
	err := r.DB.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *CatalogRepository) FindTroubleByJaName(ctx context.Context, jaName string) (*model.Trouble, error) {
	var t model.Trouble
	err := r.DB.WithContext(ctx).Where("ja_name = ?", jaName).First(&t).Error
	return &t, err
}

// postJoin withCoords=true 时只统计有坐标的帖子（地图用）
func postJoin(table, fk string, withCoords bool) string {
	on := "LEFT JOIN posts ON posts." + fk + " = " + table + ".id"
	if withCoords {
		on += " AND posts.latitude IS NOT NULL AND posts.longitude IS NOT NULL"
	}
	return on
}

func (r *CatalogRepository) TroubleFacets(ctx context.Context, withCoords bool) ([]FacetCount, error) {
	var rows []FacetCount
	err := r.DB.WithContext(ctx).Table("troubles").
		Select("troubles.id AS id, troubles.ja_name AS ja_name, troubles.en_name AS en_name, COUNT(posts.id) AS post_count").
		Joins(postJoin("troubles", "trouble_id", withCoords)).
		Group("troubles.id, troubles.ja_name, troubles.en_name").
		Order("troubles.ja_name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *CatalogRepository) CountryFacets(ctx context.Context, withCoords bool) ([]FacetCount, error) {
	var rows []FacetCount
	err := r.DB.WithContext(ctx).Table("countries").
		Select("countries.id AS id, countries.ja_name AS ja_name, countries.en_name AS en_name, COUNT(posts.id) AS post_count").
		Joins(postJoin("countries", "country_id", withCoords)).
		Group("countries.id, countries.ja_name, countries.en_name").
		Order("countries.ja_name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *CatalogRepository) CityFacets(ctx context.Context, withCoords bool) ([]FacetCount, error) {
	var rows []FacetCount
	err := r.DB.WithContext(ctx).Table("cities").
		Select("cities.id AS id, cities.ja_name AS ja_name, cities.en_name AS en_name, " +
			"countries.ja_name AS country_ja_name, countries.en_name AS country_en_name, COUNT(posts.id) AS post_count").
		Joins("JOIN countries ON countries.id = cities.country_id").
		Joins(postJoin("cities", "city_id", withCoords)).
		Group("cities.id, cities.ja_name, cities.en_name, countries.ja_name, countries.en_name").
		Order("cities.ja_name ASC").
		Scan(&rows).Error
	return rows, err
}
