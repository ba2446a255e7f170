// Package testutil 测试用的内存 SQLite、miniredis 以及基础数据
package testutil

import (
	"testing"
	"time"

	"traubling/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每次返回独立的内存库；单连接保证所有查询落在同一个库上
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

type Fixture struct {
	Japan    model.Country
	France   model.Country
	Thailand model.Country

	Tokyo   model.City
	Paris   model.City
	Nice    model.City
	Bangkok model.City

	LostLuggage model.Trouble
	Scam        model.Trouble

	Alice model.User
	Bob   model.User
	Carol model.User
}

func ptr[T any](v T) *T { return &v }

// Seed 写入三国四城两类三用户
func Seed(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()
	f := &Fixture{
		Japan:    model.Country{EnName: "Japan", JaName: "日本", IsDomestic: true},
		France:   model.Country{EnName: "France", JaName: "フランス"},
		Thailand: model.Country{EnName: "Thailand", JaName: "タイ"},
	}
	require.NoError(t, db.Create(&f.Japan).Error)
	require.NoError(t, db.Create(&f.France).Error)
	require.NoError(t, db.Create(&f.Thailand).Error)

	f.Tokyo = model.City{EnName: "Tokyo", JaName: "東京", CountryID: f.Japan.ID, Latitude: ptr(35.68), Longitude: ptr(139.69)}
	f.Paris = model.City{EnName: "Paris", JaName: "パリ", CountryID: f.France.ID, PhotoURL: "/paris.jpg", Latitude: ptr(48.85), Longitude: ptr(2.35)}
	f.Bangkok = model.City{EnName: "Bangkok", JaName: "バンコク", CountryID: f.Thailand.ID, Latitude: ptr(13.75), Longitude: ptr(100.5)}
	f.Nice = model.City{EnName: "Nice", JaName: "ニース", CountryID: f.France.ID, Latitude: ptr(43.7), Longitude: ptr(7.26)}
	for _, c := range []*model.City{&f.Tokyo, &f.Paris, &f.Bangkok, &f.Nice} {
		require.NoError(t, db.Create(c).Error)
	}

	f.LostLuggage = model.Trouble{EnName: "Lost Luggage", JaName: "荷物紛失"}
	f.Scam = model.Trouble{EnName: "Tourist Scam", JaName: "観光詐欺"}
	require.NoError(t, db.Create(&f.LostLuggage).Error)
	require.NoError(t, db.Create(&f.Scam).Error)

	f.Alice = model.User{Name: "Alice", Email: "alice@example.com"}
	f.Bob = model.User{Name: "Bob", Email: "bob@example.com"}
	f.Carol = model.User{Email: "carol@example.com"}
	for _, u := range []*model.User{&f.Alice, &f.Bob, &f.Carol} {
		require.NoError(t, db.Create(u).Error)
	}
	return f
}

// PostOption 覆盖默认帖子字段
type PostOption func(p *model.Post)

func WithCity(c model.City) PostOption {
	return func(p *model.Post) {
		p.CountryID = c.CountryID
		p.CityID = &c.ID
	}
}

func WithTrouble(tr model.Trouble) PostOption {
	return func(p *model.Post) { p.TroubleID = tr.ID }
}

func WithCoords(lat, lng float64) PostOption {
	return func(p *model.Post) {
		p.Latitude = &lat
		p.Longitude = &lng
	}
}

func WithLikes(n int64) PostOption {
	return func(p *model.Post) { p.LikeCount = n }
}

func WithCreatedAt(ts time.Time) PostOption {
	return func(p *model.Post) { p.CreatedAt = ts }
}

// CreatePost 默认发在巴黎、分类为行李丢失
func CreatePost(t *testing.T, db *gorm.DB, f *Fixture, author model.User, title string, opts ...PostOption) model.Post {
	t.Helper()
	p := model.Post{
		UserID:      author.ID,
		CountryID:   f.France.ID,
		CityID:      &f.Paris.ID,
		TroubleID:   f.LostLuggage.ID,
		Title:       title,
		Content:     "<p>" + title + "</p>",
		TravelMonth: 5,
		TravelYear:  2023,
	}
	for _, opt := range opts {
		opt(&p)
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}
