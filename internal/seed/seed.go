// Package seed 初始化国家、城市、分类等基础数据，可选写入演示用户和帖子
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"

	"traubling/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type countrySeed struct {
	en, ja   string
	domestic bool
}

var countries = []countrySeed{
	{"Japan", "日本", true},
	{"United States", "アメリカ", false},
	{"France", "フランス", false},
	{"Italy", "イタリア", false},
	{"Spain", "スペイン", false},
	{"United Kingdom", "イギリス", false},
	{"Germany", "ドイツ", false},
	{"Thailand", "タイ", false},
	{"South Korea", "韓国", false},
	{"Taiwan", "台湾", false},
	{"China", "中国", false},
	{"Vietnam", "ベトナム", false},
	{"Singapore", "シンガポール", false},
	{"Indonesia", "インドネシア", false},
	{"Australia", "オーストラリア", false},
	{"Canada", "カナダ", false},
	{"Mexico", "メキシコ", false},
	{"Brazil", "ブラジル", false},
	{"Egypt", "エジプト", false},
	{"Turkey", "トルコ", false},
}

type citySeed struct {
	country  string
	en, ja   string
	lat, lng float64
}

var cities = []citySeed{
	{"Japan", "Tokyo", "東京", 35.6762, 139.6503},
	{"Japan", "Osaka", "大阪", 34.6937, 135.5023},
	{"Japan", "Kyoto", "京都", 35.0116, 135.7681},
	{"Japan", "Sapporo", "札幌", 43.0618, 141.3545},
	{"Japan", "Fukuoka", "福岡", 33.5904, 130.4017},
	{"Japan", "Naha", "那覇", 26.2124, 127.6809},
	{"United States", "New York", "ニューヨーク", 40.7128, -74.0060},
	{"United States", "Los Angeles", "ロサンゼルス", 34.0522, -118.2437},
	{"United States", "Honolulu", "ホノルル", 21.3069, -157.8583},
	{"France", "Paris", "パリ", 48.8566, 2.3522},
	{"France", "Nice", "ニース", 43.7102, 7.2620},
	{"Italy", "Rome", "ローマ", 41.9028, 12.4964},
	{"Italy", "Venice", "ヴェネツィア", 45.4408, 12.3155},
	{"Spain", "Barcelona", "バルセロナ", 41.3874, 2.1686},
	{"United Kingdom", "London", "ロンドン", 51.5074, -0.1278},
	{"Germany", "Berlin", "ベルリン", 52.5200, 13.4050},
	{"Thailand", "Bangkok", "バンコク", 13.7563, 100.5018},
	{"Thailand", "Phuket", "プーケット", 7.8804, 98.3923},
	{"South Korea", "Seoul", "ソウル", 37.5665, 126.9780},
	{"Taiwan", "Taipei", "台北", 25.0330, 121.5654},
	{"China", "Shanghai", "上海", 31.2304, 121.4737},
	{"Vietnam", "Hanoi", "ハノイ", 21.0278, 105.8342},
	{"Singapore", "Singapore", "シンガポール", 1.3521, 103.8198},
	{"Indonesia", "Bali", "バリ", -8.3405, 115.0920},
	{"Australia", "Sydney", "シドニー", -33.8688, 151.2093},
	{"Canada", "Vancouver", "バンクーバー", 49.2827, -123.1207},
	{"Mexico", "Cancun", "カンクン", 21.1619, -86.8515},
	{"Brazil", "Rio de Janeiro", "リオデジャネイロ", -22.9068, -43.1729},
	{"Egypt", "Cairo", "カイロ", 30.0444, 31.2357},
	{"Turkey", "Istanbul", "イスタンブール", 41.0082, 28.9784},
}

var troubles = []struct{ en, ja string }{
	{"Lost Luggage", "荷物紛失"},
	{"Transportation Trouble", "交通機関のトラブル"},
	{"Food Poisoning", "食中毒"},
	{"Accommodation Trouble", "宿泊施設のトラブル"},
	{"Tourist Scam", "観光詐欺"},
}

type samplePost struct {
	author, city, trouble string
	title, content        string
	month, year           int
}

var sampleUsers = []model.User{
	{Name: "たびこ", Email: "tabiko@example.com", Bio: "年に3回は海外へ", Location: "東京"},
	{Name: "バックパッカー健", Email: "ken@example.com", Bio: "アジアを中心に一人旅", Location: "大阪"},
	{Name: "Mika", Email: "mika@example.com", Location: "福岡"},
}

var samplePosts = []samplePost{
	{"tabiko@example.com", "Paris", "荷物紛失", "シャルル・ド・ゴール空港でスーツケースが届かない",
		"<p>到着後ターンテーブルで待っても出てこず、PIR を作成しました。3日後にホテルへ届きました。</p>", 4, 2024},
	{"ken@example.com", "Bangkok", "観光詐欺", "王宮は今日休みと言われてトゥクトゥクに誘導された",
		"<p>典型的な手口でした。公式サイトで営業日を確認してから行くのがおすすめです。</p>", 12, 2023},
	{"ken@example.com", "Hanoi", "食中毒", "屋台のフォーでお腹を壊した",
		"<p>翌日は一日ホテルで寝込みました。整腸剤を持っていくべきでした。</p>", 8, 2023},
	{"mika@example.com", "Rome", "交通機関のトラブル", "テルミニ駅で列車が突然運休",
		"<p>ストライキで全便キャンセル。バスに振り替えて何とか移動できました。</p>", 6, 2024},
	{"mika@example.com", "Kyoto", "宿泊施設のトラブル", "予約したはずの宿に部屋がなかった",
		"<p>予約サイトと宿の在庫連携がずれていたようです。近くの宿を紹介してもらえました。</p>", 11, 2024},
	{"tabiko@example.com", "Seoul", "荷物紛失", "地下鉄に紙袋を置き忘れた",
		"<p>遺失物センターに問い合わせたら翌日受け取れました。</p>", 2, 2025},
}

// Seeder FirstOrCreate 写入，重复执行不会产生重复行
type Seeder struct {
	db  *gorm.DB
	log *zap.Logger
	rnd *rand.Rand
}

func New(db *gorm.DB, log *zap.Logger) *Seeder {
	return &Seeder{db: db, log: log, rnd: rand.New(rand.NewPCG(1, 2))}
}

// Catalog 国家、城市、分类
func (s *Seeder) Catalog(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		countryIDs := make(map[string]uint64, len(countries))
		for _, c := range countries {
			row := model.Country{}
			if err := tx.Where(model.Country{EnName: c.en}).
				Attrs(model.Country{JaName: c.ja, IsDomestic: c.domestic}).
				FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed country %s: %w", c.en, err)
			}
			countryIDs[c.en] = row.ID
		}

		for _, c := range cities {
			lat, lng := c.lat, c.lng
			row := model.City{}
			if err := tx.Where(model.City{EnName: c.en, CountryID: countryIDs[c.country]}).
				Attrs(model.City{JaName: c.ja, Latitude: &lat, Longitude: &lng}).
				FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed city %s: %w", c.en, err)
			}
		}

		for _, t := range troubles {
			row := model.Trouble{}
			if err := tx.Where(model.Trouble{JaName: t.ja}).
				Attrs(model.Trouble{EnName: t.en}).
				FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed trouble %s: %w", t.en, err)
			}
		}
		s.log.Info("catalog seeded",
			zap.Int("countries", len(countries)), zap.Int("cities", len(cities)), zap.Int("troubles", len(troubles)))
		return nil
	})
}

// Samples 演示用户和帖子，坐标在城市中心附近随机偏移；需先执行 Catalog
func (s *Seeder) Samples(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userIDs := make(map[string]uint64, len(sampleUsers))
		for _, u := range sampleUsers {
			row := model.User{}
			if err := tx.Where(model.User{Email: u.Email}).Attrs(u).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
			userIDs[u.Email] = row.ID
		}

		created := 0
		for _, p := range samplePosts {
			var city model.City
			if err := tx.Where("en_name = ?", p.city).First(&city).Error; err != nil {
				return fmt.Errorf("city %s: %w", p.city, err)
			}
			var trouble model.Trouble
			if err := tx.Where("ja_name = ?", p.trouble).First(&trouble).Error; err != nil {
				return fmt.Errorf("trouble %s: %w", p.trouble, err)
			}

			var n int64
			if err := tx.Model(&model.Post{}).
				Where("user_id = ? AND title = ?", userIDs[p.author], p.title).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}

			post := model.Post{
				UserID:      userIDs[p.author],
				CountryID:   city.CountryID,
				CityID:      &city.ID,
				TroubleID:   trouble.ID,
				Title:       p.title,
				Content:     p.content,
				TravelMonth: p.month,
				TravelYear:  p.year,
			}
			if city.Latitude != nil && city.Longitude != nil {
				lat, lng := s.jitter(*city.Latitude), s.jitter(*city.Longitude)
				post.Latitude, post.Longitude = &lat, &lng
			}
			if err := tx.Create(&post).Error; err != nil {
				return fmt.Errorf("seed post %q: %w", p.title, err)
			}
			created++
		}
		s.log.Info("samples seeded", zap.Int("users", len(sampleUsers)), zap.Int("posts", created))
		return nil
	})
}

// jitter 约 ±0.05 度，避免同城帖子在地图上完全重叠
func (s *Seeder) jitter(v float64) float64 {
	return v + (s.rnd.Float64()-0.5)*0.1
}
