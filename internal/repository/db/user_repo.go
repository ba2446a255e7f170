package db

import (
	"context"

	"traubling/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

// UpsertByEmail 身份回调时按 email 建档，已存在则刷新非空的 name/image
func (r *UserRepository) UpsertByEmail(ctx context.Context, email, name, image string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(model.User{Email: email}).
			Attrs(model.User{Name: name, Image: image}).
			FirstOrCreate(&user).Error; err != nil {
			return err
		}
		updates := map[string]any{}
		if name != "" && user.Name != name {
			updates["name"] = name
		}
		if image != "" && user.Image != image {
			updates["image"] = image
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile 只更新传入的列
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uint64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error
}

type UserCounts struct {
	Posts     int64
	Followers int64
	Following int64
}

// Counts 关注数、粉丝数、帖子数全部由源表实时计算
func (r *UserRepository) Counts(ctx context.Context, userID uint64) (UserCounts, error) {
	var c UserCounts
	db := r.DB.WithContext(ctx)
	if err := db.Model(&model.Post{}).Where("user_id = ?", userID).Count(&c.Posts).Error; err != nil {
		return c, err
	}
	if err := db.Model(&model.Follow{}).Where("following_id = ?", userID).Count(&c.Followers).Error; err != nil {
		return c, err
	}
	if err := db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&c.Following).Error; err != nil {
		return c, err
	}
	return c, nil
}
