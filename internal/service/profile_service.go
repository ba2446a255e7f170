package service

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"traubling/internal/model"
	"traubling/internal/repository/db"
)

const (
	maxNameLen     = 50
	maxBioLen      = 50
	maxLocationLen = 100
	maxWebsiteLen  = 200
)

type ProfileService struct {
	users   *db.UserRepository
	follows *db.FollowRepository
}

func NewProfileService(users *db.UserRepository, follows *db.FollowRepository) *ProfileService {
	return &ProfileService{users: users, follows: follows}
}

type ProfileView struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Image          string    `json:"image"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	Website        string    `json:"website"`
	CreatedAt      time.Time `json:"createdAt"`
	PostsCount     int64     `json:"postsCount"`
	FollowersCount int64     `json:"followersCount"`
	FollowingCount int64     `json:"followingCount"`
	IsFollowing    *bool     `json:"isFollowing,omitempty"`
}

// UpdateProfileInput nil 表示不修改；email 不可修改
type UpdateProfileInput struct {
	Name     *string
	Bio      *string
	Location *string
	Website  *string
}

func (s *ProfileService) view(ctx context.Context, u *model.User) (*ProfileView, error) {
	counts, err := s.users.Counts(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Image:          u.Image,
		Bio:            u.Bio,
		Location:       u.Location,
		Website:        u.Website,
		CreatedAt:      u.CreatedAt,
		PostsCount:     counts.Posts,
		FollowersCount: counts.Followers,
		FollowingCount: counts.Following,
	}, nil
}

func (s *ProfileService) Get(ctx context.Context, userID uint64) (*ProfileView, error) {
	if userID == 0 {
		return nil, ErrInvalidID
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return s.view(ctx, u)
}

func (s *ProfileService) GetByEmail(ctx context.Context, email string) (*ProfileView, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return s.view(ctx, u)
}

// Public 他人主页，附带当前用户是否已关注
func (s *ProfileService) Public(ctx context.Context, viewerID, userID uint64) (*ProfileView, error) {
	v, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	following := false
	if viewerID != 0 && viewerID != userID {
		if following, err = s.follows.IsFollowing(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}
	v.IsFollowing = &following
	return v, nil
}

// ValidateProfile 长度按字符计
func ValidateProfile(in UpdateProfileInput) error {
	if in.Name != nil {
		n := utf8.RuneCountInString(strings.TrimSpace(*in.Name))
		if n == 0 || n > maxNameLen {
			return invalid("name must be 1 to 50 characters")
		}
	}
	if in.Bio != nil && utf8.RuneCountInString(*in.Bio) > maxBioLen {
		return invalid("bio must be at most 50 characters")
	}
	if in.Location != nil && utf8.RuneCountInString(*in.Location) > maxLocationLen {
		return invalid("location must be at most 100 characters")
	}
	if in.Website != nil && *in.Website != "" {
		if utf8.RuneCountInString(*in.Website) > maxWebsiteLen {
			return invalid("website must be at most 200 characters")
		}
		u, err := url.Parse(*in.Website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("website must be an http(s) URL")
		}
	}
	return nil
}

func (s *ProfileService) Update(ctx context.Context, userID uint64, in UpdateProfileInput) (*ProfileView, error) {
	if err := ValidateProfile(in); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.Location != nil {
		updates["location"] = strings.TrimSpace(*in.Location)
	}
	if in.Website != nil {
		updates["website"] = strings.TrimSpace(*in.Website)
	}
	if err := s.users.UpdateProfile(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}
