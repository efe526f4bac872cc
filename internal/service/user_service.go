package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"contacts_api/internal/logger"
	"contacts_api/internal/model"
	"contacts_api/internal/repository"

	"go.uber.org/zap"
)

// MaxAvatarSize is the largest accepted avatar upload
const MaxAvatarSize = 5 << 20

var avatarContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// UserCache holds short lived user snapshots keyed by email. A miss returns nil, nil.
type UserCache interface {
	Get(ctx context.Context, email string) (*model.User, error)
	Set(ctx context.Context, user *model.User) error
}

// AvatarStore persists avatar images and returns their public URL
type AvatarStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// UserService provides access to the authenticated user's account
type UserService interface {
	CurrentUser(ctx context.Context, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, user *model.User, file *multipart.FileHeader) (*model.User, error)
	ListUsers(ctx context.Context, p model.Pagination) ([]model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache UserCache
	store AvatarStore
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository, cache UserCache, store AvatarStore) UserService {
	return &userService{repo: repo, cache: cache, store: store}
}

// CurrentUser resolves the account behind an access token, preferring the cached snapshot.
// Cache failures fall back to the database.
func (s *userService) CurrentUser(ctx context.Context, email string) (*model.User, error) {
	cached, err := s.cache.Get(ctx, email)
	if err != nil {
		logger.Warn("user cache read failed", zap.String("email", email), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.cache.Set(ctx, user); err != nil {
		logger.Warn("user cache write failed", zap.String("email", email), zap.Error(err))
	}
	return user, nil
}

// UpdateAvatar uploads the image to object storage and stores its URL on the user.
// The user record is left untouched when the upload fails.
func (s *userService) UpdateAvatar(ctx context.Context, user *model.User, file *multipart.FileHeader) (*model.User, error) {
	if file.Size > MaxAvatarSize {
		return nil, ErrFileSizeExceeded
	}
	contentType, ok := avatarContentTypes[strings.ToLower(filepath.Ext(file.Filename))]
	if !ok {
		return nil, ErrInvalidFileFormat
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	url, err := s.store.Upload(ctx, "avatars/"+user.Email, src, file.Size, contentType)
	if err != nil {
		logger.Error("avatar upload failed", zap.String("email", user.Email), zap.Error(err))
		return nil, ErrAvatarUpload
	}

	updated, err := s.repo.UpdateAvatar(ctx, user.Email, url)
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}

	if err := s.cache.Set(ctx, updated); err != nil {
		logger.Warn("user cache write failed", zap.String("email", updated.Email), zap.Error(err))
	}
	return updated, nil
}

// ListUsers returns a page of accounts for staff
func (s *userService) ListUsers(ctx context.Context, p model.Pagination) ([]model.User, error) {
	users, err := s.repo.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
