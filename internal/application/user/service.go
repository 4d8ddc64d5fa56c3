package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/notio-app/notio-api/internal/domain"
)

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	// UploadAvatar stores the image and rewrites the user's profileImage
	// reference with the resulting object URL.
	UploadAvatar(ctx context.Context, userID, filename string, r io.Reader, contentType string) (string, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	users   userStore
	objects objectStore
}

func NewService(users userStore, objects objectStore) Service {
	return &service{users: users, objects: objects}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("name required: %w", domain.ErrBadRequest)
		}
		updates["name"] = name
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, fmt.Errorf("username required: %w", domain.ErrBadRequest)
		}
		other, err := s.users.GetByUsername(ctx, username)
		if err == nil && other.UserID != userID {
			return nil, fmt.Errorf("username %q taken: %w", username, domain.ErrConflict)
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		updates["username"] = username
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}

	if err := s.users.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, userID)
}

func (s *service) UploadAvatar(ctx context.Context, userID, filename string, r io.Reader, contentType string) (string, error) {
	key := fmt.Sprintf("avatars/%s/%s", userID, filename)
	url, err := s.objects.Upload(ctx, key, r, contentType)
	if err != nil {
		return "", err
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"profile_image": url}); err != nil {
		return "", err
	}
	return url, nil
}
