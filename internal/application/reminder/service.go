package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/notio-app/notio-api/internal/domain"
	"github.com/notio-app/notio-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateReminderRequest) (*domain.Reminder, error)
	List(ctx context.Context, userID string) ([]domain.Reminder, error)
	Get(ctx context.Context, userID, reminderID string) (*domain.Reminder, error)
	Update(ctx context.Context, userID, reminderID string, req domain.UpdateReminderRequest) (*domain.Reminder, error)
	Delete(ctx context.Context, userID, reminderID string) error
}

type reminderStore interface {
	Put(ctx context.Context, r *domain.Reminder) error
	Get(ctx context.Context, reminderID string) (*domain.Reminder, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Reminder, error)
	Update(ctx context.Context, reminderID string, updates map[string]interface{}) error
	Delete(ctx context.Context, reminderID string) error
}

type service struct {
	repo reminderStore
}

func NewService(repo reminderStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateReminderRequest) (*domain.Reminder, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title required: %w", domain.ErrBadRequest)
	}
	if req.DateTime == nil || req.DateTime.IsZero() {
		return nil, fmt.Errorf("dateTime required: %w", domain.ErrBadRequest)
	}
	repeat := req.Repeat
	if repeat == "" {
		repeat = domain.RepeatNone
	}
	if !domain.ValidRepeat(repeat) {
		return nil, fmt.Errorf("unknown repeat %q: %w", repeat, domain.ErrBadRequest)
	}

	r := &domain.Reminder{
		ReminderID: id.New(),
		Title:      title,
		DateTime:   req.DateTime.UTC(),
		Repeat:     repeat,
		UserID:     userID,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Reminder, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns the reminder only when it belongs to userID. A reminder owned
// by someone else is reported as not found, not as forbidden.
func (s *service) Get(ctx context.Context, userID, reminderID string) (*domain.Reminder, error) {
	r, err := s.repo.Get(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, fmt.Errorf("reminder %s: %w", reminderID, domain.ErrNotFound)
	}
	return r, nil
}

func (s *service) Update(ctx context.Context, userID, reminderID string, req domain.UpdateReminderRequest) (*domain.Reminder, error) {
	if _, err := s.Get(ctx, userID, reminderID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("title required: %w", domain.ErrBadRequest)
		}
		updates["title"] = title
	}
	if req.DateTime != nil {
		updates["date_time"] = req.DateTime.UTC().Format(time.RFC3339)
	}
	if req.Repeat != nil {
		if !domain.ValidRepeat(*req.Repeat) {
			return nil, fmt.Errorf("unknown repeat %q: %w", *req.Repeat, domain.ErrBadRequest)
		}
		updates["repeat"] = *req.Repeat
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}

	if err := s.repo.Update(ctx, reminderID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, reminderID)
}

func (s *service) Delete(ctx context.Context, userID, reminderID string) error {
	if _, err := s.Get(ctx, userID, reminderID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, reminderID)
}
