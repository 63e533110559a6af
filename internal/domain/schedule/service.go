package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/farmwise/pkg/errors"
)

// Service manages the lifecycle of generated schedules.
type Service interface {
	Get(ctx context.Context, userID int64, id uuid.UUID) (Schedule, error)
	List(ctx context.Context, userID int64, filter Filter) ([]Schedule, error)
	Pending(ctx context.Context, userID int64) ([]Schedule, error)
	Overdue(ctx context.Context, userID int64) ([]Schedule, error)
	Transition(ctx context.Context, userID int64, id uuid.UUID, to Status) (Schedule, error)
	Confirm(ctx context.Context, userID int64, id uuid.UUID) (Schedule, error)
	Skip(ctx context.Context, userID int64, id uuid.UUID) (Schedule, error)
	Complete(ctx context.Context, userID int64, id uuid.UUID) (Schedule, error)
	Cancel(ctx context.Context, userID int64, id uuid.UUID) (Schedule, error)
}

// Config carries the farm timezone used to interpret schedule slots.
type Config struct {
	Location *time.Location
}

type service struct {
	repo     Repository
	logger   *slog.Logger
	location *time.Location
	now      func() time.Time
}

// NewService wires the schedule domain.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:     repo,
		logger:   logger.With("component", "schedule.service"),
		location: loc,
		now:      time.Now,
	}
}

func (s *service) Get(ctx context.Context, userID int64, id uuid.UUID) (Schedule, error) {
	sch, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return Schedule{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load schedule", err)
	}
	if !found || sch.UserID != userID {
		return Schedule{}, apperrors.Wrap(apperrors.CodeNotFound, "schedule not found", nil)
	}
	return sch, nil
}

func (s *service) List(ctx context.Context, userID int64, filter Filter) ([]Schedule, error) {
	list, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list schedules", err)
	}
	return list, nil
}

func (s *service) Pending(ctx context.Context, userID int64) ([]Schedule, error) {
	return s.List(ctx, userID, Filter{Statuses: []Status{StatusPending}})
}

func (s *service) Overdue(ctx context.Context, userID int64) ([]Schedule, error) {
	open, err := s.List(ctx, userID, Filter{Statuses: []Status{StatusPending, StatusConfirmed}})
	if err != nil {
		return nil, err
	}
	now := s.now()
	overdue := make([]Schedule, 0, len(open))
	for _, sch := range open {
		due, err := sch.Due(s.location)
		if err != nil {
			s.logger.Warn("schedule slot unparsable", "schedule_id", sch.ID, "date", sch.RecommendedDate, "time", sch.RecommendedTime)
			continue
		}
		if now.After(due) {
			overdue = append(overdue, sch)
		}
	}
	return overdue, nil
}

func (s *service) Transition(ctx context.Context, userID int64, id uuid.UUID, to Status) (Schedule, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return Schedule{}, err
	}
	if !CanTransition(current.Status, to) {
		msg := fmt.Sprintf("cannot move schedule from %s to %s", current.Status, to)
		return Schedule{}, apperrors.Wrap(apperrors.CodeInvalidTransition, msg, nil)
	}
	var scheduledAt *time.Time
	if to == StatusCompleted {
		ts := s.now().UTC()
		scheduledAt = &ts
	}
	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, to, scheduledAt)
	if errors.Is(err, ErrStatusChanged) {
		msg := fmt.Sprintf("schedule is no longer %s", current.Status)
		return Schedule{}, apperrors.Wrap(apperrors.CodeInvalidTransition, msg, err)
	}
	if err != nil {
		return Schedule{}, apperrors.Wrap(apperrors.CodeStorage, "failed to update schedule", err)
	}
	s.logger.Info("schedule status changed", "schedule_id", id, "from", current.Status, "to", to)
	return updated, nil
}

func (s *service) Confirm(ctx context.Context, userID int64, id uuid.UUID) (Schedule, error) {
	return s.Transition(ctx, userID, id, StatusConfirmed)
}

func (s *service) Skip(ctx context.Context, userID int64, id uuid.UUID) (Schedule, error) {
	return s.Transition(ctx, userID, id, StatusSkipped)
}

func (s *service) Complete(ctx context.Context, userID int64, id uuid.UUID) (Schedule, error) {
	return s.Transition(ctx, userID, id, StatusCompleted)
}

func (s *service) Cancel(ctx context.Context, userID int64, id uuid.UUID) (Schedule, error) {
	return s.Transition(ctx, userID, id, StatusCancelled)
}
