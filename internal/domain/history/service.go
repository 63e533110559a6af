package history

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/farmwise/internal/domain/field"
	"github.com/yanqian/farmwise/internal/domain/schedule"
	apperrors "github.com/yanqian/farmwise/pkg/errors"
	"github.com/yanqian/farmwise/pkg/util"
)

// RecentDays is the window of the recent history listing.
const RecentDays = 30

// Service records and lists irrigation history.
type Service interface {
	Create(ctx context.Context, userID int64, req CreateRequest) (Record, error)
	List(ctx context.Context, userID int64, fieldID int64) ([]Record, error)
	Recent(ctx context.Context, userID int64) ([]Record, error)
}

// FieldLookup resolves owner scoped fields.
type FieldLookup interface {
	Get(ctx context.Context, userID, id int64) (field.Field, error)
}

// ScheduleLookup resolves owner scoped schedules.
type ScheduleLookup interface {
	Get(ctx context.Context, userID int64, id uuid.UUID) (schedule.Schedule, error)
}

// Config carries the farm timezone.
type Config struct {
	Location *time.Location
}

type service struct {
	repo      Repository
	fields    FieldLookup
	schedules ScheduleLookup
	location  *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the history domain.
func NewService(cfg Config, repo Repository, fields FieldLookup, schedules ScheduleLookup, logger *slog.Logger) Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:      repo,
		fields:    fields,
		schedules: schedules,
		location:  loc,
		logger:    logger.With("component", "history.service"),
		now:       util.NowUTC,
	}
}

func (s *service) Create(ctx context.Context, userID int64, req CreateRequest) (Record, error) {
	rec, err := s.validate(req)
	if err != nil {
		return Record{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	if _, err := s.fields.Get(ctx, userID, req.FieldID); err != nil {
		return Record{}, err
	}
	if raw := strings.TrimSpace(req.ScheduleID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Record{}, apperrors.Wrap(apperrors.CodeInvalidInput, "relatedSchedule must be a UUID", err)
		}
		sch, err := s.schedules.Get(ctx, userID, id)
		if err != nil {
			return Record{}, err
		}
		if sch.FieldID != req.FieldID {
			return Record{}, apperrors.Wrap(apperrors.CodeInvalidInput, "related schedule belongs to another field", nil)
		}
		rec.ScheduleID = &id
	}
	rec.UserID = userID
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return Record{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save irrigation record", err)
	}
	s.logger.Info("irrigation recorded", "record_id", created.ID, "field_id", created.FieldID, "liters", created.WaterUsedLiters)
	return created, nil
}

func (s *service) List(ctx context.Context, userID int64, fieldID int64) ([]Record, error) {
	if fieldID != 0 {
		if _, err := s.fields.Get(ctx, userID, fieldID); err != nil {
			return nil, err
		}
	}
	return s.list(ctx, userID, Filter{FieldID: fieldID})
}

func (s *service) Recent(ctx context.Context, userID int64) ([]Record, error) {
	since := s.now().In(s.location).AddDate(0, 0, -RecentDays).Format(time.DateOnly)
	return s.list(ctx, userID, Filter{Since: since})
}

func (s *service) list(ctx context.Context, userID int64, filter Filter) ([]Record, error) {
	records, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list irrigation history", err)
	}
	return records, nil
}

func (s *service) validate(req CreateRequest) (Record, error) {
	if req.FieldID <= 0 {
		return Record{}, fmt.Errorf("fieldId is required")
	}
	if req.WaterUsedLiters < 0 {
		return Record{}, fmt.Errorf("waterAmountUsed cannot be negative")
	}
	if !req.Method.Valid() {
		return Record{}, fmt.Errorf("unknown irrigation method %q", req.Method)
	}
	if req.DurationMinutes < 0 {
		return Record{}, fmt.Errorf("durationMinutes cannot be negative")
	}
	when, err := time.ParseInLocation(time.DateOnly+" 15:04", strings.TrimSpace(req.Date)+" "+strings.TrimSpace(req.Time), s.location)
	if err != nil {
		return Record{}, fmt.Errorf("irrigationDate and irrigationTime must be formatted as YYYY-MM-DD and HH:MM")
	}
	if when.After(s.now()) {
		return Record{}, fmt.Errorf("irrigation date and time cannot be in the future")
	}
	for name, v := range map[string]*float64{"soilMoistureBefore": req.MoistureBefore, "soilMoistureAfter": req.MoistureAfter} {
		if v != nil && (*v < 0 || *v > 100) {
			return Record{}, fmt.Errorf("%s must be between 0 and 100", name)
		}
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return Record{}, fmt.Errorf("effectivenessRating must be between 1 and 5")
	}
	return Record{
		FieldID:         req.FieldID,
		WaterUsedLiters: req.WaterUsedLiters,
		Method:          req.Method,
		Date:            when.Format(time.DateOnly),
		Time:            when.Format("15:04"),
		DurationMinutes: req.DurationMinutes,
		MoistureBefore:  req.MoistureBefore,
		MoistureAfter:   req.MoistureAfter,
		Notes:           strings.TrimSpace(req.Notes),
		Rating:          req.Rating,
	}, nil
}
