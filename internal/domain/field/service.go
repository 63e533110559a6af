package field

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	apperrors "github.com/yanqian/farmwise/pkg/errors"
)

// Service exposes field management for farmers.
type Service interface {
	Create(ctx context.Context, userID int64, req CreateRequest) (Field, error)
	Get(ctx context.Context, userID, id int64) (Field, error)
	List(ctx context.Context, userID int64) ([]Field, error)
	Search(ctx context.Context, userID int64, filter ListFilter) ([]Field, error)
	Replace(ctx context.Context, userID, id int64, req CreateRequest) (Field, error)
	Update(ctx context.Context, userID, id int64, req UpdateRequest) (Field, error)
	Delete(ctx context.Context, userID, id int64) error
	UpdateMoisture(ctx context.Context, userID, id int64, moisture int) (Field, error)
	Statistics(ctx context.Context, userID int64) (Statistics, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the field domain.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "field.service"),
		now:    time.Now,
	}
}

func (s *service) Create(ctx context.Context, userID int64, req CreateRequest) (Field, error) {
	f, err := s.buildField(userID, req)
	if err != nil {
		return Field{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	created, err := s.repo.Create(ctx, f)
	if err != nil {
		return Field{}, apperrors.Wrap(apperrors.CodeStorage, "failed to create field", err)
	}
	s.logger.Info("field created", "field_id", created.ID, "user_id", userID, "crop", created.CropType)
	return created, nil
}

func (s *service) Get(ctx context.Context, userID, id int64) (Field, error) {
	f, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return Field{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load field", err)
	}
	if !found || f.UserID != userID {
		return Field{}, apperrors.Wrap(apperrors.CodeNotFound, "field not found", nil)
	}
	return f, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]Field, error) {
	return s.Search(ctx, userID, ListFilter{})
}

func (s *service) Search(ctx context.Context, userID int64, filter ListFilter) ([]Field, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	fields, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list fields", err)
	}
	return fields, nil
}

// Replace swaps every editable column for the values in req. Identity,
// ownership, activity and creation time are kept.
func (s *service) Replace(ctx context.Context, userID, id int64, req CreateRequest) (Field, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return Field{}, err
	}
	next, err := s.buildField(userID, req)
	if err != nil {
		return Field{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	next.ID = current.ID
	next.Active = current.Active
	next.CreatedAt = current.CreatedAt
	return s.save(ctx, next)
}

func (s *service) Update(ctx context.Context, userID, id int64, req UpdateRequest) (Field, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return Field{}, err
	}
	next, err := s.applyUpdate(current, req)
	if err != nil {
		return Field{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	return s.save(ctx, next)
}

func (s *service) save(ctx context.Context, f Field) (Field, error) {
	updated, err := s.repo.Update(ctx, f)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Field{}, apperrors.Wrap(apperrors.CodeNotFound, "field not found", err)
		}
		return Field{}, apperrors.Wrap(apperrors.CodeStorage, "failed to update field", err)
	}
	s.logger.Info("field updated", "field_id", updated.ID, "user_id", updated.UserID)
	return updated, nil
}

// Delete removes the field with its schedules and history.
func (s *service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.Wrap(apperrors.CodeNotFound, "field not found", err)
		}
		return apperrors.Wrap(apperrors.CodeStorage, "failed to delete field", err)
	}
	s.logger.Info("field deleted", "field_id", id, "user_id", userID)
	return nil
}

func (s *service) UpdateMoisture(ctx context.Context, userID, id int64, moisture int) (Field, error) {
	if moisture < 0 || moisture > 100 {
		return Field{}, apperrors.Wrap(apperrors.CodeInvalidInput, "soil moisture must be between 0 and 100", nil)
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return Field{}, err
	}
	updated, err := s.repo.UpdateMoisture(ctx, id, moisture)
	if err != nil {
		return Field{}, apperrors.Wrap(apperrors.CodeStorage, "failed to update soil moisture", err)
	}
	return updated, nil
}

func (s *service) Statistics(ctx context.Context, userID int64) (Statistics, error) {
	fields, err := s.List(ctx, userID)
	if err != nil {
		return Statistics{}, err
	}
	return summarize(fields), nil
}

func summarize(fields []Field) Statistics {
	stats := Statistics{
		CropDistribution:   make(map[string]int),
		RegionDistribution: make(map[string]int),
	}
	var area float64
	for _, f := range fields {
		stats.TotalFields++
		if f.Active {
			stats.ActiveFields++
		}
		area += f.AreaHectares
		stats.CropDistribution[string(f.CropType)]++
		stats.RegionDistribution[f.Region.DisplayName()]++
	}
	stats.InactiveFields = stats.TotalFields - stats.ActiveFields
	stats.TotalAreaHectares = math.Round(area*100) / 100
	return stats
}

func (s *service) buildField(userID int64, req CreateRequest) (Field, error) {
	f := Field{
		UserID:           userID,
		Name:             strings.TrimSpace(req.Name),
		Location:         strings.TrimSpace(req.Location),
		Region:           req.Region,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		AreaHectares:     req.AreaHectares,
		CropType:         req.CropType,
		SoilType:         req.SoilType,
		SoilMoisture:     50,
		IrrigationMethod: req.IrrigationMethod,
		Season:           req.Season,
		Notes:            strings.TrimSpace(req.Notes),
		Active:           true,
	}
	if f.Region == "" {
		f.Region = RegionLusaka
	}
	if f.Season == "" {
		f.Season = SeasonDry
	}
	if f.IrrigationMethod == "" {
		f.IrrigationMethod = MethodRainfed
	}
	if req.SoilMoisture != nil {
		f.SoilMoisture = *req.SoilMoisture
	}
	planted, err := parsePlantingDate(req.PlantingDate)
	if err != nil {
		return Field{}, err
	}
	f.PlantingDate = planted
	if err := s.validate(f); err != nil {
		return Field{}, err
	}
	return f, nil
}

func (s *service) applyUpdate(f Field, req UpdateRequest) (Field, error) {
	if req.Name != nil {
		f.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		f.Location = strings.TrimSpace(*req.Location)
	}
	if req.Region != nil {
		f.Region = *req.Region
	}
	if req.Latitude != nil {
		f.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		f.Longitude = req.Longitude
	}
	if req.AreaHectares != nil {
		f.AreaHectares = *req.AreaHectares
	}
	if req.CropType != nil {
		f.CropType = *req.CropType
	}
	if req.PlantingDate != nil {
		planted, err := parsePlantingDate(*req.PlantingDate)
		if err != nil {
			return Field{}, err
		}
		f.PlantingDate = planted
	}
	if req.SoilType != nil {
		f.SoilType = *req.SoilType
	}
	if req.SoilMoisture != nil {
		f.SoilMoisture = *req.SoilMoisture
	}
	if req.IrrigationMethod != nil {
		f.IrrigationMethod = *req.IrrigationMethod
	}
	if req.Season != nil {
		f.Season = *req.Season
	}
	if req.Notes != nil {
		f.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Active != nil {
		f.Active = *req.Active
	}
	if err := s.validate(f); err != nil {
		return Field{}, err
	}
	return f, nil
}

// parsePlantingDate treats an empty value as no planting date.
func parsePlantingDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, fmt.Errorf("plantingDate must be formatted as YYYY-MM-DD")
	}
	return &ts, nil
}

func (s *service) validate(f Field) error {
	if f.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if f.AreaHectares < 0.01 {
		return fmt.Errorf("area must be at least 0.01 hectares")
	}
	if !validCrop(f.CropType) {
		return fmt.Errorf("unsupported crop type %q", f.CropType)
	}
	if !validSoil(f.SoilType) {
		return fmt.Errorf("unsupported soil type %q", f.SoilType)
	}
	if !f.Region.Valid() {
		return fmt.Errorf("unknown region %q", f.Region)
	}
	if f.Season != SeasonDry && f.Season != SeasonWet {
		return fmt.Errorf("unknown season %q", f.Season)
	}
	switch f.IrrigationMethod {
	case MethodDrip, MethodSprinkler, MethodFlood, MethodRainfed:
	default:
		return fmt.Errorf("unknown irrigation method %q", f.IrrigationMethod)
	}
	if f.SoilMoisture < 0 || f.SoilMoisture > 100 {
		return fmt.Errorf("soil moisture must be between 0 and 100")
	}
	if (f.Latitude == nil) != (f.Longitude == nil) {
		return fmt.Errorf("latitude and longitude must be provided together")
	}
	if f.PlantingDate != nil && f.PlantingDate.After(s.now()) {
		return fmt.Errorf("plantingDate cannot be in the future")
	}
	return nil
}

func validCrop(c CropType) bool {
	switch c {
	case CropMaize, CropWheat, CropRice, CropTomatoes, CropPotatoes, CropCotton:
		return true
	}
	return false
}

func validSoil(s SoilType) bool {
	switch s {
	case SoilClay, SoilLoam, SoilSandy, SoilSilty:
		return true
	}
	return false
}
