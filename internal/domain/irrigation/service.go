package irrigation

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/farmwise/internal/domain/field"
	"github.com/yanqian/farmwise/internal/domain/schedule"
	apperrors "github.com/yanqian/farmwise/pkg/errors"
)

// Service produces irrigation recommendations for fields.
type Service interface {
	// PrepareInput resolves position and weather and assembles the model input.
	PrepareInput(ctx context.Context, f field.Field) (ModelInput, error)
	// PredictForField returns a recommendation without persisting it.
	PredictForField(ctx context.Context, f field.Field) (Prediction, error)
	// GenerateSchedule predicts and upserts tomorrow's schedule for the field.
	GenerateSchedule(ctx context.Context, f field.Field, userID int64) (schedule.Schedule, bool, error)
	// PredictAll predicts sequentially; a failing field only fills its own Error slot.
	PredictAll(ctx context.Context, fields []field.Field) []FieldPrediction
}

// CoordinateStore persists resolved coordinates onto a field.
type CoordinateStore interface {
	UpdateCoordinates(ctx context.Context, id int64, lat, lon float64) error
}

// ScheduleStore is the write side the engine needs.
type ScheduleStore interface {
	Upsert(ctx context.Context, s schedule.Schedule) (schedule.Schedule, bool, error)
}

// Config tunes the engine.
type Config struct {
	// Location is the farm timezone used for crop age and schedule dates.
	Location *time.Location
	// WeatherTimeout bounds a single weather lookup.
	WeatherTimeout time.Duration
	// CountryCode scopes geocoding queries.
	CountryCode string
	// RegionCenters overrides the built-in province table when set.
	RegionCenters map[field.Region]RegionCenter
}

// ModelInput is everything fed to, or used to build, the model input.
type ModelInput struct {
	Raw           RawFeatures     `json:"raw"`
	Vector        FeatureVector   `json:"vector"`
	FeatureNames  []string        `json:"featureNames"`
	Weather       WeatherSnapshot `json:"weather"`
	WeatherSource WeatherSource   `json:"weatherSource"`
	Location      Resolution      `json:"location"`
	Defaulted     []string        `json:"defaultedFeatures,omitempty"`
}

// Prediction is a full recommendation for one field.
type Prediction struct {
	FieldID           int64             `json:"fieldId"`
	PredictedAmount   float64           `json:"predictedWaterAmount"`
	ConfidenceScore   float64           `json:"confidenceScore"`
	Priority          schedule.Priority `json:"priority"`
	Reason            string            `json:"reason"`
	WaterExplanation  string            `json:"waterExplanation"`
	WeatherSummary    string            `json:"weatherSummary"`
	TotalWaterLiters  float64           `json:"totalWaterLiters"`
	TotalWaterDisplay string            `json:"totalWaterDisplay"`
	Input             ModelInput        `json:"input"`
}

// FieldPrediction is one slot of a batch run.
type FieldPrediction struct {
	FieldID    int64       `json:"fieldId"`
	FieldName  string      `json:"fieldName"`
	Prediction *Prediction `json:"prediction,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type service struct {
	resolver  *CoordinateResolver
	weather   *WeatherFetcher
	predictor *Predictor
	fields    CoordinateStore
	schedules ScheduleStore
	location  *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the recommendation engine around an already loaded model.
func NewService(cfg Config, model Model, weather WeatherProvider, geocoder Geocoder, fields CoordinateStore, schedules ScheduleStore, logger *slog.Logger) Service {
	log := logger.With("component", "irrigation.service")
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		resolver:  NewCoordinateResolver(cfg.RegionCenters, geocoder, cfg.CountryCode, log),
		weather:   NewWeatherFetcher(weather, cfg.WeatherTimeout, log),
		predictor: NewPredictor(model, log),
		fields:    fields,
		schedules: schedules,
		location:  loc,
		logger:    log,
		now:       time.Now,
	}
}

func (s *service) PrepareInput(ctx context.Context, f field.Field) (ModelInput, error) {
	if err := ctx.Err(); err != nil {
		return ModelInput{}, apperrors.Wrap(apperrors.CodePredictionFailed, "prediction cancelled", err)
	}
	res := s.resolver.Resolve(ctx, f)
	if res.Persist && s.fields != nil {
		if err := s.fields.UpdateCoordinates(ctx, f.ID, res.Coordinates.Latitude, res.Coordinates.Longitude); err != nil {
			s.logger.Warn("failed to persist resolved coordinates", "field_id", f.ID, "error", err)
		} else {
			s.logger.Info("field coordinates resolved", "field_id", f.ID, "source", res.Source)
		}
	}

	snap, source := s.weather.Fetch(ctx, res.Coordinates)
	vec, raw, enc := AssembleFeatures(f, snap, s.now().In(s.location))
	if len(enc.Defaulted) > 0 {
		s.logger.Warn("unknown categorical values encoded with defaults", "field_id", f.ID, "features", enc.Defaulted)
	}
	return ModelInput{
		Raw:           raw,
		Vector:        vec,
		FeatureNames:  FeatureNames,
		Weather:       snap,
		WeatherSource: source,
		Location:      res,
		Defaulted:     enc.Defaulted,
	}, nil
}

func (s *service) PredictForField(ctx context.Context, f field.Field) (Prediction, error) {
	input, err := s.PrepareInput(ctx, f)
	if err != nil {
		return Prediction{}, err
	}
	amount, confidence, err := s.predictor.Predict(ctx, input.Vector)
	if err != nil {
		return Prediction{}, err
	}
	moisture := float64(f.SoilMoisture)
	total := TotalWaterLiters(amount, f.AreaHectares)
	return Prediction{
		FieldID:           f.ID,
		PredictedAmount:   amount,
		ConfidenceScore:   confidence,
		Priority:          DeterminePriority(amount, moisture),
		Reason:            BuildReason(amount, moisture, input.Weather),
		WaterExplanation:  ExplainWaterAmount(amount, f.CropType, f.AreaHectares),
		WeatherSummary:    SummarizeWeather(input.Weather),
		TotalWaterLiters:  total,
		TotalWaterDisplay: FormatVolume(total),
		Input:             input,
	}, nil
}

func (s *service) GenerateSchedule(ctx context.Context, f field.Field, userID int64) (schedule.Schedule, bool, error) {
	pred, err := s.PredictForField(ctx, f)
	if err != nil {
		return schedule.Schedule{}, false, err
	}
	sch, created, err := s.schedules.Upsert(ctx, schedule.Schedule{
		FieldID:         f.ID,
		UserID:          userID,
		PredictedAmount: pred.PredictedAmount,
		ConfidenceScore: pred.ConfidenceScore,
		Reason:          pred.Reason,
		Priority:        pred.Priority,
		Status:          schedule.StatusPending,
		RecommendedDate: RecommendedDate(s.now(), s.location),
		RecommendedTime: RecommendedTime(f.CropType),
		ModelInput:      pred.Input.Raw.Map(),
		PredictionDetails: map[string]any{
			"predicted_amount":  pred.PredictedAmount,
			"confidence_score":  pred.ConfidenceScore,
			"weather_data":      pred.Input.Weather,
			"weather_source":    pred.Input.WeatherSource,
			"coordinate_source": pred.Input.Location.Source,
			"model_features":    FeatureNames,
		},
	})
	if err != nil {
		return schedule.Schedule{}, false, apperrors.Wrap(apperrors.CodeStorage, "failed to save irrigation schedule", err)
	}
	action := "updated"
	if created {
		action = "created"
	}
	s.logger.Info("irrigation schedule "+action,
		"field_id", f.ID,
		"schedule_id", sch.ID,
		"date", sch.RecommendedDate,
		"time", sch.RecommendedTime,
		"amount", pred.PredictedAmount,
		"priority", pred.Priority,
	)
	return sch, created, nil
}

func (s *service) PredictAll(ctx context.Context, fields []field.Field) []FieldPrediction {
	out := make([]FieldPrediction, 0, len(fields))
	for _, f := range fields {
		slot := FieldPrediction{FieldID: f.ID, FieldName: f.Name}
		pred, err := s.PredictForField(ctx, f)
		if err != nil {
			s.logger.Warn("field prediction failed", "field_id", f.ID, "error", err)
			slot.Error = err.Error()
		} else {
			slot.Prediction = &pred
		}
		out = append(out, slot)
	}
	return out
}
