package irrigation

import (
	"context"
	"log/slog"
	"math"

	apperrors "github.com/yanqian/farmwise/pkg/errors"
)

// Model is a loaded point predictor taking a FeatureNames ordered vector.
type Model interface {
	Predict(features []float64) (float64, error)
}

// ProbabilisticModel additionally exposes class probabilities.
type ProbabilisticModel interface {
	Model
	PredictProba(features []float64) ([]float64, error)
}

const (
	// RegressionConfidence is reported for models without class probabilities.
	// It is a constant, not a statistical estimate.
	RegressionConfidence = 0.8
	// SingleClassConfidence is reported when a classifier knows one class only.
	SingleClassConfidence = 0.5
)

// Predictor runs the model and derives amount and confidence.
type Predictor struct {
	model  Model
	logger *slog.Logger
}

// NewPredictor wraps model. A nil model makes every call fail with model_unavailable.
func NewPredictor(model Model, logger *slog.Logger) *Predictor {
	return &Predictor{model: model, logger: logger}
}

// Predict returns the water amount in L/m², clamped at zero, and a confidence in [0,1].
func (p *Predictor) Predict(ctx context.Context, v FeatureVector) (float64, float64, error) {
	if p.model == nil {
		return 0, 0, apperrors.Wrap(apperrors.CodeModelUnavailable, "irrigation model not loaded", nil)
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, apperrors.Wrap(apperrors.CodePredictionFailed, "prediction cancelled", err)
	}
	features := v.Slice()
	raw, err := p.model.Predict(features)
	if err != nil {
		p.logger.Error("model prediction failed", "error", err)
		return 0, 0, apperrors.Wrap(apperrors.CodePredictionFailed, "model prediction failed", err)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		p.logger.Error("model returned non-finite value", "value", raw)
		return 0, 0, apperrors.Wrap(apperrors.CodePredictionFailed, "model returned a non-finite amount", nil)
	}

	confidence := RegressionConfidence
	if pm, ok := p.model.(ProbabilisticModel); ok {
		proba, err := pm.PredictProba(features)
		if err != nil {
			p.logger.Error("model probability failed", "error", err)
			return 0, 0, apperrors.Wrap(apperrors.CodePredictionFailed, "model probability failed", err)
		}
		confidence = confidenceFrom(proba)
	}
	return math.Max(0, raw), confidence, nil
}

func confidenceFrom(proba []float64) float64 {
	if len(proba) <= 1 {
		return SingleClassConfidence
	}
	best := proba[0]
	for _, v := range proba[1:] {
		if v > best {
			best = v
		}
	}
	return best
}
