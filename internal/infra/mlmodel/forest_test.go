package mlmodel

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmwise/internal/domain/irrigation"
)

func stump(feature int, threshold float64, left, right []float64) Tree {
	return Tree{Nodes: []Node{
		{Feature: feature, Threshold: threshold, Left: 1, Right: 2},
		{Feature: -1, Value: left},
		{Feature: -1, Value: right},
	}}
}

func TestForest_RegressorAveragesTrees(t *testing.T) {
	forest, err := NewForest(Artifact{
		Kind:     KindRegressor,
		Features: irrigation.FeatureNames,
		Trees: []Tree{
			stump(2, 30, []float64{8}, []float64{2}),
			stump(3, 30, []float64{4}, []float64{6}),
		},
	}, irrigation.FeatureNames)
	require.NoError(t, err)

	x := make([]float64, 10)
	x[2], x[3] = 20, 35
	got, err := forest.Predict(x)
	require.NoError(t, err)
	require.Equal(t, 7.0, got)

	model := forest.Model()
	_, probabilistic := model.(irrigation.ProbabilisticModel)
	require.False(t, probabilistic)
}

func TestForest_ClassifierProbabilities(t *testing.T) {
	forest, err := NewForest(Artifact{
		Kind:     KindClassifier,
		Features: irrigation.FeatureNames,
		Classes:  []float64{0, 5, 10},
		Trees: []Tree{
			stump(2, 30, []float64{0, 1, 3}, []float64{4, 0, 0}),
			stump(2, 40, []float64{0, 2, 2}, []float64{1, 0, 0}),
		},
	}, irrigation.FeatureNames)
	require.NoError(t, err)

	model, ok := forest.Model().(irrigation.ProbabilisticModel)
	require.True(t, ok)

	x := make([]float64, 10)
	x[2] = 10
	proba, err := model.PredictProba(x)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 0.375, 0.625}, proba, 1e-9)

	amount, err := model.Predict(x)
	require.NoError(t, err)
	require.Equal(t, 10.0, amount)
}

func TestNewForest_Validation(t *testing.T) {
	good := stump(0, 1, []float64{1}, []float64{2})
	cases := map[string]Artifact{
		"kind":     {Kind: "svm", Features: irrigation.FeatureNames, Trees: []Tree{good}},
		"features": {Kind: KindRegressor, Features: []string{"CropType"}, Trees: []Tree{good}},
		"no trees": {Kind: KindRegressor, Features: irrigation.FeatureNames},
		"classes":  {Kind: KindClassifier, Features: irrigation.FeatureNames, Trees: []Tree{good}},
		"leaf":     {Kind: KindRegressor, Features: irrigation.FeatureNames, Trees: []Tree{stump(0, 1, nil, []float64{1})}},
		"feature":  {Kind: KindRegressor, Features: irrigation.FeatureNames, Trees: []Tree{stump(12, 1, []float64{1}, []float64{1})}},
		"cycle": {Kind: KindRegressor, Features: irrigation.FeatureNames, Trees: []Tree{{Nodes: []Node{
			{Feature: 0, Left: 0, Right: 1}, {Feature: -1, Value: []float64{1}},
		}}}},
	}
	for name, artifact := range cases {
		_, err := NewForest(artifact, irrigation.FeatureNames)
		require.Error(t, err, name)
	}
}

func TestForest_RejectsWrongWidth(t *testing.T) {
	forest, err := NewForest(Artifact{
		Kind: KindRegressor, Features: irrigation.FeatureNames,
		Trees: []Tree{stump(0, 1, []float64{1}, []float64{2})},
	}, irrigation.FeatureNames)
	require.NoError(t, err)
	_, err = forest.Predict([]float64{1, 2})
	require.Error(t, err)
}

func TestLoad_FileSource(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "model.json")
	data, err := json.Marshal(Artifact{
		Version: "test", Kind: KindRegressor, Features: irrigation.FeatureNames,
		Trees: []Tree{stump(2, 30, []float64{5}, []float64{1})},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	forest, err := Load(context.Background(), FileSource{Path: path}, irrigation.FeatureNames, logger)
	require.NoError(t, err)
	require.Equal(t, "test", forest.Version())

	_, err = Load(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}, irrigation.FeatureNames, logger)
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"kind":`), 0o600))
	_, err = Load(context.Background(), FileSource{Path: bad}, irrigation.FeatureNames, logger)
	require.Error(t, err)
}

func TestLoad_BundledArtifact(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	forest, err := Load(context.Background(), FileSource{Path: "../../../models/rf_irrigation_model.json"}, irrigation.FeatureNames, logger)
	require.NoError(t, err)

	// Dry maize field: moisture 15, 32°C, 35% humidity, no rain.
	amount, err := forest.Model().Predict([]float64{0, 30, 15, 32, 35, 0, 3, 1, 0, 0})
	require.NoError(t, err)
	require.InDelta(t, (9.0+7.0+4.0)/3, amount, 1e-9)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "minio.local:9000", sanitizeEndpoint("http://minio.local:9000/bucket"))
	require.Equal(t, "abc.r2.cloudflarestorage.com", sanitizeEndpoint(" https://abc.r2.cloudflarestorage.com "))
}
