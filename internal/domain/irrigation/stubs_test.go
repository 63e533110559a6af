package irrigation

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr(v float64) *float64 { return &v }

type stubModel struct {
	amount float64
	err    error
	seen   [][]float64
}

func (m *stubModel) Predict(features []float64) (float64, error) {
	m.seen = append(m.seen, features)
	return m.amount, m.err
}

type stubClassifier struct {
	stubModel
	proba []float64
}

func (m *stubClassifier) PredictProba([]float64) ([]float64, error) {
	return m.proba, nil
}

type stubWeather struct {
	reading *Conditions
	err     error
	calls   int
}

func (w *stubWeather) CurrentWeather(context.Context, float64, float64) (*Conditions, error) {
	w.calls++
	return w.reading, w.err
}

type stubGeocoder struct {
	coords  *Coordinates
	err     error
	queries []string
}

func (g *stubGeocoder) CoordinatesByCity(_ context.Context, city, _ string) (*Coordinates, error) {
	g.queries = append(g.queries, city)
	return g.coords, g.err
}

type stubCoordinateStore struct {
	updates map[int64]Coordinates
	err     error
}

func (s *stubCoordinateStore) UpdateCoordinates(_ context.Context, id int64, lat, lon float64) error {
	if s.err != nil {
		return s.err
	}
	if s.updates == nil {
		s.updates = make(map[int64]Coordinates)
	}
	s.updates[id] = Coordinates{Latitude: lat, Longitude: lon}
	return nil
}

var errUpstream = errors.New("upstream down")
