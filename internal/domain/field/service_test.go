package field

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/farmwise/pkg/errors"
)

func TestService_CreateAppliesDefaults(t *testing.T) {
	svc := newTestService()

	f, err := svc.Create(context.Background(), 7, CreateRequest{
		Name:         "  North Plot ",
		AreaHectares: 1.5,
		CropType:     CropMaize,
		SoilType:     SoilLoam,
		PlantingDate: "2024-09-01",
	})
	require.NoError(t, err)
	require.NotZero(t, f.ID)
	require.Equal(t, "North Plot", f.Name)
	require.Equal(t, RegionLusaka, f.Region)
	require.Equal(t, SeasonDry, f.Season)
	require.Equal(t, MethodRainfed, f.IrrigationMethod)
	require.Equal(t, 50, f.SoilMoisture)
	require.True(t, f.Active)
	require.NotNil(t, f.PlantingDate)
}

func TestService_CreateRejectsInvalidInput(t *testing.T) {
	svc := newTestService()
	moisture := 120
	lat := -15.0

	cases := map[string]CreateRequest{
		"empty name":       {AreaHectares: 1, CropType: CropMaize, SoilType: SoilLoam},
		"tiny area":        {Name: "a", AreaHectares: 0.001, CropType: CropMaize, SoilType: SoilLoam},
		"unknown crop":     {Name: "a", AreaHectares: 1, CropType: "Bananas", SoilType: SoilLoam},
		"unknown soil":     {Name: "a", AreaHectares: 1, CropType: CropMaize, SoilType: "Peat"},
		"unknown region":   {Name: "a", AreaHectares: 1, CropType: CropMaize, SoilType: SoilLoam, Region: "atlantis"},
		"moisture range":   {Name: "a", AreaHectares: 1, CropType: CropMaize, SoilType: SoilLoam, SoilMoisture: &moisture},
		"half coordinates": {Name: "a", AreaHectares: 1, CropType: CropMaize, SoilType: SoilLoam, Latitude: &lat},
		"future planting":  {Name: "a", AreaHectares: 1, CropType: CropMaize, SoilType: SoilLoam, PlantingDate: "2999-01-01"},
	}
	for name, req := range cases {
		_, err := svc.Create(context.Background(), 1, req)
		require.Error(t, err, name)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), name)
	}
}

func TestService_GetIsOwnerScoped(t *testing.T) {
	svc := newTestService()
	f, err := svc.Create(context.Background(), 1, validRequest())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 2, f.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	got, err := svc.Get(context.Background(), 1, f.ID)
	require.NoError(t, err)
	require.Equal(t, f.ID, got.ID)
}

func TestService_UpdateMoisture(t *testing.T) {
	svc := newTestService()
	f, err := svc.Create(context.Background(), 1, validRequest())
	require.NoError(t, err)

	_, err = svc.UpdateMoisture(context.Background(), 1, f.ID, 101)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	updated, err := svc.UpdateMoisture(context.Background(), 1, f.ID, 12)
	require.NoError(t, err)
	require.Equal(t, 12, updated.SoilMoisture)
}

func TestService_UpdateMergesAndRevalidates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	f, err := svc.Create(ctx, 1, validRequest())
	require.NoError(t, err)

	name := "  Renamed "
	crop := CropWheat
	inactive := false
	updated, err := svc.Update(ctx, 1, f.ID, UpdateRequest{Name: &name, CropType: &crop, Active: &inactive})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, CropWheat, updated.CropType)
	require.False(t, updated.Active)
	require.Equal(t, f.SoilType, updated.SoilType)
	require.Equal(t, f.SoilMoisture, updated.SoilMoisture)

	for _, moisture := range []int{-1, 101} {
		m := moisture
		_, err = svc.Update(ctx, 1, f.ID, UpdateRequest{SoilMoisture: &m})
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), moisture)
	}
	for _, moisture := range []int{0, 100} {
		m := moisture
		got, err := svc.Update(ctx, 1, f.ID, UpdateRequest{SoilMoisture: &m})
		require.NoError(t, err)
		require.Equal(t, moisture, got.SoilMoisture)
	}

	lat := -15.4
	_, err = svc.Update(ctx, 1, f.ID, UpdateRequest{Latitude: &lat})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	empty := ""
	_, err = svc.Update(ctx, 1, f.ID, UpdateRequest{Name: &empty})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	stored, err := svc.Get(ctx, 1, f.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", stored.Name)
	require.Equal(t, 100, stored.SoilMoisture)
}

func TestService_ReplaceKeepsIdentity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	f, err := svc.Create(ctx, 1, validRequest())
	require.NoError(t, err)
	inactive := false
	_, err = svc.Update(ctx, 1, f.ID, UpdateRequest{Active: &inactive})
	require.NoError(t, err)

	req := CreateRequest{Name: "Replaced", AreaHectares: 3, CropType: CropCotton, SoilType: SoilSandy, Region: RegionEastern}
	replaced, err := svc.Replace(ctx, 1, f.ID, req)
	require.NoError(t, err)
	require.Equal(t, f.ID, replaced.ID)
	require.Equal(t, int64(1), replaced.UserID)
	require.Equal(t, "Replaced", replaced.Name)
	require.Equal(t, RegionEastern, replaced.Region)
	require.Equal(t, 50, replaced.SoilMoisture)
	require.False(t, replaced.Active)

	moisture := 150
	req.SoilMoisture = &moisture
	_, err = svc.Replace(ctx, 1, f.ID, req)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestService_WritesAreOwnerScoped(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	f, err := svc.Create(ctx, 1, validRequest())
	require.NoError(t, err)

	name := "Stolen"
	_, err = svc.Update(ctx, 2, f.ID, UpdateRequest{Name: &name})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	_, err = svc.Replace(ctx, 2, f.ID, validRequest())
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	require.True(t, apperrors.IsCode(svc.Delete(ctx, 2, f.ID), apperrors.CodeNotFound))

	got, err := svc.Get(ctx, 1, f.ID)
	require.NoError(t, err)
	require.Equal(t, "Plot", got.Name)

	require.NoError(t, svc.Delete(ctx, 1, f.ID))
	_, err = svc.Get(ctx, 1, f.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	require.True(t, apperrors.IsCode(svc.Delete(ctx, 1, f.ID), apperrors.CodeNotFound))
}

func TestService_Statistics(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	first := validRequest()
	first.AreaHectares = 1.254
	_, err := svc.Create(ctx, 1, first)
	require.NoError(t, err)
	second := validRequest()
	second.CropType = CropRice
	second.Region = RegionCopperbelt
	second.AreaHectares = 2
	_, err = svc.Create(ctx, 1, second)
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalFields)
	require.Equal(t, 2, stats.ActiveFields)
	require.Equal(t, 0, stats.InactiveFields)
	require.InDelta(t, 3.25, stats.TotalAreaHectares, 0.001)
	require.Equal(t, map[string]int{"Maize": 1, "Rice": 1}, stats.CropDistribution)
	require.Equal(t, map[string]int{"Lusaka": 1, "Copperbelt": 1}, stats.RegionDistribution)
}

func TestRegionDisplayName(t *testing.T) {
	require.Equal(t, "North-Western", RegionNorthWestern.DisplayName())
	require.Equal(t, "somewhere", Region("somewhere").DisplayName())
	require.False(t, Region("somewhere").Valid())
}

func validRequest() CreateRequest {
	return CreateRequest{Name: "Plot", AreaHectares: 1, CropType: CropMaize, SoilType: SoilLoam}
}

func newTestService() *service {
	return &service{
		repo:   newStubRepo(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return time.Date(2024, 10, 16, 12, 0, 0, 0, time.UTC) },
	}
}

type stubRepo struct {
	mu     sync.Mutex
	seq    int64
	fields map[int64]Field
}

func newStubRepo() *stubRepo {
	return &stubRepo{fields: make(map[int64]Field)}
}

func (r *stubRepo) Create(_ context.Context, f Field) (Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	f.ID = r.seq
	r.fields[f.ID] = f
	return f, nil
}

func (r *stubRepo) Get(_ context.Context, id int64) (Field, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[id]
	return f, ok, nil
}

func (r *stubRepo) ListByUser(_ context.Context, userID int64, _ ListFilter) ([]Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Field
	for id := int64(1); id <= r.seq; id++ {
		if f, ok := r.fields[id]; ok && f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *stubRepo) Update(_ context.Context, f Field) (Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fields[f.ID]; !ok {
		return Field{}, ErrNotFound
	}
	r.fields[f.ID] = f
	return f, nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fields[id]; !ok {
		return ErrNotFound
	}
	delete(r.fields, id)
	return nil
}

func (r *stubRepo) UpdateMoisture(_ context.Context, id int64, moisture int) (Field, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.fields[id]
	f.SoilMoisture = moisture
	r.fields[id] = f
	return f, nil
}

func (r *stubRepo) UpdateCoordinates(_ context.Context, id int64, lat, lon float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.fields[id]
	f.Latitude, f.Longitude = &lat, &lon
	r.fields[id] = f
	return nil
}
