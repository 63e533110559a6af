package irrigation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/farmwise/internal/domain/field"
)

func TestResolve_StoredCoordinatesWin(t *testing.T) {
	geo := &stubGeocoder{}
	r := NewCoordinateResolver(nil, geo, "ZM", discardLogger())
	lat, lon := -13.1, 27.9
	res := r.Resolve(context.Background(), field.Field{Region: field.RegionEastern, Latitude: &lat, Longitude: &lon})

	require.Equal(t, SourceStored, res.Source)
	require.False(t, res.Persist)
	require.Equal(t, Coordinates{-13.1, 27.9}, res.Coordinates)
	require.Empty(t, geo.queries)
}

func TestResolve_RegionTablePersists(t *testing.T) {
	r := NewCoordinateResolver(nil, nil, "ZM", discardLogger())
	res := r.Resolve(context.Background(), field.Field{Region: field.RegionCopperbelt})

	require.Equal(t, SourceRegion, res.Source)
	require.True(t, res.Persist)
	require.Equal(t, RegionCenters[field.RegionCopperbelt].Coordinates, res.Coordinates)
}

func TestResolve_GeocodesRepresentativeCity(t *testing.T) {
	geo := &stubGeocoder{coords: &Coordinates{-11.2, 28.9}}
	r := NewCoordinateResolver(map[field.Region]RegionCenter{}, geo, "ZM", discardLogger())
	res := r.Resolve(context.Background(), field.Field{Region: field.RegionLuapula, Location: "Kawambwa"})

	require.Equal(t, SourceGeocoded, res.Source)
	require.True(t, res.Persist)
	require.Equal(t, Coordinates{-11.2, 28.9}, res.Coordinates)
	require.Equal(t, []string{"Mansa"}, geo.queries)
}

func TestResolve_GeocodesLocationForUnknownRegion(t *testing.T) {
	geo := &stubGeocoder{coords: &Coordinates{-9.8, 29.1}}
	r := NewCoordinateResolver(nil, geo, "ZM", discardLogger())
	res := r.Resolve(context.Background(), field.Field{Region: "barotse", Location: " Kawambwa "})

	require.Equal(t, SourceGeocoded, res.Source)
	require.Equal(t, []string{"Kawambwa"}, geo.queries)

	geo.queries = nil
	r.Resolve(context.Background(), field.Field{Region: "barotse"})
	require.Equal(t, []string{"barotse"}, geo.queries)
}

func TestResolve_GeocodeFailureFallsThrough(t *testing.T) {
	for name, geo := range map[string]*stubGeocoder{
		"error":    {err: errUpstream},
		"no match": {},
	} {
		r := NewCoordinateResolver(map[field.Region]RegionCenter{}, geo, "ZM", discardLogger())
		res := r.Resolve(context.Background(), field.Field{Region: field.RegionMuchinga})

		require.Equal(t, SourceFallback, res.Source, name)
		require.False(t, res.Persist, name)
		require.Equal(t, FallbackCoordinates, res.Coordinates, name)
		require.Equal(t, []string{"Chinsali"}, geo.queries, name)
	}
}

func TestResolve_IdempotentAfterPersist(t *testing.T) {
	geo := &stubGeocoder{coords: &Coordinates{-9.8, 29.1}}
	r := NewCoordinateResolver(map[field.Region]RegionCenter{}, geo, "ZM", discardLogger())
	f := field.Field{ID: 3, Region: field.RegionLuapula}

	first := r.Resolve(context.Background(), f)
	require.True(t, first.Persist)
	f.Latitude, f.Longitude = &first.Coordinates.Latitude, &first.Coordinates.Longitude

	for i := 0; i < 3; i++ {
		again := r.Resolve(context.Background(), f)
		require.Equal(t, first.Coordinates, again.Coordinates)
		require.Equal(t, SourceStored, again.Source)
	}
	require.Len(t, geo.queries, 1)
}
