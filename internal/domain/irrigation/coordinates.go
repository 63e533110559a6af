package irrigation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yanqian/farmwise/internal/domain/field"
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CoordinateSource names the strategy that produced a resolution.
type CoordinateSource string

const (
	SourceStored   CoordinateSource = "stored"
	SourceRegion   CoordinateSource = "region_table"
	SourceGeocoded CoordinateSource = "geocoded"
	SourceFallback CoordinateSource = "fallback"
)

// Resolution is the outcome of coordinate resolution. Persist tells the caller
// to write Coordinates back onto the field so later lookups short-circuit.
type Resolution struct {
	Coordinates Coordinates      `json:"coordinates"`
	Source      CoordinateSource `json:"source"`
	Persist     bool             `json:"-"`
}

// RegionCenter is the representative city and center point of a province.
type RegionCenter struct {
	City        string
	Coordinates Coordinates
}

// RegionCenters covers every province key a field can carry.
var RegionCenters = map[field.Region]RegionCenter{
	field.RegionLusaka:       {City: "Lusaka", Coordinates: Coordinates{-15.3875, 28.3228}},
	field.RegionCentral:      {City: "Kabwe", Coordinates: Coordinates{-14.4469, 28.4464}},
	field.RegionSouthern:     {City: "Choma", Coordinates: Coordinates{-16.8065, 26.9534}},
	field.RegionEastern:      {City: "Chipata", Coordinates: Coordinates{-13.6333, 32.6500}},
	field.RegionCopperbelt:   {City: "Ndola", Coordinates: Coordinates{-12.9587, 28.6366}},
	field.RegionNorthern:     {City: "Kasama", Coordinates: Coordinates{-10.2129, 31.1808}},
	field.RegionWestern:      {City: "Mongu", Coordinates: Coordinates{-15.2484, 23.1274}},
	field.RegionLuapula:      {City: "Mansa", Coordinates: Coordinates{-11.1995, 28.8943}},
	field.RegionMuchinga:     {City: "Chinsali", Coordinates: Coordinates{-10.5414, 32.0816}},
	field.RegionNorthWestern: {City: "Solwezi", Coordinates: Coordinates{-12.1688, 26.3894}},
}

// FallbackCoordinates is the Lusaka center, used when every strategy fails.
var FallbackCoordinates = RegionCenters[field.RegionLusaka].Coordinates

// Geocoder resolves a city name to a position. A nil result means no match.
type Geocoder interface {
	CoordinatesByCity(ctx context.Context, city, countryCode string) (*Coordinates, error)
}

// CoordinateResolver picks the position used for weather lookups.
type CoordinateResolver struct {
	centers  map[field.Region]RegionCenter
	geocoder Geocoder
	country  string
	logger   *slog.Logger
}

// NewCoordinateResolver builds a resolver over the given region table.
// A nil table selects RegionCenters; a nil geocoder disables geocoding.
func NewCoordinateResolver(centers map[field.Region]RegionCenter, geocoder Geocoder, country string, logger *slog.Logger) *CoordinateResolver {
	if centers == nil {
		centers = RegionCenters
	}
	return &CoordinateResolver{
		centers:  centers,
		geocoder: geocoder,
		country:  country,
		logger:   logger,
	}
}

// Resolve tries stored coordinates, the region table, geocoding and finally
// the fallback point. It never fails and performs no writes.
func (r *CoordinateResolver) Resolve(ctx context.Context, f field.Field) Resolution {
	if f.HasCoordinates() {
		return Resolution{
			Coordinates: Coordinates{Latitude: *f.Latitude, Longitude: *f.Longitude},
			Source:      SourceStored,
		}
	}
	if center, ok := r.centers[f.Region]; ok {
		return Resolution{Coordinates: center.Coordinates, Source: SourceRegion, Persist: true}
	}
	if coords, ok := r.geocode(ctx, f); ok {
		return Resolution{Coordinates: coords, Source: SourceGeocoded, Persist: true}
	}
	r.logger.Warn("coordinates unresolved, using fallback", "field_id", f.ID, "region", f.Region)
	return Resolution{Coordinates: FallbackCoordinates, Source: SourceFallback}
}

// geocodeQuery prefers the province's representative city, looked up in the
// configured table and then the built-in one. Unknown provinces fall back to
// the field's location text.
func (r *CoordinateResolver) geocodeQuery(f field.Field) string {
	if center, ok := r.centers[f.Region]; ok && center.City != "" {
		return center.City
	}
	if center, ok := RegionCenters[f.Region]; ok && center.City != "" {
		return center.City
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		return loc
	}
	return f.Region.DisplayName()
}

func (r *CoordinateResolver) geocode(ctx context.Context, f field.Field) (Coordinates, bool) {
	if r.geocoder == nil {
		return Coordinates{}, false
	}
	query := r.geocodeQuery(f)
	if query == "" {
		return Coordinates{}, false
	}
	coords, err := r.geocoder.CoordinatesByCity(ctx, query, r.country)
	if err != nil {
		r.logger.Warn("geocoding failed", "field_id", f.ID, "query", query, "error", err)
		return Coordinates{}, false
	}
	if coords == nil {
		r.logger.Warn("geocoding returned no match", "field_id", f.ID, "query", query)
		return Coordinates{}, false
	}
	return *coords, true
}
