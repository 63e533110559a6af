package field

import "time"

// CropType names the crops the irrigation model was trained on.
type CropType string

const (
	CropMaize    CropType = "Maize"
	CropWheat    CropType = "Wheat"
	CropRice     CropType = "Rice"
	CropTomatoes CropType = "Tomatoes"
	CropPotatoes CropType = "Potatoes"
	CropCotton   CropType = "Cotton"
)

// SoilType is the dominant soil class of a field.
type SoilType string

const (
	SoilClay  SoilType = "Clay"
	SoilLoam  SoilType = "Loam"
	SoilSandy SoilType = "Sandy"
	SoilSilty SoilType = "Silty"
)

// Season is the Zambian growing season.
type Season string

const (
	SeasonDry Season = "Dry"
	SeasonWet Season = "Wet"
)

// IrrigationMethod is the primary watering method of a field.
type IrrigationMethod string

const (
	MethodDrip      IrrigationMethod = "drip"
	MethodSprinkler IrrigationMethod = "sprinkler"
	MethodFlood     IrrigationMethod = "flood"
	MethodRainfed   IrrigationMethod = "rainfed"
)

// Region is a province key as stored on the field.
type Region string

const (
	RegionLusaka       Region = "lusaka"
	RegionCentral      Region = "central"
	RegionSouthern     Region = "southern"
	RegionEastern      Region = "eastern"
	RegionCopperbelt   Region = "copperbelt"
	RegionNorthern     Region = "northern"
	RegionWestern      Region = "western"
	RegionLuapula      Region = "luapula"
	RegionMuchinga     Region = "muchinga"
	RegionNorthWestern Region = "northwestern"
)

var regionDisplayNames = map[Region]string{
	RegionLusaka:       "Lusaka",
	RegionCentral:      "Central Province",
	RegionSouthern:     "Southern Province",
	RegionEastern:      "Eastern Province",
	RegionCopperbelt:   "Copperbelt",
	RegionNorthern:     "Northern Province",
	RegionWestern:      "Western Province",
	RegionLuapula:      "Luapula",
	RegionMuchinga:     "Muchinga",
	RegionNorthWestern: "North-Western",
}

// DisplayName returns the province name used by the model encoder.
// Unknown keys are returned unchanged.
func (r Region) DisplayName() string {
	if name, ok := regionDisplayNames[r]; ok {
		return name
	}
	return string(r)
}

// Valid reports whether r is one of the ten provinces.
func (r Region) Valid() bool {
	_, ok := regionDisplayNames[r]
	return ok
}

// Field is a farmer's plot with everything the irrigation model needs.
type Field struct {
	ID               int64            `json:"id"`
	UserID           int64            `json:"userId"`
	Name             string           `json:"name"`
	Location         string           `json:"location,omitempty"`
	Region           Region           `json:"region"`
	Latitude         *float64         `json:"latitude,omitempty"`
	Longitude        *float64         `json:"longitude,omitempty"`
	AreaHectares     float64          `json:"areaHectares"`
	CropType         CropType         `json:"cropType"`
	PlantingDate     *time.Time       `json:"plantingDate,omitempty"`
	SoilType         SoilType         `json:"soilType"`
	SoilMoisture     int              `json:"soilMoisture"`
	IrrigationMethod IrrigationMethod `json:"irrigationMethod"`
	Season           Season           `json:"season"`
	Notes            string           `json:"notes,omitempty"`
	Active           bool             `json:"active"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// HasCoordinates reports whether both latitude and longitude are stored.
func (f Field) HasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// CreateRequest is the payload accepted when registering a field.
type CreateRequest struct {
	Name             string           `json:"name"`
	Location         string           `json:"location"`
	Region           Region           `json:"region"`
	Latitude         *float64         `json:"latitude"`
	Longitude        *float64         `json:"longitude"`
	AreaHectares     float64          `json:"areaHectares"`
	CropType         CropType         `json:"cropType"`
	PlantingDate     string           `json:"plantingDate"`
	SoilType         SoilType         `json:"soilType"`
	SoilMoisture     *int             `json:"soilMoisture"`
	IrrigationMethod IrrigationMethod `json:"irrigationMethod"`
	Season           Season           `json:"season"`
	Notes            string           `json:"notes"`
}

// UpdateRequest changes only the fields that are set.
type UpdateRequest struct {
	Name             *string           `json:"name"`
	Location         *string           `json:"location"`
	Region           *Region           `json:"region"`
	Latitude         *float64          `json:"latitude"`
	Longitude        *float64          `json:"longitude"`
	AreaHectares     *float64          `json:"areaHectares"`
	CropType         *CropType         `json:"cropType"`
	PlantingDate     *string           `json:"plantingDate"`
	SoilType         *SoilType         `json:"soilType"`
	SoilMoisture     *int              `json:"soilMoisture"`
	IrrigationMethod *IrrigationMethod `json:"irrigationMethod"`
	Season           *Season           `json:"season"`
	Notes            *string           `json:"notes"`
	Active           *bool             `json:"active"`
}

// ListFilter narrows a field listing. Zero values match everything; Search is
// a case-insensitive match on name or location.
type ListFilter struct {
	Active   *bool
	CropType CropType
	Region   Region
	Search   string
}

// Statistics summarises a user's fields.
type Statistics struct {
	TotalFields        int            `json:"totalFields"`
	ActiveFields       int            `json:"activeFields"`
	InactiveFields     int            `json:"inactiveFields"`
	TotalAreaHectares  float64        `json:"totalAreaHectares"`
	CropDistribution   map[string]int `json:"cropDistribution"`
	RegionDistribution map[string]int `json:"regionDistribution"`
}
