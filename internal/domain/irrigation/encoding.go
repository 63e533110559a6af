package irrigation

// FeatureNames is the column order the trained model expects. The code tables
// below are versioned together with the model artifact; changing either
// without retraining silently corrupts predictions.
var FeatureNames = []string{
	"CropType", "CropDays", "SoilMoisture", "temperature",
	"humidity", "rainfall", "windspeed", "soilType", "region", "season",
}

// CropCodes maps crop names to model codes.
var CropCodes = map[string]int{
	"Maize":    0,
	"Wheat":    1,
	"Rice":     2,
	"Tomatoes": 3,
	"Potatoes": 4,
	"Cotton":   5,
}

// SoilCodes maps soil classes to model codes.
var SoilCodes = map[string]int{
	"Clay":  0,
	"Loam":  1,
	"Sandy": 2,
	"Silty": 3,
}

// RegionCodes maps province display names to model codes.
var RegionCodes = map[string]int{
	"Lusaka":            0,
	"Central Province":  1,
	"Southern Province": 2,
	"Eastern Province":  3,
	"Copperbelt":        4,
	"Northern Province": 5,
	"Western Province":  6,
	"Luapula":           7,
	"Muchinga":          8,
	"North-Western":     9,
}

// SeasonCodes maps seasons to model codes.
var SeasonCodes = map[string]int{
	"Dry": 0,
	"Wet": 1,
}

// Codes used when a categorical value is not in its table.
const (
	DefaultCropCode   = 0 // Maize
	DefaultSoilCode   = 1 // Loam
	DefaultRegionCode = 0 // Lusaka
	DefaultSeasonCode = 0 // Dry
)

// EncodedFeatures holds the integer codes of the categorical features.
// Defaulted lists the feature names whose value was unknown.
type EncodedFeatures struct {
	CropType  int
	SoilType  int
	Region    int
	Season    int
	Defaulted []string
}

// Encode maps the categorical values of raw to model codes. Unknown values
// never fail; they take the table default and are reported in Defaulted.
func Encode(raw RawFeatures) EncodedFeatures {
	var enc EncodedFeatures
	enc.CropType = lookup(CropCodes, raw.CropType, DefaultCropCode, "CropType", &enc.Defaulted)
	enc.SoilType = lookup(SoilCodes, raw.SoilType, DefaultSoilCode, "soilType", &enc.Defaulted)
	enc.Region = lookup(RegionCodes, raw.Region, DefaultRegionCode, "region", &enc.Defaulted)
	enc.Season = lookup(SeasonCodes, raw.Season, DefaultSeasonCode, "season", &enc.Defaulted)
	return enc
}

func lookup(table map[string]int, value string, fallback int, name string, defaulted *[]string) int {
	if code, ok := table[value]; ok {
		return code
	}
	*defaulted = append(*defaulted, name)
	return fallback
}
