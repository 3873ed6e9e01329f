package resolver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
)

// SchemaFields are the numeric properties stage 2 must produce.
var SchemaFields = []string{"aqi", "pm25", "pm10", "temp"}

// Substitutes for fields the extraction left out.
const (
	FallbackAQI         = 100
	FallbackPM25        = 35.0
	FallbackPM10        = 70.0
	FallbackTemperature = 30.0
)

// Readings the model is never asked to estimate.
const (
	DefaultNO2      = 20.0
	DefaultSO2      = 5.0
	DefaultCO       = 1.0
	DefaultO3       = 40.0
	DefaultHumidity = 50.0
)

// MaxReading bounds every extracted value. Larger magnitudes are not
// readings and fail the extraction.
const MaxReading = 100000.0

// LiveSuffix marks search-derived display names.
const LiveSuffix = " (Live Search)"

// Extraction is the parsed stage-2 object. A nil field was absent or null.
type Extraction struct {
	AQI  *float64 `json:"aqi"`
	PM25 *float64 `json:"pm25"`
	PM10 *float64 `json:"pm10"`
	Temp *float64 `json:"temp"`
}

// ParseExtraction decodes a stage-2 payload. Anything other than a JSON object
// whose known fields are numbers or null is rejected.
func ParseExtraction(raw []byte) (Extraction, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Extraction{}, errors.New("payload is not a JSON object")
	}
	var ext Extraction
	if err := json.Unmarshal(trimmed, &ext); err != nil {
		return Extraction{}, fmt.Errorf("decode extraction: %w", err)
	}
	for name, v := range map[string]*float64{"aqi": ext.AQI, "pm25": ext.PM25, "pm10": ext.PM10, "temp": ext.Temp} {
		if v != nil && math.Abs(*v) > MaxReading {
			return Extraction{}, fmt.Errorf("%s out of range: %g", name, *v)
		}
	}
	return ext, nil
}

// Synthesize builds the dashboard record for area from a parsed extraction,
// substituting fallbacks for missing fields.
func Synthesize(area string, ext Extraction, id string, now time.Time) aqi.Location {
	return aqi.Location{
		ID:   id,
		Name: area + LiveSuffix,
		AQI:  int(math.Round(math.Min(positiveOr(ext.AQI, FallbackAQI), MaxReading))),
		Pollutants: aqi.Pollutants{
			PM25: nonNegativeOr(ext.PM25, FallbackPM25),
			PM10: nonNegativeOr(ext.PM10, FallbackPM10),
			NO2:  DefaultNO2,
			SO2:  DefaultSO2,
			CO:   DefaultCO,
			O3:   DefaultO3,
		},
		Temperature: valueOr(ext.Temp, FallbackTemperature),
		Humidity:    DefaultHumidity,
		LastUpdated: now.UTC(),
	}
}

// positiveOr treats zero as missing. An index of exactly 0 is not something a
// monitoring station reports.
func positiveOr(v *float64, fallback float64) float64 {
	if v == nil || *v <= 0 {
		return fallback
	}
	return *v
}

func nonNegativeOr(v *float64, fallback float64) float64 {
	if v == nil || *v < 0 {
		return fallback
	}
	return *v
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
