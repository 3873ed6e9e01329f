package aqi

// Category is one of the six fixed AQI bands, ordered from best to worst.
type Category int

const (
	Good Category = iota
	Moderate
	UnhealthyForSensitiveGroups
	Unhealthy
	VeryUnhealthy
	Hazardous
)

var categoryLabels = [...]string{
	Good:                        "Good",
	Moderate:                    "Moderate",
	UnhealthyForSensitiveGroups: "Unhealthy for Sensitive Groups",
	Unhealthy:                   "Unhealthy",
	VeryUnhealthy:               "Very Unhealthy",
	Hazardous:                   "Hazardous",
}

var categoryColors = [...]string{
	Good:                        "#22c55e",
	Moderate:                    "#eab308",
	UnhealthyForSensitiveGroups: "#f97316",
	Unhealthy:                   "#ef4444",
	VeryUnhealthy:               "#a855f7",
	Hazardous:                   "#7f1d1d",
}

// Classify bands an AQI value. Each cut belongs to the lower band, so 50 is
// Good and 51 is Moderate. Negative values classify as Good.
func Classify(value int) Category {
	switch {
	case value <= 50:
		return Good
	case value <= 100:
		return Moderate
	case value <= 150:
		return UnhealthyForSensitiveGroups
	case value <= 200:
		return Unhealthy
	case value <= 300:
		return VeryUnhealthy
	default:
		return Hazardous
	}
}

// String returns the display label of the band.
func (c Category) String() string {
	if c < Good || c > Hazardous {
		return "Unknown"
	}
	return categoryLabels[c]
}

// Color returns the hex color used for the band on the map and cards.
func (c Category) Color() string {
	if c < Good || c > Hazardous {
		return ""
	}
	return categoryColors[c]
}

// MarshalText encodes the category as its label.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// CategoryInfo is the JSON view of a classified AQI.
type CategoryInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Rank  int    `json:"rank"`
}

// Describe classifies value and returns its display information.
func Describe(value int) CategoryInfo {
	c := Classify(value)
	return CategoryInfo{Label: c.String(), Color: c.Color(), Rank: int(c)}
}
