// Package aqi defines the dashboard's location records and the AQI banding.
package aqi

import "time"

// Pollutants holds the per-location pollutant sub-readings.
// Particulates are in µg/m³, NO2/SO2/O3 in ppb and CO in ppm.
type Pollutants struct {
	PM25 float64 `json:"pm25"`
	PM10 float64 `json:"pm10"`
	NO2  float64 `json:"no2"`
	SO2  float64 `json:"so2"`
	CO   float64 `json:"co"`
	O3   float64 `json:"o3"`
}

// MapPosition places a registry location on the abstract city map, in percent.
type MapPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Location is a monitored (or search-derived) location record.
type Location struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	AQI         int          `json:"aqi"`
	Pollutants  Pollutants   `json:"pollutants"`
	Temperature float64      `json:"temperature"`
	Humidity    float64      `json:"humidity"`
	LastUpdated time.Time    `json:"last_updated"`
	Map         *MapPosition `json:"map,omitempty"`
}

// Citation is a web source a grounded search drew upon.
type Citation struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

// HistoricalPoint is one sample of the trend chart. Time is the display label.
type HistoricalPoint struct {
	Time string    `json:"time"`
	At   time.Time `json:"at"`
	AQI  int       `json:"aqi"`
}
