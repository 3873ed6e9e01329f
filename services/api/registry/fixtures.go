package registry

import (
	"time"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
)

// Fixtures returns the five monitored Hyderabad locations.
func Fixtures(now time.Time) []aqi.Location {
	now = now.UTC()
	return []aqi.Location{
		{
			ID:          "gachibowli",
			Name:        "Gachibowli (IT Hub)",
			AQI:         142,
			Pollutants:  aqi.Pollutants{PM25: 52, PM10: 98, NO2: 24, SO2: 8, CO: 1.2, O3: 45},
			Temperature: 32,
			Humidity:    45,
			LastUpdated: now,
			Map:         &aqi.MapPosition{X: 20, Y: 40},
		},
		{
			ID:          "banjara-hills",
			Name:        "Banjara Hills",
			AQI:         85,
			Pollutants:  aqi.Pollutants{PM25: 28, PM10: 65, NO2: 18, SO2: 5, CO: 0.8, O3: 38},
			Temperature: 31,
			Humidity:    48,
			LastUpdated: now,
			Map:         &aqi.MapPosition{X: 45, Y: 45},
		},
		{
			ID:          "charminar",
			Name:        "Charminar (Old City)",
			AQI:         188,
			Pollutants:  aqi.Pollutants{PM25: 78, PM10: 145, NO2: 42, SO2: 15, CO: 2.4, O3: 52},
			Temperature: 34,
			Humidity:    42,
			LastUpdated: now,
			Map:         &aqi.MapPosition{X: 50, Y: 75},
		},
		{
			ID:          "secunderabad",
			Name:        "Secunderabad Junction",
			AQI:         165,
			Pollutants:  aqi.Pollutants{PM25: 65, PM10: 120, NO2: 35, SO2: 12, CO: 1.9, O3: 48},
			Temperature: 33,
			Humidity:    44,
			LastUpdated: now,
			Map:         &aqi.MapPosition{X: 70, Y: 30},
		},
		{
			ID:          "kukatpally",
			Name:        "Kukatpally Housing Board",
			AQI:         156,
			Pollutants:  aqi.Pollutants{PM25: 58, PM10: 110, NO2: 30, SO2: 10, CO: 1.5, O3: 42},
			Temperature: 32,
			Humidity:    46,
			LastUpdated: now,
			Map:         &aqi.MapPosition{X: 30, Y: 20},
		},
	}
}
