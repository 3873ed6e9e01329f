package resolver

import "fmt"

// City scopes every prompt; the dashboard only covers Hyderabad.
const City = "Hyderabad"

func searchPrompt(area string) string {
	return fmt.Sprintf(`What is the current Air Quality Index (AQI), PM2.5, PM10, and temperature for %s, %s?
Please provide the specific numeric values for AQI, PM2.5, and PM10 if available today.`, area, City)
}

func extractPrompt(area, searchText string) string {
	return fmt.Sprintf(`From this search result: %q, extract the data for %s into JSON format:
{ "aqi": number, "pm25": number, "pm10": number, "temp": number }.
If a value is missing, estimate it realistically based on %s's current average pollution patterns.`,
		searchText, area, City)
}
