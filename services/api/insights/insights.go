// Package insights asks the model for health guidance on a location's readings.
package insights

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
)

// Fallback is returned whenever guidance cannot be produced.
const Fallback = "Could not fetch AI insights at this time."

// DefaultTemperature is the sampling temperature used for guidance.
const DefaultTemperature float32 = 0.7

// TextGenerator answers a single prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}

// Requester produces health guidance for a location. It never fails.
type Requester struct {
	gen         TextGenerator
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

// NewRequester returns a Requester. A non-positive timeout defaults to 30s.
func NewRequester(gen TextGenerator, temperature float32, timeout time.Duration, logger *slog.Logger) *Requester {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Requester{gen: gen, temperature: temperature, timeout: timeout, logger: logger}
}

// Insights returns the model's guidance for loc verbatim, or Fallback.
func (r *Requester) Insights(ctx context.Context, loc aqi.Location) string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.gen.Generate(ctx, Prompt(loc), r.temperature)
	if err != nil {
		r.logger.Error("insights request failed", "location", loc.ID, "error", err)
		return Fallback
	}
	if strings.TrimSpace(text) == "" {
		r.logger.Warn("insights response was empty", "location", loc.ID)
		return Fallback
	}
	return text
}

// Prompt builds the guidance request for loc.
func Prompt(loc aqi.Location) string {
	return fmt.Sprintf(`Analyze the following air quality data for %s in Hyderabad:
AQI: %d
PM2.5: %s
PM10: %s
NO2: %s

Provide a concise health recommendation for:
1. General public
2. Sensitive groups (children, elderly)
3. Outdoor activities
Keep it professional and action-oriented.`,
		loc.Name,
		loc.AQI,
		formatReading(loc.Pollutants.PM25),
		formatReading(loc.Pollutants.PM10),
		formatReading(loc.Pollutants.NO2),
	)
}

func formatReading(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
