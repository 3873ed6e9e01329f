// Package history generates the synthetic 24-hour AQI trend for a location.
package history

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
)

const (
	// Points is the series length: the current hour plus the 24 before it.
	Points = 25
	// Spread is the half-width of the jitter band around the baseline.
	Spread = 20
	// DefaultBaseline is used for locations the registry does not know.
	DefaultBaseline = 100

	labelLayout = "15:04"
)

// Generate returns Points hourly samples ending at now, oldest first. Each
// value lies in [baseline-Spread, baseline+Spread) and is clamped at zero.
func Generate(baseline int, now time.Time, rnd *rand.Rand) []aqi.HistoricalPoint {
	points := make([]aqi.HistoricalPoint, 0, Points)
	for i := Points - 1; i >= 0; i-- {
		at := now.Add(-time.Duration(i) * time.Hour)
		value := int(math.Floor(float64(baseline) + rnd.Float64()*2*Spread - Spread))
		if value < 0 {
			value = 0
		}
		points = append(points, aqi.HistoricalPoint{
			Time: at.Format(labelLayout),
			At:   at,
			AQI:  value,
		})
	}
	return points
}

// Generator produces fresh series from a shared random source. It is safe for
// concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator returns a generator seeded from the clock.
func NewGenerator() *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// NewSeeded returns a deterministic generator for tests and tooling.
func NewSeeded(seed int64, now func() time.Time) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed)), now: now}
}

// For returns a new series around the location's AQI.
func (g *Generator) For(loc aqi.Location) []aqi.HistoricalPoint {
	return g.Around(loc.AQI)
}

// Around returns a new series around baseline.
func (g *Generator) Around(baseline int) []aqi.HistoricalPoint {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Generate(baseline, g.now(), g.rnd)
}

// Lookup resolves a location's baseline by id, falling back to DefaultBaseline.
type Lookup interface {
	Get(id string) (aqi.Location, bool)
}

// ForID returns a series for a registry id.
func (g *Generator) ForID(reg Lookup, id string) []aqi.HistoricalPoint {
	baseline := DefaultBaseline
	if loc, ok := reg.Get(id); ok {
		baseline = loc.AQI
	}
	return g.Around(baseline)
}
