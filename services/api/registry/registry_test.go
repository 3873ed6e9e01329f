package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
)

func TestDefaultRegistry(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	reg := Default(now)

	require.Equal(t, 5, reg.Len())
	first, ok := reg.First()
	require.True(t, ok)
	assert.Equal(t, "gachibowli", first.ID)
	assert.Equal(t, 142, first.AQI)
	assert.Equal(t, now, first.LastUpdated)

	seen := map[string]bool{}
	for _, loc := range reg.All() {
		assert.False(t, seen[loc.ID], "duplicate id %s", loc.ID)
		seen[loc.ID] = true
		assert.NotNil(t, loc.Map)
	}
}

func TestMatch(t *testing.T) {
	reg := Default(time.Now())

	tests := []struct {
		term   string
		wantID string
		found  bool
	}{
		{"charminar", "charminar", true},
		{"  BANJARA ", "banjara-hills", true},
		{"old city", "charminar", true},
		{"Hub", "gachibowli", true},
		{"Uppal", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			loc, ok := reg.Match(tt.term)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, loc.ID)
		})
	}
}

func TestRegistryIsImmutable(t *testing.T) {
	reg := Default(time.Now())

	loc, ok := reg.Get("charminar")
	require.True(t, ok)
	loc.AQI = 1
	loc.Map.X = 99

	again, _ := reg.Get("charminar")
	assert.Equal(t, 188, again.AQI)
	assert.Equal(t, float64(50), again.Map.X)

	all := reg.All()
	all[0].Name = "changed"
	first, _ := reg.First()
	assert.Equal(t, "Gachibowli (IT Hub)", first.Name)
}

func TestNewDropsDuplicatesAndBlankIDs(t *testing.T) {
	reg := New([]aqi.Location{
		{ID: "a", Name: "A", AQI: 10},
		{ID: "", Name: "nameless"},
		{ID: "a", Name: "A again", AQI: 20},
		{ID: "b", Name: "B"},
	})

	assert.Equal(t, 2, reg.Len())
	a, ok := reg.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, a.AQI)
	assert.True(t, reg.Contains("b"))
	assert.False(t, reg.Contains(""))

	_, ok = New(nil).First()
	assert.False(t, ok)
}
