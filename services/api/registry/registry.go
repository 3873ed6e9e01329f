// Package registry holds the fixed set of monitored Hyderabad locations.
package registry

import (
	"strings"
	"time"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
)

// Registry is an immutable, ordered collection of locations with unique ids.
type Registry struct {
	locations []aqi.Location
	byID      map[string]int
}

// New builds a registry from the given records. Later duplicates of an id are
// dropped so ids stay unique.
func New(locations []aqi.Location) *Registry {
	r := &Registry{
		locations: make([]aqi.Location, 0, len(locations)),
		byID:      make(map[string]int, len(locations)),
	}
	for _, loc := range locations {
		if loc.ID == "" {
			continue
		}
		if _, dup := r.byID[loc.ID]; dup {
			continue
		}
		r.byID[loc.ID] = len(r.locations)
		r.locations = append(r.locations, copyLocation(loc))
	}
	return r
}

// Default returns the built-in fixture registry stamped with now.
func Default(now time.Time) *Registry {
	return New(Fixtures(now))
}

// Len returns the number of registered locations.
func (r *Registry) Len() int {
	return len(r.locations)
}

// All returns copies of every location in registry order.
func (r *Registry) All() []aqi.Location {
	out := make([]aqi.Location, 0, len(r.locations))
	for _, loc := range r.locations {
		out = append(out, copyLocation(loc))
	}
	return out
}

// First returns the first location, used as the initial selection.
func (r *Registry) First() (aqi.Location, bool) {
	if len(r.locations) == 0 {
		return aqi.Location{}, false
	}
	return copyLocation(r.locations[0]), true
}

// Get looks up a location by id.
func (r *Registry) Get(id string) (aqi.Location, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return aqi.Location{}, false
	}
	return copyLocation(r.locations[idx]), true
}

// Contains reports whether id belongs to a registry location.
func (r *Registry) Contains(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Match returns the first location whose display name contains term,
// ignoring case. A blank term never matches.
func (r *Registry) Match(term string) (aqi.Location, bool) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return aqi.Location{}, false
	}
	for _, loc := range r.locations {
		if strings.Contains(strings.ToLower(loc.Name), needle) {
			return copyLocation(loc), true
		}
	}
	return aqi.Location{}, false
}

func copyLocation(loc aqi.Location) aqi.Location {
	if loc.Map != nil {
		pos := *loc.Map
		loc.Map = &pos
	}
	return loc
}
