// Package session holds per-user dashboard state: the selected location, its
// provenance, trend series, health insights and chat conversation.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
	"github.com/hyderaqi/hyderaqi/services/api/assistant"
	"github.com/hyderaqi/hyderaqi/services/api/history"
	"github.com/hyderaqi/hyderaqi/services/api/registry"
	"github.com/hyderaqi/hyderaqi/services/api/resolver"
)

var (
	ErrEmptySearch     = errors.New("search term is empty")
	ErrUnknownLocation = errors.New("unknown location")
	// ErrAreaNotFound wraps the resolver failure for an area search.
	ErrAreaNotFound = errors.New("could not find air quality data for that area")
	// ErrSuperseded means a newer selection or search won; the result was dropped.
	ErrSuperseded = errors.New("superseded by a newer selection")
)

// InsightsPlaceholder is shown while guidance for a new selection is pending.
const InsightsPlaceholder = "AI is analyzing real-time patterns..."

// Resolver resolves free-text areas outside the registry.
type Resolver interface {
	Resolve(ctx context.Context, area string) (resolver.Resolution, error)
}

// InsightSource produces health guidance; it never fails.
type InsightSource interface {
	Insights(ctx context.Context, loc aqi.Location) string
}

// Deps are the collaborators shared by every dashboard.
type Deps struct {
	Registry  *registry.Registry
	History   *history.Generator
	Resolver  Resolver
	Insights  InsightSource
	Assistant *assistant.Assistant
	Logger    *slog.Logger
}

// Snapshot is a consistent view of a dashboard.
type Snapshot struct {
	ID              string                `json:"id"`
	Selected        aqi.Location          `json:"selected"`
	Category        aqi.CategoryInfo      `json:"category"`
	Grounded        bool                  `json:"grounded"`
	Citations       []aqi.Citation        `json:"citations"`
	History         []aqi.HistoricalPoint `json:"history"`
	Insights        string                `json:"insights"`
	InsightsPending bool                  `json:"insights_pending"`
	Searching       bool                  `json:"searching"`
	ChatTurns       int                   `json:"chat_turns"`
}

// Dashboard is one user's dashboard state.
//
// Every Select or Search takes a new intent token; a search result is applied
// only while its token is still the latest. Applying a selection bumps the
// generation, and insights are kept only for the generation they were asked
// for. A search that fails changes neither the selection nor the generation.
type Dashboard struct {
	id     string
	deps   Deps
	chat   *assistant.Session
	logger *slog.Logger

	mu              sync.Mutex
	intent          uint64
	generation      uint64
	selected        aqi.Location
	citations       []aqi.Citation
	series          []aqi.HistoricalPoint
	insights        string
	insightsPending bool
	searching       int
}

func newDashboard(id string, deps Deps) *Dashboard {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d := &Dashboard{
		id:              id,
		deps:            deps,
		chat:            deps.Assistant.NewSession(),
		logger:          logger.With("session", id),
		citations:       []aqi.Citation{},
		insights:        InsightsPlaceholder,
		insightsPending: true,
	}
	if first, ok := deps.Registry.First(); ok {
		d.selected = first
		d.series = deps.History.For(first)
	}
	return d
}

// ID returns the session id.
func (d *Dashboard) ID() string {
	return d.id
}

// Snapshot returns the current state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dashboard) snapshotLocked() Snapshot {
	citations := make([]aqi.Citation, len(d.citations))
	copy(citations, d.citations)
	series := make([]aqi.HistoricalPoint, len(d.series))
	copy(series, d.series)
	return Snapshot{
		ID:              d.id,
		Selected:        d.selected,
		Category:        aqi.Describe(d.selected.AQI),
		Grounded:        len(d.citations) > 0,
		Citations:       citations,
		History:         series,
		Insights:        d.insights,
		InsightsPending: d.insightsPending,
		Searching:       d.searching > 0,
		ChatTurns:       d.chat.Turns(),
	}
}

// Select makes a registry location current and fetches its insights.
func (d *Dashboard) Select(ctx context.Context, id string) (Snapshot, error) {
	loc, ok := d.deps.Registry.Get(id)
	if !ok {
		return d.Snapshot(), fmt.Errorf("%w: %s", ErrUnknownLocation, id)
	}
	d.mu.Lock()
	d.intent++
	gen := d.applyLocked(loc, nil)
	d.mu.Unlock()

	d.fetchInsights(ctx, gen, loc)
	return d.Snapshot(), nil
}

// Search selects the first registry location whose name contains term, or
// resolves term as a live area when nothing matches.
func (d *Dashboard) Search(ctx context.Context, term string) (Snapshot, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return d.Snapshot(), ErrEmptySearch
	}
	if loc, ok := d.deps.Registry.Match(term); ok {
		return d.Select(ctx, loc.ID)
	}

	d.mu.Lock()
	d.intent++
	token := d.intent
	d.searching++
	d.mu.Unlock()

	res, err := d.deps.Resolver.Resolve(ctx, term)

	d.mu.Lock()
	d.searching--
	if err != nil {
		d.mu.Unlock()
		return d.Snapshot(), fmt.Errorf("%w: %w", ErrAreaNotFound, err)
	}
	if d.intent != token {
		d.mu.Unlock()
		d.logger.Info("dropping stale search result", "area", term, "id", res.Location.ID)
		return d.Snapshot(), ErrSuperseded
	}
	gen := d.applyLocked(res.Location, res.Citations)
	d.mu.Unlock()

	d.fetchInsights(ctx, gen, res.Location)
	return d.Snapshot(), nil
}

// RefreshInsights refetches guidance for the current selection.
func (d *Dashboard) RefreshInsights(ctx context.Context) Snapshot {
	d.mu.Lock()
	gen := d.generation
	loc := d.selected
	d.insights = InsightsPlaceholder
	d.insightsPending = true
	d.mu.Unlock()

	d.fetchInsights(ctx, gen, loc)
	return d.Snapshot()
}

// Chat forwards one message to this dashboard's assistant session.
func (d *Dashboard) Chat(ctx context.Context, message string) string {
	return d.chat.Send(ctx, message)
}

// ResetChat starts the conversation over.
func (d *Dashboard) ResetChat() {
	d.chat.Reset()
}

func (d *Dashboard) applyLocked(loc aqi.Location, citations []aqi.Citation) uint64 {
	if citations == nil {
		citations = []aqi.Citation{}
	}
	d.selected = loc
	d.citations = citations
	d.series = d.deps.History.For(loc)
	d.insights = InsightsPlaceholder
	d.insightsPending = true
	d.generation++
	return d.generation
}

func (d *Dashboard) fetchInsights(ctx context.Context, gen uint64, loc aqi.Location) {
	text := d.deps.Insights.Insights(ctx, loc)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation != gen {
		d.logger.Debug("dropping stale insights", "location", loc.ID)
		return
	}
	d.insights = text
	d.insightsPending = false
}
