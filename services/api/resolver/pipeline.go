// Package resolver turns a free-text Hyderabad area name into a dashboard
// location record using a grounded web search followed by a schema-constrained
// extraction of the numbers from the search answer.
package resolver

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
)

// GroundedSearcher answers a prompt using live web search and reports the
// sources it drew upon.
type GroundedSearcher interface {
	GroundedSearch(ctx context.Context, prompt string) (string, []aqi.Citation, error)
}

// StructuredExtractor answers a prompt with a JSON object whose properties
// are the given numeric fields.
type StructuredExtractor interface {
	ExtractJSON(ctx context.Context, prompt string, fields []string) ([]byte, error)
}

// IDSource hands out record ids that never repeat within the process.
type IDSource interface {
	NewID() string
}

// Grounding is the stage-1 output.
type Grounding struct {
	Text      string
	Citations []aqi.Citation
}

// Resolution is a successfully resolved area.
type Resolution struct {
	Location  aqi.Location   `json:"location"`
	Citations []aqi.Citation `json:"citations"`
}

// Config tunes a Pipeline. Zero values pick sensible defaults.
type Config struct {
	// StageTimeout bounds each outbound call; expiry counts as a transport failure.
	StageTimeout time.Duration
	IDs          IDSource
	Now          func() time.Time
	Logger       *slog.Logger
}

// Pipeline is the two-stage grounded area resolver.
type Pipeline struct {
	searcher  GroundedSearcher
	extractor StructuredExtractor
	timeout   time.Duration
	ids       IDSource
	now       func() time.Time
	logger    *slog.Logger
}

// New wires a pipeline from its two capabilities.
func New(searcher GroundedSearcher, extractor StructuredExtractor, cfg Config) *Pipeline {
	p := &Pipeline{
		searcher:  searcher,
		extractor: extractor,
		timeout:   cfg.StageTimeout,
		ids:       cfg.IDs,
		now:       cfg.Now,
		logger:    cfg.Logger,
	}
	if p.timeout <= 0 {
		p.timeout = 30 * time.Second
	}
	if p.ids == nil {
		p.ids = NewULIDSource()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p
}

// Resolve runs both stages for area. On any failure it returns a
// *ResolutionError and no record.
func (p *Pipeline) Resolve(ctx context.Context, area string) (Resolution, error) {
	area = strings.TrimSpace(area)
	if area == "" {
		return Resolution{}, &ResolutionError{Area: area, Stage: StageInput, Kind: ErrInput}
	}
	start := p.now()

	grounding, err := p.Search(ctx, area)
	if err != nil {
		p.logger.Warn("area resolution failed", "area", area, "stage", StageSearch, "error", err)
		return Resolution{}, err
	}

	ext, err := p.Extract(ctx, area, grounding.Text)
	if err != nil {
		p.logger.Warn("area resolution failed", "area", area, "stage", StageExtract, "error", err)
		return Resolution{}, err
	}

	loc := Synthesize(area, ext, p.ids.NewID(), p.now())
	p.logger.Info("area resolved",
		"area", area,
		"id", loc.ID,
		"aqi", loc.AQI,
		"citations", len(grounding.Citations),
		"elapsed", p.now().Sub(start),
	)
	return Resolution{Location: loc, Citations: grounding.Citations}, nil
}

// Search is stage 1: the grounded web search for area.
func (p *Pipeline) Search(ctx context.Context, area string) (Grounding, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	text, citations, err := p.searcher.GroundedSearch(ctx, searchPrompt(area))
	if err != nil {
		return Grounding{}, transportError(area, StageSearch, err)
	}
	if citations == nil {
		citations = []aqi.Citation{}
	}
	return Grounding{Text: text, Citations: citations}, nil
}

// Extract is stage 2: coerce the stage-1 answer into the numeric schema.
func (p *Pipeline) Extract(ctx context.Context, area, searchText string) (Extraction, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.extractor.ExtractJSON(ctx, extractPrompt(area, searchText), SchemaFields)
	if err != nil {
		return Extraction{}, transportError(area, StageExtract, err)
	}
	ext, err := ParseExtraction(raw)
	if err != nil {
		return Extraction{}, schemaError(area, err)
	}
	return ext, nil
}

const idPrefix = "search-"

type ulidSource struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewULIDSource returns ids of the form "search-<ULID>". ULIDs from one source
// are strictly increasing, even within the same millisecond.
func NewULIDSource() IDSource {
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &ulidSource{entropy: ulid.Monotonic(seed, 0)}
}

func (s *ulidSource) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return idPrefix + ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}
