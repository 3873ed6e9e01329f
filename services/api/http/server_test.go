package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
	"github.com/hyderaqi/hyderaqi/services/api/assistant"
	"github.com/hyderaqi/hyderaqi/services/api/config"
	"github.com/hyderaqi/hyderaqi/services/api/history"
	"github.com/hyderaqi/hyderaqi/services/api/registry"
	"github.com/hyderaqi/hyderaqi/services/api/resolver"
	"github.com/hyderaqi/hyderaqi/services/api/session"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type stubResolver struct {
	gate chan struct{}
}

func (s *stubResolver) Resolve(ctx context.Context, area string) (resolver.Resolution, error) {
	if gate := s.gate; gate != nil {
		<-gate
	}
	if area != "Madhapur" {
		return resolver.Resolution{}, &resolver.ResolutionError{Area: area, Stage: resolver.StageExtract, Kind: resolver.ErrSchema}
	}
	return resolver.Resolution{
		Location: aqi.Location{
			ID:          "search-01TEST",
			Name:        "Madhapur" + resolver.LiveSuffix,
			AQI:         112,
			LastUpdated: testNow,
		},
		Citations: []aqi.Citation{{URI: "https://aqi.example/madhapur", Title: "AQI Madhapur"}},
	}, nil
}

type stubInsights struct{}

func (stubInsights) Insights(ctx context.Context, loc aqi.Location) string {
	return "stay indoors near " + loc.Name
}

type stubConversation struct{}

func (stubConversation) Send(ctx context.Context, message string) (string, error) {
	return "reply to " + message, nil
}

func newTestServer(t *testing.T, cfg config.Config, res *stubResolver) *Server {
	t.Helper()
	reg := registry.Default(testNow)
	hist := history.NewSeeded(7, func() time.Time { return testNow })
	starter := assistant.StarterFunc(func(ctx context.Context, sys string) (assistant.Conversation, error) {
		return stubConversation{}, nil
	})
	sessions := session.NewStore(session.Deps{
		Registry:  reg,
		History:   hist,
		Resolver:  res,
		Insights:  stubInsights{},
		Assistant: assistant.New(starter, time.Second, nil),
	}, time.Hour)

	if cfg.ModelTimeout == 0 {
		cfg.ModelTimeout = time.Second
	}
	return New(cfg, Deps{
		Registry: reg,
		History:  hist,
		Resolver: res,
		Insights: stubInsights{},
		Sessions: sessions,
	})
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &stubResolver{})
	w := do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCoreLocations(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &stubResolver{})

	w := do(t, srv, http.MethodGet, "/api/v1/core/locations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v1", w.Header().Get("X-API-Version"))

	env := decode(t, w)
	var views []locationView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 5)
	assert.Equal(t, "gachibowli", views[0].ID)
	assert.Equal(t, "Unhealthy for Sensitive Groups", views[0].Category.Label)
	assert.EqualValues(t, 5, env.Meta["count"])

	w = do(t, srv, http.MethodGet, "/api/v1/core/locations/charminar", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/api/v1/core/locations/atlantis", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCoreHistory(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &stubResolver{})

	w := do(t, srv, http.MethodGet, "/api/v1/core/locations/kukatpally/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var series []aqi.HistoricalPoint
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &series))
	assert.Len(t, series, history.Points)

	w = do(t, srv, http.MethodGet, "/api/v1/core/locations/atlantis/history", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCoreClassify(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &stubResolver{})

	w := do(t, srv, http.MethodGet, "/api/v1/core/classify?aqi=151", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info aqi.CategoryInfo
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &info))
	assert.Equal(t, "Unhealthy", info.Label)

	w = do(t, srv, http.MethodGet, "/api/v1/core/classify?aqi=high", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAISearch(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &stubResolver{})

	tests := []struct {
		name   string
		body   any
		status int
		source string
	}{
		{"blank", areaBody(""), http.StatusBadRequest, ""},
		{"registry", areaBody("charminar"), http.StatusOK, "registry"},
		{"live", areaBody("Madhapur"), http.StatusOK, "live-search"},
		{"not found", areaBody("Atlantis"), http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/v1/ai/search", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			env := decode(t, w)
			if tt.status != http.StatusOK {
				assert.NotEmpty(t, env.Error)
				return
			}
			assert.Equal(t, tt.source, env.Meta["source"])
		})
	}
}

func areaBody(area string) map[string]string {
	return map[string]string{"area": area}
}

func TestAIInsights(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &stubResolver{})

	w := do(t, srv, http.MethodGet, "/api/v1/ai/insights/banjara-hills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stay indoors near Banjara Hills")

	w = do(t, srv, http.MethodGet, "/api/v1/ai/insights/atlantis", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/ai/insights", aqi.Location{ID: "search-1", Name: "Madhapur (Live Search)", AQI: 90})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Madhapur (Live Search)")

	w = do(t, srv, http.MethodPost, "/api/v1/ai/insights", aqi.Location{ID: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func createSession(t *testing.T, srv *Server) session.Snapshot {
	t.Helper()
	w := do(t, srv, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &snap))
	return snap
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &stubResolver{})

	snap := createSession(t, srv)
	assert.Equal(t, "gachibowli", snap.Selected.ID)
	assert.False(t, snap.InsightsPending)
	base := "/api/v1/sessions/" + snap.ID

	w := do(t, srv, http.MethodPost, base+"/select", map[string]string{"location_id": "charminar"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodPost, base+"/select", map[string]string{"location_id": "atlantis"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodPost, base+"/select", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, base+"/search", areaBody("Madhapur"))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &snap))
	assert.Equal(t, "search-01TEST", snap.Selected.ID)
	assert.True(t, snap.Grounded)

	w = do(t, srv, http.MethodPost, base+"/search", areaBody("  "))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, base+"/search", areaBody("Atlantis"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodPost, base+"/insights/refresh", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodPost, base+"/chat", map[string]string{"message": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, base+"/chat", map[string]string{"message": "Is it safe to run?"})
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Contains(t, string(env.Data), "reply to Is it safe to run?")
	assert.EqualValues(t, 1, env.Meta["turns"])

	w = do(t, srv, http.MethodPost, base+"/chat/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, srv, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionSearchSupersededReturnsConflict(t *testing.T) {
	gate := make(chan struct{})
	res := &stubResolver{gate: gate}
	srv := newTestServer(t, config.Config{}, res)

	snap := createSession(t, srv)
	base := "/api/v1/sessions/" + snap.ID

	done := make(chan int, 1)
	go func() {
		done <- do(t, srv, http.MethodPost, base+"/search", areaBody("Madhapur")).Code
	}()

	require.Eventually(t, func() bool {
		var cur session.Snapshot
		w := do(t, srv, http.MethodGet, base, nil)
		if w.Code != http.StatusOK || json.Unmarshal(decode(t, w).Data, &cur) != nil {
			return false
		}
		return cur.Searching
	}, time.Second, 5*time.Millisecond)

	w := do(t, srv, http.MethodPost, base+"/select", map[string]string{"location_id": "secunderabad"})
	require.Equal(t, http.StatusOK, w.Code)

	close(gate)
	assert.Equal(t, http.StatusConflict, <-done)

	w = do(t, srv, http.MethodGet, base, nil)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &snap))
	assert.Equal(t, "secunderabad", snap.Selected.ID)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, config.Config{AIRateLimit: 1, AIRateBurst: 1}, &stubResolver{})

	w := do(t, srv, http.MethodGet, "/api/v1/ai/insights/charminar", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/api/v1/ai/insights/charminar", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Core routes are not limited.
	w = do(t, srv, http.MethodGet, "/api/v1/core/locations", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &stubResolver{})
	w := do(t, srv, http.MethodOptions, "/api/v1/ai/search", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
