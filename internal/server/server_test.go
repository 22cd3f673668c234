package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cardgraph/pkg/engine"
	"github.com/matzehuels/cardgraph/pkg/graph"
	"github.com/matzehuels/cardgraph/pkg/observability"
	"github.com/matzehuels/cardgraph/pkg/viewport"
)

const sampleJSON = `{
  "nodes": [{"id": "A"}, {"id": "B"}, {"id": "C"}, {"id": "D"}],
  "edges": [{"from": "A", "to": "B"}, {"from": "A", "to": "C"}, {"from": "B", "to": "D"}]
}`

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	g, err := graph.Unmarshal([]byte(sampleJSON), "json")
	require.NoError(t, err)

	eng := engine.New()
	require.NoError(t, eng.Load(g))

	s := New(Config{Engine: eng})
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func ids(s graph.Scene) []string {
	out := make([]string, len(s.Cards))
	for i, c := range s.Cards {
		out[i] = c.ID
	}
	return out
}

func TestScene(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/scene", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	scene := decodeBody[graph.Scene](t, rec)
	assert.Equal(t, []string{"A"}, ids(scene))
	assert.Empty(t, scene.Paths)
}

func TestToggle(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/nodes/A/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeBody[nodeState](t, rec)
	assert.True(t, st.Expanded)
	assert.Equal(t, []string{"B", "C"}, st.Children)

	scene := decodeBody[graph.Scene](t, do(t, h, http.MethodGet, "/scene", ""))
	assert.Equal(t, []string{"A", "B", "C"}, ids(scene))
	assert.Len(t, scene.Paths, 2)

	st = decodeBody[nodeState](t, do(t, h, http.MethodPost, "/nodes/A/toggle", ""))
	assert.False(t, st.Expanded)
}

func TestNodeErrors(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/nodes/Z/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", string(decodeBody[errorResponse](t, rec).Code))

	rec = do(t, h, http.MethodGet, "/nodes/%07bad", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNodeState(t *testing.T) {
	_, h := newTestServer(t)

	st := decodeBody[nodeState](t, do(t, h, http.MethodGet, "/nodes/D", ""))
	assert.Equal(t, 2, st.Level)
	assert.False(t, st.Visible)
	assert.Nil(t, st.Card)
	assert.Equal(t, []string{"B"}, st.Parents)

	st = decodeBody[nodeState](t, do(t, h, http.MethodGet, "/nodes/A", ""))
	assert.True(t, st.Visible)
	require.NotNil(t, st.Card)
	assert.Equal(t, "A", st.Card.Label)
}

func TestExpandCollapseAll(t *testing.T) {
	_, h := newTestServer(t)

	scene := decodeBody[graph.Scene](t, do(t, h, http.MethodPost, "/expand-all", ""))
	assert.Equal(t, []string{"A", "B", "C", "D"}, ids(scene))

	scene = decodeBody[graph.Scene](t, do(t, h, http.MethodPost, "/collapse-all", ""))
	assert.Equal(t, []string{"A"}, ids(scene))
}

func TestViewport(t *testing.T) {
	_, h := newTestServer(t)

	vp := decodeBody[viewport.Viewport](t, do(t, h, http.MethodPost, "/viewport/pan", `{"dx": 10, "dy": -5}`))
	assert.Equal(t, viewport.Viewport{Scale: 1, TranslateX: 10, TranslateY: -5}, vp)

	vp = decodeBody[viewport.Viewport](t, do(t, h, http.MethodPost, "/viewport/zoom", `{"x": 0, "y": 0, "factor": 2}`))
	assert.InDelta(t, 2.0, vp.Scale, 1e-9)
	assert.InDelta(t, 20.0, vp.TranslateX, 1e-9)

	vp = decodeBody[viewport.Viewport](t, do(t, h, http.MethodPost, "/viewport/reset", ""))
	assert.Equal(t, viewport.Viewport{Scale: 1}, vp)

	rec := do(t, h, http.MethodPost, "/viewport/zoom", `{"factor": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/viewport/pan", `{"dx": "far"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/viewport/screen", `{"width": 0, "height": 10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInputClickTogglesCard(t *testing.T) {
	_, h := newTestServer(t)

	resp := decodeBody[inputResponse](t, do(t, h, http.MethodPost, "/input", `{"type": "click", "x": 100, "y": 60}`))
	assert.True(t, resp.Changed)
	assert.Equal(t, []string{"A", "B", "C"}, ids(resp.Scene))

	resp = decodeBody[inputResponse](t, do(t, h, http.MethodPost, "/input", `{"type": "click", "x": 5, "y": 5}`))
	assert.False(t, resp.Changed)

	resp = decodeBody[inputResponse](t, do(t, h, http.MethodPost, "/input", `{"type": "key", "key": "e"}`))
	assert.True(t, resp.Changed)
	assert.Len(t, resp.Scene.Cards, 4)

	rec := do(t, h, http.MethodPost, "/input", `{"type": "teleport"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadGraph(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPut, "/graph?format=yaml", "nodes:\n  - id: X\n  - id: Y\nedges:\n  - {from: X, to: Y}\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"X"}, ids(decodeBody[graph.Scene](t, rec)))

	rec = do(t, h, http.MethodPut, "/graph", `{"nodes": [{"id": "X"}], "edges": [{"from": "X", "to": "nope"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_GRAPH", string(decodeBody[errorResponse](t, rec).Code))

	// failed load keeps the previous graph
	assert.Equal(t, []string{"X"}, ids(decodeBody[graph.Scene](t, do(t, h, http.MethodGet, "/scene", ""))))

	rec = do(t, h, http.MethodPut, "/graph?format=xml", "<graph/>")
	assert.Equal(t, "INVALID_FORMAT", string(decodeBody[errorResponse](t, rec).Code))
}

func TestRenderedScenes(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/expand-all", "")

	rec := do(t, h, http.MethodGet, "/scene.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = do(t, h, http.MethodGet, "/scene.dot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "digraph")
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	s := New(Config{Engine: engine.New(), GraphFile: path})
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/reload", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"A"}, ids(decodeBody[graph.Scene](t, rec)))

	require.NoError(t, os.Remove(path))
	rec = do(t, h, http.MethodPost, "/reload", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWatchFileReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	s := New(Config{Engine: engine.New(), GraphFile: path, Watch: true})
	require.NoError(t, s.Reload())
	h := s.Handler()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.watchFile(ctx) }()

	replaced := []byte(`{"nodes": [{"id": "Z"}], "edges": []}`)
	assert.Eventually(t, func() bool {
		rec := do(t, h, http.MethodGet, "/scene", "")
		if rec.Code == http.StatusOK && slices.Equal(ids(decodeBody[graph.Scene](t, rec)), []string{"Z"}) {
			return true
		}
		_ = os.WriteFile(path, replaced, 0o644)
		return false
	}, 5*time.Second, 250*time.Millisecond)
}

func TestReloadWithoutFile(t *testing.T) {
	s := New(Config{Engine: engine.New()})
	assert.Error(t, s.Reload())
}

func TestEventsStream(t *testing.T) {
	s, h := newTestServer(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return s.notifier.count() == 1 }, time.Second, 10*time.Millisecond)

	put, err := http.NewRequest(http.MethodPut, ts.URL+"/graph", strings.NewReader(sampleJSON))
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(put)
	require.NoError(t, err)
	putResp.Body.Close()

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: reload\n", line)
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	statuses []int
}

func (r *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	r.statuses = append(r.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	_, h := newTestServer(t)
	do(t, h, http.MethodGet, "/healthz", "")
	do(t, h, http.MethodPost, "/nodes/Z/toggle", "")

	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, hooks.statuses)
}

func TestNotifierBroadcastDoesNotBlock(t *testing.T) {
	n := newNotifier()
	ch := n.subscribe()
	n.broadcast()
	n.broadcast()

	assert.Len(t, ch, 1)
	n.unsubscribe(ch)
	assert.Zero(t, n.count())
}
