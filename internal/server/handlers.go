package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cardgraph/pkg/buildinfo"
	"github.com/matzehuels/cardgraph/pkg/engine"
	"github.com/matzehuels/cardgraph/pkg/errors"
	"github.com/matzehuels/cardgraph/pkg/graph"
	"github.com/matzehuels/cardgraph/pkg/observability"
	"github.com/matzehuels/cardgraph/pkg/render/dot"
	"github.com/matzehuels/cardgraph/pkg/render/svg"
)

// maxBodyBytes caps uploaded graphs and input payloads.
const maxBodyBytes = 8 << 20

func (s *Server) routes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	r.Get("/scene", s.handleScene)
	r.Get("/scene.svg", s.handleSceneSVG)
	r.Get("/scene.dot", s.handleSceneDOT)
	r.Get("/events", s.handleEvents)

	r.Put("/graph", s.handleLoadGraph)
	r.Post("/reload", s.handleReload)

	r.Route("/nodes/{id}", func(r chi.Router) {
		r.Get("/", s.handleNode)
		r.Post("/toggle", s.nodeAction(func(e *engine.Engine, id string) { e.Toggle(id) }))
		r.Post("/expand", s.nodeAction(func(e *engine.Engine, id string) { e.Expand(id) }))
		r.Post("/collapse", s.nodeAction(func(e *engine.Engine, id string) { e.Collapse(id) }))
	})
	r.Post("/expand-all", s.engineAction(func(e *engine.Engine) { e.ExpandAll() }))
	r.Post("/collapse-all", s.engineAction(func(e *engine.Engine) { e.CollapseAll() }))

	r.Route("/viewport", func(r chi.Router) {
		r.Get("/", s.handleViewport)
		r.Post("/pan", s.handlePan)
		r.Post("/zoom", s.handleZoom)
		r.Post("/reset", s.viewportAction(func(e *engine.Engine) { e.ResetView() }))
		r.Post("/fit", s.viewportAction(func(e *engine.Engine) { e.FitView() }))
		r.Put("/screen", s.handleScreen)
	})
	r.Post("/input", s.handleInput)
}

// =============================================================================
// Scene
// =============================================================================

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	scene := s.eng.Scene()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := graph.WriteScene(scene, w); err != nil {
		s.logger.Error("write scene", "error", err)
	}
}

func (s *Server) handleSceneSVG(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	scene := s.eng.Scene()
	width, height := s.eng.ScreenSize()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg.Render(scene, svg.WithSize(width, height), svg.WithInteraction()))
}

func (s *Server) handleSceneDOT(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	scene := s.eng.Scene()
	s.mu.Unlock()

	opts := dot.Options{
		Detailed:  r.URL.Query().Get("detailed") == "true",
		Positions: r.URL.Query().Get("positions") != "false",
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = fmt.Fprint(w, dot.ToDOT(scene, opts))
}

// handleEvents streams a "reload" event each time the graph is replaced.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInternal, "streaming unsupported"))
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.notifier.subscribe()
	defer s.notifier.unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			_, _ = fmt.Fprint(w, "event: reload\ndata: {}\n\n")
			flusher.Flush()
		}
	}
}

// =============================================================================
// Graph
// =============================================================================

// handleLoadGraph replaces the graph with the request body. The format is
// taken from ?format=, defaulting to json.
func (s *Server) handleLoadGraph(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	g, err := graph.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes), format)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	err = s.eng.Load(g)
	scene := s.eng.Scene()
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	s.notifier.broadcast()
	writeJSON(w, http.StatusOK, scene)
}

func (s *Server) handleReload(w http.ResponseWriter, _ *http.Request) {
	if err := s.Reload(); err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	scene := s.eng.Scene()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, scene)
}

// =============================================================================
// Nodes
// =============================================================================

type nodeState struct {
	ID       string      `json:"id"`
	Level    int         `json:"level"`
	Expanded bool        `json:"expanded"`
	Visible  bool        `json:"visible"`
	Children []string    `json:"children"`
	Parents  []string    `json:"parents"`
	Card     *graph.Card `json:"card,omitempty"`
}

// nodeID extracts and validates the {id} URL parameter.
func nodeID(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "id")
	id, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed node id")
	}
	if err := errors.ValidateNodeID(id); err != nil {
		return "", err
	}
	return id, nil
}

// stateOf must be called with s.mu held.
func (s *Server) stateOf(id string) (nodeState, error) {
	level, ok := s.eng.Level(id)
	if !ok {
		return nodeState{}, errors.NodeNotFound(id)
	}
	g := s.eng.Graph()
	st := nodeState{
		ID:       id,
		Level:    level,
		Expanded: s.eng.IsExpanded(id),
		Children: append([]string{}, g.Children(id)...),
		Parents:  append([]string{}, g.Parents(id)...),
	}
	if c, ok := s.eng.Scene().Card(id); ok {
		st.Visible = true
		st.Card = &c
	}
	return st, nil
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mu.Lock()
	st, err := s.stateOf(id)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// nodeAction applies fn to an existing node and responds with its new state.
func (s *Server) nodeAction(fn func(*engine.Engine, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := nodeID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.eng.Level(id); !ok {
			writeError(w, errors.NodeNotFound(id))
			return
		}
		fn(s.eng, id)
		st, _ := s.stateOf(id)
		writeJSON(w, http.StatusOK, st)
	}
}

// engineAction applies fn and responds with the new scene.
func (s *Server) engineAction(fn func(*engine.Engine)) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		fn(s.eng)
		scene := s.eng.Scene()
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, scene)
	}
}

// =============================================================================
// Viewport
// =============================================================================

func (s *Server) viewportAction(fn func(*engine.Engine)) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		fn(s.eng)
		vp := s.eng.Viewport()
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, vp)
	}
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	s.viewportAction(func(*engine.Engine) {})(w, r)
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (s *Server) handlePan(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if !decode(w, r, &req) {
		return
	}
	s.viewportAction(func(e *engine.Engine) { e.PanBy(req.DX, req.DY) })(w, r)
}

type zoomRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Factor float64 `json:"factor"`
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Factor <= 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "zoom factor must be positive"))
		return
	}
	s.viewportAction(func(e *engine.Engine) { e.ZoomAtPoint(req.X, req.Y, req.Factor) })(w, r)
}

type screenRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	var req screenRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "screen size must be positive"))
		return
	}
	s.viewportAction(func(e *engine.Engine) { e.SetScreenSize(req.Width, req.Height) })(w, r)
}

// =============================================================================
// Raw input
// =============================================================================

// inputRequest is a host UI event in screen coordinates.
type inputRequest struct {
	Type   string  `json:"type"` // pan, zoom, drag_start, drag_move, drag_end, click, key
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Factor float64 `json:"factor"`
	DeltaY float64 `json:"delta_y"`
	Key    string  `json:"key"`
}

func (req inputRequest) event() (engine.Event, error) {
	switch req.Type {
	case "pan":
		return engine.PanEvent{DX: req.DX, DY: req.DY}, nil
	case "zoom":
		return engine.ZoomEvent{X: req.X, Y: req.Y, Factor: req.Factor, DeltaY: req.DeltaY}, nil
	case "drag_start":
		return engine.DragEvent{Phase: engine.DragStart, X: req.X, Y: req.Y}, nil
	case "drag_move":
		return engine.DragEvent{Phase: engine.DragMove, X: req.X, Y: req.Y}, nil
	case "drag_end":
		return engine.DragEvent{Phase: engine.DragEnd, X: req.X, Y: req.Y}, nil
	case "click":
		return engine.ClickEvent{X: req.X, Y: req.Y}, nil
	case "key":
		return engine.KeyEvent{Key: req.Key}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown input type %q", req.Type)
}

type inputResponse struct {
	Changed bool        `json:"changed"`
	Scene   graph.Scene `json:"scene"`
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if !decode(w, r, &req) {
		return
	}
	ev, err := req.event()
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	changed := s.eng.HandleEvent(ev)
	scene := s.eng.Scene()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, inputResponse{Changed: changed, Scene: scene})
}

// =============================================================================
// Helpers
// =============================================================================

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, code.HTTPStatus(), errorResponse{Code: code, Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

// hooks reports every request to the registered HTTP hooks.
func (s *Server) hooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h := observability.HTTP()
		h.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		h.OnResponse(r.Context(), r.Method, r.URL.Path, status, dur)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", dur)
	})
}
