package editor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mapscript/mapscript/pkg/cache"
	"github.com/mapscript/mapscript/pkg/docstore"
	"github.com/mapscript/mapscript/pkg/errors"
	"github.com/mapscript/mapscript/pkg/mapscript"
	"github.com/mapscript/mapscript/pkg/render"
)

// Server is the HTTP edit server: a JSON API over live sessions, with
// rendering and document persistence attached.
type Server struct {
	router   chi.Router
	store    *Store
	renderer *render.Renderer
	docs     docstore.Store
	logger   *log.Logger

	compileCache cache.Cache
	keyer        cache.Keyer
	compileTTL   time.Duration
}

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithLogger sets the server's logger. The default logger writes to stderr.
func WithLogger(l *log.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithDocStore attaches a document store, enabling the save/load endpoints.
func WithDocStore(d docstore.Store) ServerOption {
	return func(s *Server) { s.docs = d }
}

// WithCompileCache caches compile results keyed by the source hash, so the
// state returned after an undo or a repeated fetch skips recompilation.
// Keys are scoped under "editor:" to keep them apart from render artifacts
// when both share one backend.
func WithCompileCache(c cache.Cache, ttl time.Duration) ServerOption {
	return func(s *Server) {
		s.compileCache = c
		s.keyer = cache.NewScopedKeyer(nil, "editor:")
		s.compileTTL = ttl
	}
}

// NewServer creates a Server with all routes configured.
func NewServer(store *Store, renderer *render.Renderer, opts ...ServerOption) *Server {
	s := &Server{
		store:    store,
		renderer: renderer,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	// Session lifecycle
	r.Post("/sessions", s.handleCreateSession)
	r.Get("/sessions/{id}", s.handleGetSession)
	r.Delete("/sessions/{id}", s.handleDeleteSession)
	r.Post("/sessions/{id}/source", s.handleReplaceSource)

	// Structured patches
	r.Post("/sessions/{id}/nodes/{nodeID}", s.handlePatchNode)
	r.Post("/sessions/{id}/edges/{line}", s.handlePatchEdge)
	r.Post("/sessions/{id}/clusters/{clusterID}", s.handlePatchCluster)

	// History
	r.Post("/sessions/{id}/undo", s.handleUndo)
	r.Post("/sessions/{id}/redo", s.handleRedo)

	// Artifacts
	r.Get("/sessions/{id}/render", s.handleRender)

	// Persistence
	r.Get("/documents", s.handleListDocuments)
	r.Post("/sessions/{id}/save", s.handleSaveDocument)
	r.Post("/documents/{name}/open", s.handleOpenDocument)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ==================== Request/response shapes ====================

// sessionState is the compiled view of a session returned by most
// endpoints.
type sessionState struct {
	ID     string                `json:"id"`
	Source string                `json:"source"`
	DOT    string                `json:"dot"`
	Errors []mapscript.LineError `json:"errors"`
}

type createSessionRequest struct {
	Source string `json:"source"`
}

type sourceRequest struct {
	Source string `json:"source"`
}

// patchRequest carries the managed attribute changes for any target kind.
// A field that is absent from the JSON stays untouched; an empty string
// deletes the attribute.
type patchRequest struct {
	Colour     *string `json:"colour"`
	Border     *string `json:"border"`
	Shape      *string `json:"shape"`
	TextSize   *string `json:"text_size"`
	Label      *string `json:"label"`
	LabelStyle *string `json:"label_style"`
	LabelSize  *string `json:"label_size"`
	TextColour *string `json:"text_colour"`
}

type saveRequest struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ==================== Handlers ====================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	sess := s.store.Create(req.Source)
	s.logger.Info("session created", "id", sess.ID)
	s.writeJSON(w, http.StatusCreated, s.state(r.Context(), sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state(r.Context(), sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReplaceSource(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req sourceRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sess.Replace(req.Source)
	s.writeJSON(w, http.StatusOK, s.state(r.Context(), sess))
}

func (s *Server) handlePatchNode(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req patchRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	err = sess.PatchNode(chi.URLParam(r, "nodeID"), mapscript.NodePatch{
		Colour:   req.Colour,
		Border:   req.Border,
		Shape:    req.Shape,
		TextSize: req.TextSize,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state(r.Context(), sess))
}

func (s *Server) handlePatchEdge(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	line, err := strconv.Atoi(chi.URLParam(r, "line"))
	if err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidPatch, "edge target must be a line number"))
		return
	}
	var req patchRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	err = sess.PatchEdge(line, mapscript.EdgePatch{
		Label:      req.Label,
		Border:     req.Border,
		LabelStyle: req.LabelStyle,
		LabelSize:  req.LabelSize,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state(r.Context(), sess))
}

func (s *Server) handlePatchCluster(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req patchRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	err = sess.PatchCluster(chi.URLParam(r, "clusterID"), mapscript.ClusterPatch{
		Colour:     req.Colour,
		Border:     req.Border,
		TextColour: req.TextColour,
		TextSize:   req.TextSize,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state(r.Context(), sess))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := sess.Undo(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state(r.Context(), sess))
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := sess.Redo(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.state(r.Context(), sess))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := render.FormatSVG
	if q := r.URL.Query().Get("format"); q != "" {
		if format, err = render.ParseFormat(q); err != nil {
			s.writeError(w, err)
			return
		}
	}
	scale := 1.0
	if q := r.URL.Query().Get("scale"); q != "" {
		if scale, err = strconv.ParseFloat(q, 64); err != nil || scale <= 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", q))
			return
		}
	}

	res := s.compile(r.Context(), sess)
	data, err := s.renderer.Render(r.Context(), res.DOT, format, scale)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if s.docs == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "document storage is not configured"))
		return
	}
	docs, err := s.docs.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleSaveDocument(w http.ResponseWriter, r *http.Request) {
	if s.docs == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "document storage is not configured"))
		return
	}
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req saveRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	err = s.docs.Save(r.Context(), docstore.Document{
		Name:   req.Name,
		Source: sess.Source(),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("document saved", "name", req.Name, "session", sess.ID)
	s.writeJSON(w, http.StatusOK, map[string]string{"name": req.Name})
}

func (s *Server) handleOpenDocument(w http.ResponseWriter, r *http.Request) {
	if s.docs == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "document storage is not configured"))
		return
	}
	doc, err := s.docs.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess := s.store.Create(doc.Source)
	s.logger.Info("document opened", "name", doc.Name, "session", sess.ID)
	s.writeJSON(w, http.StatusCreated, s.state(r.Context(), sess))
}

// ==================== Helpers ====================

// compile returns the compile result for the session's current source,
// consulting the compile cache when one is configured. Cache failures fall
// back to a fresh compile.
func (s *Server) compile(ctx context.Context, sess *Session) mapscript.Result {
	if s.compileCache == nil {
		return sess.Compile()
	}

	source := sess.Source()
	key := s.keyer.CompileKey(cache.Hash([]byte(source)))
	if res, err := s.cachedResult(ctx, key); err == nil {
		return res
	}

	res := mapscript.Compile(source)
	if data, err := json.Marshal(res); err == nil {
		_ = s.compileCache.Set(ctx, key, data, s.compileTTL)
	}
	return res
}

// cachedResult looks up a compile result, reporting a miss or a corrupt
// entry as cache.ErrNotFound.
func (s *Server) cachedResult(ctx context.Context, key string) (mapscript.Result, error) {
	data, hit, err := s.compileCache.Get(ctx, key)
	if err != nil {
		return mapscript.Result{}, err
	}
	if !hit {
		return mapscript.Result{}, cache.ErrNotFound
	}
	var res mapscript.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return mapscript.Result{}, cache.ErrNotFound
	}
	return res, nil
}

func (s *Server) state(ctx context.Context, sess *Session) sessionState {
	res := s.compile(ctx, sess)
	errs := res.Errors
	if errs == nil {
		errs = []mapscript.LineError{}
	}
	return sessionState{
		ID:     sess.ID,
		Source: sess.Source(),
		DOT:    res.DOT,
		Errors: errs,
	}
}

func (s *Server) readJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "error", err)
	} else {
		s.logger.Debug("request rejected", "error", err)
	}

	var resp errorResponse
	resp.Error.Code = string(errors.GetCode(err))
	if resp.Error.Code == "" {
		resp.Error.Code = string(errors.ErrCodeInternal)
	}
	resp.Error.Message = errors.UserMessage(err)
	s.writeJSON(w, status, resp)
}

func contentType(f render.Format) string {
	switch f {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatPNG:
		return "image/png"
	case render.FormatPDF:
		return "application/pdf"
	default:
		return "text/vnd.graphviz"
	}
}
