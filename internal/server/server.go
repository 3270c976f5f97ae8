// Package server serves the planner page over HTTP and applies the events
// posted back by the browser.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/cors"

	"planerly/internal/document"
	"planerly/internal/domain"
	"planerly/internal/errors"
	"planerly/internal/logging"
	"planerly/internal/metrics"
	"planerly/internal/validation"
	"planerly/internal/view"
)

const (
	// DefaultAddr is where the server listens when no address is set.
	DefaultAddr = "127.0.0.1:8080"

	maxEventBodySize = 64 << 10
	shutdownTimeout  = 5 * time.Second
)

// Options configures the server.
type Options struct {
	Addr            string
	AllowedOrigins  []string
	Title           string
	RefreshInterval time.Duration
	Logger          *log.Logger
	Metrics         *metrics.Metrics
}

// EventRequest is the body of POST /events.
type EventRequest struct {
	Action    string            `json:"action"`
	ProjectID string            `json:"projectId,omitempty"`
	TaskID    string            `json:"taskId,omitempty"`
	ItemID    string            `json:"itemId,omitempty"`
	Form      map[string]string `json:"form,omitempty"`
}

// Server owns one mounted project list view. A single mutex serializes
// event dispatch, rendering and the refresh timers.
type Server struct {
	mu      sync.Mutex
	state   view.State
	env     view.Env
	list    *view.ProjectListView
	mapper  *domain.Mapper
	opts    Options
	logger  *log.Logger
	metrics *metrics.Metrics
}

// New mounts the view over state.
func New(state view.State, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Title == "" {
		opts.Title = "Planerly"
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		state:   state,
		mapper:  domain.NewMapper(),
		opts:    opts,
		logger:  logger,
		metrics: opts.Metrics,
	}
	s.env = view.Env{
		State:           state,
		Dispatcher:      view.NewDispatcher(logger, opts.Metrics),
		Scheduler:       view.NewTickerScheduler(&s.mu),
		RefreshInterval: opts.RefreshInterval,
	}

	s.mu.Lock()
	s.list = view.NewProjectListView(s.env)
	s.list.Node()
	s.list.Mount()
	s.mu.Unlock()
	return s
}

// Handler returns the routes wrapped in the CORS policy.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /events", s.handleEvent)
	mux.HandleFunc("GET /api/document", s.handleDocument)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving planner", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	s.logger.Info("server stopped")
	return err
}

// Close unmounts the view and stops the refresh timers.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Destroy()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	s.mu.Lock()
	err := view.RenderPage(&buf, s.opts.Title, s.list.Node())
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("render page", "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleEvent dispatches one event and answers with the re-rendered
// subtree. Validation failures answer 422 with the subtree showing them.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxEventBodySize)
	ev, err := decodeEvent(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ev.Action == "" {
		s.writeError(w, http.StatusBadRequest, "action is required")
		return
	}

	var buf bytes.Buffer
	s.mu.Lock()
	node, err := s.env.Dispatcher.Dispatch(r.Context(), ev)
	var renderErr error
	if node != nil {
		renderErr = view.RenderHTML(&buf, node)
	}
	s.mu.Unlock()

	status := http.StatusOK
	switch {
	case err == nil:
	case validation.IsValidationError(err):
		status = http.StatusUnprocessableEntity
	case errors.IsNotFound(err):
		s.writeError(w, http.StatusNotFound, errors.GetUserMessage(err))
		return
	default:
		s.logger.Error("event failed", "action", ev.Action, "err", err)
		s.writeError(w, http.StatusInternalServerError, errors.GetUserMessage(err))
		return
	}
	if renderErr != nil {
		s.logger.Error("render subtree", "action", ev.Action, "err", renderErr)
		s.writeError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	if node == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// decodeEvent reads a JSON EventRequest, or a form post whose action,
// projectId, taskId and itemId fields carry the ids and whose remaining
// fields are the form values.
func decodeEvent(r *http.Request) (view.Event, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req EventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return view.Event{}, stderrors.New("invalid request body")
		}
		return view.Event{
			Action:    req.Action,
			ProjectID: req.ProjectID,
			TaskID:    req.TaskID,
			ItemID:    req.ItemID,
			Form:      req.Form,
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return view.Event{}, stderrors.New("invalid form body")
	}
	ev := view.Event{Form: map[string]string{}}
	for name, values := range r.PostForm {
		if len(values) == 0 {
			continue
		}
		switch name {
		case "action":
			ev.Action = values[0]
		case "projectId":
			ev.ProjectID = values[0]
		case "taskId":
			ev.TaskID = values[0]
		case "itemId":
			ev.ItemID = values[0]
		default:
			ev.Form[name] = values[0]
		}
	}
	return ev, nil
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	doc := s.mapper.ToDocument(s.state.Projects())
	s.mu.Unlock()

	data, err := document.Encode(doc)
	if err != nil {
		s.logger.Error("encode document", "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to encode document")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
