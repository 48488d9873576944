// Package server exposes one planner session over HTTP, with an SSE stream
// of budget changes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/theirongolddev/iceplan/internal/budget"
	"github.com/theirongolddev/iceplan/internal/codec"
	"github.com/theirongolddev/iceplan/internal/logging"
	"github.com/theirongolddev/iceplan/internal/planner"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
}

// Budget is the JSON view of a model: inputs plus every derived figure.
type Budget struct {
	Inputs         budget.State `json:"inputs"`
	JerseyQuantity int          `json:"jersey_quantity"`
	IceTotal       float64      `json:"ice_total"`
	CoachTotal     float64      `json:"coach_total"`
	JerseyTotal    float64      `json:"jersey_total"`
	Subtotal       float64      `json:"subtotal"`
	Fees           float64      `json:"fees"`
	Total          float64      `json:"total"`
	PerPlayer      float64      `json:"per_player"`
}

// BudgetResponse is served at /v1/budget.
type BudgetResponse struct {
	Budget    Budget `json:"budget"`
	Source    string `json:"source"`
	Persisted bool   `json:"persisted"`
}

// Event is emitted whenever the session's plan changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Field     string    `json:"field,omitempty"`
	Budget    Budget    `json:"budget"`
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventUpdate   = "update"
	EventReset    = "reset"
)

// Service serializes HTTP access to a single planner session.
type Service struct {
	cfg    Config
	logger *zap.Logger

	mu          sync.RWMutex
	session     *planner.Session
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service around session.
func New(cfg Config, session *planner.Session, logger *zap.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}

	return &Service{
		cfg:     cfg,
		logger:  logging.OrNop(logger),
		session: session,
		subs:    make(map[int]chan Event),
	}
}

// Handler returns the router serving every endpoint.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "route_not_found", fmt.Sprintf("no route for %s", req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed",
			fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path))
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(api chi.Router) {
		api.Get("/budget", s.handleGetBudget)
		api.Patch("/budget", s.handlePatchBudget)
		api.Post("/budget/reset", s.handleReset)
		api.Post("/budget/{field}/increment", s.handleStep(true))
		api.Post("/budget/{field}/decrement", s.handleStep(false))
		api.Get("/share", s.handleShare)
		api.Get("/events", s.handleEvents)
		api.Get("/stream", s.handleStream)
	})
	return r
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("server listening", zap.String("addr", s.cfg.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func budgetView(m *budget.Model) Budget {
	return Budget{
		Inputs:         m.Snapshot(),
		JerseyQuantity: m.JerseyQuantity(),
		IceTotal:       m.IceTotal(),
		CoachTotal:     m.CoachTotal(),
		JerseyTotal:    m.JerseyTotal(),
		Subtotal:       m.Subtotal(),
		Fees:           m.Fees(),
		Total:          m.Total(),
		PerPlayer:      m.PerPlayer(),
	}
}

// current must be called with s.mu held.
func (s *Service) current() BudgetResponse {
	return BudgetResponse{
		Budget:    budgetView(s.session.Model()),
		Source:    s.session.Source().String(),
		Persisted: s.session.Persisted(),
	}
}

// publishLocked records an event; s.mu must be held for writing.
func (s *Service) publishLocked(typ, field string) {
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: time.Now(),
		Field:     field,
		Budget:    budgetView(s.session.Model()),
	}

	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// handleGetBudget serves the session's plan, or previews a shared plan given
// in the plan query parameter without adopting it.
func (s *Service) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	if token := r.URL.Query().Get(codec.LinkParam); token != "" {
		state, err := codec.DecodeLink(token)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed_plan", err.Error())
			return
		}
		m := budget.New()
		m.Restore(state)
		writeJSON(w, http.StatusOK, BudgetResponse{
			Budget: budgetView(m),
			Source: planner.SourceLink.String(),
		})
		return
	}

	s.mu.RLock()
	resp := s.current()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}

// handlePatchBudget applies a JSON object of field names to raw values.
// Every name is checked before any is applied.
func (s *Service) handlePatchBudget(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&body); err != nil || body == nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "body must be a JSON object of field values")
		return
	}

	updates := make(map[budget.Field]any, len(body))
	for name, raw := range body {
		f, err := budget.ParseField(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_field", err.Error())
			return
		}
		updates[f] = raw
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range budget.Fields() {
		raw, ok := updates[f]
		if !ok {
			continue
		}
		if err := s.session.Set(r.Context(), f, raw); err != nil {
			s.logger.Error("saving plan", zap.Error(err))
			s.publishLocked(EventUpdate, "")
			writeError(w, http.StatusInternalServerError, "save_failed", err.Error())
			return
		}
	}
	if len(updates) > 0 {
		s.publishLocked(EventUpdate, "")
	}
	writeJSON(w, http.StatusOK, s.current())
}

func (s *Service) handleStep(up bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "field")
		f, err := budget.ParseField(name)
		if err != nil || !f.Numeric() {
			writeError(w, http.StatusBadRequest, "invalid_field", fmt.Sprintf("%q cannot be stepped", name))
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if up {
			err = s.session.Increment(r.Context(), f)
		} else {
			err = s.session.Decrement(r.Context(), f)
		}
		s.publishLocked(EventUpdate, f.String())
		if err != nil {
			s.logger.Error("saving plan", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "save_failed", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, s.current())
	}
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.session.Reset(r.Context())
	s.publishLocked(EventReset, "")
	if err != nil {
		s.logger.Error("clearing saved plan", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "reset_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.current())
}

func (s *Service) handleShare(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	link, err := s.session.ShareURL()
	s.mu.RUnlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "share_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current plan immediately.
	s.mu.RLock()
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Budget:    budgetView(s.session.Model()),
	}
	s.mu.RUnlock()
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			fields := []zap.Field{
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.Int("bytes", ww.BytesWritten()),
			}
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				s.logger.Error("request completed", fields...)
			case ww.Status() >= http.StatusBadRequest:
				s.logger.Warn("request completed", fields...)
			default:
				s.logger.Debug("request completed", fields...)
			}
		}()
		next.ServeHTTP(ww, r)
	})
}

// encodeFailedBody is sent when a response cannot be marshaled.
const encodeFailedBody = `{"error":"encode_failed","message":"response could not be encoded"}` + "\n"

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailedBody))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}
