// ABOUTME: Read-only JSON report API over the role-scoped dashboard
// ABOUTME: Routes with gorilla/mux, takes the caller identity from headers and wraps everything in CORS
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/harperreed/salesdesk/dashboard"
	"github.com/harperreed/salesdesk/logging"
	"github.com/harperreed/salesdesk/models"
	"github.com/harperreed/salesdesk/report"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Identity headers. The backend in front of this API is trusted to set them.
const (
	HeaderRole        = "X-User-Role"
	HeaderUserID      = "X-User-Id"
	HeaderUserName    = "X-User-Name"
	HeaderTeam        = "X-Team"
	HeaderManagedTeam = "X-Managed-Team"
)

// Loader produces a role-scoped snapshot. *dashboard.Service satisfies it.
type Loader interface {
	Load(ctx context.Context, id models.Identity) dashboard.Snapshot
}

type Server struct {
	loader   Loader
	pageSize int
	router   *mux.Router
	handler  http.Handler
	logger   *zap.Logger
	now      func() time.Time
}

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"pageSize,omitempty"`
	TotalPages int    `json:"totalPages,omitempty"`
	Total      int    `json:"total"`
	Source     string `json:"source,omitempty"`
}

// NewServer builds the report API. pageSize is used for list endpoints when the
// request has no page_size; values <= 0 fall back to report.DefaultPageSize.
func NewServer(loader Loader, pageSize int, allowedOrigins []string, logger *zap.Logger) *Server {
	if pageSize <= 0 {
		pageSize = report.DefaultPageSize
	}
	s := &Server{
		loader:   loader,
		pageSize: pageSize,
		router:   mux.NewRouter(),
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
	s.setupRoutes()

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", HeaderRole, HeaderUserID, HeaderUserName, HeaderTeam, HeaderManagedTeam},
	})
	s.handler = c.Handler(s.router)
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	reports := api.PathPrefix("/reports").Subrouter()
	reports.Use(s.requireIdentity)
	reports.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	reports.HandleFunc("/revenue", s.handleRevenue).Methods(http.MethodGet)
	reports.HandleFunc("/trend", s.handleTrend).Methods(http.MethodGet)
	reports.HandleFunc("/agents", s.handleAgents).Methods(http.MethodGet)
	reports.HandleFunc("/deals", s.handleDeals).Methods(http.MethodGet)
	reports.HandleFunc("/callbacks", s.handleCallbacks).Methods(http.MethodGet)

	s.router.Use(s.logRequests)
}

// Handler returns the CORS-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting report API", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type identityKey struct{}

// IdentityFromHeaders reads the caller identity set by the fronting backend.
func IdentityFromHeaders(h http.Header) models.Identity {
	return models.Identity{
		ID:          h.Get(HeaderUserID),
		Name:        h.Get(HeaderUserName),
		Role:        h.Get(HeaderRole),
		Team:        h.Get(HeaderTeam),
		ManagedTeam: h.Get(HeaderManagedTeam),
	}
}

func (s *Server) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromHeaders(r.Header)
		if !models.IsValidRole(id.Role) || id.ID == "" {
			writeError(w, http.StatusUnauthorized, "X-User-Role and X-User-Id headers are required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, id)))
	})
}

func identity(r *http.Request) models.Identity {
	id, _ := r.Context().Value(identityKey{}).(models.Identity)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Error: message})
}

func writeData(w http.ResponseWriter, data interface{}, meta *Meta) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data, Meta: meta})
}

// snapshot loads the caller's snapshot, answering 502 itself when the
// backend could not supply deals and callbacks.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (dashboard.Snapshot, bool) {
	snap := s.loader.Load(r.Context(), identity(r))
	if !snap.Success {
		writeError(w, http.StatusBadGateway, "failed to load dashboard data from the backend")
		return snap, false
	}
	return snap, true
}

func (s *Server) pageSizeParam(r *http.Request) int {
	if n := intParam(r, "page_size"); n > 0 {
		return n
	}
	return s.pageSize
}

func intParam(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeData(w, map[string]string{"status": "ok", "time": s.now().UTC().Format(time.RFC3339)}, nil)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeData(w, map[string]interface{}{
		"summary":       snap.Summary,
		"charts":        snap.Charts,
		"dateRangeDays": snap.DateRangeDays,
		"fetchedAt":     snap.FetchedAt,
	}, &Meta{Total: snap.Summary.TotalDeals, Source: snap.StatsSource})
}

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	groups, err := report.RevenueBy(snap.Deals, r.URL.Query().Get("group_by"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	groups = report.Top(groups, intParam(r, "limit"))
	writeData(w, groups, &Meta{Total: len(groups)})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeData(w, snap.Charts.SalesTrend, &Meta{Total: len(snap.Charts.SalesTrend), Source: snap.ChartsSource})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	rows := report.AgentPerformance(snap.Deals, snap.Callbacks)
	writeData(w, rows, &Meta{Total: len(rows)})
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page := report.SortAndPage(snap.Deals, q.Get("sort"), report.ParseDirection(q.Get("dir")), intParam(r, "page"), s.pageSizeParam(r))
	writeData(w, page.Items, &Meta{Page: page.Page, PageSize: page.PageSize, TotalPages: page.TotalPages, Total: page.Total})
}

func (s *Server) handleCallbacks(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page := report.SortAndPage(snap.Callbacks, q.Get("sort"), report.ParseDirection(q.Get("dir")), intParam(r, "page"), s.pageSizeParam(r))
	writeData(w, page.Items, &Meta{Page: page.Page, PageSize: page.PageSize, TotalPages: page.TotalPages, Total: page.Total})
}
