// Package web serves the lead capture page as server-rendered HTML. Each
// request drives its own page.Controller against the shared API client.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"leadcap/internal/lead"
	"leadcap/internal/leadapi"
	"leadcap/internal/page"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Config holds server configuration.
type Config struct {
	Addr            string
	Language        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the web page server.
type Server struct {
	router   *mux.Router
	server   *http.Server
	api      page.LeadAPI
	msgs     page.Messages
	config   Config
	gatherer prometheus.Gatherer
	log      *zap.Logger
}

type requestIDKey struct{}

// NewServer wires the routes. A nil gatherer disables /metrics.
func NewServer(cfg Config, api page.LeadAPI, gatherer prometheus.Gatherer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		router:   mux.NewRouter(),
		api:      api,
		msgs:     page.Catalog(cfg.Language),
		config:   cfg,
		gatherer: gatherer,
		log:      log,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/lead", s.handleSubmit).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("web server listening", zap.String("addr", s.config.Addr))
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		w.Header().Set(leadapi.HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		requestID, _ := r.Context().Value(requestIDKey{}).(string)
		s.log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapper.statusCode),
			zap.Duration("duration", time.Since(start)))
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// newPage returns a controller rendering into a fresh State.
func (s *Server) newPage(r *http.Request) (*page.Controller, *page.State) {
	state := page.NewState(s.msgs)
	requestID, _ := r.Context().Value(requestIDKey{}).(string)
	ctrl := page.NewController(s.api, state, s.msgs, s.log.With(zap.String("request_id", requestID)))
	return ctrl, state
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctrl, state := s.newPage(r)
	// Failures are already in the status region.
	_ = ctrl.LoadLeads(r.Context())
	s.render(w, http.StatusOK, state.Snapshot(), lead.Form{})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := lead.Form{
		Nome:     r.PostFormValue("nome"),
		Email:    r.PostFormValue("email"),
		Telefone: lead.FormatPhoneMask(r.PostFormValue("telefone")),
	}

	ctrl, state := s.newPage(r)
	err := ctrl.SubmitLead(r.Context(), form)
	if err == nil {
		s.render(w, http.StatusOK, state.Snapshot(), lead.Form{})
		return
	}

	// Show the current list under the error without replacing the message.
	if leads, listErr := s.api.ListLeads(r.Context()); listErr == nil {
		ctrl.RenderTable(leads)
	} else {
		s.log.Warn("failed to load leads after rejected submit", zap.Error(listErr))
	}
	s.render(w, submitStatus(err), state.Snapshot(), form)
}

// submitStatus maps a failed submit to the page's HTTP status.
func submitStatus(err error) int {
	var verr *lead.ValidationError
	var httpErr *leadapi.HTTPError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &httpErr) && httpErr.StatusCode >= 400 && httpErr.StatusCode < 500:
		return httpErr.StatusCode
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

type pageData struct {
	Lang    string
	Msgs    page.Messages
	Snap    page.Snapshot
	Form    lead.Form
	Columns int
}

func (s *Server) render(w http.ResponseWriter, status int, snap page.Snapshot, form lead.Form) {
	lang := s.config.Language
	if lang == "" {
		lang = page.DefaultLanguage
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Lang:    lang,
		Msgs:    s.msgs,
		Snap:    snap,
		Form:    form,
		Columns: lead.Columns,
	})
	if err != nil {
		s.log.Error("failed to render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
