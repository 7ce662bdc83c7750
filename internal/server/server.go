// Package server mounts the site and JSON API on goa's HTTP muxer.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/http/middleware"

	"moblind/internal/config"
	"moblind/internal/logging"
	"moblind/internal/metrics"
	"moblind/internal/services"
	"moblind/internal/site"
)

// Services bundles the handlers' dependencies.
type Services struct {
	Form      *services.FormService
	Inquiries *services.InquiryService
	Auth      *services.AuthService
	Health    *services.HealthService
}

// Server routes requests to the services.
type Server struct {
	cfg    *config.Config
	svc    Services
	logger *zap.Logger
	mux    goahttp.Muxer
}

// New builds a server and mounts every route.
func New(cfg *config.Config, svc Services, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		svc:    svc,
		logger: logging.OrNop(logger).Named("http"),
		mux:    goahttp.NewMuxer(),
	}
	s.mount()
	return s
}

func (s *Server) mount() {
	// Site
	s.mux.Handle(http.MethodGet, "/", s.withSession(s.handleIndex))
	s.mux.Handle(http.MethodPost, "/inquiry/open", s.withSession(s.handleOpenPage))
	s.mux.Handle(http.MethodPost, "/inquiry/close", s.withSession(s.handleClosePage))
	s.mux.Handle(http.MethodPost, "/inquiry/submit", s.withSession(s.handleSubmitPage))
	s.mux.Handle(http.MethodGet, "/static/{*filepath}", site.Static().ServeHTTP)

	// Inquiry dialog API
	s.mux.Handle(http.MethodGet, "/api/v1/inquiry", s.withSession(s.handleFormState))
	s.mux.Handle(http.MethodPost, "/api/v1/inquiry/open", s.withSession(s.handleFormOpen))
	s.mux.Handle(http.MethodPost, "/api/v1/inquiry/close", s.withSession(s.handleFormClose))
	s.mux.Handle(http.MethodPut, "/api/v1/inquiry/fields/{name}", s.withSession(s.handleFormSetField))
	s.mux.Handle(http.MethodPost, "/api/v1/inquiry/submit", s.withSession(s.handleFormSubmit))

	// Staff
	s.mux.Handle(http.MethodPost, "/api/v1/auth/login", s.handleLogin)
	s.mux.Handle(http.MethodGet, "/api/v1/inquiries", s.requireStaff(s.handleListInquiries))
	s.mux.Handle(http.MethodGet, "/api/v1/inquiries/{id}", s.requireStaff(s.handleGetInquiry))
	s.mux.Handle(http.MethodPatch, "/api/v1/inquiries/{id}/status", s.requireStaff(s.handleUpdateInquiryStatus))

	s.mux.Handle(http.MethodGet, "/health", s.handleHealth)
	s.mux.Handle(http.MethodGet, "/metrics", promhttp.Handler().ServeHTTP)
}

// Handler returns the mux wrapped in the middleware chain:
// security headers -> CORS -> request id -> logging -> metrics -> routes.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = metrics.PrometheusMiddleware(h)
	h = requestLogging(h, s.logger)
	h = middleware.PopulateRequestContext()(h)
	h = middleware.RequestID(middleware.UseXRequestIDHeaderOption(true))(h)
	h = cors(h, s.cfg)
	h = securityHeaders(h, s.cfg)
	return h
}
