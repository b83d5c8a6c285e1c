// Package web serves the analysis page and a JSON API over gin.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selimozcann/phishaid/internal/analysis"
	"github.com/selimozcann/phishaid/internal/apperr"
	"github.com/selimozcann/phishaid/internal/metrics"
	"github.com/selimozcann/phishaid/internal/normalize"
	"github.com/selimozcann/phishaid/internal/render"
)

// Config holds the values shown on the page and the listen address.
type Config struct {
	Listen   string
	Endpoint string
	Release  bool
}

// Server is the web UI.
type Server struct {
	engine  *gin.Engine
	cfg     Config
	svc     *analysis.Service
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	URL string `json:"url" form:"url"`
}

// ErrorResponse is returned by the JSON API on failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// New builds the router. m may be nil, which disables /metrics.
func New(cfg Config, svc *analysis.Service, m *metrics.Metrics, logger *slog.Logger) *Server {
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	var obs RequestObserver
	if m != nil {
		obs = m
	}
	engine.Use(RequestLogger(logger, obs))

	s := &Server{engine: engine, cfg: cfg, svc: svc, metrics: m, logger: logger}
	engine.GET("/", s.handleIndex)
	engine.POST("/", s.handleSubmit)
	engine.POST("/api/analyze", s.handleAnalyze)
	engine.GET("/healthz", s.handleHealth)
	if m != nil {
		engine.GET("/metrics", gin.WrapH(m.Handler()))
	}
	return s
}

// Handler returns the router for use in an http.Server or tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web_listening", slog.String("addr", s.cfg.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("web_shutdown")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) page() render.Page {
	return render.Page{
		Endpoint: s.cfg.Endpoint,
		Strict:   s.svc.Config().Policy == normalize.Strict,
	}
}

func (s *Server) writePage(c *gin.Context, status int, p render.Page) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := render.WritePage(c.Writer, p); err != nil {
		_ = c.Error(err)
		s.logger.Error("render_page_failed", slog.Any("error", err))
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	s.writePage(c, http.StatusOK, s.page())
}

// handleSubmit is the form post. Each request renders a fresh page, so a
// failed analysis shows no result section at all.
func (s *Server) handleSubmit(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBind(&req); err != nil {
		s.logger.Debug("form_bind_failed", slog.Any("error", err), slog.String("request_id", GetRequestID(c)))
	}

	p := s.page()
	p.Input = req.URL
	view, err := s.svc.Check(c.Request.Context(), req.URL)
	if err != nil {
		p.Notice = apperr.UserMessage(err)
		s.writePage(c, http.StatusOK, p)
		return
	}
	p.View = &view
	s.writePage(c, http.StatusOK, p)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: string(apperr.KindValidation), Message: "Request body must be JSON with a \"url\" field."})
		return
	}
	view, err := s.svc.Check(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: string(apperr.KindOf(err)), Message: apperr.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "endpoint": s.cfg.Endpoint})
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindEmptyInput, apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
