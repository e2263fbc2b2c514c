// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	cfg "github.com/maastricht-university/speech-emotion/config"
	"github.com/maastricht-university/speech-emotion/orchestrator"
)

//go:embed index.html
var indexHTML []byte

// Analyzer runs the whole pipeline for one stored upload.
type Analyzer interface {
	Run(ctx context.Context, audioPath string) (*orchestrator.Analysis, error)
}

type Server struct {
	cfg    *cfg.Root
	pipe   Analyzer
	engine *gin.Engine
}

func New(c *cfg.Root, pipe Analyzer) *Server {
	s := &Server{cfg: c, pipe: pipe}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/", s.index)
	r.POST("/upload", limitBody(c.Server.MaxUploadMB), s.upload)
	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// httpServer bounds reading the whole request, upload body included, by
// server.read_timeout.
func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Addr:        s.cfg.Server.Addr,
		Handler:     s.engine,
		ReadTimeout: cfg.DurSeconds(s.cfg.Server.ReadTimeout),
	}
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to server.shutdown_timeout seconds.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := s.httpServer()

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.DurSeconds(s.cfg.Server.ShutdownTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
