// Package web exposes the face pipeline over HTTP for callers that cannot
// link the dlib models directly.
package web

import (
	"context"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/phantomcv/phantom/internal/faces"
)

// FacePipeline is the slice of the pipeline the handlers consume. It is an
// interface so tests can substitute a double.
type FacePipeline interface {
	Detect(img image.Image, upsample int) ([]faces.Box, error)
	DetectCNN(img image.Image, upsample int) ([]faces.Box, error)
	Encode(img image.Image, locations []faces.Box, model faces.ShapeModel, jitter, upsample int) ([]faces.Encoding, error)
	EstimateGender(enc faces.Encoding) (float64, error)
}

// Server serves the face API.
type Server struct {
	pipeline   FacePipeline
	router     *chi.Mux
	httpServer *http.Server
}

// NewServer creates a server around the given pipeline.
func NewServer(pipeline FacePipeline, host string, port int) *Server {
	r := chi.NewRouter()
	s := &Server{
		pipeline: pipeline,
		router:   r,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(2 * time.Minute))

	r.Get("/api/v1/health", s.handleHealth)
	r.Post("/api/v1/detect", s.handleDetect)
	r.Post("/api/v1/encode", s.handleEncode)
	r.Post("/api/v1/compare", s.handleCompare)
	r.Post("/api/v1/gender", s.handleGender)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  time.Minute,
	}
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	log.Printf("Starting face API on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down face API...")
	return s.httpServer.Shutdown(ctx)
}
