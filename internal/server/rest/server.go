// Package rest serves the study API over HTTP/JSON with the same semantics
// as the gRPC service.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/study"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type Server struct {
	address string
	router  *chi.Mux
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, svc *study.Service, secretKey string) *Server {
	logger := l.With("module", "rest_server")
	return &Server{
		address: address,
		router:  NewRouter(svc, []byte(secretKey), logger),
		logger:  logger,
	}
}

// NewRouter wires the routes and middleware. Every route except /health
// requires a bearer token signed with secret.
func NewRouter(svc *study.Service, secret []byte, logger logging.Logger) *chi.Mux {
	routes := &Routes{study: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(logger))

	r.Get("/health", healthHandler)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(secret))

		r.Post("/study/review", routes.submitReview)
		r.Get("/study/queue", routes.studyQueue)

		r.Route("/decks", func(r chi.Router) {
			r.Get("/", routes.listDecks)
			r.Post("/", routes.createDeck)
			r.Put("/{id}", routes.updateDeck)
			r.Post("/{id}/cards", routes.createCard)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Put("/{id}", routes.updateCard)
			r.Delete("/{id}", routes.deleteCard)
		})
	})

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve handles requests on lis until ctx is cancelled, then shuts down.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: readHeaderTimeout}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping REST server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "REST server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting REST server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-stopped
	return nil
}
