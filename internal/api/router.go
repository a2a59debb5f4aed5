package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bozylik/sa-es-map/internal/api/handlers/http/admin"
	"github.com/bozylik/sa-es-map/internal/api/handlers/http/public"
	"github.com/bozylik/sa-es-map/internal/api/handlers/http/system"
	"github.com/bozylik/sa-es-map/internal/config"
	"github.com/bozylik/sa-es-map/internal/middleware"
	"github.com/bozylik/sa-es-map/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service) *Server {
	publicHandler := public.NewHandler(logger, svc.PublicEventService)
	adminHandler := admin.NewHandler(logger, svc.ModerationService)
	systemHandler := system.NewHandler(logger)

	r := InitRouter(cfg, publicHandler, adminHandler, systemHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

// Route paths mirror the legacy map client exactly; it polls
// /api/events and the moderation panel drives /api/queue.
func InitRouter(cfg *config.Config, publicHandler *public.Handler, adminHandler *admin.Handler, systemHandler *system.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Get("/health", systemHandler.SystemHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/events", func(er chi.Router) {
			er.Get("/ping", publicHandler.Ping)
			er.Get("/", publicHandler.EventList)
			er.Get("/type/{type}", publicHandler.EventListByType)

			er.With(middleware.Limit(5, 10, 10*time.Minute, logger)).
				Post("/", publicHandler.EventSubmit)

			// published-event maintenance is a moderation concern
			er.Route("/{id}", func(rr chi.Router) {
				rr.Use(middleware.AdminCode(cfg.AdminCode, logger))
				rr.Put("/", adminHandler.EventUpdate)
				rr.Delete("/", adminHandler.EventDelete)
			})
		})

		api.Route("/queue", func(qr chi.Router) {
			qr.Use(middleware.AdminCode(cfg.AdminCode, logger))
			qr.Use(middleware.Limit(10, 20, 5*time.Minute, logger))

			qr.Get("/", adminHandler.QueueList)
			qr.Post("/{id}/approve", adminHandler.QueueApprove)
			qr.Post("/{id}/reject", adminHandler.QueueReject)
		})
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
