// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

// Package server composes the dispatcher, middleware and documentation
// surface into one HTTP handler and runs it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mahabubx7/terry/internal/config"
	"github.com/mahabubx7/terry/internal/docs"
	"github.com/mahabubx7/terry/internal/middleware"
	"github.com/mahabubx7/terry/internal/openapi"
	"github.com/mahabubx7/terry/internal/registry"
	"github.com/mahabubx7/terry/internal/route"
	"github.com/mahabubx7/terry/internal/router"
	"github.com/mahabubx7/terry/pkg/types"
)

// Server is the assembled application.
type Server struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *registry.Registry

	modules []route.Module
	api     *chi.Mux
	docs    *docs.Cache
	handler http.Handler
}

// New loads the registered modules and builds the HTTP handler. A module
// that fails to load is skipped. When documentation cannot be generated the
// API is still served and the documentation endpoints answer 503.
func New(ctx context.Context, cfg *config.Config, reg *registry.Registry, log *slog.Logger) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		log:      log,
		registry: reg,
		modules:  reg.Load(ctx, log),
	}

	api, err := router.New(s.modules,
		router.WithLogger(log),
		router.WithProduction(cfg.IsProduction()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}
	s.api = api

	root := chi.NewRouter()
	root.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.Recover(log, cfg.IsProduction()),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.CORSOrigin),
		middleware.Chain(middleware.RequestLogger(log)),
	)
	root.NotFound(router.NotFound)
	root.MethodNotAllowed(router.MethodNotAllowed)

	if cfg.DocsEnabled {
		s.docs = docs.NewCache(s.document, log)
		if err := s.docs.Regenerate(ctx); err != nil {
			log.ErrorContext(ctx, "documentation unavailable", slog.Any("error", err))
		}
		root.Mount(s.docsPath(), s.docs.Handler(s.docsPath()))
	}

	mountAt := cfg.APIPrefix
	if mountAt == "" {
		mountAt = "/"
	}
	root.Mount(mountAt, api)

	s.handler = otelhttp.NewHandler(root, "terry")
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Docs returns the documentation cache, or nil when documentation is disabled.
func (s *Server) Docs() *docs.Cache {
	return s.docs
}

// Routes lists the mounted API routes with the API prefix applied.
func (s *Server) Routes() ([]router.Mount, error) {
	mounts, err := router.Routes(s.api, s.modules)
	if err != nil {
		return nil, err
	}
	for i := range mounts {
		mounts[i].Path = s.cfg.APIPrefix + mounts[i].Path
	}
	return mounts, nil
}

func (s *Server) docsPath() string {
	return s.cfg.APIPrefix + "/docs"
}

// document generates a fresh document. The configuration file, when there
// is one, is read again so that edits to the document metadata show up
// without a restart.
func (s *Server) document(ctx context.Context) (*types.OpenAPI, error) {
	cfg := s.cfg
	if cfg.File != "" {
		fresh, err := config.Load(cfg.File)
		if err == nil {
			err = fresh.Validate()
		}
		if err != nil {
			s.log.WarnContext(ctx, "keeping previous configuration", slog.Any("error", err))
		} else {
			cfg = fresh
		}
	}

	gen := openapi.NewGenerator(cfg, openapi.WithLogger(s.log))
	return gen.Generate(ctx, s.registry.Load(ctx, s.log))
}

// Run listens on the configured port and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelError),
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	p.Go(func(context.Context) error {
		return srv.Serve(ln)
	})

	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		s.log.Info("shutting down server")

		shutdownCtx := context.Background()
		if s.cfg.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.cfg.ShutdownTimeout)
			defer cancel()
		}
		return srv.Shutdown(shutdownCtx)
	})

	if w, err := s.watcher(); err != nil {
		s.log.WarnContext(ctx, "hot reload disabled", slog.Any("error", err))
	} else if w != nil {
		p.Go(func(ctx context.Context) error {
			defer w.Close()
			return w.Run(ctx)
		})
	}

	s.logStartup(ln.Addr())

	err := p.Wait()
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		s.log.Info("server stopped")
		return nil
	}
	return err
}

// watcher returns a watcher regenerating the documentation when the
// configuration file changes, or nil when hot reload does not apply.
func (s *Server) watcher() (*docs.Watcher, error) {
	if s.docs == nil || !s.cfg.HotReload() || s.cfg.File == "" {
		return nil, nil
	}
	debounce := time.Duration(s.cfg.Watch.Debounce) * time.Millisecond
	return docs.NewWatcher([]string{s.cfg.File}, debounce, s.docs.Regenerate, s.log)
}

func (s *Server) logStartup(addr net.Addr) {
	s.log.Info("server started",
		slog.String("addr", addr.String()),
		slog.String("env", s.cfg.Env),
		slog.Int("modules", len(s.modules)),
	)
	if s.docs == nil {
		return
	}

	base := "http://localhost:" + portOf(addr) + s.docsPath()
	v := docs.Viewers("")
	s.log.Info("documentation available",
		slog.String("swagger", base+v["swagger"]),
		slog.String("redoc", base+v["redoc"]),
		slog.String("scalar", base+v["scalar"]),
		slog.String("json", base+v["json"]),
	)
}

func portOf(addr net.Addr) string {
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return port
}
