package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/ovenbird/crumb/pkg/post"
)

// rebuildDebounce coalesces bursts of change events into one rebuild.
const rebuildDebounce = 200 * time.Millisecond

// Server serves the built output directory over HTTP and rebuilds the
// site when the vault reports changes.
type Server struct {
	cfg     *Config
	builder *Builder
	logger  *slog.Logger
}

// NewServer wires a development server around an existing builder.
// A nil logger keeps the server silent.
func NewServer(cfg *Config, builder *Builder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{cfg: cfg, builder: builder, logger: logger}
}

// Run builds the site once, then serves it until the context is
// canceled. Change events trigger debounced rebuilds; a failing
// rebuild is logged and the previous output keeps serving.
func (s *Server) Run(ctx context.Context, events <-chan post.Event) error {
	if _, err := s.builder.Build(ctx); err != nil {
		return err
	}

	output, err := s.builder.outputPath()
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Handle("/*", http.FileServer(http.Dir(output)))

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("serving site", "addr", "http://"+addr, "output", output)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("site: serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if events != nil {
		g.Go(func() error {
			s.rebuildLoop(ctx, events)
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// rebuildLoop waits out event bursts before rebuilding, so one saved
// file (or one git checkout touching dozens) costs one build.
func (s *Server) rebuildLoop(ctx context.Context, events <-chan post.Event) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.logger.Debug("change detected", "event", ev.String())
			if timer == nil {
				timer = time.NewTimer(rebuildDebounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(rebuildDebounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			if _, err := s.builder.Build(ctx); err != nil {
				s.logger.Error("rebuild failed", "error", err)
			}
		}
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		s.logger.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}
