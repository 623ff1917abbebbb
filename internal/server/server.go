// Package server exposes a scene over HTTP.
//
// A single owner goroutine holds the scene. Handlers send it commands over a
// channel and wait for the reply, so the scene is never touched concurrently.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/san-kum/neuroviz/internal/scene"
)

var ErrStopped = errors.New("server: scene owner stopped")

type command struct {
	fn   func(*scene.Scene)
	done chan struct{}
}

// Options configures the owner loop.
type Options struct {
	// FPS advances the scene on a wall clock ticker. Zero disables the
	// ticker; the scene then only moves on POST /tick.
	FPS    int
	Logger *log.Logger
}

type Server struct {
	sc      *scene.Scene
	opts    Options
	log     *log.Logger
	cmds    chan command
	stopped chan struct{}
	latest  scene.Frame
	router  chi.Router
}

func New(sc *scene.Scene, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{
		sc:      sc,
		opts:    opts,
		log:     opts.Logger,
		cmds:    make(chan command),
		stopped: make(chan struct{}),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler. Requests block until Run is serving.
func (s *Server) Handler() http.Handler { return s.router }

// Run mounts the scene and serves commands until ctx is done. The scene is
// unmounted on return.
func (s *Server) Run(ctx context.Context) error {
	defer close(s.stopped)
	s.sc.Mount()
	defer s.sc.Unmount()

	f, err := s.sc.Tick(0)
	if err != nil {
		return err
	}
	s.latest = f

	var ticks <-chan time.Time
	if s.opts.FPS > 0 {
		t := time.NewTicker(time.Second / time.Duration(s.opts.FPS))
		defer t.Stop()
		ticks = t.C
	}
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("scene owner stopping")
			return nil
		case now := <-ticks:
			if err := s.advance(now.Sub(last).Seconds()); err != nil {
				return err
			}
			last = now
		case c := <-s.cmds:
			c.fn(s.sc)
			close(c.done)
		}
	}
}

func (s *Server) advance(elapsed float64) error {
	f, err := s.sc.Tick(elapsed)
	if err != nil {
		s.log.Error("scene tick failed", "err", err)
		return err
	}
	s.latest = f
	return nil
}

// do runs fn on the owner goroutine and waits for it.
func (s *Server) do(ctx context.Context, fn func(*scene.Scene)) error {
	c := command{fn: fn, done: make(chan struct{})}
	select {
	case s.cmds <- c:
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-c.done:
		return nil
	case <-s.stopped:
		return ErrStopped
	}
}

// ListenAndServe runs the owner loop and an HTTP server on addr until ctx is
// done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 2)
	go func() { errc <- s.Run(ctx) }()
	go func() {
		s.log.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			return
		}
		errc <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			cancel()
			_ = srv.Close()
			return err
		}
	}
	shutdown, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	return srv.Shutdown(shutdown)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/network", s.handleNetwork)
	r.Get("/layout", s.handleLayout)
	r.Get("/edges", s.handleEdges)
	r.Get("/stats", s.handleStats)
	r.Get("/frame", s.handleFrame)
	r.Post("/tick", s.handleTick)
	r.Route("/hover", func(r chi.Router) {
		r.Get("/", s.handleGetHover)
		r.Post("/", s.handleEnter)
		r.Delete("/", s.handleLeave)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start))
	})
}
