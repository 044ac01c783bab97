// Package server exposes topology views over HTTP.
//
// Each view is a [layout.Graph] owned by its own goroutine. Handlers never
// touch a graph directly: they send a closure to the view goroutine and wait
// for it, so commands and simulation ticks are applied one at a time. While
// the simulation is warm the view goroutine ticks at the configured frame
// rate and streams frames to websocket subscribers.
//
// # Routes
//
//	GET    /healthz
//	GET    /views
//	POST   /views                                  create a view from a payload
//	GET    /views/{id}                             snapshot
//	DELETE /views/{id}
//	POST   /views/{id}/gravity                     {"on": bool} or {} to toggle
//	POST   /views/{id}/settle                      {"max_ticks": n}
//	POST   /views/{id}/reload                      payload
//	POST   /views/{id}/drag                        {"phase": "start|move|end", ...}
//	POST   /views/{id}/nodes                       ip record
//	POST   /views/{id}/nodes/{nodeID}/{action}     click, dblclick, select, ...
//	POST   /views/{id}/links                       link record
//	PUT    /views/{id}/links/{linkID}              link record
//	DELETE /views/{id}/links/{linkID}
//	POST   /views/{id}/links/{linkID}/{action}     click, dblclick, highlight, ...
//	PUT    /views/{id}/hosts                       host record
//	POST   /views/{id}/devices/{deviceID}/interfaces
//	PUT    /views/{id}/devices/{deviceID}/interfaces
//	POST   /views/{id}/devices/{deviceID}/links
//	GET    /views/{id}/svg
//	GET    /views/{id}/render/{format}
//	GET    /views/{id}/ws                          frame and event stream
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/topolayout/pkg/buildinfo"
	"github.com/matzehuels/topolayout/pkg/config"
	"github.com/matzehuels/topolayout/pkg/errors"
	"github.com/matzehuels/topolayout/pkg/kv"
	"github.com/matzehuels/topolayout/pkg/layout"
	"github.com/matzehuels/topolayout/pkg/observability"
	"github.com/matzehuels/topolayout/pkg/topology"
)

const (
	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 8 << 20

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Config supplies viewport, simulation and server settings.
	Config config.Config

	// Store persists layouts for every view. Defaults to an in-memory store.
	Store kv.Store

	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Server hosts views.
type Server struct {
	cfg      config.Config
	store    kv.Store
	logger   *log.Logger
	router   chi.Router
	upgrader websocket.Upgrader

	mu    sync.Mutex
	views map[string]*view
}

// New returns a server with its routes registered.
func New(opts Options) *Server {
	opts.Config.Normalize()
	if opts.Store == nil {
		opts.Store = kv.NewMemory()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{
		cfg:    opts.Config,
		store:  opts.Store,
		logger: opts.Logger,
		views:  make(map[string]*view),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully and closes every view.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.cfg.Server.Addr)

	select {
	case err := <-errc:
		s.Close()
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return err
	}
	return ctx.Err()
}

// Close stops every view.
func (s *Server) Close() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*view)
	s.mu.Unlock()

	for _, v := range views {
		s.stopView(v)
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/views", func(r chi.Router) {
		r.Get("/", s.handleListViews)
		r.Post("/", s.handleCreateView)

		r.Route("/{viewID}", func(r chi.Router) {
			r.Get("/", s.handleSnapshot)
			r.Delete("/", s.handleDeleteView)
			r.Post("/gravity", s.handleGravity)
			r.Post("/settle", s.handleSettle)
			r.Post("/reload", s.handleReload)
			r.Post("/drag", s.handleDrag)

			r.Post("/nodes", s.handleAddNode)
			r.Post("/nodes/{nodeID}/{action}", s.handleNodeAction)

			r.Post("/links", s.handleCreateLink)
			r.Put("/links/{linkID}", s.handleUpdateLink)
			r.Delete("/links/{linkID}", s.handleRemoveLink)
			r.Post("/links/{linkID}/{action}", s.handleLinkAction)

			r.Put("/hosts", s.handleUpdateHost)
			r.Post("/devices/{deviceID}/interfaces", s.handleAddInterface)
			r.Put("/devices/{deviceID}/interfaces", s.handleUpdateInterface)
			r.Post("/devices/{deviceID}/links", s.handleDeviceLink)

			r.Get("/svg", s.handleSVG)
			r.Get("/render/{format}", s.handleRender)
			r.Get("/ws", s.handleWebSocket)
		})
	})
	return r
}

// requestLogger logs each request at debug level with its status.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// View Registry
// =============================================================================

// openView builds a graph for the payload and starts its goroutine.
func (s *Server) openView(ctx context.Context, req CreateViewRequest) (*view, error) {
	s.mu.Lock()
	full := len(s.views) >= s.cfg.Server.MaxViews
	s.mu.Unlock()
	if full {
		return nil, errTooManyViews
	}

	cfg := s.cfg.Layout(req.TopologyID)
	if req.Width > 0 {
		cfg.Width = req.Width
		cfg.Height = req.Height
		cfg.Normalize()
	}

	interval := time.Second / time.Duration(s.cfg.Simulation.FPS)
	v := newView(uuid.NewString(), req.TopologyID, interval, s.logger)
	nodes, links := topology.Ingest(&req.Payload)
	g, err := layout.New(ctx, cfg, nodes, links, layout.Options{
		Store:    s.store,
		Observer: v,
		Logger:   s.logger,
	})
	if err != nil {
		return nil, err
	}
	v.graph = g
	go v.run()

	s.mu.Lock()
	s.views[v.id] = v
	s.mu.Unlock()

	observability.View().OnViewOpen(ctx, v.id, v.topologyID)
	s.logger.Info("opened view", "view", v.id, "topology", v.topologyID, "nodes", len(g.Nodes()), "links", len(g.Links()))
	return v, nil
}

func (s *Server) lookup(id string) (*view, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.views[id]
	if v == nil {
		return nil, errors.New(errors.ErrCodeViewNotFound, "view %s not found", id)
	}
	return v, nil
}

func (s *Server) closeView(id string) bool {
	s.mu.Lock()
	v := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()
	if v == nil {
		return false
	}
	s.stopView(v)
	return true
}

func (s *Server) stopView(v *view) {
	v.stop()
	lifetime := time.Since(v.created)
	observability.View().OnViewClose(context.Background(), v.id, lifetime)
	s.logger.Info("closed view", "view", v.id, "lifetime", lifetime.Round(time.Second))
}

func (s *Server) listViews() []*view {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*view, 0, len(s.views))
	for _, v := range s.views {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].created.Before(out[j].created) })
	return out
}

func (s *Server) healthBody() map[string]string {
	return map[string]string{"status": "ok", "version": buildinfo.Version}
}
