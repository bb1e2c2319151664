package httpserve

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aandrx/portfolio/api"
	"github.com/aandrx/portfolio/config"
	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/forms"
	"github.com/aandrx/portfolio/rdsdb"
	"github.com/aandrx/portfolio/site"
	"github.com/aandrx/portfolio/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const rsvpCountKey = "rsvpcount"

type Options struct {
	// Config holds the settings fixed at start: port, timeouts, cors, limits
	Config *config.Configuration
	// Current, when set, is read on every request for the settings that may be
	// reloaded: jwt secret and fields, public dir, proxy trust
	Current func() *config.Configuration
	Store  forms.Repository
	Site   *site.Site
	// Redis enables rate limiting, the rsvp count cache and cross instance live
	// updates, nil disables them
	Redis *redis.Client
	// Registry receives the form apis, a new one is used when nil
	Registry *api.Registry
}

type Server struct {
	Router chi.Router
	Forms  *forms.Service
	Hub    *Hub

	cfg      *config.Configuration
	current  func() *config.Configuration
	store    forms.Repository
	site     *site.Site
	registry *api.Registry
	limiter  *rdsdb.RateLimiter
	claims   *claimCache
	// formRoutes are registered once, routes may be rebuilt
	formRoutes []forms.Route
}

func New(opt Options) (*Server, error) {
	if opt.Config == nil || opt.Store == nil || opt.Site == nil {
		return nil, errors.New("httpserve: config, store and site are required")
	}
	if opt.Registry == nil {
		opt.Registry = api.NewRegistry()
	}
	s := &Server{
		cfg:      opt.Config,
		current:  opt.Current,
		store:    opt.Store,
		site:     opt.Site,
		registry: opt.Registry,
		claims:   newClaimCache(),
		limiter:  rdsdb.NewRateLimiter(opt.Redis, "ratelimit:form", opt.Config.RateLimit.PerMinute, time.Minute),
		Forms:    forms.NewService(opt.Store, forms.NewCountCache(opt.Redis, rsvpCountKey)),
	}
	s.Hub = NewHub(opt.Redis, func(r *http.Request) bool { return originAllowed(s.cfg.Http.CORES, r) })
	s.Forms.OnRSVPCount = s.Hub.Publish
	s.formRoutes = s.Forms.Routes(s.registry)
	s.Router = s.routes()
	return s, nil
}

// conf is the latest config for per request settings
func (s *Server) conf() *config.Configuration {
	if s.current != nil {
		return s.current()
	}
	return s.cfg
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, requestLogger, middleware.Recoverer, cors(s.cfg.Http.CORES), limitBody(s.cfg.Http.MaxBufferSize))

	for _, route := range s.formRoutes {
		h := http.Handler(s.apiHandler(route))
		if route.Method == http.MethodPost && route.Permission == "" {
			h = s.rateLimited(h)
		}
		r.Method(route.Method, route.Path, h)
	}
	r.Get("/api/rsvp/live", s.Hub.ServeWS(func(ctx context.Context, eventID string) (*store.RSVPCount, error) {
		return s.Forms.CountRSVP(ctx, &forms.RSVPCountQuery{EventID: eventID})
	}))
	r.Get("/api/_docs", s.docsHandler)
	r.Get("/healthz", s.health)

	s.site.Mount(r)
	r.NotFound(s.publicOrNotFound)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			dlog.Error().Err(err).Msg("health check failed")
			writeResult(w, r, http.StatusServiceUnavailable, errorBody{Error: "database unavailable"})
			return
		}
	}
	writeResult(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// publicOrNotFound serves files of the public dir, such as the site images,
// and the 404 page for everything else.
func (s *Server) publicOrNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeResult(w, r, http.StatusNotFound, errorBody{Error: msgNotFound})
		return
	}
	if dir := s.conf().Http.PublicDir; dir != "" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		name := path.Clean("/" + r.URL.Path)
		if f, err := http.Dir(dir).Open(name); err == nil {
			defer f.Close()
			if st, err := f.Stat(); err == nil && !st.IsDir() {
				http.ServeContent(w, r, st.Name(), st.ModTime(), f)
				return
			}
		}
	}
	s.site.NotFound(w, r)
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	timeout := time.Duration(s.cfg.Http.RequestTimeout) * time.Second
	server := &http.Server{
		Addr:              ":" + strconv.FormatInt(s.cfg.Http.Port, 10),
		Handler:           s.Router,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: 50 * time.Second,
		WriteTimeout:      timeout,
		IdleTimeout:       15 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dlog.Info().Int64("port", s.cfg.Http.Port).Msg("portfolio http server is starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			dlog.Error().Err(err).Msg("http server ListenAndServe error")
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		dlog.Info().Msg("portfolio http server is shutting down")
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return s.Hub.Run(gctx)
	})
	return g.Wait()
}
