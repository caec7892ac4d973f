package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"kontak/internal/controllers"
	"kontak/internal/flash"
	"kontak/internal/logger"
	"kontak/internal/partners"
	"kontak/internal/store"
	"kontak/internal/validate"
)

const serviceName = "kontak"

// Options configures the HTTP server assembly.
type Options struct {
	Addr          string
	SessionSecret string
	DevMode       bool
	TemplateGlob  string
	StaticDir     string
	Store         store.ContactStore
	Roster        []partners.Partner
	Metrics       bool
	Tracing       bool
}

// Server wires the gin engine, middleware chain and routes together.
type Server struct {
	engine  *gin.Engine
	handler http.Handler
	server  *http.Server
	addr    string
}

// New assembles the engine: logging, recovery, optional tracing and metrics,
// cookie sessions, flash consumption, templates, static assets and routes.
func New(opts Options) *Server {
	if !opts.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.Middleware)
	engine.Use(gin.Recovery())

	if opts.Tracing {
		engine.Use(otelgin.Middleware(serviceName))
	}
	if opts.Metrics {
		prom := ginprometheus.NewPrometheus("gin")
		prom.Use(engine)
	}

	sessionStore := cookie.NewStore([]byte(opts.SessionSecret))
	engine.Use(sessions.Sessions("kontak_session", sessionStore))
	engine.Use(flash.Middleware)

	engine.LoadHTMLGlob(opts.TemplateGlob)
	if opts.StaticDir != "" {
		engine.Static("/public", opts.StaticDir)
	}

	controllers.NewPageController(opts.Roster).Register(engine)
	controllers.NewContactController(opts.Store, validate.New(opts.Store)).Register(engine)

	return &Server{
		engine:  engine,
		handler: methodOverride{next: engine},
		addr:    opts.Addr,
	}
}

// Handler returns the outer handler, method override included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.handler,
	}

	logger.Log.Info("Starting HTTP server", zap.String("address", s.addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}

	return nil
}

// Stop shuts the HTTP server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	logger.Log.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// methodOverride lets plain HTML forms reach the PUT and DELETE routes by
// rewriting a POST whose _method field or query parameter names another verb.
// It must run before routing, so it wraps the engine rather than joining the
// middleware chain.
type methodOverride struct {
	next http.Handler
}

func (m methodOverride) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		override := r.URL.Query().Get("_method")
		if override == "" {
			override = r.PostFormValue("_method")
		}
		switch override {
		case http.MethodPut, http.MethodDelete, http.MethodPatch:
			r.Method = override
		}
	}

	m.next.ServeHTTP(w, r)
}
