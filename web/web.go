// Package web assembles the console HTTP server: middleware, controllers and
// background jobs.
package web

import (
	"context"
	"crypto/tls"
	"embed"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/solo-blog/console/config"
	"github.com/solo-blog/console/database"
	"github.com/solo-blog/console/logger"
	"github.com/solo-blog/console/util/common"
	"github.com/solo-blog/console/web/controller"
	"github.com/solo-blog/console/web/job"
	"github.com/solo-blog/console/web/locale"
	"github.com/solo-blog/console/web/middleware"
	"github.com/solo-blog/console/web/network"
	"github.com/solo-blog/console/web/service"
	"github.com/solo-blog/console/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed translation/*
var i18nFS embed.FS

// Server is the console web server with its controllers and scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	users *controller.UserController
	index *controller.IndexController
	prefs *controller.PreferenceController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initRouter initializes gin, registers the middleware and the console
// controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	if err := locale.InitLocalizer(i18nFS); err != nil {
		return nil, err
	}

	db := database.GetDB()
	if db == nil {
		return nil, common.NewError("database is not initialized")
	}
	preferenceService := service.NewPreferenceQueryService(db)
	userQueryService := service.NewUserQueryService(db)
	userMgmtService := service.NewUserMgmtService(db, preferenceService)

	secret, err := preferenceService.GetSecret()
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	engine.Use(sessions.Sessions(session.CookieName, store))
	engine.Use(locale.LocalizerMiddleware())

	registerLimit := middleware.DefaultRateLimitConfig()
	registerLimit.Skip = session.IsAdmin
	adminGate := middleware.AdminRequired()

	g := engine.Group("/console")
	s.index = controller.NewIndexController(g, userQueryService, nil)
	s.users = controller.NewUserController(g, controller.UserDeps{
		Query:          userQueryService,
		Mgmt:           userMgmtService,
		Preferences:    preferenceService,
		AdminGate:      adminGate,
		RegisterGuards: []gin.HandlerFunc{middleware.RateLimitMiddleware(registerLimit)},
	})
	s.prefs = controller.NewPreferenceController(g, preferenceService, nil, adminGate)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the background jobs.
func (s *Server) startTask() {
	if _, err := s.cron.AddJob("@hourly", job.NewCheckpointJob(database.Checkpoint)); err != nil {
		logger.Warning("add checkpoint job failed: ", err)
	}
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New(cron.WithLocation(time.Local))
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	certFile, keyFile := config.GetCertFile(), config.GetKeyFile()
	if certFile != "" && keyFile != "" {
		if cert, err := tls.LoadX509KeyPair(certFile, keyFile); err == nil {
			cfg := &tls.Config{Certificates: []tls.Certificate{cert}}
			listener = network.NewAutoHttpsListener(listener)
			listener = tls.NewListener(listener, cfg)
			logger.Info("Web server running HTTPS on ", listener.Addr())
		} else {
			logger.Error("Error loading certificates: ", err)
			logger.Info("Web server running HTTP on ", listener.Addr())
		}
	} else {
		logger.Info("Web server running HTTP on ", listener.Addr())
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server stopped: ", err)
		}
	}()

	s.startTask()
	return nil
}

// Stop gracefully shuts down the web server and the cron jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err1 = s.httpServer.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
		if common.IsClosedConnError(err2) {
			err2 = nil
		}
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }

// GetCron returns the server's cron scheduler instance.
func (s *Server) GetCron() *cron.Cron { return s.cron }
