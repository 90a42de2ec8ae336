package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/smitenet/smite-panel/api"
	"github.com/smitenet/smite-panel/config"
	"github.com/smitenet/smite-panel/logger"
	"github.com/smitenet/smite-panel/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	listener   net.Listener

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Server) initRouter(services *service.ServicesBundle) (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	secret := services.SettingService.GetSecret()
	maxAge := services.SettingService.GetSessionMaxAge()

	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge * 60,
		HttpOnly: true,
	})
	engine.Use(sessions.Sessions("session", store))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	apiGroup := engine.Group("/api")
	api.NewAPIHandler(apiGroup, services)

	return engine, nil
}

func (s *Server) Start(services *service.ServicesBundle) error {
	engine, err := s.initRouter(services)
	if err != nil {
		return err
	}

	listen := services.SettingService.GetListen()
	port := services.SettingService.GetPort()
	addr := net.JoinHostPort(listen, strconv.Itoa(port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener
	logger.Info("web server running on", addr)

	s.httpServer = &http.Server{
		Handler: engine,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server error:", err)
		}
	}()

	return nil
}

func (s *Server) Stop() error {
	s.cancel()
	var err error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		s.listener.Close()
	}
	return err
}
