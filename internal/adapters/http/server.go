// Package http - HTTP сервер калькулятора и его жизненный цикл.
//
// Остановка идёт в два шага: сначала HTTP перестаёт принимать соединения
// и дожидается активных расчётов, затем выполняются shutdown hooks
// (закрытие кэша результатов).
package http

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// ============================================
// Server Configuration
// ============================================

// ServerConfig - конфигурация HTTP сервера.
type ServerConfig struct {
	Host string // "0.0.0.0", "127.0.0.1"
	Port string // "0" - любой свободный порт (тесты)

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration // 0 - как ReadTimeout
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration

	// TLSCertFile и TLSKeyFile включают HTTPS, если заданы оба.
	TLSCertFile string
	TLSKeyFile  string

	Logger *slog.Logger
}

// DefaultServerConfig - конфигурация по умолчанию.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:              "0.0.0.0",
		Port:              "8080",
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		Logger:            slog.Default(),
	}
}

// Address возвращает адрес для прослушивания.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// TLSEnabled - заданы ли сертификат и ключ.
func (c *ServerConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// ============================================
// Server
// ============================================

// ShutdownHook вызывается после остановки HTTP сервера.
type ShutdownHook func(ctx context.Context) error

// Server - HTTP сервер с graceful shutdown.
type Server struct {
	config     *ServerConfig
	httpServer *http.Server
	hooks      []ShutdownHook

	listening  chan struct{}
	listenOnce sync.Once
	mu         sync.Mutex
	addr       net.Addr
}

// NewServer создаёт HTTP сервер поверх router.
func NewServer(config *ServerConfig, router *gin.Engine) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Server{
		config: config,
		httpServer: &http.Server{
			Handler:           router,
			ReadTimeout:       config.ReadTimeout,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(config.Logger.Handler(), slog.LevelWarn),
		},
		listening: make(chan struct{}),
	}
}

// OnShutdown регистрирует hook, который выполнится после остановки HTTP.
// Hooks выполняются в порядке регистрации.
func (s *Server) OnShutdown(hook ShutdownHook) {
	s.hooks = append(s.hooks, hook)
}

// Handler возвращает HTTP handler сервера (для тестов).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Listening закрывается, когда сервер начал принимать соединения.
func (s *Server) Listening() <-chan struct{} {
	return s.listening
}

// Addr - фактический адрес после старта (важно для порта "0"). До старта nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start занимает адрес и обслуживает запросы до Shutdown.
// HTTPS включается, если в конфигурации заданы сертификат и ключ.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	scheme := "http"
	if s.config.TLSEnabled() {
		scheme = "https"
		s.httpServer.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	s.config.Logger.Info("Starting HTTP server",
		slog.String("address", ln.Addr().String()),
		slog.String("scheme", scheme),
	)
	s.listenOnce.Do(func() { close(s.listening) })

	if s.config.TLSEnabled() {
		err = s.httpServer.ServeTLS(ln, s.config.TLSCertFile, s.config.TLSKeyFile)
	} else {
		err = s.httpServer.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown выполняет graceful shutdown сервера, затем hooks.
// Hooks выполняются даже если HTTP не успел остановиться за ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.config.Logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.config.Logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	for _, hook := range s.hooks {
		if err := hook(shutdownCtx); err != nil {
			s.config.Logger.Error("Shutdown hook failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.config.Logger.Info("HTTP server stopped gracefully")
	return nil
}

// ============================================
// Run with Graceful Shutdown
// ============================================

// Run обслуживает запросы до SIGINT или SIGTERM.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.RunWithContext(ctx)
}

// RunWithContext обслуживает запросы до отмены ctx, затем делает
// graceful shutdown. Ошибка старта (занятый порт) возвращается сразу.
func (s *Server) RunWithContext(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.config.Logger.Info("Stop requested", slog.String("reason", context.Cause(ctx).Error()))
	}

	// ctx уже отменён, на shutdown нужен свежий
	return s.Shutdown(context.WithoutCancel(ctx))
}
