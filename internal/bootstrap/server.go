// 文件路径: internal/bootstrap/server.go
// 模块说明: HTTP 服务的监听、运行与优雅退出。
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/creamcroissant/mdpserve/internal/config"
)

const defaultShutdownTimeout = 5 * time.Second

// NewHTTPServer constructs a baseline http.Server with conservative defaults.
// WriteTimeout stays unset so large assets are not cut off on slow links.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MiB
	}
}

// Server is an http.Server whose socket is already bound.
type Server struct {
	srv             *http.Server
	listener        net.Listener
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// Listen binds cfg.Addr immediately so that errors such as EADDRINUSE surface
// before anything is printed.
func Listen(cfg config.HTTPConfig, handler http.Handler, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return &Server{
		srv:             NewHTTPServer(cfg.Addr, handler),
		listener:        ln,
		shutdownTimeout: timeout,
		logger:          logger,
	}, nil
}

// Addr returns the bound address, useful when cfg.Addr used port 0.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// URL is the address a local browser should open.
func (s *Server) URL() string {
	port := 0
	if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	return "http://localhost:" + strconv.Itoa(port)
}

// Run serves until ctx is cancelled and then shuts down within the configured
// timeout. A cancelled context is a clean exit and returns nil.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("graceful shutdown incomplete, closing connections", "error", err)
		_ = s.srv.Close()
	}
	<-errCh
	return nil
}

// Close releases the listener without serving. Used when startup fails after
// the bind.
func (s *Server) Close() error {
	return s.listener.Close()
}
