package http

// this is entry point of the admin http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/transfer"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/worker"
	"gitlab.com/fcv-2025.net/fileget/internal/handlers"
	"gitlab.com/fcv-2025.net/fileget/internal/handlers/health"
	"gitlab.com/fcv-2025.net/fileget/internal/handlers/transfers"
	"gitlab.com/fcv-2025.net/fileget/internal/handlers/workers"
)

type ServiceProvider struct {
	workerService   worker.IWorkerRegistryService
	transferService transfer.ITransferLogService
	pool            health.PoolStatus
}

func NewServiceProvider(
	workerService worker.IWorkerRegistryService,
	transferService transfer.ITransferLogService,
	pool health.PoolStatus,
) *ServiceProvider {
	return &ServiceProvider{
		workerService:   workerService,
		transferService: transferService,
		pool:            pool,
	}
}

type Server struct {
	router          *mux.Router
	Addr            string
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger

	srv      *http.Server
	listener net.Listener
	done     chan struct{}
}

func NewServer(addr string, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Addr:            addr,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	mw := handlers.New(s.logger)
	r.Use(mw.Recoverer, mw.RequestLogger)

	health.NewHandler(s.ServiceProvider.pool).Register(r)
	workers.NewHandler(s.ServiceProvider.workerService).Register(r)
	transfers.NewHandler(s.ServiceProvider.transferService, s.logger).Register(r)
	s.router = r
	return nil
}

// Handler returns the routed handler; Init must have been called
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAddr returns the bound address once Start has succeeded
func (s *Server) ListenAddr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("http server not initialized")
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to start http server: %w", err)
	}
	s.listener = ln

	s.srv = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.logger.Info("Server listening", "service", s.ServiceName, "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.logger.Info("Shutting down http server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	<-s.done
	return nil
}
