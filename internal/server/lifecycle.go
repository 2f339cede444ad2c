// Package server runs the process's long-lived services and shuts them down
// on a signal, on a service failure, or when a service finishes on its own.
package server

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service represents a long-running component that can be started and stopped.
type Service interface {
	// Start runs the service. It blocks until the service is stopped, its
	// work is done, or an error occurs.
	Start() error
	// Stop asks a running service to return from Start.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle manages the startup and shutdown of multiple services.
// Services are started in order and stopped in reverse order.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
	mu       sync.Mutex
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		logger: logger,
	}
}

// Add registers a named service for lifecycle management.
// Services are started in the order they are added.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// exit reports a service returning from Start.
type exit struct {
	name string
	err  error
}

// Run starts all services and blocks until SIGINT or SIGTERM arrives, ctx is
// cancelled, or any service returns from Start. Every service is then
// stopped in reverse order.
//
// Postcondition: All services are stopped when this method returns; the
// returned error is the failure of the first service to exit, if it failed.
func (l *Lifecycle) Run(ctx context.Context) error {
	began := time.Now()

	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	exits := make(chan exit, len(services))
	for _, ns := range services {
		l.logger.Info("starting service", zap.String("service", ns.name))
		go func() {
			exits <- exit{name: ns.name, err: ns.service.Start()}
		}()
	}
	l.logger.Info("all services started", zap.Int("count", len(services)))

	var runErr error
	select {
	case ex := <-exits:
		if ex.err != nil {
			runErr = fmt.Errorf("service %s: %w", ex.name, ex.err)
			l.logger.Error("service error, shutting down", zap.Error(runErr))
			break
		}
		l.logger.Info("service finished, shutting down", zap.String("service", ex.name))
	case <-ctx.Done():
		l.logger.Info("interrupted, shutting down", zap.Error(context.Cause(ctx)))
	}

	for i := len(services) - 1; i >= 0; i-- {
		l.logger.Debug("stopping service", zap.String("service", services[i].name))
		services[i].service.Stop()
	}

	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(began)))
	return runErr
}
