// Package monitor periodically logs process-wide activity totals so
// operators can watch room churn without polling the HTTP surface.
package monitor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/praveenarya123/real-time-collaborative-canvas/internal/registry"
	"github.com/praveenarya123/real-time-collaborative-canvas/internal/ws"
)

type Config struct {
	Interval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval: time.Minute,
	}
}

type Service struct {
	registry *registry.Registry
	hub      *ws.Hub
	config   Config
	stop     chan struct{}
	wg       sync.WaitGroup
}

func New(reg *registry.Registry, hub *ws.Hub, config Config) *Service {
	return &Service{
		registry: reg,
		hub:      hub,
		config:   config,
		stop:     make(chan struct{}),
	}
}

func (s *Service) Start() {
	s.wg.Add(1)
	go s.run()
	slog.Info("monitor started", "interval", s.config.Interval)
}

func (s *Service) Stop() {
	close(s.stop)
	s.wg.Wait()
	slog.Info("monitor stopped")
}

func (s *Service) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.report()
		}
	}
}

func (s *Service) report() {
	rooms, members, operations := s.registry.Stats()
	slog.Info("activity",
		"rooms", rooms,
		"members", members,
		"operations", operations,
		"connections", s.hub.ClientCount())
}
