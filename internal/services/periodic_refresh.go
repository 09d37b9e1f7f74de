package services

import (
	"context"
	"log"
	"time"

	"github.com/finnrmn/GraphVisualizerV2/internal/config"
)

// PeriodicRefreshService re-fetches the plan source on a fixed interval
// so the served snapshot and the derived view plans stay warm.
type PeriodicRefreshService struct {
	topology *TopologyService
	config   *config.Config

	stopChan chan struct{}
	running  bool
}

// NewPeriodicRefreshService creates a new periodic refresh service.
func NewPeriodicRefreshService(topology *TopologyService, config *config.Config) *PeriodicRefreshService {
	return &PeriodicRefreshService{
		topology: topology,
		config:   config,
		stopChan: make(chan struct{}),
	}
}

// StartPeriodicRefresh begins the background refresh loop. The interval
// comes from the source configuration.
func (p *PeriodicRefreshService) StartPeriodicRefresh(ctx context.Context) error {
	if p.running {
		return nil
	}

	p.running = true

	interval := p.config.Source.RefreshInterval

	log.Printf("Starting periodic plan refresh every %v", interval)

	go p.refreshLoop(ctx, interval)

	return nil
}

// Stop gracefully stops the periodic refresh.
func (p *PeriodicRefreshService) Stop() {
	if !p.running {
		return
	}

	p.running = false
	close(p.stopChan)
	log.Printf("Stopped periodic refresh service")
}

func (p *PeriodicRefreshService) refreshLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Periodic refresh stopping due to context cancellation")
			return
		case <-p.stopChan:
			log.Printf("Periodic refresh stopping due to stop signal")
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *PeriodicRefreshService) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := p.topology.Refresh(refreshCtx); err != nil {
		log.Printf("Periodic refresh failed: %v", err)
	}
}

// IsRunning returns whether periodic refresh is active.
func (p *PeriodicRefreshService) IsRunning() bool {
	return p.running
}
