package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"habitat_watch/config"
	"habitat_watch/services"
)

type Scheduler struct {
	cfg     *config.Config
	monitor *services.Monitor
	cron    *cron.Cron
	ticker  *time.Ticker
	stopCh  chan struct{}
}

func New(cfg *config.Config, monitor *services.Monitor) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		monitor: monitor,
		cron:    cron.New(),
		stopCh:  make(chan struct{}),
	}
}

// Start arms either the cron expression or the fixed interval. Scans
// never overlap within one process: both paths run in a single
// goroutine per trigger source and RunOnce blocks until done.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Scheduler.Cron != "" {
		log.Printf("Starting scheduler with cron: %s", s.cfg.Scheduler.Cron)
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() {
			if err := s.monitor.RunOnce(ctx); err != nil {
				log.Printf("Scheduled scan error: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.Scheduler.Interval > 0 {
		log.Printf("Starting scheduler with interval: %s", s.cfg.Scheduler.Interval)
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					if err := s.monitor.RunOnce(ctx); err != nil {
						log.Printf("Scheduled scan error: %v", err)
					}
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		return fmt.Errorf("no schedule configured: set SCAN_CRON or SCAN_INTERVAL")
	}

	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}
