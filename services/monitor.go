package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"habitat_watch/config"
	"habitat_watch/models"
	"habitat_watch/notify"
	"habitat_watch/report"
	"habitat_watch/scraper"
	"habitat_watch/storage"
)

// Monitor runs the full scan pipeline: directory, scan, change
// detection, snapshot persistence, report, notifications.
type Monitor struct {
	cfg          *config.Config
	catalog      *scraper.CatalogClient
	orchestrator *scraper.Orchestrator
	snapshots    storage.SnapshotStore
	notifiers    notify.Multi
	uploader     *storage.S3Uploader
}

func NewMonitor(
	cfg *config.Config,
	catalog *scraper.CatalogClient,
	orchestrator *scraper.Orchestrator,
	snapshots storage.SnapshotStore,
	notifiers notify.Multi,
	uploader *storage.S3Uploader,
) *Monitor {
	return &Monitor{
		cfg:          cfg,
		catalog:      catalog,
		orchestrator: orchestrator,
		snapshots:    snapshots,
		notifiers:    notifiers,
		uploader:     uploader,
	}
}

// Directory fetches the catalog and filters it down to the monitored
// residences, sorted by (postal code, name).
func (m *Monitor) Directory(ctx context.Context) ([]models.Residence, error) {
	catalog, err := m.catalog.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	residences := scraper.FilterDirectory(catalog, m.cfg.Source.PostalPrefixes, scraper.ExcludeFilter(&m.cfg.Source))
	log.Printf("Directory: %d residences match", len(residences))
	return residences, nil
}

// RunOnce executes one complete scan. Per-residence failures are
// absorbed by the orchestrator; only catalog fetch and snapshot store
// errors abort the run, since without them the diff is meaningless.
func (m *Monitor) RunOnce(ctx context.Context) error {
	residences, err := m.Directory(ctx)
	if err != nil {
		return fmt.Errorf("directory: %w", err)
	}

	prev, err := m.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	result, observations, run := m.orchestrator.Scan(ctx, residences)

	events := DetectUpgrades(observations, prev, &m.cfg.Source)
	merged := MergeSnapshot(prev, observations)

	if err := m.snapshots.SaveSnapshot(ctx, merged, ObservedKeys(observations)); err != nil {
		run.Status = models.RunStatusFailed
		m.orchestrator.FinishRun(run)
		return fmt.Errorf("save snapshot: %w", err)
	}

	run.Upgrades = len(events)
	m.orchestrator.FinishRun(run)

	m.publishReport(ctx, result)
	m.notifyUpgrades(ctx, events)
	report.Summary(result, events, m.cfg.Source.ResidenceURL)

	return nil
}

func (m *Monitor) publishReport(ctx context.Context, result *models.ScanResult) {
	page, err := report.WriteHTML(result, m.cfg.Source.Name, time.Now(), m.cfg.Source.ResidenceURL, m.cfg.Report.Dir)
	if err != nil {
		log.Printf("Warning: report generation failed: %v", err)
		return
	}

	if m.uploader != nil {
		if err := m.uploader.Upload(ctx, "index.html", bytes.NewReader(page), "text/html; charset=utf-8"); err != nil {
			log.Printf("Warning: report upload failed: %v", err)
		}
	}
}

func (m *Monitor) notifyUpgrades(ctx context.Context, events []models.UpgradeEvent) {
	if len(events) == 0 {
		log.Println("No new availability since last run")
		return
	}

	log.Printf("%d upgrade(s) detected", len(events))
	title, text := notify.FormatUpgrades(events)
	if err := m.notifiers.Send(ctx, title, text); err != nil {
		log.Printf("Warning: notification delivery: %v", err)
	}
}
