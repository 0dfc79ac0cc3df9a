package scraper

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"habitat_watch/config"
	"habitat_watch/models"
)

// RunRecorder persists run rows and per-run log lines. Implemented by
// storage.SQLiteStore; nil disables recording (tests, --list mode).
type RunRecorder interface {
	CreateRun(run *models.ScanRun) (int64, error)
	UpdateRun(run *models.ScanRun) error
	Log(runID *int64, level models.LogLevel, message, residenceID string) error
}

// ProgressFunc is called after each residence is attempted, for the
// terminal report. i is 1-based.
type ProgressFunc func(i, total int, result models.ResidenceResult)

type Orchestrator struct {
	cfg      *config.Config
	fetcher  Fetcher
	recorder RunRecorder
	fallback FallbackMode
	delay    time.Duration

	Progress ProgressFunc
}

func NewOrchestrator(cfg *config.Config, fetcher Fetcher, recorder RunRecorder) *Orchestrator {
	fallback := FallbackFull
	if cfg.Source.Fallback == string(FallbackReduced) {
		fallback = FallbackReduced
	}

	return &Orchestrator{
		cfg:      cfg,
		fetcher:  fetcher,
		recorder: recorder,
		fallback: fallback,
		delay:    time.Duration(cfg.Scanner.DelayMS) * time.Millisecond,
	}
}

// Scan probes every residence in directory order and assembles the run's
// result set plus the ordered (key, status) observations. A failing
// residence never aborts the run: it is recorded with an empty unit
// slice and the loop continues.
func (o *Orchestrator) Scan(ctx context.Context, residences []models.Residence) (*models.ScanResult, []models.Observation, *models.ScanRun) {
	run := &models.ScanRun{
		UUID:            uuid.New().String(),
		StartedAt:       time.Now(),
		Status:          models.RunStatusRunning,
		ResidencesTotal: len(residences),
	}
	if o.recorder != nil {
		if id, err := o.recorder.CreateRun(run); err != nil {
			log.Printf("Warning: failed to create run record: %v", err)
		} else {
			run.ID = id
		}
	}

	o.log(run, models.LogLevelInfo, fmt.Sprintf("Starting scan of %d residences", len(residences)), "")

	result := &models.ScanResult{}
	var observations []models.Observation

	for i, res := range residences {
		rr := o.scanResidence(ctx, run, res)
		result.Results = append(result.Results, rr)

		run.UnitsFound += len(rr.Units)
		if rr.Outcome != models.OutcomeOK {
			run.ResidencesFailed++
		}
		for _, unit := range rr.Units {
			observations = append(observations, models.Observation{
				Key:       models.SnapshotKey(res.ID, unit.UnitType),
				Residence: res,
				Unit:      unit,
			})
		}

		if o.Progress != nil {
			o.Progress(i+1, len(residences), rr)
		}

		// Politeness delay between residences, skipped after the last
		if i < len(residences)-1 && o.delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(o.delay):
			}
		}
		if ctx.Err() != nil {
			break
		}
	}

	now := time.Now()
	run.FinishedAt = &now
	run.Status = models.RunStatusCompleted

	o.log(run, models.LogLevelInfo,
		fmt.Sprintf("Scan complete: %d residences, %d units, %d failed",
			len(result.Results), run.UnitsFound, run.ResidencesFailed), "")

	return result, observations, run
}

func (o *Orchestrator) scanResidence(ctx context.Context, run *models.ScanRun, res models.Residence) models.ResidenceResult {
	rr := models.ResidenceResult{Residence: res, Outcome: models.OutcomeOK}

	fragmentURL, err := ResolveFragmentURL(ctx, o.fetcher, &o.cfg.Source, res.ID)
	if err != nil {
		o.log(run, models.LogLevelWarn, fmt.Sprintf("%s: %v", res.Name, err), res.ID)
		rr.Outcome = models.OutcomeFetchError
		return rr
	}
	if fragmentURL == "" {
		o.log(run, models.LogLevelWarn, fmt.Sprintf("%s: no reservation iframe", res.Name), res.ID)
		rr.Outcome = models.OutcomeNoFragment
		return rr
	}

	fragment, err := o.fetcher.FetchPage(ctx, fragmentURL)
	if err != nil {
		o.log(run, models.LogLevelWarn, fmt.Sprintf("%s: fragment fetch: %v", res.Name, err), res.ID)
		rr.Outcome = models.OutcomeFetchError
		return rr
	}

	rr.Units = Extract(fragment, o.fallback)
	return rr
}

func (o *Orchestrator) log(run *models.ScanRun, level models.LogLevel, message, residenceID string) {
	log.Printf("[%s] %s", level, message)
	if o.recorder != nil {
		o.recorder.Log(&run.ID, level, message, residenceID)
	}
}

// FinishRun writes the final run row once change detection has filled
// in the upgrade count.
func (o *Orchestrator) FinishRun(run *models.ScanRun) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.UpdateRun(run); err != nil {
		log.Printf("Warning: failed to update run record: %v", err)
	}
}
