package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habitat_watch/config"
	"habitat_watch/httputil"
	"habitat_watch/logging"
	"habitat_watch/notify"
	"habitat_watch/report"
	"habitat_watch/scheduler"
	"habitat_watch/scraper"
	"habitat_watch/services"
	"habitat_watch/storage"
	"habitat_watch/workers"
)

var (
	scanNow  = flag.Bool("scan", false, "Run one scan and exit")
	listOnly = flag.Bool("list", false, "Print the filtered residence directory and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("watcher.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting habitat_watch...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Monitoring %s (%d postal prefixes)", cfg.Source.Name, len(cfg.Source.PostalPrefixes))

	clients := httputil.NewClients(time.Duration(cfg.Scanner.TimeoutSec) * time.Second)

	fetcher, err := scraper.NewFetcher(&cfg.Source, clients)
	if err != nil {
		log.Fatalf("Failed to create fetcher: %v", err)
	}
	if bf, ok := fetcher.(*scraper.BrowserFetcher); ok {
		defer bf.Close()
	}

	ctx := context.Background()

	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteStore.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	// Snapshot history stays in SQLite unless a Postgres URL is set
	// (ephemeral hosts where the local file would not survive).
	var snapshots storage.SnapshotStore = sqliteStore
	var pruneTarget storage.PruneStore = sqliteStore
	if cfg.PgURL != "" {
		pgStore, err := storage.NewPostgresStore(ctx, cfg.PgURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgStore.Close()
		snapshots = pgStore
		pruneTarget = pgStore
		log.Println("Snapshot store: Postgres")
	}

	catalog := scraper.NewCatalogClient(&cfg.Source, clients)

	orchestrator := scraper.NewOrchestrator(cfg, fetcher, sqliteStore)
	orchestrator.Progress = report.Progress

	var notifiers notify.Multi
	if tg := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID); tg != nil {
		notifiers = append(notifiers, tg)
		log.Println("Telegram notifications enabled")
	}
	if d := notify.NewDesktop(cfg.Notify.Desktop); d != nil {
		notifiers = append(notifiers, d)
	}
	if s := notify.NewSound(cfg.Notify.Sound); s != nil {
		notifiers = append(notifiers, s)
	}

	var uploader *storage.S3Uploader
	if cfg.Report.S3Bucket != "" {
		uploader, err = storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:          cfg.Report.S3Bucket,
			Region:          cfg.Report.S3Region,
			Endpoint:        cfg.Report.S3Endpoint,
			AccessKeyID:     cfg.Report.S3AccessKeyID,
			SecretAccessKey: cfg.Report.S3SecretKey,
		})
		if err != nil {
			log.Fatalf("Failed to create report uploader: %v", err)
		}
		log.Printf("Report publishing to s3://%s", cfg.Report.S3Bucket)
	}

	monitor := services.NewMonitor(cfg, catalog, orchestrator, snapshots, notifiers, uploader)

	if *listOnly {
		residences, err := monitor.Directory(ctx)
		if err != nil {
			log.Fatalf("Failed to fetch directory: %v", err)
		}
		report.List(residences, cfg.Source.ResidenceURL)
		return
	}

	if *scanNow {
		log.Println("Running scan...")
		if err := monitor.RunOnce(ctx); err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		log.Println("Scan complete!")
		return
	}

	// Daemon mode
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.New(cfg, monitor)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	if cfg.Prune.TTL > 0 {
		pruneWorker := workers.NewPruneWorker(pruneTarget, cfg.Prune.TTL)
		go pruneWorker.Run(ctx, cfg.Prune.Interval)
		log.Printf("Prune worker started (TTL %s)", cfg.Prune.TTL)
	}

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	log.Println("Goodbye!")
}
