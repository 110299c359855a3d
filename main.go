package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"catalog-dashboard/config"
	"catalog-dashboard/dashboard"
	"catalog-dashboard/models"
	"catalog-dashboard/services"
	"catalog-dashboard/snapshot"
	"catalog-dashboard/storage"
	"catalog-dashboard/utils"
)

func main() {
	// ================== Bootstrap ====================
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := utils.NewLoggerWith(os.Stderr, cfg.LogLevel, cfg.Environment)

	logger.Info("Netflix Catalog Dashboard")
	logger.Info("Data file: %s | Cache size: %d", cfg.CSVPath, cfg.CacheSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =============== Load ===================================
	loader := services.NewLoader(logger)
	cache, err := services.NewCatalogCache(loader, cfg.CacheSize, logger)
	if err != nil {
		logger.Error("Failed to create catalog cache: %v", err)
		os.Exit(1)
	}

	cat, err := cache.Get(cfg.CSVPath)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	// ==== Insights ============================
	services.PrintInsightReport(os.Stdout, cat)

	// ========= Exports ===========================
	if err := export(ctx, cfg, cat, logger); err != nil {
		logger.Error("Export failed: %v", err)
		os.Exit(1)
	}

	// ========= Dashboard ===========================
	shooter := snapshot.NewScreenshotter(snapshot.Options{
		Width:   cfg.SnapshotWidth,
		Height:  cfg.SnapshotHeight,
		Timeout: cfg.ChromeTimeout,
	}, cfg.SnapshotDelay, logger)

	opts := dashboard.Options{
		CSVPath:      cfg.CSVPath,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if snapshot.BrowserAvailable() {
		opts.Renderer = shooter
	}
	server := dashboard.NewServer(opts, cache, logger)

	if cfg.SnapshotPath != "" {
		if err := captureDashboard(ctx, server, shooter, cfg.SnapshotPath, logger); err != nil {
			logger.Error("Dashboard screenshot failed: %v", err)
			os.Exit(1)
		}
	}

	if !cfg.Serve {
		return
	}

	watcher, err := services.NewCatalogWatcher(cfg.CSVPath, cache, func(path string) {
		if _, err := cache.Get(path); err != nil {
			logger.Warn("Reload after change failed: %v", err)
		}
	}, logger)
	if err != nil {
		logger.Warn("File watching disabled: %v", err)
	} else {
		defer watcher.Close()
		go watcher.Run(ctx)
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		logger.Error("Cannot listen on %s: %v", cfg.ListenAddr, err)
		os.Exit(1)
	}
	if err := server.Serve(ctx, ln); err != nil {
		logger.Error("Dashboard server failed: %v", err)
		os.Exit(1)
	}
}

// export writes the aggregate tables to every configured sink
func export(ctx context.Context, cfg *config.Config, cat *models.Catalog, logger *utils.Logger) error {
	var writers []storage.TableWriter
	if cfg.ExportDir != "" {
		writers = append(writers, storage.NewCSVWriter(cfg.ExportDir, logger))
	}
	if cfg.XLSXPath != "" {
		writers = append(writers, storage.NewXLSXWriter(cfg.XLSXPath, logger))
	}
	for _, w := range writers {
		if err := w.WriteAggregates(cat); err != nil {
			return err
		}
	}

	if cfg.DBURL == "" {
		return nil
	}
	db, err := storage.NewSQLWriter(cfg.DBDriver, cfg.DBURL, cfg.MaxRetries, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.CreateTables(ctx); err != nil {
		return err
	}
	runID := uuid.NewString()
	if err := db.SaveSnapshot(ctx, runID, cat); err != nil {
		return err
	}
	logger.Info("Snapshot stored in %s as run %s", cfg.DBDriver, runID)
	return nil
}

// captureDashboard serves the dashboard on an ephemeral port just long enough
// to screenshot it
func captureDashboard(ctx context.Context, server *dashboard.Server, shooter *snapshot.Screenshotter, path string, logger *utils.Logger) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}

	serveCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- server.Serve(serveCtx, ln) }()

	err = shooter.CaptureToFile(ctx, "http://"+ln.Addr().String()+"/", path)
	cancel()
	if serveErr := <-done; serveErr != nil {
		logger.Warn("Snapshot server stopped with error: %v", serveErr)
	}
	return err
}
