package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"neowatch/config"
	nhttp "neowatch/http"
	"neowatch/logger"
	"neowatch/ml"
	"neowatch/monitoring"
	"neowatch/pipeline"
	"neowatch/service"
)

func main() {
	// 1. Load config
	path := config.Locate()
	cfg, err := config.Load(path)
	if os.IsNotExist(err) {
		cfg = config.Default()
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", path, err)
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("config loaded", zap.String("path", path))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Load dataset; any problem here is fatal before we listen
	dataset, err := pipeline.NewDataIngester(cfg.Dataset, log).Load(ctx)
	if err != nil {
		log.Fatal("failed to load dataset", zap.Error(err))
	}

	// 4. Load model
	model, err := ml.LoadModel(cfg.Model.Type, cfg.Model.Path, ml.LoadOptions{ONNXLibraryPath: cfg.Model.ONNXLibrary})
	if err != nil {
		log.Fatal("failed to load model", zap.Error(err))
	}
	if closer, ok := model.(io.Closer); ok {
		defer closer.Close()
	}
	log.Info("model loaded", zap.String("type", cfg.Model.Type), zap.String("path", cfg.Model.Path))

	bins, err := cfg.Bins()
	if err != nil {
		log.Fatal("invalid chart bins", zap.Error(err))
	}
	granularity, err := cfg.Granularity()
	if err != nil {
		log.Fatal("invalid time bucket", zap.Error(err))
	}

	// 5. Wire services
	metrics := monitoring.NewMetricsCollector()
	metrics.SetGauge(monitoring.MetricDatasetRecords, float64(dataset.Len()), nil)
	go metrics.Run(ctx, 15*time.Second)

	classifier := ml.NewClassifier(model,
		ml.WithCache(cfg.Model.CacheSize),
		ml.WithLogger(log.Named("classifier")))

	nhttp.SetMetrics(metrics)
	nhttp.SetPredictionService(service.NewPredictionService(classifier, metrics, log.Named("predict")))
	nhttp.SetVisualizationService(service.NewVisualizationService(dataset, bins, granularity))
	nhttp.SetHealthSource(classifier, cfg.Model.Type, cfg.Model.FailureThreshold)

	pages := nhttp.NewPageLoader(cfg.Pages.IndexPath)
	if cfg.Pages.Watch {
		if err := pages.Watch(ctx); err != nil {
			log.Warn("index page hot reload disabled", zap.Error(err))
		}
	}
	nhttp.SetPageLoader(pages)

	// 6. Start HTTP server
	serverConfig := nhttp.DefaultServerConfig()
	serverConfig.Port = cfg.Http.Port
	serverConfig.Timeout = cfg.Http.Timeout
	serverConfig.AllowedOrigins = cfg.Http.AllowedOrigins
	server := nhttp.NewServer(serverConfig)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// 7. Handle graceful shutdown
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("exiting")
}
