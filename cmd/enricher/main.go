package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"search-enrichment-service/internal/domain/repository"
	"search-enrichment-service/internal/infrastructure/config"
	"search-enrichment-service/internal/infrastructure/messaging"
	"search-enrichment-service/internal/infrastructure/persistence"
	"search-enrichment-service/internal/infrastructure/router"
	"search-enrichment-service/internal/interface/rabbitmq"
	searchRepo "search-enrichment-service/internal/interface/repository"
	"search-enrichment-service/internal/interface/stream"
	"search-enrichment-service/internal/usecase"
	"search-enrichment-service/pkg/logger"
	"search-enrichment-service/pkg/metrics"
	"search-enrichment-service/pkg/utils"
	"search-enrichment-service/templates"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Search Enrichment Service", "version", cfg.AppVersion)

	// Set up context with cancellation on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Reference data, loaded once and shared read-only
	rates, err := searchRepo.LoadRatesFile(cfg.RatesFile)
	if err != nil {
		log.Fatal("Failed to load currency rates", "file", cfg.RatesFile, "error", err)
	}
	log.Info("Currency rates loaded", "date", rates.Date(), "currencies", rates.Len())

	geo, err := searchRepo.LoadGeographyFile(cfg.GeoFile)
	if err != nil {
		log.Fatal("Failed to load geography", "file", cfg.GeoFile, "error", err)
	}
	log.Info("Geography loaded", "locations", geo.Len())

	encoder, err := utils.GetEncoder(cfg.OutputFormat)
	if err != nil {
		log.Fatal("Invalid output format", "error", err)
	}

	// Input source: a local file for dry runs, the input queue otherwise
	var source repository.InputSource
	var sinks []repository.SearchSink

	inputFile := cfg.InputFile
	if len(os.Args) > 1 {
		inputFile = os.Args[1]
	}

	if inputFile != "" {
		fileSource, err := stream.OpenFile(inputFile)
		if err != nil {
			log.Fatal("Failed to open input file", "error", err)
		}
		defer fileSource.Close()
		source = fileSource
		log.Info("Reading input file, queue transport disabled", "file", inputFile)
	} else {
		log.Info("Connecting to RabbitMQ")
		conn, err := messaging.NewConnection(cfg.AMQPURL)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", "error", err)
		}
		defer conn.Close()

		for _, queue := range []string{cfg.InputQueue, cfg.OutputQueue} {
			if err := conn.DeclareQueue(queue); err != nil {
				log.Fatal("Failed to declare queue", "queue", queue, "error", err)
			}
		}

		consumer, err := rabbitmq.NewQueueConsumer(conn.Channel, cfg.InputQueue, log)
		if err != nil {
			log.Fatal("Failed to consume input queue", "error", err)
		}
		source = consumer
		sinks = append(sinks, searchRepo.NewQueueSearchRepository(conn.Channel, cfg.OutputQueue, log))
	}

	// Optional MongoDB document sink
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Error("MongoDB disconnect error", "error", err)
			}
		}()

		mongoRepo, err := searchRepo.NewMongoSearchRepository(ctx, db)
		if err != nil {
			log.Fatal("Failed to prepare search collection", "error", err)
		}
		sinks = append(sinks, mongoRepo)
	}

	// Optional PostgreSQL analytics tables
	if cfg.PostgresURI != "" {
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		tableRepo := searchRepo.NewGormSearchRepository(gormDB)
		if err := tableRepo.Migrate(ctx); err != nil {
			log.Fatal("Failed to migrate search tables", "error", err)
		}
		sinks = append(sinks, tableRepo)
	}

	// Pipeline
	m := metrics.NewMetrics("search_enrichment", prometheus.DefaultRegisterer)
	enricher := usecase.NewEnricher(geo, rates)
	processor := usecase.NewSearchProcessor(enricher, sinks, encoder, m, log)

	formatRouter := router.NewFormatRouter(log)
	formatRouter.Register(templates.NewAggregatedSearchHandler(processor))
	formatRouter.Register(templates.NewRecommendationLineHandler(processor))

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	start := time.Now()
	runErr := processor.Run(ctx, source, formatRouter, cfg.PollTimeout)
	switch {
	case runErr == nil, errors.Is(runErr, context.Canceled):
	default:
		log.Error("Processing stopped", "error", runErr)
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("Search Enrichment Service stopped",
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"stats", processor.Stats())
}
