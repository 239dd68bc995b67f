package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/adapters/cache"
	eventadapter "github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/adapters/events"
	httpadapter "github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/adapters/http"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/adapters/openai"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/adapters/postgres"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/adapters/vectorindex"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/application"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	service    *application.Service
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	outbox     *eventadapter.OutboxWorker
	consumer   *eventadapter.ConsumerWorker
	backfill   *eventadapter.BackfillWorker
	indexReady atomic.Bool
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	cacheStore := cache.NewRedisCache(redisClient)

	embedder := openai.NewClient(openai.Config{
		BaseURL:   cfg.OpenAIBaseURL,
		APIKey:    cfg.OpenAIAPIKey,
		Model:     cfg.EmbeddingModel,
		Dimension: cfg.EmbeddingDim,
		Timeout:   cfg.OpenAITimeout,
	})
	index := vectorindex.NewMemory(cfg.EmbeddingDim)

	repos := postgres.NewRepositories(db)
	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName: cfg.ServiceID,
			Weights: application.ScoreWeights{
				Similarity: cfg.WeightSimilarity,
				Niche:      cfg.WeightNiche,
				Audience:   cfg.WeightAudience,
				Engagement: cfg.WeightEngagement,
				Budget:     cfg.WeightBudget,
			},
			AssumedCreatorCount: cfg.AssumedCreatorCount,
			MinCandidateFetch:   cfg.MinCandidateFetch,
			OverFetchFactor:     cfg.OverFetchFactor,
			EmbeddingCacheTTL:   cfg.EmbeddingCacheTTL,
			EventDedupTTL:       cfg.EventDedupTTL,
			HydrateConcurrency:  cfg.HydrateConcurrency,
			BackfillBatchSize:   cfg.BackfillBatchSize,
		},
		Creators:   repos.Creators,
		Campaigns:  repos.Campaigns,
		Matches:    repos.Matches,
		Outbox:     repos.Outbox,
		EventDedup: repos.EventDedup,
		Index:      index,
		Embedder:   embedder,
		Cache:      cacheStore,
	})

	runtime := &Runtime{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}

	handler := httpadapter.NewHandler(service, runtime.indexReady.Load)
	router := httpadapter.NewRouter(handler, logger)
	runtime.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		_ = redisClient.Close()
		_ = sqlDB.Close()
		return nil, err
	}
	runtime.grpcServer = grpcServer
	runtime.grpcLis = lis

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	consumerAdapter := eventadapter.Consumer(eventadapter.NewNoopConsumer())
	var closers []io.Closer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			application.EventTypeMatchCompleted:  cfg.KafkaTopicMatchCompleted,
			application.EventTypeCreatorEmbedded: cfg.KafkaTopicCreatorEmbedded,
		})
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}

		kafkaConsumer, conErr := eventadapter.NewKafkaConsumer(
			cfg.KafkaBrokers,
			cfg.KafkaConsumerGroup,
			[]string{cfg.KafkaTopicCreatorUpdated, cfg.KafkaTopicCreatorDeleted, cfg.KafkaTopicCreatorEmbedded},
		)
		if conErr != nil {
			logger.WarnContext(ctx, "kafka consumer disabled, using noop consumer", "error", conErr)
		} else {
			consumerAdapter = kafkaConsumer
			closers = append(closers, kafkaConsumer)
		}
	}
	runtime.outbox = eventadapter.NewOutboxWorker(logger, repos.Outbox, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
	runtime.consumer = eventadapter.NewConsumerWorker(logger, consumerAdapter, service, eventadapter.Topics{
		CreatorUpdated:  cfg.KafkaTopicCreatorUpdated,
		CreatorDeleted:  cfg.KafkaTopicCreatorDeleted,
		CreatorEmbedded: cfg.KafkaTopicCreatorEmbedded,
	}, cfg.ConsumerPollInterval)
	runtime.backfill = eventadapter.NewBackfillWorker(logger, service, cfg.BackfillInterval, cfg.BackfillBatchSize, cfg.BackfillConcurrency)
	runtime.cleanupFn = func(ctx context.Context) {
		for _, closer := range closers {
			_ = closer.Close()
		}
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}
	return runtime, nil
}

func Build(ctx context.Context, configPath string) (*Runtime, error) {
	return NewRuntime(ctx, configPath)
}

// warmIndex replays stored embeddings into the in-process index. Readiness
// flips only after the replay finishes so queries never see a cold index.
func (r *Runtime) warmIndex(ctx context.Context) {
	start := time.Now()
	count, err := r.service.RebuildIndex(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "index warmup failed",
			"module", "bootstrap.runtime",
			"operation", "warm_index",
			"outcome", "failure",
			"error", err,
		)
		return
	}
	r.indexReady.Store(true)
	r.logger.InfoContext(ctx, "index warmup complete",
		"module", "bootstrap.runtime",
		"operation", "warm_index",
		"outcome", "success",
		"creators_indexed", count,
		"duration", time.Since(start),
	)
}

// RunAPI serves HTTP and gRPC health, warms the index in the background and
// keeps the creator-event consumer in-process so the index stays coherent.
func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go r.warmIndex(ctx)
	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		if err := r.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

// RunWorker runs the outbox relay and the embedding backfill sweep.
func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.backfill.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		r.cleanupFn(context.Background())
		return nil
	case err := <-errCh:
		r.cleanupFn(context.Background())
		return err
	}
}
