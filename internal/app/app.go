package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skillchain/originality-service/internal/config"
	"github.com/skillchain/originality-service/internal/delivery/httpd"
	"github.com/skillchain/originality-service/internal/repository"
	"github.com/skillchain/originality-service/internal/service"
	"github.com/skillchain/originality-service/internal/service/analyzer"
	"github.com/skillchain/originality-service/internal/service/integration"
	"github.com/skillchain/originality-service/internal/worker"
	"github.com/skillchain/originality-service/internal/worker/queue"
)

type App struct {
	server             *http.Server
	logger             zerolog.Logger
	config             *config.Config
	db                 *sql.DB
	verificationWorker worker.VerificationWorker
	rabbitMQRepo       repository.RabbitMQRepository
	redisClient        *redis.Client
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	rabbitMQRepo, err := repository.NewRabbitMQRepository(cfg.RabbitMQ.URL, log)
	if err != nil {
		return nil, err
	}

	if err := rabbitMQRepo.SetupQueue(
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.QueueName,
		cfg.RabbitMQ.ConsumeKey,
	); err != nil {
		return nil, err
	}

	queuePublisher := queue.NewPublisher(rabbitMQRepo.Channel(), log)
	queueConsumer := queue.NewConsumer(
		rabbitMQRepo.Channel(),
		cfg.RabbitMQ.QueueName,
		cfg.RabbitMQ.ConsumerTag,
		cfg.RabbitMQ.PrefetchCount,
		log,
	)

	submissionRepo := repository.NewSubmissionRepository(db, log)
	assignmentRepo := repository.NewAssignmentRepository(db, log)

	var redisClient *redis.Client
	var verdictCache repository.VerdictCache
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		verdictCache = repository.NewVerdictCache(redisClient, cfg.Redis.TTL, log)
	}

	normalizer := analyzer.NewNormalizer()
	scorer := analyzer.NewScorer(cfg.Verification.MaxExactLength)
	fingerprinter := analyzer.NewFingerprinter(cfg.Verification.HashAlgorithm)

	corpusChecker := analyzer.NewCorpusChecker(
		submissionRepo,
		normalizer,
		scorer,
		fingerprinter,
		cfg.Verification.InternalThreshold,
		log,
	)

	scanClient := integration.NewScanClient(integration.ScanClientConfig{
		BaseURL:     cfg.Scan.URL,
		APIKey:      cfg.Scan.APIKey,
		Timeout:     cfg.Scan.Timeout,
		MaxAttempts: cfg.Scan.MaxAttempts,
		RetryDelay:  cfg.Scan.RetryDelay,
		Threshold:   cfg.Verification.ExternalThreshold,
		Policy:      integration.ParseFailurePolicy(cfg.Scan.FailurePolicy),
	}, log)

	answerKeyMatcher := analyzer.NewAnswerKeyMatcher(
		scorer,
		analyzer.NewKeywordExtractor(analyzer.DefaultStopWords),
		cfg.Verification.AnswerSimilarityThreshold,
		cfg.Verification.KeywordCoverageThreshold,
	)

	originalityService := service.NewOriginalityService(
		normalizer,
		fingerprinter,
		corpusChecker,
		scanClient,
		answerKeyMatcher,
		verdictCache,
		cfg.Verification.OverallDeadline,
		log,
	)

	workerPool := worker.NewWorkerPool(cfg.Verification.MaxWorkers, log)

	verificationWorker := worker.NewVerificationWorker(
		workerPool,
		queueConsumer,
		queuePublisher,
		assignmentRepo,
		originalityService,
		worker.PublishConfig{
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.PublishKey,
		},
		log,
	)

	handler := httpd.NewHandler(originalityService, verificationWorker, log)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:             server,
		logger:             log,
		config:             cfg,
		db:                 db,
		verificationWorker: verificationWorker,
		rabbitMQRepo:       rabbitMQRepo,
		redisClient:        redisClient,
	}, nil
}

func (a *App) Run() error {
	ctx := context.Background()
	if err := a.verificationWorker.Start(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to start verification worker")
		return err
	}

	a.logger.Info().Msgf("Starting originality service on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down originality service...")

	if err := a.verificationWorker.Stop(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to stop verification worker")
	}

	if a.rabbitMQRepo != nil {
		if err := a.rabbitMQRepo.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close Redis client")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		return err
	}

	a.logger.Info().Msg("Originality service stopped")
	return nil
}
