package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Vishal4742/sonica/internal/audio"
	"github.com/Vishal4742/sonica/internal/auth"
	"github.com/Vishal4742/sonica/internal/cache"
	"github.com/Vishal4742/sonica/internal/catalogue"
	"github.com/Vishal4742/sonica/internal/catalogue/search"
	"github.com/Vishal4742/sonica/internal/config"
	"github.com/Vishal4742/sonica/internal/database"
	"github.com/Vishal4742/sonica/internal/handlers"
	"github.com/Vishal4742/sonica/internal/ingestion"
	"github.com/Vishal4742/sonica/internal/kernel"
	"github.com/Vishal4742/sonica/internal/logger"
	"github.com/Vishal4742/sonica/internal/metrics"
	"github.com/Vishal4742/sonica/internal/middleware"
	"github.com/Vishal4742/sonica/internal/recognition"
	"github.com/Vishal4742/sonica/internal/storage"
	"github.com/Vishal4742/sonica/internal/telemetry"
	"github.com/Vishal4742/sonica/internal/vectorindex"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func main() {
	// Not fatal: system environment variables are a valid source on their
	// own, e.g. in a container with no .env file.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Close()

	logger.Log.Info("=== recognition service starting ===")

	var tracerProvider *trace.TracerProvider
	if cfg.OTELEnabled {
		tCfg := telemetry.Config{
			ServiceName:  cfg.OTELServiceName,
			Environment:  cfg.OTELEnvironment,
			OTLPEndpoint: cfg.OTELExporterEndpoint,
			Enabled:      true,
			SamplingRate: cfg.OTELTraceSamplerRate,
		}
		tracerProvider, err = telemetry.InitTracer(tCfg)
		if err != nil {
			logger.Log.Warn("failed to initialize OpenTelemetry", zap.Error(err))
		} else {
			logger.Log.Info("OpenTelemetry tracing enabled",
				zap.String("service", tCfg.ServiceName),
				zap.Float64("sampling_rate", tCfg.SamplingRate),
			)
			defer func() {
				if shutdownErr := tracerProvider.Shutdown(context.Background()); shutdownErr != nil {
					logger.Log.Error("failed to shutdown tracer provider", zap.Error(shutdownErr))
				}
			}()
		}
	}

	var redisClient *cache.RedisClient
	if cfg.RedisHost != "" {
		redisClient, err = cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
		if err != nil {
			logger.Log.Warn("failed to connect to redis, continuing without a cache client", zap.Error(err))
			redisClient = nil
		}
	} else {
		logger.Log.Info("redis not configured (REDIS_HOST not set)")
	}

	if err := database.Initialize(cfg); err != nil {
		logger.FatalWithFields("failed to initialize database", err)
	}
	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("failed to run migrations", err)
	}

	metrics.Initialize()
	logger.Log.Info("prometheus metrics initialized")

	vectorClient := vectorindex.New(vectorindex.Config{
		APIKey:      cfg.VectorDBAPIKey,
		Environment: cfg.VectorDBEnvironment,
		IndexName:   cfg.VectorDBIndexName,
		BaseURL:     cfg.VectorIndexBaseURL(),
	})

	songCatalogue := catalogue.New(database.DB)

	var searchClient *search.Client
	if cfg.ElasticsearchURL != "" {
		searchClient, err = search.NewClient(cfg.ElasticsearchURL)
		if err != nil {
			logger.Log.Warn("failed to initialize elasticsearch, catalogue search disabled", zap.Error(err))
			searchClient = nil
		} else if err := searchClient.InitializeIndex(context.Background()); err != nil {
			logger.Log.Warn("failed to initialize elasticsearch song index", zap.Error(err))
		} else {
			logger.Log.Info("elasticsearch song index initialized")
		}
	}

	var s3Uploader *storage.S3Uploader
	if cfg.AudioBucket != "" {
		s3Uploader, err = storage.NewS3Uploader(cfg.AWSRegion, cfg.AudioBucket, cfg.AudioBucketBaseURL)
		if err != nil {
			logger.Log.Warn("failed to initialize s3 uploader, raw audio blob storage disabled", zap.Error(err))
			s3Uploader = nil
		} else if err := s3Uploader.CheckBucketAccess(context.Background()); err != nil {
			logger.Log.Warn("s3 bucket access check failed, raw audio blob storage may fail", zap.Error(err))
		}
	}

	if len(cfg.JWTSecret) == 0 {
		logger.FatalWithFields("JWT_SECRET environment variable is required", nil)
	}
	authService := auth.NewService([]byte(cfg.JWTSecret))

	decoder := audio.NewReferenceDecoder(audio.DefaultReferenceConfig())

	recognizer := recognition.New(decoder, vectorClient, songCatalogue, recognition.Config{
		Dimensions:    cfg.VectorDBDimensions,
		Threshold:     cfg.RecognitionThreshold,
		MaxCandidates: cfg.RecognitionMaxCandidates,
	})

	var blobStore ingestion.BlobStore
	if s3Uploader != nil {
		blobStore = s3Uploader
	}
	ingester := ingestion.New(decoder, vectorClient, songCatalogue, blobStore, cfg.VectorDBDimensions)

	appKernel := kernel.New().
		WithDB(database.DB).
		WithLogger(logger.Log).
		WithCache(redisClient).
		WithVectorIndex(vectorClient).
		WithCatalogue(songCatalogue).
		WithAuthService(authService).
		WithDecoder(decoder).
		WithRecognizer(recognizer).
		WithIngester(ingester)

	if searchClient != nil {
		appKernel.WithSearchClient(searchClient)
	}
	if s3Uploader != nil {
		appKernel.WithS3Uploader(s3Uploader)
	}

	if err := appKernel.Validate(); err != nil {
		logger.FatalWithFields("dependency container validation failed", err)
	}
	logger.Log.Info("dependency injection container initialized")

	appKernel.OnCleanup(func(ctx context.Context) error {
		if redisClient != nil {
			return redisClient.Close()
		}
		return nil
	})

	h := handlers.New(appKernel, cfg.MaxAudioSize, cfg.MinAudioDuration, cfg.MaxAudioDuration, cfg.VectorDBDimensions)

	r := gin.New()

	corsConfig := cors.DefaultConfig()
	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		origins := strings.FieldsFunc(allowedOrigins, func(r rune) bool { return r == ',' })
		valid := make([]string, 0, len(origins))
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" || strings.Contains(origin, "*") {
				logger.Log.Warn("CORS misconfiguration: wildcard origins are not allowed", zap.String("rejected_origin", origin))
				continue
			}
			if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
				logger.Log.Warn("CORS misconfiguration: origin must use http:// or https://", zap.String("rejected_origin", origin))
				continue
			}
			valid = append(valid, origin)
		}
		if len(valid) == 0 {
			valid = []string{"http://localhost:3000"}
		}
		corsConfig.AllowOrigins = valid
	} else if cfg.Environment == "development" || cfg.Environment == "test" {
		corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	} else {
		corsConfig.AllowOrigins = []string{}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 86400
	r.Use(cors.New(corsConfig))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CorrelationMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	if cfg.OTELEnabled {
		r.Use(middleware.TracingMiddleware(cfg.OTELServiceName))
	}
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics", "/internal/metrics"})))

	r.GET("/internal/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/v1/health", h.Health)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit())
	{
		api.POST("/recognize", middleware.RateLimitRecognize(), h.Recognize)
		api.POST("/recognize/stream", middleware.RateLimitRecognize(), h.RecognizeStreaming)
		api.GET("/recognition/stats", h.RecognitionStats)

		api.POST("/songs", middleware.RateLimitIngest(), h.AddSong)
		api.GET("/songs/search", h.SearchSongs)

		history := api.Group("/recognition/history")
		history.Use(middleware.RequireAuth(authService))
		{
			history.GET("", h.GetHistory)
			history.DELETE("/:id", h.DeleteHistory)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("recognition service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := appKernel.Cleanup(ctx); err != nil {
		logger.Log.Error("error during application cleanup", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithFields("server forced to shutdown", err)
	}

	logger.Log.Info("server exited")
}
