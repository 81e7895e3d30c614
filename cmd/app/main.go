package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	v1 "monitor/internal/controller/http/v1"
	"monitor/internal/domain/entity"
	"monitor/internal/domain/usecase"
	"monitor/internal/observability"
	"monitor/internal/repository/llm"
	"monitor/internal/repository/mlworker"
	psqlRepo "monitor/internal/repository/psql"
	rabbitRepo "monitor/internal/repository/rabbitmq"
	statusRepo "monitor/internal/repository/redis"
	s3Repo "monitor/internal/repository/s3"
	"monitor/internal/simulator"
	"monitor/pkg/client/psql"
	redisGo "monitor/pkg/client/redis"
	s3ClientGo "monitor/pkg/client/s3"
	"monitor/pkg/middleware"
)

type Config struct {
	HTTPAddr string
	APIToken string

	RedisAddr string
	RedisDB   int

	PSQLHost     string
	PSQLPort     int
	PSQLUser     string
	PSQLPassword string
	PSQLDBName   string
	PSQLSSLMode  string

	S3Host      string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	RabbitMQURL string

	MLPythonBin        string
	MLScriptPath       string
	MLTimeoutSec       int
	MLMaxConcurrency   int
	LLMURL             string
	LLMModel           string
	LLMTimeoutSec      int
	CollectIntervalSec int
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	redisClient, err := redisGo.NewRedisClient(ctx, redisGo.Config{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	// No collection or analysis can run without the store; exit rather
	// than degrade.
	db, err := psql.NewPostgresDB(psql.Config{
		Host:     cfg.PSQLHost,
		User:     cfg.PSQLUser,
		Password: cfg.PSQLPassword,
		DBName:   cfg.PSQLDBName,
		Port:     cfg.PSQLPort,
		SslMode:  cfg.PSQLSSLMode,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	if err := db.AutoMigrate(&entity.SensorReading{}, &entity.PredictionResult{}, &entity.AnalysisRecord{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	sensorRepo := psqlRepo.NewGormSensorDataRepo(db)
	predictionRepo := psqlRepo.NewGormPredictionRepo(db)
	analysisRepo := psqlRepo.NewGormAnalysisRepo(db)
	statusCache := statusRepo.NewRedisRepo(redisClient)

	s3Client, err := s3ClientGo.NewS3Client(cfg.S3Host, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("failed to init s3 client: %v", err)
	}
	exportRepo := s3Repo.NewExportRepo(s3Client)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()

	alertPublisher, err := rabbitRepo.NewAlertPublisher(conn, "alerts.exchange", "alerts.anomaly")
	if err != nil {
		log.Fatalf("failed to init alert publisher: %v", err)
	}

	metrics := observability.NewPromMetrics()

	worker := mlworker.NewProcessWorker(mlworker.Config{
		Bin:            cfg.MLPythonBin,
		Args:           []string{cfg.MLScriptPath},
		Timeout:        time.Duration(cfg.MLTimeoutSec) * time.Second,
		MaxConcurrency: cfg.MLMaxConcurrency,
	})
	llmClient := llm.NewClient(cfg.LLMURL, cfg.LLMModel, time.Duration(cfg.LLMTimeoutSec)*time.Second)

	predictor := usecase.NewPredictorUseCase(worker, metrics)
	collector := usecase.NewCollectorUseCase(
		simulator.NewSource("System"),
		predictor,
		sensorRepo,
		predictionRepo,
		statusCache,
		alertPublisher,
		metrics,
	)
	analyzer := usecase.NewAnalysisUseCase(sensorRepo, predictionRepo, analysisRepo, llmClient, metrics)
	exporter := usecase.NewExportUseCase(sensorRepo, exportRepo)

	scheduler := usecase.NewScheduler(func() {
		collector.Collect(context.Background())
	})
	if err := scheduler.Start(cfg.CollectIntervalSec); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	handler := v1.NewMonitorHandler(collector, predictor, analyzer, exporter, scheduler)

	r := gin.Default()
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RedisClient: redisClient,
		Limit:       10,
		Window:      time.Second,
		KeyPrefix:   "rl:",
	})

	v1Group := r.Group("/api/v1", middleware.APIKeyAuthMiddleware(cfg.APIToken), rl)
	{
		v1Group.POST("/collect", handler.Collect)
		v1Group.POST("/predict", handler.Predict)
		v1Group.POST("/analysis", handler.Analyze)
		v1Group.GET("/analysis/recent", handler.RecentAnalyses)
		v1Group.GET("/settings/interval", handler.GetInterval)
		v1Group.PUT("/settings/interval", handler.SetInterval)
		v1Group.GET("/sensor-data/recent", handler.RecentSensorData)
		v1Group.GET("/predictions/recent", handler.RecentPredictions)
		v1Group.GET("/machines/:machine_id/status", handler.MachineStatus)
		v1Group.POST("/exports", handler.CreateExport)
	}

	go func() {
		if err := r.Run(cfg.HTTPAddr); err != nil {
			log.Fatalf("http server stopped: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down monitor service...")
}

func loadConfig() Config {
	if err := godotenv.Load("./.env.local"); err != nil {
		log.Println("No .env file found. Falling back to OS environment variables.")
	}
	mustGetEnv := func(key string) string {
		val := os.Getenv(key)
		if val == "" {
			log.Fatalf("Environment variable %s is not set", key)
		}
		return val
	}
	getEnvDefault := func(key, fallback string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return fallback
	}
	mustAtoi := func(key, val string) int {
		n, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("Invalid %s value: %v", key, err)
		}
		return n
	}

	// REDIS
	redisHost := mustGetEnv("REDIS_HOST")
	redisPort := mustGetEnv("REDIS_PORT")
	redisDB := mustAtoi("REDIS_DB", getEnvDefault("REDIS_DB", "0"))

	// PSQL
	psqlPort := mustAtoi("PSQL_PORT", mustGetEnv("PSQL_PORT"))

	// RABBITMQ
	rmqUser := mustGetEnv("RABBITMQ_USER")
	rmqPassword := mustGetEnv("RABBITMQ_PASSWORD")
	rmqHost := mustGetEnv("RABBITMQ_HOST")
	rmqPort := mustGetEnv("RABBITMQ_PORT")
	rabbitMQURL := "amqp://" + rmqUser + ":" + rmqPassword + "@" + rmqHost + ":" + rmqPort + "/"

	return Config{
		HTTPAddr: getEnvDefault("HTTP_ADDR", ":8080"),
		APIToken: mustGetEnv("API_TOKEN"),

		RedisAddr: redisHost + ":" + redisPort,
		RedisDB:   redisDB,

		PSQLHost:     mustGetEnv("PSQL_HOST"),
		PSQLPort:     psqlPort,
		PSQLUser:     mustGetEnv("PSQL_USER"),
		PSQLPassword: mustGetEnv("PSQL_PASSWORD"),
		PSQLDBName:   mustGetEnv("PSQL_DB"),
		PSQLSSLMode:  mustGetEnv("PSQL_SSLMODE"),

		S3Host:      mustGetEnv("S3_HOST") + ":" + mustGetEnv("S3_PORT"),
		S3Bucket:    mustGetEnv("S3_BUCKET"),
		S3AccessKey: mustGetEnv("S3_ACCESS_KEY"),
		S3SecretKey: mustGetEnv("S3_SECRET_KEY"),

		RabbitMQURL: rabbitMQURL,

		MLPythonBin:        getEnvDefault("ML_PYTHON_BIN", "python3"),
		MLScriptPath:       mustGetEnv("ML_SCRIPT_PATH"),
		MLTimeoutSec:       mustAtoi("ML_TIMEOUT_SEC", getEnvDefault("ML_TIMEOUT_SEC", "30")),
		MLMaxConcurrency:   mustAtoi("ML_MAX_CONCURRENCY", getEnvDefault("ML_MAX_CONCURRENCY", "4")),
		LLMURL:             mustGetEnv("LLM_URL"),
		LLMModel:           getEnvDefault("LLM_MODEL", "llama3"),
		LLMTimeoutSec:      mustAtoi("LLM_TIMEOUT_SEC", getEnvDefault("LLM_TIMEOUT_SEC", "120")),
		CollectIntervalSec: mustAtoi("COLLECT_INTERVAL_SEC", getEnvDefault("COLLECT_INTERVAL_SEC", "60")),
	}
}
