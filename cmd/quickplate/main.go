package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/danielnero-bot/potential-goggles/internal/cache"
	"github.com/danielnero-bot/potential-goggles/internal/cart"
	"github.com/danielnero-bot/potential-goggles/internal/checkout"
	"github.com/danielnero-bot/potential-goggles/internal/consumer"
	"github.com/danielnero-bot/potential-goggles/internal/httpapi"
	"github.com/danielnero-bot/potential-goggles/internal/orders"
	"github.com/danielnero-bot/potential-goggles/internal/repository"
)

type Config struct {
	HTTPPort        string
	KafkaBrokers    []string
	RedisAddr       string
	RedisPassword   string
	DeliveryFee     decimal.Decimal
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	SessionIdleTTL  time.Duration
	WatchIdleTTL    time.Duration
	DB              repository.Credentials
}

func loadConfig() *Config {
	fee, err := decimal.NewFromString(getEnv("DELIVERY_FEE", "2.99"))
	if err != nil {
		log.Fatalf("invalid DELIVERY_FEE: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		DeliveryFee:     fee,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		SessionIdleTTL:  2 * time.Hour,
		WatchIdleTTL:    15 * time.Minute,
		DB: repository.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "quickplate"),
			Password:          getEnv("DB_PASSWORD", "quickplate"),
			DBName:            getEnv("DB_NAME", "quickplate"),
			MigrationsDirPath: getEnv("MIGRATIONS_DIR", "migrations"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Backing store
	repo, err := repository.NewRepository(&cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer repo.Close()
	if err := repo.RunMigrations(&cfg.DB); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Printf("connected to postgres at %s:%d", cfg.DB.Host, cfg.DB.Port)

	// Order-history cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	history := cache.NewRedisHistory(redisClient)

	// Order status sync
	historyReads := orders.NewHistoryService(repo, history)
	hub := orders.NewHub(historyReads, cfg.WatchIdleTTL)
	go hub.RunJanitor(ctx, time.Minute)

	statusConsumer := consumer.NewStatusConsumer(hub, history, cfg.KafkaBrokers...)
	defer statusConsumer.Close()
	go statusConsumer.Run(ctx)
	log.Printf("consuming order-status from %v", cfg.KafkaBrokers)

	// Session carts and checkout
	carts := cart.NewManager(cfg.SessionIdleTTL)
	go carts.RunJanitor(ctx, time.Minute)

	saga := checkout.NewSaga(httpapi.ContextUsers{}, repo, history, hub, cfg.DeliveryFee)

	router := httpapi.NewRouter(carts, saga, hub, repo, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("quickplate listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
