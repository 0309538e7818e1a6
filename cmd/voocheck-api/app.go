package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/voocheck/voocheck/config"
	"github.com/voocheck/voocheck/internal/broker/kafka"
	"github.com/voocheck/voocheck/internal/cache"
	"github.com/voocheck/voocheck/internal/cache/rediscache"
	"github.com/voocheck/voocheck/internal/services/batch"
)

type apiFactories struct {
	newProducer     func(cfg *config.Config) batch.Producer
	newRateLimiter  func(cfg *config.Config) batch.RateLimiter
	newResultsCache func(cfg *config.Config) cache.BytesCache
	newRegistry     func(cfg *config.Config) batch.RegistryFactory
}

func defaultAPIFactories() apiFactories {
	return apiFactories{
		newProducer: func(cfg *config.Config) batch.Producer {
			brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
			return kafka.NewProducer(brokers)
		},
		newRateLimiter: func(cfg *config.Config) batch.RateLimiter {
			redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
			return rediscache.NewRateLimiter(redisAddr)
		},
		newResultsCache: func(cfg *config.Config) cache.BytesCache {
			redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
			return rediscache.New(redisAddr)
		},
		newRegistry: newRegistryFactory,
	}
}

func RunVooCheckAPI(ctx context.Context, cfg *config.Config, f apiFactories) error {
	httpAddr := cfg.VooCheck.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	topic := cfg.Kafka.BookingCheckedTopicName
	if topic == "" {
		topic = "booking.checked"
	}
	concurrency := cfg.VooCheck.BatchConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	resultsTTL := time.Duration(cfg.VooCheck.ResultsTTLSeconds) * time.Second
	if resultsTTL <= 0 {
		resultsTTL = 10 * time.Minute
	}
	rlPerMin := int64(cfg.VooCheck.RateLimitPerMinute)
	if rlPerMin <= 0 {
		rlPerMin = 120
	}

	resultsCache := f.newResultsCache(cfg)

	svc := batch.New(f.newRegistry(cfg), batch.NewProgress()).
		WithConcurrency(concurrency).
		WithProducer(f.newProducer(cfg), topic).
		WithRateLimiter(f.newRateLimiter(cfg), rlPerMin).
		WithResultsCache(resultsCache, resultsTTL)

	return runHTTPServer(ctx, httpOpts{
		httpAddr:     httpAddr,
		swaggerPath:  os.Getenv("swaggerPath"),
		svc:          svc,
		resultsCache: resultsCache,
	})
}
