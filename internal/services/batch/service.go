package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/voocheck/voocheck/internal/broker/messages"
	"github.com/voocheck/voocheck/internal/cache"
	"github.com/voocheck/voocheck/internal/integrations/carrier"
	"github.com/voocheck/voocheck/internal/models"
)

// LatestResultsKey is where the most recent batch's result JSON lives.
const LatestResultsKey = "batch:results:latest"

// Resolver picks the checker for one record's carrier.
type Resolver interface {
	Resolve(carrierCode string) (carrier.Checker, error)
}

// RegistryFactory builds the per-batch registry: credentials are acquired
// once per batch inside Build, never per record.
type RegistryFactory interface {
	Build(ctx context.Context) Resolver
}

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

type Service struct {
	registry RegistryFactory
	progress *Progress

	rl                 RateLimiter
	rateLimitPerMinute int64

	producer Producer
	topic    string

	results    cache.BytesCache
	resultsTTL time.Duration

	concurrency int
}

func New(registry RegistryFactory, progress *Progress) *Service {
	return &Service{
		registry:    registry,
		progress:    progress,
		concurrency: 5,
	}
}

func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

func (s *Service) WithRateLimiter(rl RateLimiter, perMinute int64) *Service {
	if rl != nil && perMinute > 0 {
		s.rl = rl
		s.rateLimitPerMinute = perMinute
	}
	return s
}

func (s *Service) WithProducer(p Producer, topic string) *Service {
	if p != nil && topic != "" {
		s.producer = p
		s.topic = topic
	}
	return s
}

func (s *Service) WithResultsCache(c cache.BytesCache, ttl time.Duration) *Service {
	if c != nil && ttl > 0 {
		s.results = c
		s.resultsTTL = ttl
	}
	return s
}

func (s *Service) Progress() ProgressSnapshot {
	return s.progress.Snapshot()
}

// Run checks every row against its carrier and returns one result per row,
// in input order. Per-record failures degrade to status ERROR; nothing here
// aborts the batch.
func (s *Service) Run(ctx context.Context, rows []map[string]string) []models.BookingLookupResult {
	reqs := make([]models.BookingLookupRequest, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, Normalize(row))
	}

	s.progress.Reset(len(reqs))
	reg := s.registry.Build(ctx)

	results := make([]models.BookingLookupResult, len(reqs))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, req := range reqs {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, req models.BookingLookupRequest) {
			defer func() {
				<-sem
				wg.Done()
			}()
			results[i] = s.checkOne(ctx, reg, req)
			s.progress.Increment()
			s.publish(ctx, results[i])
		}(i, req)
	}
	wg.Wait()

	s.storeLatest(ctx, results)
	return results
}

func (s *Service) checkOne(ctx context.Context, reg Resolver, req models.BookingLookupRequest) models.BookingLookupResult {
	res := models.BookingLookupResult{
		PassengerName: req.PassengerName,
		Locator:       req.Locator,
		OriginCode:    req.OriginCode,
		LastName:      req.LastName,
		Carrier:       models.DisplayCarrierName(req.Carrier, req.RawCarrierLabel),
		FlightDate:    req.ScheduledDate,
	}

	chk, err := reg.Resolve(req.Carrier)
	if errors.Is(err, carrier.ErrUnsupportedCarrier) {
		res.Status = models.StatusUnsupported
		return res
	}
	if err != nil {
		// Credential acquisition failed for the whole batch: an operational
		// failure, not a classification outcome.
		slog.Warn("resolve carrier", "carrier", req.Carrier, "locator", req.Locator, "error", err.Error())
		res.Status = models.StatusError
		return res
	}

	s.throttle(ctx, req.Carrier)

	out, err := s.safeCheck(ctx, chk, req)
	if err != nil {
		slog.Error("check booking", "carrier", chk.Name(), "locator", req.Locator, "error", err.Error())
		res.Status = models.StatusError
		return res
	}

	if out.Altered {
		res.Status = models.StatusAltered
	} else {
		res.Status = models.StatusOK
	}
	if out.FlightDate != "" {
		res.FlightDate = out.FlightDate
	}
	return res
}

// safeCheck contains a misbehaving checker: a panic becomes that one
// record's error, never the batch's.
func (s *Service) safeCheck(ctx context.Context, chk carrier.Checker, req models.BookingLookupRequest) (out carrier.CheckResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("checker panic: %v", r)
		}
	}()
	return chk.Check(ctx, req)
}

func (s *Service) throttle(ctx context.Context, carrierCode string) {
	if s.rl == nil || s.rateLimitPerMinute <= 0 {
		return
	}
	minuteKey := fmt.Sprintf("rl:carrier:%s:%s", carrierCode, time.Now().UTC().Format("200601021504"))
	allowed, n, err := s.rl.Allow(ctx, minuteKey, s.rateLimitPerMinute, 70*time.Second)
	if err != nil {
		// Limiter trouble must not fail the record.
		slog.Warn("carrier rate limit check", "carrier", carrierCode, "error", err.Error())
		return
	}
	if !allowed {
		// Too many calls this minute: back off a little to unload the source.
		slog.Warn("carrier rate limit exceeded", "carrier", carrierCode, "count", n)
		time.Sleep(500 * time.Millisecond)
	}
}

func (s *Service) publish(ctx context.Context, r models.BookingLookupResult) {
	if s.producer == nil {
		return
	}
	b, err := json.Marshal(messages.BookingChecked{
		Locator:       r.Locator,
		Carrier:       r.Carrier,
		PassengerName: r.PassengerName,
		Status:        r.Status,
		FlightDate:    r.FlightDate,
		CheckedAt:     time.Now().UTC(),
	})
	if err != nil {
		slog.Error("marshal booking.checked", "error", err.Error())
		return
	}
	if err := s.producer.Publish(ctx, s.topic, []byte(r.Locator), b); err != nil {
		slog.Error("publish booking.checked", "locator", r.Locator, "error", err.Error())
	}
}

func (s *Service) storeLatest(ctx context.Context, results []models.BookingLookupResult) {
	if s.results == nil {
		return
	}
	b, err := json.Marshal(results)
	if err != nil {
		slog.Error("marshal latest results", "error", err.Error())
		return
	}
	if err := s.results.Set(ctx, LatestResultsKey, b, s.resultsTTL); err != nil {
		slog.Error("store latest results", "error", err.Error())
	}
}
