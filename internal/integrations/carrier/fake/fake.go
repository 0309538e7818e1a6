package fake

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/voocheck/voocheck/internal/integrations/carrier"
	"github.com/voocheck/voocheck/internal/models"
)

// FakeChecker is a stand-in carrier for dev mode and wiring tests.
// Deterministic outcome by (locator, lastName): part of the bookings comes
// back altered, and the flight date is always "tomorrow".
type FakeChecker struct{}

func New() *FakeChecker { return &FakeChecker{} }

func (f *FakeChecker) Name() string { return "Fake" }

func (f *FakeChecker) Check(ctx context.Context, req models.BookingLookupRequest) (carrier.CheckResult, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(req.Locator))
	_, _ = h.Write([]byte("|"))
	_, _ = h.Write([]byte(req.LastName))
	v := h.Sum32()

	// 20% of bookings count as altered
	return carrier.CheckResult{
		Altered:    v%5 == 0,
		FlightDate: time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02"),
	}, nil
}
