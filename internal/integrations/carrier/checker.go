package carrier

import (
	"context"

	"github.com/pkg/errors"
	"github.com/voocheck/voocheck/internal/models"
)

// CheckResult is what a carrier reports for one booking.
// FlightDate may be empty; the caller falls back to the scheduled date.
type CheckResult struct {
	Altered    bool
	FlightDate string
}

type Checker interface {
	// Name returns a human-readable carrier name for logging.
	Name() string

	Check(ctx context.Context, req models.BookingLookupRequest) (CheckResult, error)
}

var (
	// ErrUnsupportedCarrier is a classification outcome, not a failure.
	ErrUnsupportedCarrier = errors.New("unsupported carrier")
	// ErrNoCredential means the carrier is known but its batch credential
	// was not acquired; every record of that carrier degrades to ERROR.
	ErrNoCredential = errors.New("carrier credential not available")
)

// Registry maps the carrier enum to the checker bound to this batch's
// credentials. A nil slot means the credential acquisition failed.
type Registry struct {
	gol   Checker
	azul  Checker
	latam Checker
}

func NewRegistry(gol, azul, latam Checker) *Registry {
	return &Registry{gol: gol, azul: azul, latam: latam}
}

func (r *Registry) Resolve(carrierCode string) (Checker, error) {
	var c Checker
	switch carrierCode {
	case models.CarrierGOL:
		c = r.gol
	case models.CarrierAZUL:
		c = r.azul
	case models.CarrierLATAM:
		c = r.latam
	default:
		return nil, ErrUnsupportedCarrier
	}
	if c == nil {
		return nil, ErrNoCredential
	}
	return c, nil
}
