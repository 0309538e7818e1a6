package carrier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voocheck/voocheck/internal/models"
)

type stubChecker struct{ name string }

func (s stubChecker) Name() string { return s.name }

func (s stubChecker) Check(ctx context.Context, req models.BookingLookupRequest) (CheckResult, error) {
	return CheckResult{}, nil
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry(stubChecker{"gol"}, nil, stubChecker{"latam"})

	c, err := r.Resolve(models.CarrierGOL)
	require.NoError(t, err)
	require.Equal(t, "gol", c.Name())

	c, err = r.Resolve(models.CarrierLATAM)
	require.NoError(t, err)
	require.Equal(t, "latam", c.Name())

	// Known carrier with no batch credential.
	_, err = r.Resolve(models.CarrierAZUL)
	require.ErrorIs(t, err, ErrNoCredential)

	_, err = r.Resolve(models.CarrierUnsupported)
	require.ErrorIs(t, err, ErrUnsupportedCarrier)

	_, err = r.Resolve("TAP")
	require.ErrorIs(t, err, ErrUnsupportedCarrier)
}
