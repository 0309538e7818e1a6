package latamweb

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/voocheck/voocheck/internal/models"
)

type fakeSession struct {
	navigatedTo string
	navErr      error

	waitFound bool
	waitErr   error

	text    string
	textErr error

	closed bool
}

func (s *fakeSession) Navigate(url string) error {
	s.navigatedTo = url
	return s.navErr
}

func (s *fakeSession) WaitForElement(selector string, timeout time.Duration) (bool, error) {
	return s.waitFound, s.waitErr
}

func (s *fakeSession) ReadText(selector string) (string, error) {
	return s.text, s.textErr
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeFactory struct {
	s   *fakeSession
	err error
}

func (f *fakeFactory) NewSession(ctx context.Context) (Session, error) {
	return f.s, f.err
}

func req() models.BookingLookupRequest {
	return models.BookingLookupRequest{
		Carrier:        models.CarrierLATAM,
		PurchaseNumber: "900123456",
		LastName:       "PEREIRA",
		ScheduledDate:  "2025-10-02",
	}
}

func TestClient_Check_WarningShown(t *testing.T) {
	fs := &fakeSession{waitFound: true, text: "2025-10-03T07:45:00"}
	c := New(&fakeFactory{s: fs}, "https://example.test", time.Second)

	res, err := c.Check(context.Background(), req())
	require.NoError(t, err)
	require.True(t, res.Altered)
	require.Equal(t, "2025-10-03", res.FlightDate)
	require.True(t, fs.closed)
	require.Contains(t, fs.navigatedTo, "orderId=900123456")
	require.Contains(t, fs.navigatedTo, "lastName=PEREIRA")
}

// A wait timeout is evidence of "not altered", not an error. Known
// ambiguity: a timeout caused by a renamed banner selector is
// indistinguishable from a genuinely unaltered booking.
func TestClient_Check_WaitTimeoutMeansNotAltered(t *testing.T) {
	fs := &fakeSession{waitFound: false, text: "02 out 2025"}
	c := New(&fakeFactory{s: fs}, "", time.Second)

	res, err := c.Check(context.Background(), req())
	require.NoError(t, err)
	require.False(t, res.Altered)
	require.Equal(t, "02 out 2025", res.FlightDate)
	require.True(t, fs.closed)
}

func TestClient_Check_DateReadFailureTolerated(t *testing.T) {
	fs := &fakeSession{waitFound: true, textErr: errors.New("node not found")}
	c := New(&fakeFactory{s: fs}, "", time.Second)

	res, err := c.Check(context.Background(), req())
	require.NoError(t, err)
	require.True(t, res.Altered)
	require.Empty(t, res.FlightDate)
	require.True(t, fs.closed)
}

func TestClient_Check_EmptyPurchaseNumber(t *testing.T) {
	ff := &fakeFactory{s: &fakeSession{}}
	c := New(ff, "", time.Second)

	r := req()
	r.PurchaseNumber = "  "
	_, err := c.Check(context.Background(), r)
	require.Error(t, err)
	// Fails before any session is opened.
	require.False(t, ff.s.closed)
	require.Empty(t, ff.s.navigatedTo)
}

func TestClient_Check_SessionClosedOnNavigateError(t *testing.T) {
	fs := &fakeSession{navErr: errors.New("net::ERR_TIMED_OUT")}
	c := New(&fakeFactory{s: fs}, "", time.Second)

	_, err := c.Check(context.Background(), req())
	require.Error(t, err)
	require.True(t, fs.closed)
}

func TestClient_Check_SessionClosedOnWaitError(t *testing.T) {
	fs := &fakeSession{waitErr: errors.New("target crashed")}
	c := New(&fakeFactory{s: fs}, "", time.Second)

	_, err := c.Check(context.Background(), req())
	require.Error(t, err)
	require.True(t, fs.closed)
}
