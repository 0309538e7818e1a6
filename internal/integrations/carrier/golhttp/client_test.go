package golhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voocheck/voocheck/internal/models"
)

func req() models.BookingLookupRequest {
	return models.BookingLookupRequest{
		Carrier:    models.CarrierGOL,
		Locator:    "ABC123",
		OriginCode: "GRU",
		LastName:   "SILVA",
	}
}

func TestClient_Check_CancelledSegment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/pnrBnpl/pnr-bnpl-validation", r.URL.Path)
		require.Equal(t, "b2c", r.URL.Query().Get("context"))
		require.Equal(t, "consult", r.URL.Query().Get("flow"))
		require.Equal(t, "ABC123", r.URL.Query().Get("pnr"))
		require.Equal(t, "GRU", r.URL.Query().Get("origin"))
		require.Equal(t, "SILVA", r.URL.Query().Get("lastName"))
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "response": {"pnrRetrieveResponse": {"pnr": {"itinerary": {"itineraryParts": [
    {"segments": [
      {"origin": "GRU", "departure": "2025-10-02T08:15:00", "segmentStatusCode": {"segmentStatus": "CANCELLED"}}
    ]}
  ]}}}}
}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	res, err := c.Check(context.Background(), req())
	require.NoError(t, err)
	require.True(t, res.Altered)
	require.Equal(t, "2025-10-02", res.FlightDate)
}

func TestClient_Check_ConfirmedSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "response": {"pnrRetrieveResponse": {"pnr": {"itinerary": {"itineraryParts": [
    {"segments": [
      {"origin": "GRU", "departure": "2025-10-02T08:15:00", "segmentStatusCode": {"segmentStatus": "CONFIRMED"}},
      {"origin": "REC", "departure": "2025-10-02T14:40:00", "segmentStatusCode": {"segmentStatus": "CONFIRMED"}}
    ]}
  ]}}}}
}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	res, err := c.Check(context.Background(), req())
	require.NoError(t, err)
	require.False(t, res.Altered)
	require.Equal(t, "2025-10-02", res.FlightDate)
}

func TestClient_Check_CancelledSegmentsEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "response": {"pnrRetrieveResponse": {"pnr": {"itinerary": {"itineraryParts": [
    {"segments": [
      {"origin": "GRU", "departure": "2025-10-02T08:15:00", "segmentStatusCode": {"segmentStatus": "CONFIRMED"}}
    ],
    "cancelledSegments": [
      {"origin": "GRU", "segmentStatusCode": {"segmentStatus": "CANCELLED"}}
    ]}
  ]}}}}
}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	res, err := c.Check(context.Background(), req())
	require.NoError(t, err)
	require.True(t, res.Altered)
}

func TestClient_Check_TopLevelItineraryFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "itinerary": {"itineraryParts": [
    {"segments": [
      {"origin": "GRU", "departure": "2025-11-20 07:00:00", "segmentStatusCode": {"segmentStatus": "SCHEDULE_CHANGE"}}
    ]}
  ]}
}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	res, err := c.Check(context.Background(), req())
	require.NoError(t, err)
	require.True(t, res.Altered)
	require.Equal(t, "2025-11-20", res.FlightDate)
}

func TestClient_Check_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.Check(context.Background(), req())
	require.Error(t, err)
}

func TestItineraryAltered_NonMatchingOrigin(t *testing.T) {
	parts := []itineraryPart{
		{Segments: []segment{{Origin: "REC", SegmentStatusCode: segmentStatusCode{segmentStatusCancelled}}}},
	}
	require.False(t, itineraryAltered(parts, "GRU"))
	// Empty origin from a row without a parenthesized code never matches.
	require.False(t, itineraryAltered(parts, ""))
}

func TestAuth_Token(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/authentication/create-token", r.URL.Path)
		require.Equal(t, "aat-value", r.Header.Get("x-aat"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": {"token": "tok-123"}}`))
	}))
	defer srv.Close()

	a := NewAuth(srv.URL, "aat-value")
	tok, err := a.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-123", tok)
}

func TestAuth_Token_MissingAAT(t *testing.T) {
	a := NewAuth("http://localhost:0", "")
	_, err := a.Token(context.Background())
	require.Error(t, err)
}
