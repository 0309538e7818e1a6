package golhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/voocheck/voocheck/internal/integrations/carrier"
	"github.com/voocheck/voocheck/internal/models"
)

const (
	segmentStatusCancelled      = "CANCELLED"
	segmentStatusScheduleChange = "SCHEDULE_CHANGE"
)

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New builds a checker bound to one batch's bearer token.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "https://booking-api.voegol.com.br"
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) Name() string { return "Gol" }

type pnrResp struct {
	Response struct {
		PnrRetrieveResponse struct {
			Pnr *pnrBody `json:"pnr"`
		} `json:"pnrRetrieveResponse"`
	} `json:"response"`
	// Some responses carry the pnr body at the top level instead.
	Itinerary *itinerary `json:"itinerary"`
}

type pnrBody struct {
	Itinerary *itinerary `json:"itinerary"`
}

type itinerary struct {
	ItineraryParts []itineraryPart `json:"itineraryParts"`
}

type itineraryPart struct {
	Segments          []segment `json:"segments"`
	CancelledSegments []segment `json:"cancelledSegments"`
}

type segment struct {
	Origin            string            `json:"origin"`
	Departure         string            `json:"departure"`
	SegmentStatusCode segmentStatusCode `json:"segmentStatusCode"`
}

type segmentStatusCode struct {
	SegmentStatus string `json:"segmentStatus"`
}

func (c *Client) Check(ctx context.Context, req models.BookingLookupRequest) (carrier.CheckResult, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return carrier.CheckResult{}, errors.Wrap(err, "parse base url")
	}
	u.Path = "/api/pnrBnpl/pnr-bnpl-validation"

	q := u.Query()
	q.Set("context", "b2c")
	q.Set("flow", "consult")
	q.Set("pnr", req.Locator)
	q.Set("origin", req.OriginCode)
	q.Set("lastName", req.LastName)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return carrier.CheckResult{}, errors.Wrap(err, "new request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return carrier.CheckResult{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return carrier.CheckResult{}, fmt.Errorf("gol booking api http %d", resp.StatusCode)
	}

	var r pnrResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return carrier.CheckResult{}, errors.Wrap(err, "decode")
	}

	itin := r.Itinerary
	if r.Response.PnrRetrieveResponse.Pnr != nil {
		itin = r.Response.PnrRetrieveResponse.Pnr.Itinerary
	}
	if itin == nil {
		return carrier.CheckResult{}, errors.New("gol response has no itinerary")
	}

	return carrier.CheckResult{
		Altered:    itineraryAltered(itin.ItineraryParts, req.OriginCode),
		FlightDate: firstDepartureDate(itin.ItineraryParts),
	}, nil
}

// itineraryAltered scans parts in order and stops at the first hit: a segment
// with matching origin whose status is CANCELLED or SCHEDULE_CHANGE, or a
// cancelled-segment entry with matching origin and status CANCELLED.
func itineraryAltered(parts []itineraryPart, origin string) bool {
	for _, part := range parts {
		for _, seg := range part.Segments {
			if seg.Origin != origin {
				continue
			}
			st := seg.SegmentStatusCode.SegmentStatus
			if st == segmentStatusCancelled || st == segmentStatusScheduleChange {
				return true
			}
		}
		for _, seg := range part.CancelledSegments {
			if seg.Origin == origin && seg.SegmentStatusCode.SegmentStatus == segmentStatusCancelled {
				return true
			}
		}
	}
	return false
}

// firstDepartureDate takes the departure timestamp of the very first segment
// of the very first part, date portion only. Empty when absent.
func firstDepartureDate(parts []itineraryPart) string {
	if len(parts) == 0 || len(parts[0].Segments) == 0 {
		return ""
	}
	return dateOnly(parts[0].Segments[0].Departure)
}

func dateOnly(ts string) string {
	if i := strings.IndexAny(ts, "T "); i > 0 {
		return ts[:i]
	}
	return ts
}
