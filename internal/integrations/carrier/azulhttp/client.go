package azulhttp

import (
	"bytes"
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

type Client struct {
	baseURL         string
	token           string
	subscriptionKey string
	httpc           *http.Client
}

// New builds a checker bound to one batch's bearer token. The subscription
// key rides along on every call next to the token.
func New(baseURL, token, subscriptionKey string) *Client {
	if baseURL == "" {
		baseURL = "https://b2c-api.voeazul.com.br"
	}
	return &Client{
		baseURL:         baseURL,
		token:           token,
		subscriptionKey: subscriptionKey,
		httpc: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) Name() string { return "Azul" }

type bookingResp struct {
	Data struct {
		Journeys []journey `json:"journeys"`
	} `json:"data"`
}

type journey struct {
	Reaccommodation struct {
		Reaccommodate bool `json:"reaccommodate"`
	} `json:"reaccommodation"`
	Flights []struct {
		Departure string `json:"departure"`
	} `json:"flights"`
}

func (c *Client) Check(ctx context.Context, req models.BookingLookupRequest) (carrier.CheckResult, error) {
	body, err := json.Marshal(map[string]string{"departureStation": req.OriginCode})
	if err != nil {
		return carrier.CheckResult{}, errors.Wrap(err, "marshal body")
	}

	u := c.baseURL + "/canonical/api/booking/v5/bookings/" + url.PathEscape(req.Locator)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return carrier.CheckResult{}, errors.Wrap(err, "new request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return carrier.CheckResult{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return carrier.CheckResult{}, fmt.Errorf("azul booking api http %d", resp.StatusCode)
	}

	var r bookingResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return carrier.CheckResult{}, errors.Wrap(err, "decode")
	}
	if len(r.Data.Journeys) == 0 {
		return carrier.CheckResult{}, errors.New("azul response has no journeys")
	}

	first := r.Data.Journeys[0]
	res := carrier.CheckResult{Altered: first.Reaccommodation.Reaccommodate}
	if len(first.Flights) > 0 {
		res.FlightDate = dateOnly(first.Flights[0].Departure)
	}
	return res, nil
}

func dateOnly(ts string) string {
	if i := strings.IndexAny(ts, "T "); i > 0 {
		return ts[:i]
	}
	return ts
}
