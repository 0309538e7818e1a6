package golhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Auth exchanges the AAT header for a short-lived bearer token.
// The token is acquired once per batch, not per record.
type Auth struct {
	baseURL string
	aat     string
	httpc   *http.Client
}

func NewAuth(baseURL, aat string) *Auth {
	if baseURL == "" {
		baseURL = "https://gol-auth-api.voegol.com.br"
	}
	return &Auth{
		baseURL: baseURL,
		aat:     aat,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tokenResp struct {
	Response struct {
		Token string `json:"token"`
	} `json:"response"`
}

func (a *Auth) Token(ctx context.Context) (string, error) {
	if a.aat == "" {
		return "", errors.New("gol aat header not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/authentication/create-token", nil)
	if err != nil {
		return "", errors.Wrap(err, "new request")
	}
	req.Header.Set("x-aat", a.aat)

	resp, err := a.httpc.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("gol auth api http %d", resp.StatusCode)
	}

	var r tokenResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", errors.Wrap(err, "decode")
	}
	if r.Response.Token == "" {
		return "", errors.New("gol auth response has no token")
	}
	return r.Response.Token, nil
}
