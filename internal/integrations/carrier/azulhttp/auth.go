package azulhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Auth exchanges the subscription key for a bearer token, once per batch.
type Auth struct {
	baseURL         string
	subscriptionKey string
	httpc           *http.Client
}

func NewAuth(baseURL, subscriptionKey string) *Auth {
	if baseURL == "" {
		baseURL = "https://b2c-api.voeazul.com.br"
	}
	return &Auth{
		baseURL:         baseURL,
		subscriptionKey: subscriptionKey,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tokenResp struct {
	Data string `json:"data"`
}

func (a *Auth) Token(ctx context.Context) (string, error) {
	if a.subscriptionKey == "" {
		return "", errors.New("azul subscription key not configured")
	}

	u := a.baseURL + "/authentication/api/authentication/v1/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader("{}"))
	if err != nil {
		return "", errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", a.subscriptionKey)

	resp, err := a.httpc.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("azul auth api http %d", resp.StatusCode)
	}

	var r tokenResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", errors.Wrap(err, "decode")
	}
	if r.Data == "" {
		return "", errors.New("azul auth response has no token")
	}
	return r.Data, nil
}
