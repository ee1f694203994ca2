package workspace

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"log/slog"

	"weatherwork/app/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/samber/do"
	"github.com/samber/oops"
)

const (
	defaultBaseURL = "https://api.watsonwork.ibm.com"

	requestTimeout = 30 * time.Second

	// refresh a bit before the token expires
	refreshMargin = time.Minute
)

type Client struct {
	cfg        *config.Config
	baseURL    string
	httpClient *http.Client

	mutex       sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

func NewClient(di *do.Injector) (*Client, error) {
	return &Client{
		cfg:     do.MustInvoke[*config.Config](di),
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// AccessToken returns the current OAuth token. It never blocks on the
// network; the background refresh loop keeps the token fresh.
func (c *Client) AccessToken() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.accessToken
}

// Authenticate obtains the initial OAuth token. The app must not serve
// webhook traffic without one, so a failure here is fatal at startup.
func (c *Client) Authenticate(ctx context.Context) error {
	return c.refreshToken(ctx)
}

func (c *Client) RunRefreshLoop(ctx context.Context) {
	for {
		c.mutex.RLock()
		expiresAt := c.expiresAt
		c.mutex.RUnlock()

		wait := time.Until(expiresAt) - refreshMargin
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := c.refreshToken(ctx); err != nil {
			slog.Error("Failed to refresh token", "error", err)

			// keep the old token and retry shortly
			c.mutex.Lock()
			c.expiresAt = time.Now().Add(refreshMargin * 2)
			c.mutex.Unlock()
		}
	}
}

func (c *Client) refreshToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return oops.Errorf("failed to create token request: %w", err)
	}

	req.SetBasicAuth(c.cfg.App.ID, c.cfg.App.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return oops.Errorf("failed to call token endpoint: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return oops.Errorf("token endpoint returned %d", res.StatusCode)
	}

	var tok tokenResponse
	if err = json.NewDecoder(res.Body).Decode(&tok); err != nil {
		return oops.Errorf("failed to decode token response: %w", err)
	}

	c.mutex.Lock()
	c.accessToken = tok.AccessToken
	c.expiresAt = tokenExpiry(tok.AccessToken)
	c.mutex.Unlock()

	slog.Info("Got new token", "expires_at", tokenExpiry(tok.AccessToken))

	return nil
}

// tokenExpiry reads the exp claim off the token. The token is issued by the
// platform we just authenticated against, so it is decoded without
// signature verification, same as any other client of this API.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims

	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Now().Add(refreshMargin * 2)
	}

	return claims.ExpiresAt.Time
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, err
	}

	return body, res.StatusCode, nil
}
