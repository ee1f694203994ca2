package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"weatherwork/app/config"

	"github.com/samber/do"
)

const (
	defaultBaseURL = "https://twcservice.mybluemix.net/api/weather"

	requestTimeout = 30 * time.Second
)

type Client struct {
	cfg        *config.Config
	baseURL    string
	httpClient *http.Client
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

// Geolocation returns the geographic coordinates of a US city. An
// unresolvable city yields a zero Geo, not an error.
func (c *Client) Geolocation(ctx context.Context, city string) (Geo, error) {
	q := url.Values{}
	q.Set("query", strings.TrimSpace(city))
	q.Set("countryCode", "US")
	q.Set("language", "en-US")
	q.Set("locationType", "city")

	var res locationResponse
	if err := c.get(ctx, "/v3/location/search", q, &res); err != nil {
		return Geo{}, fmt.Errorf("failed to get geolocation of %s: %w", city, err)
	}

	loc := res.Location
	if len(loc.City) == 0 || len(loc.PostalCode) == 0 {
		// city not found
		return Geo{}, nil
	}

	geo := Geo{
		City:       loc.City[0],
		PostalCode: loc.PostalCode[0],
	}
	if len(loc.AdminDistrictCode) > 0 {
		geo.AdminDistrictCode = loc.AdminDistrictCode[0]
	}
	if len(loc.Latitude) > 0 && len(loc.Longitude) > 0 {
		geo.Latitude = loc.Latitude[0]
		geo.Longitude = loc.Longitude[0]
	}

	return geo, nil
}

// Conditions returns the current weather conditions at an address.
func (c *Client) Conditions(ctx context.Context, address string) (*Conditions, error) {
	geo, err := c.Geolocation(ctx, address)
	if err != nil {
		return nil, err
	}
	if !geo.Found() {
		return &Conditions{Geo: geo}, nil
	}

	slog.Debug("Retrieving conditions", "lat", geo.Latitude, "lon", geo.Longitude)

	q := url.Values{}
	q.Set("language", "en-US")
	q.Set("hours", "23")

	var res observationsResponse
	if err = c.get(ctx, c.geocodePath(geo, "observations/timeseries.json"), q, &res); err != nil {
		return nil, fmt.Errorf("failed to retrieve weather conditions: %w", err)
	}

	if len(res.Observations) == 0 {
		return nil, fmt.Errorf("no observations for %s", address)
	}

	return &Conditions{
		Geo:         geo,
		Observation: res.Observations[len(res.Observations)-1],
	}, nil
}

// Forecast5d returns a 5 day weather forecast at an address.
func (c *Client) Forecast5d(ctx context.Context, address string) (*Forecast, error) {
	geo, err := c.Geolocation(ctx, address)
	if err != nil {
		return nil, err
	}
	if !geo.Found() {
		return &Forecast{Geo: geo}, nil
	}

	slog.Debug("Retrieving forecast", "lat", geo.Latitude, "lon", geo.Longitude)

	q := url.Values{}
	q.Set("language", "en-US")

	var res forecastResponse
	if err = c.get(ctx, c.geocodePath(geo, "forecast/daily/5day.json"), q, &res); err != nil {
		return nil, fmt.Errorf("failed to retrieve weather forecast: %w", err)
	}

	if len(res.Forecasts) == 0 {
		return nil, fmt.Errorf("no forecast for %s", address)
	}

	return &Forecast{
		Geo:       geo,
		Forecasts: res.Forecasts,
	}, nil
}

func (c *Client) geocodePath(geo Geo, suffix string) string {
	return "/v1/geocode/" +
		strconv.FormatFloat(geo.Latitude, 'f', -1, 64) + "/" +
		strconv.FormatFloat(geo.Longitude, 'f', -1, 64) + "/" + suffix
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.cfg.Weather.User, c.cfg.Weather.Password)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call weather service: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read weather response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("weather service returned %d", res.StatusCode)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse weather response: %w", err)
	}

	return nil
}
