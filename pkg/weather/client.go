// Package weather wraps the OpenWeatherMap current-conditions API behind a
// small typed client. A successful response is passed through untouched; a
// non-success status becomes a *domain.WeatherAPIError.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/skycast-ai/skycast/pkg/config"
	"github.com/skycast-ai/skycast/pkg/domain"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

var (
	locationPattern = regexp.MustCompile(`(?i)\bin\s+([A-Za-z0-9\s,\-\.]+)`)
	fillerWords     = regexp.MustCompile(`(?i)\b(today|tomorrow|now)\b`)
)

// Client is a thin OpenWeatherMap gateway. Requests share a fixed timeout
// and are never retried; failures surface immediately.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.WeatherConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the current conditions for location. The decoded JSON body
// is returned as-is; interpretation is left to the answer composer.
func (c *Client) Fetch(ctx context.Context, location string) (domain.WeatherReading, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: OPENWEATHER_API_KEY is not set", domain.ErrWeatherUnavailable)
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read weather response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.WeatherAPIError{Status: resp.StatusCode, Body: string(body)}
	}

	var reading domain.WeatherReading
	if err := json.Unmarshal(body, &reading); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	return reading, nil
}

// ExtractLocation pulls a location phrase like "in Paris" out of a query,
// dropping filler words (today/tomorrow/now) and trailing punctuation. When
// nothing matches, the raw query is the best location guess we have.
func ExtractLocation(query string) string {
	m := locationPattern.FindStringSubmatch(query)
	if m == nil {
		return query
	}

	loc := strings.TrimSpace(m[1])
	loc = strings.TrimSpace(fillerWords.ReplaceAllString(loc, ""))
	loc = strings.TrimRight(loc, ".,!?;:\\/")
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return query
	}
	return loc
}
