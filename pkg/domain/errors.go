package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfigurationMissing = errors.New("required configuration missing")
	ErrWeatherUnavailable   = errors.New("weather service unavailable")
	ErrIndexBuild           = errors.New("vector index build failed")
	ErrEmbeddingFailed      = errors.New("embedding generation failed")
	ErrGenerationFailed     = errors.New("text generation failed")
	ErrInvalidInput         = errors.New("invalid input")
)

// WeatherAPIError is returned when the upstream weather API answers with a
// non-success status. It carries the status code and the raw response body.
type WeatherAPIError struct {
	Status int
	Body   string
}

func (e *WeatherAPIError) Error() string {
	return fmt.Sprintf("weather API error %d: %s", e.Status, e.Body)
}
