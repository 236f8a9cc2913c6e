package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mesh-intelligence/mapty/pkg/types"
)

// Location providers accepted in configuration.
const (
	ProviderNone   = "none"
	ProviderStatic = "static"
	ProviderHTTP   = "http"
)

// DefaultTimeout bounds a single HTTP position lookup.
const DefaultTimeout = 5 * time.Second

// NoLocator always fails. Used when no provider is configured.
type NoLocator struct{}

// CurrentPosition returns ErrGeolocation.
func (NoLocator) CurrentPosition(context.Context) (types.Coords, error) {
	return types.Coords{}, fmt.Errorf("%w: no location provider configured", types.ErrGeolocation)
}

// StaticLocator reports a fixed position.
type StaticLocator struct {
	Coords types.Coords
}

// CurrentPosition returns the configured coords.
func (s StaticLocator) CurrentPosition(context.Context) (types.Coords, error) {
	return s.Coords, nil
}

// HTTPLocator looks up the position from an IP geolocation endpoint that
// answers with a JSON object carrying "lat" and "lon".
type HTTPLocator struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// positionResponse matches ip-api.com style answers. Status is optional;
// "fail" marks a failed lookup.
type positionResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// CurrentPosition performs one GET request. Every failure wraps
// ErrGeolocation.
func (h HTTPLocator) CurrentPosition(ctx context.Context) (types.Coords, error) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := h.Client
	if client == nil {
		client = &http.Client{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return types.Coords{}, fmt.Errorf("%w: %w", types.ErrGeolocation, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return types.Coords{}, fmt.Errorf("%w: %w", types.ErrGeolocation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.Coords{}, fmt.Errorf("%w: unexpected status code %d", types.ErrGeolocation, resp.StatusCode)
	}

	var body positionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.Coords{}, fmt.Errorf("%w: decoding response: %w", types.ErrGeolocation, err)
	}
	if body.Status == "fail" {
		return types.Coords{}, fmt.Errorf("%w: %s", types.ErrGeolocation, body.Message)
	}
	if body.Lat == nil || body.Lon == nil {
		return types.Coords{}, fmt.Errorf("%w: response has no position", types.ErrGeolocation)
	}
	return types.Coords{*body.Lat, *body.Lon}, nil
}
