package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Provider is a forward-geocoding backend. Providers are tried in order;
// any error moves the cascade to the next one.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

var ErrNoResult = errors.New("no geocoding result")

var defaultHTTPClient = &http.Client{Timeout: 10 * time.Second}

// NominatimProvider queries an OSM Nominatim-compatible endpoint.
type NominatimProvider struct {
	BaseURL string
	HTTP    *http.Client
}

func (p *NominatimProvider) Name() string { return "nominatim" }

func (p *NominatimProvider) Geocode(ctx context.Context, address string) (float64, float64, error) {
	u := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", p.BaseURL, url.QueryEscape(address))

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := p.getJSON(ctx, u, &results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, ErrNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

func (p *NominatimProvider) getJSON(ctx context.Context, u string, out any) error {
	return getJSON(ctx, p.HTTP, u, out)
}

// PositionstackProvider queries a positionstack-compatible endpoint.
type PositionstackProvider struct {
	BaseURL   string
	AccessKey string
	HTTP      *http.Client
}

func (p *PositionstackProvider) Name() string { return "positionstack" }

func (p *PositionstackProvider) Geocode(ctx context.Context, address string) (float64, float64, error) {
	u := fmt.Sprintf("%s/v1/forward?access_key=%s&limit=1&query=%s",
		p.BaseURL, url.QueryEscape(p.AccessKey), url.QueryEscape(address))

	var resp struct {
		Data []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"data"`
	}
	if err := getJSON(ctx, p.HTTP, u, &resp); err != nil {
		return 0, 0, err
	}
	if len(resp.Data) == 0 {
		return 0, 0, ErrNoResult
	}
	return resp.Data[0].Latitude, resp.Data[0].Longitude, nil
}

func getJSON(ctx context.Context, client *http.Client, u string, out any) error {
	if client == nil {
		client = defaultHTTPClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding provider returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
