package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"concierge/internal/contract"
	mem "concierge/pkg/memcache"
	"concierge/pkg/utils"
)

// LocationResolver turns a place name into coordinates. A miss is reported
// as *utils.LocationNotFoundError.
type LocationResolver interface {
	Search(ctx context.Context, placeName string) (contract.Location, error)
}

type Route struct {
	DistanceMeters  float64         `json:"distance_meters"`
	DurationSeconds float64         `json:"duration_seconds"`
	Geometry        json.RawMessage `json:"geometry"`
}

type RouteFinder interface {
	Route(ctx context.Context, from, to contract.Coordinates) (*Route, error)
}

type LocationService interface {
	LocationResolver
	RouteFinder
}

// -------------- Mapbox client ---------------

type MapboxLocationClient struct {
	HTTP        *http.Client
	AccessToken string
	BaseURL     string
	Country     string
	Profile     string
}

func NewMapboxLocationClient(accessToken, baseURL, country string, timeout time.Duration) *MapboxLocationClient {
	return &MapboxLocationClient{
		HTTP:        &http.Client{Timeout: timeout},
		AccessToken: accessToken,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Country:     country,
		Profile:     "driving",
	}
}

func (c *MapboxLocationClient) Search(ctx context.Context, placeName string) (contract.Location, error) {
	placeName = strings.TrimSpace(placeName)
	if placeName == "" {
		return contract.Location{}, fmt.Errorf("%w: place name is required", utils.ErrInvalidInput)
	}

	u, err := url.Parse(fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json", c.BaseURL, url.PathEscape(placeName)))
	if err != nil {
		return contract.Location{}, fmt.Errorf("%w: build url: %w", utils.ErrLocationServiceUnavailable, err)
	}
	q := url.Values{}
	q.Set("access_token", c.AccessToken)
	q.Set("limit", "1")
	if c.Country != "" {
		q.Set("country", strings.ToLower(c.Country))
	}
	u.RawQuery = q.Encode()

	var payload struct {
		Features []struct {
			PlaceName string `json:"place_name"`
			Geometry  struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := c.getJSON(ctx, u.String(), &payload); err != nil {
		return contract.Location{}, err
	}

	if len(payload.Features) == 0 || len(payload.Features[0].Geometry.Coordinates) < 2 {
		return contract.Location{}, &utils.LocationNotFoundError{Place: placeName}
	}
	coords := payload.Features[0].Geometry.Coordinates
	return contract.Location{
		Name:        placeName,
		Coordinates: contract.NewCoordinates(coords[0], coords[1]),
	}, nil
}

func (c *MapboxLocationClient) Route(ctx context.Context, from, to contract.Coordinates) (*Route, error) {
	u, err := url.Parse(fmt.Sprintf("%s/directions/v5/mapbox/%s/%f,%f;%f,%f",
		c.BaseURL, c.Profile, from.Lon(), from.Lat(), to.Lon(), to.Lat()))
	if err != nil {
		return nil, fmt.Errorf("%w: build url: %w", utils.ErrLocationServiceUnavailable, err)
	}
	q := url.Values{}
	q.Set("access_token", c.AccessToken)
	q.Set("geometries", "geojson")
	u.RawQuery = q.Encode()

	var payload struct {
		Routes []struct {
			Distance float64         `json:"distance"`
			Duration float64         `json:"duration"`
			Geometry json.RawMessage `json:"geometry"`
		} `json:"routes"`
	}
	if err := c.getJSON(ctx, u.String(), &payload); err != nil {
		return nil, err
	}
	if len(payload.Routes) == 0 {
		return nil, fmt.Errorf("%w: no route between the given points", utils.ErrLocationNotFound)
	}
	best := payload.Routes[0]
	return &Route{
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
		Geometry:        best.Geometry,
	}, nil
}

func (c *MapboxLocationClient) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", utils.ErrLocationServiceUnavailable, err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: mapbox http error: %w", utils.ErrLocationServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: mapbox bad status: %s", utils.ErrLocationServiceUnavailable, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: mapbox decode: %w", utils.ErrLocationServiceUnavailable, err)
	}
	return nil
}

// --------- Cached resolver ---------

// CachedLocationService remembers successful lookups. Misses are not cached
// so a corrected place name is looked up again.
type CachedLocationService struct {
	next   LocationService
	store  mem.Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedLocationService(next LocationService, store mem.Store, ttl time.Duration, logger *zap.Logger) *CachedLocationService {
	return &CachedLocationService{next: next, store: store, ttl: ttl, logger: logger}
}

func (c *CachedLocationService) Search(ctx context.Context, placeName string) (contract.Location, error) {
	key := "loc:" + strings.ToLower(strings.TrimSpace(placeName))

	if b, ok := c.store.Get(ctx, key); ok {
		var loc contract.Location
		if err := json.Unmarshal(b, &loc); err == nil {
			loc.Name = strings.TrimSpace(placeName)
			return loc, nil
		}
		c.logger.Warn("dropping unreadable cached location", zap.String("key", key))
	}

	loc, err := c.next.Search(ctx, placeName)
	if err != nil {
		return contract.Location{}, err
	}
	if b, err := json.Marshal(loc); err == nil {
		c.store.Set(ctx, key, b, c.ttl)
	}
	return loc, nil
}

func (c *CachedLocationService) Route(ctx context.Context, from, to contract.Coordinates) (*Route, error) {
	return c.next.Route(ctx, from, to)
}
