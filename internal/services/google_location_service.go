package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"concierge/internal/contract"
	"concierge/pkg/utils"
)

// GoogleLocationClient resolves places and routes with the Google Maps APIs.
type GoogleLocationClient struct {
	client  *maps.Client
	country string
}

func NewGoogleLocationClient(apiKey, country string) (*GoogleLocationClient, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleLocationClient{client: client, country: strings.ToUpper(country)}, nil
}

func (g *GoogleLocationClient) Search(ctx context.Context, placeName string) (contract.Location, error) {
	placeName = strings.TrimSpace(placeName)
	if placeName == "" {
		return contract.Location{}, fmt.Errorf("%w: place name is required", utils.ErrInvalidInput)
	}

	r := &maps.GeocodingRequest{Address: placeName}
	if g.country != "" {
		r.Components = map[maps.Component]string{maps.ComponentCountry: g.country}
		r.Region = strings.ToLower(g.country)
	}

	results, err := g.client.Geocode(ctx, r)
	if err != nil {
		return contract.Location{}, fmt.Errorf("%w: geocoding api error: %w", utils.ErrLocationServiceUnavailable, err)
	}
	if len(results) == 0 {
		return contract.Location{}, &utils.LocationNotFoundError{Place: placeName}
	}

	loc := results[0].Geometry.Location
	return contract.Location{
		Name:        placeName,
		Coordinates: contract.NewCoordinates(loc.Lng, loc.Lat),
	}, nil
}

func (g *GoogleLocationClient) Route(ctx context.Context, from, to contract.Coordinates) (*Route, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", from.Lat(), from.Lon()),
		Destination: fmt.Sprintf("%f,%f", to.Lat(), to.Lon()),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := g.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("%w: directions api error: %w", utils.ErrLocationServiceUnavailable, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, fmt.Errorf("%w: no route between the given points", utils.ErrLocationNotFound)
	}

	var distance, duration float64
	for _, leg := range routes[0].Legs {
		distance += float64(leg.Distance.Meters)
		duration += leg.Duration.Seconds()
	}

	geometry, err := polylineGeoJSON(routes[0].OverviewPolyline)
	if err != nil {
		return nil, fmt.Errorf("%w: decode polyline: %w", utils.ErrLocationServiceUnavailable, err)
	}

	return &Route{
		DistanceMeters:  distance,
		DurationSeconds: duration,
		Geometry:        geometry,
	}, nil
}

// polylineGeoJSON converts Google's encoded polyline into the GeoJSON
// LineString shape Mapbox returns, keeping [lon, lat] order.
func polylineGeoJSON(p maps.Polyline) (json.RawMessage, error) {
	points, err := p.Decode()
	if err != nil {
		return nil, err
	}
	coords := make([]contract.Coordinates, 0, len(points))
	for _, pt := range points {
		coords = append(coords, contract.NewCoordinates(pt.Lng, pt.Lat))
	}
	return json.Marshal(map[string]any{
		"type":        "LineString",
		"coordinates": coords,
	})
}
