package response_models

import (
	"encoding/json"

	"concierge/internal/contract"
)

type LocationResponse struct {
	PlaceName   string               `json:"place_name"`
	Coordinates contract.Coordinates `json:"coordinates"`
}

type RouteResponse struct {
	DistanceMeters  float64         `json:"distance_meters"`
	DurationSeconds float64         `json:"duration_seconds"`
	Geometry        json.RawMessage `json:"geometry"`
}
