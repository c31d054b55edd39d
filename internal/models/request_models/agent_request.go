package request_models

import (
	"fmt"

	"concierge/internal/contract"
	"concierge/pkg/utils"
)

type AgentRequest struct {
	Prompt    string             `json:"prompt"`
	Messages  []contract.Message `json:"messages"`
	SessionID string             `json:"session_id"`
	// [lon, lat]
	CurrentLocation []float64 `json:"current_location"`
}

// Coordinates validates current_location. A missing value yields nil.
func (r AgentRequest) Coordinates() (*contract.Coordinates, error) {
	if r.CurrentLocation == nil {
		return nil, nil
	}
	if len(r.CurrentLocation) != 2 {
		return nil, fmt.Errorf("%w: current_location must be [lon, lat]", utils.ErrInvalidInput)
	}
	lon, lat := r.CurrentLocation[0], r.CurrentLocation[1]
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("%w: current_location is out of range", utils.ErrInvalidInput)
	}
	c := contract.NewCoordinates(lon, lat)
	return &c, nil
}

type ConversationRequest struct {
	Messages  []contract.Message `json:"messages"`
	SessionID string             `json:"session_id"`
}

type PromptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}
