package response_models

import (
	"github.com/google/uuid"

	"concierge/internal/contract"
)

// AgentResponse carries exactly one of the three outcome shapes.
type AgentResponse struct {
	SessionID       string                `json:"session_id,omitempty"`
	Itinerary       *contract.Itinerary   `json:"itinerary,omitempty"`
	ToolName        string                `json:"tool_name,omitempty"`
	ToolParams      *contract.RideRequest `json:"tool_params,omitempty"`
	Message         string                `json:"message,omitempty"`
	LocationRequest bool                  `json:"location_request,omitempty"`
}

func NewAgentResponse(sessionID uuid.UUID, outcome contract.Outcome) AgentResponse {
	var resp AgentResponse
	if sessionID != uuid.Nil {
		resp.SessionID = sessionID.String()
	}

	switch o := outcome.(type) {
	case contract.ItineraryOutcome:
		it := o.Itinerary
		resp.Itinerary = &it
	case contract.RideOutcome:
		ride := o.Invocation.Ride
		resp.ToolName = o.Invocation.Name
		resp.ToolParams = &ride
	case contract.LocationRequestOutcome:
		resp.Message = o.Message
		resp.LocationRequest = true
	}
	return resp
}

type ConversationResponse struct {
	SessionID string `json:"session_id,omitempty"`
	Response  string `json:"response"`
	State     string `json:"state"`
	Ready     bool   `json:"ready"`
}

type MoodResponse struct {
	Mood  string `json:"mood"`
	Color string `json:"color"`
}

type RadarResponse struct {
	Response string `json:"response"`
}

type ContextResponse struct {
	Content string `json:"content"`
}
