package response_models

import (
	"encoding/json"

	dbm "concierge/internal/models/db_models"
	"concierge/pkg/utils"
)

type SessionResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type TurnResponse struct {
	ID              string          `json:"id"`
	Sender          string          `json:"sender"`
	Content         string          `json:"content"`
	Itinerary       json.RawMessage `json:"itinerary,omitempty"`
	RideDetails     json.RawMessage `json:"ride_details,omitempty"`
	LocationRequest bool            `json:"location_request"`
	CreatedAt       string          `json:"created_at"`
}

type SessionDetailResponse struct {
	SessionResponse
	Turns []TurnResponse `json:"turns"`
}

func NewSessionResponse(s dbm.ChatSession) SessionResponse {
	return SessionResponse{
		ID:        s.ID.String(),
		Title:     s.Title,
		CreatedAt: utils.FormatRFC3339CH(s.CreatedAt),
		UpdatedAt: utils.FormatRFC3339CH(s.UpdatedAt),
	}
}

func NewSessionDetailResponse(s dbm.ChatSession, turns []dbm.ChatMessage) SessionDetailResponse {
	out := SessionDetailResponse{
		SessionResponse: NewSessionResponse(s),
		Turns:           make([]TurnResponse, 0, len(turns)),
	}
	for _, t := range turns {
		out.Turns = append(out.Turns, TurnResponse{
			ID:              t.ID.String(),
			Sender:          t.Sender,
			Content:         t.Content,
			Itinerary:       t.ItineraryJSON(),
			RideDetails:     t.RideJSON(),
			LocationRequest: t.LocationRequest,
			CreatedAt:       utils.FormatRFC3339CH(t.CreatedAt),
		})
	}
	return out
}
