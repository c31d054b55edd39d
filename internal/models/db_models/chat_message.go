package db_models

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// ChatMessage is one turn. At most one of Itinerary, RideDetails and
// LocationRequest is set, and only on AI turns.
type ChatMessage struct {
	BaseModel
	SessionID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Sender          string         `gorm:"size:16;not null"`
	Content         string         `gorm:"type:text;not null;default:''"`
	Itinerary       datatypes.JSON `gorm:"type:jsonb"`
	RideDetails     datatypes.JSON `gorm:"type:jsonb"`
	LocationRequest bool           `gorm:"not null;default:false"`
}

func (ChatMessage) TableName() string { return "chat_messages" }

// ItineraryJSON returns the stored itinerary, or nil when the column is empty or NULL.
func (m ChatMessage) ItineraryJSON() json.RawMessage {
	return presentJSON(m.Itinerary)
}

func (m ChatMessage) RideJSON() json.RawMessage {
	return presentJSON(m.RideDetails)
}

func presentJSON(j datatypes.JSON) json.RawMessage {
	trimmed := bytes.TrimSpace(j)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.RawMessage(trimmed)
}
