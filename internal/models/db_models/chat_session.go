package db_models

const DefaultSessionTitle = "New Chat"

type ChatSession struct {
	BaseModel
	UserID   string        `gorm:"not null;index"`
	Title    string        `gorm:"size:255;not null;default:'New Chat'"`
	Messages []ChatMessage `gorm:"foreignKey:SessionID"`
}

func (ChatSession) TableName() string { return "chat_sessions" }
