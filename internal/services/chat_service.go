package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"concierge/internal/contract"
	dbm "concierge/internal/models/db_models"
	"concierge/internal/repositories"
	"concierge/pkg/utils"
)

const maxTitleWords = 6

type ChatServiceInterface interface {
	CreateSession(ctx context.Context, userID, prompt string) (*dbm.ChatSession, error)
	ListSessions(ctx context.Context, userID string) ([]dbm.ChatSession, error)
	OpenSession(ctx context.Context, userID, sessionID string) (*dbm.ChatSession, error)
	GetSessionTurns(ctx context.Context, userID, sessionID string) (*dbm.ChatSession, []dbm.ChatMessage, error)
	RecentTurns(ctx context.Context, sessionID uuid.UUID, limit int) ([]dbm.ChatMessage, error)
	RecordUserTurn(ctx context.Context, sessionID uuid.UUID, content string) (*dbm.ChatMessage, error)
	RecordOutcome(ctx context.Context, sessionID uuid.UUID, outcome contract.Outcome) (*dbm.ChatMessage, error)
	RecordReply(ctx context.Context, sessionID uuid.UUID, content string) (*dbm.ChatMessage, error)
	GenerateTitle(ctx context.Context, prompt string) string
}

type ChatService struct {
	repo   repositories.ChatRepository
	llm    utils.LLMClient
	logger *zap.Logger
}

func NewChatService(repo repositories.ChatRepository, llm utils.LLMClient, logger *zap.Logger) ChatServiceInterface {
	return &ChatService{repo: repo, llm: llm, logger: logger}
}

func (s *ChatService) CreateSession(ctx context.Context, userID, prompt string) (*dbm.ChatSession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, utils.ErrUnauthorized
	}

	title := dbm.DefaultSessionTitle
	if strings.TrimSpace(prompt) != "" {
		title = s.GenerateTitle(ctx, prompt)
	}

	session := &dbm.ChatSession{UserID: userID, Title: title}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("chat session created", zap.String("session_id", session.ID.String()), zap.String("user_id", userID))
	return session, nil
}

func (s *ChatService) ListSessions(ctx context.Context, userID string) ([]dbm.ChatSession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, utils.ErrUnauthorized
	}
	return s.repo.ListSessionsByUser(ctx, userID)
}

// OpenSession loads a session the caller owns.
func (s *ChatService) OpenSession(ctx context.Context, userID, sessionID string) (*dbm.ChatSession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, utils.ErrUnauthorized
	}
	id, err := uuid.Parse(strings.TrimSpace(sessionID))
	if err != nil {
		return nil, fmt.Errorf("%w: session_id must be a uuid", utils.ErrInvalidInput)
	}
	return s.repo.GetSessionForUser(ctx, id, userID)
}

func (s *ChatService) GetSessionTurns(ctx context.Context, userID, sessionID string) (*dbm.ChatSession, []dbm.ChatMessage, error) {
	session, err := s.OpenSession(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	turns, err := s.repo.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, turns, nil
}

func (s *ChatService) RecentTurns(ctx context.Context, sessionID uuid.UUID, limit int) ([]dbm.ChatMessage, error) {
	return s.repo.ListRecentMessages(ctx, sessionID, limit)
}

func (s *ChatService) RecordUserTurn(ctx context.Context, sessionID uuid.UUID, content string) (*dbm.ChatMessage, error) {
	msg := &dbm.ChatMessage{
		SessionID: sessionID,
		Sender:    dbm.SenderUser,
		Content:   strings.TrimSpace(content),
	}
	if err := s.repo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// RecordOutcome appends the AI turn for a computed outcome.
func (s *ChatService) RecordOutcome(ctx context.Context, sessionID uuid.UUID, outcome contract.Outcome) (*dbm.ChatMessage, error) {
	msg, err := outcomeTurn(sessionID, outcome)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// RecordReply appends a plain-text AI turn.
func (s *ChatService) RecordReply(ctx context.Context, sessionID uuid.UUID, content string) (*dbm.ChatMessage, error) {
	msg := &dbm.ChatMessage{
		SessionID: sessionID,
		Sender:    dbm.SenderAI,
		Content:   strings.TrimSpace(content),
	}
	if err := s.repo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func outcomeTurn(sessionID uuid.UUID, outcome contract.Outcome) (*dbm.ChatMessage, error) {
	msg := &dbm.ChatMessage{SessionID: sessionID, Sender: dbm.SenderAI}

	switch o := outcome.(type) {
	case contract.ItineraryOutcome:
		b, err := json.Marshal(o.Itinerary)
		if err != nil {
			return nil, fmt.Errorf("%w: encode itinerary: %w", utils.ErrDatabaseError, err)
		}
		msg.Content = fmt.Sprintf("Here is your %d-day itinerary.", o.Itinerary.Len())
		msg.Itinerary = datatypes.JSON(b)
	case contract.RideOutcome:
		b, err := json.Marshal(o.Invocation)
		if err != nil {
			return nil, fmt.Errorf("%w: encode ride: %w", utils.ErrDatabaseError, err)
		}
		ride := o.Invocation.Ride
		msg.Content = fmt.Sprintf("Ride requested from %s to %s.", ride.Pickup.Name, ride.Destination.Name)
		msg.RideDetails = datatypes.JSON(b)
	case contract.LocationRequestOutcome:
		msg.Content = o.Message
		msg.LocationRequest = true
	default:
		return nil, fmt.Errorf("unsupported outcome %T", outcome)
	}
	return msg, nil
}

const titlePrompt = `Write a short title of at most 6 words for a travel chat that starts with the message below.
Reply with the title only, no quotes and no punctuation at the end.`

// GenerateTitle never fails; any problem yields the default title.
func (s *ChatService) GenerateTitle(ctx context.Context, prompt string) string {
	completion, err := s.llm.Complete(ctx, utils.CompletionRequest{
		System:      titlePrompt,
		Messages:    []utils.ChatMessage{{Role: utils.RoleUser, Content: strings.TrimSpace(prompt)}},
		Temperature: utils.Temperature(0.3),
		MaxTokens:   20,
	})
	if err != nil {
		s.logger.Warn("title generation failed", zap.Error(err))
		return dbm.DefaultSessionTitle
	}
	if completion == nil {
		return dbm.DefaultSessionTitle
	}
	return CleanTitle(completion.Content)
}

// CleanTitle strips quotes and trims the title to maxTitleWords words.
func CleanTitle(raw string) string {
	t := strings.TrimSpace(raw)
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[:i]
	}
	t = strings.Trim(t, "\"'`“”‘’ ")
	t = strings.TrimSuffix(t, ".")

	words := strings.Fields(t)
	if len(words) == 0 {
		return dbm.DefaultSessionTitle
	}
	if len(words) > maxTitleWords {
		words = words[:maxTitleWords]
	}
	return strings.Join(words, " ")
}

// HistoryMessages turns stored turns into model history. AI turns that
// carried an itinerary replay it so edits see the previous plan.
func HistoryMessages(turns []dbm.ChatMessage) []utils.ChatMessage {
	out := make([]utils.ChatMessage, 0, len(turns))
	for _, t := range turns {
		if t.Sender == dbm.SenderUser {
			out = append(out, utils.ChatMessage{Role: utils.RoleUser, Content: t.Content})
			continue
		}
		content := t.Content
		if it := t.ItineraryJSON(); it != nil {
			content += "\n{\"" + contract.ItineraryKey + "\": " + string(it) + "}"
		}
		out = append(out, utils.ChatMessage{Role: utils.RoleAssistant, Content: content})
	}
	return out
}

// Transcript renders stored turns as client-style messages.
func Transcript(turns []dbm.ChatMessage) []contract.Message {
	out := make([]contract.Message, 0, len(turns))
	for _, t := range turns {
		out = append(out, contract.Message{Sender: t.Sender, Content: t.Content})
	}
	return out
}

// MessageHistory converts client-supplied messages into model history.
func MessageHistory(messages []contract.Message) []utils.ChatMessage {
	out := make([]utils.ChatMessage, 0, len(messages))
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		role := utils.RoleUser
		if strings.EqualFold(strings.TrimSpace(m.Sender), contract.SenderAI) {
			role = utils.RoleAssistant
		}
		out = append(out, utils.ChatMessage{Role: role, Content: content})
	}
	return out
}
