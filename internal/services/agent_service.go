package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"concierge/internal/contract"
	"concierge/pkg/utils"
)

type RunAgentInput struct {
	// UserID is empty for anonymous callers; their runs are not persisted.
	UserID          string
	SessionID       string
	Prompt          string
	Messages        []contract.Message
	CurrentLocation *contract.Coordinates
}

type RunAgentResult struct {
	// SessionID is uuid.Nil for anonymous runs.
	SessionID uuid.UUID
	Outcome   contract.Outcome
}

type ConverseInput struct {
	UserID    string
	SessionID string
	Messages  []contract.Message
}

type ConverseResult struct {
	SessionID uuid.UUID
	Reply     *ConversationReply
}

type AgentServiceInterface interface {
	RunAgent(ctx context.Context, in RunAgentInput) (*RunAgentResult, error)
	Converse(ctx context.Context, in ConverseInput) (*ConverseResult, error)
}

type AgentService struct {
	negotiator   ToolNegotiatorInterface
	conversation ConversationServiceInterface
	chat         ChatServiceInterface
	historyLimit int
	logger       *zap.Logger
}

func NewAgentService(
	negotiator ToolNegotiatorInterface,
	conversation ConversationServiceInterface,
	chat ChatServiceInterface,
	historyLimit int,
	logger *zap.Logger,
) AgentServiceInterface {
	return &AgentService{
		negotiator:   negotiator,
		conversation: conversation,
		chat:         chat,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// EffectivePrompt returns the explicit prompt, or else the latest user message.
// The second value is the index of that message in messages, -1 when the
// prompt was given explicitly or nothing usable was found.
func EffectivePrompt(prompt string, messages []contract.Message) (string, int) {
	if p := strings.TrimSpace(prompt); p != "" {
		return p, -1
	}
	for i := len(messages) - 1; i >= 0; i-- {
		if !strings.EqualFold(strings.TrimSpace(messages[i].Sender), contract.SenderUser) {
			continue
		}
		if c := strings.TrimSpace(messages[i].Content); c != "" {
			return c, i
		}
	}
	return "", -1
}

func (s *AgentService) RunAgent(ctx context.Context, in RunAgentInput) (*RunAgentResult, error) {
	prompt, idx := EffectivePrompt(in.Prompt, in.Messages)
	if prompt == "" {
		return nil, fmt.Errorf("%w: a prompt or a user message is required", utils.ErrInvalidInput)
	}

	priorMessages := in.Messages
	if idx >= 0 {
		priorMessages = in.Messages[:idx]
	}

	if in.UserID == "" {
		if strings.TrimSpace(in.SessionID) != "" {
			return nil, fmt.Errorf("%w: session_id requires authentication", utils.ErrUnauthorized)
		}
		outcome, err := s.negotiator.Negotiate(ctx, NegotiationInput{
			Prompt:          prompt,
			CurrentLocation: in.CurrentLocation,
			History:         MessageHistory(priorMessages),
		})
		if err != nil {
			return nil, err
		}
		return &RunAgentResult{Outcome: outcome}, nil
	}

	sessionID, history, err := s.prepareSession(ctx, in.UserID, in.SessionID, prompt, priorMessages)
	if err != nil {
		return nil, err
	}

	if _, err := s.chat.RecordUserTurn(ctx, sessionID, prompt); err != nil {
		return nil, err
	}

	outcome, err := s.negotiator.Negotiate(ctx, NegotiationInput{
		Prompt:          prompt,
		CurrentLocation: in.CurrentLocation,
		History:         history,
	})
	if err != nil {
		s.logger.Info("agent run failed", zap.String("session_id", sessionID.String()), zap.Error(err))
		return nil, err
	}

	if _, err := s.chat.RecordOutcome(ctx, sessionID, outcome); err != nil {
		s.logger.Error("persistence anomaly",
			zap.String("session_id", sessionID.String()),
			zap.String("outcome", fmt.Sprintf("%T", outcome)),
			zap.Error(err),
		)
	}

	return &RunAgentResult{SessionID: sessionID, Outcome: outcome}, nil
}

// prepareSession opens or creates the caller's session and returns the
// history to send with the prompt. History is read before the new user turn
// is stored so the prompt is not sent twice.
func (s *AgentService) prepareSession(ctx context.Context, userID, sessionID, prompt string, prior []contract.Message) (uuid.UUID, []utils.ChatMessage, error) {
	if strings.TrimSpace(sessionID) == "" {
		session, err := s.chat.CreateSession(ctx, userID, prompt)
		if err != nil {
			return uuid.Nil, nil, err
		}
		return session.ID, MessageHistory(prior), nil
	}

	session, err := s.chat.OpenSession(ctx, userID, sessionID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	turns, err := s.chat.RecentTurns(ctx, session.ID, s.historyLimit)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return session.ID, HistoryMessages(turns), nil
}

// readyTurnText is stored in place of the ready sentinel, which is never shown.
const readyTurnText = "Thanks, I have everything I need to plan your trip."

// Converse answers with the next requirements question. With a session the
// transcript is the stored turns plus the newest user message of the
// request, and both sides of the exchange are stored; otherwise the request
// messages are the transcript.
func (s *AgentService) Converse(ctx context.Context, in ConverseInput) (*ConverseResult, error) {
	if strings.TrimSpace(in.SessionID) == "" {
		if len(in.Messages) == 0 {
			return nil, fmt.Errorf("%w: messages are required", utils.ErrInvalidInput)
		}
		reply, err := s.conversation.NextQuestion(ctx, in.Messages)
		if err != nil {
			return nil, err
		}
		return &ConverseResult{Reply: reply}, nil
	}

	if in.UserID == "" {
		return nil, fmt.Errorf("%w: session_id requires authentication", utils.ErrUnauthorized)
	}
	session, turns, err := s.chat.GetSessionTurns(ctx, in.UserID, in.SessionID)
	if err != nil {
		return nil, err
	}

	transcript := Transcript(turns)
	answer, _ := EffectivePrompt("", in.Messages)
	if answer != "" {
		if _, err := s.chat.RecordUserTurn(ctx, session.ID, answer); err != nil {
			return nil, err
		}
		transcript = append(transcript, contract.Message{Sender: contract.SenderUser, Content: answer})
	}
	if len(transcript) == 0 {
		return nil, fmt.Errorf("%w: messages are required", utils.ErrInvalidInput)
	}

	reply, err := s.conversation.NextQuestion(ctx, transcript)
	if err != nil {
		s.logger.Info("conversation turn failed", zap.String("session_id", session.ID.String()), zap.Error(err))
		return nil, err
	}

	if answer != "" {
		text := reply.Response
		if reply.Ready {
			text = readyTurnText
		}
		if _, err := s.chat.RecordReply(ctx, session.ID, text); err != nil {
			s.logger.Error("persistence anomaly",
				zap.String("session_id", session.ID.String()),
				zap.String("state", string(reply.State)),
				zap.Error(err),
			)
		}
	}

	return &ConverseResult{SessionID: session.ID, Reply: reply}, nil
}
