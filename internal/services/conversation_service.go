package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"concierge/internal/contract"
	mem "concierge/pkg/memcache"
	"concierge/pkg/utils"
)

type GatheringState string

const (
	StateNeedRequest       GatheringState = "need_request"
	StateNeedTravelerCount GatheringState = "need_traveler_count"
	StateNeedDates         GatheringState = "need_dates"
	StateNeedFlightStatus  GatheringState = "need_flight_status"
	StateNeedFeedback      GatheringState = "need_feedback"
	StateReady             GatheringState = "ready"
)

// ReadySentinel tells the client to start itinerary generation. It is never shown to users.
const ReadySentinel = "READY_TO_PLAN"

var stateQuestions = map[GatheringState]string{
	StateNeedRequest:       "Where would you like to travel in Switzerland, and what kind of trip do you have in mind?",
	StateNeedTravelerCount: "Wonderful! How many people will be traveling?",
	StateNeedDates:         "Great. What dates are you planning to travel?",
	StateNeedFlightStatus:  "Have you already booked your flights?",
	StateNeedFeedback:      "Of course. What would you like to change about the current plan?",
	StateReady:             ReadySentinel,
}

// RequirementSignal is what the classifier found in the transcript.
type RequirementSignal struct {
	HasRequest        bool `json:"has_request"`
	HasTravelerCount  bool `json:"has_traveler_count"`
	HasDates          bool `json:"has_dates"`
	HasFlightStatus   bool `json:"has_flight_status"`
	IsFeedbackRequest bool `json:"is_feedback_request"`
}

// NextState is the transition table. Feedback wins over everything; otherwise
// the first missing requirement decides.
func NextState(sig RequirementSignal) GatheringState {
	switch {
	case sig.IsFeedbackRequest:
		return StateNeedFeedback
	case !sig.HasRequest:
		return StateNeedRequest
	case !sig.HasTravelerCount:
		return StateNeedTravelerCount
	case !sig.HasDates:
		return StateNeedDates
	case !sig.HasFlightStatus:
		return StateNeedFlightStatus
	default:
		return StateReady
	}
}

func QuestionFor(state GatheringState) string {
	return stateQuestions[state]
}

type SignalClassifier interface {
	Classify(ctx context.Context, transcript []contract.Message) (RequirementSignal, error)
}

// ---------------- LLM classifier ----------------

const classifierPrompt = `You read a chat between a traveler ("user") and a Swiss travel concierge ("ai").
Report which trip details the USER has provided so far. Answer with a JSON object with exactly these boolean keys:
"has_request": the user stated what trip they want (destination, style or purpose),
"has_traveler_count": the user said how many people are traveling,
"has_dates": the user gave travel dates or a time frame,
"has_flight_status": the user said whether flights are booked,
"is_feedback_request": the user's LAST message asks to change or improve an itinerary that was already produced.
Judge only from the chat. Return JSON only.`

type llmSignalClassifier struct {
	llm    utils.LLMClient
	cache  mem.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewLLMSignalClassifier classifies with the model. Results are cached by
// transcript hash so one transcript always maps to one signal.
func NewLLMSignalClassifier(llm utils.LLMClient, cache mem.Store, ttl time.Duration, logger *zap.Logger) SignalClassifier {
	return &llmSignalClassifier{llm: llm, cache: cache, ttl: ttl, logger: logger}
}

func (c *llmSignalClassifier) Classify(ctx context.Context, transcript []contract.Message) (RequirementSignal, error) {
	rendered := renderTranscript(transcript)
	key := "signal:" + hashTranscript(transcript)

	if b, ok := c.cache.Get(ctx, key); ok {
		var sig RequirementSignal
		if err := json.Unmarshal(b, &sig); err == nil {
			return sig, nil
		}
	}

	completion, err := c.llm.Complete(ctx, utils.CompletionRequest{
		System:      classifierPrompt,
		Messages:    []utils.ChatMessage{{Role: utils.RoleUser, Content: "Chat:\n---\n" + rendered + "\n---"}},
		JSON:        true,
		Temperature: utils.Temperature(0),
	})
	if err != nil {
		return RequirementSignal{}, fmt.Errorf("%w: %w", utils.ErrUnexpectedBehaviorOfAI, err)
	}
	if completion == nil || strings.TrimSpace(completion.Content) == "" {
		return RequirementSignal{}, fmt.Errorf("%w: empty classifier response", utils.ErrUnexpectedBehaviorOfAI)
	}

	var sig RequirementSignal
	if err := json.Unmarshal([]byte(stripCodeFence(completion.Content)), &sig); err != nil {
		c.logger.Warn("classifier returned invalid json", zap.Error(err))
		return RequirementSignal{}, fmt.Errorf("%w: classifier response: %v", utils.ErrUnexpectedBehaviorOfAI, err)
	}

	if b, err := json.Marshal(sig); err == nil {
		c.cache.Set(ctx, key, b, c.ttl)
	}
	return sig, nil
}

func renderTranscript(transcript []contract.Message) string {
	var sb strings.Builder
	for _, m := range transcript {
		fmt.Fprintf(&sb, "%s: %s\n", m.Sender, strings.TrimSpace(m.Content))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// hashTranscript hashes the JSON form so message boundaries are part of the key.
func hashTranscript(transcript []contract.Message) string {
	b, _ := json.Marshal(transcript)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// ---------------- service ----------------

type ConversationReply struct {
	State    GatheringState
	Response string
	Ready    bool
}

type ConversationServiceInterface interface {
	NextQuestion(ctx context.Context, transcript []contract.Message) (*ConversationReply, error)
}

type ConversationService struct {
	classifier SignalClassifier
}

func NewConversationService(classifier SignalClassifier) ConversationServiceInterface {
	return &ConversationService{classifier: classifier}
}

func (s *ConversationService) NextQuestion(ctx context.Context, transcript []contract.Message) (*ConversationReply, error) {
	cleaned := make([]contract.Message, 0, len(transcript))
	hasUser := false
	for _, m := range transcript {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		sender := strings.ToLower(strings.TrimSpace(m.Sender))
		if sender == contract.SenderUser {
			hasUser = true
		}
		cleaned = append(cleaned, contract.Message{Sender: sender, Content: content})
	}
	if !hasUser {
		return nil, fmt.Errorf("%w: transcript has no user message", utils.ErrInvalidInput)
	}

	sig, err := s.classifier.Classify(ctx, cleaned)
	if err != nil {
		return nil, err
	}

	state := NextState(sig)
	return &ConversationReply{
		State:    state,
		Response: QuestionFor(state),
		Ready:    state == StateReady,
	}, nil
}
