package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"concierge/internal/contract"
	dbm "concierge/internal/models/db_models"
	"concierge/internal/services"
	"concierge/pkg/utils"
)

type agentFixture struct {
	repo     *memoryChatRepo
	llm      *mockLLM
	resolver *mockResolver
	logs     *observer.ObservedLogs
	svc      services.AgentServiceInterface
}

// newAgentFixture routes title requests to a fixed title and everything
// else to negotiate.
func newAgentFixture(negotiate func(req utils.CompletionRequest) (*utils.Completion, error)) *agentFixture {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	llm := &mockLLM{complete: func(_ context.Context, req utils.CompletionRequest) (*utils.Completion, error) {
		if len(req.Tools) == 0 {
			return &utils.Completion{Content: "Zurich Getaway"}, nil
		}
		return negotiate(req)
	}}
	repo := newMemoryChatRepo()
	resolver := &mockResolver{places: map[string]contract.Coordinates{"Zurich Airport": contract.NewCoordinates(8.5554, 47.4582)}}

	chat := services.NewChatService(repo, llm, logger)
	negotiator := services.NewToolNegotiator(llm, resolver, []string{"current position"}, logger)
	conversation := services.NewConversationService(&stubClassifier{})

	return &agentFixture{
		repo:     repo,
		llm:      llm,
		resolver: resolver,
		logs:     logs,
		svc:      services.NewAgentService(negotiator, conversation, chat, 20, logger),
	}
}

func itineraryReply(utils.CompletionRequest) (*utils.Completion, error) {
	return &utils.Completion{Content: zurichTripJSON}, nil
}

func TestEffectivePrompt(t *testing.T) {
	msgs := []contract.Message{
		{Sender: "user", Content: "first"},
		{Sender: "ai", Content: "reply"},
		{Sender: "User", Content: "latest"},
		{Sender: "ai", Content: "trailing ai"},
	}

	p, idx := services.EffectivePrompt("  explicit ", msgs)
	assert.Equal(t, "explicit", p)
	assert.Equal(t, -1, idx)

	p, idx = services.EffectivePrompt("", msgs)
	assert.Equal(t, "latest", p)
	assert.Equal(t, 2, idx)

	p, _ = services.EffectivePrompt("", []contract.Message{{Sender: "ai", Content: "hi"}})
	assert.Empty(t, p)
}

func TestRunAgent_RejectsMissingPromptBeforeModel(t *testing.T) {
	f := newAgentFixture(itineraryReply)

	_, err := f.svc.RunAgent(context.Background(), services.RunAgentInput{
		UserID:   "u1",
		Messages: []contract.Message{{Sender: "ai", Content: "How can I help?"}},
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
	assert.Equal(t, 0, f.llm.calls())
	assert.Empty(t, f.repo.sessions)
}

func TestRunAgent_AnonymousIsNotPersisted(t *testing.T) {
	f := newAgentFixture(itineraryReply)

	res, err := f.svc.RunAgent(context.Background(), services.RunAgentInput{
		Messages: []contract.Message{
			{Sender: "user", Content: "2 days in Zurich"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, res.SessionID)
	assert.IsType(t, contract.ItineraryOutcome{}, res.Outcome)
	assert.Empty(t, f.repo.messages)

	// the prompt taken from messages is not repeated in history
	require.Len(t, f.llm.requests, 1)
	assert.Len(t, f.llm.requests[0].Messages, 1)
}

func TestRunAgent_AnonymousWithSessionIsUnauthorized(t *testing.T) {
	f := newAgentFixture(itineraryReply)

	_, err := f.svc.RunAgent(context.Background(), services.RunAgentInput{
		Prompt:    "trip",
		SessionID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestRunAgent_SuccessAddsExactlyOneAITurn(t *testing.T) {
	f := newAgentFixture(itineraryReply)
	ctx := context.Background()

	res, err := f.svc.RunAgent(ctx, services.RunAgentInput{UserID: "u1", Prompt: "2 days in Zurich"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, res.SessionID)

	session := f.repo.sessions[res.SessionID]
	assert.Equal(t, "Zurich Getaway", session.Title)

	turns := f.repo.turns(res.SessionID)
	require.Len(t, turns, 2)
	assert.Equal(t, dbm.SenderUser, turns[0].Sender)
	assert.Equal(t, "2 days in Zurich", turns[0].Content)
	assert.Equal(t, dbm.SenderAI, turns[1].Sender)
	assert.NotEmpty(t, turns[1].Itinerary)

	// follow-up on the same session carries the stored history
	_, err = f.svc.RunAgent(ctx, services.RunAgentInput{UserID: "u1", SessionID: res.SessionID.String(), Prompt: "make it 3 days"})
	require.NoError(t, err)
	assert.Len(t, f.repo.turns(res.SessionID), 4)

	last := f.llm.requests[len(f.llm.requests)-1]
	require.Len(t, last.Messages, 3)
	assert.Equal(t, "2 days in Zurich", last.Messages[0].Content)
	assert.Contains(t, last.Messages[1].Content, contract.ItineraryKey)
	assert.Equal(t, "make it 3 days", last.Messages[2].Content)
}

func TestRunAgent_FailureKeepsUserTurnOnly(t *testing.T) {
	f := newAgentFixture(func(utils.CompletionRequest) (*utils.Completion, error) {
		return nil, errors.New("upstream timeout")
	})

	session, err := services.NewChatService(f.repo, f.llm, zap.NewNop()).CreateSession(context.Background(), "u1", "")
	require.NoError(t, err)

	_, err = f.svc.RunAgent(context.Background(), services.RunAgentInput{
		UserID:    "u1",
		SessionID: session.ID.String(),
		Prompt:    "2 days in Zurich",
	})
	assert.ErrorIs(t, err, utils.ErrUnexpectedBehaviorOfAI)

	turns := f.repo.turns(session.ID)
	require.Len(t, turns, 1)
	assert.Equal(t, dbm.SenderUser, turns[0].Sender)
}

func TestRunAgent_LocationRequestIsPersistedAsMarker(t *testing.T) {
	f := newAgentFixture(func(utils.CompletionRequest) (*utils.Completion, error) {
		return &utils.Completion{ToolCall: &utils.ToolCall{
			Name:      contract.ToolBookRide,
			Arguments: `{"pickup_location": "current position", "destination_location": "Zurich Airport"}`,
		}}, nil
	})

	res, err := f.svc.RunAgent(context.Background(), services.RunAgentInput{UserID: "u1", Prompt: "taxi to the airport"})
	require.NoError(t, err)
	assert.IsType(t, contract.LocationRequestOutcome{}, res.Outcome)
	assert.Empty(t, f.resolver.searched)

	turns := f.repo.turns(res.SessionID)
	require.Len(t, turns, 2)
	assert.True(t, turns[1].LocationRequest)
	assert.Empty(t, turns[1].RideDetails)
}

func TestRunAgent_AITurnWriteFailureStillReturnsResult(t *testing.T) {
	f := newAgentFixture(itineraryReply)
	f.repo.appendErr = func(msg *dbm.ChatMessage) error {
		if msg.Sender == dbm.SenderAI {
			return utils.ErrDatabaseError
		}
		return nil
	}

	res, err := f.svc.RunAgent(context.Background(), services.RunAgentInput{UserID: "u1", Prompt: "2 days in Zurich"})
	require.NoError(t, err)
	assert.IsType(t, contract.ItineraryOutcome{}, res.Outcome)

	assert.Len(t, f.repo.turns(res.SessionID), 1)
	anomalies := f.logs.FilterMessage("persistence anomaly").All()
	require.Len(t, anomalies, 1)
	assert.Equal(t, zapcore.ErrorLevel, anomalies[0].Level)
}

func TestRunAgent_UserTurnWriteFailureStopsBeforeModel(t *testing.T) {
	f := newAgentFixture(itineraryReply)
	f.repo.appendErr = func(*dbm.ChatMessage) error { return utils.ErrDatabaseError }

	_, err := f.svc.RunAgent(context.Background(), services.RunAgentInput{UserID: "u1", Prompt: "2 days in Zurich"})
	assert.ErrorIs(t, err, utils.ErrDatabaseError)

	for _, req := range f.llm.requests {
		assert.Empty(t, req.Tools, "negotiation must not run")
	}
}

func TestRunAgent_ForeignSessionIsNotFound(t *testing.T) {
	f := newAgentFixture(itineraryReply)
	session, err := services.NewChatService(f.repo, f.llm, zap.NewNop()).CreateSession(context.Background(), "owner", "")
	require.NoError(t, err)

	_, err = f.svc.RunAgent(context.Background(), services.RunAgentInput{
		UserID:    "someone-else",
		SessionID: session.ID.String(),
		Prompt:    "trip",
	})
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
	assert.Empty(t, f.repo.turns(session.ID))
}

func TestConverse_FromSessionTurns(t *testing.T) {
	f := newAgentFixture(itineraryReply)
	ctx := context.Background()
	chat := services.NewChatService(f.repo, f.llm, zap.NewNop())

	session, err := chat.CreateSession(ctx, "u1", "")
	require.NoError(t, err)
	_, err = chat.RecordUserTurn(ctx, session.ID, "I want a 3-day Zurich trip")
	require.NoError(t, err)

	res, err := f.svc.Converse(ctx, services.ConverseInput{UserID: "u1", SessionID: session.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, session.ID, res.SessionID)
	assert.Equal(t, services.StateNeedTravelerCount, res.Reply.State)
}

func TestConverse_EmptyTranscript(t *testing.T) {
	f := newAgentFixture(itineraryReply)

	_, err := f.svc.Converse(context.Background(), services.ConverseInput{})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestConverse_SessionAnswersAdvanceState(t *testing.T) {
	f := newAgentFixture(itineraryReply)
	ctx := context.Background()
	chat := services.NewChatService(f.repo, f.llm, zap.NewNop())

	session, err := chat.CreateSession(ctx, "u1", "")
	require.NoError(t, err)
	_, err = chat.RecordUserTurn(ctx, session.ID, "I want a 3-day Zurich trip")
	require.NoError(t, err)

	answers := []struct {
		text string
		want services.GatheringState
	}{
		{"We are 2 people", services.StateNeedDates},
		{"Mid July", services.StateNeedFlightStatus},
		{"Flights are booked", services.StateReady},
	}
	for _, a := range answers {
		res, err := f.svc.Converse(ctx, services.ConverseInput{
			UserID:    "u1",
			SessionID: session.ID.String(),
			Messages:  []contract.Message{{Sender: "user", Content: a.text}},
		})
		require.NoError(t, err)
		assert.Equal(t, a.want, res.Reply.State, a.text)
	}

	turns := f.repo.turns(session.ID)
	require.Len(t, turns, 7)
	assert.Equal(t, dbm.SenderUser, turns[1].Sender)
	assert.Equal(t, "We are 2 people", turns[1].Content)
	assert.Equal(t, dbm.SenderAI, turns[2].Sender)
	assert.Equal(t, services.QuestionFor(services.StateNeedDates), turns[2].Content)
	assert.Equal(t, dbm.SenderAI, turns[6].Sender)
	assert.NotEqual(t, services.ReadySentinel, turns[6].Content)
	assert.NotEmpty(t, turns[6].Content)
}

func TestConverse_SessionReplyWriteFailureStillReturnsReply(t *testing.T) {
	f := newAgentFixture(itineraryReply)
	ctx := context.Background()
	chat := services.NewChatService(f.repo, f.llm, zap.NewNop())

	session, err := chat.CreateSession(ctx, "u1", "")
	require.NoError(t, err)
	f.repo.appendErr = func(msg *dbm.ChatMessage) error {
		if msg.Sender == dbm.SenderAI {
			return utils.ErrDatabaseError
		}
		return nil
	}

	res, err := f.svc.Converse(ctx, services.ConverseInput{
		UserID:    "u1",
		SessionID: session.ID.String(),
		Messages:  []contract.Message{{Sender: "user", Content: "I want a 3-day Zurich trip"}},
	})
	require.NoError(t, err)
	assert.Equal(t, services.StateNeedTravelerCount, res.Reply.State)
	assert.Len(t, f.repo.turns(session.ID), 1)
	assert.Len(t, f.logs.FilterMessage("persistence anomaly").All(), 1)
}
