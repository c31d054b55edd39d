package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"concierge/internal/contract"
	dbm "concierge/internal/models/db_models"
	"concierge/internal/repositories"
	"concierge/internal/services"
	"concierge/pkg/utils"
)

// mockLLM records every request. Set complete to script the reply.
type mockLLM struct {
	mu       sync.Mutex
	requests []utils.CompletionRequest
	complete func(ctx context.Context, req utils.CompletionRequest) (*utils.Completion, error)
}

func (m *mockLLM) Complete(ctx context.Context, req utils.CompletionRequest) (*utils.Completion, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.complete(ctx, req)
}

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

var _ utils.LLMClient = (*mockLLM)(nil)

func replyText(s string) *mockLLM {
	return &mockLLM{complete: func(context.Context, utils.CompletionRequest) (*utils.Completion, error) {
		return &utils.Completion{Content: s}, nil
	}}
}

func replyTool(name, args string) *mockLLM {
	return &mockLLM{complete: func(context.Context, utils.CompletionRequest) (*utils.Completion, error) {
		return &utils.Completion{ToolCall: &utils.ToolCall{Name: name, Arguments: args}}, nil
	}}
}

func replyError(err error) *mockLLM {
	return &mockLLM{complete: func(context.Context, utils.CompletionRequest) (*utils.Completion, error) {
		return nil, err
	}}
}

// mockResolver answers from a fixed table and records every lookup.
type mockResolver struct {
	mu       sync.Mutex
	places   map[string]contract.Coordinates
	err      error
	searched []string
}

func (m *mockResolver) Search(_ context.Context, placeName string) (contract.Location, error) {
	m.mu.Lock()
	m.searched = append(m.searched, placeName)
	m.mu.Unlock()
	if m.err != nil {
		return contract.Location{}, m.err
	}
	c, ok := m.places[placeName]
	if !ok {
		return contract.Location{}, &utils.LocationNotFoundError{Place: placeName}
	}
	return contract.Location{Name: placeName, Coordinates: c}, nil
}

func (m *mockResolver) Route(context.Context, contract.Coordinates, contract.Coordinates) (*services.Route, error) {
	return &services.Route{DistanceMeters: 1000, DurationSeconds: 120}, nil
}

var _ services.LocationService = (*mockResolver)(nil)

// memoryChatRepo is an in-memory repositories.ChatRepository.
type memoryChatRepo struct {
	mu         sync.Mutex
	sessions   map[uuid.UUID]dbm.ChatSession
	messages   []dbm.ChatMessage
	appendErr  func(msg *dbm.ChatMessage) error
	createErr  error
	clockTicks int
}

func newMemoryChatRepo() *memoryChatRepo {
	return &memoryChatRepo{sessions: map[uuid.UUID]dbm.ChatSession{}}
}

func (r *memoryChatRepo) tick() time.Time {
	r.clockTicks++
	return time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(r.clockTicks) * time.Second)
}

func (r *memoryChatRepo) CreateSession(_ context.Context, s *dbm.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	s.ID = uuid.New()
	s.CreatedAt = r.tick()
	s.UpdatedAt = s.CreatedAt
	r.sessions[s.ID] = *s
	return nil
}

func (r *memoryChatRepo) ListSessionsByUser(_ context.Context, userID string) ([]dbm.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dbm.ChatSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memoryChatRepo) GetSessionForUser(_ context.Context, id uuid.UUID, userID string) (*dbm.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return nil, utils.ErrSessionNotFound
	}
	return &s, nil
}

func (r *memoryChatRepo) AppendMessage(_ context.Context, msg *dbm.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		if err := r.appendErr(msg); err != nil {
			return err
		}
	}
	if _, ok := r.sessions[msg.SessionID]; !ok {
		return utils.ErrSessionNotFound
	}
	msg.ID = uuid.New()
	msg.CreatedAt = r.tick()
	msg.UpdatedAt = msg.CreatedAt
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *memoryChatRepo) ListMessages(_ context.Context, sessionID uuid.UUID) ([]dbm.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dbm.ChatMessage
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryChatRepo) ListRecentMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]dbm.ChatMessage, error) {
	all, _ := r.ListMessages(ctx, sessionID)
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (r *memoryChatRepo) turns(sessionID uuid.UUID) []dbm.ChatMessage {
	out, _ := r.ListMessages(context.Background(), sessionID)
	return out
}

var _ repositories.ChatRepository = (*memoryChatRepo)(nil)

const zurichTripJSON = `{"itinerary_draft": [
  {"day": 1, "title": "Arrival in Zurich", "activities": [
    {"time": "15:00", "description": "Check in at The Dolder Grand", "reason": "Hilltop views over the lake", "price": 950},
    {"time": "19:30", "description": "Dinner at Kronenhalle", "reason": "Art-filled institution since 1924", "price": 180}
  ]},
  {"day": 2, "title": "Old Town", "activities": [
    {"time": "10:00", "description": "Walk the Lindenhof", "reason": "Best view of the Limmat", "price": 0}
  ]}
]}`
