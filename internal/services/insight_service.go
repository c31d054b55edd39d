package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"concierge/pkg/utils"
)

// ContextFeed supplies raw travel context (flights, weather, events) for a query.
type ContextFeed interface {
	Snapshot(ctx context.Context, query string) (json.RawMessage, error)
}

type FlightInfo struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Status   string `json:"status"`
	PriceUSD int    `json:"price_usd"`
	Airline  string `json:"airline"`
}

type WeatherInfo struct {
	Location string `json:"location"`
	Forecast string `json:"forecast"`
	TempC    int    `json:"temp_c"`
}

type EventInfo struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Venue string `json:"venue"`
}

type FeedSnapshot struct {
	Flights FlightInfo  `json:"flights"`
	Weather WeatherInfo `json:"weather"`
	Events  []EventInfo `json:"events"`
}

// StaticContextFeed serves one fixed snapshot regardless of the query.
type StaticContextFeed struct {
	Data FeedSnapshot
}

func NewStaticContextFeed() *StaticContextFeed {
	return &StaticContextFeed{Data: FeedSnapshot{
		Flights: FlightInfo{From: "JFK", To: "ZRH", Status: "On Time", PriceUSD: 1450, Airline: "Swiss Air"},
		Weather: WeatherInfo{Location: "Zurich", Forecast: "Clear skies with light breeze", TempC: 24},
		Events:  []EventInfo{{Name: "Zurich Art Weekend", Type: "Art Fair", Venue: "Various Galleries"}},
	}}
}

func (f *StaticContextFeed) Snapshot(_ context.Context, _ string) (json.RawMessage, error) {
	return json.Marshal(f.Data)
}

type InsightServiceInterface interface {
	Radar(ctx context.Context, query string) (string, error)
	RecommendationContext(ctx context.Context, request string) (string, error)
}

type InsightService struct {
	llm  utils.LLMClient
	feed ContextFeed
}

func NewInsightService(llm utils.LLMClient, feed ContextFeed) InsightServiceInterface {
	return &InsightService{llm: llm, feed: feed}
}

const radarPrompt = `You are a context-aware radar agent for a luxury Swiss travel app.
You get a context query and a JSON object of raw external data.
Summarize the information that matters to a luxury traveler in two or three sentences.`

func (s *InsightService) Radar(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: prompt is required", utils.ErrInvalidInput)
	}

	raw, err := s.feed.Snapshot(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: context feed: %w", utils.ErrUnexpectedBehaviorOfAI, err)
	}

	return s.complete(ctx, utils.CompletionRequest{
		System: radarPrompt,
		Messages: []utils.ChatMessage{{
			Role:    utils.RoleUser,
			Content: fmt.Sprintf("User Query: %q\nRaw Data: %s", query, raw),
		}},
		Temperature: utils.Temperature(0.3),
		MaxTokens:   150,
	})
}

const contextPrompt = `You are a helpful travel assistant providing context for recommendations.
Given a travel request, explain in exactly one sentence what a recommendation would be based on.
Example: "Based on your request for luxury, we are suggesting five-star accommodations."`

func (s *InsightService) RecommendationContext(ctx context.Context, request string) (string, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return "", fmt.Errorf("%w: prompt is required", utils.ErrInvalidInput)
	}
	return s.complete(ctx, utils.CompletionRequest{
		System:   contextPrompt,
		Messages: []utils.ChatMessage{{Role: utils.RoleUser, Content: "User request: " + request}},
	})
}

func (s *InsightService) complete(ctx context.Context, req utils.CompletionRequest) (string, error) {
	completion, err := s.llm.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrUnexpectedBehaviorOfAI, err)
	}
	if completion == nil || strings.TrimSpace(completion.Content) == "" {
		return "", fmt.Errorf("%w: empty response", utils.ErrUnexpectedBehaviorOfAI)
	}
	return strings.TrimSpace(completion.Content), nil
}
