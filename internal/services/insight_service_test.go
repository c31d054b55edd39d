package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge/internal/services"
	"concierge/pkg/utils"
)

func TestRadar_SendsFeedSnapshot(t *testing.T) {
	llm := replyText("  Flights from JFK are on time and Zurich expects clear skies.  ")
	svc := services.NewInsightService(llm, services.NewStaticContextFeed())

	got, err := svc.Radar(context.Background(), "Flights and weather for Zurich next week?")
	require.NoError(t, err)
	assert.Equal(t, "Flights from JFK are on time and Zurich expects clear skies.", got)

	require.Equal(t, 1, llm.calls())
	req := llm.requests[0]
	assert.Contains(t, req.Messages[0].Content, `"airline":"Swiss Air"`)
	assert.Contains(t, req.Messages[0].Content, "Zurich Art Weekend")
	assert.Equal(t, 150, req.MaxTokens)
}

func TestRecommendationContext(t *testing.T) {
	llm := replyText("Based on your request for luxury, we are suggesting five-star accommodations.")
	svc := services.NewInsightService(llm, services.NewStaticContextFeed())

	got, err := svc.RecommendationContext(context.Background(), "luxury weekend in Gstaad")
	require.NoError(t, err)
	assert.Contains(t, got, "five-star")
	assert.Contains(t, llm.requests[0].Messages[0].Content, "luxury weekend in Gstaad")
}

func TestInsight_Errors(t *testing.T) {
	svc := services.NewInsightService(replyError(errors.New("down")), services.NewStaticContextFeed())

	_, err := svc.Radar(context.Background(), "")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = svc.Radar(context.Background(), "weather")
	assert.ErrorIs(t, err, utils.ErrUnexpectedBehaviorOfAI)

	_, err = services.NewInsightService(replyText(" "), nil).RecommendationContext(context.Background(), "spa")
	assert.ErrorIs(t, err, utils.ErrUnexpectedBehaviorOfAI)
}
