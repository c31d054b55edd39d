package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"concierge/internal/services"
	"concierge/pkg/utils"
)

func TestDetectMood(t *testing.T) {
	cases := []struct {
		reply string
		want  services.Mood
	}{
		{`{"mood": "Excited"}`, services.Mood{Mood: "Excited", Color: "#4CAF50"}},
		{`{"mood": "anxious"}`, services.Mood{Mood: "Anxious", Color: "#9C27B0"}},
		{`{"mood": "Melancholic"}`, services.Mood{Mood: "Neutral", Color: "#808080"}},
		{`not json`, services.Mood{Mood: "Neutral", Color: "#808080"}},
	}
	for _, tc := range cases {
		t.Run(tc.reply, func(t *testing.T) {
			svc := services.NewMoodService(replyText(tc.reply), zap.NewNop())

			got, err := svc.DetectMood(context.Background(), "I can't wait to see the Matterhorn!")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetectMood_Errors(t *testing.T) {
	llm := replyText(`{"mood": "Happy"}`)
	_, err := services.NewMoodService(llm, zap.NewNop()).DetectMood(context.Background(), " ")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
	assert.Equal(t, 0, llm.calls())

	_, err = services.NewMoodService(replyError(errors.New("down")), zap.NewNop()).DetectMood(context.Background(), "hello")
	assert.ErrorIs(t, err, utils.ErrUnexpectedBehaviorOfAI)
}

func TestMoodColorsAreFixed(t *testing.T) {
	assert.Len(t, services.MoodColors, 6)
	assert.Equal(t, "#F44336", services.MoodFor("Frustrated").Color)
	assert.Equal(t, "#FFC107", services.MoodFor("happy").Color)
	assert.Equal(t, "#2196F3", services.MoodFor(" Inquisitive ").Color)
}
