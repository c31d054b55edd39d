package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"concierge/pkg/utils"
)

const MoodNeutral = "Neutral"

// MoodColors is the closed mood set and the UI color of each mood.
var MoodColors = map[string]string{
	MoodNeutral:   "#808080",
	"Excited":     "#4CAF50",
	"Frustrated":  "#F44336",
	"Happy":       "#FFC107",
	"Anxious":     "#9C27B0",
	"Inquisitive": "#2196F3",
}

var moodOrder = []string{MoodNeutral, "Excited", "Frustrated", "Happy", "Anxious", "Inquisitive"}

type Mood struct {
	Mood  string `json:"mood"`
	Color string `json:"color"`
}

type MoodServiceInterface interface {
	DetectMood(ctx context.Context, text string) (Mood, error)
}

type MoodService struct {
	llm    utils.LLMClient
	logger *zap.Logger
}

func NewMoodService(llm utils.LLMClient, logger *zap.Logger) MoodServiceInterface {
	return &MoodService{llm: llm, logger: logger}
}

var moodPrompt = fmt.Sprintf(`Classify the mood of the traveler's message as exactly one of: %s.
Answer with a JSON object {"mood": "<label>"}.`, strings.Join(moodOrder, ", "))

func (s *MoodService) DetectMood(ctx context.Context, text string) (Mood, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Mood{}, fmt.Errorf("%w: prompt is required", utils.ErrInvalidInput)
	}

	completion, err := s.llm.Complete(ctx, utils.CompletionRequest{
		System:      moodPrompt,
		Messages:    []utils.ChatMessage{{Role: utils.RoleUser, Content: text}},
		JSON:        true,
		Temperature: utils.Temperature(0.2),
		MaxTokens:   20,
	})
	if err != nil {
		return Mood{}, fmt.Errorf("%w: %w", utils.ErrUnexpectedBehaviorOfAI, err)
	}

	label := MoodNeutral
	if completion != nil {
		var out struct {
			Mood string `json:"mood"`
		}
		if err := json.Unmarshal([]byte(stripCodeFence(completion.Content)), &out); err != nil {
			s.logger.Warn("mood response is not json", zap.Error(err))
		} else {
			label = out.Mood
		}
	}
	return MoodFor(label), nil
}

// MoodFor maps a label onto the mood table, case-insensitively. Unknown labels are Neutral.
func MoodFor(label string) Mood {
	label = strings.TrimSpace(label)
	for _, m := range moodOrder {
		if strings.EqualFold(m, label) {
			return Mood{Mood: m, Color: MoodColors[m]}
		}
	}
	return Mood{Mood: MoodNeutral, Color: MoodColors[MoodNeutral]}
}
