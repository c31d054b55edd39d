package llm_fx

import (
	"context"
	"io"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"concierge/internal/config"
	"concierge/pkg/utils"
)

var Module = fx.Provide(provideLLMClient)

func provideLLMClient(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (utils.LLMClient, error) {
	opts := utils.LLMOptions{Timeout: cfg.LLM.Timeout}
	switch cfg.LLM.Provider {
	case "gemini":
		opts.APIKey = cfg.LLM.GeminiKey
		opts.Model = cfg.LLM.GeminiModel
	default:
		opts.APIKey = cfg.LLM.OpenAIKey
		opts.Model = cfg.LLM.OpenAIModel
		opts.BaseURL = cfg.LLM.OpenAIBaseURL
	}

	client, err := utils.NewLLMClient(context.Background(), cfg.LLM.Provider, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("llm client ready", zap.String("provider", cfg.LLM.Provider), zap.String("model", opts.Model))

	if closer, ok := client.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return closer.Close() },
		})
	}
	return client, nil
}
