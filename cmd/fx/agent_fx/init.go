package agent_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"concierge/internal/config"
	"concierge/internal/services"
	mem "concierge/pkg/memcache"
	"concierge/pkg/utils"
)

var Module = fx.Provide(
	provideToolNegotiator,
	provideSignalClassifier,
	services.NewConversationService,
	provideAgentService,
	services.NewMoodService,
	provideInsightService,
)

func provideToolNegotiator(cfg config.Config, llm utils.LLMClient, resolver services.LocationResolver, logger *zap.Logger) services.ToolNegotiatorInterface {
	return services.NewToolNegotiator(llm, resolver, cfg.CurrentLocationPhrases, logger.Named("negotiator"))
}

func provideSignalClassifier(cfg config.Config, llm utils.LLMClient, store mem.Store, logger *zap.Logger) services.SignalClassifier {
	return services.NewLLMSignalClassifier(llm, store, cfg.ClassifierCacheTTL, logger.Named("classifier"))
}

func provideAgentService(
	cfg config.Config,
	negotiator services.ToolNegotiatorInterface,
	conversation services.ConversationServiceInterface,
	chat services.ChatServiceInterface,
	logger *zap.Logger,
) services.AgentServiceInterface {
	return services.NewAgentService(negotiator, conversation, chat, cfg.HistoryTurnLimit, logger.Named("agent"))
}

func provideInsightService(llm utils.LLMClient) services.InsightServiceInterface {
	return services.NewInsightService(llm, services.NewStaticContextFeed())
}
