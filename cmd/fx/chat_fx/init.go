package chat_fx

import (
	"go.uber.org/fx"

	"concierge/internal/services"
)

var Module = fx.Provide(services.NewChatService)
