package controllers_fx

import (
	"go.uber.org/fx"

	"concierge/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAgentController),
	fx.Provide(controllers.NewChatController),
	fx.Provide(controllers.NewLocationController))
