package config_fx

import (
	"go.uber.org/fx"

	"concierge/internal/config"
)

var Module = fx.Provide(config.Load)
