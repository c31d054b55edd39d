package location_fx

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"concierge/internal/config"
	"concierge/internal/services"
	mem "concierge/pkg/memcache"
)

var Module = fx.Provide(
	provideLocationService,
	func(s services.LocationService) services.LocationResolver { return s },
)

func provideLocationService(cfg config.Config, store mem.Store, logger *zap.Logger) (services.LocationService, error) {
	var upstream services.LocationService
	switch cfg.Location.Provider {
	case "google":
		client, err := services.NewGoogleLocationClient(cfg.Location.GoogleMapsKey, cfg.Location.Country)
		if err != nil {
			return nil, err
		}
		upstream = client
	case "mapbox":
		upstream = services.NewMapboxLocationClient(cfg.Location.MapboxKey, cfg.Location.MapboxBaseURL, cfg.Location.Country, cfg.Location.Timeout)
	default:
		return nil, fmt.Errorf("unsupported location provider: %s", cfg.Location.Provider)
	}

	logger.Info("location service ready", zap.String("provider", cfg.Location.Provider))
	return services.NewCachedLocationService(upstream, store, cfg.Location.CacheTTL, logger.Named("location")), nil
}
