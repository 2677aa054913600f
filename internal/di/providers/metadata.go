package providers

import (
	"github.com/samber/do/v2"

	"github.com/scentdex/scentdex-server/internal/config"
	"github.com/scentdex/scentdex-server/internal/logger"
	"github.com/scentdex/scentdex-server/internal/metadata/perfumero"
	"github.com/scentdex/scentdex-server/internal/populate"
)

// ProvidePerfumeroClient provides the external fragrance metadata client.
// Missing credentials are not an error; the client reports itself unavailable
// and the server runs local-only.
func ProvidePerfumeroClient(i do.Injector) (*perfumero.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := perfumero.New(perfumero.Config{
		APIKey:     cfg.Perfumero.APIKey,
		APIHost:    cfg.Perfumero.APIHost,
		DailyLimit: cfg.Perfumero.DailyLimit,
	}, log.Logger)

	if client.IsAvailable() {
		log.Info("Metadata API client ready",
			"host", cfg.Perfumero.APIHost,
			"daily_limit", cfg.Perfumero.DailyLimit,
		)
	} else {
		log.Info("Metadata API not configured, running local-only")
	}

	return client, nil
}

// ProvideEngine provides the catalog population engine. The indexer is wired
// later by the search service provider.
func ProvideEngine(i do.Injector) (*populate.Engine, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*perfumero.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return populate.New(storeHandle.Store, client, nil, log.Logger), nil
}
