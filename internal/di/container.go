// Package di provides dependency injection configuration for the scentdex server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/scentdex/scentdex-server/internal/config"
	"github.com/scentdex/scentdex-server/internal/di/providers"
	"github.com/scentdex/scentdex-server/internal/logger"
	"github.com/scentdex/scentdex-server/internal/metadata/perfumero"
	"github.com/scentdex/scentdex-server/internal/populate"
	"github.com/scentdex/scentdex-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCache)

	// Metadata and population
	do.Provide(injector, providers.ProvidePerfumeroClient)
	do.Provide(injector, providers.ProvideEngine)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is running.
// This triggers lazy initialization of every provider in dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.CacheHandle](injector)
	_ = do.MustInvoke[*perfumero.Client](injector)
	_ = do.MustInvoke[*populate.Engine](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Backfill the index if the catalog outlived its index files.
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
