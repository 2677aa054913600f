package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/scentdex/scentdex-server/internal/config"
	"github.com/scentdex/scentdex-server/internal/logger"
	"github.com/scentdex/scentdex-server/internal/populate"
	"github.com/scentdex/scentdex-server/internal/search"
	"github.com/scentdex/scentdex-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve full-text index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// ProvideSearchService provides the search service and wires it back into the
// population engine as its indexer.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	engine := do.MustInvoke[*populate.Engine](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(indexHandle.Index, storeHandle.Store, cacheHandle.Cache, engine, log.Logger)

	// Promoted records reach the index through the service.
	engine.SetIndexer(svc)

	return svc, nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index when the store already
// holds records. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := searchService.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	total, err := storeHandle.Total(ctx)
	if err != nil || total == 0 {
		return
	}

	log.Info("Search index is empty but catalog has records, triggering initial reindex",
		"records", total,
	)

	go func() {
		if err := searchService.ReindexAll(context.Background()); err != nil {
			log.Error("Initial search reindex failed", "error", err)
			return
		}
		count, _ := searchService.DocumentCount()
		log.Info("Initial search reindex completed", "documents", count)
	}()
}
