package providers

import (
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/scentdex/scentdex-server/internal/cache"
	"github.com/scentdex/scentdex-server/internal/config"
	"github.com/scentdex/scentdex-server/internal/logger"
	"github.com/scentdex/scentdex-server/internal/store/sqlite"
)

// StoreHandle wraps the catalog store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite catalog store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.BasePath, 0o750); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cfg.Data.BasePath, "scentdex.db")
	st, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog store initialized", "path", dbPath)

	return &StoreHandle{Store: st}, nil
}

// CacheHandle wraps the result cache with shutdown capability.
type CacheHandle struct {
	*cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCache provides the Badger result cache.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	cachePath := filepath.Join(cfg.Data.BasePath, "cache")
	c, err := cache.Open(cachePath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Result cache initialized", "path", cachePath)

	return &CacheHandle{Cache: c}, nil
}
