package core

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mivura/feedbed/cache"
	"github.com/mivura/feedbed/storage"
)

func timeSinceStart() string {
	return time.Since(startTime).Round(time.Second).String()
}

func checkDatabaseHealth(db *gorm.DB) string {
	if db == nil {
		return "not initialized"
	}

	sqlDB, err := db.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkCacheHealth(provider cache.Provider) string {
	if provider == nil {
		return "not initialized"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := provider.Exists(ctx, "health:probe"); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkStorageHealth(storageFactory *storage.Factory) string {
	if storageFactory == nil {
		return "not initialized"
	}

	provider := storageFactory.GetDefault()
	if provider == nil {
		return "error: no default storage provider"
	}

	if err := provider.Health(context.Background()); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
