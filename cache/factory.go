package cache

import (
	"fmt"
	"log"

	"github.com/mivura/feedbed/config"
)

// NewProvider 按配置创建缓存提供者
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.CacheType {
	case "memory", "":
		provider, err := NewMemory(DefaultMemoryConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		log.Println("Using in-memory cache provider")
		return provider, nil
	case "redis":
		provider, err := NewRedis(cfg.CacheRedisAddr, cfg.CacheRedisPassword, cfg.CacheRedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		log.Printf("Using redis cache provider at %s", cfg.CacheRedisAddr)
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported cache provider type: %s", cfg.CacheType)
	}
}

// PostKey 单个帖子的缓存键
func PostKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}
