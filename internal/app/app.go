package app

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/mivura/feedbed/cache"
	"github.com/mivura/feedbed/config"
	"github.com/mivura/feedbed/database"
	"github.com/mivura/feedbed/database/repo/accounts"
	"github.com/mivura/feedbed/database/repo/posts"
	"github.com/mivura/feedbed/internal/feed"
	"github.com/mivura/feedbed/internal/identity"
	"github.com/mivura/feedbed/storage"
)

// Container 依赖注入容器 - 管理所有服务的生命周期
type Container struct {
	config         *config.Config
	db             *gorm.DB
	storageFactory *storage.Factory
	cacheProvider  cache.Provider

	PostsRepo    *posts.Repository
	AccountsRepo *accounts.Repository

	FeedService     *feed.Service
	IdentityService *identity.Service
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// Init 初始化数据库、存储、缓存和各服务
func (c *Container) Init() error {
	db, err := database.Open(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.db = db

	storageFactory, err := storage.NewFactory(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize storage factory: %w", err)
	}
	c.storageFactory = storageFactory

	cacheProvider, err := cache.NewProvider(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize cache provider: %w", err)
	}
	c.cacheProvider = cacheProvider

	c.PostsRepo = posts.NewRepository(db)
	c.AccountsRepo = accounts.NewRepository(db)

	c.FeedService = feed.NewService(c.PostsRepo, storageFactory.GetDefault(), cacheProvider, c.config)
	c.IdentityService = identity.NewService(c.AccountsRepo)

	return nil
}

// AutoMigrate 执行自动DDL
func (c *Container) AutoMigrate() error {
	return database.AutoMigrate(c.db)
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// GetStorageFactory 获取存储工厂
func (c *Container) GetStorageFactory() *storage.Factory {
	return c.storageFactory
}

// GetCacheProvider 获取缓存提供者
func (c *Container) GetCacheProvider() cache.Provider {
	return c.cacheProvider
}

// GetConfig 获取配置
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// Close 关闭所有服务
func (c *Container) Close() error {
	if c.cacheProvider != nil {
		if err := c.cacheProvider.Close(); err != nil {
			log.Printf("Error closing cache provider: %v", err)
		}
	}

	if c.db != nil {
		if err := database.Close(c.db); err != nil {
			return err
		}
	}
	return nil
}
