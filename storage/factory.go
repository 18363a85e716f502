package storage

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/mitchellh/mapstructure"

	"github.com/mivura/feedbed/config"
	"github.com/mivura/feedbed/storage/local"
)

// Factory 存储工厂 - 负责创建和管理存储提供者
type Factory struct {
	providers       map[string]Provider
	defaultProvider string
}

// NewFactory 创建新的存储工厂
func NewFactory(cfg *config.Config) (*Factory, error) {
	factory := &Factory{
		providers: make(map[string]Provider),
	}

	log.Println("Initializing storage providers...")

	// 初始化本地存储
	if cfg.StorageLocalPath != "" {
		localProvider, err := local.NewStorage(cfg.StorageLocalPath)
		if err != nil {
			log.Printf("Failed to initialize local storage: %v", err)
		} else {
			factory.providers["local"] = localProvider
			log.Println("Successfully initialized 'local' storage provider")
		}
	}

	// 初始化额外后端（minio / webdav）
	if cfg.StorageProvidersJSON != "" {
		if err := factory.loadExtraProviders(cfg.StorageProvidersJSON); err != nil {
			log.Printf("Failed to load extra storage providers: %v", err)
		}
	}

	if len(factory.providers) == 0 {
		return nil, fmt.Errorf("no storage providers were successfully initialized")
	}

	// 设置默认存储
	factory.defaultProvider = cfg.StorageType
	if factory.defaultProvider == "" {
		factory.defaultProvider = "local"
	}
	if _, ok := factory.providers[factory.defaultProvider]; !ok {
		return nil, fmt.Errorf("default storage type '%s' is not available", factory.defaultProvider)
	}
	log.Printf("Default storage provider set to: '%s'", factory.defaultProvider)

	return factory, nil
}

// loadExtraProviders 从 JSON 配置加载额外存储后端
func (f *Factory) loadExtraProviders(providersJSON string) error {
	var configMaps map[string]map[string]interface{}
	if err := json.Unmarshal([]byte(providersJSON), &configMaps); err != nil {
		return fmt.Errorf("failed to unmarshal storage providers config: %w", err)
	}

	for name, configMap := range configMaps {
		var (
			provider Provider
			err      error
		)

		switch name {
		case "minio":
			var minioCfg MinioConfig
			if err = mapstructure.Decode(configMap, &minioCfg); err == nil {
				provider, err = NewMinioStorage(minioCfg)
			}
		case "webdav":
			var webdavCfg WebDAVConfig
			if err = mapstructure.Decode(configMap, &webdavCfg); err == nil {
				provider, err = NewWebDAVStorage(webdavCfg)
			}
		default:
			log.Printf("Unknown storage provider type '%s', skipping", name)
			continue
		}

		if err != nil {
			log.Printf("Failed to initialize '%s' storage provider: %v", name, err)
			continue
		}

		f.providers[name] = provider
		log.Printf("Successfully initialized '%s' storage provider", name)
	}

	return nil
}

// Get 获取指定名称的存储提供者
func (f *Factory) Get(name string) (Provider, error) {
	if name == "" {
		name = f.defaultProvider
	}

	provider, ok := f.providers[name]
	if !ok {
		return nil, fmt.Errorf("storage provider '%s' not found", name)
	}
	return provider, nil
}

// GetDefault 获取默认存储提供者
func (f *Factory) GetDefault() Provider {
	provider, _ := f.Get(f.defaultProvider)
	return provider
}

// GetDefaultName 获取默认存储提供者名称
func (f *Factory) GetDefaultName() string {
	return f.defaultProvider
}

// ListProviders 列出所有可用的存储提供者名称
func (f *Factory) ListProviders() []string {
	names := make([]string, 0, len(f.providers))
	for name := range f.providers {
		names = append(names, name)
	}
	return names
}
