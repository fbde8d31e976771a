package ai

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"gptchat/pkg/config"
)

// ProviderType represents a supported LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = config.ProviderOpenAI
	ProviderDryRun ProviderType = config.ProviderDryRun
)

// ProviderFactory is a function that creates a Provider from config.
type ProviderFactory func(cfg config.Config) (Provider, error)

// ProviderInfo describes a registered provider.
type ProviderInfo struct {
	Type        ProviderType
	Name        string
	Description string
	RequiresKey bool
}

// Registry manages provider factories and instantiation.
type Registry struct {
	mu        sync.RWMutex
	factories map[ProviderType]ProviderFactory
	info      map[ProviderType]ProviderInfo
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[ProviderType]ProviderFactory),
		info:      make(map[ProviderType]ProviderInfo),
	}
}

// Register adds a provider factory to the registry.
func (r *Registry) Register(info ProviderInfo, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[info.Type] = factory
	r.info[info.Type] = info
}

// GetProvider creates a provider instance for the configured type.
func (r *Registry) GetProvider(cfg config.Config) (Provider, error) {
	providerType := ProviderType(cfg.LLMProvider)
	if !r.IsRegistered(providerType) {
		return nil, fmt.Errorf("unknown provider type: %s (available: %s)", providerType, strings.Join(r.providerTypes(), ", "))
	}

	r.mu.RLock()
	factory := r.factories[providerType]
	r.mu.RUnlock()

	return factory(cfg)
}

func (r *Registry) providerTypes() []string {
	providers := r.ListProviders()
	types := make([]string, len(providers))
	for i, info := range providers {
		types[i] = string(info.Type)
	}
	return types
}

// ListProviders returns information about all registered providers, sorted by type.
func (r *Registry) ListProviders() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]ProviderInfo, 0, len(r.info))
	for _, info := range r.info {
		providers = append(providers, info)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i].Type < providers[j].Type })
	return providers
}

// IsRegistered checks if a provider type is registered.
func (r *Registry) IsRegistered(providerType ProviderType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[providerType]
	return ok
}

// DefaultRegistry is the global provider registry.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(ProviderInfo{
		Type:        ProviderOpenAI,
		Name:        "OpenAI",
		Description: "Chat completions endpoint (api.openai.com or compatible)",
		RequiresKey: true,
	}, func(cfg config.Config) (Provider, error) {
		return NewOpenAIProvider(cfg.OpenAI)
	})
	r.Register(ProviderInfo{
		Type:        ProviderDryRun,
		Name:        "Dry run",
		Description: "Local echo, no network access",
	}, func(cfg config.Config) (Provider, error) {
		return NewDryRunProvider(cfg.OpenAI.Model), nil
	})
	return r
}

// GetProviderFromConfig creates a provider from the default registry.
func GetProviderFromConfig(cfg config.Config) (Provider, error) {
	return DefaultRegistry.GetProvider(cfg)
}
