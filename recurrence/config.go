package recurrence

// EngineConfig holds configuration options for the recurrence engine.
type EngineConfig struct {
	CacheEnabled bool
	CacheConfig  CacheConfig
}

// DefaultEngineConfig provides sensible defaults for interactive calendars:
// navigation revisits the same windows constantly, so caching pays off.
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,
}

// DisabledCacheConfig turns off caching entirely. Useful for one-shot
// builds and for tests that must observe every expansion.
var DisabledCacheConfig = EngineConfig{
	CacheEnabled: false,
}

// NewEngineWithConfig creates a recurrence engine with custom configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	var cache *Cache
	if config.CacheEnabled {
		cache = NewCache(config.CacheConfig)
	}
	return &Engine{cache: cache}
}

// Close releases the engine's cache resources, if any.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}
