package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// configCache holds one parsed snapshot per configuration type so every
// Load call across the process sees the same value.
type configCache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

func (c *configCache) lookup(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

func (c *configCache) onceFor(name string) *sync.Once {
	c.mu.Lock()
	defer c.mu.Unlock()
	once, ok := c.onces[name]
	if !ok {
		once = new(sync.Once)
		c.onces[name] = once
	}
	return once
}

func (c *configCache) store(name string, v any) {
	c.mu.Lock()
	c.values[name] = v
	c.mu.Unlock()
}

var (
	globalCache = &configCache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v based on its `env` struct
// tags, loading the default .env file first if one exists. Each
// configuration type is parsed exactly once per process; later calls
// for the same type receive the cached snapshot, so two components
// asking for the same Config cannot diverge. Parse failures are
// wrapped with ErrParsingConfig.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// A missing .env file is fine, the process env still applies.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	name := getTypeName[T]()
	if cached, ok := globalCache.lookup(name); ok {
		*v = cached.(T)
		return nil
	}

	var err error
	globalCache.onceFor(name).Do(func() {
		if parseErr := env.Parse(v); parseErr != nil {
			err = errors.Join(ErrParsingConfig, parseErr)
			return
		}
		globalCache.store(name, *v)
	})
	if err != nil {
		return err
	}

	// A caller that lost the once race reads the winner's snapshot.
	if cached, ok := globalCache.lookup(name); ok {
		*v = cached.(T)
		return nil
	}
	return ErrConfigNotLoaded
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// getTypeName keys the cache by the concrete type of T.
func getTypeName[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return fmt.Sprintf("%T", *new(T))
}
