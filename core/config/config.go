package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidTarget is returned when Load receives something other than a
// non-nil pointer to a struct.
var ErrInvalidTarget = errors.New("config target must be a non-nil pointer to struct")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> reflect.Value (struct copy)
	parseMu    sync.Mutex
)

// Load populates dst from the environment. The first call for a given type
// parses the environment; subsequent calls return the cached result.
func Load[T any](dst *T) error {
	if dst == nil {
		return ErrInvalidTarget
	}
	rt := reflect.TypeOf(dst).Elem()
	if rt.Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	if cached, ok := cache.Load(rt); ok {
		*dst = cached.(T)
		return nil
	}

	dotenvOnce.Do(func() {
		// A missing .env file is the normal production case.
		_ = godotenv.Load()
	})

	parseMu.Lock()
	defer parseMu.Unlock()

	if cached, ok := cache.Load(rt); ok {
		*dst = cached.(T)
		return nil
	}

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse %s: %w", rt.Name(), err)
	}

	cache.Store(rt, cfg)
	*dst = cfg
	return nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](dst *T) {
	if err := Load(dst); err != nil {
		panic(err)
	}
}

// reset drops every cached configuration. Tests only.
func reset() {
	cache.Range(func(key, _ any) bool {
		cache.Delete(key)
		return true
	})
}
