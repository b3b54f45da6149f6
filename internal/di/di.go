// Package di provides a minimal service container with typed tokens.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry provides read access to registered services.
type ServiceRegistry interface {
	Get(name string) any
}

// Container extends ServiceRegistry with registration. Values are eager,
// factories are lazy singletons resolved on first Get.
type Container interface {
	ServiceRegistry
	Register(name string, value any)
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

type lazyService struct {
	once    sync.Once
	factory func(ServiceRegistry) any
	value   any
}

type container struct {
	mu        sync.RWMutex
	values    map[string]any
	factories map[string]*lazyService
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		values:    make(map[string]any),
		factories: make(map[string]*lazyService),
	}
}

func (c *container) Register(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name] = value
}

func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = &lazyService{factory: factory}
}

func (c *container) Get(name string) any {
	c.mu.RLock()
	if v, ok := c.values[name]; ok {
		c.mu.RUnlock()
		return v
	}
	svc, ok := c.factories[name]
	c.mu.RUnlock()

	if !ok {
		return nil
	}

	// Run the factory outside the container lock so it can resolve
	// other services without deadlocking.
	svc.once.Do(func() {
		svc.value = svc.factory(c)
	})

	return svc.value
}

// Token is a typed key for a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a token with a unique service name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's service name.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a lazily constructed service under the token.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves the service registered under the token. It panics on a
// missing registration or a type mismatch; both are wiring bugs.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	v := sr.Get(token.name)
	if v == nil {
		panic(fmt.Sprintf("di: service %q not registered", token.name))
	}
	typed, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q registered with type %T", token.name, v))
	}
	return typed
}
