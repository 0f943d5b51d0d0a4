// Package di provides a minimal service container used to wire modules.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get returns a registered service, panicking if the token is unknown.
	// Missing services are wiring bugs, not runtime conditions.
	Get(token string) any
}

// Container registers and resolves services by token.
type Container interface {
	ServiceRegistry
	Register(token string, service any)
}

type container struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		services: make(map[string]any),
	}
}

func (c *container) Register(token string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[token] = service
}

func (c *container) Get(token string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	service, ok := c.services[token]
	if !ok {
		panic(fmt.Sprintf("di: service %q is not registered", token))
	}
	return service
}
