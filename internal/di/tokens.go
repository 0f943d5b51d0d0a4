package di

import "sync"

// Token is a typed service key. The type parameter pins what GetToken
// returns, so wiring mistakes fail at compile time instead of at Get.
type Token[T any] struct {
	name string
}

// NewToken creates a token with a unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registry key.
func (t Token[T]) Name() string {
	return t.name
}

// lazyService defers construction until first resolution and caches the
// result, giving singleton semantics per container.
type lazyService struct {
	once    sync.Once
	factory func(ServiceRegistry) any
	value   any
}

func (l *lazyService) resolve(sr ServiceRegistry) any {
	l.once.Do(func() {
		l.value = l.factory(sr)
	})
	return l.value
}

// RegisterToken registers a lazily-constructed service for a token.
func RegisterToken[T any](c Container, t Token[T], factory func(ServiceRegistry) T) {
	c.Register(t.name, &lazyService{
		factory: func(sr ServiceRegistry) any { return factory(sr) },
	})
}

// GetToken resolves a token, constructing the service on first use.
func GetToken[T any](c ServiceRegistry, t Token[T]) T {
	v := c.Get(t.name)
	if l, ok := v.(*lazyService); ok {
		v = l.resolve(c)
	}
	return v.(T)
}
