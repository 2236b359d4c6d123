// Package di provides a small explicit registry for process-wide
// collaborators: one cache store handle, one repository per record type, one
// publisher. The container is populated once at startup, looked up by type,
// and torn down once at shutdown — no ambient global lookups.
package di

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// Container holds singleton instances keyed by their static type. Safe for
// concurrent resolution after the startup phase has populated it.
type Container struct {
	entries *xsync.MapOf[string, any]

	mu      sync.Mutex
	closers []func() error
}

// New creates an empty container.
func New() *Container {
	return &Container{entries: xsync.NewMapOf[string, any]()}
}

// Register stores value under its static type T, replacing any previous
// registration. Register interface implementations under the interface type:
// Register[cache.Store](c, store).
func Register[T any](c *Container, value T) {
	c.entries.Store(typeKey[T](), value)
}

// Resolve returns the instance registered under type T.
func Resolve[T any](c *Container) (T, error) {
	var zero T
	key := typeKey[T]()
	v, ok := c.entries.Load(key)
	if !ok {
		return zero, fmt.Errorf("di: no registration for %s", key)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("di: registration for %s holds %T", key, v)
	}
	return typed, nil
}

// MustResolve is Resolve for wiring paths where a missing registration is a
// programming error.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// OnClose registers a teardown hook. Hooks run in reverse registration
// order, mirroring startup.
func (c *Container) OnClose(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, fn)
}

// Close runs all teardown hooks in reverse registration order, collecting
// every error. Subsequent calls are no-ops.
func (c *Container) Close() error {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Keys lists the registered type names, sorted. Useful for debugging wiring.
func (c *Container) Keys() []string {
	var keys []string
	c.entries.Range(func(k string, _ any) bool {
		keys = append(keys, k)
		return true
	})
	sort.Strings(keys)
	return keys
}

// typeKey names type T, including interface types, via the pointer-elem
// trick.
func typeKey[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
