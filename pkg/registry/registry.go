package registry

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/arthur-debert/dotsetup/pkg/errors"
)

// Registry stores items by unique name and remembers registration order.
type Registry[T any] interface {
	// Register adds an item; names must be non-empty and unused
	Register(name string, item T) error

	// Get retrieves an item
	Get(name string) (T, error)

	// Remove deletes an item
	Remove(name string) error

	// List returns all names sorted
	List() []string

	// Ordered returns all names in registration order
	Ordered() []string

	// Values returns the items sorted by name
	Values() []T

	// Has checks if a name is registered
	Has(name string) bool

	// Count returns the number of items
	Count() int
}

type registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// New creates an empty Registry
func New[T any]() Registry[T] {
	return &registry[T]{
		items: make(map[string]T),
	}
}

func (r *registry[T]) Register(name string, item T) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "'%s' is already registered", name).
			WithDetail("name", name)
	}

	r.items[name] = item
	r.order = append(r.order, name)
	return nil
}

func (r *registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		var zero T
		return zero, errors.Newf(errors.ErrNotFound, "'%s' is not registered", name).
			WithDetail("name", name)
	}

	return item, nil
}

func (r *registry[T]) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; !exists {
		return errors.Newf(errors.ErrNotFound, "'%s' is not registered", name).
			WithDetail("name", name)
	}

	delete(r.items, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return nil
}

func (r *registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := slices.Clone(r.order)
	sort.Strings(names)
	return names
}

func (r *registry[T]) Ordered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

func (r *registry[T]) Values() []T {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make([]T, 0, len(names))
	for _, name := range names {
		if item, ok := r.items[name]; ok {
			values = append(values, item)
		}
	}
	return values
}

func (r *registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[name]
	return exists
}

func (r *registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// MustRegister registers an item and panics if registration fails
func MustRegister[T any](reg Registry[T], name string, item T) {
	if err := reg.Register(name, item); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", name, err))
	}
}
