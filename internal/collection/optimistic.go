package collection

import (
	"context"
	"slices"
	"sync"
)

// List is an in-memory collection with optimistic mutations: the change is
// applied locally first, the remote effect runs after, and on failure the
// prior snapshot is restored verbatim before the error is returned.
type List[T any] struct {
	mu    sync.Mutex
	items []T
	id    func(T) int
}

// NewList copies the initial items so later mutations cannot alias the
// caller's slice.
func NewList[T any](items []T, id func(T) int) *List[T] {
	return &List[T]{items: slices.Clone(items), id: id}
}

// Items returns a copy of the current view.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Replace swaps the whole view, e.g. after a fresh fetch.
func (l *List[T]) Replace(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.Clone(items)
}

// Delete removes the item locally, then runs the remote delete. The lock
// is not held across the network call; other operations may proceed while
// it is in flight.
func (l *List[T]) Delete(ctx context.Context, id int, remote func(context.Context) error) error {
	l.mu.Lock()
	snapshot := slices.Clone(l.items)
	filtered := l.items[:0:0]
	for _, item := range l.items {
		if l.id(item) != id {
			filtered = append(filtered, item)
		}
	}
	l.items = filtered
	l.mu.Unlock()

	if err := remote(ctx); err != nil {
		l.mu.Lock()
		l.items = snapshot
		l.mu.Unlock()
		return err
	}
	return nil
}

// Add appends the item locally, then runs the remote create. On success
// the optimistic entry is replaced with the server-confirmed one; on
// failure the snapshot is restored.
func (l *List[T]) Add(ctx context.Context, item T, remote func(context.Context) (T, error)) error {
	l.mu.Lock()
	snapshot := slices.Clone(l.items)
	optimisticID := l.id(item)
	l.items = append(l.items, item)
	l.mu.Unlock()

	confirmed, err := remote(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.items = snapshot
		return err
	}
	// Locate the pending entry by identity: a concurrent delete may have
	// shifted positions while the create was in flight.
	for i := len(l.items) - 1; i >= 0; i-- {
		if l.id(l.items[i]) == optimisticID {
			l.items[i] = confirmed
			break
		}
	}
	return nil
}
