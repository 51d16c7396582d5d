// Package app holds the list controllers that sit between the terminal
// adapters and the API gateway: per-resource filter + pagination state with
// an idle → loading → {ready | error} lifecycle.
package app

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"sicoil-cli/internal/api"
)

// State is the lifecycle of one resource listing.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Fetch loads one page of a resource for a filter value.
type Fetch[F, T any] func(ctx context.Context, filtro F) (*api.Page[T], error)

// ListController drives one paginated resource view. Every Search re-enters
// loading and fires a fresh request; in-flight requests are never cancelled,
// so when two overlap the response that resolves last overwrites the view.
// That last-response-wins behavior is deliberate and covered by tests.
type ListController[F, T any] struct {
	mu    sync.Mutex
	fetch Fetch[F, T]
	log   *logrus.Logger

	state         State
	filtro        F
	items         []T
	page          int
	totalPages    int
	totalElements int64
	err           error
}

// NewListController builds an idle controller over the given fetch call.
func NewListController[F, T any](fetch Fetch[F, T], log *logrus.Logger) *ListController[F, T] {
	return &ListController[F, T]{fetch: fetch, log: log, state: StateIdle}
}

// Snapshot is a consistent read of the controller's display state.
type Snapshot[T any] struct {
	State         State
	Items         []T
	Page          int
	TotalPages    int
	TotalElements int64
	Err           error
}

// Snapshot returns the current display state.
func (c *ListController[F, T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		State:         c.state,
		Items:         items,
		Page:          c.page,
		TotalPages:    c.totalPages,
		TotalElements: c.totalElements,
		Err:           c.err,
	}
}

// Filtro returns the last searched filter value.
func (c *ListController[F, T]) Filtro() F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filtro
}

// Search stores the filter, enters loading and fetches in the background.
// Page changes go through here too: the caller adjusts the filter's page
// field and searches again. The returned channel closes when this request's
// response has been applied; synchronous callers just wait on it.
func (c *ListController[F, T]) Search(ctx context.Context, filtro F) <-chan struct{} {
	c.mu.Lock()
	c.filtro = filtro
	c.state = StateLoading
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		page, err := c.fetch(ctx, filtro)
		c.apply(page, err)
	}()
	return done
}

// apply installs a response unconditionally: no generation check, so
// overlapping requests resolve in arrival order.
func (c *ListController[F, T]) apply(page *api.Page[T], err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateError
		c.err = err
		if c.log != nil {
			c.log.WithError(err).Warn("list reload failed")
		}
		return
	}
	c.state = StateReady
	c.err = nil
	c.items = page.Content
	c.page = page.Number
	c.totalPages = page.TotalPages
	c.totalElements = page.TotalElements
}
