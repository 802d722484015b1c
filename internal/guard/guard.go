// Package guard enforces at-most-once semantics for irreversible document
// conversions (lead qualification, quote-to-order copies). A Guard is the
// sole mechanism preventing double conversion: the status precondition
// check, the status flip and the conversion work itself happen as one
// logical operation per entity identity.
package guard

import (
	"context"
	"sync"

	"github.com/vantage-crm/sales-engine/internal/domain"
)

// Guard authorizes a status conversion. TryConvert succeeds iff the entity's
// current status is in from; the entity's status is then set to "to" and
// convert (when non-nil) runs inside the same critical section. If convert
// fails the status flip is rolled back and the guard released. A disallowed
// source status yields *domain.ConflictError.
type Guard interface {
	TryConvert(ctx context.Context, entity domain.Convertible, from []string, to string, convert func() error) error
}

// Keyed is the single-process Guard: a map of entity key to lock, entries
// refcounted and discarded when the last holder releases. Two concurrent
// conversion attempts on one entity serialize on its lock, so exactly one
// observes the allowed source status.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyed creates a per-entity mutex guard
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*keyedLock)}
}

// TryConvert implements Guard
func (g *Keyed) TryConvert(ctx context.Context, entity domain.Convertible, from []string, to string, convert func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := domain.ConversionKey(entity)
	lock := g.acquire(key)
	defer g.release(key, lock)

	status := entity.ConversionStatus()
	if !contains(from, status) {
		return &domain.ConflictError{
			Kind:    entity.EntityKind(),
			ID:      entity.EntityID(),
			Status:  status,
			Allowed: from,
		}
	}

	entity.SetConversionStatus(to)
	if convert != nil {
		if err := convert(); err != nil {
			entity.SetConversionStatus(status)
			return err
		}
	}
	return nil
}

func (g *Keyed) acquire(key string) *keyedLock {
	g.mu.Lock()
	lock, ok := g.locks[key]
	if !ok {
		lock = &keyedLock{}
		g.locks[key] = lock
	}
	lock.refs++
	g.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (g *Keyed) release(key string, lock *keyedLock) {
	lock.mu.Unlock()

	g.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(g.locks, key)
	}
	g.mu.Unlock()
}

func contains(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
