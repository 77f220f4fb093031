package store

import (
	"context"
	"sync"

	"therapath-portal/internal/model"
)

// Collection is an in-memory Repository. Values are copied in and out, and
// List returns them in insertion order.
type Collection[T Entity] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string

	// conflict, when set, is checked against every stored value under the
	// write lock; a non-nil result rejects the Add.
	conflict func(existing, added T) error
}

func NewCollection[T Entity]() *Collection[T] {
	return &Collection[T]{items: make(map[string]T)}
}

func (c *Collection[T]) Get(_ context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	if !ok {
		var zero T
		return zero, model.ErrNotFound
	}
	return v, nil
}

func (c *Collection[T]) List(_ context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out, nil
}

func (c *Collection[T]) Add(_ context.Context, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := v.Key()
	if _, ok := c.items[id]; ok {
		return model.ErrDuplicate
	}
	if c.conflict != nil {
		for _, existing := range c.items {
			if err := c.conflict(existing, v); err != nil {
				return err
			}
		}
	}
	c.items[id] = v
	c.order = append(c.order, id)
	return nil
}

func (c *Collection[T]) Update(_ context.Context, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := v.Key()
	if _, ok := c.items[id]; !ok {
		return model.ErrNotFound
	}
	c.items[id] = v
	return nil
}

func (c *Collection[T]) Remove(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return model.ErrNotFound
	}
	delete(c.items, id)
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// find returns the first value matching fn.
func (c *Collection[T]) find(fn func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		if v := c.items[id]; fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

type memoryUsers struct {
	*Collection[model.User]
}

func newMemoryUsers() *memoryUsers {
	c := NewCollection[model.User]()
	c.conflict = func(existing, added model.User) error {
		if existing.Email == added.Email {
			return model.ErrDuplicate
		}
		return nil
	}
	return &memoryUsers{Collection: c}
}

func (m *memoryUsers) ByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := m.find(func(u model.User) bool { return u.Email == email })
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

// newMemoryAppointments refuses a second active booking for the same user
// and slot, matching appointments_active_slot_idx in Postgres.
func newMemoryAppointments() *Collection[model.Appointment] {
	c := NewCollection[model.Appointment]()
	c.conflict = func(existing, added model.Appointment) error {
		if SlotClash(existing, added) {
			return model.ErrSlotTaken
		}
		return nil
	}
	return c
}

// SlotClash reports whether two appointments hold the same slot for the same
// signed-in user. Anonymous bookings never clash.
func SlotClash(a, b model.Appointment) bool {
	return a.UserID != "" && a.UserID == b.UserID &&
		a.Active() && b.Active() &&
		a.Date == b.Date && a.Time == b.Time
}
