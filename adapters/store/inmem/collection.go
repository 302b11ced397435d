package inmem

import (
	"fmt"
	"sync"
	"time"
)

// collection implements the Create/Get/List/Update/Delete shape shared by
// the in-memory repositories. Entities are copied on the way in and out so
// callers never alias stored state.
type collection[T any] struct {
	mu       sync.RWMutex
	items    map[string]*T
	seq      int64
	idPrefix string
	getID    func(*T) string
	setID    func(*T, string)
	notFound error
}

func newCollection[T any](prefix string, getID func(*T) string, setID func(*T, string), notFound error) *collection[T] {
	return &collection[T]{
		items:    make(map[string]*T),
		idPrefix: prefix,
		getID:    getID,
		setID:    setID,
		notFound: notFound,
	}
}

// create stores a copy of v, assigning an ID when absent. A non-nil clash
// predicate rejects the insert with exists when any stored entity matches.
func (c *collection[T]) create(v *T, clash func(*T) bool, exists error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if clash != nil {
		for _, it := range c.items {
			if clash(it) {
				return exists
			}
		}
	}
	if c.getID(v) == "" {
		c.seq++
		c.setID(v, fmt.Sprintf("%s-%d-%d", c.idPrefix, time.Now().UnixNano(), c.seq))
	}
	cp := *v
	c.items[c.getID(v)] = &cp
	return nil
}

func (c *collection[T]) get(id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	if !ok {
		return nil, c.notFound
	}
	cp := *v
	return &cp, nil
}

func (c *collection[T]) list() ([]*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*T, 0, len(c.items))
	for _, v := range c.items {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (c *collection[T]) update(v *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.getID(v)
	if _, ok := c.items[id]; !ok {
		return c.notFound
	}
	cp := *v
	c.items[id] = &cp
	return nil
}

func (c *collection[T]) delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return c.notFound
	}
	delete(c.items, id)
	return nil
}
