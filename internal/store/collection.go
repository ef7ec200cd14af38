package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Collection owns one entity list. Every mutation builds a new slice and swaps
// it in, so a slice returned by List is never written to afterwards and can be
// compared by reference to detect changes.
//
// The mutex only keeps concurrent HTTP handlers memory safe; last write wins.
type Collection[K comparable, T any] struct {
	name string
	key  func(T) K

	validate func(T) error
	assign   func(*T, int)
	number   func(T) int
	uniques  []unique[T]

	persister Persister
	log       *zap.Logger

	mu      sync.RWMutex
	items   []T
	seq     Sequence
	version uint64
}

type unique[T any] struct {
	field string
	value func(T) string
}

// New creates an empty collection. key may be nil for collections that are
// only addressed by position.
func New[K comparable, T any](name string, key func(T) K) *Collection[K, T] {
	return &Collection[K, T]{
		name:  name,
		key:   key,
		items: []T{},
		log:   zap.NewNop(),
	}
}

// WithValidator runs fn on every created or updated entity.
func (c *Collection[K, T]) WithValidator(fn func(T) error) *Collection[K, T] {
	c.validate = fn
	return c
}

// WithUnique rejects a create or update that would give two entities the
// same non-empty value for field. The check runs under the write lock.
func (c *Collection[K, T]) WithUnique(field string, value func(T) string) *Collection[K, T] {
	c.uniques = append(c.uniques, unique[T]{field: field, value: value})
	return c
}

// WithSequence makes Create stamp a generated id on each new entity. number
// reports the id number an existing entity already carries, used to seed the
// sequence when items are loaded.
func (c *Collection[K, T]) WithSequence(assign func(*T, int), number func(T) int) *Collection[K, T] {
	c.assign = assign
	c.number = number
	return c
}

func (c *Collection[K, T]) WithPersister(p Persister, log *zap.Logger) *Collection[K, T] {
	c.persister = p
	if log != nil {
		c.log = log
	}
	return c
}

func (c *Collection[K, T]) Name() string { return c.name }

// Seed replaces the contents without persisting, and moves the sequence past
// every id already present.
func (c *Collection[K, T]) Seed(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
	c.reseed(0)
	c.version++
}

// Load restores the last persisted snapshot, if any. Without a stored
// snapshot the current (seeded) contents are written out once.
func (c *Collection[K, T]) Load() error {
	if c.persister == nil {
		return nil
	}
	data, seq, found, err := c.persister.Load(c.name)
	if err != nil {
		return fmt.Errorf("load %s: %w", c.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !found {
		c.persist()
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decode %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.reseed(seq)
	c.version++
	return nil
}

func (c *Collection[K, T]) reseed(persisted int) {
	c.seq = Sequence{}
	c.seq.Observe(persisted)
	c.seq.Observe(len(c.items))
	if c.number != nil {
		for _, it := range c.items {
			c.seq.Observe(c.number(it))
		}
	}
}

// List returns the current snapshot in insertion order. Callers must treat it
// as read-only.
func (c *Collection[K, T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

func (c *Collection[K, T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Version increases by one on every successful mutation.
func (c *Collection[K, T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

func (c *Collection[K, T]) Get(key K) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(key); i >= 0 {
		return c.items[i], nil
	}
	var zero T
	return zero, fmt.Errorf("%s %v: %w", c.name, key, ErrNotFound)
}

// Find returns the first entity matching fn.
func (c *Collection[K, T]) Find(fn func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if fn(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Create validates item, stamps a generated id when the collection has a
// sequence, and appends it.
func (c *Collection[K, T]) Create(item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.create(item)
}

// CreateIf runs check against the current items and creates item only when
// check passes. Both happen under one lock.
func (c *Collection[K, T]) CreateIf(check func(items []T) error, item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if check != nil {
		if err := check(c.items); err != nil {
			var zero T
			return zero, err
		}
	}
	return c.create(item)
}

func (c *Collection[K, T]) create(item T) (T, error) {
	var zero T
	if c.validate != nil {
		if err := c.validate(item); err != nil {
			return zero, err
		}
	}
	n := c.seq.Last() + 1
	if c.assign != nil {
		c.assign(&item, n)
	}
	if c.key != nil && c.indexOf(c.key(item)) >= 0 {
		return zero, fmt.Errorf("%s %v: %w", c.name, c.key(item), ErrDuplicate)
	}
	if err := c.checkUnique(item, -1); err != nil {
		return zero, err
	}
	if c.assign != nil {
		c.seq.Observe(n)
	}

	next := make([]T, len(c.items), len(c.items)+1)
	copy(next, c.items)
	next = append(next, item)
	c.commit(next)
	return item, nil
}

// Update applies patch to a copy of the entity stored under key and swaps the
// copy in. A patch error aborts the update with nothing changed.
func (c *Collection[K, T]) Update(key K, patch func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(key)
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("%s %v: %w", c.name, key, ErrNotFound)
	}
	return c.replace(i, patch)
}

// Upsert updates the entity under key with patch, or creates the one returned
// by create when key is absent. The lookup and the write happen under one lock.
func (c *Collection[K, T]) Upsert(key K, create func() T, patch func(*T) error) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(key); i >= 0 {
		item, err := c.replace(i, patch)
		return item, false, err
	}
	item, err := c.create(create())
	return item, err == nil, err
}

// UpdateWhere calls fn on a copy of every entity and keeps the copies fn
// reports as changed. It returns how many changed; unchanged collections are
// not rewritten.
func (c *Collection[K, T]) UpdateWhere(fn func(*T) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]T, len(c.items))
	copy(next, c.items)
	changed := 0
	for i := range next {
		if fn(&next[i]) {
			changed++
		}
	}
	if changed > 0 {
		c.commit(next)
	}
	return changed
}

// Delete removes every entity whose key is in keys and reports how many went.
// Unknown keys are ignored, so repeating a delete removes nothing.
func (c *Collection[K, T]) Delete(keys ...K) int {
	if c.key == nil || len(keys) == 0 {
		return 0
	}
	set := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if _, drop := set[c.key(it)]; !drop {
			next = append(next, it)
		}
	}
	removed := len(c.items) - len(next)
	if removed > 0 {
		c.commit(next)
	}
	return removed
}

// At returns the entity at position i.
func (c *Collection[K, T]) At(i int) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, fmt.Errorf("%s #%d: %w", c.name, i, ErrNotFound)
	}
	return c.items[i], nil
}

func (c *Collection[K, T]) UpdateAt(i int, patch func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, fmt.Errorf("%s #%d: %w", c.name, i, ErrNotFound)
	}
	return c.replace(i, patch)
}

// DeleteAt removes the entities at the given positions, all taken against the
// list as it was before the call. Out of range positions are ignored.
func (c *Collection[K, T]) DeleteAt(indexes ...int) int {
	if len(indexes) == 0 {
		return 0
	}
	set := make(map[int]struct{}, len(indexes))
	for _, i := range indexes {
		set[i] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]T, 0, len(c.items))
	for i, it := range c.items {
		if _, drop := set[i]; !drop {
			next = append(next, it)
		}
	}
	removed := len(c.items) - len(next)
	if removed > 0 {
		c.commit(next)
	}
	return removed
}

func (c *Collection[K, T]) replace(i int, patch func(*T) error) (T, error) {
	var zero T
	item := c.items[i]
	if err := patch(&item); err != nil {
		return zero, err
	}
	if c.validate != nil {
		if err := c.validate(item); err != nil {
			return zero, err
		}
	}
	if c.key != nil {
		if j := c.indexOf(c.key(item)); j >= 0 && j != i {
			return zero, fmt.Errorf("%s %v: %w", c.name, c.key(item), ErrDuplicate)
		}
	}
	if err := c.checkUnique(item, i); err != nil {
		return zero, err
	}

	next := make([]T, len(c.items))
	copy(next, c.items)
	next[i] = item
	c.commit(next)
	return item, nil
}

func (c *Collection[K, T]) checkUnique(item T, self int) error {
	for _, u := range c.uniques {
		v := u.value(item)
		if v == "" {
			continue
		}
		for j, it := range c.items {
			if j != self && u.value(it) == v {
				return fmt.Errorf("%s %s %s: %w", c.name, u.field, v, ErrDuplicate)
			}
		}
	}
	return nil
}

func (c *Collection[K, T]) indexOf(key K) int {
	if c.key == nil {
		return -1
	}
	for i, it := range c.items {
		if c.key(it) == key {
			return i
		}
	}
	return -1
}

func (c *Collection[K, T]) commit(next []T) {
	c.items = next
	c.version++
	c.persist()
}

func (c *Collection[K, T]) persist() {
	if c.persister == nil {
		return
	}
	data, err := json.Marshal(c.items)
	if err != nil {
		c.log.Error("collection snapshot encode failed", zap.String("collection", c.name), zap.Error(err))
		return
	}
	if err := c.persister.Save(c.name, data, c.seq.Last()); err != nil {
		c.log.Error("collection snapshot save failed", zap.String("collection", c.name), zap.Error(err))
	}
}
