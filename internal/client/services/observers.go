package services

import (
	"sort"
	"sync"
)

// observers is a registry of state listeners. Each listener gets its own
// copy of the state, produced by clone.
type observers[T any] struct {
	mu    sync.Mutex
	next  int
	fns   map[int]func(T)
	clone func(T) T
}

func newObservers[T any](clone func(T) T) *observers[T] {
	return &observers[T]{fns: make(map[int]func(T)), clone: clone}
}

// add registers fn and returns a function that unregisters it. The returned
// function may be called any number of times.
func (o *observers[T]) add(fn func(T)) func() {
	o.mu.Lock()
	id := o.next
	o.next++
	o.fns[id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.fns, id)
			o.mu.Unlock()
		})
	}
}

// notify calls every listener in registration order. It must not be called
// with the owner's state lock held, so listeners may read the state back.
func (o *observers[T]) notify(v T) {
	o.mu.Lock()
	ids := make([]int, 0, len(o.fns))
	for id := range o.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, o.fns[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(o.clone(v))
	}
}
