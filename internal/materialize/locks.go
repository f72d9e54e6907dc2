package materialize

import "sync"

// lockRegistry hands out one mutex per key so concurrent materializations
// against the same target root serialize while distinct targets proceed in
// parallel. Mutexes are never removed; the set of target roots a process
// touches is small.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locks: make(map[string]*sync.Mutex)}
}

func (r *lockRegistry) get(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	r.locks[key] = l
	return l
}
