package services

import "sync"

// mealLocks serializes writers of the same meal key while letting
// different meals proceed in parallel. Entries are dropped when unused.
type mealLocks struct {
	mu    sync.Mutex
	locks map[string]*mealLock
}

type mealLock struct {
	mu   sync.Mutex
	refs int
}

func newMealLocks() *mealLocks {
	return &mealLocks{locks: make(map[string]*mealLock)}
}

// lock blocks until key is free and returns its unlock func.
func (l *mealLocks) lock(key string) func() {
	l.mu.Lock()
	ml, ok := l.locks[key]
	if !ok {
		ml = &mealLock{}
		l.locks[key] = ml
	}
	ml.refs++
	l.mu.Unlock()

	ml.mu.Lock()
	return func() {
		ml.mu.Unlock()
		l.mu.Lock()
		ml.refs--
		if ml.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *mealLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
