package services

import "sync"

// keyedMutex serializes state-mutating operations that touch the same
// record: the game service keys by asset kind, the ledger service by
// account, the raffle service by raffle ID and the treasury service by
// pool kind. Locks are created on first use and never reclaimed; the key
// space (asset kinds, accounts, raffles) is small and bounded in practice.
//
// Lock ordering is acyclic: game, ledger and raffle operations may acquire
// a treasury lock while holding their own, never the other way around.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
