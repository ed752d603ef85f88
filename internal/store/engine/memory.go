package engine

import "sync"

// MemEngine is an in-memory Engine: a map of keyspace name to a map of
// byte-key to byte-value, guarded by a readers-writer lock so that many
// client actors can read concurrently while a write excludes all of
// them. This is the engine the CLI's generator and the test suite use;
// the on-disk DiskEngine is the one a real run persists through.
type MemEngine struct {
	mu        sync.RWMutex
	keyspaces map[Keyspace]map[string][]byte
}

// NewMemEngine returns an empty in-memory engine with both keyspaces
// pre-created.
func NewMemEngine() *MemEngine {
	return &MemEngine{
		keyspaces: map[Keyspace]map[string][]byte{
			Clients:      {},
			Transactions: {},
		},
	}
}

func (m *MemEngine) Get(ks Keyspace, key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	space, found := m.keyspaces[ks]
	if !found {
		return nil, false, ErrKeyspaceNotFound
	}
	value, ok := space[string(key)]
	if !ok {
		return nil, false, nil
	}
	// Return a copy: callers must not be able to mutate our backing array
	// through the slice they get back.
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *MemEngine) Put(ks Keyspace, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	space, found := m.keyspaces[ks]
	if !found {
		return ErrKeyspaceNotFound
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	space[string(key)] = stored
	return nil
}

func (m *MemEngine) ForEach(ks Keyspace, fn func(key, value []byte) bool) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	space, found := m.keyspaces[ks]
	if !found {
		return ErrKeyspaceNotFound
	}
	for k, v := range space {
		if !fn([]byte(k), v) {
			break
		}
	}
	return nil
}

func (m *MemEngine) Close() error {
	return nil
}
