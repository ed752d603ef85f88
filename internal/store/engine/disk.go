package engine

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// tableSpace is a one-byte key prefix used to emulate column families on
// top of goleveldb, which keeps a single flat keyspace per database file.
// Each Keyspace this engine knows about maps to one tableSpace byte.
type tableSpace byte

const (
	clientsSpace      tableSpace = 'C'
	transactionsSpace tableSpace = 'T'
)

func spaceFor(ks Keyspace) (tableSpace, bool) {
	switch ks {
	case Clients:
		return clientsSpace, true
	case Transactions:
		return transactionsSpace, true
	default:
		return 0, false
	}
}

// dbKey prefixes key with its tablespace byte so that the two keyspaces
// never collide inside the single underlying leveldb.DB.
func dbKey(t tableSpace, key []byte) []byte {
	out := make([]byte, 1+len(key))
	out[0] = byte(t)
	copy(out[1:], key)
	return out
}

// DiskEngine is a goleveldb-backed Engine. One leveldb.DB file backs both
// keyspaces; they are kept apart by a tablespace byte prefix rather than
// by separate column families, which goleveldb does not support.
type DiskEngine struct {
	db *leveldb.DB
}

// OpenDiskEngine opens (creating if absent) the leveldb database at path.
func OpenDiskEngine(path string) (*DiskEngine, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &DiskEngine{db: db}, nil
}

func (e *DiskEngine) Get(ks Keyspace, key []byte) ([]byte, bool, error) {
	space, ok := spaceFor(ks)
	if !ok {
		return nil, false, ErrKeyspaceNotFound
	}
	value, err := e.db.Get(dbKey(space, key), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, ErrRead
	}
	return value, true, nil
}

func (e *DiskEngine) Put(ks Keyspace, key, value []byte) error {
	space, ok := spaceFor(ks)
	if !ok {
		return ErrKeyspaceNotFound
	}
	if err := e.db.Put(dbKey(space, key), value, nil); err != nil {
		return ErrWrite
	}
	return nil
}

func (e *DiskEngine) ForEach(ks Keyspace, fn func(key, value []byte) bool) error {
	space, ok := spaceFor(ks)
	if !ok {
		return ErrKeyspaceNotFound
	}

	prefix := []byte{byte(space)}
	var iter iterator.Iterator = e.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		// Strip the tablespace prefix byte before handing the key to fn;
		// callers operate purely in the logical, unprefixed key space.
		key := iter.Key()[1:]
		if !fn(key, iter.Value()) {
			break
		}
	}
	return iter.Error()
}

func (e *DiskEngine) Close() error {
	return e.db.Close()
}
