/*
Package iavl provides the durable CommitKVStore backed by a versioned iavl
merkle tree on top of goleveldb.

Every committed version of the state is kept on disk until it falls out of the
retention window, which ExtendRetention can widen at runtime. A widened window
is stored next to the tree when the next version is committed, so it survives
a restart. Requests dropped with DiscardPending never take effect.
*/
package iavl

import (
	"encoding/binary"

	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
)

const (
	// DefaultCacheSize is the number of tree nodes kept in memory.
	DefaultCacheSize = 10000

	// DefaultRetention is the number of committed versions kept before the
	// oldest one is pruned.
	DefaultRetention = 100
)

// retentionKey holds the retention window in the database, outside of the
// tree. iavl keys are all prefixed with a single lower case letter.
var retentionKey = []byte("_tl:retention")

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree    *iavl.MutableTree
	db      dbm.DB
	retain  int64
	pending int64
}

var (
	_ timelock.CommitKVStore = (*CommitStore)(nil)
	_ timelock.Retainer      = (*CommitStore)(nil)
)

// NewCommitStore creates a new store with disk backing. The latest committed
// version, if any, is loaded.
func NewCommitStore(path, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "cannot open %s/%s: %s", path, name, err)
	}
	s := newCommitStore(db)
	if err := s.loadRetention(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.LoadLatestVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newCommitStore(db dbm.DB) *CommitStore {
	return &CommitStore{
		tree:   iavl.NewMutableTree(db, DefaultCacheSize),
		db:     db,
		retain: DefaultRetention,
	}
}

func (s *CommitStore) loadRetention() error {
	raw := s.db.Get(retentionKey)
	if raw == nil {
		return nil
	}
	if len(raw) != 8 {
		return errors.Wrapf(errors.ErrDatabase, "invalid retention value %X", raw)
	}
	if v := int64(binary.BigEndian.Uint64(raw)); v > s.retain {
		s.retain = v
	}
	return nil
}

// Close releases the underlying database.
func (s *CommitStore) Close() {
	s.db.Close()
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	version := s.tree.Version()
	if version == 0 {
		return nil, nil
	}
	_, val := s.tree.GetVersioned(key, version)
	return val, nil
}

// Commit the next version to disk, and returns info. A pending retention
// request is applied first, then versions that fall out of the retention
// window are pruned.
func (s *CommitStore) Commit() (timelock.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return timelock.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if s.pending > s.retain {
		raw := make([]byte, 8)
		binary.BigEndian.PutUint64(raw, uint64(s.pending))
		s.db.SetSync(retentionKey, raw)
		s.retain = s.pending
	}
	s.pending = 0
	if old := version - s.retain; old > 0 && s.tree.VersionExists(old) {
		if err := s.tree.DeleteVersion(old); err != nil {
			return timelock.CommitID{}, errors.Wrapf(errors.ErrDatabase, "prune version %d: %s", old, err)
		}
	}
	return timelock.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (timelock.CommitID, error) {
	return timelock.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// ExtendRetention requests at least period committed versions to be kept on
// disk. The request takes effect with the next Commit. A smaller period than
// the current one is ignored.
func (s *CommitStore) ExtendRetention(period uint32) error {
	if int64(period) > s.pending {
		s.pending = int64(period)
	}
	return nil
}

// DiscardPending drops retention requests made since the last Commit.
func (s *CommitStore) DiscardPending() {
	s.pending = 0
}

// Retention returns the number of committed versions currently kept.
func (s *CommitStore) Retention() int64 {
	return s.retain
}

// CacheWrap gives us a savepoint to perform actions. Writing the cache moves
// the changes into the working tree, that is persisted with the next Commit.
func (s *CommitStore) CacheWrap() timelock.KVCacheWrap {
	a := adapter{tree: s.tree}
	return store.NewBTreeCacheWrap(a, store.NewNonAtomicBatch(a), nil)
}

// adapter exposes the working state of the tree as a KVStore.
type adapter struct {
	tree *iavl.MutableTree
}

var _ timelock.KVStore = adapter{}

func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a adapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

func (a adapter) Iterator(start, end []byte) (timelock.Iterator, error) {
	return a.iterate(start, end, true), nil
}

func (a adapter) ReverseIterator(start, end []byte) (timelock.Iterator, error) {
	return a.iterate(start, end, false), nil
}

func (a adapter) iterate(start, end []byte, ascending bool) timelock.Iterator {
	var res []store.Model
	a.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res = append(res, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(res)
}
