package app

import (
	"encoding/binary"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// CommitStore keeps the cache used to deliver transactions on top of a
// CommitKVStore. Every transaction is either committed or rolled back as a
// whole.
type CommitStore struct {
	committed timelock.CommitKVStore
	deliver   timelock.KVCacheWrap
}

// NewCommitStore loads the latest version of given store.
func NewCommitStore(store timelock.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current version and hash.
func (cs *CommitStore) CommitInfo() (timelock.CommitID, error) {
	return cs.committed.LatestVersion()
}

// DeliverStore returns the store that transactions must be delivered to.
func (cs *CommitStore) DeliverStore() timelock.CacheableKVStore {
	return cs.deliver
}

// ReadStore returns a fresh, throw away view of the committed state.
func (cs *CommitStore) ReadStore() timelock.KVCacheWrap {
	return cs.committed.CacheWrap()
}

// Commit flushes the deliver cache and persists a new version.
func (cs *CommitStore) Commit() (timelock.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		cs.Rollback()
		return timelock.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	id, err := cs.committed.Commit()
	cs.deliver = cs.committed.CacheWrap()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	return id, nil
}

// pendingDiscarder is implemented by stores that hold requests back until
// the next commit.
type pendingDiscarder interface {
	DiscardPending()
}

// Rollback drops all changes made since the last commit.
func (cs *CommitStore) Rollback() {
	cs.deliver.Discard()
	cs.deliver = cs.committed.CacheWrap()
	if d, ok := cs.committed.(pendingDiscarder); ok {
		d.DiscardPending()
	}
}

// _tl: is a prefix for the application internal data
const (
	chainIDKey   = "_tl:chainID"
	blockTimeKey = "_tl:blockTime"
)

// loadChainID returns the stored chain id, or an empty string if there is
// none.
func loadChainID(db timelock.ReadOnlyKVStore) (string, error) {
	v, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID stores the chain id. It can be set only once.
func saveChainID(db timelock.KVStore, chainID string) error {
	if !timelock.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := db.Has(k)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if exists {
		return errors.Wrap(errors.ErrState, "chain id already set")
	}
	if err := db.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// loadBlockTime returns the block time of the last delivered transaction, or
// zero if there is none.
func loadBlockTime(db timelock.ReadOnlyKVStore) (timelock.Timestamp, error) {
	v, err := db.Get([]byte(blockTimeKey))
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if v == nil {
		return 0, nil
	}
	if len(v) != 8 {
		return 0, errors.Wrapf(errors.ErrState, "invalid block time %X", v)
	}
	return timelock.Timestamp(binary.BigEndian.Uint64(v)), nil
}

func saveBlockTime(db timelock.KVStore, now timelock.Timestamp) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, uint64(now))
	if err := db.Set([]byte(blockTimeKey), v); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
