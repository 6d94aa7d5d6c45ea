package orm

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// OrderedIndex is a set of keys that remembers the order of insertion.
//
// Each member is stored twice: under a position key built from a sequence
// value (for ordered enumeration) and under a member key pointing back to its
// position (for membership tests and removal). Both operations are a constant
// number of store calls and removing a member never reorders the remaining
// ones.
type OrderedIndex struct {
	name      string
	positions []byte
	members   []byte
	seq       Sequence
}

// NewOrderedIndex returns an index with given name. The name must be unique
// within the application.
func NewOrderedIndex(name string) OrderedIndex {
	if !isBucketName(name) {
		panic("Illegal index: " + name)
	}
	return OrderedIndex{
		name:      name,
		positions: []byte("_ix." + name + ":p:"),
		members:   []byte("_ix." + name + ":m:"),
		seq:       NewSequence("_ix", name),
	}
}

func (x OrderedIndex) positionKey(pos []byte) []byte {
	return concat(x.positions, pos)
}

func (x OrderedIndex) memberKey(member []byte) []byte {
	return concat(x.members, member)
}

// Has returns true if given member belongs to the index.
func (x OrderedIndex) Has(db timelock.ReadOnlyKVStore, member []byte) (bool, error) {
	if len(member) == 0 {
		return false, errors.Wrap(errors.ErrEmpty, "member")
	}
	return db.Has(x.memberKey(member))
}

// Add appends given member at the end of the index. ErrDuplicate is returned
// if the member already belongs to the index.
func (x OrderedIndex) Add(db timelock.KVStore, member []byte) error {
	ok, err := x.Has(db, member)
	if err != nil {
		return err
	}
	if ok {
		return errors.Wrapf(errors.ErrDuplicate, "%s index member %X", x.name, member)
	}
	pos, err := x.seq.NextVal(db)
	if err != nil {
		return errors.Wrap(err, "position")
	}
	if err := db.Set(x.positionKey(pos), member); err != nil {
		return err
	}
	return db.Set(x.memberKey(member), pos)
}

// Remove deletes given member from the index. ErrNotFound is returned if the
// member does not belong to the index.
func (x OrderedIndex) Remove(db timelock.KVStore, member []byte) error {
	if len(member) == 0 {
		return errors.Wrap(errors.ErrEmpty, "member")
	}
	pos, err := db.Get(x.memberKey(member))
	if err != nil {
		return err
	}
	if pos == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s index member %X", x.name, member)
	}
	if err := db.Delete(x.positionKey(pos)); err != nil {
		return err
	}
	return db.Delete(x.memberKey(member))
}

// Members returns all members in the order they were added.
func (x OrderedIndex) Members(db timelock.ReadOnlyKVStore) ([][]byte, error) {
	start, end := prefixRange(x.positions)
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res [][]byte
	for {
		_, member, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, member)
	}
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}

func concat(prefix, key []byte) []byte {
	out := make([]byte, len(prefix)+len(key))
	copy(out, prefix)
	copy(out[len(prefix):], key)
	return out
}
