package sigs

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest nonce a javascript client can represent,
// Number.MAX_SAFE_INTEGER.
const maxSequenceValue = (1 << 53) - 1

// Validate ensures the user data is consistent.
func (u *UserData) Validate() error {
	if seq := u.Sequence; seq < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if u.Pubkey == nil {
		return errors.Wrap(errors.ErrEmpty, "pubkey")
	}
	return u.Pubkey.Validate()
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData under the address of its public key.
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName)}
}

// GetOrCreate loads the user data of given key. A fresh entity with sequence
// zero is returned if the key never signed anything.
func (b Bucket) GetOrCreate(db timelock.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	if err := pubkey.Validate(); err != nil {
		return nil, err
	}
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	case err != nil:
		return nil, err
	}
	return &user, nil
}

// Save writes the user data, keyed by its public key address.
func (b Bucket) Save(db timelock.KVStore, user *UserData) error {
	if user.Pubkey == nil {
		return errors.Wrap(errors.ErrEmpty, "pubkey")
	}
	return b.Put(db, user.Pubkey.Address(), user)
}
