package escrow

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

const (
	// BucketName is where the escrow records are stored.
	BucketName = "escrow"
	// IndexName is the name of the active-account index.
	IndexName = "escrows"
)

// Configuration is set once, when the ledger is initialized.
type Configuration struct {
	// Asset is the ticker of the only asset the ledger holds in custody.
	Asset string `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset"`
	// MaxLockupDuration is the longest permitted interval, in clock
	// units, between the lock time and the claim time.
	MaxLockupDuration uint64 `protobuf:"varint,2,opt,name=max_lockup_duration,json=maxLockupDuration,proto3" json:"max_lockup_duration"`
}

// Marshal returns the protobuf encoding.
func (c *Configuration) Marshal() ([]byte, error) {
	return codec.Marshal((*configuration)(c))
}

// Unmarshal loads the protobuf encoded data.
func (c *Configuration) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*configuration)(c))
}

// Validate returns an error if the configuration cannot be used.
func (c *Configuration) Validate() error {
	if !coin.IsTicker(c.Asset) {
		return errors.Wrapf(errors.ErrInput, "invalid asset %q", c.Asset)
	}
	return nil
}

// Escrow is the custody record of a single account.
type Escrow struct {
	Account    timelock.Address   `json:"account"`
	Amount     coin.Amount        `json:"amount"`
	ClaimAfter timelock.Timestamp `json:"claim_after"`
}

// Marshal returns the protobuf encoding.
func (e *Escrow) Marshal() ([]byte, error) {
	return marshalRecord(e.Account, e.Amount, e.ClaimAfter)
}

// Unmarshal loads the protobuf encoded data.
func (e *Escrow) Unmarshal(raw []byte) error {
	account, amount, claimAfter, err := unmarshalRecord(raw)
	if err != nil {
		return err
	}
	*e = Escrow{Account: account, Amount: amount, ClaimAfter: claimAfter}
	return nil
}

// Validate ensures the record can be stored.
func (e *Escrow) Validate() error {
	if err := e.Account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Amount.IsPositive() {
		return errors.Wrap(ErrNonPositiveAmount, "escrow amount")
	}
	if e.ClaimAfter.IsZero() {
		return errors.Wrap(errors.ErrEmpty, "claim after")
	}
	return nil
}

// Details is the view of an escrow record at a given time.
type Details struct {
	Account    timelock.Address   `json:"account"`
	Amount     coin.Amount        `json:"amount"`
	ClaimAfter timelock.Timestamp `json:"claim_after"`
	CanUnlock  bool               `json:"can_unlock"`
}

// DetailsAt returns the view of the record at given time.
func (e *Escrow) DetailsAt(now timelock.Timestamp) Details {
	return Details{
		Account:    e.Account,
		Amount:     e.Amount,
		ClaimAfter: e.ClaimAfter,
		CanUnlock:  now >= e.ClaimAfter,
	}
}

// Bucket stores escrow records keyed by the account address.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket for managing escrow records.
func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName)}
}

// Get returns the record of given account. ErrEscrowNotFound is returned if
// there is none.
func (b Bucket) Get(db timelock.ReadOnlyKVStore, account timelock.Address) (*Escrow, error) {
	var e Escrow
	switch err := b.One(db, account, &e); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrEscrowNotFound, "%s", account)
	case err != nil:
		return nil, err
	}
	return &e, nil
}

// Save writes the record, keyed by its account.
func (b Bucket) Save(db timelock.KVStore, e *Escrow) error {
	return b.Put(db, e.Account, e)
}

// NewIndex returns the active-account index.
func NewIndex() orm.OrderedIndex {
	return orm.NewOrderedIndex(IndexName)
}
