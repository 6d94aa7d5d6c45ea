package cash

import (
	"sort"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// BucketName is where we store the wallets
const BucketName = "cash"

// Balance is the amount of a single asset held by a wallet.
type Balance struct {
	Ticker string      `json:"ticker"`
	Amount coin.Amount `json:"amount"`
}

// Wallet holds the balances of a single address. Balances are sorted by
// ticker and never zero.
type Wallet struct {
	Balances []*Balance `json:"balances"`
}

// Marshal returns the protobuf encoding.
func (w *Wallet) Marshal() ([]byte, error) {
	msg := wallet{Balances: make([]*balance, len(w.Balances))}
	for i, b := range w.Balances {
		msg.Balances[i] = &balance{Ticker: b.Ticker, Amount: b.Amount.String()}
	}
	return codec.Marshal(&msg)
}

// Unmarshal loads the protobuf encoded data.
func (w *Wallet) Unmarshal(raw []byte) error {
	var msg wallet
	if err := codec.Unmarshal(raw, &msg); err != nil {
		return err
	}
	*w = Wallet{}
	for _, b := range msg.Balances {
		amount, err := coin.ParseAmount(b.Amount)
		if err != nil {
			return errors.Wrapf(errors.ErrModel, "%s balance: %s", b.Ticker, err)
		}
		w.Balances = append(w.Balances, &Balance{Ticker: b.Ticker, Amount: amount})
	}
	return nil
}

// Validate returns an error if the wallet is not consistent.
func (w *Wallet) Validate() error {
	for i, b := range w.Balances {
		if !coin.IsTicker(b.Ticker) {
			return errors.Wrapf(errors.ErrInput, "invalid ticker %q", b.Ticker)
		}
		if !b.Amount.IsPositive() {
			return errors.Wrapf(errors.ErrAmount, "%s balance must be positive", b.Ticker)
		}
		if err := b.Amount.Validate(); err != nil {
			return err
		}
		if i > 0 && w.Balances[i-1].Ticker >= b.Ticker {
			return errors.Wrap(errors.ErrModel, "balances not sorted")
		}
	}
	return nil
}

// Balance returns the amount of given asset held. Zero is returned for an
// unknown asset.
func (w *Wallet) Balance(ticker string) coin.Amount {
	for _, b := range w.Balances {
		if b.Ticker == ticker {
			return b.Amount
		}
	}
	return coin.Amount{}
}

// add changes the balance of given asset. The amount may be negative.
// ErrInsufficientFunds is returned if the balance would drop below zero.
func (w *Wallet) add(ticker string, amount coin.Amount) error {
	total, err := w.Balance(ticker).Add(amount)
	if err != nil {
		return err
	}
	if total.IsNegative() {
		return errors.Wrapf(ErrInsufficientFunds, "%s balance %s, need %s", ticker, w.Balance(ticker), amount)
	}

	res := make([]*Balance, 0, len(w.Balances)+1)
	for _, b := range w.Balances {
		if b.Ticker != ticker {
			res = append(res, b)
		}
	}
	if !total.IsZero() {
		res = append(res, &Balance{Ticker: ticker, Amount: total})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Ticker < res[j].Ticker })
	w.Balances = res
	return nil
}

// IsEmpty returns true if the wallet holds nothing.
func (w *Wallet) IsEmpty() bool {
	return len(w.Balances) == 0
}

// Bucket stores wallets keyed by the owner address.
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName)}
}

// Get returns the wallet of given address. ErrEmptyAccount is returned if
// there is none.
func (b Bucket) Get(db timelock.ReadOnlyKVStore, addr timelock.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrEmptyAccount, "%s", addr)
	case err != nil:
		return nil, err
	}
	return &w, nil
}

// GetOrCreate returns the wallet of given address or an empty one.
func (b Bucket) GetOrCreate(db timelock.ReadOnlyKVStore, addr timelock.Address) (*Wallet, error) {
	w, err := b.Get(db, addr)
	if ErrEmptyAccount.Is(err) {
		return &Wallet{}, nil
	}
	return w, err
}

// Save writes the wallet. An empty wallet is deleted instead.
func (b Bucket) Save(db timelock.KVStore, addr timelock.Address, w *Wallet) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	if w.IsEmpty() {
		ok, err := b.Has(db, addr)
		if err != nil || !ok {
			return err
		}
		return b.Delete(db, addr)
	}
	return b.Put(db, addr, w)
}
