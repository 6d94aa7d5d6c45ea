package weavetest

import "github.com/iov-one/timelock"

// Handler is a mock implementation of the timelock.Handler interface.
//
// Returned results are configured using attributes. Each method call is
// counted. When Panic is set, both methods panic with its value.
type Handler struct {
	checkCall   int
	CheckResult timelock.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult timelock.DeliverResult
	DeliverErr    error

	// Write if set is stored in the database by both methods, before
	// returning the result.
	Write *KV

	Panic interface{}
}

// KV is a single key value pair.
type KV struct {
	Key, Value []byte
}

var _ timelock.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db timelock.KVStore) error {
	if h.Write != nil {
		if err := db.Set(h.Write.Key, h.Write.Value); err != nil {
			return err
		}
	}
	if h.Panic != nil {
		panic(h.Panic)
	}
	return nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
