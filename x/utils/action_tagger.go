package utils

import (
	"github.com/iov-one/timelock"
)

// ActionKey is the logger key ActionTagger sets.
const ActionKey = "action"

// ActionTagger will inspect the message being executed and attach
// `action = msg.Path()` to the context logger, so that every log entry
// written while processing the message can be attributed to it.
//
// Place it before the Logging decorator to have the action included in the
// summary entry as well.
type ActionTagger struct{}

var _ timelock.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check tags the logger and passes the request along
func (ActionTagger) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return next.Check(timelock.WithLogInfo(ctx, ActionKey, msg.Path()), db, tx)
}

// Deliver tags the logger and passes the request along
func (ActionTagger) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return next.Deliver(timelock.WithLogInfo(ctx, ActionKey, msg.Path()), db, tx)
}
