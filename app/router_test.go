package app

import (
	"context"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest"
	"github.com/iov-one/timelock/weavetest/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	h := &weavetest.Handler{}
	r.Handle("test/one", h)

	assert.Panics(t, func() { r.Handle("test/one", h) })
	assert.Panics(t, func() { r.Handle("not valid!", h) })

	ctx := context.Background()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/one"}}
	_, err := r.Check(ctx, nil, tx)
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, nil, tx)
	assert.Nil(t, err)
	assert.Equal(t, 2, h.CallCount())

	_, err = r.Deliver(ctx, nil, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/two"}})
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Check(ctx, nil, &weavetest.Tx{Err: errors.ErrMsg})
	assert.IsErr(t, errors.ErrMsg, err)
}
