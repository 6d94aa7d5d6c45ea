package app

import (
	"testing"

	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxSerialization(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	msg := &escrow.LockMsg{Account: weavetest.NewAddress(), Amount: coin.NewAmount(12), ClaimAfter: 99}

	tx, err := NewTx(msg)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(key, testChainID, 3))

	raw, err := tx.Marshal()
	require.NoError(t, err)
	got, err := DecodeTx(raw)
	require.NoError(t, err)

	assert.Equal(t, tx.Path, got.Path)
	assert.Equal(t, tx.MsgBytes, got.MsgBytes)
	require.Len(t, got.Signatures, 1)
	assert.Equal(t, int64(3), got.Signatures[0].Sequence)

	// Signatures are not part of the signed bytes.
	signBytes, err := tx.GetSignBytes()
	require.NoError(t, err)
	gotSignBytes, err := got.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, signBytes, gotSignBytes)

	toSign, err := sigs.BuildSignBytesTx(got, testChainID, 3)
	require.NoError(t, err)
	assert.True(t, key.PublicKey().Verify(toSign, got.Signatures[0].Signature))

	decoded, err := got.GetMsg()
	require.NoError(t, err)
	lock, ok := decoded.(*escrow.LockMsg)
	require.True(t, ok, "%T", decoded)
	assert.Equal(t, msg.Account, lock.Account)
	assert.Equal(t, "12", lock.Amount.String())
}

func TestTxUnknownMessage(t *testing.T) {
	_, err := NewTx(&weavetest.Msg{RoutePath: "foo/bar"})
	assert.True(t, errors.ErrType.Is(err), "%+v", err)

	tx := &Tx{Path: "foo/bar"}
	_, err = tx.GetMsg()
	assert.True(t, errors.ErrType.Is(err), "%+v", err)

	tx = &Tx{Path: escrow.UnlockMsg{}.Path(), MsgBytes: []byte{0xff}}
	_, err = tx.GetMsg()
	assert.True(t, errors.ErrMsg.Is(err), "%+v", err)
}
