package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/crypto"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/store"
	"github.com/iov-one/safepay/weavetest"
	"github.com/iov-one/safepay/weavetest/assert"
	"github.com/stretchr/testify/require"
)

const testChainID = "test-chain"

// signedTx is a minimal SignedTx used across the tests.
type signedTx struct {
	weavetest.Tx
	payload []byte
	sigs    []*StdSignature
}

func (tx *signedTx) GetSignBytes() ([]byte, error) {
	return tx.payload, nil
}

func (tx *signedTx) GetSignatures() []*StdSignature {
	return tx.sigs
}

func sign(t testing.TB, key *crypto.PrivateKey, tx *signedTx, seq int64) {
	t.Helper()
	sig, err := SignTx(key, tx, testChainID, seq)
	require.NoError(t, err)
	tx.sigs = append(tx.sigs, sig)
}

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("payload"), testChainID, 1)
	require.NoError(t, err)
	require.Len(t, a, 64)

	b, err := BuildSignBytes([]byte("payload"), testChainID, 2)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	c, err := BuildSignBytes([]byte("payload"), "other-chain", 1)
	require.NoError(t, err)
	require.NotEqual(t, a, c)

	_, err = BuildSignBytes([]byte("payload"), testChainID, -1)
	assert.IsErr(t, ErrInvalidSequence, err)

	_, err = BuildSignBytes([]byte("payload"), "bad", 1)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestVerifySignatures(t *testing.T) {
	db := store.MemStore()
	alice := weavetest.NewKey()
	bob := weavetest.NewKey()

	tx := &signedTx{payload: []byte("hello")}
	sign(t, alice, tx, 0)
	sign(t, bob, tx, 0)

	signers, err := VerifyTxSignatures(db, tx, testChainID)
	require.NoError(t, err)
	require.Len(t, signers, 2)
	require.True(t, signers[0].Equals(alice.PublicKey().Condition()))
	require.True(t, signers[1].Equals(bob.PublicKey().Condition()))

	// Replay is rejected because the sequence was consumed.
	_, err = VerifyTxSignatures(db, tx, testChainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	seq, err := NextSequence(db, alice.PublicKey())
	require.NoError(t, err)
	require.Equal(t, int64(1), seq)

	next := &signedTx{payload: []byte("hello")}
	sign(t, alice, next, 1)
	_, err = VerifyTxSignatures(db, next, testChainID)
	require.NoError(t, err)

	forged := &signedTx{payload: []byte("other")}
	sign(t, alice, forged, 2)
	forged.payload = []byte("tampered")
	_, err = VerifyTxSignatures(db, forged, testChainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestUserData(t *testing.T) {
	u := &UserData{Metadata: &safepay.Metadata{Schema: 1}}
	require.NoError(t, u.Validate())

	u.Sequence = 3
	assert.FieldError(t, u.Validate(), "Sequence", ErrInvalidSequence)

	u = &UserData{Metadata: &safepay.Metadata{Schema: 1}, Sequence: maxSequenceValue}
	err := u.CheckAndIncrementSequence(maxSequenceValue)
	assert.IsErr(t, errors.ErrOverflow, err)
}

func TestDecorator(t *testing.T) {
	key := weavetest.NewKey()
	ctx := safepay.WithChainID(context.Background(), testChainID)

	cases := map[string]struct {
		decorator Decorator
		tx        safepay.Tx
		wantErr   *errors.Error
		wantAuth  bool
	}{
		"signed": {
			decorator: NewDecorator(),
			tx: func() safepay.Tx {
				tx := &signedTx{payload: []byte("x")}
				sign(t, key, tx, 0)
				return tx
			}(),
			wantAuth: true,
		},
		"missing signature": {
			decorator: NewDecorator(),
			tx:        &signedTx{payload: []byte("x")},
			wantErr:   errors.ErrUnauthorized,
		},
		"missing signature allowed": {
			decorator: NewDecorator().AllowMissingSigs(),
			tx:        &signedTx{payload: []byte("x")},
		},
		"unsigned transaction type passes": {
			decorator: NewDecorator(),
			tx:        &weavetest.Tx{},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			var seen bool
			h := &authCheckHandler{fn: func(ctx safepay.Context) {
				seen = Authenticate{}.HasAddress(ctx, key.PublicKey().Address())
			}}
			_, err := tc.decorator.Deliver(ctx, db, tc.tx, h)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			require.Equal(t, tc.wantAuth, seen)
		})
	}
}

type authCheckHandler struct {
	fn func(safepay.Context)
}

func (h *authCheckHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	h.fn(ctx)
	return &safepay.CheckResult{}, nil
}

func (h *authCheckHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	h.fn(ctx)
	return &safepay.DeliverResult{}, nil
}
