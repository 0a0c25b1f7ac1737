package token

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/coin"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/gconf"
	"github.com/iov-one/safepay/store"
	"github.com/iov-one/safepay/weavetest"
	"github.com/iov-one/safepay/weavetest/assert"
	"github.com/iov-one/safepay/x/cash"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db        safepay.CacheableKVStore
	auth      *weavetest.CtxAuth
	ledger    *Controller
	cash      cash.BaseController
	mint      safepay.Address
	mintOwner safepay.Condition
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	db := store.MemStore()
	auth := &weavetest.CtxAuth{Key: "auth"}
	cashCtrl := cash.NewController(cash.NewBucket())
	mintOwner := weavetest.NewCondition()
	mint := weavetest.NewCondition().Address()

	m := AsMint(NewMint(mint, "USDC", 6, mintOwner.Address()))
	require.NoError(t, NewMintBucket().Put(db, mint, m))

	return &fixture{
		db:        db,
		auth:      auth,
		ledger:    NewController(auth, cashCtrl),
		cash:      cashCtrl,
		mint:      mint,
		mintOwner: mintOwner,
	}
}

func (f *fixture) ctx(signers ...safepay.Condition) safepay.Context {
	return f.auth.SetConditions(context.Background(), signers...)
}

func TestAssociatedAddress(t *testing.T) {
	a := weavetest.NewCondition().Address()
	b := weavetest.NewCondition().Address()
	require.Equal(t, AssociatedAddress(a, b), AssociatedAddress(a, b))
	require.NotEqual(t, AssociatedAddress(a, b), AssociatedAddress(b, a))
	require.NoError(t, AssociatedAddress(a, b).Validate())
}

func TestLedgerLifecycle(t *testing.T) {
	f := newFixture(t)
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()

	aliceAcc, _, err := f.ledger.EnsureAssociatedAccount(f.ctx(alice), f.db, alice.Address(), f.mint, alice.Address())
	require.NoError(t, err)
	bobAcc, _, err := f.ledger.EnsureAssociatedAccount(f.ctx(bob), f.db, bob.Address(), f.mint, bob.Address())
	require.NoError(t, err)

	// Ensuring twice returns the same account.
	again, _, err := f.ledger.EnsureAssociatedAccount(f.ctx(alice), f.db, alice.Address(), f.mint, alice.Address())
	require.NoError(t, err)
	require.Equal(t, aliceAcc, again)

	_, err = f.ledger.CreateAccount(f.ctx(alice), f.db, aliceAcc, f.mint, alice.Address(), alice.Address(), alice.Address())
	assert.IsErr(t, errors.ErrDuplicate, err)

	err = f.ledger.MintTo(f.ctx(alice), f.db, aliceAcc, 100)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	require.NoError(t, f.ledger.MintTo(f.ctx(f.mintOwner), f.db, aliceAcc, 100))

	err = f.ledger.Transfer(f.ctx(bob), f.db, aliceAcc, bobAcc, 10)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	err = f.ledger.Transfer(f.ctx(alice), f.db, aliceAcc, bobAcc, 101)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
	err = f.ledger.Transfer(f.ctx(alice), f.db, aliceAcc, bobAcc, 0)
	assert.IsErr(t, errors.ErrAmount, err)
	require.NoError(t, f.ledger.Transfer(f.ctx(alice), f.db, aliceAcc, bobAcc, 40))

	a, err := f.ledger.Account(f.db, aliceAcc)
	require.NoError(t, err)
	require.Equal(t, uint64(60), a.Amount)
	b, err := f.ledger.Account(f.db, bobAcc)
	require.NoError(t, err)
	require.Equal(t, uint64(40), b.Amount)

	m, err := NewMintBucket().GetMint(f.db, f.mint)
	require.NoError(t, err)
	require.Equal(t, uint64(100), m.Supply)

	err = f.ledger.CloseAccount(f.ctx(bob), f.db, bobAcc, bob.Address())
	assert.IsErr(t, errors.ErrState, err)
	require.NoError(t, f.ledger.Transfer(f.ctx(bob), f.db, bobAcc, aliceAcc, 40))
	require.NoError(t, f.ledger.CloseAccount(f.ctx(bob), f.db, bobAcc, bob.Address()))

	_, err = f.ledger.Account(f.db, bobAcc)
	assert.IsErr(t, errors.ErrNotFound, err)

	owned, err := NewAccountBucket().ByOwner(f.db, alice.Address())
	require.NoError(t, err)
	require.Len(t, owned, 1)
}

func TestTransferMintMismatch(t *testing.T) {
	f := newFixture(t)
	alice := weavetest.NewCondition()
	other := weavetest.NewCondition().Address()
	m := AsMint(NewMint(other, "DAI", 6, f.mintOwner.Address()))
	require.NoError(t, NewMintBucket().Put(f.db, other, m))

	src, _, err := f.ledger.EnsureAssociatedAccount(f.ctx(alice), f.db, alice.Address(), f.mint, alice.Address())
	require.NoError(t, err)
	dst, _, err := f.ledger.EnsureAssociatedAccount(f.ctx(alice), f.db, alice.Address(), other, alice.Address())
	require.NoError(t, err)
	require.NoError(t, f.ledger.MintTo(f.ctx(f.mintOwner), f.db, src, 5))

	err = f.ledger.Transfer(f.ctx(alice), f.db, src, dst, 1)
	assert.IsErr(t, ErrMintMismatch, err)

	_, err = f.ledger.CreateAccount(f.ctx(alice), f.db, weavetest.NewCondition().Address(),
		weavetest.NewCondition().Address(), alice.Address(), alice.Address(), alice.Address())
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestAccountReserve(t *testing.T) {
	f := newFixture(t)
	alice := weavetest.NewCondition()
	reserve := coin.NewCoin(0, 2039280, "SAFE")
	require.NoError(t, gconf.Save(f.db, GconfPkg, &Configuration{
		Metadata:       &safepay.Metadata{Schema: 1},
		AccountReserve: reserve,
	}))

	// No coins to pay the reserve.
	_, _, err := f.ledger.EnsureAssociatedAccount(f.ctx(alice), f.db, alice.Address(), f.mint, alice.Address())
	assert.IsErr(t, errors.ErrEmpty, err)

	require.NoError(t, f.cash.IssueCoins(f.db, alice.Address(), coin.NewCoin(1, 0, "SAFE")))

	// Payer must sign.
	_, _, err = f.ledger.EnsureAssociatedAccount(f.ctx(), f.db, alice.Address(), f.mint, alice.Address())
	assert.IsErr(t, errors.ErrUnauthorized, err)

	key, acc, err := f.ledger.EnsureAssociatedAccount(f.ctx(alice), f.db, alice.Address(), f.mint, alice.Address())
	require.NoError(t, err)
	require.True(t, acc.Reserve.Equals(reserve))

	held, err := f.cash.Balance(f.db, key)
	require.NoError(t, err)
	require.True(t, held[0].Equals(reserve))

	require.NoError(t, f.ledger.CloseAccount(f.ctx(alice), f.db, key, alice.Address()))
	balance, err := f.cash.Balance(f.db, alice.Address())
	require.NoError(t, err)
	require.True(t, balance[0].Equals(coin.NewCoin(1, 0, "SAFE")))
}

func TestHandlers(t *testing.T) {
	f := newFixture(t)
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()
	rt := &testRegistry{handlers: map[string]safepay.Handler{}}
	RegisterRoutes(rt, f.ledger)

	meta := &safepay.Metadata{Schema: 1}
	deliver := func(ctx safepay.Context, msg safepay.Msg) (*safepay.DeliverResult, error) {
		tx := &weavetest.Tx{Msg: msg}
		h := rt.handlers[msg.Path()]
		if _, err := h.Check(ctx, f.db, tx); err != nil {
			return nil, err
		}
		return h.Deliver(ctx, f.db, tx)
	}

	res, err := deliver(f.ctx(alice), &CreateAccountMsg{Metadata: meta, Mint: f.mint, Owner: alice.Address(), Payer: alice.Address()})
	require.NoError(t, err)
	aliceAcc := safepay.Address(res.Data)
	require.Equal(t, AssociatedAddress(alice.Address(), f.mint), aliceAcc)

	res, err = deliver(f.ctx(bob), &CreateAccountMsg{Metadata: meta, Mint: f.mint, Owner: bob.Address(), Payer: bob.Address()})
	require.NoError(t, err)
	bobAcc := safepay.Address(res.Data)

	_, err = deliver(f.ctx(f.mintOwner), &MintToMsg{Metadata: meta, Destination: aliceAcc, Amount: 7})
	require.NoError(t, err)

	_, err = deliver(f.ctx(alice), &TransferMsg{Metadata: meta, Source: aliceAcc, Destination: bobAcc})
	assert.FieldError(t, err, "Amount", errors.ErrAmount)

	// Accounts other than the associated one of the owner cannot be
	// credited by a message.
	plain := weavetest.NewCondition().Address()
	_, err = f.ledger.CreateAccount(f.ctx(bob), f.db, plain, f.mint, bob.Address(), bob.Address(), bob.Address())
	require.NoError(t, err)
	_, err = deliver(f.ctx(alice), &TransferMsg{Metadata: meta, Source: aliceAcc, Destination: plain, Amount: 3})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = deliver(f.ctx(f.mintOwner), &MintToMsg{Metadata: meta, Destination: plain, Amount: 3})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	acc, err := f.ledger.Account(f.db, plain)
	require.NoError(t, err)
	require.EqualValues(t, 0, acc.Amount)

	_, err = deliver(f.ctx(alice), &TransferMsg{Metadata: meta, Source: aliceAcc, Destination: bobAcc, Amount: 7})
	require.NoError(t, err)

	_, err = deliver(f.ctx(alice), &CloseAccountMsg{Metadata: meta, Account: aliceAcc, ReserveReceiver: alice.Address()})
	require.NoError(t, err)
}

func TestGenesis(t *testing.T) {
	mint := weavetest.NewCondition().Address()
	authority := weavetest.NewCondition().Address()
	owner := weavetest.NewCondition().Address()
	raw, err := json.Marshal(map[string]interface{}{
		"token": map[string]interface{}{
			"mints": []interface{}{
				map[string]interface{}{"address": mint, "symbol": "USDC", "decimals": 6, "authority": authority},
			},
			"accounts": []interface{}{
				map[string]interface{}{"owner": owner, "mint": mint, "amount": 1337000000},
			},
		},
		"conf": map[string]interface{}{
			"token": map[string]interface{}{
				"metadata":        map[string]int{"schema": 1},
				"account_reserve": "0.002 SAFE",
			},
		},
	})
	require.NoError(t, err)
	var opts safepay.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	acc, err := NewAccountBucket().GetAccount(db, AssociatedAddress(owner, mint))
	require.NoError(t, err)
	require.Equal(t, uint64(1337000000), acc.Amount)

	m, err := NewMintBucket().GetMint(db, mint)
	require.NoError(t, err)
	require.Equal(t, uint64(1337000000), m.Supply)

	reserve, err := accountReserve(db)
	require.NoError(t, err)
	require.True(t, reserve.Equals(coin.NewCoin(0, 2000000, "SAFE")))
}

func TestRegisterQuery(t *testing.T) {
	qr := safepay.NewQueryRouter()
	RegisterQuery(qr)
	for _, path := range []string{"/mints", "/tokaccs", "/tokaccs/owner", "/tokaccs/mint"} {
		require.NotNil(t, qr.Handler(path), path)
	}
}

type testRegistry struct {
	handlers map[string]safepay.Handler
}

func (r *testRegistry) Handle(path string, h safepay.Handler) {
	r.handlers[path] = h
}
