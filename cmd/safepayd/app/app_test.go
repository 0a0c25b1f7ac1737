package safepayd

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/app"
	"github.com/iov-one/safepay/coin"
	"github.com/iov-one/safepay/crypto"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/weavetest/assert"
	"github.com/iov-one/safepay/x/cash"
	"github.com/iov-one/safepay/x/grant"
	"github.com/iov-one/safepay/x/sigs"
	"github.com/iov-one/safepay/x/token"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const testChainID = "safepay-test"

type signer struct {
	key *crypto.PrivateKey
	seq int64
}

func (s *signer) Address() safepay.Address {
	return s.key.PublicKey().Address()
}

type testApp struct {
	t      *testing.T
	app    app.BaseApp
	height int64
}

func newTestApp(t *testing.T, genesis string) *testApp {
	t.Helper()
	base, err := Application("safepayd-test", Stack(), TxDecoder, "", true)
	require.NoError(t, err)
	base.WithInit(Initializers())
	base.InitChain(abci.RequestInitChain{
		ChainId:       testChainID,
		AppStateBytes: []byte(genesis),
	})
	ta := &testApp{t: t, app: base}
	ta.beginBlock()
	// Queries only see committed state.
	ta.commit()
	return ta
}

func (ta *testApp) beginBlock() {
	ta.height++
	ta.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: testChainID,
			Height:  ta.height,
			Time:    time.Now(),
		},
	})
}

// commit closes the current block and opens the next one.
func (ta *testApp) commit() {
	ta.app.EndBlock(abci.RequestEndBlock{Height: ta.height})
	ta.app.Commit()
	ta.beginBlock()
}

// deliver signs the message and delivers it. A valid signature increments
// the sequence even if the message fails.
func (ta *testApp) deliver(s *signer, msg safepay.Msg) abci.ResponseDeliverTx {
	ta.t.Helper()
	tx := new(Tx)
	require.NoError(ta.t, tx.SetMsg(msg))
	sig, err := sigs.SignTx(s.key, tx, testChainID, s.seq)
	require.NoError(ta.t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	raw, err := tx.Marshal()
	require.NoError(ta.t, err)

	s.seq++
	return ta.app.DeliverTx(raw)
}

func (ta *testApp) query(path string, key []byte, dst safepay.Persistent) bool {
	ta.t.Helper()
	res := ta.app.Query(abci.RequestQuery{Path: path, Data: key})
	require.Equal(ta.t, uint32(0), res.Code, res.Log)
	var set app.ResultSet
	require.NoError(ta.t, set.Unmarshal(res.Value))
	if len(set.Results) == 0 {
		return false
	}
	require.NoError(ta.t, app.UnmarshalOneResult(res.Value, dst))
	return true
}

func (ta *testApp) tokens(addr safepay.Address) int64 {
	var acc token.Account
	if !ta.query("/tokaccs", addr, &acc) {
		return -1
	}
	return int64(acc.Amount)
}

func testGenesis(t *testing.T, sender, receiver safepay.Address, mint safepay.Address) string {
	t.Helper()
	meta := &safepay.Metadata{Schema: 1}
	opts := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: sender, Coins: []*coin.Coin{coin.NewCoinp(10, 0, NativeTicker)}},
			{Address: receiver, Coins: []*coin.Coin{coin.NewCoinp(10, 0, NativeTicker)}},
		},
		"token": token.Genesis{
			Mints: []token.GenesisMint{
				{Address: mint, Symbol: "USDC", Decimals: 6, Authority: sender},
			},
			Accounts: []token.GenesisAccount{
				{Owner: sender, Mint: mint, Amount: 1337000000},
			},
		},
		"conf": map[string]interface{}{
			token.GconfPkg: token.Configuration{
				Metadata:       meta,
				AccountReserve: DefaultAccountReserve,
			},
		},
	}
	raw, err := json.Marshal(opts)
	require.NoError(t, err)
	return string(raw)
}

func TestGrantThroughApplication(t *testing.T) {
	sender := &signer{key: crypto.GenPrivKeyEd25519()}
	receiver := &signer{key: crypto.GenPrivKeyEd25519()}
	mint := MintAddress("USDC")
	ta := newTestApp(t, testGenesis(t, sender.Address(), receiver.Address(), mint))

	source := token.AssociatedAddress(sender.Address(), mint)
	require.Equal(t, int64(1337000000), ta.tokens(source))

	meta := &safepay.Metadata{Schema: 1}
	newGrant := func(uid uint64, amount uint64) (*grant.Derivation, *grant.CreateGrantMsg) {
		d, err := grant.Derive(sender.Address(), receiver.Address(), mint, uid)
		require.NoError(t, err)
		return d, &grant.CreateGrantMsg{
			Metadata:    meta,
			UID:         uid,
			StateProof:  d.StateProof,
			EscrowProof: d.EscrowProof,
			Amount:      amount,
			State:       d.State,
			Escrow:      d.Escrow,
			Mint:        mint,
			Sender:      sender.Address(),
			Receiver:    receiver.Address(),
			Source:      source,
		}
	}

	d1, create1 := newGrant(1, 20000000)
	res := ta.deliver(sender, create1)
	require.Equal(t, uint32(0), res.Code, res.Log)
	var funded grant.Grant
	require.NoError(t, funded.Unmarshal(res.Data))
	require.Equal(t, grant.Funded, funded.Stage)
	require.Equal(t, d1.Escrow, funded.Escrow)

	d2, create2 := newGrant(2, 5000000)
	res = ta.deliver(sender, create2)
	require.Equal(t, uint32(0), res.Code, res.Log)
	ta.commit()

	require.Equal(t, int64(1337000000-25000000), ta.tokens(source))
	require.Equal(t, int64(20000000), ta.tokens(d1.Escrow))

	var g grant.Grant
	require.True(t, ta.query("/grants", d1.State, &g))
	require.Equal(t, grant.Funded, g.Stage)

	// The sender cannot release the funds to itself.
	complete1 := &grant.CompleteGrantMsg{
		Metadata:    meta,
		UID:         1,
		StateProof:  d1.StateProof,
		EscrowProof: d1.EscrowProof,
		State:       d1.State,
		Escrow:      d1.Escrow,
		Mint:        mint,
		Sender:      sender.Address(),
		Receiver:    receiver.Address(),
	}
	res = ta.deliver(sender, complete1)
	assert.ABCICode(t, errors.ErrUnauthorized, res.Code, res.Log)

	res = ta.deliver(receiver, complete1)
	require.Equal(t, uint32(0), res.Code, res.Log)

	cancel2 := &grant.CancelGrantMsg{
		Metadata:    meta,
		UID:         2,
		StateProof:  d2.StateProof,
		EscrowProof: d2.EscrowProof,
		State:       d2.State,
		Escrow:      d2.Escrow,
		Mint:        mint,
		Sender:      sender.Address(),
		Receiver:    receiver.Address(),
		Refund:      source,
	}
	res = ta.deliver(sender, cancel2)
	require.Equal(t, uint32(0), res.Code, res.Log)
	ta.commit()

	require.Equal(t, int64(20000000), ta.tokens(token.AssociatedAddress(receiver.Address(), mint)))
	require.Equal(t, int64(1337000000-20000000), ta.tokens(source))
	require.Equal(t, int64(-1), ta.tokens(d1.Escrow))
	require.Equal(t, int64(-1), ta.tokens(d2.Escrow))

	require.True(t, ta.query("/grants", d1.State, &g))
	require.Equal(t, grant.Completed, g.Stage)
	require.True(t, ta.query("/grants", d2.State, &g))
	require.Equal(t, grant.Cancelled, g.Stage)

	// A finished grant cannot be funded again.
	res = ta.deliver(sender, create1)
	require.NotEqual(t, uint32(0), res.Code)

	// Holding account reserves went back to the sender.
	var w cash.Set
	require.True(t, ta.query("/wallets", sender.Address(), &w))
	require.Len(t, w.Coins, 1)
	require.True(t, w.Coins[0].Equals(coin.NewCoin(10, 0, NativeTicker)), fmt.Sprint(w.Coins))
}

func TestTxMessages(t *testing.T) {
	var tx Tx
	_, err := tx.GetMsg()
	require.True(t, errors.ErrMsg.Is(err))

	send := &cash.SendMsg{}
	require.NoError(t, tx.SetMsg(send))
	msg, err := tx.GetMsg()
	require.NoError(t, err)
	require.Equal(t, send, msg)

	// Setting a new message replaces the previous one.
	transfer := &token.TransferMsg{Amount: 5}
	require.NoError(t, tx.SetMsg(transfer))
	msg, err = tx.GetMsg()
	require.NoError(t, err)
	require.Equal(t, transfer, msg)

	tx.SendMsg = send
	_, err = tx.GetMsg()
	require.True(t, errors.ErrMsg.Is(err))

	_, err = TxDecoder(nil)
	require.True(t, errors.ErrInput.Is(err))
}

func TestGenInitOptions(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	raw, err := GenInitOptions([]string{"EURC", "hex:" + key.PublicKey().Address().String()})
	require.NoError(t, err)

	base, err := Application("safepayd-test", Stack(), TxDecoder, "", false)
	require.NoError(t, err)
	base.WithInit(Initializers())
	base.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: raw})
	base.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	base.EndBlock(abci.RequestEndBlock{Height: 1})
	base.Commit()

	res := base.Query(abci.RequestQuery{
		Path: "/tokaccs",
		Data: token.AssociatedAddress(key.PublicKey().Address(), MintAddress("EURC")),
	})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var acc token.Account
	require.NoError(t, app.UnmarshalOneResult(res.Value, &acc))
	require.Equal(t, uint64(initialTokens), acc.Amount)

	_, err = GenInitOptions([]string{"not a symbol"})
	require.True(t, errors.ErrInput.Is(err))
}

func TestApplicationOnDisk(t *testing.T) {
	home, err := ioutil.TempDir("", "safepayd")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	sender := crypto.GenPrivKeyEd25519().PublicKey().Address()
	receiver := crypto.GenPrivKeyEd25519().PublicKey().Address()
	mint := MintAddress("USDC")

	abciApp, err := GenerateApp(home, log.NewNopLogger(), false)
	require.NoError(t, err)
	base := abciApp.(app.BaseApp)
	base.InitChain(abci.RequestInitChain{
		ChainId:       testChainID,
		AppStateBytes: []byte(testGenesis(t, sender, receiver, mint)),
	})
	base.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	base.EndBlock(abci.RequestEndBlock{Height: 1})
	hash := base.Commit().Data
	require.NotEmpty(t, hash)

	info := base.Info(abci.RequestInfo{})
	require.Equal(t, "safepayd", info.Data)
	require.Equal(t, int64(1), info.LastBlockHeight)
	require.Equal(t, hash, info.LastBlockAppHash)

	// The leveldb database lives in the home directory.
	_, err = os.Stat(filepath.Join(home, "safepay.db"))
	require.NoError(t, err)

	res := base.Query(abci.RequestQuery{
		Path: "/tokaccs",
		Data: token.AssociatedAddress(sender, mint),
	})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var acc token.Account
	require.NoError(t, app.UnmarshalOneResult(res.Value, &acc))
	require.Equal(t, uint64(1337000000), acc.Amount)
}
