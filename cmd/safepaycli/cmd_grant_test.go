package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/app"
	"github.com/iov-one/safepay/weavetest/assert"
	"github.com/iov-one/safepay/x"
	"github.com/iov-one/safepay/x/grant"
	"github.com/iov-one/safepay/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

const (
	senderHex   = "b1ca7e78f74423ae01da3b51e676934d9105f282"
	receiverHex = "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"
	mintHex     = "9a2a0b7d7c4e5d1f0e3f59a9c9d5b8e4a9b2c3d4"
)

func fromHex(t testing.TB, s string) safepay.Address {
	t.Helper()
	raw, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("cannot decode %q hex: %s", s, err)
	}
	return raw
}

func grantArgs(extra ...string) []string {
	return append([]string{
		"-sender", senderHex,
		"-receiver", receiverHex,
		"-mint", mintHex,
		"-uid", "7",
	}, extra...)
}

func derivation(t testing.TB) *grant.Derivation {
	t.Helper()
	d, err := grant.Derive(fromHex(t, senderHex), fromHex(t, receiverHex), fromHex(t, mintHex), 7)
	if err != nil {
		t.Fatalf("cannot derive: %s", err)
	}
	return d
}

func TestCmdCreateGrantHappyPath(t *testing.T) {
	var output bytes.Buffer
	if err := cmdCreateGrant(nil, &output, grantArgs("-amount", "20000000")); err != nil {
		t.Fatalf("cannot create a grant transaction: %s", err)
	}

	tx, _, err := readTx(&output)
	if err != nil {
		t.Fatalf("cannot unmarshal created transaction: %s", err)
	}
	txmsg, err := tx.GetMsg()
	if err != nil {
		t.Fatalf("cannot get transaction message: %s", err)
	}
	msg := txmsg.(*grant.CreateGrantMsg)
	assert.Nil(t, msg.Validate())

	d := derivation(t)
	assert.Equal(t, uint64(7), msg.UID)
	assert.Equal(t, uint64(20000000), msg.Amount)
	assert.Equal(t, d.State, msg.State)
	assert.Equal(t, d.StateProof, msg.StateProof)
	assert.Equal(t, d.Escrow, msg.Escrow)
	assert.Equal(t, d.EscrowProof, msg.EscrowProof)
	assert.Equal(t, token.AssociatedAddress(fromHex(t, senderHex), fromHex(t, mintHex)), msg.Source)
}

func TestCmdCompleteGrantHappyPath(t *testing.T) {
	var output bytes.Buffer
	if err := cmdCompleteGrant(nil, &output, grantArgs()); err != nil {
		t.Fatalf("cannot create a complete transaction: %s", err)
	}
	tx, _, err := readTx(&output)
	if err != nil {
		t.Fatalf("cannot unmarshal created transaction: %s", err)
	}
	if tx.CompleteGrantMsg == nil {
		t.Fatal("complete message not set")
	}
	assert.Nil(t, tx.CompleteGrantMsg.Validate())
	assert.Equal(t, derivation(t).State, tx.CompleteGrantMsg.State)
	// Destination is resolved on chain when not given.
	assert.Equal(t, 0, len(tx.CompleteGrantMsg.Destination))
}

func TestCmdCancelGrantHappyPath(t *testing.T) {
	refund := "hex:00112233445566778899AABBCCDDEEFF00112233"
	var output bytes.Buffer
	if err := cmdCancelGrant(nil, &output, grantArgs("-refund", refund)); err != nil {
		t.Fatalf("cannot create a cancel transaction: %s", err)
	}
	tx, _, err := readTx(&output)
	if err != nil {
		t.Fatalf("cannot unmarshal created transaction: %s", err)
	}
	want, err := safepay.ParseAddress(refund)
	assert.Nil(t, err)
	assert.Equal(t, want, tx.CancelGrantMsg.Refund)
	assert.Equal(t, derivation(t).Escrow, tx.CancelGrantMsg.Escrow)
}

func TestCmdDerive(t *testing.T) {
	var output bytes.Buffer
	if err := cmdDerive(nil, &output, grantArgs()); err != nil {
		t.Fatalf("cannot derive: %s", err)
	}
	var got grant.Derivation
	if err := json.Unmarshal(output.Bytes(), &got); err != nil {
		t.Fatalf("cannot decode output: %s", err)
	}
	d := derivation(t)
	assert.Equal(t, d.State, got.State)
	assert.Equal(t, d.Escrow, got.Escrow)
	assert.Equal(t, d.StateProof, got.StateProof)
}

// fakeNode serves a single query result and records broadcast transactions.
type fakeNode struct {
	chainID   string
	query     []safepay.Model
	deliver   abci.ResponseDeliverTx
	broadcast []tmtypes.Tx
}

func (n *fakeNode) ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error) {
	keys, err := app.ResultsFromKeys(n.query).Marshal()
	if err != nil {
		return nil, err
	}
	values, err := app.ResultsFromValues(n.query).Marshal()
	if err != nil {
		return nil, err
	}
	return &ctypes.ResultABCIQuery{
		Response: abci.ResponseQuery{Key: keys, Value: values},
	}, nil
}

func (n *fakeNode) BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error) {
	n.broadcast = append(n.broadcast, tx)
	return &ctypes.ResultBroadcastTxCommit{DeliverTx: n.deliver}, nil
}

func (n *fakeNode) Genesis() (*ctypes.ResultGenesis, error) {
	return &ctypes.ResultGenesis{Genesis: &tmtypes.GenesisDoc{ChainID: n.chainID}}, nil
}

func withNode(t testing.TB, n node) func() {
	t.Helper()
	prev := dialNode
	dialNode = func(string) node { return n }
	return func() { dialNode = prev }
}

func TestCmdQueryGrant(t *testing.T) {
	d := derivation(t)
	g := grant.Grant{
		Metadata: &safepay.Metadata{Schema: 1},
		UID:      7,
		Sender:   fromHex(t, senderHex),
		Receiver: fromHex(t, receiverHex),
		Mint:     fromHex(t, mintHex),
		Escrow:   d.Escrow,
		Amount:   100,
		Stage:    grant.Completed,
	}
	raw, err := g.Marshal()
	assert.Nil(t, err)
	defer withNode(t, &fakeNode{query: []safepay.Model{safepay.Pair(d.State, raw)}})()

	var output bytes.Buffer
	if err := cmdQueryGrant(nil, &output, grantArgs()); err != nil {
		t.Fatalf("cannot query grant: %s", err)
	}
	var got struct {
		State  safepay.Address `json:"state"`
		Stage  string          `json:"stage"`
		Amount uint64          `json:"amount"`
	}
	if err := json.Unmarshal(output.Bytes(), &got); err != nil {
		t.Fatalf("cannot decode output: %s", err)
	}
	assert.Equal(t, d.State, got.State)
	assert.Equal(t, grant.Completed.String(), got.Stage)
	assert.Equal(t, uint64(100), got.Amount)
}

func TestCmdQueryGrantNotFound(t *testing.T) {
	defer withNode(t, &fakeNode{})()

	var output bytes.Buffer
	if err := cmdQueryGrant(nil, &output, grantArgs()); err == nil {
		t.Fatal("want an error for a missing grant")
	}
}

func TestCmdSubmitCreateGrant(t *testing.T) {
	d := derivation(t)
	funded := &grant.Grant{
		Metadata: &safepay.Metadata{Schema: 1},
		UID:      7,
		Sender:   fromHex(t, senderHex),
		Receiver: fromHex(t, receiverHex),
		Mint:     fromHex(t, mintHex),
		Escrow:   d.Escrow,
		Amount:   5,
		Stage:    grant.Funded,
	}
	n := &fakeNode{deliver: abci.ResponseDeliverTx{Data: x.MustMarshalValid(funded)}}
	defer withNode(t, n)()

	var input bytes.Buffer
	if err := cmdCreateGrant(nil, &input, grantArgs("-amount", "5")); err != nil {
		t.Fatalf("cannot create a grant transaction: %s", err)
	}

	var output bytes.Buffer
	if err := cmdSubmitTransaction(&input, &output, nil); err != nil {
		t.Fatalf("cannot submit: %s", err)
	}
	assert.Equal(t, 1, len(n.broadcast))
	var got grant.Grant
	if err := json.Unmarshal(output.Bytes(), &got); err != nil {
		t.Fatalf("cannot decode output %q: %s", output.String(), err)
	}
	assert.Equal(t, grant.Funded, got.Stage)
	assert.Equal(t, d.Escrow, got.Escrow)
	assert.Equal(t, uint64(5), got.Amount)
}

func TestCmdSubmitFailure(t *testing.T) {
	defer withNode(t, &fakeNode{deliver: abci.ResponseDeliverTx{Code: 2, Log: "unauthorized"}})()

	var input bytes.Buffer
	if err := cmdCompleteGrant(nil, &input, grantArgs()); err != nil {
		t.Fatalf("cannot create a complete transaction: %s", err)
	}
	var output bytes.Buffer
	if err := cmdSubmitTransaction(&input, &output, nil); err == nil {
		t.Fatal("want a delivery error")
	}
	assert.Equal(t, 0, output.Len())
}
