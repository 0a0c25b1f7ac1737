package main

import (
	"fmt"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/app"
	"github.com/iov-one/safepay/crypto"
	"github.com/iov-one/safepay/x/sigs"
	cmn "github.com/tendermint/tendermint/libs/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// node is the subset of the tendermint RPC client used by this program.
type node interface {
	ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error)
	BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error)
	Genesis() (*ctypes.ResultGenesis, error)
}

// dialNode is a variable so that tests can replace the remote node.
var dialNode = func(remote string) node {
	return rpcclient.NewHTTP(remote, "/websocket")
}

func chainID(n node) (string, error) {
	gen, err := n.Genesis()
	if err != nil {
		return "", fmt.Errorf("cannot fetch genesis: %s", err)
	}
	return gen.Genesis.ChainID, nil
}

// abciQuery runs a query and returns the found models.
func abciQuery(n node, path string, data []byte) ([]safepay.Model, error) {
	resp, err := n.ABCIQuery(path, data)
	if err != nil {
		return nil, fmt.Errorf("cannot query: %s", err)
	}
	if resp.Response.Code != 0 {
		return nil, fmt.Errorf("query failed with code %d: %s", resp.Response.Code, resp.Response.Log)
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(resp.Response.Key); err != nil {
		return nil, fmt.Errorf("cannot unmarshal keys: %s", err)
	}
	if err := values.Unmarshal(resp.Response.Value); err != nil {
		return nil, fmt.Errorf("cannot unmarshal values: %s", err)
	}
	return app.JoinResults(&keys, &values)
}

// nextSequence returns the sequence the owner of given key must sign the
// next transaction with.
func nextSequence(n node, pubkey *crypto.PublicKey) (int64, error) {
	models, err := abciQuery(n, "/sigs", pubkey.Address())
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}
	var user sigs.UserData
	if err := user.Unmarshal(models[0].Value); err != nil {
		return 0, fmt.Errorf("cannot unmarshal user: %s", err)
	}
	return user.Sequence, nil
}
