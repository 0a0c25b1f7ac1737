package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/weavetest/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func tempHome(t *testing.T, genesis string) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "safepay-server")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	if genesis != "" {
		path := filepath.Join(home, "config", "genesis.json")
		require.NoError(t, ioutil.WriteFile(path, []byte(genesis), 0600))
	}
	return home, func() { os.RemoveAll(home) }
}

func readAppState(t *testing.T, home string) json.RawMessage {
	t.Helper()
	raw, err := ioutil.ReadFile(filepath.Join(home, "config", "genesis.json"))
	require.NoError(t, err)
	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc[appStateKey]
}

func TestInitCmd(t *testing.T) {
	home, cleanup := tempHome(t, `{"chain_id": "test-chain", "app_state": null}`)
	defer cleanup()

	var gotArgs []string
	gen := func(args []string) (json.RawMessage, error) {
		gotArgs = args
		return json.RawMessage(`{"token":{}}`), nil
	}
	logger := log.NewNopLogger()

	require.NoError(t, InitCmd(gen, logger, home, []string{"USDC"}))
	require.Equal(t, []string{"USDC"}, gotArgs)
	require.JSONEq(t, `{"token":{}}`, string(readAppState(t, home)))

	err := InitCmd(gen, logger, home, nil)
	assert.IsErr(t, errors.ErrDuplicate, err)

	require.NoError(t, InitCmd(gen, logger, home, []string{"-f"}))
}

func TestInitCmdRequiresGenesis(t *testing.T) {
	home, cleanup := tempHome(t, "")
	defer cleanup()

	gen := func([]string) (json.RawMessage, error) { return json.RawMessage(`{}`), nil }
	err := InitCmd(gen, log.NewNopLogger(), home, nil)
	assert.IsErr(t, errors.ErrNotFound, err)
}

type rejectingInit struct{}

func (rejectingInit) FromGenesis(opts safepay.Options, db safepay.KVStore) error {
	if _, ok := opts["bad"]; ok {
		return errors.Wrap(errors.ErrInput, "bad section")
	}
	return db.Set([]byte("k"), []byte("v"))
}

func TestValidateGenesis(t *testing.T) {
	home, cleanup := tempHome(t, `{"app_state": {"good": {}}}`)
	defer cleanup()
	good := filepath.Join(home, "config", "genesis.json")
	bad := filepath.Join(home, "bad.json")
	require.NoError(t, ioutil.WriteFile(bad, []byte(`{"app_state": {"bad": {}}}`), 0600))

	require.NoError(t, ValidateGenesis(rejectingInit{}, []string{good}))
	assert.IsErr(t, errors.ErrInput, ValidateGenesis(rejectingInit{}, []string{good, bad}))
	assert.IsErr(t, errors.ErrInput, ValidateGenesis(rejectingInit{}, []string{filepath.Join(home, "missing.json")}))

	malformed := filepath.Join(home, "malformed.json")
	require.NoError(t, ioutil.WriteFile(malformed, []byte(`{"app_state": [`), 0600))
	assert.IsErr(t, errors.ErrInput, ValidateGenesis(rejectingInit{}, []string{malformed}))
}

func TestParseStartArgs(t *testing.T) {
	args, err := parseStartArgs(nil)
	require.NoError(t, err)
	require.Equal(t, "tcp://localhost:26658", args.bind)
	require.False(t, args.debug)

	args, err = parseStartArgs([]string{"-bind", "unix:///tmp/abci.sock", "-debug"})
	require.NoError(t, err)
	require.Equal(t, "unix:///tmp/abci.sock", args.bind)
	require.True(t, args.debug)

	_, err = parseStartArgs([]string{"-unknown"})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestSplitDBPath(t *testing.T) {
	cases := map[string]struct {
		path     string
		wantDir  string
		wantName string
		wantErr  *errors.Error
	}{
		"absolute": {path: "/home/node/data/blockstore.db", wantDir: "/home/node/data", wantName: "blockstore"},
		"trailing": {path: "/home/node/data/blockstore.db/", wantDir: "/home/node/data", wantName: "blockstore"},
		"relative": {path: "blockstore.db", wantDir: ".", wantName: "blockstore"},
		"no ext":   {path: "/home/node/data/blockstore", wantErr: errors.ErrInput},
		"no name":  {path: "/home/.db", wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dir, name, err := splitDBPath(tc.path)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantDir, dir)
			require.Equal(t, tc.wantName, name)
		})
	}
}

func TestParseGetBlockArgs(t *testing.T) {
	_, _, err := parseGetBlockArgs(nil)
	assert.IsErr(t, errors.ErrInput, err)

	path, height, err := parseGetBlockArgs([]string{"data/blockstore.db", "-height", "12"})
	require.NoError(t, err)
	require.Equal(t, "data/blockstore.db", path)
	require.Equal(t, int64(12), height)
}
