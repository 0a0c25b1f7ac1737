package server

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iov-one/safepay/errors"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

const flagHeight = "height"

var cdc = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(cdc)
}

func parseGetBlockArgs(args []string) (string, int64, error) {
	if len(args) == 0 {
		return "", 0, errors.Wrap(errors.ErrInput, "usage: getblock <path to blockstore.db> [-height=H]")
	}
	var height int64
	getBlockFlags := flag.NewFlagSet("getblock", flag.ContinueOnError)
	getBlockFlags.Int64Var(&height, flagHeight, 0, "height of the block to extract (default latest)")
	if err := getBlockFlags.Parse(args[1:]); err != nil {
		return "", 0, errors.Wrap(errors.ErrInput, err.Error())
	}
	return args[0], height, nil
}

// GetBlockCmd extracts a block from a tendermint blockstore.db and writes it
// as JSON. It takes the last block unless -height is given.
//
// The node must be stopped, leveldb allows a single process only.
func GetBlockCmd(out io.Writer, args []string) error {
	dbPath, height, err := parseGetBlockArgs(args)
	if err != nil {
		return err
	}
	dir, name, err := splitDBPath(dbPath)
	if err != nil {
		return err
	}
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "cannot open %s: %s", dbPath, err)
	}
	defer db.Close()

	store := blockchain.NewBlockStore(db)
	if height == 0 {
		height = store.Height()
	}
	block := store.LoadBlock(height)
	if block == nil {
		return errors.Wrapf(errors.ErrNotFound, "no block at height %d", height)
	}
	js, err := cdc.MarshalJSONIndent(block, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot serialize block: %s", err)
	}
	_, err = fmt.Fprintln(out, string(js))
	return err
}

// splitDBPath turns "<dir>/<name>.db" into the directory and name leveldb
// expects.
func splitDBPath(path string) (string, string, error) {
	path = strings.TrimSuffix(path, "/")
	if !strings.HasSuffix(path, ".db") {
		return "", "", errors.Wrapf(errors.ErrInput, "database directory must end with .db: %s", path)
	}
	dir, file := filepath.Split(strings.TrimSuffix(path, ".db"))
	if file == "" {
		return "", "", errors.Wrapf(errors.ErrInput, "missing database name: %s", path)
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Clean(dir), file, nil
}
