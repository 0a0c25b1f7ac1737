package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the storage side of ABCI: Info, InitChain, Commit,
// Query and the block lifecycle. BaseApp embeds it to add transactions.
//
// Info, InitChain and Commit take no user input, so their failures cannot
// be reported to tendermint. They panic instead.
type StoreApp struct {
	logger log.Logger
	// name is reported by Info
	name        string
	store       *CommitStore
	initializer safepay.Initializer
	queryRouter safepay.QueryRouter

	// chainID is set once, by InitChain, and loaded on restart.
	chainID string
	// baseContext holds values valid for the whole app lifetime and
	// blockContext adds the header of the current block to it.
	baseContext  safepay.Context
	blockContext safepay.Context
}

// NewStoreApp loads the latest committed state. It panics if the store
// cannot be read.
func NewStoreApp(name string, store safepay.CommitKVStore, queryRouter safepay.QueryRouter, baseContext safepay.Context) *StoreApp {
	cs, err := NewCommitStore(store)
	if err != nil {
		panic(err)
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		panic(err)
	}
	if chainID != "" {
		s.setChainID(chainID)
	}
	info, err := cs.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = safepay.WithHeight(s.baseContext, info.Version)
	return s
}

func (s *StoreApp) setChainID(chainID string) {
	s.chainID = chainID
	s.baseContext = safepay.WithChainID(s.baseContext, chainID)
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the genesis initializer used by InitChain.
func (s *StoreApp) WithInit(init safepay.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// initState runs the genesis initializer. It is called only once, by
// InitChain, when the chain is created.
func (s *StoreApp) initState(appState []byte, chainID string) error {
	switch {
	case s.chainID != "":
		return errors.Wrapf(errors.ErrState, "chain %s already initialized", s.chainID)
	case len(appState) == 0:
		return errors.Wrap(errors.ErrState, "genesis has no app_state, run init first")
	case s.initializer == nil:
		return errors.Wrap(errors.ErrHuman, "initializer not set")
	}

	var opts safepay.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse app state: %s", err)
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.setChainID(chainID)
	return s.initializer.FromGenesis(opts, s.DeliverStore())
}

// WithLogger sets the logger of the app and of all handler contexts.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = safepay.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the context of the block being executed.
func (s *StoreApp) BlockContext() safepay.Context {
	return s.blockContext
}

func (s *StoreApp) DeliverStore() safepay.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() safepay.CacheableKVStore {
	return s.store.CheckStore()
}

// Info - ABCI. LastBlockHeight is the height of the last committed block.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          safepay.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption - ABCI
func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

/*
Query - ABCI. It reads committed state only.

Path selects a bucket, "/grants", or one of its indexes, "/grants/sender".
Appending "?prefix" turns the lookup of Data into a prefix scan.

Key and Value of the response are ResultSets of equal length, holding the
keys and the values of all matched entries.
*/
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	height, models, err := s.query(req.Path, req.Data)
	if err != nil {
		return queryError(err)
	}
	res := abci.ResponseQuery{Height: height}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

func (s *StoreApp) query(path string, data []byte) (int64, []safepay.Model, error) {
	h, mod := s.queryRouter.Route(path)
	if h == nil {
		return 0, nil, errors.Wrapf(errors.ErrNotFound, "unexpected query path %q", path)
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		return 0, nil, err
	}
	db := s.store.committed.CacheWrap()
	defer db.Discard()
	models, err := h.Query(db, mod, data)
	return info.Version, models, err
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

// Commit - ABCI
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain - ABCI. The genesis app state is loaded once, when the chain
// is created.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.initState(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock - ABCI. The block context of all transactions in this block
// carries the header, height and time of the block.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := safepay.WithHeader(s.baseContext, req.Header)
	ctx = safepay.WithHeight(ctx, req.Header.GetHeight())
	s.blockContext = safepay.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

// EndBlock - ABCI
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
