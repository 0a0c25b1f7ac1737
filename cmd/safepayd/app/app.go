/*
Package safepayd links together all the various components
to construct the safepayd app.
*/
package safepayd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/app"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/store/iavl"
	"github.com/iov-one/safepay/x"
	"github.com/iov-one/safepay/x/cash"
	"github.com/iov-one/safepay/x/grant"
	"github.com/iov-one/safepay/x/sigs"
	"github.com/iov-one/safepay/x/token"
	"github.com/iov-one/safepay/x/utils"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// LedgerAuthenticator is used by the token ledger. Apart from signatures it
// accepts the escrow authority granted by the grant handlers while they
// release funds.
func LedgerAuthenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, grant.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce even if the message
		// fails
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns a router dispatching to cash, token and grant handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	cashCtrl := cash.NewController(cash.NewBucket())
	ledger := token.NewController(LedgerAuthenticator(), cashCtrl)

	cash.RegisterRoutes(r, authFn, cashCtrl)
	token.RegisterRoutes(r, ledger)
	grant.RegisterRoutes(r, authFn, ledger)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/sigs", "/mints", "/tokaccs" and "/grants"
func QueryRouter() safepay.QueryRouter {
	r := safepay.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		token.RegisterQuery,
		grant.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() safepay.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h safepay.Handler,
	tx safepay.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (safepay.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
