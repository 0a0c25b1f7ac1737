package safepayd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/app"
	"github.com/iov-one/safepay/coin"
	"github.com/iov-one/safepay/crypto"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x/cash"
	"github.com/iov-one/safepay/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// NativeTicker is the currency used to pay for token account reserves.
	NativeTicker = "SAFE"

	defaultSymbol   = "USDC"
	defaultDecimals = 6
	initialTokens   = 1000000 * 1000000
)

var isSymbol = regexp.MustCompile(`^[A-Z]{3,8}$`).MatchString

// DefaultAccountReserve is the cost of opening a token account.
var DefaultAccountReserve = coin.NewCoin(0, 2039280, NativeTicker)

// MintAddress returns the address a mint with given symbol is stored under
// in generated genesis files.
func MintAddress(symbol string) safepay.Address {
	return safepay.NewCondition("token", "mint", []byte(symbol)).Address()
}

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// The first argument is the symbol of the token mint, the second one the
// address of the owner. If no address is given, a new key is generated and
// printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	symbol := defaultSymbol
	if len(args) > 0 {
		symbol = args[0]
		if !isSymbol(symbol) {
			return nil, errors.Wrapf(errors.ErrInput, "invalid symbol %s", symbol)
		}
	}

	var owner safepay.Address
	if len(args) > 1 {
		addr, err := safepay.ParseAddress(args[1])
		if err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		owner = addr
	} else {
		// if no address provided, auto-generate one
		// and print out the key
		addr, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		owner = addr
		fmt.Println(keys)
	}

	mint := MintAddress(symbol)
	meta := &safepay.Metadata{Schema: 1}
	opts := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{
				Address: owner,
				Coins:   []*coin.Coin{coin.NewCoinp(1000000, 0, NativeTicker)},
			},
		},
		"token": token.Genesis{
			Mints: []token.GenesisMint{
				{Address: mint, Symbol: symbol, Decimals: defaultDecimals, Authority: owner},
			},
			Accounts: []token.GenesisAccount{
				{Owner: owner, Mint: mint, Amount: initialTokens},
			},
		},
		"conf": map[string]interface{}{
			cash.GconfPkg: cash.Configuration{
				Metadata:         meta,
				Owner:            owner,
				CollectorAddress: owner,
			},
			token.GconfPkg: token.Configuration{
				Metadata:       meta,
				Owner:          owner,
				AccountReserve: DefaultAccountReserve,
			},
		},
	}
	raw, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "safepay.db")
	}

	application, err := Application("safepayd", Stack(), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

// Initializers returns the genesis loaders of all extensions.
func Initializers() safepay.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		token.Initializer{},
	)
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
func GenerateCoinKey() (safepay.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(keys), nil
}
