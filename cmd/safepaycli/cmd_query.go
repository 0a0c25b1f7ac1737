package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/x/cash"
	"github.com/iov-one/safepay/x/grant"
	"github.com/iov-one/safepay/x/sigs"
	"github.com/iov-one/safepay/x/token"
)

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Execute a ABCI query and print JSON encoded result.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", tmAddr(),
			"Tendermint node address. You can use SAFEPAY_TM_ADDR environment variable to set it.")
		pathFl        = fl.String("path", "", "Path to be queried. Must be one of the supported.")
		dataFl        = fl.String("data", "", "Address of the queried entity, in any supported address format.")
		prefixQueryFl = fl.Bool("prefix", false, "If true, use prefix queries instead of the exact match with provided data.")
	)
	fl.Parse(args)

	newObj, ok := queries[*pathFl]
	if !ok {
		paths := make([]string, 0, len(queries))
		for p := range queries {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		return fmt.Errorf("available query paths:\n\t- %s", strings.Join(paths, "\n\t- "))
	}

	var data []byte
	if *dataFl != "" {
		addr, err := safepay.ParseAddress(*dataFl)
		if err != nil {
			return fmt.Errorf("cannot parse data: %s", err)
		}
		data = addr
	}
	queryPath := *pathFl
	if *prefixQueryFl || *dataFl == "" {
		queryPath += "?" + safepay.PrefixQueryMod
	}

	models, err := abciQuery(dialNode(*tmAddrFl), queryPath, data)
	if err != nil {
		return fmt.Errorf("failed to run query: %s", err)
	}

	result := make([]keyval, 0, len(models))
	for i, m := range models {
		obj := newObj()
		if err := obj.Unmarshal(m.Value); err != nil {
			return fmt.Errorf("failed to unmarshal model %d: %s", i, err)
		}
		result = append(result, keyval{Key: m.Key, Value: obj})
	}
	pretty, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}

type keyval struct {
	Key   safepay.Address    `json:"key"`
	Value safepay.Persistent `json:"value"`
}

// queries maps supported query paths to a constructor of the returned model.
var queries = map[string]func() safepay.Persistent{
	"/grants":          func() safepay.Persistent { return &grant.Grant{} },
	"/grants/sender":   func() safepay.Persistent { return &grant.Grant{} },
	"/grants/receiver": func() safepay.Persistent { return &grant.Grant{} },
	"/mints":           func() safepay.Persistent { return &token.Mint{} },
	"/tokaccs":         func() safepay.Persistent { return &token.Account{} },
	"/tokaccs/owner":   func() safepay.Persistent { return &token.Account{} },
	"/tokaccs/mint":    func() safepay.Persistent { return &token.Account{} },
	"/wallets":         func() safepay.Persistent { return &cash.Set{} },
	"/sigs":            func() safepay.Persistent { return &sigs.UserData{} },
}
