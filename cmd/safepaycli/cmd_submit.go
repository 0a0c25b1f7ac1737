package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/safepay/x/grant"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and submit it. The
command waits until the transaction is included in a block.

For certain transactions response is written out.

Make sure to collect enough signatures before submitting the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", tmAddr(),
			"Tendermint node address. You can use SAFEPAY_TM_ADDR environment variable to set it.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}
	raw, err := tx.Marshal()
	if err != nil {
		return fmt.Errorf("cannot serialize transaction: %s", err)
	}

	resp, err := dialNode(*tmAddrFl).BroadcastTxCommit(raw)
	if err != nil {
		return fmt.Errorf("cannot broadcast transaction: %s", err)
	}
	if resp.CheckTx.IsErr() {
		return fmt.Errorf("check transaction failed with code %d: %s", resp.CheckTx.Code, resp.CheckTx.Log)
	}
	if resp.DeliverTx.IsErr() {
		return fmt.Errorf("deliver transaction failed with code %d: %s", resp.DeliverTx.Code, resp.DeliverTx.Log)
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return fmt.Errorf("cannot extract message from transaction: %s", err)
	}
	format, ok := formatters[msg.Path()]
	if !ok {
		// If no formatter is registered, we do not print the result.
		return nil
	}
	pretty, err := format(resp.DeliverTx.Data)
	if err != nil {
		return fmt.Errorf("cannot format result data %x: %s", resp.DeliverTx.Data, err)
	}
	_, err = fmt.Fprintln(output, pretty)
	return err
}

// formatters contains a mapping of a message path to response parser. Response
// parse function accepts a raw bytes of serialized response and must return a
// human representation of that data.
var formatters = map[string]func([]byte) (string, error){
	grant.CreateGrantMsg{}.Path():   fmtGrant,
	grant.CompleteGrantMsg{}.Path(): fmtGrant,
	grant.CancelGrantMsg{}.Path():   fmtGrant,
}

func fmtGrant(raw []byte) (string, error) {
	var g grant.Grant
	if err := g.Unmarshal(raw); err != nil {
		return "", err
	}
	pretty, err := json.MarshalIndent(&g, "", "\t")
	if err != nil {
		return "", err
	}
	return string(pretty), nil
}
