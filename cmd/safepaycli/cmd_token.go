package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/safepay"
	safepayd "github.com/iov-one/safepay/cmd/safepayd/app"
	"github.com/iov-one/safepay/x/token"
)

func cmdTransferTokens(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for transfering tokens from the source token account to
the destination token account. Both accounts must belong to the same mint and
the destination must be the associated token account of its owner.
`)
		fl.PrintDefaults()
	}
	var (
		srcFl    = flAddress(fl, "src", "", "A source token account address that the tokens are send from.")
		dstFl    = flAddress(fl, "dst", "", "A destination token account address that the tokens are send to.")
		amountFl = fl.Uint64("amount", 0, "Amount of tokens, in the smallest unit of the mint.")
	)
	fl.Parse(args)

	if len(*srcFl) == 0 || len(*dstFl) == 0 {
		flagDie("source and destination accounts are required")
	}
	if *amountFl == 0 {
		flagDie("amount must be greater than zero")
	}

	tx := &safepayd.Tx{
		TransferMsg: &token.TransferMsg{
			Metadata:    &safepay.Metadata{Schema: 1},
			Source:      *srcFl,
			Destination: *dstFl,
			Amount:      *amountFl,
		},
	}
	_, err := writeTx(output, tx)
	return err
}
