package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/safepay/x/sigs"
)

func cmdSignTransaction(
	input io.Reader,
	output io.Writer,
	args []string,
) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

Chain ID and the sequence number are fetched from the node unless provided.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", tmAddr(),
			"Tendermint node address. You can use SAFEPAY_TM_ADDR environment variable to set it.")
		keyPathFl = fl.String("key", keyPath(),
			"Path to the private key file that transaction should be signed with. You can use SAFEPAY_PRIV_KEY environment variable to set it.")
		chainIDFl = fl.String("chain", "", "Chain ID. Fetched from the node if not provided.")
		seqFl     = fl.Int64("seq", -1, "Sequence number of the signer. Fetched from the node if not provided.")
	)
	fl.Parse(args)

	if *keyPathFl == "" {
		return errors.New("private key is required")
	}
	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	chain, seq := *chainIDFl, *seqFl
	if chain == "" || seq < 0 {
		n := dialNode(*tmAddrFl)
		if chain == "" {
			if chain, err = chainID(n); err != nil {
				return err
			}
		}
		if seq < 0 {
			if seq, err = nextSequence(n, key.PublicKey()); err != nil {
				return fmt.Errorf("cannot get the next sequence number: %s", err)
			}
		}
	}

	sig, err := sigs.SignTx(key, tx, chain, seq)
	if err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)

	_, err = writeTx(output, tx)
	return err
}
