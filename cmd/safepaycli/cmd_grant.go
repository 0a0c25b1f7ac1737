package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/safepay"
	safepayd "github.com/iov-one/safepay/cmd/safepayd/app"
	"github.com/iov-one/safepay/x/grant"
	"github.com/iov-one/safepay/x/token"
)

// grantFlags registers the flags identifying a grant.
type grantFlags struct {
	sender   *safepay.Address
	receiver *safepay.Address
	mint     *safepay.Address
	uid      *uint64
}

func registerGrantFlags(fl *flag.FlagSet) grantFlags {
	return grantFlags{
		sender:   flAddress(fl, "sender", "", "Address of the grant sender."),
		receiver: flAddress(fl, "receiver", "", "Address of the grant receiver."),
		mint:     flAddress(fl, "mint", "", "Address of the token mint."),
		uid:      fl.Uint64("uid", 0, "Identifier distinguishing grants between the same sender, receiver and mint."),
	}
}

// derive validates the flags and computes the grant addresses. Missing
// values terminate the process.
func (g grantFlags) derive() *grant.Derivation {
	if len(*g.sender) == 0 {
		flagDie("sender address is required")
	}
	if len(*g.receiver) == 0 {
		flagDie("receiver address is required")
	}
	if len(*g.mint) == 0 {
		flagDie("mint address is required")
	}
	d, err := grant.Derive(*g.sender, *g.receiver, *g.mint, *g.uid)
	if err != nil {
		flagDie("cannot derive grant addresses: %s", err)
	}
	return d
}

func cmdDerive(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Compute the state and escrow addresses of a grant together with their proofs.
No connection to the network is required.
`)
		fl.PrintDefaults()
	}
	gf := registerGrantFlags(fl)
	fl.Parse(args)

	d := gf.derive()
	pretty, err := json.MarshalIndent(d, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}

func cmdCreateGrant(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that funds a new grant. Tokens are moved from the source
account into an escrow account that only the grant rules can release.
`)
		fl.PrintDefaults()
	}
	gf := registerGrantFlags(fl)
	var (
		amountFl = fl.Uint64("amount", 0, "Amount of tokens, in the smallest unit of the mint, to lock.")
		sourceFl = flAddress(fl, "src", "", "Token account the funds are taken from. Defaults to the associated account of the sender.")
	)
	fl.Parse(args)

	d := gf.derive()
	if *amountFl == 0 {
		flagDie("amount must be greater than zero")
	}
	source := *sourceFl
	if len(source) == 0 {
		source = token.AssociatedAddress(*gf.sender, *gf.mint)
	}

	tx := &safepayd.Tx{
		CreateGrantMsg: &grant.CreateGrantMsg{
			Metadata:    &safepay.Metadata{Schema: 1},
			UID:         *gf.uid,
			StateProof:  d.StateProof,
			EscrowProof: d.EscrowProof,
			Amount:      *amountFl,
			State:       d.State,
			Escrow:      d.Escrow,
			Mint:        *gf.mint,
			Sender:      *gf.sender,
			Receiver:    *gf.receiver,
			Source:      source,
		},
	}
	_, err := writeTx(output, tx)
	return err
}

func cmdCompleteGrant(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that releases the grant funds to the receiver. It must be
signed by the receiver.
`)
		fl.PrintDefaults()
	}
	gf := registerGrantFlags(fl)
	var (
		dstFl = flAddress(fl, "dst", "", "Token account of the receiver. Defaults to the associated account, which is created if missing.")
	)
	fl.Parse(args)

	d := gf.derive()
	tx := &safepayd.Tx{
		CompleteGrantMsg: &grant.CompleteGrantMsg{
			Metadata:    &safepay.Metadata{Schema: 1},
			UID:         *gf.uid,
			StateProof:  d.StateProof,
			EscrowProof: d.EscrowProof,
			State:       d.State,
			Escrow:      d.Escrow,
			Mint:        *gf.mint,
			Sender:      *gf.sender,
			Receiver:    *gf.receiver,
			Destination: *dstFl,
		},
	}
	_, err := writeTx(output, tx)
	return err
}

func cmdCancelGrant(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that returns the grant funds to the sender. It must be
signed by the sender.
`)
		fl.PrintDefaults()
	}
	gf := registerGrantFlags(fl)
	var (
		refundFl = flAddress(fl, "refund", "", "Token account of the sender receiving the funds. Defaults to the associated account of the sender.")
	)
	fl.Parse(args)

	d := gf.derive()
	refund := *refundFl
	if len(refund) == 0 {
		refund = token.AssociatedAddress(*gf.sender, *gf.mint)
	}
	tx := &safepayd.Tx{
		CancelGrantMsg: &grant.CancelGrantMsg{
			Metadata:    &safepay.Metadata{Schema: 1},
			UID:         *gf.uid,
			StateProof:  d.StateProof,
			EscrowProof: d.EscrowProof,
			State:       d.State,
			Escrow:      d.Escrow,
			Mint:        *gf.mint,
			Sender:      *gf.sender,
			Receiver:    *gf.receiver,
			Refund:      refund,
		},
	}
	_, err := writeTx(output, tx)
	return err
}

func cmdQueryGrant(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the state of a grant as JSON.
`)
		fl.PrintDefaults()
	}
	gf := registerGrantFlags(fl)
	var (
		tmAddrFl = fl.String("tm", tmAddr(),
			"Tendermint node address. You can use SAFEPAY_TM_ADDR environment variable to set it.")
	)
	fl.Parse(args)

	d := gf.derive()
	models, err := abciQuery(dialNode(*tmAddrFl), "/grants", d.State)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return fmt.Errorf("grant %s not found", d.State)
	}
	var g grant.Grant
	if err := g.Unmarshal(models[0].Value); err != nil {
		return fmt.Errorf("cannot unmarshal grant: %s", err)
	}

	pretty, err := json.MarshalIndent(struct {
		State safepay.Address `json:"state"`
		Stage string          `json:"stage"`
		*grant.Grant
	}{State: d.State, Stage: g.Stage.String(), Grant: &g}, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}
