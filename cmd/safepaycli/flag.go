package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/safepay"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *safepay.Address {
	var a flagAddress
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return (*safepay.Address)(&a)
}

// flagAddress accepts any of the formats understood by safepay.ParseAddress.
type flagAddress safepay.Address

func (a flagAddress) String() string {
	if len(a) == 0 {
		return ""
	}
	return safepay.Address(a).String()
}

func (a *flagAddress) Set(raw string) error {
	addr, err := safepay.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagAddress(addr)
	return nil
}

// flagDie terminates the program when a flag validation fails.
func flagDie(description string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, description, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(2)
}
