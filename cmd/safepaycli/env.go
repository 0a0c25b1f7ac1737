package main

import (
	"os"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// tmAddr is the default address of the tendermint node.
func tmAddr() string {
	return env("SAFEPAY_TM_ADDR", "http://localhost:26657")
}

// keyPath is the default location of the private key file.
func keyPath() string {
	return env("SAFEPAY_PRIV_KEY", os.Getenv("HOME")+"/.safepay.priv.key")
}
