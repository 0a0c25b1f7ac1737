package errors

import (
	"errors"
	"fmt"
)

// SuccessABCICode is the response code of a successful ABCI call.
const SuccessABCICode = 0

// Errors that were not registered share code 1 and, outside of debug mode,
// a generic log so that no system details leak into the chain.
const (
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response for err. Debug mode
// logs the full error with its stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	code := abciCode(err)
	switch {
	case code == SuccessABCICode:
		return code, ""
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// abciCode returns the code of the first registered error found while
// unwrapping err, or the internal code if there is none.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	for err != nil {
		if c, ok := err.(interface{ ABCICode() uint32 }); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}

// Redact replaces panics and unregistered errors with a generic internal
// error. Debug mode returns err unchanged.
func Redact(err error, debug bool) error {
	if debug || err == nil {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
