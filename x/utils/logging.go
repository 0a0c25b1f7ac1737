package utils

import (
	"time"

	"github.com/iov-one/safepay"
)

// Logging is a decorator to log messages as they pass through.
//
// Every processed transaction produces exactly one log entry carrying the
// message path and the processing time. Failures are logged as errors,
// successful checks as debug and successful deliveries as info.
type Logging struct{}

var _ safepay.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug
func (Logging) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Checker) (*safepay.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logTx(ctx, tx, start, msg, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (Logging) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (*safepay.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logTx(ctx, tx, start, msg, err, false)
	return res, err
}

func logTx(ctx safepay.Context, tx safepay.Tx, start time.Time, msg string, err error, check bool) {
	logger := safepay.GetLogger(ctx).With(
		"path", safepay.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
