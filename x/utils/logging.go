package utils

import (
	"time"

	"github.com/iov-one/swapd"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ swapd.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (Logging) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Checker) (*swapd.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (Logging) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Deliverer) (*swapd.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx swapd.Context, tx swapd.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := swapd.GetLogger(ctx).With("duration", delta/time.Microsecond, "path", msgPath(tx))

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}

// msgPath returns the route of the transaction message or an empty string
// if it cannot be decoded.
func msgPath(tx swapd.Tx) string {
	if tx == nil {
		return ""
	}
	msg, err := tx.GetMsg()
	if err != nil || msg == nil {
		return ""
	}
	return msg.Path()
}
