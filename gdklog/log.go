// Package gdklog is this module's ambient logger: a package-level
// btclog.Logger that the signer and enrich packages log through,
// defaulting to disabled until an embedding wallet session wires
// one in via UseLogger — the same convention btcwallet's own subpackages
// (waddrmgr, wtxmgr, chain, rpcclient) follow.
package gdklog

import "github.com/btcsuite/btclog"

var log btclog.Logger = btclog.Disabled

// UseLogger sets the logger used by this module's packages. It must be
// called before any logging occurs, typically during the embedding
// session's own UseLogger/initialization step.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// Logger returns the currently installed logger, for packages that accept
// it directly rather than importing gdklog's package-level log.
func Logger() btclog.Logger {
	return log
}

func Debugf(format string, args ...interface{}) { log.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { log.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { log.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }
