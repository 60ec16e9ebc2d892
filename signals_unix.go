//go:build unix

package main

import (
	"os"
	"syscall"
)

// shutdownSignals end the session. SIGINT is left to the front-ends, which
// use it to cancel the running command.
var shutdownSignals = []os.Signal{syscall.SIGTERM, syscall.SIGHUP}
