//go:build !windows

package cmd

import (
	"os"
	"syscall"
)

// shutdownSignals are the signals that stop serve gracefully: SIGINT and SIGTERM.
func shutdownSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM}
}

// processIsAlive sends signal 0 to the process.
func processIsAlive(proc *os.Process) bool {
	return proc.Signal(syscall.Signal(0)) == nil
}

// requestStop asks a running server to shut down with SIGTERM.
func requestStop(proc *os.Process) error {
	return proc.Signal(syscall.SIGTERM)
}
