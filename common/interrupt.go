package common

import (
	"os"
	"os/signal"
	"syscall"
)

// Interrupted returns a channel that receives termination signals.
// Long-running daemons block on it to exit cleanly.
func Interrupted() <-chan os.Signal {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt,
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGQUIT,
	)
	return interrupt
}
