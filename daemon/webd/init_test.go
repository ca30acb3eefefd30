package webd

import (
	"os"

	"github.com/mikkohei13/biotools/params"
)

// newTestWebDaemon creates a new WebDaemon for testing purposes.
// If datadir is empty, one will be provided for you.
func newTestWebDaemon(datadir string) (daemon *WebDaemon, teardown func() error) {
	config := params.DefaultTestWebDaemonConfig()
	if datadir != "" {
		config.DataDir = datadir
	} else {
		tmpd, err := os.MkdirTemp(os.TempDir(), "biotools-webd-test")
		if err != nil {
			panic(err)
		}
		config.DataDir = tmpd
	}
	daemon = NewWebDaemon(config)
	daemon.initMelody()
	teardown = func() error {
		return os.RemoveAll(config.DataDir)
	}
	return daemon, teardown
}
