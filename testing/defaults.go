package testing

import (
	"os"
	"path/filepath"
)

const DefaultTestDirRoot = "biotools-test"

func DefaultTestDir() string {
	return filepath.Join(os.TempDir(), DefaultTestDirRoot)
}
