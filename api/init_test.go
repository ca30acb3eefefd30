package api

import (
	"os"
	"testing"

	"github.com/mikkohei13/biotools/conceptual"
	"github.com/mikkohei13/biotools/params"
	biotesting "github.com/mikkohei13/biotools/testing"
)

var TestDatadirRoot = biotesting.DefaultTestDir()

func init() {
	params.DefaultDatadirRoot = TestDatadirRoot
}

// NewTestDataset creates a dataset backed by a temporary directory
// inside the TestDatadirRoot.
func NewTestDataset(t *testing.T, name string) *Dataset {
	err := os.MkdirAll(TestDatadirRoot, 0770)
	if err != nil {
		t.Fatal(err)
	}
	d, err := os.MkdirTemp(TestDatadirRoot, name)
	if err != nil {
		t.Fatal(err)
	}
	return NewDataset(conceptual.DatasetID(name), d, nil)
}

func (d *Dataset) closeAndDestroy() error {
	if err := d.Close(); err != nil {
		return err
	}
	return os.RemoveAll(d.DataDir)
}
