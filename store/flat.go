package store

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/mikkohei13/biotools/conceptual"
	"github.com/mikkohei13/biotools/grid"
	"github.com/mikkohei13/biotools/params"
)

// Flat is a directory for flat result artifacts.
type Flat struct {
	// path includes the root directory.
	path string
}

func NewFlatWithRoot(root string) *Flat {
	root = filepath.Clean(root)
	if !filepath.IsAbs(root) {
		root, _ = filepath.Abs(root)
	}
	return &Flat{path: root}
}

// ForDataset descends into results/<dataset>.
func (f *Flat) ForDataset(dataset conceptual.DatasetID) *Flat {
	return f.Joining(params.ResultsDirName, dataset.String())
}

func (f *Flat) Joining(paths ...string) *Flat {
	f.path = filepath.Join(append([]string{f.path}, paths...)...)
	return f
}

// Exists returns true if the directory exists.
func (f *Flat) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

func (f *Flat) MkdirAll() error {
	return os.MkdirAll(f.path, 0770)
}

func (f *Flat) Path() string {
	return f.path
}

// ArtifactName is <dataset>_<method>_<res>km<ext>, the layout the
// original analysis scripts produced.
func ArtifactName(dataset conceptual.DatasetID, method string, res grid.Resolution, ext string) string {
	return fmt.Sprintf("%s_%s_%d%s", dataset, method, int(res), "km"+ext)
}

// NamedGZWriter opens an artifact for gzip writing under the flat dir.
func (f *Flat) NamedGZWriter(name string) (*GZFileWriter, error) {
	if err := f.MkdirAll(); err != nil {
		return nil, err
	}
	return NewGZFileWriter(filepath.Join(f.path, name+".gz"))
}

type GZFileWriter struct {
	f      *os.File
	gzw    *gzip.Writer
	locked bool
	closed bool
}

func NewGZFileWriter(path string) (*GZFileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return nil, err
	}
	fi, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0660)
	if err != nil {
		return nil, err
	}
	gzw, err := gzip.NewWriterLevel(fi, params.DefaultGZipCompressionLevel)
	if err != nil {
		return nil, err
	}
	return &GZFileWriter{f: fi, gzw: gzw}, nil
}

func (g *GZFileWriter) Write(p []byte) (int, error) {
	g.lock()
	return g.gzw.Write(p)
}

// lock locks the file for exclusive access.
// The lock will be invalidated if and when the file is closed.
func (g *GZFileWriter) lock() {
	if g.locked || g.closed || g.f == nil {
		return
	}
	fd := g.f.Fd()
	_ = syscall.Flock(int(fd), syscall.LOCK_EX)
	g.locked = true
}

func (g *GZFileWriter) unlock() {
	if !g.locked || g.closed || g.f == nil {
		return
	}
	fd := g.f.Fd()
	_ = syscall.Flock(int(fd), syscall.LOCK_UN)
	g.locked = false
}

func (g *GZFileWriter) Close() error {
	defer func() {
		g.closed = true
	}()
	defer g.unlock()
	if err := g.gzw.Close(); err != nil {
		return err
	}
	return g.f.Close()
}

func (g *GZFileWriter) Path() string {
	return g.f.Name()
}
