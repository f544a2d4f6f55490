package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/erddl"
)

// Artifact is a file produced from a compilation: the DDL script or its Go
// bindings.
type Artifact struct {
	Path string
	Data []byte
}

// WriterMetrics tracks written artifacts.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// Writer writes artifacts in parallel. Every file is replaced atomically.
type Writer struct {
	workers int

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewWriter creates a writer using one worker per CPU.
func NewWriter() *Writer {
	return &Writer{workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns the writer metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteAll writes the artifacts. It stops scheduling writes on the first
// failure or when ctx is done; artifacts already written stay in place.
func (w *Writer) WriteAll(ctx context.Context, artifacts ...Artifact) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, a := range artifacts {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := WriteFile(a.Path, a.Data); err != nil {
				return err
			}
			w.mu.Lock()
			w.metrics.FilesWritten++
			w.metrics.TotalBytes += int64(len(a.Data))
			w.mu.Unlock()
			return nil
		})
	}
	return eg.Wait()
}

// WriteFile replaces the file at path with data. The data goes to a temporary
// file in the same directory that is renamed over path once complete, so
// readers never observe a partial file. Failures are reported as
// *erddl.IOError.
func WriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return erddl.NewIOError("write", path, fmt.Errorf("create directory: %w", err))
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return erddl.NewIOError("write", path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			err = erddl.NewIOError("write", path, err)
		}
	}()
	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
