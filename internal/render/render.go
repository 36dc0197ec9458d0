// Package render provides display surfaces for edited images.
//
// A surface receives every image the session shows. FileSurface keeps the
// latest one on disk so an external viewer can watch it, Latest keeps it in
// memory for the tool server, and Tee fans out to several surfaces.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ironsheep/photo-editor/internal/edit"
)

// FileSurface writes every displayed image to a single PNG file. Writes are
// atomic (temp file then rename) so a viewer never reads a partial image.
type FileSurface struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	lastID string
	err    error
}

// NewFileSurface returns a surface writing to path. The directory is created
// on first write.
func NewFileSurface(path string, logger *slog.Logger) *FileSurface {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSurface{path: path, logger: logger}
}

// Path returns the output file.
func (f *FileSurface) Path() string { return f.path }

// Display writes img unless it is already the file content. Failures are
// logged and kept for Err; the session does not stop on a display error.
func (f *FileSurface) Display(img edit.ImageRef) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if img.IsZero() || img.ID() == f.lastID {
		return
	}
	if err := f.write(img); err != nil {
		f.err = err
		f.logger.Warn("render: write failed", "path", f.path, "error", err)
		return
	}
	f.lastID = img.ID()
	f.err = nil
	f.logger.Debug("render: wrote image", "path", f.path, "image", img.String())
}

func (f *FileSurface) write(img edit.ImageRef) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("render: mkdir %s: %w", filepath.Dir(f.path), err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, img.Bytes(), 0o644); err != nil {
		return fmt.Errorf("render: write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("render: rename: %w", err)
	}
	return nil
}

// Err returns the error of the most recent write, if it failed.
func (f *FileSurface) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Latest remembers the most recently displayed image.
type Latest struct {
	mu     sync.RWMutex
	img    edit.ImageRef
	frames int
}

// Display records img.
func (l *Latest) Display(img edit.ImageRef) {
	l.mu.Lock()
	l.img = img
	l.frames++
	l.mu.Unlock()
}

// Image returns the last displayed image, or the zero ImageRef.
func (l *Latest) Image() edit.ImageRef {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.img
}

// Frames returns how many images have been displayed.
func (l *Latest) Frames() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frames
}

// Displayer is anything that can show an image. session.Surface satisfies it.
type Displayer interface {
	Display(img edit.ImageRef)
}

// Tee shows every image on all of its surfaces, in order.
type Tee []Displayer

// Display forwards img to each surface.
func (t Tee) Display(img edit.ImageRef) {
	for _, d := range t {
		if d != nil {
			d.Display(img)
		}
	}
}
