// Package sink delivers a composed document to its destination.
package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFilename is used when a document is saved without a name.
const DefaultFilename = "simple_pdf.pdf"

// Sink receives the final bytes of a document.
type Sink interface {
	Deliver(ctx context.Context, data []byte, filename string) error
}

// Func adapts a function to Sink.
type Func func(ctx context.Context, data []byte, filename string) error

func (f Func) Deliver(ctx context.Context, data []byte, filename string) error {
	return f(ctx, data, filename)
}

// FileSink writes documents below Dir. The file is written to a temporary
// name first and renamed into place.
type FileSink struct {
	Dir  string
	Perm os.FileMode
}

// NewFileSink returns a FileSink for dir with 0644 permissions.
func NewFileSink(dir string) *FileSink { return &FileSink{Dir: dir, Perm: 0o644} }

func (s *FileSink) Deliver(ctx context.Context, data []byte, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if filename == "" {
		filename = DefaultFilename
	}
	path := filename
	if !filepath.IsAbs(path) && s.Dir != "" {
		path = filepath.Join(s.Dir, filename)
	}
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WriterSink copies documents to W and ignores the file name.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Deliver(ctx context.Context, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.W == nil {
		return errors.New("writer sink has no writer")
	}
	n, err := s.W.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	return err
}

// Memory keeps every delivered document keyed by file name. The zero value
// is ready to use.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemory() *Memory { return &Memory{files: make(map[string][]byte)} }

func (m *Memory) Deliver(ctx context.Context, data []byte, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[filename] = bytes.Clone(data)
	return nil
}

// File returns the document delivered under filename.
func (m *Memory) File(filename string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filename]
	return data, ok
}

// Multi delivers to every sink in order and stops at the first failure.
func Multi(sinks ...Sink) Sink {
	return Func(func(ctx context.Context, data []byte, filename string) error {
		for i, s := range sinks {
			if err := s.Deliver(ctx, data, filename); err != nil {
				return fmt.Errorf("sink %d: %w", i, err)
			}
		}
		return nil
	})
}
