package sink

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSinkWritesFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSink(dir)
	if err := s.Deliver(context.Background(), []byte("%PDF-1.6\n"), "out.pdf"); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "out.pdf"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "%PDF-1.6\n" {
		t.Fatalf("content = %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temporary file left behind: %v", entries)
	}
}

func TestFileSinkDefaultName(t *testing.T) {
	dir := t.TempDir()
	if err := NewFileSink(dir).Deliver(context.Background(), []byte("x"), ""); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultFilename)); err != nil {
		t.Fatalf("default file missing: %v", err)
	}
}

func TestFileSinkMissingDirectory(t *testing.T) {
	s := NewFileSink(filepath.Join(t.TempDir(), "missing"))
	if err := s.Deliver(context.Background(), []byte("x"), "a.pdf"); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	if err := (WriterSink{W: &buf}).Deliver(context.Background(), []byte("abc"), "ignored"); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if buf.String() != "abc" {
		t.Fatalf("buffer = %q", buf.String())
	}
	if err := (WriterSink{}).Deliver(context.Background(), nil, ""); err == nil {
		t.Fatalf("expected error without writer")
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemory().Deliver(ctx, []byte("x"), "a"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestMultiStopsAtFailure(t *testing.T) {
	mem := NewMemory()
	boom := errors.New("boom")
	var after bool
	s := Multi(mem, Func(func(context.Context, []byte, string) error { return boom }), Func(func(context.Context, []byte, string) error {
		after = true
		return nil
	}))
	err := s.Deliver(context.Background(), []byte("doc"), "d.pdf")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if after {
		t.Fatalf("sink after failure was called")
	}
	if got, ok := mem.File("d.pdf"); !ok || string(got) != "doc" {
		t.Fatalf("memory sink = %q, %v", got, ok)
	}
}

func TestZeroMemory(t *testing.T) {
	var mem Memory
	if _, ok := mem.File("a.pdf"); ok {
		t.Fatalf("empty sink reported a file")
	}
	if err := mem.Deliver(context.Background(), []byte("doc"), "a.pdf"); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if got, ok := mem.File("a.pdf"); !ok || string(got) != "doc" {
		t.Fatalf("file = %q, %v", got, ok)
	}
}
