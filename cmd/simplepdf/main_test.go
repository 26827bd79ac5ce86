package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wudi/simplepdf/contentstream"
	"github.com/wudi/simplepdf/coords"
	"github.com/wudi/simplepdf/fonts"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunMarkdownToFile(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "notes.md", "# Notes\n\nSome *text* with a [link](https://example.com).\n")
	out := filepath.Join(dir, "notes.pdf")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--title", "Notes", "--paper", "A5", "-o", out, md}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v (stderr %s)", err, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.HasPrefix(s, "%PDF-1.6\n") || !strings.HasSuffix(s, "%%EOF\n") {
		t.Fatalf("not a document: %q...", s[:min(len(s), 20)])
	}
	for _, want := range []string{"/Title (Notes)", "/MediaBox [0 0 419.52756 595.27559]", "/S /URI"} {
		if !strings.Contains(s, want) {
			t.Fatalf("output lacks %q", want)
		}
	}
}

func TestRunScriptToStdout(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "doc.yaml", "version: \"1.7\"\npage:\n  dimension: [100, 50]\n")
	js := writeFile(t, dir, "draw.js", `
doc.addPage();
doc.setFont(SimplePdfBaseFont.COURIER);
doc.addText("from script", 10, 5, 5);
doc.drawRectangle(5, 20, 20, 10, true, true);
`)
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-c", cfg, "-o", "-", js}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v (stderr %s)", err, stderr.String())
	}
	s := stdout.String()
	if !strings.HasPrefix(s, "%PDF-1.7\n") || !strings.Contains(s, "/BaseFont /Courier") {
		t.Fatalf("unexpected output %q", s[:min(len(s), 200)])
	}
}

func TestRunShapingMeasurer(t *testing.T) {
	dir := t.TempDir()
	js := writeFile(t, dir, "link.js", `
doc.addPage();
doc.setFont(SimplePdfBaseFont.HELVETICA);
doc.addLink("Waffle office", "https://example.com", 12, 10, 10);
`)
	var stdout, stderr bytes.Buffer
	args := []string{"--measurer", "shaping", "--check-content", "-o", "-", js}
	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v (stderr %s)", err, stderr.String())
	}
	ext, err := fonts.NewShapingMeasurer().Measure("Waffle office", 12, fonts.Helvetica)
	if err != nil {
		t.Fatal(err)
	}
	left, top := coords.ToPoints(10), coords.ToPoints(287)
	rect := "/Rect [" + contentstream.Fixed(left) + " " + contentstream.Fixed(top-12) + " " +
		contentstream.Fixed(left+ext.Width) + " " + contentstream.Fixed(top-12+ext.Height) + "]"
	if !strings.Contains(stdout.String(), rect) {
		t.Fatalf("output lacks %s", rect)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "plain.txt", "hello")
	bad := writeFile(t, dir, "bad.js", `doc.addText("x", 10, 0, 0)`)
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"no inputs", nil, "no input files"},
		{"unknown format", []string{"-o", "-", txt}, "unknown input format"},
		{"missing file", []string{filepath.Join(dir, "nope.md")}, "no such file"},
		{"bad paper", []string{"--paper", "B7", txt}, "unknown paper size"},
		{"script error", []string{"-o", "-", bad}, "no page present"},
		{"bad log level", []string{"--log-level", "loud", txt}, "log level"},
		{"bad measurer", []string{"--measurer", "ruler", txt}, "text.measurer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tc.args, &stdout, &stderr)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	cases := map[string]string{
		"a.md":       "markdown",
		"b.MARKDOWN": "markdown",
		"c.htm":      "html",
		"d.js":       "script",
		"e.txt":      "",
	}
	for path, want := range cases {
		if got := formatOf(path); got != want {
			t.Fatalf("formatOf(%q) = %q, want %q", path, got, want)
		}
	}
}
