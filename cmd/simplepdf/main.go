// simplepdf builds a document from Markdown, HTML or JavaScript input.
//
// Usage:
//
//	simplepdf [flags] <input>...
//
// Markdown (.md) and HTML (.html) inputs are flowed onto pages; JavaScript
// (.js) inputs draw through the global doc object. All inputs go into one
// document, in order.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/wudi/simplepdf/builder"
	"github.com/wudi/simplepdf/config"
	"github.com/wudi/simplepdf/layout"
	"github.com/wudi/simplepdf/observability"
	"github.com/wudi/simplepdf/scripting"
	"github.com/wudi/simplepdf/sink"
)

type options struct {
	configPath string
	out        string
	format     string
	title      string
	paper      string
	landscape  bool
	measurer   string
	check      bool
	logLevel   string
	inputs     []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "simplepdf: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("simplepdf", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: simplepdf [flags] <input>...\n")
		flagSet.PrintDefaults()
	}
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "YAML settings file")
	flagSet.StringVarP(&opts.out, "out", "o", "", "output file, - for stdout (default from config)")
	flagSet.StringVarP(&opts.format, "format", "f", "", "input format: markdown, html or script (default by extension)")
	flagSet.StringVar(&opts.title, "title", "", "document title")
	flagSet.StringVar(&opts.paper, "paper", "", "paper size, e.g. A4 or LETTER")
	flagSet.BoolVar(&opts.landscape, "landscape", false, "rotate the paper size")
	flagSet.StringVar(&opts.measurer, "measurer", "", "text measurer: face or shaping (default from config)")
	flagSet.BoolVar(&opts.check, "check-content", false, "reject malformed content streams while composing")
	flagSet.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")
	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	opts.inputs = flagSet.Args()
	if len(opts.inputs) == 0 {
		flagSet.Usage()
		return opts, errors.New("no input files")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := observability.NewSlogLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Default()
	if opts.configPath != "" {
		if cfg, err = config.LoadFile(opts.configPath); err != nil {
			return err
		}
	}
	if opts.title != "" {
		cfg.Metadata.Title = opts.title
	}
	if opts.paper != "" {
		cfg.Page.Size, cfg.Page.Dimension = opts.paper, nil
	}
	if opts.landscape {
		cfg.Page.Landscape = true
	}
	if opts.measurer != "" {
		cfg.Text.Measurer = opts.measurer
	}
	if opts.check {
		cfg.Output.CheckContent = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	dim, _ := cfg.Dimension()

	doc, err := builder.New(cfg.Metadata, dim, append(cfg.BuilderOptions(), builder.WithLogger(logger))...)
	if err != nil {
		return err
	}
	engine := layout.NewEngine(doc, cfg.LayoutOptions()...)
	var script *scripting.GojaEngine

	for _, path := range opts.inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		format := opts.format
		if format == "" {
			format = formatOf(path)
		}
		logger.Debug("rendering input", observability.String("file", path), observability.String("format", format))
		switch format {
		case "markdown", "md":
			err = engine.RenderMarkdown(string(data))
		case "html":
			err = engine.RenderHTML(string(data))
		case "script", "js":
			if script == nil {
				script = scripting.NewEngine(scripting.WithLogger(logger))
				if err := script.RegisterDOM(doc); err != nil {
					return err
				}
			}
			_, err = script.Execute(ctx, string(data))
		default:
			return fmt.Errorf("%s: unknown input format %q", path, format)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	out, dir, filename := opts.out, cfg.Output.Dir, cfg.Output.Filename
	var target sink.Sink
	switch {
	case out == "-":
		target = sink.WriterSink{W: stdout}
	case out != "":
		dir, filename = filepath.Split(out)
		if dir == "" {
			dir = "."
		}
		target = sink.NewFileSink(dir)
	default:
		target = sink.NewFileSink(dir)
	}
	if err := doc.Save(ctx, target, filename); err != nil {
		return err
	}
	logger.Info("document written",
		observability.String("file", filepath.Join(dir, filename)),
		observability.Int(observability.MetricPageCount, doc.PageCount()),
	)
	return nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "markdown"
	case ".html", ".htm":
		return "html"
	case ".js":
		return "script"
	}
	return ""
}
