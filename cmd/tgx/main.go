package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rgonek/telegraph-extract/config"
	"github.com/rgonek/telegraph-extract/converter"
	"github.com/rgonek/telegraph-extract/extractor"
	"github.com/rgonek/telegraph-extract/mdconverter"
	"github.com/rgonek/telegraph-extract/server"
	"github.com/rgonek/telegraph-extract/tools"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	configPath string
	verbose    bool
	numbering  string
	normalize  string
	input      string
	markdown   string
	html       string
	serve      bool
	pretty     bool
	args       []string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("tgx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML or JSON config file")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	fs.StringVar(&opts.numbering, "numbering", "", "Placeholder numbering: per_element|per_url")
	fs.StringVar(&opts.normalize, "normalize", "", "Text normalization: none|nfc|nfkc")
	fs.StringVar(&opts.input, "input", "", "Convert a Telegraph content JSON file ('-' for stdin)")
	fs.StringVar(&opts.markdown, "markdown", "", "Import a Markdown file into Telegraph page JSON ('-' for stdin)")
	fs.StringVar(&opts.html, "html", "", "Import an HTML file into Telegraph content JSON ('-' for stdin)")
	fs.BoolVar(&opts.serve, "serve", false, "Serve the tools over HTTP")
	fs.BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tgx [options] <telegraph-url>\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	opts.args = fs.Args()

	modes := 0
	for _, set := range []bool{opts.input != "", opts.markdown != "", opts.html != "", opts.serve} {
		if set {
			modes++
		}
	}
	switch {
	case modes > 1:
		return options{}, fmt.Errorf("only one of -input, -markdown, -html and -serve may be set")
	case modes == 0 && len(opts.args) != 1:
		fs.Usage()
		return options{}, fmt.Errorf("expected exactly one Telegraph URL")
	}

	return opts, nil
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(opts options, lookup func(string) (string, bool)) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadFile(opts.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Config{}, err
	}

	if opts.verbose {
		cfg.Verbose = true
	}
	if opts.numbering != "" {
		cfg.Conversion.Numbering = opts.numbering
	}
	if opts.normalize != "" {
		cfg.Conversion.TextNormalization = opts.normalize
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

func run(ctx context.Context, opts options, cfg config.Config, stdin io.Reader, stdout io.Writer, log zerolog.Logger) error {
	conv, err := converter.New(cfg.ConverterConfig())
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch {
	case opts.input != "":
		data, err := readInput(opts.input, stdin)
		if err != nil {
			return err
		}
		result, err := conv.ConvertJSON(data)
		if err != nil {
			return fmt.Errorf("convert content: %w", err)
		}
		logWarnings(log, result.Warnings)
		return writeJSON(stdout, toolResult(result), opts.pretty)

	case opts.markdown != "":
		data, err := readInput(opts.markdown, stdin)
		if err != nil {
			return err
		}
		importer, err := mdconverter.New(mdconverter.Config{})
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		result, err := importer.ConvertWithContext(ctx, string(data), mdconverter.ConvertOptions{SourcePath: opts.markdown})
		if err != nil {
			return fmt.Errorf("import markdown: %w", err)
		}
		logWarnings(log, result.Warnings)
		result.Nodes = nonNilNodes(result.Nodes)
		result.Warnings = nil
		return writeJSON(stdout, result, opts.pretty)

	case opts.html != "":
		data, err := readInput(opts.html, stdin)
		if err != nil {
			return err
		}
		nodes, err := mdconverter.FromHTML(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("import html: %w", err)
		}
		return writeJSON(stdout, nonNilNodes(nodes), opts.pretty)

	case opts.serve:
		return serve(ctx, cfg, conv, log)

	default:
		ex := extractor.New(cfg.TelegraphClient(log), conv, log)
		doc, err := ex.Extract(ctx, opts.args[0])
		if err != nil {
			return err
		}
		logWarnings(log, doc.Warnings)
		return writeJSON(stdout, toolResult(doc.Result), opts.pretty)
	}
}

func serve(ctx context.Context, cfg config.Config, conv *converter.Converter, log zerolog.Logger) error {
	registry, err := tools.NewBuiltinRegistry(extractor.New(cfg.TelegraphClient(log), conv, log))
	if err != nil {
		return err
	}
	importer, err := mdconverter.New(mdconverter.Config{})
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Name:           cfg.ServerName,
		Instructions:   cfg.Instructions,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, registry, conv, importer, log)

	httpServer := &http.Server{
		Addr:         cfg.Listen,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * cfg.Telegraph.Timeout,
		IdleTimeout:  60 * time.Second,
	}
	if httpServer.WriteTimeout <= 0 {
		httpServer.WriteTimeout = 120 * time.Second
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("name", cfg.ServerName).Str("listen", cfg.Listen).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func toolResult(r converter.Result) tools.ExtractionResult {
	out := tools.ExtractionResult{
		TextContent: r.Text,
		ImageURLs:   r.ImageURLs,
		VideoURLs:   r.VideoURLs,
	}
	if out.ImageURLs == nil {
		out.ImageURLs = []string{}
	}
	if out.VideoURLs == nil {
		out.VideoURLs = []string{}
	}
	return out
}

func nonNilNodes(nodes []converter.Node) []converter.Node {
	if nodes == nil {
		return []converter.Node{}
	}
	return nodes
}

func logWarnings(log zerolog.Logger, warnings []converter.Warning) {
	for _, w := range warnings {
		log.Warn().Str("type", string(w.Type)).Str("node", w.NodeType).Msg(w.Message)
	}
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := loadConfig(opts, os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := newLogger(os.Stderr, cfg.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg, os.Stdin, os.Stdout, log); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
