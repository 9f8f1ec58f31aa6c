package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/hanpama/queryweave/internal/eventbus"
	"github.com/hanpama/queryweave/internal/language"
	"github.com/hanpama/queryweave/internal/otel"
	"github.com/hanpama/queryweave/internal/registry"
	"github.com/hanpama/queryweave/internal/rewrite"
	"github.com/hanpama/queryweave/internal/server"
)

const rootUsage = `queryweave — @computed directive rewriter for GraphQL query documents

USAGE:
  queryweave <command> [flags]

COMMANDS:
  rewrite          Rewrite a query document using a registry of dependency fragments
  serve            Run the HTTP rewrite service
  help             Show help for any command
`

const rewriteUsage = `rewrite FLAGS:
  -registry.root <dir>       Registry root holding <Type>/<field>.graphql
                             dependency fragments (default: .)
  -mode <replace|augment>    Rewrite mode (default: replace)
  -in <file>                 Input query document (default: stdin)
  -out <file>                Output file (default: stdout)
`

const serveUsage = `serve FLAGS:
  -registry.root <dir>       Registry root holding <Type>/<field>.graphql
                             dependency fragments (default: .)
  -server.addr <addr>        HTTP listen address (default: :8080)
  -server.pretty             Pretty-print JSON responses
  -server.timeout <duration> Per-request timeout, e.g. 10s (default: 10s)
  -server.max-body <bytes>   Max request body size in bytes (default: 1048576)
  -otel.endpoint <addr>      OTLP collector endpoint
  -otel.service <name>       OpenTelemetry service name (default: queryweave)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("queryweave", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "rewrite":
		return cmdRewrite(cmdArgs)
	case "serve":
		return cmdServe(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "rewrite":
		fmt.Print(rewriteUsage)
	case "serve":
		fmt.Print(serveUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

func cmdRewrite(args []string) error {
	fs := flag.NewFlagSet("rewrite", flag.ContinueOnError)
	registryRoot := fs.String("registry.root", ".", "")
	mode := fs.String("mode", "replace", "")
	in := fs.String("in", "", "")
	out := fs.String("out", "", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rewriteUsage)
		return err
	}

	reg, err := registry.Load(*registryRoot)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	source := os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		source = f
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(source); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	doc, err := language.ParseQuery(buf.String())
	if err != nil {
		return err
	}

	var rewritten *language.QueryDocument
	switch *mode {
	case "replace":
		rewritten, err = rewrite.Replace(doc, reg)
	case "augment":
		rewritten, err = rewrite.Augment(doc, reg)
	default:
		fmt.Fprint(os.Stderr, rewriteUsage)
		return fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		return err
	}

	text := language.FormatQuery(rewritten)
	if *out == "" {
		fmt.Print(text)
		return nil
	}
	return os.WriteFile(*out, []byte(text), 0o644)
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	registryRoot := fs.String("registry.root", ".", "")
	addr := fs.String("server.addr", ":8080", "")
	pretty := fs.Bool("server.pretty", false, "")
	timeout := fs.Duration("server.timeout", 10*time.Second, "")
	maxBody := fs.Int64("server.max-body", 1<<20, "")
	otelEndpoint := fs.String("otel.endpoint", "", "")
	otelService := fs.String("otel.service", "queryweave", "")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}

	eventbus.Use(eventbus.New())

	shutdown, err := otel.Setup(*otelEndpoint, *otelService)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	reg, err := registry.Load(*registryRoot)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	opts := []server.Option{
		server.WithTimeout(*timeout),
		server.WithMaxBodyBytes(*maxBody),
	}
	if *pretty {
		opts = append(opts, server.WithPretty())
	}
	handler, err := server.New(reg, opts...)
	if err != nil {
		return err
	}

	log.Printf("queryweave listening on %s (registry: %s)", *addr, *registryRoot)
	return http.ListenAndServe(*addr, handler)
}
