package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/zephyrtronium/cellcalc"
)

// config is the parsed command line.
type config struct {
	inname   string
	verb     string
	given    []given
	nl       bool
	echo     bool
	check    bool
	outname  string
	csv      bool
	serve    string
	logLevel string
	logFmt   string
	contents []string
}

// given is a cell definition from the command line.
type given struct {
	ref     cellcalc.Ref
	content string
}

// exitError is an error with a process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// parseArgs parses command-line arguments. help is true if the user asked for
// usage, which has already been printed to stderr.
func parseArgs(args []string, stderr io.Writer) (cfg *config, help bool, err error) {
	cfg = new(config)
	fs := flag.NewFlagSet("cellcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addgiven := func(s string) error {
		name, content, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf(`cell definitions must be "cell=content", not %q`, s)
		}
		name = strings.TrimSpace(name)
		ref, ok := cellcalc.ParseRef(name)
		if !ok {
			return fmt.Errorf("invalid cell name %q", name)
		}
		cfg.given = append(cfg.given, given{ref: ref, content: content})
		return nil
	}
	fs.StringVar(&cfg.inname, "in", "", "sheet file to load (.hcl or .csv)")
	fs.StringVar(&cfg.verb, "fmt", "%v", "formatting verb for numbers")
	fs.Func("given", "cell=content definition (any number of times)", addgiven)
	fs.BoolVar(&cfg.nl, "n", false, "read cell contents from stdin, one per line")
	fs.BoolVar(&cfg.echo, "echo", false, "print parse trees")
	fs.BoolVar(&cfg.check, "check", false, "print syntax errors in formulas")
	fs.StringVar(&cfg.outname, "out", "", "write the sheet with values to this HCL file")
	fs.BoolVar(&cfg.csv, "csv", false, "write displayed values as CSV instead of listing cells")
	fs.StringVar(&cfg.serve, "serve", "", "serve the sheet to websocket clients at this address")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.logFmt, "log-format", "text", "log format (text or json)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: cellcalc [flags] [content ...]\n\n")
		fmt.Fprintf(fs.Output(), "Evaluates each content against the sheet, or lists the sheet's cells.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &exitError{code: 2, err: err}
	}
	if cfg.logFmt != "text" && cfg.logFmt != "json" {
		return nil, false, &exitError{code: 2, err: fmt.Errorf("unknown log format %q", cfg.logFmt)}
	}
	cfg.contents = fs.Args()
	return cfg, false, nil
}
