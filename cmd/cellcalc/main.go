package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/zephyrtronium/cellcalc"
	"github.com/zephyrtronium/cellcalc/internal/ctxlog"
	"github.com/zephyrtronium/cellcalc/live"
	"github.com/zephyrtronium/cellcalc/sheet"
	"github.com/zephyrtronium/cellcalc/sheetfile"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cellcalc:", err)
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, help, err := parseArgs(args, stderr)
	if err != nil || help {
		return err
	}
	logger := ctxlog.New(cfg.logLevel, cfg.logFmt, stderr)
	ctx = ctxlog.WithLogger(ctx, logger)

	s, err := load(cfg, sheet.WithLogger(logger))
	if err != nil {
		return err
	}
	for _, g := range cfg.given {
		if err := s.Set(g.ref, g.content); err != nil {
			return err
		}
	}

	contents := cfg.contents
	if cfg.nl {
		lines, err := readLines(stdin)
		if err != nil {
			return err
		}
		contents = append(lines, contents...)
	}

	verb := cfg.verb + "\n"
	for _, c := range contents {
		if cfg.echo {
			if cellcalc.Classify(c) == cellcalc.FormFormula {
				fmt.Fprintf(stdout, "%v : ", cellcalc.Parse(c[1:]))
			} else {
				fmt.Fprintf(stdout, "%q : ", c)
			}
		}
		if cfg.check && cellcalc.Classify(c) == cellcalc.FormFormula {
			if err := cellcalc.Parse(c[1:]).Err(); err != nil {
				fmt.Fprintf(stderr, "%q: %v\n", c, err)
			}
		}
		printValue(stdout, verb, s.Evaluate(c))
	}

	switch {
	case cfg.csv:
		if err := sheetfile.WriteCSV(stdout, s); err != nil {
			return err
		}
	case len(contents) == 0:
		for _, e := range s.Entries() {
			fmt.Fprintf(stdout, "%v\t", e.Ref)
			printValue(stdout, verb, e.Value)
		}
	}

	if cfg.outname != "" {
		if err := os.WriteFile(cfg.outname, sheetfile.Encode(s, true), 0644); err != nil {
			return err
		}
		logger.Info("wrote sheet", "path", cfg.outname)
	}

	if cfg.serve != "" {
		return serve(ctx, cfg.serve, s)
	}
	return nil
}

// load creates the sheet, from the input file if there is one.
func load(cfg *config, opts ...sheet.Option) (*sheet.Sheet, error) {
	if cfg.inname == "" {
		return sheet.New(opts...), nil
	}
	doc, err := sheetfile.Load(cfg.inname)
	if err != nil {
		return nil, err
	}
	return doc.Build(opts...)
}

// readLines reads non-empty lines.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if sc.Text() != "" {
			lines = append(lines, sc.Text())
		}
	}
	return lines, sc.Err()
}

// printValue prints a value, formatting numbers with verb.
func printValue(w io.Writer, verb string, v cellcalc.Value) {
	if n, ok := v.Num(); ok {
		fmt.Fprintf(w, verb, n)
		return
	}
	fmt.Fprintln(w, v)
}

// serve serves the sheet until ctx is done.
func serve(ctx context.Context, addr string, s *sheet.Sheet) error {
	logger := ctxlog.FromContext(ctx)
	srv := live.NewServer(s, logger)
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		srv.Run(ctx)
		close(done)
	}()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()
	select {
	case err := <-errc:
		cancel()
		<-done
		return err
	case <-ctx.Done():
	}
	shutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	err := hs.Shutdown(shutdown)
	<-done
	return err
}
