package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
)

func main() {
	script := flag.String("script", "", "scene script to evaluate (default: stdin)")
	workers := flag.Int("workers", 0, "narrowphase workers (0 = one per CPU)")
	indent := flag.Bool("indent", true, "indent the JSON report")
	flag.Parse()

	source, err := readSource(*script)
	if err != nil {
		log.Fatalf("read script: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := NewApp()
	if *workers > 0 {
		app.opts.Workers = *workers
	}
	report := app.EvaluateContext(ctx, source)

	enc := json.NewEncoder(os.Stdout)
	if *indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		log.Fatalf("encode report: %v", err)
	}
	if len(report.Errors) > 0 {
		os.Exit(1)
	}
}

func readSource(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return string(b), nil
}
