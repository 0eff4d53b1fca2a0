package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"chunkproc/internal/config"
	"chunkproc/internal/metrics"
	"chunkproc/internal/metrics/prompush"
	"chunkproc/internal/processor"
	"chunkproc/internal/transformer/builtin"
)

// main is the entry point for the chunkproc binary. It assembles the run
// config from flags (optionally seeded from a JSON file), optionally
// initializes a metrics backend, and executes one processing run.
func main() {
	var (
		cfgPath           string
		inputPath         string
		outputPath        string
		chunkSize         int
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "", "run config JSON path (optional)")
	flag.StringVar(&inputPath, "input", "", "input CSV path (overrides config)")
	flag.StringVar(&outputPath, "output", "", "output CSV path (default: <input>_processed<ext>)")
	flag.IntVar(&chunkSize, "chunk-size", 0, "rows per chunk (default 1000)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (e.g. pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	var cfg config.Run
	if cfgPath != "" {
		f, err := os.Open(cfgPath)
		if err != nil {
			fatalf("open config: %v", err)
		}
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			f.Close()
			fatalf("decode config: %v", err)
		}
		f.Close()
	}

	// Flags override the config file.
	if inputPath != "" {
		cfg.InputPath = inputPath
	}
	if outputPath != "" {
		cfg.OutputPath = outputPath
	}
	if chunkSize != 0 {
		cfg.ChunkSize = chunkSize
	}

	issues := config.Validate(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid")
		os.Exit(1)
	}

	// If validate flag is set, only validate the configuration and exit
	if validate {
		log.Printf("Configuration is valid")
		os.Exit(0)
	}

	transforms, err := builtin.Build(cfg.Transform)
	if err != nil {
		fatalf("build transforms: %v", err)
	}

	// Decide metrics backend: flag → env → default.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		// Decide Pushgateway URL: flag → env → default.
		gwURL := pushGatewayURLFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}

		b, err := prompush.NewBackend(cfg.Job(), gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backendName, cfg.Job())
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}

	case "", "none":
		// metrics disabled; nop backend remains
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("run: input=%s output=%s chunk_size=%d transforms=%d",
			cfg.InputPath, cfg.ResolvedOutputPath(), cfg.ResolvedChunkSize(), len(cfg.Transform))
	}

	p := processor.NewCSV(cfg, transforms)
	if err := p.Process(ctx); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		st := p.Stats()
		log.Printf("completed in %s: chunks=%d/%d rows=%d nulls=%d",
			time.Since(start).Truncate(time.Millisecond),
			st.ChunksSucceeded, st.ChunksAttempted, st.TotalRows, st.TotalNulls)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
