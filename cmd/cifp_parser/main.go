// Command-line entry point for the CIFP navigation database builder.
//
// The input is one decompressed ARINC 424 CIFP file; acquiring it
// (download, archive extraction, cycle discovery) is a separate tool.
// Exit code is 0 on success and 1 on any failure; verification failures
// and build failures print distinct categories so automation can tell
// "built but suspicious" from "did not build".
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"cifp_parser/internal/build"
	"cifp_parser/internal/config"
	"cifp_parser/internal/storage"
)

func usage(w *os.File) {
	fmt.Fprintln(w, "cifp_parser - ARINC 424 CIFP navigation database builder")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cifp_parser build  -input FAACIFP18 -db navdata.sqlite [-postgres DSN] [-batch N] [-cycle CCCC] [-skip-verify]")
	fmt.Fprintln(w, "  cifp_parser verify -db navdata.sqlite [-postgres DSN]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment overrides: CIFP_INPUT, CIFP_DB, CIFP_POSTGRES_DSN,")
	fmt.Fprintln(w, "CIFP_BATCH_SIZE, CIFP_AIRAC_CYCLE, CIFP_LOG_LEVEL (also via .env).")
}

func main() {
	// A missing .env is the common case, not an error.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel)

	switch strings.ToLower(os.Args[1]) {
	case "build":
		runBuild(os.Args[2:], cfg, logger)
	case "verify":
		runVerify(os.Args[2:], cfg, logger)
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Writer, error) {
	return storage.Open(ctx, storage.Config{
		Path:        cfg.DBPath,
		PostgresDSN: cfg.PostgresDSN,
		BatchSize:   cfg.BatchSize,
	})
}

func runBuild(args []string, cfg *config.Config, logger *slog.Logger) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	input := fs.String("input", cfg.InputPath, "Decompressed CIFP source file")
	dbPath := fs.String("db", cfg.DBPath, "SQLite output path")
	postgres := fs.String("postgres", cfg.PostgresDSN, "PostgreSQL DSN (overrides -db)")
	batch := fs.Int("batch", cfg.BatchSize, "Statements per bulk-load transaction")
	cycle := fs.String("cycle", cfg.AiracCycle, "AIRAC cycle override")
	skipVerify := fs.Bool("skip-verify", false, "Skip post-build verification")
	_ = fs.Parse(args)

	cfg.InputPath = *input
	cfg.DBPath = *dbPath
	cfg.PostgresDSN = *postgres
	cfg.BatchSize = *batch
	cfg.AiracCycle = *cycle

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		fail(err)
	}
	defer func() { _ = store.Close() }()

	stats, err := build.Run(ctx, build.Options{
		Source:     cfg.InputPath,
		AiracCycle: cfg.AiracCycle,
	}, store, logger)
	printStats(stats)
	if err != nil {
		fail(err)
	}

	if !*skipVerify {
		if _, err := build.Verify(ctx, store, build.VerifyOptions{}, logger); err != nil {
			fail(err)
		}
	}
}

func runVerify(args []string, cfg *config.Config, logger *slog.Logger) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	dbPath := fs.String("db", cfg.DBPath, "SQLite database path")
	postgres := fs.String("postgres", cfg.PostgresDSN, "PostgreSQL DSN (overrides -db)")
	_ = fs.Parse(args)

	cfg.DBPath = *dbPath
	cfg.PostgresDSN = *postgres

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		fail(err)
	}
	defer func() { _ = store.Close() }()

	if _, err := build.Verify(ctx, store, build.VerifyOptions{}, logger); err != nil {
		fail(err)
	}
}

func printStats(stats *build.Stats) {
	fmt.Printf("lines=%d skipped=%d duplicates=%d parse_errors=%d resolved=%d unresolved=%d\n",
		stats.Lines, stats.Skipped, stats.Duplicates, stats.ParseErrors, stats.Resolved, stats.Unresolved)
	for _, table := range storage.Tables {
		fmt.Printf("  %-15s %d\n", table, stats.Counts[table])
	}
	for _, sample := range stats.ErrorSample {
		fmt.Fprintf(os.Stderr, "  sample error: %s\n", sample)
	}
}

// fail prints the failure with its category and exits non-zero.
func fail(err error) {
	switch {
	case errors.Is(err, build.ErrInputMissing):
		fmt.Fprintf(os.Stderr, "not-found: %v\n", err)
	case errors.Is(err, build.ErrVerification):
		// The check detail carries the category
		// (not-found / malformed / below-threshold).
		fmt.Fprintf(os.Stderr, "verification: %v\n", err)
	case errors.Is(err, storage.ErrStorage):
		fmt.Fprintf(os.Stderr, "storage: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}
