// fuzzdex-load populates a Redis collection from a newline-separated word file.
//
// Usage:
//
//	fuzzdex-load -file words.txt -key words -kind zset -every 10
//
// Env vars:
//
//	REDIS_ADDR     address of the store (default: localhost:6379)
//	REDIS_PASSWORD password of the store
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/db/driver"
	domcol "github.com/kailas-cloud/fuzzdex/internal/domain/collection"
	logpkg "github.com/kailas-cloud/fuzzdex/internal/logger"
	collectionrepo "github.com/kailas-cloud/fuzzdex/internal/repository/collection"
	loaduc "github.com/kailas-cloud/fuzzdex/internal/usecase/load"
	"github.com/kailas-cloud/fuzzdex/internal/version"
)

type config struct {
	file      string
	key       string
	kind      string
	driver    string
	every     int
	batchSize int
	workers   int
	appendTo  bool
	logLevel  string
	version   bool
}

func main() {
	cfg := parseFlags()
	if cfg.version {
		fmt.Println(version.String())
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	logger, err := logpkg.NewLogger("local", cfg.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logpkg.ContextWithLogger(ctx, logger), cfg); err != nil {
		logger.Error("load failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.file, "file", "-", "word file, one word per line (- for stdin)")
	flag.StringVar(&cfg.key, "key", "", "collection key")
	flag.StringVar(&cfg.kind, "kind", "set", "collection kind: set, list, hash, zset")
	flag.StringVar(&cfg.driver, "driver", env("DB_DRIVER", driver.Redis), "database driver: redis, valkey, goredis")
	flag.IntVar(&cfg.every, "every", 1, "keep every Nth word")
	flag.IntVar(&cfg.batchSize, "batch-size", 500, "words per write")
	flag.IntVar(&cfg.workers, "workers", 4, "concurrent writes (ignored for lists)")
	flag.BoolVar(&cfg.appendTo, "append", false, "append to the existing key instead of replacing it")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "log level")
	flag.BoolVar(&cfg.version, "version", false, "print version and exit")
	flag.Parse()
	return cfg
}

func run(ctx context.Context, cfg config) error {
	start := time.Now()
	logger := logpkg.FromContext(ctx)

	kind, err := domcol.ParseKind(cfg.kind)
	if err != nil {
		return fmt.Errorf("parse kind: %w", err)
	}

	in, err := openInput(cfg.file)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	store, err := driver.Open(cfg.driver, driver.Options{
		Addrs:    []string{env("REDIS_ADDR", "localhost:6379")},
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, 10*time.Second); err != nil {
		return fmt.Errorf("store not ready: %w", err)
	}

	svc := loaduc.New(collectionrepo.New(store))
	stats, err := svc.Load(ctx, cfg.key, in, loaduc.Options{
		Kind:      kind,
		Every:     cfg.every,
		BatchSize: cfg.batchSize,
		Workers:   cfg.workers,
		Append:    cfg.appendTo,
	})
	if err != nil {
		return fmt.Errorf("load %q: %w", cfg.key, err)
	}

	logger.Info("done",
		zap.String("key", cfg.key),
		zap.String("kind", kind.String()),
		zap.Int("written", stats.Written),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("open words: %w", err)
	}
	return f, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
