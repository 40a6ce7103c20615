// murefetch fetches a list of URLs in concurrent batches and prints one
// status line per URL, in input order.
//
// URLs are read from a file (one per line, # comments allowed) or from
// stdin. Flags override MUREFETCH_* environment variables; a .env file is
// honored when present.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/severinsimmler/mure/pkg/cache"
	"github.com/severinsimmler/mure/pkg/logging"
	"github.com/severinsimmler/mure/pkg/mure"
	"github.com/severinsimmler/mure/pkg/request"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "murefetch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Environment defaults, optionally from a .env file.
	_ = godotenv.Load()

	var (
		input       = flag.String("input", getEnv("MUREFETCH_INPUT", "-"), "file with one URL per line, - for stdin")
		batchSize   = flag.Int("batch-size", getEnvInt("MUREFETCH_BATCH_SIZE", 5), "URLs requested concurrently per batch")
		cacheKind   = flag.String("cache", getEnv("MUREFETCH_CACHE", "none"), "cache backend: none, memory, disk, redis")
		cachePath   = flag.String("cache-path", getEnv("MUREFETCH_CACHE_PATH", ".mure-cache.sqlite"), "database file for the disk cache")
		redisAddr   = flag.String("redis-addr", getEnv("MUREFETCH_REDIS_ADDR", "localhost:6379"), "address for the redis cache")
		timeout     = flag.Duration("timeout", getEnvDuration("MUREFETCH_TIMEOUT", 10*time.Second), "per-request timeout")
		logErrors   = flag.Bool("log-errors", getEnvBool("MUREFETCH_LOG_ERRORS", false), "log full transport error details")
		logLevel    = flag.String("log-level", getEnv("MUREFETCH_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
		logFile     = flag.String("log-file", getEnv("MUREFETCH_LOG_FILE", ""), "rotating log file (stderr if empty)")
		metricsAddr = flag.String("metrics-addr", getEnv("MUREFETCH_METRICS_ADDR", ""), "serve Prometheus metrics on this address")
	)
	flag.Parse()

	logger, err := setupLogger(*logLevel, *logFile)
	if err != nil {
		return err
	}

	urls, err := readURLs(*input)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs to fetch")
	}

	backend, err := buildCache(*cacheKind, *cachePath, *redisAddr)
	if err != nil {
		return err
	}
	if backend != nil {
		defer backend.Close()
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
		logger.Info().Str("addr", *metricsAddr).Msg("Serving metrics")
	}

	resources := make([]*request.Request, len(urls))
	for i, url := range urls {
		resources[i] = &request.Request{URL: url}
	}

	it, err := mure.Get(resources, mure.Options{
		BatchSize: *batchSize,
		Cache:     backend,
		Timeout:   *timeout,
		LogErrors: *logErrors,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Int("urls", len(urls)).
		Int("batch_size", *batchSize).
		Str("cache", *cacheKind).
		Msg("Starting fetch")

	start := time.Now()
	failures := 0

	ctx := context.Background()
	for it.HasNext() {
		resp, err := it.Next(ctx)
		if err != nil {
			return err
		}

		if resp.Status == 0 {
			failures++
			fmt.Printf("ERR %s (%s)\n", resp.URL, resp.Reason)
			continue
		}

		fmt.Printf("%d %s (%d bytes)\n", resp.Status, resp.URL, len(resp.Body))
	}

	logger.Info().
		Int("urls", len(urls)).
		Int("failures", failures).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return nil
}

// readURLs reads one URL per line; blank lines and # comments are skipped.
func readURLs(input string) ([]string, error) {
	var reader io.Reader
	if input == "-" {
		reader = os.Stdin
	} else {
		file, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		reader = file
	}

	return parseURLs(reader)
}

func parseURLs(reader io.Reader) ([]string, error) {
	var urls []string

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return urls, nil
}

// buildCache selects the cache backend. nil means caching disabled.
func buildCache(kind, path, redisAddr string) (cache.Backend, error) {
	switch kind {
	case "", "none":
		return nil, nil
	case "memory":
		return cache.NewMemory(), nil
	case "disk":
		return cache.NewDisk(path)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", redisAddr, err)
		}
		return cache.NewRedis(client, 0), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want none, memory, disk or redis)", kind)
	}
}

func setupLogger(level, filename string) (zerolog.Logger, error) {
	cfg := logging.Config{
		Level:  logging.LogLevel(level),
		Pretty: filename == "",
		Output: os.Stderr,
	}

	if filename != "" {
		cfg.Pretty = false
		cfg.Output = &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    25,
			MaxBackups: 5,
			MaxAge:     14,
			Compress:   true,
		}
	}

	return logging.Setup(cfg), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
