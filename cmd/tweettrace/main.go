package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"

	"github.com/tweettrace/tweettrace/trace"
	"github.com/tweettrace/tweettrace/trace/cachestore"
	"github.com/tweettrace/tweettrace/trace/engine"
	"github.com/tweettrace/tweettrace/trace/match"
	"github.com/tweettrace/tweettrace/trace/sources"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "tweettrace",
		Usage:   "duplicate-post campaign analysis daemon (follows the parrots home)",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "source-host",
			Usage:   "method, hostname, and port of the platform search/index API; empty runs against fake sources",
			EnvVars: []string{"TWEETTRACE_SOURCE_HOST"},
		},
		&cli.IntFlag{
			Name:    "source-rate-limit",
			Usage:   "max requests per second to the platform API",
			Value:   20,
			EnvVars: []string{"TWEETTRACE_SOURCE_RATE_LIMIT"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL for the profile cache; empty uses in-process memory",
			EnvVars: []string{"TWEETTRACE_REDIS_URL"},
		},
		&cli.Float64Flag{
			Name:    "match-threshold",
			Usage:   "similarity at which a candidate qualifies as a duplicate (0,1]",
			Value:   match.DefaultThreshold,
			EnvVars: []string{"TWEETTRACE_MATCH_THRESHOLD"},
		},
		&cli.Int64Flag{
			Name:    "fetch-concurrency",
			Usage:   "max in-flight profile fetches",
			Value:   8,
			EnvVars: []string{"TWEETTRACE_FETCH_CONCURRENCY"},
		},
		&cli.Int64Flag{
			Name:    "fake-seed",
			Usage:   "RNG seed for the fake sources",
			Value:   0,
			EnvVars: []string{"TWEETTRACE_FAKE_SEED"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
		analyzeCmd,
	}

	return app.Run(args)
}

func configureEngine(cctx *cli.Context, logger *slog.Logger) (*engine.Engine, error) {
	var posts trace.PostSource
	var profiles trace.ProfileSource
	if host := cctx.String("source-host"); host != "" {
		src := sources.NewHTTPSource(host, cctx.Int("source-rate-limit"))
		posts = src
		profiles = src
	} else {
		logger.Info("no source host configured, using fake sources")
		fake := sources.NewFakeSource(cctx.Int64("fake-seed"), 60)
		posts = fake
		profiles = fake
	}

	var cache cachestore.CacheStore
	if redisURL := cctx.String("redis-url"); redisURL != "" {
		rc, err := cachestore.NewRedisCacheStore(redisURL, 30*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("initializing redis cachestore: %w", err)
		}
		cache = rc
	} else {
		cache = cachestore.NewMemCacheStore(5_000, 30*time.Minute)
	}

	return &engine.Engine{
		Logger:           logger,
		Posts:            posts,
		Profiles:         profiles,
		Cache:            cache,
		Matcher:          match.NewMatcher(cctx.Float64("match-threshold"), logger),
		FetchConcurrency: cctx.Int64("fetch-concurrency"),
	}, nil
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the analysis service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for the analysis API",
			Value:   ":8200",
			EnvVars: []string{"TWEETTRACE_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics",
			Value:   ":8201",
			EnvVars: []string{"TWEETTRACE_METRICS_LISTEN"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		eng, err := configureEngine(cctx, logger)
		if err != nil {
			return err
		}
		srv := NewServer(eng, logger)

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		return srv.RunAPI(cctx.String("bind"))
	},
}

var analyzeCmd = &cli.Command{
	Name:      "analyze",
	Usage:     "run one analysis and print the report as JSON",
	ArgsUsage: "<post-url-or-text>",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:  "timeout",
			Value: 2 * time.Minute,
		},
	},
	Action: func(cctx *cli.Context) error {
		ref := cctx.Args().First()
		if ref == "" {
			return fmt.Errorf("expected a post URL or post text as argument")
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
		slog.SetDefault(logger)

		eng, err := configureEngine(cctx, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), cctx.Duration("timeout"))
		defer cancel()

		report, err := eng.Analyze(ctx, ref)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}
