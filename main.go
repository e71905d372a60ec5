package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"maintenance-dispatch/cache"
	"maintenance-dispatch/config"
	"maintenance-dispatch/dispatch"
	"maintenance-dispatch/geohash"
	"maintenance-dispatch/loader"
	"maintenance-dispatch/logger"
	"maintenance-dispatch/models"
)

var flagBindings = map[string]string{
	"radius":    "geo.radius_km",
	"limit":     "geo.limit",
	"index":     "geo.index",
	"log-level": "log_level",
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run assigns the nearest available provider and returns the exit status.
// Failures after argument parsing are reported on stdout and still exit 0.
func run(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stdout, "Unexpected error: %v\n", r)
			code = 0
		}
	}()

	fs := pflag.NewFlagSet("assign", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	urgent := fs.Bool("urgence", false, "mark the request as urgent (accepted, does not affect selection)")
	list := fs.Bool("list", false, "print every candidate within the radius, nearest first")
	fs.Float64("radius", 0, "search radius in km (0 = unlimited)")
	fs.Int("limit", 50, "maximum number of candidates printed with --list (0 = unlimited)")
	fs.String("index", string(geohash.DefaultTechnique), "spatial index: rtree, quadtree, geohash or scan")
	fs.String("config", "", "path to a YAML config file")
	fs.String("log-level", "warn", "log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Assign a maintenance job to the nearest available provider.")
		fmt.Fprintln(stderr, "\nUsage: assign [flags] <trade> <latitude> <longitude> <providers.csv|.json|.xlsx>")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	flagArgs, positional := splitArgs(fs, args)
	if err := fs.Parse(flagArgs); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	positional = append(positional, fs.Args()...)
	if len(positional) != 4 {
		fmt.Fprintf(stderr, "expected 4 arguments, got %d\n", len(positional))
		fs.Usage()
		return 2
	}

	lat, err := strconv.ParseFloat(positional[1], 64)
	if err != nil {
		fmt.Fprintf(stderr, "invalid latitude %q\n", positional[1])
		return 2
	}
	lon, err := strconv.ParseFloat(positional[2], 64)
	if err != nil {
		fmt.Fprintf(stderr, "invalid longitude %q\n", positional[2])
		return 2
	}

	cfg, err := config.Load(fs, flagBindings)
	if err != nil {
		fmt.Fprintf(stdout, "Configuration error: %v\n", err)
		return 0
	}
	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stdout, "Configuration error: %v\n", err)
		return 0
	}
	defer log.Sync()

	ctx := context.Background()
	var store cache.Store
	if cfg.Redis.Enabled {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Redis.Timeout)
		rs, err := cache.NewRedisStore(pingCtx, cfg.Redis)
		cancel()
		if err != nil {
			log.Warn("match cache disabled", zap.Error(err))
		} else {
			defer rs.Close()
			store = rs
		}
	}

	svc := dispatch.NewService(store, cfg.Redis.TTL, cfg.Redis.Timeout, log)
	result, err := svc.Assign(ctx, dispatch.Options{
		Source: positional[3],
		Request: models.Request{
			Trade:     positional[0],
			Latitude:  lat,
			Longitude: lon,
			Urgent:    *urgent,
		},
		RadiusKm:         cfg.Geo.RadiusKm,
		Limit:            cfg.Geo.Limit,
		List:             *list,
		Technique:        geohash.GeoIndexingTechnique(cfg.Geo.Index),
		GeohashPrecision: cfg.Geo.GeohashPrecision,
	})
	if err != nil {
		fmt.Fprintln(stdout, describe(err))
		return 0
	}

	if err := dispatch.WriteResult(stdout, result, *list); err != nil {
		log.Error("failed to write result", zap.Error(err))
	}
	return 0
}

func describe(err error) string {
	switch {
	case errors.Is(err, loader.ErrNotFound):
		return fmt.Sprintf("Error: %v", err)
	case errors.Is(err, loader.ErrUnsupportedFormat), errors.Is(err, loader.ErrMissingColumns):
		return fmt.Sprintf("Data error: %v", err)
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}
