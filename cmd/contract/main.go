package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"maintenance-dispatch/config"
	"maintenance-dispatch/contract"
	"maintenance-dispatch/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now()))
}

func run(args []string, stdout, stderr io.Writer, now time.Time) int {
	fs := pflag.NewFlagSet("contract", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	startDate := fs.String("start-date", now.Format(contract.DateLayout), "contract start date (YYYY-MM-DD)")
	duration := fs.Int("duration", 1, "contract duration in months")
	paymentTerms := fs.String("payment-terms", "virement bancaire", "payment terms")
	fs.String("output-dir", "./contrats", "directory the contract is written to")
	fs.String("config", "", "path to a YAML config file")
	fs.String("log-level", "warn", "log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Generate a service contract.")
		fmt.Fprintln(stderr, "\nUsage: contract [flags] <client_name> <client_address> <service_type> <price>")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 4 {
		fmt.Fprintf(stderr, "expected 4 arguments, got %d\n", fs.NArg())
		fs.Usage()
		return 2
	}
	price, err := strconv.ParseFloat(fs.Arg(3), 64)
	if err != nil {
		fmt.Fprintf(stderr, "invalid price %q\n", fs.Arg(3))
		return 2
	}

	cfg, err := config.Load(fs, map[string]string{
		"output-dir": "contract.output_dir",
		"log-level":  "log_level",
	})
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

	c, err := contract.New(fs.Arg(0), fs.Arg(1), fs.Arg(2), price, *startDate, *duration, *paymentTerms, now)
	if err != nil {
		fmt.Fprintf(stdout, "Data or date format error: %v\n", err)
		return 0
	}
	text, err := contract.Render(c)
	if err != nil {
		fmt.Fprintf(stdout, "Unexpected error: %v\n", err)
		return 0
	}
	path, err := contract.Save(cfg.Contract.OutputDir, c.ClientName, text, now)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 0
	}

	log.Info("contract generated", zap.String("reference", c.Reference), zap.String("path", path))
	fmt.Fprintf(stdout, "Contract generated and saved to: %s\n", path)
	return 0
}
