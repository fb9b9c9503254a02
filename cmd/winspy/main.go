// Winspy - Windows Event Transcript Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/winspy

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/tomtom215/winspy/internal/config"
	"github.com/tomtom215/winspy/internal/database"
	"github.com/tomtom215/winspy/internal/detection"
	"github.com/tomtom215/winspy/internal/eventprocessor"
	"github.com/tomtom215/winspy/internal/logging"
	"github.com/tomtom215/winspy/internal/metrics"
	"github.com/tomtom215/winspy/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		os.Exit(1)
	}
}

// flags holds the parsed command line.
type flags struct {
	set *pflag.FlagSet

	input       string
	output      string
	configPath  string
	logLevel    string
	logFormat   string
	logDir      string
	disable     []string
	publishURL  string
	metricsFile string
	noConsole   bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	f := &flags{set: pflag.NewFlagSet("winspy", pflag.ContinueOnError)}
	f.set.SetOutput(stderr)
	f.set.Usage = func() {
		fmt.Fprintf(stderr, "Usage: winspy -i <EventTranscript.db> [flags]\n\n")
		f.set.PrintDefaults()
	}

	f.set.StringVarP(&f.input, "input", "i", "", "path to EventTranscript.db")
	f.set.StringVarP(&f.output, "output", "o", "", "write all events to this file as one JSON array")
	f.set.StringVar(&f.configPath, "config", "", "config file (default: $WINSPY_CONFIG or ./winspy.yaml)")
	f.set.StringVar(&f.logLevel, "log-level", "", "trace, debug, info, warn or error")
	f.set.StringVar(&f.logFormat, "log-format", "", "json or console")
	f.set.StringVar(&f.logDir, "log-dir", "", "also append JSON logs to a dated file in this directory")
	f.set.StringSliceVar(&f.disable, "disable", nil, "comma-separated detectors to skip (application, battery, store, update_session, usb)")
	f.set.StringVar(&f.publishURL, "publish-url", "", "publish events to this NATS server, e.g. nats://127.0.0.1:4222")
	f.set.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file at exit")
	f.set.BoolVar(&f.noConsole, "no-console", false, "do not print events to stdout")

	if err := f.set.Parse(args); err != nil {
		return nil, err
	}
	if extra := f.set.Args(); len(extra) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", extra[0])
	}
	return f, nil
}

// overrides maps the flags that were set to koanf paths.
func (f *flags) overrides() map[string]interface{} {
	o := map[string]interface{}{}
	set := func(name, path string, v interface{}) {
		if f.set.Changed(name) {
			o[path] = v
		}
	}
	set("input", "store.path", f.input)
	set("output", "output.path", f.output)
	set("log-level", "logging.level", f.logLevel)
	set("log-format", "logging.format", f.logFormat)
	set("log-dir", "logging.dir", f.logDir)
	set("disable", "detection.disabled", f.disable)
	set("publish-url", "publish.url", f.publishURL)
	set("metrics-file", "metrics.textfile_path", f.metricsFile)
	if f.noConsole {
		o["output.console"] = false
	}
	return o
}

// run executes one analysis. Events go to stdout, logs to stderr and the
// optional log file. A failure is logged before the log file is closed.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	defer func() {
		if err != nil && !errors.Is(err, pflag.ErrHelp) {
			logging.Error().Err(err).Msg("winspy failed")
		}
		if cerr := logging.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close log file: %w", cerr))
		}
	}()

	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigPath: f.configPath,
		Overrides:  f.overrides(),
	})
	if err != nil {
		return err
	}

	if err := logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    stderr,
		Dir:       cfg.Logging.Dir,
	}); err != nil {
		return err
	}

	ctx = logging.ContextWithNewRunID(ctx)
	logger := logging.Ctx(ctx)
	logger.Info().Str("store", cfg.Store.Path).Msg("Starting winspy")

	engine := detection.NewDefaultEngine()
	if err := engine.Disable(cfg.Detection.Disabled...); err != nil {
		return err
	}

	proc, err := load(ctx, cfg.Store.Path)
	if err != nil {
		return err
	}

	events := proc.Process(engine)
	logger.Info().
		Int("records", len(proc.Records())).
		Int("events", len(events)).
		Msg("Detection complete")

	if err := emit(ctx, cfg, events, stdout); err != nil {
		return err
	}

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.Debug().Str("path", path).Msg("Wrote metrics textfile")
	}

	return nil
}

// load reads the store and closes it before detection starts.
func load(ctx context.Context, path string) (*eventprocessor.Processor, error) {
	reader, err := database.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Error closing store")
		}
	}()

	proc, err := eventprocessor.Load(ctx, reader)
	if err != nil {
		return nil, err
	}

	reportSkipped(ctx, reader.Errors())
	return proc, nil
}

// reportSkipped logs each skipped row at debug level and a per-table summary
// at warn level.
func reportSkipped(ctx context.Context, skipped []database.RecordError) {
	if len(skipped) == 0 {
		return
	}
	logger := logging.Ctx(ctx)

	perTable := map[string]int{}
	for i := range skipped {
		rec := &skipped[i]
		perTable[rec.Table]++
		logger.Debug().Err(rec).Interface("row", rec.Row).Msg("Skipped row")
	}

	ev := logger.Warn().Int("skipped", len(skipped))
	for table, n := range perTable {
		ev = ev.Int(table, n)
	}
	ev.Msg("Some rows could not be decoded")
}

// emit writes events to every configured sink.
func emit(ctx context.Context, cfg *config.Config, events []detection.ProcessedEvent, stdout io.Writer) error {
	if cfg.Output.Console {
		if err := output.NewConsoleWriter(stdout).Write(events); err != nil {
			return fmt.Errorf("write console output: %w", err)
		}
	}

	if cfg.Output.Path != "" {
		if err := output.WriteJSONFile(cfg.Output.Path, events, cfg.Output.Indent); err != nil {
			return err
		}
		logging.Ctx(ctx).Info().Str("path", cfg.Output.Path).Int("events", len(events)).Msg("Wrote events")
	}

	if cfg.Publish.Enabled() {
		return publish(ctx, cfg.Publish, events)
	}
	return nil
}

func publish(ctx context.Context, cfg config.PublishConfig, events []detection.ProcessedEvent) error {
	wmLogger := logging.NewWatermillAdapter()

	wmPub, err := eventprocessor.NewNATSPublisher(eventprocessor.DefaultNATSConfig(cfg.URL), wmLogger)
	if err != nil {
		return err
	}
	pub, err := eventprocessor.NewPublisher(wmPub, cfg.Topic, wmLogger)
	if err != nil {
		_ = wmPub.Close()
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Error closing publisher")
		}
	}()

	breaker := eventprocessor.DefaultCircuitBreakerConfig("nats-publisher")
	breaker.FailureThreshold = cfg.BreakerMaxFailures
	if cfg.BreakerTimeout > 0 {
		breaker.Timeout = cfg.BreakerTimeout
	}
	pub.SetCircuitBreaker(eventprocessor.NewCircuitBreaker(breaker))

	n, err := pub.PublishAll(ctx, events)
	if err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("topic", pub.Topic()).Int("events", n).Msg("Published events")
	return nil
}
