// Command tagwatchd runs the tagwatch subscription daemon.
//
// The daemon keeps one event processor per active subscription, starts the
// sensors those subscriptions need, and emits a notification whenever a
// geofence transition is committed.
//
// Usage:
//
//	tagwatchd [flags]
//
// Flags:
//
//	--config string      Configuration file path
//	--log-level string   Log level: debug, info, warn, error
//	--store string       Store driver: memory, file, sqlite
//	--db string          Store file or database path
//	--journal string     Notification journal path (CBOR)
//	--debounce duration  Minimum time between geofence transitions
//	--simulate           Walk the configured simulation route
//	--interactive        Run the interactive console
//
// Examples:
//
//	# Run with the seed data from a config file
//	tagwatchd --config /etc/tagwatch/tagwatchd.yaml
//
//	# Keep subscriptions in SQLite and inject fixes by hand
//	tagwatchd --store sqlite --db tagwatch.db --interactive
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/tagwatch/tagwatch-go/cmd/tagwatchd/interactive"
	"github.com/tagwatch/tagwatch-go/pkg/config"
	"github.com/tagwatch/tagwatch-go/pkg/notify"
	"github.com/tagwatch/tagwatch-go/pkg/orchestrator"
	"github.com/tagwatch/tagwatch-go/pkg/processor"
	"github.com/tagwatch/tagwatch-go/pkg/sensor"
	"github.com/tagwatch/tagwatch-go/pkg/store"
	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

// recentNotifications is how many notifications the console can show.
const recentNotifications = 100

type options struct {
	configFile  string
	logLevel    string
	storeDriver string
	storePath   string
	journalPath string
	debounce    time.Duration
	simulate    bool
	interactive bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "tagwatchd: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options
	fs := pflag.NewFlagSet("tagwatchd", pflag.ContinueOnError)
	fs.StringVar(&opts.configFile, "config", "", "Configuration file path")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.storeDriver, "store", "", "Store driver: memory, file, sqlite")
	fs.StringVar(&opts.storePath, "db", "", "Store file or database path")
	fs.StringVar(&opts.journalPath, "journal", "", "Notification journal path (CBOR)")
	fs.DurationVar(&opts.debounce, "debounce", 0, "Minimum time between geofence transitions")
	fs.BoolVar(&opts.simulate, "simulate", false, "Walk the configured simulation route")
	fs.BoolVar(&opts.interactive, "interactive", false, "Run the interactive console")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(fs, opts)
	if err != nil {
		return err
	}

	var console *interactive.Console
	var logOut io.Writer = os.Stderr
	if opts.interactive {
		console, err = interactive.New()
		if err != nil {
			return err
		}
		logOut = console.Stdout()
	}

	logger, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(cfg.StoreDriver(), cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	if err := seed(ctx, st, cfg.Seed); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	recorder := notify.NewRecorder(recentNotifications)
	notifiers := []notify.Notifier{notify.NewSlog(logger), recorder}
	if cfg.Journal.Path != "" {
		journal, err := notify.NewFileJournal(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer journal.Close()
		notifiers = append(notifiers, journal)
	}

	waypoints := cfg.Simulation.Waypoints
	if !cfg.Simulation.Enabled {
		waypoints = nil
	}
	provider := newSimulatedProvider(waypoints, cfg.Simulation.Interval, cfg.Simulation.SpeedMPS)
	location := sensor.NewLocationSensor(provider, cfg.Stream.Buffer, logger)
	supervisor := sensor.NewSupervisor(sensor.NewRegistry(location), logger)

	orch := orchestrator.New(orchestrator.Config{
		Source:     st,
		Supervisor: supervisor,
		Env: processor.Env{
			Locations: location.Fixes(),
			Notifier:  notify.NewMulti(notifiers...),
			Logger:    logger,
			Debounce:  cfg.Debounce,
		},
		Logger: logger,
	})
	if err := orch.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer orch.Shutdown()

	logger.Info("tagwatchd started",
		"store", cfg.StoreDriver(),
		"debounce", cfg.Debounce,
		"simulate", len(waypoints) > 0,
	)

	if console != nil {
		console.Run(ctx, cancel, interactive.Deps{
			Orchestrator: orch,
			Store:        st,
			Recorder:     recorder,
			Inject:       provider.Inject,
			JournalPath:  cfg.Journal.Path,
		})
	} else {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal", "signal", sig)
	}

	logger.Info("shutting down")
	return nil
}

// loadConfig reads the config file and applies flags that were set.
func loadConfig(fs *pflag.FlagSet, opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return cfg, err
	}

	if fs.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if fs.Changed("store") {
		cfg.Store.Driver = opts.storeDriver
	}
	if fs.Changed("db") {
		cfg.Store.Path = opts.storePath
	}
	if fs.Changed("journal") {
		cfg.Journal.Path = opts.journalPath
	}
	if fs.Changed("debounce") {
		cfg.Debounce = opts.debounce
	}
	if fs.Changed("simulate") {
		cfg.Simulation.Enabled = opts.simulate
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

// seed inserts the configured places and subscriptions into an empty store.
func seed(ctx context.Context, st store.Store, cfg config.SeedConfig) error {
	existing, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, p := range cfg.Places {
		if _, err := st.PutPlace(ctx, p); err != nil {
			return err
		}
	}

	subs := make([]subscription.Subscription, 0, len(cfg.Subscriptions))
	for _, s := range cfg.Subscriptions {
		sub, err := s.Subscription()
		if err != nil {
			return err
		}
		subs = append(subs, sub)
	}
	if len(subs) == 0 {
		return nil
	}
	_, err = st.InsertMany(ctx, subs)
	return err
}
