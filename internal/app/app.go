package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/k0kubun/pp/v3"
	"go.uber.org/zap"

	"github.com/five82/stockpile/internal/config"
	"github.com/five82/stockpile/internal/dispatch"
	"github.com/five82/stockpile/internal/export"
	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/logging"
	"github.com/five82/stockpile/internal/prefs"
	"github.com/five82/stockpile/internal/session"
	"github.com/five82/stockpile/internal/state"
	"github.com/five82/stockpile/internal/ui"
)

// Options configure the Stockpile application.
type Options struct {
	ConfigPath string
	EnvFile    string // empty loads ./.env when present
	PrefsPath  string // empty uses default ~/.config/stockpile/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
	APIURL     string // overrides the configured Remote Store URL
}

// runtime is everything Run and Dump share.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	client *inventory.Client
	syncer *state.Syncer
}

func setup(opts Options) (runtime, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return runtime{}, fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	logger, err := logging.New(logging.Options{Path: cfg.LogPath, Debug: cfg.Debug})
	if err != nil {
		return runtime{}, fmt.Errorf("init logging: %w", err)
	}

	client, err := inventory.NewClient(inventory.ClientOptions{
		BaseURL: cfg.APIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logging.Named(logger, "remote"),
	})
	if err != nil {
		_ = logger.Sync()
		return runtime{}, fmt.Errorf("init inventory client: %w", err)
	}

	return runtime{
		cfg:    cfg,
		logger: logger,
		client: client,
		syncer: state.NewSyncer(&state.Store{}, client, logging.Named(logger, "sync")),
	}, nil
}

// Run boots the Stockpile TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		rt.logger.Warn("prefs unreadable, using defaults", zap.String("path", prefsPath), zap.Error(err))
	}

	rt.logger.Info("starting stockpile",
		zap.String("api_url", rt.cfg.APIURL),
		zap.Duration("poll_interval", rt.cfg.PollInterval),
	)

	exporter := export.Exporter{Dir: rt.cfg.ExportDir}
	if rt.cfg.ExportSchedule != "" {
		sched, err := export.NewScheduler(rt.cfg.ExportSchedule, exporter, rt.syncer, rt.logger)
		if err != nil {
			return fmt.Errorf("export schedule: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	StartPoller(ctx, rt.syncer, rt.cfg.PollInterval)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Cache:     rt.syncer,
		Mutator:   dispatch.New(rt.client, rt.syncer, rt.logger),
		Auth:      rt.client,
		Session:   session.FromPrefs(userPrefs),
		Exporter:  exporter,
		LogPath:   rt.cfg.LogPath,
		ThemeName: userPrefs.Theme,
		PrefsPath: prefsPath,
		Logger:    rt.logger,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	rt.logger.Info("stockpile stopped")
	return nil
}

// Dump refreshes the cache once and pretty-prints the snapshot to w.
func Dump(ctx context.Context, opts Options, w io.Writer) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	ctx, cancel := context.WithTimeout(ctx, rt.cfg.RequestTimeout*2)
	defer cancel()
	rt.syncer.Refresh(ctx)

	snap := rt.syncer.Snapshot()
	if snap.LastError != nil && !snap.Loaded {
		return fmt.Errorf("fetch %s: %w", rt.cfg.APIURL, snap.LastError)
	}

	printer := pp.New()
	printer.SetOutput(w)
	printer.SetColoringEnabled(false)
	_, err = printer.Println(struct {
		APIURL       string
		Items        []inventory.Item
		Transactions []inventory.Transaction
		Updated      time.Time
	}{rt.cfg.APIURL, snap.Items, snap.Transactions, snap.LastUpdated})
	return err
}
