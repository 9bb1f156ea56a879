package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alexanderramin/studyplan/internal/cli"
	"github.com/alexanderramin/studyplan/internal/config"
	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/kv"
	"github.com/alexanderramin/studyplan/internal/logger"
	"github.com/alexanderramin/studyplan/internal/persistence"
	"github.com/alexanderramin/studyplan/internal/plan"
	"github.com/alexanderramin/studyplan/internal/remote"
	"github.com/alexanderramin/studyplan/internal/remote/pgstore"
	"github.com/alexanderramin/studyplan/internal/remote/restclient"
	"github.com/alexanderramin/studyplan/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	verbose    bool
}

// parseGlobalFlags picks --config and --verbose out of the command line
// before cobra runs, since both are needed to build the App.
func parseGlobalFlags(args []string) globalFlags {
	var g globalFlags
	fs := pflag.NewFlagSet("studyplan", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	fs.StringVar(&g.configPath, "config", "", "")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "")
	_ = fs.Parse(args)
	return g
}

func run() error {
	flags := parseGlobalFlags(os.Args[1:])

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Env, flags.verbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := plan.Default()
	if cfg.Plan.Path != "" {
		if p, err = plan.LoadFile(cfg.Plan.Path); err != nil {
			return err
		}
	}

	storage, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	local := persistence.NewLocalStore(storage, persistence.LocalOptions{
		Key:    cfg.Storage.Key,
		UserID: cfg.UserID,
		Logger: log.Named("local"),
	})

	mode, err := persistence.ParseMode(cfg.Storage.Mode)
	if err != nil {
		return err
	}
	var svc remote.Service
	if mode == persistence.ModeRemote {
		var closeRemote func()
		svc, closeRemote, err = openRemote(ctx, cfg, log)
		if err != nil {
			log.Warn("remote service unavailable, using local storage", zap.Error(err))
			mode = persistence.ModeLocal
		} else {
			defer closeRemote()
		}
	}

	outbox := persistence.DefaultOutboxOptions()
	outbox.QueueSize = cfg.Remote.QueueSize
	outbox.Timeout = cfg.Remote.Timeout
	outbox.MaxRetries = cfg.Remote.MaxRetries

	adapter, err := persistence.New(persistence.Options{
		Mode:   mode,
		Local:  local,
		Remote: svc,
		Outbox: outbox,
		Logger: log.Named("persistence"),
	})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := adapter.Close(closeCtx); err != nil {
			log.Warn("pending remote writes were not flushed", zap.Error(err))
		}
	}()

	store := service.NewProgressStore(service.StoreOptions{
		Plan:      p,
		Initial:   adapter.Load(ctx),
		Persister: adapter,
	}, service.NewLogUseCaseObserver(log.Named("service")))

	app := &cli.App{
		Store: store,
		Sync:  adapter,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// openStorage opens the configured local key-value backend.
func openStorage(ctx context.Context, cfg *config.Config) (kv.Storage, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		fs, err := kv.NewFileStorage(cfg.DataPath())
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	case config.BackendRedis:
		rs, err := kv.DialRedis(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	default:
		conn, err := db.OpenDB(cfg.DataPath())
		if err != nil {
			return nil, nil, err
		}
		return kv.NewSQLiteStorage(conn, db.NewSQLiteUnitOfWork(conn)), func() { _ = conn.Close() }, nil
	}
}

// restConfig builds the PostgREST client settings. The outbox owns write
// retries, so the client makes a single attempt per call.
func restConfig(cfg *config.Config) restclient.Config {
	rc := restclient.DefaultConfig()
	rc.BaseURL = cfg.Remote.URL
	rc.APIKey = cfg.Remote.APIKey
	rc.UserID = cfg.UserID
	rc.Timeout = cfg.Remote.Timeout
	rc.MaxRetries = 0
	return rc
}

// openRemote connects to the configured remote record service.
func openRemote(ctx context.Context, cfg *config.Config, log *zap.Logger) (remote.Service, func(), error) {
	switch cfg.Remote.Driver {
	case config.DriverREST:
		return restclient.New(restConfig(cfg), restclient.NewLogObserver(log.Named("rest"))), func() {}, nil
	case config.DriverPostgres:
		connCtx, cancel := context.WithTimeout(ctx, cfg.Remote.ConnTimeout)
		defer cancel()
		pool, err := pgstore.NewPool(connCtx, cfg.Remote.DatabaseURL, pgstore.PoolConfig{MaxConns: cfg.Remote.MaxConns})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		store := pgstore.New(pool, cfg.UserID)
		if err := store.EnsureSchema(connCtx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("preparing remote schema: %w", err)
		}
		return store, pool.Close, nil
	default:
		return nil, nil, errors.New("unknown remote driver " + cfg.Remote.Driver)
	}
}
