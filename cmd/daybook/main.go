package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alexanderramin/daybook/internal/cli"
	"github.com/alexanderramin/daybook/internal/config"
	"github.com/alexanderramin/daybook/internal/db"
	"github.com/alexanderramin/daybook/internal/domain"
	"github.com/alexanderramin/daybook/internal/repository"
	"github.com/alexanderramin/daybook/internal/service"
	"github.com/alexanderramin/daybook/internal/vacation"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	paths, err := config.ResolvePaths(os.Getenv(config.EnvName))
	if err != nil {
		return err
	}
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return err
	}

	var echo io.Writer
	if cfg.Log.Echo {
		echo = os.Stderr
	}
	logger, logFile := config.NewLogger(cfg.Log, paths.LogFile, echo)
	defer logFile.Close()

	store, err := openStorage(cfg.Backend(), cfg.StoragePath(paths.DataDir))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error("closing storage", "error", err)
		}
	}()
	logger.Debug("storage opened", "backend", cfg.Backend(), "path", cfg.StoragePath(paths.DataDir))

	settings := settingsFromConfig(cfg)
	observer := service.NewLogUseCaseObserver(logger)
	calendar := vacation.New(store.repos.Vacations, logger)
	calendar.Subscribe(func(days []string) {
		logger.Debug("vacation days changed", "count", len(days))
	})

	app := &cli.App{
		Logger:     service.NewLoggerService(store.repos, store.tx, settings, logger, observer),
		Activities: service.NewActivityService(store.repos, calendar, settings, logger, observer),
		Habits:     service.NewHabitService(store.repos.Habits, calendar, settings, logger, observer),
		Importer:   service.NewImportService(store.tx, settings, logger, observer),
		Vacations:  calendar,
		Settings:   settings,
		ConfigFile: paths.ConfigFile,
		DataDir:    paths.DataDir,
		LogFile:    paths.LogFile,
	}

	// Detect interactive terminal for the activity picker.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

type storage struct {
	repos repository.Repos
	tx    repository.Transactor
	close func() error
}

func openStorage(backend domain.StorageBackend, path string) (*storage, error) {
	switch backend {
	case domain.BackendBolt:
		s, err := repository.OpenBoltStore(path)
		if err != nil {
			return nil, fmt.Errorf("opening bolt store: %w", err)
		}
		return &storage{repos: s.Repos(), tx: s, close: s.Close}, nil

	case domain.BackendDiskv:
		s := repository.OpenDiskvStore(path)
		return &storage{repos: s.Repos(), tx: s, close: func() error { return nil }}, nil

	default:
		database, err := db.OpenDB(path)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		tx := repository.NewSQLiteTransactor(db.NewSQLiteUnitOfWork(database))
		repos := repository.NewSQLiteRepos(database)
		repos.Vacations = repository.TxVacations(repos.Vacations, tx)
		return &storage{repos: repos, tx: tx, close: database.Close}, nil
	}
}

func settingsFromConfig(cfg *config.Config) service.Settings {
	return service.Settings{
		StartDate:  cfg.Tracking.StartDate,
		Habits:     cfg.Habits.Names,
		WasteLimit: cfg.Habits.WasteLimit,
		TopN:       cfg.Tracking.TopN,
		TrendDays:  cfg.Tracking.TrendDays,
		Overnight:  cfg.Logger.Overnight,
	}
}
