package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scholarsync/core/internal/adapters/description"
	"github.com/scholarsync/core/internal/adapters/repository"
	"github.com/scholarsync/core/internal/infrastructure/config"
	"github.com/scholarsync/core/internal/infrastructure/database"
	"github.com/scholarsync/core/internal/infrastructure/logger"
	"github.com/scholarsync/core/internal/infrastructure/metrics"
	"github.com/scholarsync/core/internal/infrastructure/server"
	"github.com/scholarsync/core/internal/ports"
)

// Version is overridden at build time with -ldflags.
var Version = "1.0.0"

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the ScholarSync API server",
		Long:  "Load the data file and serve the professor API until interrupted. The data file must exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

// NewDataCommand creates the data file management command
func NewDataCommand() *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Data file commands",
		Long:  "Create and validate the JSON data file",
	}

	dataCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create an empty data file if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := database.New(cfg.Storage)
			if err != nil {
				return err
			}
			created, err := db.Init()
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created empty data file %s\n", db.Path())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Data file %s already exists\n", db.Path())
			}
			return nil
		},
	})

	dataCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := database.New(cfg.Storage)
			if err != nil {
				return err
			}
			professors, err := db.Load()
			if err != nil {
				return err
			}
			papers := 0
			for _, p := range professors {
				papers += len(p.Papers)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Data file %s is valid\n", db.Path())
			fmt.Fprintf(cmd.OutOrStdout(), "  Professors: %d\n", len(professors))
			fmt.Fprintf(cmd.OutOrStdout(), "  Papers: %d\n", papers)
			return nil
		},
	})

	return dataCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print ScholarSync version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ScholarSync v%s\n", Version)
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func runServer(cfg *config.Config) error {
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Storage)
	if err != nil {
		return err
	}

	// A missing or malformed data file is fatal.
	professors, err := db.Load()
	if err != nil {
		appLogger.Errorw("Failed to load data file", "path", db.Path(), "error", err)
		return fmt.Errorf("failed to load data file %s: %w", db.Path(), err)
	}
	appLogger.Infow("Loaded data file", "path", db.Path(), "professors", len(professors))

	var generator ports.DescriptionGenerator
	openAI, err := description.NewOpenAIGenerator(cfg.Generator, appLogger)
	if errors.Is(err, description.ErrUnconfigured) {
		appLogger.Warn("OPENAI_API_KEY not set, description generation is disabled")
		generator = description.Unavailable{}
	} else if err != nil {
		return err
	} else {
		generator = openAI
	}

	var (
		m        *metrics.Metrics
		observer ports.StoreObserver = ports.NopObserver{}
	)
	if cfg.Metrics.Enabled {
		m = metrics.New()
		observer = m
	}

	store := repository.NewProfessorStore(professors, db, generator, observer, appLogger)

	srv, err := server.New(cfg, db, store, m, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Infow("Starting ScholarSync API server",
			"port", cfg.Server.Port,
			"environment", cfg.App.Environment,
		)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		appLogger.Info("Shutting down server...")
	case err := <-serveErr:
		if err != nil {
			appLogger.Errorw("Server failed", "error", err)
			runErr = err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Server forced to shutdown", "error", err)
	}

	// Best-effort final write; abrupt termination skips it.
	if err := store.Flush(); err != nil {
		appLogger.Errorw("Final flush failed", "error", err)
	} else {
		appLogger.Info("Final flush completed")
	}

	appLogger.Info("Server exited")
	return runErr
}
