package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/presupuestos/budget-service/config"
	"github.com/presupuestos/budget-service/internal/database"
	"github.com/presupuestos/budget-service/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
	store   storage.Store
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "budget-service",
	Short: "Budget Service CLI - quote export import and follow-up tool",
	Long: `A CLI tool for working with quote (presupuesto) exports: parse and classify
a CSV export locally, import it into the configured store, prepare the database
schema and manage users.`,
	PersistentPreRunE:  persistentPreRun,
	PersistentPostRunE: persistentPostRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// parse works without config
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// storeCommands open the configured store before running
var storeCommands = map[string]bool{
	"import":  true,
	"migrate": true,
	"create":  true,
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	if storeCommands[cmd.Name()] {
		if cfg == nil {
			return fmt.Errorf("config required for %s command but not loaded", cmd.Name())
		}
		s, err := openStore(cmd.Context())
		if err != nil {
			return fmt.Errorf("storage initialization failed: %w", err)
		}
		store = s
	}

	return nil
}

func persistentPostRun(cmd *cobra.Command, args []string) error {
	if store != nil {
		store.Close()
		database.Close()
	}
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stderr
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

func openStore(ctx context.Context) (storage.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Storage.Driver != "postgres" {
		logger.Warn().Str("driver", cfg.Storage.Driver).Msg("Using in-memory storage, changes are discarded on exit")
		return storage.NewMemoryStore(), nil
	}

	if err := database.Connect(ctx, cfg.Database, *logger); err != nil {
		return nil, err
	}
	logger.Info().Msg("Database connected")

	pg := storage.NewPostgresStore(database.Pool())
	if err := pg.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return pg, nil
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
