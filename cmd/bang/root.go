package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/bang/internal/catalog"
	"github.com/jason-s-yu/bang/internal/config"
	"github.com/jason-s-yu/bang/internal/database"
	"github.com/jason-s-yu/bang/internal/game"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	settings = config.New()
	cfg      *config.Config
	logger   *logrus.Logger
	envFile  string
)

var rootCmd = &cobra.Command{
	Use:   "bang",
	Short: "Run and inspect Wild-West duel games",
	Long: `bang drives the rules engine from the command line. Settings come from a .env
file, the environment (DATABASE_URL, REDIS_ADDR, LOG_LEVEL, BANG_CATALOG_SOURCE, ...)
and the flags below, later sources winning.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		if err := config.LoadDotEnv(files...); err != nil {
			return err
		}
		if err := config.BindFlags(settings, cmd.Flags()); err != nil {
			return err
		}
		var err error
		cfg, err = config.Load(settings)
		if err != nil {
			return err
		}
		logger = cfg.NewLogger()
		return nil
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	f.String("log-level", "", "logrus level: debug, info, warn, error")
	f.String("database-url", "", "PostgreSQL connection string")
	f.String("redis-addr", "", "Redis address for the event historian")
	f.String("catalog-source", "", "card catalog: builtin, file or postgres")
	f.String("catalog-path", "", "TOML catalog path for --catalog-source=file")
	f.String("catalog-table", "", "table for --catalog-source=postgres")
	f.String("rules", "", "house rules as a JSON object, e.g. '{\"outlawBounty\":2}'")

	rootCmd.AddCommand(simulateCmd, savesCmd, catalogCmd, migrateCmd)
}

// connectDB opens the configured database; callers close the pool.
func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return database.Connect(ctx, cfg.DatabaseURL)
}

// openCatalog returns the configured card source and a func releasing what it holds.
func openCatalog(ctx context.Context) (game.CardSource, func(), error) {
	switch cfg.CatalogSource {
	case config.SourceFile:
		return catalog.File{Path: cfg.CatalogPath}, func() {}, nil
	case config.SourcePostgres:
		pool, err := connectDB(ctx)
		if err != nil {
			return nil, nil, err
		}
		return catalog.Postgres{Pool: pool, Table: cfg.CatalogTable}, pool.Close, nil
	default:
		return catalog.Builtin{}, func() {}, nil
	}
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		logger.Info("schema is up to date")
		return nil
	},
}
