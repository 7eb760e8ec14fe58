package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/pantry/backend/config"
	"github.com/pageza/pantry/backend/internal/database"
)

// RootOptions holds what every management command needs. Tests swap the
// functions for in-memory versions.
type RootOptions struct {
	Logger     *zap.Logger
	LoadConfig func() (*config.Config, error)
	OpenDB     func(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error)
	Ping       func(cfg *config.Config) database.PingFunc
}

// DefaultOptions wires the commands to the real configuration and database.
func DefaultOptions(logger *zap.Logger) *RootOptions {
	return &RootOptions{
		Logger:     logger,
		LoadConfig: config.LoadConfig,
		OpenDB:     database.New,
		Ping:       defaultPing,
	}
}

// NewRootCommand creates the root command for the management CLI.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pantryctl",
		Short:         "Pantry management commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewWaitForDBCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCreateSuperuserCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

func (o *RootOptions) openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := o.OpenDB(cfg, o.Logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// defaultPing uses a raw lib/pq connection for postgres and a gorm
// connection for sqlite.
func defaultPing(cfg *config.Config) database.PingFunc {
	if cfg.DBDriver == "postgres" {
		return database.PostgresPing(cfg.PostgresDSN())
	}
	return func(ctx context.Context) error {
		db, err := database.New(cfg, zap.NewNop())
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		return database.HealthCheck(ctx, db)
	}
}
