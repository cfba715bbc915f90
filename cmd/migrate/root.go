package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"pathexplorer/internal/config"
	"pathexplorer/internal/database"
	"pathexplorer/internal/database/migration"
	dbpostgres "pathexplorer/internal/database/postgres"
	"pathexplorer/internal/logger"
	"pathexplorer/migrations"
)

const commandTimeout = 2 * time.Minute

// env holds what every subcommand needs once flags are parsed.
type env struct {
	v      *viper.Viper
	logger *zap.Logger
	db     database.DB
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	e := &env{v: v}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply database migrations and seed demo data for pathexplorer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return e.close()
		},
	}

	root.PersistentFlags().String("dir", "", "directory with V<n>__<name>.sql files (default: MIGRATIONS_DIR, then the embedded set)")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")

	_ = v.BindPFlag("MIGRATIONS_DIR", root.PersistentFlags().Lookup("dir"))
	_ = v.BindPFlag("LOG_JSON", root.PersistentFlags().Lookup("json"))
	_ = v.BindPFlag("LOG_DEBUG", root.PersistentFlags().Lookup("debug"))

	root.AddCommand(newUpCmd(e), newStatusCmd(e), newSeedCmd(e))
	return root
}

func (e *env) open(ctx context.Context) error {
	dbCfg, err := config.LoadDatabase(e.v)
	if err != nil {
		return err
	}

	l, err := logger.New(e.v.GetBool("LOG_JSON"), e.v.GetBool("LOG_DEBUG"))
	if err != nil {
		return err
	}
	e.logger = l

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := dbpostgres.Connect(connectCtx, dbCfg, l.Named("db"))
	if err != nil {
		return err
	}
	e.db = db
	return nil
}

func (e *env) close() error {
	if e.logger != nil {
		_ = e.logger.Sync()
	}
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// runner prefers an on-disk migrations directory and falls back to the set
// compiled into the binary.
func (e *env) runner() migration.Runner {
	r := migration.Runner{FS: migrations.FS, Logger: e.logger.Named("migration")}
	if dir := e.v.GetString("MIGRATIONS_DIR"); dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			r.Dir = dir
		} else {
			e.logger.Debug("migrations dir not found, using embedded set", zap.String("dir", dir))
		}
	}
	return r
}
