package main

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/musiclands/backend/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "MUSICLANDS_DB_DSN"

// migrator is the subset of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(v int) error
}

type opener func(dsn string) (migrator, func(), error)

func main() {
	if err := newRootCmd(openMigrator, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply Musiclands database migrations",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "database connection string (defaults to $"+envDSN+" or the service config)")

	run := func(fn func(m migrator) (string, error)) error {
		resolved, err := resolveDSN(dsn)
		if err != nil {
			return err
		}
		m, closeFn, err := open(resolved)
		if err != nil {
			return err
		}
		defer closeFn()

		msg, err := fn(m)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, msg)
		return nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Run all up migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(func(m migrator) (string, error) {
					if err := ignoreNoChange(m.Up()); err != nil {
						return "", fmt.Errorf("run up migrations: %w", err)
					}
					return "migrations applied successfully", nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Run all down migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(func(m migrator) (string, error) {
					if err := ignoreNoChange(m.Down()); err != nil {
						return "", fmt.Errorf("run down migrations: %w", err)
					}
					return "migrations reverted successfully", nil
				})
			},
		},
		&cobra.Command{
			Use:   "steps N",
			Long:  "Apply N migrations. Pass negative counts after \"--\", e.g. migrate steps -- -1.",
			Short: "Apply N migrations (positive=up, negative=down)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil || n == 0 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return run(func(m migrator) (string, error) {
					if err := ignoreNoChange(m.Steps(n)); err != nil {
						return "", fmt.Errorf("run migrations: %w", err)
					}
					return fmt.Sprintf("applied %d migration steps", n), nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current migration version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(func(m migrator) (string, error) {
					v, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						return "version: none", nil
					}
					if err != nil {
						return "", fmt.Errorf("get version: %w", err)
					}
					return fmt.Sprintf("version: %d, dirty: %v", v, dirty), nil
				})
			},
		},
		&cobra.Command{
			Use:   "force V",
			Short: "Force the migration version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil || v < -1 {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return run(func(m migrator) (string, error) {
					if err := m.Force(v); err != nil {
						return "", fmt.Errorf("force version: %w", err)
					}
					return fmt.Sprintf("forced to version %d", v), nil
				})
			},
		},
	)

	return root
}

// resolveDSN prefers the flag, then MUSICLANDS_DB_DSN, then the database
// section of the service configuration.
func resolveDSN(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Database.URL(), nil
}

func openMigrator(dsn string) (migrator, func(), error) {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, func() { m.Close() }, nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
