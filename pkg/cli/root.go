// Package cli implements the inkctl administrative command line. It works
// directly against the SQLite database, so it can bootstrap the first admin
// account before the server has any users.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	internaldb "inkwell/internal/db"
	"inkwell/internal/db/repository"
	"inkwell/internal/domain"
	"inkwell/internal/service"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runtime bundles what the subcommands need after the database is opened.
type runtime struct {
	accounts *service.AccountService
	posts    domain.PostRepository
	logger   *slog.Logger
	out      io.Writer
}

// NewRootCmd builds the command tree. Commands open the database lazily so
// `inkctl --help` works without one.
func NewRootCmd() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:           "inkctl",
		Short:         "Inkwell administration CLI",
		Long:          "Administrative commands for the inkwell content service: manage accounts, roles, and retention.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (defaults to DB_PATH or inkwell.sqlite)")

	open := func(cmd *cobra.Command) (*runtime, func(), error) {
		path := dbPath
		if path == "" {
			if err := config.LoadDotEnv(".env"); err != nil {
				return nil, nil, err
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return nil, nil, err
			}
			path = cfg.DBPath
		}

		writeDB, readDB, err := internaldb.OpenSQLitePair(path, 2)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			_ = writeDB.Close()
			_ = readDB.Close()
		}

		if err := internaldb.RunMigrations(writeDB); err != nil {
			cleanup()
			return nil, nil, err
		}

		accountRepo := repository.NewAccountRepo(writeDB)
		postRepo := repository.NewPostRepo(writeDB)
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

		return &runtime{
			accounts: service.NewAccountService(accountRepo, auth.BcryptVerifier{}),
			posts:    postRepo,
			logger:   logger,
			out:      cmd.OutOrStdout(),
		}, cleanup, nil
	}

	rootCmd.AddCommand(newAccountCmd(open))
	rootCmd.AddCommand(newPurgeCmd(open))
	return rootCmd
}
