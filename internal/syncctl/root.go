// Package syncctl implements the operator command line: minting tokens,
// applying migrations, deleting records and exporting backups against the
// store configured for the server.
package syncctl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrijs2005/finsync/internal/logging"
	"github.com/dmitrijs2005/finsync/internal/server/config"
	"github.com/dmitrijs2005/finsync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/finsync/internal/server/services"
	"github.com/spf13/cobra"
)

// Seams replaced in tests.
var (
	openRepos = repomanager.New

	newUploader = func(ctx context.Context, cfg *config.Config) (services.ObjectUploader, error) {
		return services.NewS3Client(ctx, cfg)
	}
)

// RootOptions holds flags shared by every command.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the syncctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "syncctl",
		Short:         "finsync operator tool",
		Long:          "Administrative commands for a finsync server's store and tokens.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a JSON or YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level to stderr")

	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))

	return cmd
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigFile(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (o *RootOptions) logger(cmd *cobra.Command) logging.Logger {
	if !o.Verbose {
		return logging.Nop()
	}
	return logging.NewTextSlogLogger(cmd.ErrOrStderr(), slog.LevelDebug)
}

// withStore opens the configured store, runs fn and closes the store.
func (o *RootOptions) withStore(cmd *cobra.Command, fn func(cfg *config.Config, m repomanager.RepositoryManager) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	m, err := openRepos(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if err := fn(cfg, m); err != nil {
		_ = m.Close()
		return err
	}
	return m.Close()
}
