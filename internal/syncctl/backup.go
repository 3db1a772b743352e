package syncctl

import (
	"fmt"

	"github.com/dmitrijs2005/finsync/internal/server/config"
	"github.com/dmitrijs2005/finsync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/finsync/internal/server/services"
	"github.com/spf13/cobra"
)

// NewBackupCommand exports every collection of a user to the configured S3
// bucket and prints the object key.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export a user's collections to object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withStore(cmd, func(cfg *config.Config, m repomanager.RepositoryManager) error {
				uploader, err := newUploader(cmd.Context(), cfg)
				if err != nil {
					return fmt.Errorf("s3 client: %w", err)
				}

				svc := services.NewBackupService(m.Documents(), uploader, cfg.S3Bucket, rootOpts.logger(cmd))
				key, err := svc.Export(cmd.Context(), userID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "s3://%s/%s\n", cfg.S3Bucket, key)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user whose data is exported")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
