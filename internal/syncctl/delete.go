package syncctl

import (
	"fmt"

	"github.com/dmitrijs2005/finsync/internal/server/config"
	"github.com/dmitrijs2005/finsync/internal/server/models"
	"github.com/dmitrijs2005/finsync/internal/server/reconcile"
	"github.com/dmitrijs2005/finsync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/finsync/internal/server/services"
	"github.com/spf13/cobra"
)

func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var userID, collection, id string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one record of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := models.ParseCollection(collection)
			if err != nil {
				return err
			}

			return rootOpts.withStore(cmd, func(_ *config.Config, m repomanager.RepositoryManager) error {
				store := m.Documents()
				svc := services.NewSyncService(store, reconcile.New(store), rootOpts.logger(cmd))
				if err := svc.Delete(cmd.Context(), userID, c, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s/%s\n", c, id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "owner of the record")
	cmd.Flags().StringVar(&collection, "collection", "", "transactions, wallets or budgets")
	cmd.Flags().StringVar(&id, "id", "", "record id")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("collection")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
