package cmd

import (
	"errors"

	"impulsa-web/config"
	"impulsa-web/internal/api/plans"
	"impulsa-web/internal/infra/dataservice"
	"impulsa-web/internal/infra/stripe"
	"impulsa-web/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncPlansCmd = &cobra.Command{
	Use:   "sync-plans",
	Short: "Import course prices from Stripe into the plan catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !config.StripeEnabled() {
			return errors.New("STRIPE_SECRET_KEY not set")
		}

		db, err := openDB()
		if err != nil {
			return err
		}

		res, err := plans.Sync(cmd.Context(), stripe.New(config.STRIPE_SECRET_KEY, config.APP_URL), dataservice.New(db))
		if err != nil {
			return err
		}
		logger.L().Info("plans synced",
			zap.Int("synced", res.Synced),
			zap.Int("created", res.Created),
			zap.Int("updated", res.Updated),
			zap.Int("skipped", res.Skipped),
			zap.Int64("deactivated", res.Deactivated))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncPlansCmd)
}
