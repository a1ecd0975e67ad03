package cmd

import (
	"time"

	"impulsa-web/database"
	"impulsa-web/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo plans, classes and clients into empty tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		res, err := database.Seed(cmd.Context(), db, time.Now())
		if err != nil {
			return err
		}
		logger.L().Info("seeded",
			zap.Int("plans", res.Plans),
			zap.Int("classes", res.Classes),
			zap.Int("clients", res.Clients))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
