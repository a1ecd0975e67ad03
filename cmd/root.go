// Package cmd is the impulsa command line: the web server plus the
// maintenance tasks that share its configuration.
package cmd

import (
	"context"
	"fmt"
	"os"

	"impulsa-web/config"
	"impulsa-web/database"
	"impulsa-web/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:          "impulsa",
	Short:        "Impulsa Marketing site and course platform",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		config.LoadEnv()
		if err := logger.Init(config.APP_ENV, config.LOG_LEVEL); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		logger.Sync()
	},
	// Plain `impulsa` serves, like the old single binary did.
	RunE: runServe,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	db, err := database.InitDB(config.DB_URL)
	if err != nil {
		return nil, err
	}
	return db, nil
}
