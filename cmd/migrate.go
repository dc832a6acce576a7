package cmd

import (
	"context"

	"github.com/nicdemeagbeve-afk/synapse/core/database"
	"github.com/nicdemeagbeve-afk/synapse/infrastructure/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	Run:   runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) {
	conn, err := database.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("[MIGRATION] %v", err)
	}
	db = conn
	defer StopApp()

	logrus.Infof("[MIGRATION] migrating %s schema...", cfg.Database.Driver)
	if err := storage.AutoMigrate(context.Background(), db); err != nil {
		logrus.Fatalf("[MIGRATION] %v", err)
	}
	logrus.Info("[MIGRATION] schema is up to date")
}
