package cli

import (
	"github.com/SAP-F-2025/quiz-analytics-service/internal/config"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/utils"
	"github.com/SAP-F-2025/quiz-analytics-service/pkg"
	"github.com/spf13/cobra"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the analytics tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger := utils.NewLogger(cfg.Environment)

			db, err := pkg.InitDatabase(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := pkg.Migrate(db); err != nil {
				return err
			}
			logger.Info("Migrations applied")
			return nil
		},
	}
}
