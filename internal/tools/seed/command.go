package seed

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"matrimony-backend/internal/config"
	"matrimony-backend/internal/database"
)

type options struct {
	envFile      string
	demoPassword string
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Database seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().StringVar(&opts.demoPassword, "demo-password", "", "password for seeded demo accounts")
	cmd.AddCommand(newApplyCommand(opts), newMigrateCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Run migrations and apply demo seed data",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDB(opts.envFile)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			if err := database.Seed(db, opts.demoPassword); err != nil {
				return err
			}
			fmt.Println("seed apply: ok")
			return nil
		},
	}
}

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations only",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDB(opts.envFile)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			fmt.Println("migrate: ok")
			return nil
		},
	}
}

func loadDB(envFile string) (*gorm.DB, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return database.Open(cfg)
}
