/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/infrastructure/config"
	"github.com/eslsoft/lingvo/internal/infrastructure/database"
	"github.com/eslsoft/lingvo/internal/infrastructure/server"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetBool("seed")
		down, _ := cmd.Flags().GetInt("down")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		driver, dsn, err := databaseTarget(cfg)
		if err != nil {
			return err
		}

		if down > 0 {
			if err := database.MigrateDown(driver, dsn, down); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
		} else if err := database.Migrate(driver, dsn); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		version, dirty, err := database.MigrationVersion(driver, dsn)
		if err != nil {
			return fmt.Errorf("read migration version: %w", err)
		}
		cmd.Printf("schema version %d (dirty=%v)\n", version, dirty)

		if !seed || down > 0 {
			return nil
		}

		logger, err := server.NewLogger(cfg)
		if err != nil {
			return err
		}
		db, cleanup, err := database.NewDB(cfg, logger)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer cleanup()

		n, err := seedDatabase(cmd.Context(), db)
		if err != nil {
			return err
		}
		cmd.Printf("catalogue seeded: %d rows\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().Bool("seed", false, "load the language and word type catalogue")
	migrateCmd.Flags().Int("down", 0, "roll back this many migrations instead of applying")
}

func databaseTarget(cfg *config.Config) (string, string, error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return "", "", err
	}
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return "", "", err
	}
	return driver, dsn, nil
}

func migrateDatabase(cfg *config.Config) error {
	driver, dsn, err := databaseTarget(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(driver, dsn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func seedDatabase(ctx context.Context, db *bun.DB) (int, error) {
	n, err := database.Seed(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("seed catalogue: %w", err)
	}
	return n, nil
}
