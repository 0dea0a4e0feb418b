package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/blockwork/engine/internal/repository"
	"github.com/blockwork/engine/pkg/config"
	"github.com/blockwork/engine/pkg/database"
	"github.com/blockwork/engine/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	db         *gorm.DB
	cfg        *config.Config
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Schema migrations and data checks for the Blockwork engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		db, err = database.Open(cmd.Context(), database.Options{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseURL})
		return err
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update every table and index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runMigrations(db, cfg.DatabaseDriver); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.L().Info("migrations completed", zap.String("driver", cfg.DatabaseDriver))
		return nil
	},
}

var verifyDepsCmd = &cobra.Command{
	Use:   "verify-deps",
	Short: "Report timeline blocks whose dependencies contain a cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := verifyDependencies(cmd.Context(), repository.NewTimelineRepository(db))
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(reports)
		}
		if len(reports) == 0 {
			fmt.Fprintln(os.Stdout, "no dependency cycles found")
			return nil
		}
		for _, r := range reports {
			fmt.Fprintf(os.Stdout, "block %s: cycle %v\n", r.BlockID, r.Cycle)
		}
		return fmt.Errorf("%d timeline block(s) contain dependency cycles", len(reports))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.AddCommand(upCmd, verifyDepsCmd)
}

func main() {
	cfg = config.MustLoad()
	if _, err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}
