// Command manage runs administrative tasks: schema migrations, fixtures,
// demo data and user creation.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"yatube/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "manage",
	Short: "Yatube administrative commands",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd, migrateAutoCmd)
	rootCmd.AddCommand(migrateCmd, seedCmd, loaddataCmd, createuserCmd)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
