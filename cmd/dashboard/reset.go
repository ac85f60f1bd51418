package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored board",
	Long: `Deletes the board stored under the configured key. The next run
starts with an empty board.

Examples:
  dashboard reset --yes
  dashboard reset --key dashboard-tiles:alice --yes`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
}

func runReset(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	key := e.cfg.Storage.Key
	if !flagYes {
		return fmt.Errorf("refusing to delete board %q without --yes", key)
	}

	ctx := cmd.Context()
	if err := e.open(ctx); err != nil {
		return err
	}
	defer e.close()

	if err := e.kv.Delete(ctx, key); err != nil {
		return err
	}
	e.logger.Info("board deleted", "key", key)
	return nil
}
