package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dashboard/internal/applog"
	"github.com/vovakirdan/tui-dashboard/internal/board"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Re-pack the stored board",
	Long: `Loads the stored board, re-packs its tiles into a gap-free layout in
creation order and saves it back. Tiles that no longer fit are reported.
A stored board that cannot be read is left untouched.`,
	Args: cobra.NoArgs,
	RunE: runCompact,
}

func runCompact(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := e.open(ctx); err != nil {
		return err
	}
	defer e.close()

	return compactStored(ctx, e, cmd.OutOrStdout())
}

func compactStored(ctx context.Context, e *env, out io.Writer) error {
	key := e.cfg.Storage.Key
	if err := board.Verify(ctx, e.kv, key); err != nil {
		if errors.Is(err, board.ErrMalformed) {
			e.logger.Warn("stored board left as is", "key", key)
			return fmt.Errorf("%w (run reset --yes to discard it)", err)
		}
		return err
	}

	progress := applog.StartProgress(e.logger)
	store, err := e.loadBoard(ctx)
	if err != nil {
		return err
	}
	dropped := store.Compact()
	if err := store.Save(ctx, e.kv, key); err != nil {
		return err
	}
	progress.Done(fmt.Sprintf("compacted %d tiles", store.Len()))

	for _, t := range dropped {
		fmt.Fprintf(out, "dropped %s tile %s: no room\n", t.Type, t.ID)
	}
	return nil
}
