package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/platform/tui"
	"github.com/vovakirdan/tui-dashboard/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and restore earlier boards",
	Long: `Lists earlier versions of the stored board, newest first, and
restores the one you pick. Only the sqlite store keeps history; the
restored board becomes the newest version, so a restore can be undone.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := e.open(ctx); err != nil {
		return err
	}
	defer e.close()

	src, ok := e.kv.(*storage.SQLiteStore)
	if !ok {
		return errors.New("history needs a sqlite store (--store sqlite:<path>)")
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	key := e.cfg.Storage.Key
	rev, chosen, err := tui.RunHistory(ctx, src, key, width, height)
	if err != nil || !chosen {
		return err
	}

	// Install through a store so the restored board is normalised for the
	// current grid before it is written back.
	tiles, err := board.Decode(rev.Value)
	if err != nil {
		return fmt.Errorf("revision %d is unreadable: %w", rev.ID, err)
	}
	store := board.NewStore(e.grid, board.WithLogger(e.logger))
	store.ReorderTiles(tiles)
	if err := store.Save(ctx, e.kv, key); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %q to revision %d (%d tiles).\n", key, rev.ID, store.Len())
	return nil
}
