package main

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dashboard/internal/hub"
	"github.com/vovakirdan/tui-dashboard/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dashboards over SSH",
	Long: `Start an SSH server where every user gets their own dashboard.

The board of user <name> is stored under "<key>:<name>", so boards survive
reconnects. Two connections of the same user share one live board.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses server.host_key_path from the config
  - Otherwise, auto-generates a key at ~/.dashboard/host_key

Examples:
  dashboard serve                          # Listen on the configured address
  dashboard serve --ssh :2222              # Listen on port 2222
  dashboard serve --store redis://localhost:6379/0

Users can connect with:
  ssh localhost -p 2323`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(os.Stderr)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := e.open(ctx); err != nil {
		return err
	}
	defer e.close()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	if cfg.Address == "" {
		cfg.Address = net.JoinHostPort(e.cfg.Server.Host, strconv.Itoa(e.cfg.Server.Port))
	}
	cfg.HostKeyPath = flagHostKey
	if cfg.HostKeyPath == "" {
		cfg.HostKeyPath = e.cfg.Server.HostKeyPath
	}
	cfg.KeyPrefix = e.cfg.Storage.Key + ":"
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.View = e.viewOptions()

	h := hub.New(e.grid, e.kv, e.logger)
	server, err := tui.NewSSHServer(cfg, h, e.catalog(), e.logger)
	if err != nil {
		return err
	}

	fmt.Printf("Starting dashboard SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe(ctx)
}
