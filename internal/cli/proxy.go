package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lunamir/aria/internal/logging"
	"github.com/lunamir/aria/internal/proxy"
)

var proxyListen string

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run the pass-through CORS proxy",
	Long: `Run the pass-through proxy the provider clients route their
requests through. Leave it running while using the player.`,
	RunE: runProxy,
}

func init() {
	proxyCmd.Flags().StringVar(&proxyListen, "listen", "", "Listen address (default from config)")
	rootCmd.AddCommand(proxyCmd)
}

func runProxy(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Proxy.Listen
	if proxyListen != "" {
		addr = proxyListen
	}
	if addr == "" {
		return fmt.Errorf("no listen address configured")
	}

	logger := logging.New(cfg.Log)
	fmt.Printf("Proxy listening on %s\n", addr)
	return proxy.New(addr, logger).ListenAndServe(ctx)
}
