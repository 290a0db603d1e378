package cmd

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-insights/internal/config"
	"github.com/naka-gawa/github-insights/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the insights as a JSON API for a web client",
	Long: `Runs an HTTP server exposing /api/health, /api/link, /api/stats,
/api/frequency and /api/charts. Cross-origin requests are accepted from
server.allowed_origins only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, map[string]string{config.KeyServerAddr: "addr"})
		if err != nil {
			return err
		}
		defer a.close()

		verbose, _ := cmd.Flags().GetBool("verbose")
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		h := server.NewHandler(a.resolver, a.aggregator, a.logger)
		engine := server.NewEngine(h, a.cfg.Server.AllowedOrigins, a.logger)
		return server.Run(ctx, a.cfg.Server.Addr, engine, a.logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
