package chatlens

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/whoamihappyhacking/chatlens/internal/chatlens"
	"github.com/whoamihappyhacking/chatlens/internal/chatlens/conf"
	"github.com/whoamihappyhacking/chatlens/pkg/util"
)

var serverOpen bool

func init() {
	serverCmd.Flags().StringP("addr", "a", "", "http listen address, default "+conf.DefaultHTTPAddr)
	serverCmd.Flags().Bool("auto-refresh", false, "recompute cached reports when chatlog.db changes")
	serverCmd.Flags().BoolVar(&serverOpen, "open", false, "open the report in a browser")

	if err := v.BindPFlag("http_addr", serverCmd.Flags().Lookup("addr")); err != nil {
		log.Err(err).Msg("bind flag failed")
	}
	if err := v.BindPFlag("auto_refresh", serverCmd.Flags().Lookup("auto-refresh")); err != nil {
		log.Err(err).Msg("bind flag failed")
	}
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the report over HTTP and MCP",
	Example: `chatlens server -d ./data
chatlens server -d ./data --addr 0.0.0.0:5031 --auto-refresh --open`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		m := chatlens.New(cfg)
		if err := m.Open(cmd.Context()); err != nil {
			return err
		}
		defer m.Close()

		if cfg.AutoRefresh {
			if err := m.StartAutoRefresh(); err != nil {
				log.Err(err).Msg("start auto refresh failed")
			}
		}
		if err := m.StartServer(); err != nil {
			return err
		}

		if serverOpen {
			url := util.ComposeURL(cfg.GetHTTPAddr(), "/api/v1/report")
			if err := util.OpenBrowser(url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("open browser failed")
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		log.Info().Msg("shutting down")
		return nil
	},
}
