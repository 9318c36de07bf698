package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dcf-engine/internal/handler"
	"dcf-engine/internal/logging"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP calculation service",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := cfg.Server.Port
		if servePort != "" {
			port = servePort
		}
		log := logging.L()
		defer logging.Sync()

		h := handler.New(cfg.SeriesOptions(), log)
		log.Info("DCF engine starting", zap.String("port", port))
		return h.Server().ListenAndServe(":" + port)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default from PORT or config)")
}
