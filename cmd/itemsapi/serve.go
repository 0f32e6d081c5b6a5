package main

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/skemapi/httpapi"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			log, err := cfg.Logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if !cfg.Log.Development {
				gin.SetMode(gin.ReleaseMode)
			}
			app, closeStore, err := buildApp(cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					log.Warn("closing store", zap.Error(err))
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			srv := &httpapi.Server{
				Addr:            cfg.Addr,
				Handler:         app,
				ShutdownTimeout: cfg.ShutdownTimeout,
				Log:             log,
			}
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the config file)")
	return cmd
}

