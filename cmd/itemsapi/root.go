package main

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/skemapi"
	"github.com/reoring/skemapi/httpapi"
	"github.com/reoring/skemapi/i18n"
	"github.com/reoring/skemapi/internal/config"
	"github.com/reoring/skemapi/internal/items"
	"github.com/reoring/skemapi/source/gojson"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "itemsapi",
		Short:         "Items demo API with validated bodies and a generated OpenAPI document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts), newOpenAPICmd(opts), newRoutesCmd(opts), newVersionCmd())
	return cmd
}

// load reads the config file and applies flags that override it.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, cfg.Validate()
}

// buildApp wires process-wide settings, the store and the application.
// The returned close func releases the store.
func buildApp(cfg *config.Config, log *zap.Logger) (*httpapi.App, func() error, error) {
	switch cfg.JSONDriver {
	case config.DriverGoJSON:
		gojson.Use()
	default:
		skemapi.UseDefaultJSONDriver()
	}
	i18n.SetLanguage(cfg.Language)

	var (
		store   items.Store
		closeFn = func() error { return nil }
	)
	switch cfg.Store.Kind {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr, DB: cfg.Store.RedisDB})
		store = items.NewRedisStore(client, cfg.Store.KeyPrefix)
		closeFn = client.Close
	default:
		store = items.NewMemoryStore()
	}

	app, err := items.NewApp(cfg.HTTP(), store, httpapi.WithLogger(log))
	if err != nil {
		_ = closeFn()
		return nil, nil, fmt.Errorf("build app: %w", err)
	}
	return app, closeFn, nil
}
