package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/skemapi/openapi"
)

func newOpenAPICmd(opts *rootOptions) *cobra.Command {
	var (
		format   string
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			app, closeStore, err := buildApp(cfg, zap.NewNop())
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			doc, err := app.OpenAPI()
			if err != nil {
				return err
			}
			if validate {
				if err := openapi.Validate(cmd.Context(), doc); err != nil {
					return err
				}
			}
			var out []byte
			switch format {
			case "json":
				out, err = doc.JSON()
				out = append(out, '\n')
			case "yaml":
				out, err = doc.YAML()
			default:
				return fmt.Errorf("unknown format %q (json or yaml)", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate the document before printing")
	return cmd
}
