package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/skemapi/openapi"
)

var methodColors = map[string]*color.Color{
	"GET":    color.New(color.FgGreen),
	"POST":   color.New(color.FgYellow),
	"PUT":    color.New(color.FgBlue),
	"PATCH":  color.New(color.FgCyan),
	"DELETE": color.New(color.FgRed),
}

func newRoutesCmd(opts *rootOptions) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List registered routes",
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

			if noColor {
				color.NoColor = true
			}
			dim := color.New(color.Faint)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "METHOD\tPATH\tOPERATION ID\tDOCUMENTED")
			for _, r := range app.Routes() {
				method := r.Method
				if c, ok := methodColors[method]; ok {
					method = c.Sprint(method)
				}
				documented := "yes"
				if r.Hidden {
					documented = dim.Sprint("hidden")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", method, r.Path, openapi.OperationID(r.Name, r.Path, r.Method), documented)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
