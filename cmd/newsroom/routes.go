package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-newsroom/cmd/newsroom/internal/output"
	"github.com/goliatone/go-newsroom/internal/generator"
)

func newRoutesCommand(global *globalFlags) *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List every route the current content produces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := global.load(nil)
			if err != nil {
				return err
			}
			if resources.routes == nil {
				return errors.New("routes not configured")
			}
			routes, err := resources.routes(cmd.Context())
			if err != nil {
				return err
			}

			filter := make(map[string]bool, len(names))
			for _, name := range names {
				filter[strings.TrimSpace(name)] = true
			}

			table := output.NewTable(cmd.OutOrStdout(), []string{"route", "path", "output"})
			for _, route := range routes {
				if len(filter) > 0 && !filter[route.Name] {
					continue
				}
				table.AddRow(route.ID(), route.Path, generator.OutputPath(route.Path))
			}
			if err := table.Render(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d routes\n", table.Len())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&names, "name", nil, "only list routes with these names (article, tag, ...)")
	return cmd
}
