package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-newsroom/cmd/newsroom/internal/output"
)

func newSearchCommand(global *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search news posts the way the site search does",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := global.load(nil)
			if err != nil {
				return err
			}
			if resources.search == nil {
				return errors.New("search not configured")
			}

			query := strings.Join(args, " ")
			results, err := resources.search(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "no results")
				return nil
			}

			table := output.NewTable(out, []string{"score", "date", "title", "url"})
			for _, result := range results {
				date := ""
				if !result.Item.Date.IsZero() {
					date = result.Item.Date.Format("2006-01-02")
				}
				table.AddRow(strconv.Itoa(result.Score), date, result.Item.Title, result.Item.Href)
			}
			return table.Render()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum results (default from config)")
	return cmd
}
