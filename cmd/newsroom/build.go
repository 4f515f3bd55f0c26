package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-newsroom"
	sitecmd "github.com/goliatone/go-newsroom/internal/commands/site"
)

type buildFlags struct {
	clean       bool
	dryRun      bool
	incremental bool
	routes      []string
	page        string
	output      string
}

func newBuildCommand(global *globalFlags) *cobra.Command {
	flags := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site into the output directory",
		Long: `Render every route into the output directory together with the
sitemap, robots.txt, RSS feed and search index.

Examples:
  newsroom build                          # Full build
  newsroom build --incremental            # Skip pages whose output did not change
  newsroom build --route article:port-blast --route home
  newsroom build --page article:port-blast`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, global, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.clean, "clean", false, "remove the output directory before building")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "render without writing any file")
	cmd.Flags().BoolVar(&flags.incremental, "incremental", false, "skip pages whose output is unchanged")
	cmd.Flags().StringSliceVar(&flags.routes, "route", nil, "limit the build to route IDs or paths")
	cmd.Flags().StringVar(&flags.page, "page", "", "render a single route ID or path")
	cmd.Flags().StringVar(&flags.output, "output", "", "output directory relative to the site root")
	return cmd
}

func runBuild(cmd *cobra.Command, global *globalFlags, flags *buildFlags) error {
	resources, err := global.load(func(cfg *newsroom.Config) {
		if cmd.Flags().Changed("clean") {
			cfg.Generator.CleanBuild = flags.clean
		}
		if cmd.Flags().Changed("incremental") {
			cfg.Generator.Incremental = flags.incremental
		}
		if output := strings.TrimSpace(flags.output); output != "" {
			cfg.Generator.OutputDir = output
		}
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if page := strings.TrimSpace(flags.page); page != "" {
		if resources.handlers.page == nil {
			return errors.New("build page handler not configured")
		}
		if err := resources.handlers.page.Execute(ctx, sitecmd.BuildPageCommand{Route: page}); err != nil {
			return err
		}
		fmt.Fprintf(out, "built %s\n", page)
		return nil
	}

	if resources.handlers.build == nil {
		return errors.New("build handler not configured")
	}
	var result *newsroom.BuildResult
	err = resources.handlers.build.Execute(ctx, sitecmd.BuildSiteCommand{
		Routes: flags.routes,
		DryRun: flags.dryRun,
		ResultCallback: func(env sitecmd.ResultEnvelope) {
			result = env.Result
		},
	})
	if result != nil {
		printBuildSummary(out, result)
	}
	return err
}

func printBuildSummary(out io.Writer, result *newsroom.BuildResult) {
	verb := "built"
	if result.DryRun {
		verb = "rendered (dry run)"
	}
	fmt.Fprintf(out, "%s %d pages, skipped %d, missing %d, assets %d in %s\n",
		verb,
		result.PagesBuilt,
		result.PagesSkipped,
		result.PagesMissing,
		result.AssetsBuilt,
		result.Duration.Round(time.Millisecond),
	)
	for _, diag := range result.Diagnostics {
		fmt.Fprintf(out, "warning: %s\n", diag.String())
	}
	for _, failure := range result.Errors {
		fmt.Fprintf(out, "error: %v\n", failure)
	}
}

func newCleanCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the generated output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := global.load(nil)
			if err != nil {
				return err
			}
			if resources.handlers.clean == nil {
				return errors.New("clean handler not configured")
			}
			if err := resources.handlers.clean.Execute(cmd.Context(), sitecmd.CleanSiteCommand{}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", resources.config.Generator.OutputDir)
			return nil
		},
	}
}
