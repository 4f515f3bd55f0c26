package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-newsroom"
	sitecmd "github.com/goliatone/go-newsroom/internal/commands/site"
)

type serveFlags struct {
	host  string
	port  int
	watch bool
}

func newServeCommand(global *globalFlags) *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the site, serve it locally and rebuild on change",
		Long: `The serve command performs an initial build, then serves the output
directory with clean URLs. Content, data and theme directories are watched
and the site is rebuilt after changes settle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.host, "host", "", "interface to listen on")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "port to listen on")
	cmd.Flags().BoolVar(&flags.watch, "watch", true, "rebuild when sources change")
	return cmd
}

func runServe(cmd *cobra.Command, global *globalFlags, flags *serveFlags) error {
	resources, err := global.load(func(cfg *newsroom.Config) {
		if flags.host != "" {
			cfg.Preview.Host = flags.host
		}
		if cmd.Flags().Changed("port") {
			cfg.Preview.Port = flags.port
		}
		if cmd.Flags().Changed("watch") {
			cfg.Preview.Watch = flags.watch
		}
	})
	if err != nil {
		return err
	}
	if resources.handlers.build == nil {
		return errors.New("build handler not configured")
	}
	if resources.preview == nil {
		return errors.New("preview server not configured")
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var result *newsroom.BuildResult
	err = resources.handlers.build.Execute(ctx, sitecmd.BuildSiteCommand{
		ResultCallback: func(env sitecmd.ResultEnvelope) {
			result = env.Result
		},
	})
	if result != nil {
		printBuildSummary(out, result)
	}
	if err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	server, err := resources.preview()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "serving http://%s\n", server.Address())
	return server.Run(ctx)
}
