package main

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-newsroom"
	"github.com/goliatone/go-newsroom/cmd/newsroom/internal/bootstrap"
	sitecmd "github.com/goliatone/go-newsroom/internal/commands/site"
)

type handlerSet struct {
	build command.Commander[sitecmd.BuildSiteCommand]
	page  command.Commander[sitecmd.BuildPageCommand]
	clean command.Commander[sitecmd.CleanSiteCommand]
}

type previewServer interface {
	Address() string
	Run(ctx context.Context) error
}

type moduleResources struct {
	config   newsroom.Config
	handlers handlerSet
	routes   func(context.Context) ([]newsroom.Route, error)
	search   func(context.Context, string, int) ([]newsroom.SearchResult, error)
	preview  func() (previewServer, error)
}

var moduleBuilder = func(opts bootstrap.Options) (*moduleResources, error) {
	resources, err := bootstrap.BuildModule(opts)
	if err != nil {
		return nil, err
	}
	module := resources.Module
	set := module.Commands()
	if set == nil {
		return nil, errors.New("site commands not configured")
	}
	return &moduleResources{
		config: resources.Config,
		handlers: handlerSet{
			build: set.Build,
			page:  set.BuildPage,
			clean: set.Clean,
		},
		routes: module.Routes,
		search: module.Search,
		preview: func() (previewServer, error) {
			server, err := module.Preview()
			if err != nil {
				return nil, err
			}
			return server, nil
		},
	}, nil
}

type globalFlags struct {
	configFile string
	root       string
	logLevel   string
	logFormat  string
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "newsroom",
		Short: "Static site builder for the BeiruTalk newsroom",
		Long: `newsroom turns Markdown posts and JSON site data into a pre-rendered
Arabic news site with a sitemap, RSS feed and client-side search index.

Example usage:
  newsroom build                 # Render every route into the output directory
  newsroom build --dry-run       # Render without writing
  newsroom serve --port 8080     # Build, serve and rebuild on change
  newsroom search "بيروت"        # Query the news posts
  newsroom routes                # List every route the content produces`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default is ./newsroom.yaml)")
	root.PersistentFlags().StringVar(&flags.root, "root", "", "site root holding content/ and newsroom.yaml")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "enable structured logging at this level")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log output format: text keeps the console logger, json, console or pretty switch to go-logger")

	root.AddCommand(
		newBuildCommand(flags),
		newCleanCommand(flags),
		newServeCommand(flags),
		newSearchCommand(flags),
		newRoutesCommand(flags),
	)
	return root
}

// load builds the module, letting configure adjust the loaded config.
func (f *globalFlags) load(configure func(*newsroom.Config)) (*moduleResources, error) {
	return moduleBuilder(bootstrap.Options{
		ConfigFile: f.configFile,
		Root:       f.root,
		Configure: func(cfg *newsroom.Config) {
			if level := strings.TrimSpace(f.logLevel); level != "" {
				cfg.Features.Logger = true
				cfg.Logging.Level = level
			}
			if format := strings.TrimSpace(f.logFormat); format != "" {
				cfg.Features.Logger = true
				if !strings.EqualFold(format, "text") {
					cfg.Logging.Provider = "gologger"
				}
				cfg.Logging.Format = format
			}
			if configure != nil {
				configure(cfg)
			}
		},
	})
}
