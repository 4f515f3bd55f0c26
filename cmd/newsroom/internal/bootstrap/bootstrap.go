// Package bootstrap loads the CLI configuration and builds the newsroom module.
package bootstrap

import (
	"fmt"

	"github.com/goliatone/go-newsroom"
	"github.com/goliatone/go-newsroom/internal/di"
)

// Options controls how the module is assembled.
type Options struct {
	ConfigFile string
	Root       string
	// Configure adjusts the loaded config before the module is built.
	Configure func(*newsroom.Config)
	DI        []di.Option
}

// Resources bundles the module with the config it was built from.
type Resources struct {
	Config newsroom.Config
	Module *newsroom.Module
}

// BuildModule loads configuration and constructs the module.
func BuildModule(opts Options) (*Resources, error) {
	cfg, err := LoadConfig(opts.ConfigFile, opts.Root)
	if err != nil {
		return nil, err
	}
	if opts.Configure != nil {
		opts.Configure(&cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validating config: %w", err)
		}
	}

	module, err := newsroom.New(cfg, opts.DI...)
	if err != nil {
		return nil, fmt.Errorf("building module: %w", err)
	}
	return &Resources{Config: cfg, Module: module}, nil
}
