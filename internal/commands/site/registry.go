package sitecmd

import (
	"errors"

	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-newsroom/internal/commands"
	"github.com/goliatone/go-newsroom/internal/generator"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers produced by RegisterSiteCommands.
type HandlerSet struct {
	Build     *BuildSiteHandler
	BuildPage *BuildPageHandler
	Clean     *CleanSiteHandler
}

// RegisterSiteCommands builds the site handlers and registers them with reg
// when one is given.
func RegisterSiteCommands(reg CommandRegistry, service generator.Service, provider interfaces.LoggerProvider, gates FeatureGates) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("site command registration: service is nil")
	}

	logger := commands.CommandLogger(provider, "site")
	set := &HandlerSet{
		Build:     NewBuildSiteHandler(service, logger, gates),
		BuildPage: NewBuildPageHandler(service, logger, gates),
		Clean:     NewCleanSiteHandler(service, logger, gates),
	}

	if reg != nil {
		for _, handler := range []any{set.Build, set.BuildPage, set.Clean} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

type subscription interface {
	Unsubscribe()
}

// Subscribe attaches the handlers to the go-command dispatcher so site
// messages can be sent with dispatcher.Dispatch. The returned func detaches
// them again.
func (s *HandlerSet) Subscribe() func() {
	subs := []subscription{
		dispatcher.SubscribeCommand(s.Build),
		dispatcher.SubscribeCommand(s.BuildPage),
		dispatcher.SubscribeCommand(s.Clean),
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}
