package sitecmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-newsroom/internal/commands/fixtures"
	"github.com/goliatone/go-newsroom/internal/generator"
	"github.com/goliatone/go-newsroom/internal/routes"
)

func TestBuildSiteHandler_Execute_Build(t *testing.T) {
	cmd := loadBuildFixture(t, "build_routes.json")

	var capturedOpts generator.BuildOptions
	callbackInvoked := false

	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{PagesBuilt: 3}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	cmd.ResultCallback = func(env ResultEnvelope) {
		callbackInvoked = true
		if env.Result == nil {
			t.Fatalf("expected build result, got nil")
		}
		if env.Result.PagesBuilt != 3 {
			t.Fatalf("expected PagesBuilt 3, got %d", env.Result.PagesBuilt)
		}
		if env.Metadata["operation"] != "build" {
			t.Fatalf("expected operation build, got %v", env.Metadata["operation"])
		}
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute build: %v", err)
	}

	if capturedOpts.DryRun {
		t.Fatalf("expected DryRun false")
	}
	if want := []string{"home", "/news/port-blast"}; !reflect.DeepEqual(capturedOpts.Routes, want) {
		t.Fatalf("expected routes %v, got %v", want, capturedOpts.Routes)
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestBuildSiteHandler_Execute_DryRun(t *testing.T) {
	cmd := loadBuildFixture(t, "build_dry_run.json")

	var capturedOpts generator.BuildOptions
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{DryRun: true}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute dry run: %v", err)
	}
	if !capturedOpts.DryRun {
		t.Fatal("expected DryRun to be forwarded")
	}
	if capturedOpts.Routes != nil {
		t.Fatalf("expected no route filter, got %v", capturedOpts.Routes)
	}
}

func TestBuildSiteHandler_Execute_ReportsBuildFailure(t *testing.T) {
	buildErr := errors.New("render failed")
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			return &generator.BuildResult{Errors: []error{buildErr}}, buildErr
		},
	}

	var envelope ResultEnvelope
	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	err := handler.Execute(context.Background(), BuildSiteCommand{
		ResultCallback: func(env ResultEnvelope) { envelope = env },
	})
	if !errors.Is(err, buildErr) {
		t.Fatalf("expected build error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if envelope.Result == nil || len(envelope.Result.Errors) != 1 {
		t.Fatalf("expected partial result in callback, got %#v", envelope.Result)
	}
}

func TestBuildSiteHandler_Execute_GeneratorDisabled(t *testing.T) {
	handler := NewBuildSiteHandler(&fakeGeneratorService{}, nil, FeatureGates{GeneratorEnabled: alwaysFalse})
	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestBuildPageHandler_Execute(t *testing.T) {
	var captured string
	svc := &fakeGeneratorService{
		buildPageFunc: func(ctx context.Context, route string) error {
			captured = route
			return nil
		},
	}

	handler := NewBuildPageHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), BuildPageCommand{Route: " /news/port-blast "}); err != nil {
		t.Fatalf("execute page build: %v", err)
	}
	if captured != "/news/port-blast" {
		t.Fatalf("expected trimmed route, got %q", captured)
	}
}

func TestBuildPageHandler_Execute_UnknownRoute(t *testing.T) {
	svc := &fakeGeneratorService{
		buildPageFunc: func(ctx context.Context, route string) error {
			return generator.ErrRouteNotFound
		},
	}

	handler := NewBuildPageHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	err := handler.Execute(context.Background(), BuildPageCommand{Route: "article:missing"})
	if !errors.Is(err, generator.ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestBuildPageHandler_Execute_RequiresRoute(t *testing.T) {
	called := false
	svc := &fakeGeneratorService{
		buildPageFunc: func(ctx context.Context, route string) error {
			called = true
			return nil
		},
	}

	handler := NewBuildPageHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	err := handler.Execute(context.Background(), BuildPageCommand{Route: "  "})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Fatal("expected BuildPage not to run")
	}
}

func TestCleanSiteHandler_Execute(t *testing.T) {
	cleanCalled := false
	svc := &fakeGeneratorService{
		cleanFunc: func(ctx context.Context) error {
			cleanCalled = true
			return nil
		},
	}

	handler := NewCleanSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("execute clean: %v", err)
	}
	if !cleanCalled {
		t.Fatal("expected Clean to be called")
	}
}

func TestCleanSiteHandler_Execute_GeneratorDisabled(t *testing.T) {
	handler := NewCleanSiteHandler(&fakeGeneratorService{}, nil, FeatureGates{GeneratorEnabled: alwaysFalse})
	err := handler.Execute(context.Background(), CleanSiteCommand{})
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestBuildSiteCommandValidate(t *testing.T) {
	cmd := loadBuildFixture(t, "build_invalid_route.json")
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected validation error for blank routes")
	}
	if err := (BuildSiteCommand{Routes: []string{"home"}}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
}

func TestRegisterSiteCommands(t *testing.T) {
	registry := fixtures.NewRecordingRegistry()
	set, err := RegisterSiteCommands(registry, &fakeGeneratorService{}, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if set.Build == nil || set.BuildPage == nil || set.Clean == nil {
		t.Fatalf("expected every handler, got %#v", set)
	}
	if len(registry.Handlers) != 3 {
		t.Fatalf("expected 3 registered handlers, got %d", len(registry.Handlers))
	}

	failing := fixtures.NewRecordingRegistry()
	failing.Fail(errors.New("registry closed"))
	if _, err := RegisterSiteCommands(failing, &fakeGeneratorService{}, nil, FeatureGates{}); err == nil {
		t.Fatal("expected registration error")
	}
	if _, err := RegisterSiteCommands(nil, nil, nil, FeatureGates{}); err == nil {
		t.Fatal("expected error for nil service")
	}
}

func TestHandlerSetSubscribeDispatchesSiteMessages(t *testing.T) {
	var built, cleaned bool
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			built = opts.DryRun
			return &generator.BuildResult{DryRun: true}, nil
		},
		cleanFunc: func(ctx context.Context) error {
			cleaned = true
			return nil
		},
	}

	set, err := RegisterSiteCommands(nil, svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	unsubscribe := set.Subscribe()
	t.Cleanup(unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), BuildSiteCommand{DryRun: true}); err != nil {
		t.Fatalf("dispatch build: %v", err)
	}
	if err := dispatcher.Dispatch(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("dispatch clean: %v", err)
	}
	if !built || !cleaned {
		t.Fatalf("expected dispatched messages to reach handlers, built=%v cleaned=%v", built, cleaned)
	}
}

func loadBuildFixture(t *testing.T, name string) BuildSiteCommand {
	t.Helper()
	var cmd BuildSiteCommand
	loadFixture(t, name, &cmd)
	return cmd
}

func loadFixture(t *testing.T, name string, target any) {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("unmarshal fixture %s: %v", name, err)
	}
}

type fakeGeneratorService struct {
	buildFunc     func(context.Context, generator.BuildOptions) (*generator.BuildResult, error)
	buildPageFunc func(context.Context, string) error
	cleanFunc     func(context.Context) error
}

func (f *fakeGeneratorService) Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	if f.buildFunc != nil {
		return f.buildFunc(ctx, opts)
	}
	return &generator.BuildResult{}, nil
}

func (f *fakeGeneratorService) BuildPage(ctx context.Context, route string) error {
	if f.buildPageFunc != nil {
		return f.buildPageFunc(ctx, route)
	}
	return nil
}

func (f *fakeGeneratorService) Clean(ctx context.Context) error {
	if f.cleanFunc != nil {
		return f.cleanFunc(ctx)
	}
	return nil
}

func (f *fakeGeneratorService) Routes(context.Context) ([]routes.Route, error) {
	return nil, nil
}

func alwaysTrue() bool  { return true }
func alwaysFalse() bool { return false }
