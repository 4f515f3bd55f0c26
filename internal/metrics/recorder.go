// Package metrics records build timings and outcomes.
//
// Components hold a Recorder and default to Noop, so instrumentation never
// needs nil checks. The Prometheus implementation is swapped in when the
// metrics endpoint is enabled.
package metrics

import "time"

// Stage names used by the generator.
const (
	StageLoad     = "load"
	StageRoutes   = "routes"
	StageRender   = "render"
	StageWrite    = "write"
	StageAssets   = "assets"
	StageSitemap  = "sitemap"
	StageFeed     = "feed"
	StageSearch   = "search"
	StageManifest = "manifest"
)

// PageResult labels the outcome of rendering one page.
type PageResult string

const (
	PageRendered PageResult = "rendered"
	PageSkipped  PageResult = "skipped"
	PageMissing  PageResult = "not_found"
	PageFailed   PageResult = "failed"
)

// BuildOutcome labels the final status of a build.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// Recorder receives build measurements.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncPageResult(result PageResult)
	IncBuildOutcome(outcome BuildOutcome)
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) ObserveStageDuration(string, time.Duration) {}
func (Noop) ObserveBuildDuration(time.Duration)         {}
func (Noop) IncPageResult(PageResult)                   {}
func (Noop) IncBuildOutcome(BuildOutcome)               {}

// Timer measures one stage; call the returned func when the stage ends.
func Timer(r Recorder, stage string) func() {
	if r == nil {
		return func() {}
	}
	start := time.Now()
	return func() { r.ObserveStageDuration(stage, time.Since(start)) }
}
