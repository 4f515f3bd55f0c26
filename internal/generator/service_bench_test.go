package generator

import (
	"context"
	"testing"
)

func BenchmarkBuildSequential(b *testing.B) {
	benchmarkBuild(b, 1, false)
}

func BenchmarkBuildConcurrentWithAssets(b *testing.B) {
	benchmarkBuild(b, 4, true)
}

func benchmarkBuild(b *testing.B, workers int, includeAssets bool) {
	ctx := context.Background()
	fixtures := newBuildFixtures(b)
	fixtures.config.Workers = workers
	fixtures.config.CopyAssets = includeAssets

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		svc := fixtures.service(Dependencies{
			Renderer: &recordingRenderer{},
			Storage:  &recordingStorage{},
		})
		if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
			b.Fatalf("benchmark build: %v", err)
		}
	}
}
