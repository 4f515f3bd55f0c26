package generator

import (
	"context"

	"github.com/goliatone/go-newsroom/internal/search"
)

// writeSearchIndex emits the index the search page fetches. Only news posts
// are searchable.
func (s *service) writeSearchIndex(ctx context.Context, writer artifactWriter, buildCtx *BuildContext) error {
	index := search.BuildIndex(buildCtx.Site.Posts, s.deps.Router.PostHref)
	data, err := index.Marshal()
	if err != nil {
		return err
	}
	return s.writeText(ctx, writer, s.cfg.SearchIndexFile, string(data), categorySearch, "application/json", buildCtx.GeneratedAt)
}
