package markdown

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func articlePolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("figure", "figcaption")
		p.AllowAttrs("class").OnElements("figure", "figcaption", "code")
		p.AllowAttrs("id").OnElements("h2", "h3", "h4", "h5", "h6")
		policy = p
	})
	return policy
}

// sanitizeHTML strips scripts, event handlers and other markup outside the
// user-generated-content allow list.
func sanitizeHTML(input []byte) []byte {
	return articlePolicy().SanitizeBytes(input)
}
