package templates

import (
	"fmt"
	"html/template"
	"time"

	"github.com/goliatone/go-newsroom/internal/content"
	"github.com/goliatone/go-newsroom/internal/pagedata"
	"github.com/goliatone/go-newsroom/internal/sitedata"
)

func (r *Renderer) funcs() template.FuncMap {
	router := r.cfg.Router
	return template.FuncMap{
		"safeHTML": toHTML,
		"safeJS": func(code string) template.JS {
			return template.JS(code)
		},
		"arabicDate": func(t time.Time) string {
			return pagedata.ArabicDate(t, r.cfg.Location)
		},
		"arabicDigits": func(value any) string {
			return pagedata.ArabicDigits(fmt.Sprint(value))
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(r.cfg.Location).Format(time.RFC3339)
		},
		"postImage": func(post content.Post) string {
			return content.ResolveImage(post, r.cfg.DefaultImage)
		},
		"postURL":      router.PostHref,
		"youtubeEmbed": content.YouTubeEmbed,
		"url": func(name string, pairs ...string) string {
			params := make(map[string]string, len(pairs)/2)
			for i := 0; i+1 < len(pairs); i += 2 {
				params[pairs[i]] = pairs[i+1]
			}
			return router.MustHref(name, params)
		},
		"absURL": router.Absolute,
		"adSlot": func(ads sitedata.AdsConfig, id string) *sitedata.RenderableAd {
			ad, ok := ads.ResolveSlot(id)
			if !ok {
				return nil
			}
			return &ad
		},
		"year": func() int {
			return r.cfg.Now().In(r.cfg.Location).Year()
		},
	}
}

func toHTML(value any) template.HTML {
	switch v := value.(type) {
	case nil:
		return ""
	case template.HTML:
		return v
	case string:
		return template.HTML(v)
	default:
		return template.HTML(fmt.Sprint(v))
	}
}
