package sitedata

import "strings"

// DefaultMenus is served when menus.json is missing or unreadable.
func DefaultMenus() MenusConfig {
	return MenusConfig{
		Header: []MenuLink{
			{Type: MenuTypeHome, Label: "الرئيسية", Href: "/"},
			{Type: MenuTypeCategory, Label: "لبنان", Slug: "lebanon"},
			{Type: MenuTypeCategory, Label: "العالم", Slug: "world"},
			{Type: MenuTypeCategory, Label: "اقتصاد", Slug: "economy"},
			{Type: MenuTypeCategory, Label: "تحليلات", Slug: "analysis"},
			{Type: MenuTypeCategory, Label: "زاوية المحرّر", Slug: "editorial"},
			{Type: MenuTypeCustom, Label: "BeiruTalk TV", Href: "/videos"},
		},
		FooterSections: []MenuLink{
			{Type: MenuTypeCustom, Label: "آخر الأخبار", Href: "/latest"},
			{Type: MenuTypeCustom, Label: "كل الأخبار", Href: "/news"},
			{Type: MenuTypeCategory, Label: "لبنان", Slug: "lebanon"},
			{Type: MenuTypeCategory, Label: "العالم", Slug: "world"},
			{Type: MenuTypeCategory, Label: "اقتصاد", Slug: "economy"},
		},
	}
}

// NormalizeMenus fills missing sections from the defaults and cleans links.
func NormalizeMenus(cfg MenusConfig) MenusConfig {
	fallback := DefaultMenus()
	header := cfg.Header
	if header == nil {
		header = fallback.Header
	}
	footer := cfg.FooterSections
	if footer == nil {
		footer = fallback.FooterSections
	}
	return MenusConfig{
		Header:         normalizeLinks(header),
		FooterSections: normalizeLinks(footer),
	}
}

func normalizeLinks(links []MenuLink) []MenuLink {
	enabled := true
	out := make([]MenuLink, 0, len(links))
	for _, link := range links {
		if link.Enabled != nil && !*link.Enabled {
			continue
		}
		link.Label = strings.TrimSpace(link.Label)
		if link.Label == "" {
			continue
		}
		link.Enabled = &enabled
		link.Href = linkHref(link)
		out = append(out, link)
	}
	return out
}

func linkHref(link MenuLink) string {
	if href := strings.TrimSpace(link.Href); href != "" {
		return href
	}
	switch link.Type {
	case MenuTypeHome:
		return "/"
	case MenuTypeCategory:
		if slug := strings.TrimSpace(link.Slug); slug != "" {
			return "/category/" + slug
		}
	}
	return "#"
}
