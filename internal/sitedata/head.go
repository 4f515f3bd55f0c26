package sitedata

import "strings"

// NormalizeHead drops disabled and incomplete entries and keeps the first
// script for each id within each list. A disabled head config yields an empty one.
func NormalizeHead(cfg HeadConfig) HeadConfig {
	if !cfg.Enabled {
		return HeadConfig{}
	}

	out := HeadConfig{Enabled: true}
	for _, meta := range cfg.Meta {
		if !isEnabled(meta.Enabled) || strings.TrimSpace(meta.Name) == "" {
			continue
		}
		out.Meta = append(out.Meta, meta)
	}

	seen := map[string]struct{}{}
	for _, script := range cfg.Scripts {
		id := strings.TrimSpace(script.ID)
		if !isEnabled(script.Enabled) || id == "" || strings.TrimSpace(script.Src) == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out.Scripts = append(out.Scripts, script)
	}

	seen = map[string]struct{}{}
	for _, script := range cfg.InlineScripts {
		id := strings.TrimSpace(script.ID)
		if !isEnabled(script.Enabled) || id == "" || strings.TrimSpace(script.Code) == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out.InlineScripts = append(out.InlineScripts, script)
	}
	return out
}

func isEnabled(flag *bool) bool {
	return flag == nil || *flag
}
