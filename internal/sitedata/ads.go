package sitedata

import "strings"

const (
	defaultAdHref   = "#"
	defaultAdAlt    = "Ad"
	defaultAdWidth  = 900
	defaultAdHeight = 500
)

// RenderableAd is an ad slot with every default applied.
type RenderableAd struct {
	ID     string
	Type   string
	Label  string
	Image  string
	Href   string
	Alt    string
	NewTab bool
	Width  int
	Height int

	AdsenseClient string
	AdsenseSlot   string
	Format        string
	Responsive    bool
}

// ResolveSlot returns the slot with id when it can be rendered: it must be
// enabled, a custom slot needs an image, and an adsense slot needs an
// enabled account with a client id.
func (a AdsConfig) ResolveSlot(id string) (RenderableAd, bool) {
	for _, slot := range a.Slots {
		if slot.ID != id {
			continue
		}
		if !slot.Enabled {
			return RenderableAd{}, false
		}
		switch slot.Type {
		case AdTypeCustom:
			return resolveCustom(slot)
		case AdTypeAdsense:
			return a.resolveAdsense(slot)
		default:
			return RenderableAd{}, false
		}
	}
	return RenderableAd{}, false
}

func resolveCustom(slot AdSlot) (RenderableAd, bool) {
	if slot.Custom == nil || strings.TrimSpace(slot.Custom.Image) == "" {
		return RenderableAd{}, false
	}
	custom := slot.Custom
	ad := RenderableAd{
		ID:     slot.ID,
		Type:   AdTypeCustom,
		Label:  slot.Label,
		Image:  strings.TrimSpace(custom.Image),
		Href:   orDefault(custom.Href, defaultAdHref),
		Alt:    orDefault(custom.Alt, defaultAdAlt),
		NewTab: true,
		Width:  defaultAdWidth,
		Height: defaultAdHeight,
	}
	if custom.OpenInNewTab != nil {
		ad.NewTab = *custom.OpenInNewTab
	}
	if custom.Width != nil {
		ad.Width = *custom.Width
	}
	if custom.Height != nil {
		ad.Height = *custom.Height
	}
	return ad, true
}

func (a AdsConfig) resolveAdsense(slot AdSlot) (RenderableAd, bool) {
	if !a.Adsense.Enabled || strings.TrimSpace(a.Adsense.Client) == "" {
		return RenderableAd{}, false
	}
	ad := RenderableAd{
		ID:            slot.ID,
		Type:          AdTypeAdsense,
		Label:         slot.Label,
		AdsenseClient: strings.TrimSpace(a.Adsense.Client),
	}
	if slot.Adsense != nil {
		ad.AdsenseSlot = slot.Adsense.Slot
		ad.Format = slot.Adsense.Format
		ad.Responsive = slot.Adsense.Responsive
	}
	return ad, true
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
