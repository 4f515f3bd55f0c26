package content

import (
	"regexp"
	"strings"
)

const (
	// PlaceholderImage is used when a post has no image of its own.
	PlaceholderImage = "/assets/placeholders/placeholder.jpg"

	ThumbHigh    = "hq"
	ThumbMaxRes  = "max"
	youtubeThumb = "https://i.ytimg.com/vi/"
)

var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)youtu\.be/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`(?i)[?&]v=([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`(?i)/embed/([A-Za-z0-9_-]{6,})`),
	regexp.MustCompile(`(?i)/shorts/([A-Za-z0-9_-]{6,})`),
}

// YouTubeID extracts the video id from the common YouTube URL shapes.
func YouTubeID(url string) string {
	value := strings.TrimSpace(url)
	if value == "" {
		return ""
	}
	for _, pattern := range youtubePatterns {
		if match := pattern.FindStringSubmatch(value); len(match) > 1 {
			return match[1]
		}
	}
	return ""
}

// YouTubeThumb returns the thumbnail URL for a video id.
func YouTubeThumb(id, quality string) string {
	if strings.TrimSpace(id) == "" {
		return ""
	}
	if quality == ThumbMaxRes {
		return youtubeThumb + id + "/maxresdefault.jpg"
	}
	return youtubeThumb + id + "/hqdefault.jpg"
}

// YouTubeEmbed returns the embeddable player URL for a video URL.
func YouTubeEmbed(url string) string {
	id := YouTubeID(url)
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}

// ResolveImage picks the featured image, then a video thumbnail for TV
// posts, then fallback (PlaceholderImage when empty).
func ResolveImage(post Post, fallback string) string {
	if manual := strings.TrimSpace(post.FeaturedImage); manual != "" {
		return manual
	}
	if post.IsTV() {
		if thumb := YouTubeThumb(YouTubeID(post.YouTube), ThumbHigh); thumb != "" {
			return thumb
		}
	}
	if strings.TrimSpace(fallback) == "" {
		return PlaceholderImage
	}
	return fallback
}
