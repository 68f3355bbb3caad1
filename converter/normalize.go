package converter

import "strings"

const (
	DefaultDocumentOrigin = "https://telegra.ph"
	DefaultYouTubeOrigin  = "https://www.youtube.com"
	DefaultVimeoOrigin    = "https://player.vimeo.com"

	youTubeEmbedPrefix = "/embed/youtube"
	vimeoEmbedPrefix   = "/embed/vimeo"
)

// Normalizer turns site-relative media paths into absolute URLs.
type Normalizer struct {
	DocumentOrigin string
	YouTubeOrigin  string
	VimeoOrigin    string
}

// DefaultNormalizer returns a Normalizer using the canonical Telegraph,
// YouTube and Vimeo origins.
func DefaultNormalizer() Normalizer {
	return Normalizer{
		DocumentOrigin: DefaultDocumentOrigin,
		YouTubeOrigin:  DefaultYouTubeOrigin,
		VimeoOrigin:    DefaultVimeoOrigin,
	}
}

// Normalize resolves src against the configured origins. When embed is set,
// Telegraph's /embed/youtube and /embed/vimeo proxies are mapped to the
// provider origin first. The first matching prefix wins; anything that is
// not site-relative is returned unchanged.
func (n Normalizer) Normalize(src string, embed bool) string {
	switch {
	case embed && strings.HasPrefix(src, youTubeEmbedPrefix):
		return n.YouTubeOrigin + src
	case embed && strings.HasPrefix(src, vimeoEmbedPrefix):
		return n.VimeoOrigin + src
	case strings.HasPrefix(src, "/"):
		return n.DocumentOrigin + src
	default:
		return src
	}
}
