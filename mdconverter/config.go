package mdconverter

import (
	"fmt"
	"net/url"
	"strings"
)

// CaptionSource controls which image text becomes a figure caption.
type CaptionSource string

const (
	CaptionAlt   CaptionSource = "alt"
	CaptionTitle CaptionSource = "title"
	CaptionNone  CaptionSource = "none"
)

// EmbedDetection controls how standalone video-hosting links are converted.
type EmbedDetection string

const (
	// EmbedDetectIframe turns a paragraph holding only a YouTube or Vimeo
	// link into a figure with a Telegraph embed iframe.
	EmbedDetectIframe EmbedDetection = "iframe"
	// EmbedDetectNone keeps such links as ordinary anchors.
	EmbedDetectNone EmbedDetection = "none"
)

// HTMLPolicy controls how raw HTML in Markdown is handled.
type HTMLPolicy string

const (
	HTMLParse HTMLPolicy = "parse"
	HTMLText  HTMLPolicy = "text"
	HTMLDrop  HTMLPolicy = "drop"
)

// FrontMatterPolicy controls a leading YAML metadata block.
type FrontMatterPolicy string

const (
	// FrontMatterParse reads title and author fields from a leading
	// "---" delimited YAML block and removes it from the body.
	FrontMatterParse FrontMatterPolicy = "parse"
	// FrontMatterNone converts the document as written.
	FrontMatterNone FrontMatterPolicy = "none"
)

var defaultVideoExtensions = []string{".mp4", ".webm", ".mov"}

// Config configures Markdown to Telegraph node conversion.
type Config struct {
	FigureCaptions  CaptionSource     `json:"figureCaptions,omitempty"`
	EmbedDetection  EmbedDetection    `json:"embedDetection,omitempty"`
	RawHTML         HTMLPolicy        `json:"rawHTML,omitempty"`
	FrontMatter     FrontMatterPolicy `json:"frontMatter,omitempty"`
	MediaBaseURL    string            `json:"mediaBaseURL,omitempty"`
	VideoExtensions []string          `json:"videoExtensions,omitempty"`
	ResolutionMode  ResolutionMode    `json:"resolutionMode,omitempty"`
	LinkHook        LinkHook          `json:"-"`
	MediaHook       MediaHook         `json:"-"`
}

func (c Config) applyDefaults() Config {
	if c.FigureCaptions == "" {
		c.FigureCaptions = CaptionAlt
	}
	if c.EmbedDetection == "" {
		c.EmbedDetection = EmbedDetectIframe
	}
	if c.RawHTML == "" {
		c.RawHTML = HTMLParse
	}
	if c.FrontMatter == "" {
		c.FrontMatter = FrontMatterParse
	}
	if c.VideoExtensions == nil {
		c.VideoExtensions = defaultVideoExtensions
	}
	if c.ResolutionMode == "" {
		c.ResolutionMode = ResolutionBestEffort
	}

	return c
}

func (c Config) clone() Config {
	cloned := c
	cloned.VideoExtensions = make([]string, 0, len(c.VideoExtensions))
	for _, ext := range c.VideoExtensions {
		cloned.VideoExtensions = append(cloned.VideoExtensions, strings.ToLower(strings.TrimSpace(ext)))
	}
	return cloned
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.FigureCaptions != CaptionAlt && c.FigureCaptions != CaptionTitle && c.FigureCaptions != CaptionNone {
		return fmt.Errorf("invalid figureCaptions %q", c.FigureCaptions)
	}

	if c.EmbedDetection != EmbedDetectIframe && c.EmbedDetection != EmbedDetectNone {
		return fmt.Errorf("invalid embedDetection %q", c.EmbedDetection)
	}

	if c.RawHTML != HTMLParse && c.RawHTML != HTMLText && c.RawHTML != HTMLDrop {
		return fmt.Errorf("invalid rawHTML policy %q", c.RawHTML)
	}

	if c.FrontMatter != FrontMatterParse && c.FrontMatter != FrontMatterNone {
		return fmt.Errorf("invalid frontMatter policy %q", c.FrontMatter)
	}

	if c.MediaBaseURL != "" {
		parsed, err := url.Parse(c.MediaBaseURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("invalid mediaBaseURL %q: must be an absolute http(s) URL", c.MediaBaseURL)
		}
	}

	for _, ext := range c.VideoExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("invalid video extension %q: must start with a dot", ext)
		}
	}

	if c.ResolutionMode != ResolutionBestEffort && c.ResolutionMode != ResolutionStrict {
		return fmt.Errorf("invalid resolutionMode %q", c.ResolutionMode)
	}

	return nil
}
