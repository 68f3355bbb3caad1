package converter

import (
	"fmt"
	"net/url"
	"strings"
)

// PlaceholderNumbering controls when the image and video counters advance.
type PlaceholderNumbering string

const (
	// NumberingPerElement advances the counter for every media element,
	// including elements without a usable src. Marker numbers may then skip
	// values and stop lining up with URL list positions.
	NumberingPerElement PlaceholderNumbering = "per_element"
	// NumberingPerURL advances the counter only when a URL is recorded, so
	// [image_N] always refers to ImageURLs[N-1].
	NumberingPerURL PlaceholderNumbering = "per_url"
)

// TextNormalization controls Unicode normalization of text runs.
type TextNormalization string

const (
	NormalizeNone TextNormalization = "none"
	NormalizeNFC  TextNormalization = "nfc"
	NormalizeNFKC TextNormalization = "nfkc"
)

// UnknownPolicy controls behavior for malformed nodes.
type UnknownPolicy string

const (
	UnknownError UnknownPolicy = "error"
	UnknownSkip  UnknownPolicy = "skip"
)

// Config holds all converter configuration options.
type Config struct {
	DocumentOrigin       string               `json:"documentOrigin,omitempty"`
	YouTubeOrigin        string               `json:"youTubeOrigin,omitempty"`
	VimeoOrigin          string               `json:"vimeoOrigin,omitempty"`
	PlaceholderNumbering PlaceholderNumbering `json:"placeholderNumbering,omitempty"`
	TextNormalization    TextNormalization    `json:"textNormalization,omitempty"`
	MalformedNodes       UnknownPolicy        `json:"malformedNodes,omitempty"`
	ResolutionMode       ResolutionMode       `json:"resolutionMode,omitempty"`
	MediaHook            MediaHook            `json:"-"`
}

func (c Config) applyDefaults() Config {
	if c.DocumentOrigin == "" {
		c.DocumentOrigin = DefaultDocumentOrigin
	}
	if c.YouTubeOrigin == "" {
		c.YouTubeOrigin = DefaultYouTubeOrigin
	}
	if c.VimeoOrigin == "" {
		c.VimeoOrigin = DefaultVimeoOrigin
	}
	if c.PlaceholderNumbering == "" {
		c.PlaceholderNumbering = NumberingPerElement
	}
	if c.TextNormalization == "" {
		c.TextNormalization = NormalizeNone
	}
	if c.MalformedNodes == "" {
		c.MalformedNodes = UnknownSkip
	}
	if c.ResolutionMode == "" {
		c.ResolutionMode = ResolutionBestEffort
	}

	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if err := validateOrigin("documentOrigin", c.DocumentOrigin); err != nil {
		return err
	}
	if err := validateOrigin("youTubeOrigin", c.YouTubeOrigin); err != nil {
		return err
	}
	if err := validateOrigin("vimeoOrigin", c.VimeoOrigin); err != nil {
		return err
	}
	if c.PlaceholderNumbering != NumberingPerElement && c.PlaceholderNumbering != NumberingPerURL {
		return fmt.Errorf("invalid placeholderNumbering %q", c.PlaceholderNumbering)
	}
	if c.TextNormalization != NormalizeNone && c.TextNormalization != NormalizeNFC && c.TextNormalization != NormalizeNFKC {
		return fmt.Errorf("invalid textNormalization %q", c.TextNormalization)
	}
	if c.MalformedNodes != UnknownError && c.MalformedNodes != UnknownSkip {
		return fmt.Errorf("invalid malformedNodes policy %q", c.MalformedNodes)
	}
	if c.ResolutionMode != ResolutionBestEffort && c.ResolutionMode != ResolutionStrict {
		return fmt.Errorf("invalid resolutionMode %q", c.ResolutionMode)
	}

	return nil
}

// WithDefaults returns a copy of c with unset options filled in.
func (c Config) WithDefaults() Config {
	return c.applyDefaults()
}

func (c Config) normalizer() Normalizer {
	return Normalizer{
		DocumentOrigin: c.DocumentOrigin,
		YouTubeOrigin:  c.YouTubeOrigin,
		VimeoOrigin:    c.VimeoOrigin,
	}
}

// validateOrigin accepts scheme://host[:port] with no path or trailing slash,
// since origins are concatenated directly with site-relative paths.
func validateOrigin(name, origin string) error {
	parsed, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, origin, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid %s %q: scheme must be http or https", name, origin)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", name, origin)
	}
	if parsed.Path != "" || parsed.RawQuery != "" || parsed.Fragment != "" || strings.HasSuffix(origin, "/") {
		return fmt.Errorf("invalid %s %q: must not contain a path, query or trailing slash", name, origin)
	}
	return nil
}
