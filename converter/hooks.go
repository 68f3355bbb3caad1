package converter

import (
	"context"
	"errors"
)

// ErrUnresolved indicates that a media reference could not be resolved by a hook.
var ErrUnresolved = errors.New("unresolved media reference")

// ResolutionMode controls how unresolved hook results are handled.
type ResolutionMode string

const (
	// ResolutionBestEffort continues conversion and keeps the normalized URL.
	ResolutionBestEffort ResolutionMode = "best_effort"
	// ResolutionStrict fails conversion when a hook returns ErrUnresolved.
	ResolutionStrict ResolutionMode = "strict"
)

// ConvertOptions carries optional per-conversion context.
type ConvertOptions struct {
	SourcePath string
}

// MediaKind distinguishes the two media lists.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaHook can rewrite the URL recorded for a media reference.
type MediaHook func(ctx context.Context, in MediaInput) (MediaOutput, error)

// MediaInput describes a media reference about to be recorded.
type MediaInput struct {
	SourcePath string
	Kind       MediaKind
	Tag        Tag
	Src        string // raw src attribute
	URL        string // src after normalization
	Counter    int    // number the placeholder will carry
	Attrs      map[string]string
}

// MediaOutput contains the hook-provided URL.
type MediaOutput struct {
	URL     string
	Handled bool
}
