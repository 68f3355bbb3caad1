package mdconverter

import (
	"context"

	"github.com/rgonek/telegraph-extract/converter"
)

// ErrUnresolved indicates that a link or media reference could not be resolved by a hook.
var ErrUnresolved = converter.ErrUnresolved

// ResolutionMode controls how unresolved hook results are handled.
type ResolutionMode = converter.ResolutionMode

const (
	ResolutionBestEffort ResolutionMode = converter.ResolutionBestEffort
	ResolutionStrict     ResolutionMode = converter.ResolutionStrict
)

// ConvertOptions carries optional per-conversion context.
type ConvertOptions struct {
	SourcePath string
}

// LinkHook can rewrite link destinations during Markdown to Telegraph conversion.
type LinkHook func(ctx context.Context, in LinkInput) (LinkOutput, error)

// MediaHook can map image destinations to uploaded media URLs.
type MediaHook func(ctx context.Context, in MediaInput) (MediaOutput, error)

// LinkInput describes a markdown link being converted.
type LinkInput struct {
	SourcePath  string
	Destination string
	Title       string
	Text        string
}

// LinkOutput contains the hook-provided destination.
type LinkOutput struct {
	Destination string
	Handled     bool
}

// MediaInput describes a markdown image being converted.
type MediaInput struct {
	SourcePath  string
	Destination string // after MediaBaseURL resolution
	Alt         string
	Title       string
	Kind        converter.MediaKind
}

// MediaOutput contains hook-provided media overrides. An empty Kind keeps
// the detected kind.
type MediaOutput struct {
	URL     string
	Kind    converter.MediaKind
	Handled bool
}
