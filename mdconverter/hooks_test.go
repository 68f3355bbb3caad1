package mdconverter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgonek/telegraph-extract/converter"
)

func TestLinkHookRewritesDestination(t *testing.T) {
	cfg := Config{
		LinkHook: func(_ context.Context, in LinkInput) (LinkOutput, error) {
			assert.Equal(t, "docs/page.md", in.SourcePath)
			assert.Equal(t, "other.md", in.Destination)
			assert.Equal(t, "other", in.Text)
			return LinkOutput{Destination: "https://telegra.ph/Other-01-01", Handled: true}, nil
		},
	}

	result, err := newTestConverter(t, cfg).ConvertWithContext(context.Background(), "[other](other.md)", ConvertOptions{SourcePath: "docs/page.md"})
	require.NoError(t, err)

	content, err := result.ContentJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"tag":"p","children":[{"tag":"a","attrs":{"href":"https://telegra.ph/Other-01-01"},"children":["other"]}]}]`, string(content))
}

func TestLinkHookUnresolved(t *testing.T) {
	hook := func(context.Context, LinkInput) (LinkOutput, error) {
		return LinkOutput{}, ErrUnresolved
	}

	got, result := convertJSON(t, Config{LinkHook: hook}, "[a](missing.md)")
	assert.Contains(t, got, `"href":"missing.md"`)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, converter.WarningUnresolvedReference, result.Warnings[0].Type)

	_, err := newTestConverter(t, Config{LinkHook: hook, ResolutionMode: ResolutionStrict}).Convert("[a](missing.md)")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolved))
}

func TestLinkHookInvalidOutput(t *testing.T) {
	hook := func(context.Context, LinkInput) (LinkOutput, error) {
		return LinkOutput{Handled: true}, nil
	}

	_, err := newTestConverter(t, Config{LinkHook: hook}).Convert("[a](b)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid link hook output")
}

func TestMediaHookUploadsImage(t *testing.T) {
	hook := func(_ context.Context, in MediaInput) (MediaOutput, error) {
		assert.Equal(t, "local/pic.png", in.Destination)
		assert.Equal(t, "pic", in.Alt)
		assert.Equal(t, converter.MediaImage, in.Kind)
		return MediaOutput{URL: "/file/abc.png", Handled: true}, nil
	}

	got, _ := convertJSON(t, Config{MediaHook: hook}, "![pic](local/pic.png)")
	assert.JSONEq(t, `[{"tag":"figure","children":[{"tag":"img","attrs":{"src":"/file/abc.png"}},
		{"tag":"figcaption","children":["pic"]}]}]`, got)
}

func TestMediaHookOverridesKind(t *testing.T) {
	hook := func(context.Context, MediaInput) (MediaOutput, error) {
		return MediaOutput{URL: "/file/v", Kind: converter.MediaVideo, Handled: true}, nil
	}

	got, _ := convertJSON(t, Config{MediaHook: hook, FigureCaptions: CaptionNone}, "![x](clip)")
	assert.JSONEq(t, `[{"tag":"figure","children":[{"tag":"video","attrs":{"src":"/file/v"}}]}]`, got)
}

func TestMediaHookErrors(t *testing.T) {
	tests := []struct {
		name   string
		hook   MediaHook
		mode   ResolutionMode
		errMsg string
	}{
		{
			name: "unresolved strict",
			hook: func(context.Context, MediaInput) (MediaOutput, error) {
				return MediaOutput{}, ErrUnresolved
			},
			mode:   ResolutionStrict,
			errMsg: `unresolved image "a.png"`,
		},
		{
			name: "failure",
			hook: func(context.Context, MediaInput) (MediaOutput, error) {
				return MediaOutput{}, errors.New("upload failed")
			},
			errMsg: "media hook failed: upload failed",
		},
		{
			name: "empty url",
			hook: func(context.Context, MediaInput) (MediaOutput, error) {
				return MediaOutput{Handled: true}, nil
			},
			errMsg: "invalid media hook output",
		},
		{
			name: "bad kind",
			hook: func(context.Context, MediaInput) (MediaOutput, error) {
				return MediaOutput{URL: "/x", Kind: "audio", Handled: true}, nil
			},
			errMsg: `unsupported media kind "audio"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestConverter(t, Config{MediaHook: tt.hook, ResolutionMode: tt.mode}).Convert("![a](a.png)")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMediaHookUnresolvedBestEffort(t *testing.T) {
	hook := func(context.Context, MediaInput) (MediaOutput, error) {
		return MediaOutput{}, ErrUnresolved
	}

	got, result := convertJSON(t, Config{MediaHook: hook}, "![a](a.png)")
	assert.Contains(t, got, `"src":"a.png"`)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, converter.WarningUnresolvedReference, result.Warnings[0].Type)
}
