// Package mdconverter converts Markdown and HTML into Telegraph content nodes.
package mdconverter

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/rgonek/telegraph-extract/converter"
)

// Converter converts GFM markdown to Telegraph nodes.
type Converter struct {
	config Config
	parser goldmark.Markdown
}

type state struct {
	config   Config
	source   []byte
	ctx      context.Context
	options  ConvertOptions
	warnings []converter.Warning
}

// New creates a new Converter with the given config.
func New(config Config) (*Converter, error) {
	cfg := config.applyDefaults().clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Converter{
		config: cfg,
		parser: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}, nil
}

// Convert takes a markdown document and returns Telegraph nodes.
func (c *Converter) Convert(markdown string) (Result, error) {
	return c.ConvertWithContext(context.Background(), markdown, ConvertOptions{})
}

// ConvertWithContext converts markdown, stopping early if ctx is canceled.
func (c *Converter) ConvertWithContext(ctx context.Context, markdown string, opts ConvertOptions) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s := &state{
		config:  c.config,
		source:  []byte(markdown),
		ctx:     ctx,
		options: opts,
	}

	meta := s.splitFrontMatter()

	root := c.parser.Parser().Parse(text.NewReader(s.source))
	nodes, err := s.convertDocument(root)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Title:      meta.Title,
		AuthorName: meta.authorName(),
		AuthorURL:  meta.AuthorURL,
		Nodes:      nodes,
		Warnings:   s.warnings,
	}, nil
}

func (s *state) addWarning(warnType converter.WarningType, nodeType, message string) {
	s.warnings = append(s.warnings, converter.Warning{
		Type:     warnType,
		NodeType: nodeType,
		Message:  message,
	})
}

func (s *state) checkContext() error {
	if err := s.ctx.Err(); err != nil {
		return fmt.Errorf("conversion canceled: %w", err)
	}
	return nil
}
