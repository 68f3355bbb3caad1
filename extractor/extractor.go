// Package extractor fetches a Telegraph page and converts its content into
// placeholder-annotated text and ordered media URL lists.
package extractor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rgonek/telegraph-extract/converter"
	"github.com/rgonek/telegraph-extract/telegraph"
)

// Fetcher retrieves a page by its Telegraph path.
type Fetcher interface {
	GetPage(ctx context.Context, path string) (*telegraph.Page, error)
}

// Document is the outcome of a successful extraction.
type Document struct {
	Path        string `json:"path"`
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	AuthorName  string `json:"author_name,omitempty"`
	AuthorURL   string `json:"author_url,omitempty"`
	Views       int    `json:"views,omitempty"`

	converter.Result
}

// Extractor combines a Fetcher and a Converter.
type Extractor struct {
	fetcher   Fetcher
	converter *converter.Converter
	logger    zerolog.Logger
}

// New creates an Extractor.
func New(fetcher Fetcher, conv *converter.Converter, logger zerolog.Logger) *Extractor {
	return &Extractor{
		fetcher:   fetcher,
		converter: conv,
		logger:    logger,
	}
}

// Extract fetches the page named by locator and converts it. Every failure is
// an *Error; no partial document is returned.
func (e *Extractor) Extract(ctx context.Context, locator string) (Document, error) {
	log := e.logger.With().Str("url", locator).Logger()
	log.Info().Msg("starting extraction")

	path, err := telegraph.PathFromURL(locator)
	if err != nil {
		return Document{}, e.fail(log, &Error{
			Kind:    KindInvalidInput,
			Message: fmt.Sprintf("Invalid Telegraph URL: %v", err),
			Err:     err,
		})
	}
	if path == "" {
		return Document{}, e.fail(log, &Error{
			Kind:    KindInvalidInput,
			Message: "Invalid Telegraph URL: Missing path component.",
		})
	}

	page, err := e.fetcher.GetPage(ctx, path)
	if err != nil {
		return Document{}, e.fail(log, classifyFetchError(err))
	}

	var content []converter.Node
	if page != nil {
		content = page.Content
	}

	result, err := e.converter.ConvertWithContext(ctx, content, converter.ConvertOptions{SourcePath: path})
	if err != nil {
		return Document{}, e.fail(log, &Error{
			Kind:    KindConversion,
			Message: fmt.Sprintf("Error converting Telegraph content: %v", err),
			Err:     err,
		})
	}

	doc := Document{Path: path, Result: result}
	if page != nil {
		doc.URL = page.URL
		doc.Title = page.Title
		doc.Description = page.Description
		doc.AuthorName = page.AuthorName
		doc.AuthorURL = page.AuthorURL
		doc.Views = page.Views
		if page.Path != "" {
			doc.Path = page.Path
		}
	}

	for _, w := range result.Warnings {
		log.Debug().Str("type", string(w.Type)).Str("node", w.NodeType).Msg(w.Message)
	}
	log.Info().
		Int("text_length", len(result.Text)).
		Int("images", len(result.ImageURLs)).
		Int("videos", len(result.VideoURLs)).
		Msg("extraction complete")

	return doc, nil
}

func (e *Extractor) fail(log zerolog.Logger, err *Error) error {
	log.Error().Str("kind", string(err.Kind)).Msg(err.Message)
	return err
}

func classifyFetchError(err error) *Error {
	var apiErr *telegraph.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = "Unknown error from Telegraph API"
		}
		return &Error{
			Kind:    KindUpstream,
			Message: "Telegraph API error: " + msg,
			Err:     err,
		}
	}

	if errors.Is(err, telegraph.ErrMalformedResponse) {
		return &Error{
			Kind:    KindMalformedResponse,
			Message: "Error parsing JSON response from Telegraph API.",
			Err:     err,
		}
	}

	return &Error{
		Kind:    KindFetchFailed,
		Message: fmt.Sprintf("Error fetching Telegraph page: %v", err),
		Err:     err,
	}
}
