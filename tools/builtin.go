package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgonek/telegraph-extract/extractor"
)

const (
	ToolExtractTelegraph = "extract_telegraph"
	ToolGreet            = "greet"
	ToolHealth           = "health"
)

// Extractor is the dependency of the extract_telegraph tool.
type Extractor interface {
	Extract(ctx context.Context, locator string) (extractor.Document, error)
}

// ExtractionResult is the success payload of extract_telegraph.
type ExtractionResult struct {
	TextContent string   `json:"text_content"`
	ImageURLs   []string `json:"image_urls"`
	VideoURLs   []string `json:"video_urls"`
}

// ErrorResult is the failure payload of every builtin tool.
type ErrorResult struct {
	Error string `json:"error"`
}

func errorResult(msg string) json.RawMessage {
	out, _ := json.Marshal(ErrorResult{Error: msg})
	return out
}

// NewBuiltinRegistry registers extract_telegraph, greet and health.
func NewBuiltinRegistry(ex Extractor) (*Registry, error) {
	if ex == nil {
		return nil, fmt.Errorf("NewBuiltinRegistry: extractor is nil")
	}

	r := NewRegistry()
	defs := []Definition{
		{
			Name:   ToolExtractTelegraph,
			SemVer: "v1.0.0",
			Description: "Extract the text content, image URLs and video URLs of a Telegraph page. " +
				"Images and videos are marked in the text as [image_N] and [video_N].",
			Schema: json.RawMessage(`{
				"type": "object",
				"properties": {"url": {"type": "string", "description": "Telegraph page URL"}},
				"required": ["url"]
			}`),
			Capabilities: []string{"fetch", "extract"},
			Handler:      extractHandler(ex),
		},
		{
			Name:        ToolGreet,
			SemVer:      "v1.0.0",
			Description: "Greet a user by name",
			Schema: json.RawMessage(`{
				"type": "object",
				"properties": {"name": {"type": "string"}},
				"required": ["name"]
			}`),
			Handler: greetHandler,
		},
		{
			Name:         ToolHealth,
			SemVer:       "v1.0.0",
			Description:  "Report server health",
			Schema:       json.RawMessage(`{"type": "object", "properties": {}}`),
			Capabilities: []string{"health"},
			Handler:      healthHandler,
		},
	}

	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func extractHandler(ex Extractor) Handler {
	return func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		var in struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		doc, err := ex.Extract(ctx, strings.TrimSpace(in.URL))
		if err != nil {
			return errorResult(err.Error()), nil
		}

		return json.Marshal(ExtractionResult{
			TextContent: doc.Text,
			ImageURLs:   nonNil(doc.ImageURLs),
			VideoURLs:   nonNil(doc.VideoURLs),
		})
	}
}

func greetHandler(_ context.Context, args json.RawMessage) (json.RawMessage, error) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	return json.Marshal(fmt.Sprintf("Hello, %s!", in.Name))
}

func healthHandler(context.Context, json.RawMessage) (json.RawMessage, error) {
	return json.Marshal("OK")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
