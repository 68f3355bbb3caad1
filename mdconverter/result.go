package mdconverter

import (
	"encoding/json"

	"github.com/rgonek/telegraph-extract/converter"
)

// Result holds the output of a Markdown or HTML import. The metadata fields
// are only set from front matter.
type Result struct {
	Title      string              `json:"title,omitempty"`
	AuthorName string              `json:"author_name,omitempty"`
	AuthorURL  string              `json:"author_url,omitempty"`
	Nodes      []converter.Node    `json:"content"`
	Warnings   []converter.Warning `json:"warnings,omitempty"`
}

// ContentJSON encodes the nodes in the Telegraph content wire format.
func (r Result) ContentJSON() ([]byte, error) {
	return json.Marshal(r.Nodes)
}
