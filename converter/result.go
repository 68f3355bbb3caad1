package converter

// Result holds the output of a conversion.
type Result struct {
	Text      string    `json:"text_content"`
	ImageURLs []string  `json:"image_urls"`
	VideoURLs []string  `json:"video_urls"`
	Warnings  []Warning `json:"warnings,omitempty"`
}

// WarningType categorizes conversion warnings.
type WarningType string

const (
	WarningMalformedNode       WarningType = "malformed_node"
	WarningMissingSource       WarningType = "missing_source"
	WarningUnresolvedReference WarningType = "unresolved_reference"
	WarningDroppedFeature      WarningType = "dropped_feature"
)

// Warning represents a non-fatal issue encountered during conversion.
type Warning struct {
	Type     WarningType `json:"type"`
	NodeType string      `json:"nodeType,omitempty"`
	Message  string      `json:"message"`
}
