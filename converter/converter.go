package converter

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Converter converts Telegraph node trees to placeholder-annotated text.
type Converter struct {
	config     Config
	normalizer Normalizer
}

type state struct {
	config     Config
	normalizer Normalizer
	ctx        context.Context
	options    ConvertOptions

	imageURLs    []string
	videoURLs    []string
	imageCounter int
	videoCounter int
	warnings     []Warning
}

// New creates a new Converter with the given config.
func New(config Config) (*Converter, error) {
	cfg := config.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Converter{
		config:     cfg,
		normalizer: cfg.normalizer(),
	}, nil
}

// Convert converts a root node sequence.
func (c *Converter) Convert(nodes []Node) (Result, error) {
	return c.ConvertWithContext(context.Background(), nodes, ConvertOptions{})
}

// ConvertJSON decodes a JSON content array and converts it.
func (c *Converter) ConvertJSON(input []byte) (Result, error) {
	nodes, err := ParseNodes(input)
	if err != nil {
		return Result{}, err
	}
	return c.Convert(nodes)
}

// ConvertWithContext converts a root node sequence. The context is only
// handed to the media hook; conversion itself never blocks.
func (c *Converter) ConvertWithContext(ctx context.Context, nodes []Node, opts ConvertOptions) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s := &state{
		config:     c.config,
		normalizer: c.normalizer,
		ctx:        ctx,
		options:    opts,
		imageURLs:  []string{},
		videoURLs:  []string{},
	}

	text, err := s.convertNodes(nodes)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Text:      strings.TrimSpace(text),
		ImageURLs: s.imageURLs,
		VideoURLs: s.videoURLs,
		Warnings:  s.warnings,
	}, nil
}

func (s *state) addWarning(warnType WarningType, nodeType, message string) {
	s.warnings = append(s.warnings, Warning{
		Type:     warnType,
		NodeType: nodeType,
		Message:  message,
	})
}

// convertNodes converts a sibling sequence into one string.
func (s *state) convertNodes(nodes []Node) (string, error) {
	var sb strings.Builder
	for _, node := range nodes {
		res, err := s.convertNode(node)
		if err != nil {
			return "", err
		}
		sb.WriteString(res)
	}
	return sb.String(), nil
}

func (s *state) convertNode(node Node) (string, error) {
	switch node.Kind {
	case KindText:
		return s.convertText(node), nil
	case KindElement:
		return s.convertElement(node)
	default:
		if s.config.MalformedNodes == UnknownError {
			return "", fmt.Errorf("malformed node: expected string or element object")
		}
		s.addWarning(WarningMalformedNode, node.Kind.String(), "skipped node that is neither text nor element")
		return "", nil
	}
}

func (s *state) convertElement(node Node) (string, error) {
	switch {
	case node.Tag == TagImg:
		return s.convertImage(node)

	case node.Tag == TagVideo, node.Tag == TagFigure && hasVideoChild(node):
		return s.convertVideo(node)

	case node.Tag == TagIframe:
		return s.convertIframe(node)

	case node.Tag.isFlow():
		return s.convertFlow(node)

	case node.Tag == TagFigure:
		return s.convertFigure(node)

	case node.Tag == TagBr:
		return s.convertHardBreak(), nil

	case node.Tag == TagHr:
		return s.convertRule(), nil

	case node.Tag == TagUl, node.Tag == TagOl:
		return s.convertList(node)

	case node.Tag == TagPre:
		return s.convertCodeBlock(node)

	case len(node.Children) > 0:
		// Unrecognized wrappers (aside, b, i, u, s, ...) pass their content through.
		return s.convertNodes(node.Children)

	default:
		return "", nil
	}
}

func (s *state) convertText(node Node) string {
	switch s.config.TextNormalization {
	case NormalizeNFC:
		return norm.NFC.String(node.Text)
	case NormalizeNFKC:
		return norm.NFKC.String(node.Text)
	default:
		return node.Text
	}
}
