package mdconverter

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/rgonek/telegraph-extract/converter"
)

func (s *state) convertDocument(root ast.Node) ([]converter.Node, error) {
	if err := s.checkContext(); err != nil {
		return nil, err
	}

	content, err := s.convertBlockChildren(root)
	if err != nil {
		return nil, err
	}
	if content == nil {
		content = []converter.Node{}
	}

	return content, nil
}

func (s *state) convertBlockChildren(parent ast.Node) ([]converter.Node, error) {
	var content []converter.Node

	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if err := s.checkContext(); err != nil {
			return nil, err
		}

		converted, err := s.convertBlockNode(child)
		if err != nil {
			return nil, err
		}
		content = append(content, converted...)
	}

	return content, nil
}

func (s *state) convertBlockNode(node ast.Node) ([]converter.Node, error) {
	switch typed := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return s.convertParagraphNode(typed)
	case *ast.Heading:
		return s.convertHeadingNode(typed)
	case *ast.Blockquote:
		return s.convertBlockquoteNode(typed)
	case *ast.ThematicBreak:
		return []converter.Node{converter.Element(converter.TagHr)}, nil
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return s.convertCodeBlockNode(typed)
	case *ast.List:
		return s.convertListNode(typed)
	case *ast.HTMLBlock:
		return s.convertHTMLBlockNode(typed)
	case *extast.Table:
		return s.convertTableNode(typed)
	default:
		nodeKind := typed.Kind().String()
		textValue := strings.TrimSpace(plainText(node, s.source))
		if textValue == "" {
			return nil, nil
		}
		s.addWarning(
			converter.WarningDroppedFeature,
			nodeKind,
			fmt.Sprintf("unsupported markdown block node: %s", nodeKind),
		)
		return []converter.Node{
			converter.Element(converter.TagP, converter.Text(textValue)),
		}, nil
	}
}

// flattenBlocks unwraps paragraphs for containers whose Telegraph form holds
// inline content (li, blockquote). Consecutive paragraphs are separated by br.
func flattenBlocks(nodes []converter.Node) []converter.Node {
	var out []converter.Node
	prevParagraph := false

	for _, node := range nodes {
		if !node.HasTag(converter.TagP) {
			out = append(out, node)
			prevParagraph = false
			continue
		}
		if prevParagraph {
			out = append(out, converter.Element(converter.TagBr))
		}
		for _, child := range node.Children {
			out = appendInlineNode(out, child)
		}
		prevParagraph = true
	}

	return out
}

func linesText(lines *text.Segments, source []byte) string {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(source))
	}
	return sb.String()
}

// plainText concatenates the text and string leaves under node.
func plainText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch typed := n.(type) {
		case *ast.Text:
			sb.Write(typed.Segment.Value(source))
			if typed.SoftLineBreak() || typed.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(typed.Value)
		case *ast.AutoLink:
			sb.Write(typed.Label(source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
