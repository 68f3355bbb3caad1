package mdconverter

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/rgonek/telegraph-extract/converter"
)

func (s *state) convertParagraphNode(node ast.Node) ([]converter.Node, error) {
	if only := soleChild(node); only != nil {
		switch typed := only.(type) {
		case *ast.Image:
			figure, err := s.convertFigure(typed)
			if err != nil {
				return nil, err
			}
			return []converter.Node{figure}, nil
		case *ast.Link:
			if embed, ok := s.embedSource(string(typed.Destination)); ok {
				return []converter.Node{embedFigure(embed)}, nil
			}
		case *ast.AutoLink:
			if embed, ok := s.embedSource(string(typed.URL(s.source))); ok {
				return []converter.Node{embedFigure(embed)}, nil
			}
		}
	}

	content, err := s.convertInlineChildren(node)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, nil
	}

	return []converter.Node{converter.Element(converter.TagP, content...)}, nil
}

func soleChild(node ast.Node) ast.Node {
	first := node.FirstChild()
	if first == nil || first.NextSibling() != nil {
		return nil
	}
	return first
}

// Telegraph only has two heading levels.
func headingTag(level int) converter.Tag {
	if level <= 2 {
		return converter.TagH3
	}
	return converter.TagH4
}

func (s *state) convertHeadingNode(node *ast.Heading) ([]converter.Node, error) {
	content, err := s.convertInlineChildren(node)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, nil
	}

	return []converter.Node{converter.Element(headingTag(node.Level), content...)}, nil
}

func (s *state) convertBlockquoteNode(node *ast.Blockquote) ([]converter.Node, error) {
	content, err := s.convertBlockChildren(node)
	if err != nil {
		return nil, err
	}
	content = flattenBlocks(content)
	if len(content) == 0 {
		return nil, nil
	}

	return []converter.Node{converter.Element(converter.TagBlockquote, content...)}, nil
}

func (s *state) convertCodeBlockNode(node ast.Node) ([]converter.Node, error) {
	textValue := strings.TrimRight(linesText(node.Lines(), s.source), "\n")

	if textValue == "" {
		return []converter.Node{converter.Element(converter.TagPre)}, nil
	}
	return []converter.Node{converter.Element(converter.TagPre, converter.Text(textValue))}, nil
}

// convertTableNode flattens a table into one paragraph per row. Telegraph
// has no table markup.
func (s *state) convertTableNode(node *extast.Table) ([]converter.Node, error) {
	s.addWarning(
		converter.WarningDroppedFeature,
		node.Kind().String(),
		"table flattened to paragraphs",
	)

	var rows []converter.Node
	for row := node.FirstChild(); row != nil; row = row.NextSibling() {
		var content []converter.Node
		cellIndex := 0
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cellContent, err := s.convertInlineChildren(cell)
			if err != nil {
				return nil, err
			}
			if cellIndex > 0 {
				content = appendInlineNode(content, converter.Text(" | "))
			}
			for _, n := range cellContent {
				content = appendInlineNode(content, n)
			}
			cellIndex++
		}

		if _, isHeader := row.(*extast.TableHeader); isHeader && len(content) > 0 {
			content = []converter.Node{converter.Element(converter.TagStrong, content...)}
		}
		if len(content) > 0 {
			rows = append(rows, converter.Element(converter.TagP, content...))
		}
	}

	return rows, nil
}
