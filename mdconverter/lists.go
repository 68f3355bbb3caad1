package mdconverter

import (
	"github.com/yuin/goldmark/ast"

	"github.com/rgonek/telegraph-extract/converter"
)

func (s *state) convertListNode(node *ast.List) ([]converter.Node, error) {
	tag := converter.TagUl
	if node.IsOrdered() {
		tag = converter.TagOl
	}

	var items []converter.Node
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}

		content, err := s.convertBlockChildren(item)
		if err != nil {
			return nil, err
		}
		items = append(items, converter.Element(converter.TagLi, flattenBlocks(content)...))
	}

	if len(items) == 0 {
		return nil, nil
	}

	return []converter.Node{converter.Element(tag, items...)}, nil
}
