package mdconverter

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/rgonek/telegraph-extract/converter"
)

func (s *state) convertInlineChildren(parent ast.Node) ([]converter.Node, error) {
	stack := newInlineStack()

	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if raw, ok := child.(*ast.RawHTML); ok {
			if err := s.convertRawHTML(rawHTMLText(raw, s.source), stack); err != nil {
				return nil, err
			}
			continue
		}

		converted, err := s.convertInlineNode(child)
		if err != nil {
			return nil, err
		}
		for _, node := range converted {
			stack.append(node)
		}
	}

	return stack.finish(s), nil
}

func (s *state) convertInlineNode(node ast.Node) ([]converter.Node, error) {
	switch typed := node.(type) {
	case *ast.Text:
		var content []converter.Node
		textValue := string(typed.Segment.Value(s.source))
		if _, afterCheckBox := typed.PreviousSibling().(*extast.TaskCheckBox); afterCheckBox {
			textValue = strings.TrimLeft(textValue, " \t")
		}
		if textValue != "" {
			content = append(content, converter.Text(textValue))
		}

		if typed.HardLineBreak() {
			content = append(content, converter.Element(converter.TagBr))
		} else if typed.SoftLineBreak() {
			content = append(content, converter.Text(" "))
		}

		return content, nil

	case *ast.String:
		return []converter.Node{converter.Text(string(typed.Value))}, nil

	case *ast.Emphasis:
		tag := converter.TagEm
		if typed.Level >= 2 {
			tag = converter.TagStrong
		}
		return s.wrapInline(tag, nil, typed)

	case *extast.Strikethrough:
		return s.wrapInline(converter.TagS, nil, typed)

	case *ast.CodeSpan:
		return s.wrapInline(converter.TagCode, nil, typed)

	case *ast.Link:
		href, err := s.applyLinkHook(LinkInput{
			SourcePath:  s.options.SourcePath,
			Destination: strings.TrimSpace(string(typed.Destination)),
			Title:       string(typed.Title),
			Text:        plainText(typed, s.source),
		})
		if err != nil {
			return nil, err
		}
		if href == "" {
			return s.convertInlineChildren(typed)
		}
		return s.wrapInline(converter.TagA, map[string]string{"href": href}, typed)

	case *ast.AutoLink:
		label := string(typed.Label(s.source))
		destination := string(typed.URL(s.source))
		if typed.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower([]byte(destination)), []byte("mailto:")) {
			destination = "mailto:" + destination
		}
		href, err := s.applyLinkHook(LinkInput{
			SourcePath:  s.options.SourcePath,
			Destination: destination,
			Text:        label,
		})
		if err != nil {
			return nil, err
		}
		return []converter.Node{
			converter.ElementWithAttrs(converter.TagA, map[string]string{"href": href}, converter.Text(label)),
		}, nil

	case *ast.Image:
		media, err := s.convertImage(typed)
		if err != nil {
			return nil, err
		}
		return []converter.Node{media}, nil

	case *extast.TaskCheckBox:
		if typed.IsChecked {
			return []converter.Node{converter.Text("[x] ")}, nil
		}
		return []converter.Node{converter.Text("[ ] ")}, nil

	default:
		if node.HasChildren() {
			return s.convertInlineChildren(node)
		}
		textValue := plainText(node, s.source)
		if textValue == "" {
			return nil, nil
		}
		s.addWarning(
			converter.WarningDroppedFeature,
			node.Kind().String(),
			"unsupported inline node converted to text",
		)
		return []converter.Node{converter.Text(textValue)}, nil
	}
}

func (s *state) wrapInline(tag converter.Tag, attrs map[string]string, node ast.Node) ([]converter.Node, error) {
	content, err := s.convertInlineChildren(node)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, nil
	}
	return []converter.Node{converter.ElementWithAttrs(tag, attrs, content...)}, nil
}

func rawHTMLText(node *ast.RawHTML, source []byte) string {
	var sb strings.Builder
	for i := 0; i < node.Segments.Len(); i++ {
		segment := node.Segments.At(i)
		sb.Write(segment.Value(source))
	}
	return sb.String()
}

// appendInlineNode appends next, merging adjacent text runs.
func appendInlineNode(content []converter.Node, next converter.Node) []converter.Node {
	if next.IsText() && next.Text == "" {
		return content
	}

	if len(content) == 0 {
		return append(content, next)
	}

	last := &content[len(content)-1]
	if last.IsText() && next.IsText() {
		last.Text += next.Text
		return content
	}

	return append(content, next)
}
