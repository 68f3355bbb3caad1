package mdconverter

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark/ast"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rgonek/telegraph-extract/converter"
)

// htmlTags maps HTML element names onto the Telegraph tag set. Elements not
// listed are unwrapped: their children are kept in place.
var htmlTags = map[string]converter.Tag{
	"a":          converter.TagA,
	"aside":      converter.TagAside,
	"b":          converter.TagB,
	"blockquote": converter.TagBlockquote,
	"br":         converter.TagBr,
	"code":       converter.TagCode,
	"del":        converter.TagS,
	"em":         converter.TagEm,
	"figcaption": converter.TagFigcaption,
	"figure":     converter.TagFigure,
	"h1":         converter.TagH3,
	"h2":         converter.TagH3,
	"h3":         converter.TagH3,
	"h4":         converter.TagH4,
	"h5":         converter.TagH4,
	"h6":         converter.TagH4,
	"hr":         converter.TagHr,
	"i":          converter.TagI,
	"iframe":     converter.TagIframe,
	"img":        converter.TagImg,
	"li":         converter.TagLi,
	"ol":         converter.TagOl,
	"p":          converter.TagP,
	"pre":        converter.TagPre,
	"s":          converter.TagS,
	"strike":     converter.TagS,
	"strong":     converter.TagStrong,
	"u":          converter.TagU,
	"ul":         converter.TagUl,
	"video":      converter.TagVideo,
}

// Elements dropped together with their content.
var droppedHTMLElements = map[string]bool{
	"script":   true,
	"style":    true,
	"head":     true,
	"template": true,
	"noscript": true,
}

// Per-tag attributes kept on conversion. Telegraph accepts only href and src.
var keptHTMLAttrs = map[converter.Tag]string{
	converter.TagA:      "href",
	converter.TagImg:    "src",
	converter.TagVideo:  "src",
	converter.TagIframe: "src",
}

// FromHTML converts an HTML fragment into Telegraph nodes.
func FromHTML(r io.Reader) ([]converter.Node, error) {
	body := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	content := convertHTMLNodes(nodes, "")
	if content == nil {
		content = []converter.Node{}
	}
	return content, nil
}

func convertHTMLNodes(nodes []*xhtml.Node, parent converter.Tag) []converter.Node {
	var content []converter.Node
	for _, n := range nodes {
		for _, converted := range convertHTMLNode(n, parent) {
			content = appendInlineNode(content, converted)
		}
	}
	return content
}

func htmlChildren(n *xhtml.Node) []*xhtml.Node {
	var children []*xhtml.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, child)
	}
	return children
}

func convertHTMLNode(n *xhtml.Node, parent converter.Tag) []converter.Node {
	switch n.Type {
	case xhtml.TextNode:
		if strings.TrimSpace(n.Data) == "" && dropsWhitespace(parent) {
			return nil
		}
		return []converter.Node{converter.Text(n.Data)}

	case xhtml.ElementNode:
		name := strings.ToLower(n.Data)
		if droppedHTMLElements[name] {
			return nil
		}

		tag, ok := htmlTags[name]
		if !ok {
			return convertHTMLNodes(htmlChildren(n), parent)
		}

		attrs := htmlAttrs(n, tag)
		switch tag {
		case converter.TagBr, converter.TagHr, converter.TagImg, converter.TagIframe, converter.TagVideo:
			return []converter.Node{converter.ElementWithAttrs(tag, attrs)}
		}

		return []converter.Node{
			converter.ElementWithAttrs(tag, attrs, convertHTMLNodes(htmlChildren(n), tag)...),
		}

	default:
		// comments, doctype
		return nil
	}
}

func htmlAttrs(n *xhtml.Node, tag converter.Tag) map[string]string {
	key, ok := keptHTMLAttrs[tag]
	if !ok {
		return nil
	}

	value := attrValue(n.Attr, key)
	if value == "" && tag == converter.TagVideo {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == xhtml.ElementNode && strings.EqualFold(child.Data, "source") {
				if value = attrValue(child.Attr, "src"); value != "" {
					break
				}
			}
		}
	}
	if value == "" {
		return nil
	}

	return map[string]string{key: value}
}

func attrValue(attrs []xhtml.Attribute, key string) string {
	for _, attr := range attrs {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func dropsWhitespace(parent converter.Tag) bool {
	switch parent {
	case "", converter.TagUl, converter.TagOl, converter.TagFigure:
		return true
	default:
		return false
	}
}

func (s *state) convertHTMLBlockNode(node ast.Node) ([]converter.Node, error) {
	raw := linesText(node.Lines(), s.source)
	if htmlBlock, ok := node.(*ast.HTMLBlock); ok && htmlBlock.HasClosure() {
		raw += string(htmlBlock.ClosureLine.Value(s.source))
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	switch s.config.RawHTML {
	case HTMLDrop:
		s.addWarning(converter.WarningDroppedFeature, node.Kind().String(), "raw html block dropped")
		return nil, nil
	case HTMLText:
		return []converter.Node{converter.Element(converter.TagP, converter.Text(raw))}, nil
	}

	nodes, err := FromHTML(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// convertRawHTML handles one inline HTML tag. Paired tags open and close
// frames on the inline stack; everything else is dropped with a warning.
func (s *state) convertRawHTML(raw string, stack *inlineStack) error {
	switch s.config.RawHTML {
	case HTMLDrop:
		return nil
	case HTMLText:
		stack.append(converter.Text(raw))
		return nil
	}

	z := xhtml.NewTokenizer(strings.NewReader(raw))
	tokenType := z.Next()
	if tokenType == xhtml.ErrorToken {
		return nil
	}
	token := z.Token()

	switch tokenType {
	case xhtml.CommentToken, xhtml.DoctypeToken:
		return nil
	}

	name := strings.ToLower(token.Data)
	tag, ok := htmlTags[name]
	if !ok {
		s.addWarning(converter.WarningDroppedFeature, name, fmt.Sprintf("unsupported inline html tag <%s> ignored", name))
		return nil
	}

	switch tag {
	case converter.TagBr, converter.TagHr:
		if tokenType != xhtml.EndTagToken {
			stack.append(converter.Element(tag))
		}
		return nil
	case converter.TagImg, converter.TagIframe, converter.TagVideo:
		if tokenType == xhtml.EndTagToken {
			return nil
		}
		src := attrValue(token.Attr, "src")
		if src == "" {
			s.addWarning(converter.WarningMissingSource, name, fmt.Sprintf("inline <%s> without src ignored", name))
			return nil
		}
		stack.append(converter.ElementWithAttrs(tag, map[string]string{"src": src}))
		return nil
	}

	switch tokenType {
	case xhtml.StartTagToken:
		var attrs map[string]string
		if key, ok := keptHTMLAttrs[tag]; ok {
			if value := attrValue(token.Attr, key); value != "" {
				attrs = map[string]string{key: value}
			}
		}
		stack.open(tag, attrs)
	case xhtml.EndTagToken:
		if !stack.close(tag) {
			s.addWarning(converter.WarningDroppedFeature, name, fmt.Sprintf("unmatched closing tag </%s> ignored", name))
		}
	}

	return nil
}

type inlineFrame struct {
	tag     converter.Tag
	attrs   map[string]string
	content []converter.Node
}

// inlineStack collects inline nodes, nesting them under HTML tags opened by
// separate raw HTML segments.
type inlineStack struct {
	frames []inlineFrame
}

func newInlineStack() *inlineStack {
	return &inlineStack{frames: []inlineFrame{{}}}
}

func (st *inlineStack) append(node converter.Node) {
	top := &st.frames[len(st.frames)-1]
	top.content = appendInlineNode(top.content, node)
}

func (st *inlineStack) open(tag converter.Tag, attrs map[string]string) {
	st.frames = append(st.frames, inlineFrame{tag: tag, attrs: attrs})
}

// close closes the innermost frame for tag, and any frames opened after it.
func (st *inlineStack) close(tag converter.Tag) bool {
	index := -1
	for i := len(st.frames) - 1; i > 0; i-- {
		if st.frames[i].tag == tag {
			index = i
			break
		}
	}
	if index < 0 {
		return false
	}

	for len(st.frames)-1 >= index {
		st.pop()
	}
	return true
}

func (st *inlineStack) pop() {
	last := st.frames[len(st.frames)-1]
	st.frames = st.frames[:len(st.frames)-1]
	if len(last.content) == 0 {
		return
	}
	st.append(converter.ElementWithAttrs(last.tag, last.attrs, last.content...))
}

func (st *inlineStack) finish(s *state) []converter.Node {
	for len(st.frames) > 1 {
		tag := st.frames[len(st.frames)-1].tag
		s.addWarning(converter.WarningDroppedFeature, string(tag), fmt.Sprintf("unclosed <%s> closed at end of inline content", tag))
		st.pop()
	}
	return st.frames[0].content
}
