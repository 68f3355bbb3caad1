package converter

// Tag is the tag name of an element node.
type Tag string

// Tags that carry conversion rules. Anything else is passed through.
const (
	TagA          Tag = "a"
	TagAside      Tag = "aside"
	TagB          Tag = "b"
	TagBlockquote Tag = "blockquote"
	TagBr         Tag = "br"
	TagCode       Tag = "code"
	TagEm         Tag = "em"
	TagFigcaption Tag = "figcaption"
	TagFigure     Tag = "figure"
	TagH3         Tag = "h3"
	TagH4         Tag = "h4"
	TagHr         Tag = "hr"
	TagI          Tag = "i"
	TagIframe     Tag = "iframe"
	TagImg        Tag = "img"
	TagLi         Tag = "li"
	TagOl         Tag = "ol"
	TagP          Tag = "p"
	TagPre        Tag = "pre"
	TagS          Tag = "s"
	TagSpan       Tag = "span"
	TagStrong     Tag = "strong"
	TagU          Tag = "u"
	TagUl         Tag = "ul"
	TagVideo      Tag = "video"
)

// isFlow reports whether children of the tag are rendered in place.
func (t Tag) isFlow() bool {
	switch t {
	case TagP, TagA, TagLi, TagH3, TagH4, TagEm, TagStrong, TagFigcaption, TagBlockquote, TagCode, TagSpan:
		return true
	default:
		return false
	}
}

// isBlock reports whether a flow tag is followed by a newline.
func (t Tag) isBlock() bool {
	switch t {
	case TagP, TagH3, TagH4, TagLi, TagBlockquote:
		return true
	default:
		return false
	}
}
