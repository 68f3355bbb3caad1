package converter

import "strings"

// convertFlow renders inline and flow elements in place, adding a newline
// after block-level members.
func (s *state) convertFlow(node Node) (string, error) {
	content, err := s.convertNodes(node.Children)
	if err != nil {
		return "", err
	}
	if node.Tag.isBlock() {
		return content + "\n", nil
	}
	return content, nil
}

// convertFigure renders a figure that does not hold a video, typically an
// image with its caption.
func (s *state) convertFigure(node Node) (string, error) {
	content, err := s.convertNodes(node.Children)
	if err != nil {
		return "", err
	}
	return content + "\n", nil
}

func (s *state) convertHardBreak() string {
	return "\n"
}

func (s *state) convertRule() string {
	return "\n---\n"
}

// convertCodeBlock renders a pre element as a fenced code block. Code
// children are unwrapped; other children are converted directly.
func (s *state) convertCodeBlock(node Node) (string, error) {
	var sb strings.Builder
	for _, child := range node.Children {
		var (
			res string
			err error
		)
		if child.HasTag(TagCode) {
			res, err = s.convertNodes(child.Children)
		} else {
			res, err = s.convertNode(child)
		}
		if err != nil {
			return "", err
		}
		sb.WriteString(res)
	}

	code := strings.TrimSpace(sb.String())
	return "\n```\n" + code + "\n```\n", nil
}
