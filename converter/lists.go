package converter

import "strings"

const bulletMarker = "- "

// convertList renders ul and ol the same way: each li becomes a bullet line.
// Stray children that are not li are converted in place.
func (s *state) convertList(node Node) (string, error) {
	var sb strings.Builder

	for _, item := range node.Children {
		if !item.HasTag(TagLi) {
			res, err := s.convertNode(item)
			if err != nil {
				return "", err
			}
			sb.WriteString(res)
			continue
		}

		itemContent, err := s.convertNodes(item.Children)
		if err != nil {
			return "", err
		}
		sb.WriteString(bulletMarker)
		sb.WriteString(itemContent)
		sb.WriteString("\n")
	}

	return sb.String() + "\n", nil
}
