package converter

import "fmt"

// convertImage records an img source and emits its placeholder.
func (s *state) convertImage(node Node) (string, error) {
	return s.recordMedia(MediaImage, node, false)
}

// convertVideo handles a video element, or a figure wrapping one. Only the
// first video child of a figure is considered; the rest of the figure is
// not rendered.
func (s *state) convertVideo(node Node) (string, error) {
	video := node
	if node.Tag != TagVideo {
		for _, child := range node.Children {
			if child.HasTag(TagVideo) {
				video = child
				break
			}
		}
	}
	return s.recordMedia(MediaVideo, video, false)
}

// convertIframe handles embedded players. Telegraph proxies YouTube and
// Vimeo embeds under /embed/, so the provider cascade applies here.
func (s *state) convertIframe(node Node) (string, error) {
	return s.recordMedia(MediaVideo, node, true)
}

func (s *state) recordMedia(kind MediaKind, node Node, embed bool) (string, error) {
	src := node.Attr("src")

	if src == "" {
		if s.config.PlaceholderNumbering == NumberingPerElement {
			counter := s.nextCounter(kind)
			s.addWarning(
				WarningMissingSource,
				string(node.Tag),
				fmt.Sprintf("%s element without src consumed placeholder number %d", node.Tag, counter),
			)
			return "", nil
		}
		s.addWarning(WarningMissingSource, string(node.Tag), fmt.Sprintf("%s element without src skipped", node.Tag))
		return "", nil
	}

	counter := s.nextCounter(kind)
	url, err := s.applyMediaHook(MediaInput{
		SourcePath: s.options.SourcePath,
		Kind:       kind,
		Tag:        node.Tag,
		Src:        src,
		URL:        s.normalizer.Normalize(src, embed),
		Counter:    counter,
		Attrs:      cloneStringMap(node.Attrs),
	})
	if err != nil {
		return "", err
	}

	if kind == MediaImage {
		s.imageURLs = append(s.imageURLs, url)
		return fmt.Sprintf("[image_%d]", counter), nil
	}
	s.videoURLs = append(s.videoURLs, url)
	return fmt.Sprintf("[video_%d]", counter), nil
}

func (s *state) nextCounter(kind MediaKind) int {
	if kind == MediaImage {
		s.imageCounter++
		return s.imageCounter
	}
	s.videoCounter++
	return s.videoCounter
}

func hasVideoChild(node Node) bool {
	for _, child := range node.Children {
		if child.HasTag(TagVideo) {
			return true
		}
	}
	return false
}
