package mdconverter

import (
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/rgonek/telegraph-extract/converter"
)

func (s *state) convertImage(node *ast.Image) (converter.Node, error) {
	alt := strings.TrimSpace(plainText(node, s.source))
	destination := s.resolveMediaBase(strings.TrimSpace(string(node.Destination)))

	src, kind, err := s.applyMediaHook(MediaInput{
		SourcePath:  s.options.SourcePath,
		Destination: destination,
		Alt:         alt,
		Title:       string(node.Title),
		Kind:        s.mediaKind(destination),
	})
	if err != nil {
		return converter.Node{}, err
	}

	tag := converter.TagImg
	if kind == converter.MediaVideo {
		tag = converter.TagVideo
	}
	return converter.ElementWithAttrs(tag, map[string]string{"src": src}), nil
}

// convertFigure renders a paragraph holding only an image as a captioned figure.
func (s *state) convertFigure(node *ast.Image) (converter.Node, error) {
	media, err := s.convertImage(node)
	if err != nil {
		return converter.Node{}, err
	}

	children := []converter.Node{media}
	if caption := s.caption(node); caption != "" {
		children = append(children, converter.Element(converter.TagFigcaption, converter.Text(caption)))
	}

	return converter.Element(converter.TagFigure, children...), nil
}

func (s *state) caption(node *ast.Image) string {
	switch s.config.FigureCaptions {
	case CaptionAlt:
		return strings.TrimSpace(plainText(node, s.source))
	case CaptionTitle:
		return strings.TrimSpace(string(node.Title))
	default:
		return ""
	}
}

func (s *state) resolveMediaBase(destination string) string {
	if s.config.MediaBaseURL == "" || destination == "" || strings.HasPrefix(destination, "/") {
		return destination
	}
	if parsed, err := url.Parse(destination); err == nil && parsed.Scheme != "" {
		return destination
	}
	return strings.TrimRight(s.config.MediaBaseURL, "/") + "/" + strings.TrimPrefix(destination, "./")
}

func (s *state) mediaKind(destination string) converter.MediaKind {
	p := destination
	if parsed, err := url.Parse(destination); err == nil {
		p = parsed.Path
	}
	ext := strings.ToLower(path.Ext(p))
	for _, videoExt := range s.config.VideoExtensions {
		if ext == videoExt {
			return converter.MediaVideo
		}
	}
	return converter.MediaImage
}

// embedSource returns the Telegraph embed path for YouTube and Vimeo links.
func (s *state) embedSource(destination string) (string, bool) {
	if s.config.EmbedDetection != EmbedDetectIframe {
		return "", false
	}

	parsed, err := url.Parse(strings.TrimSpace(destination))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", false
	}

	switch strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.") {
	case "youtube.com", "m.youtube.com", "youtu.be":
		return "/embed/youtube?url=" + url.QueryEscape(parsed.String()), true
	case "vimeo.com", "player.vimeo.com":
		return "/embed/vimeo?url=" + url.QueryEscape(parsed.String()), true
	default:
		return "", false
	}
}

func embedFigure(src string) converter.Node {
	return converter.Element(converter.TagFigure,
		converter.ElementWithAttrs(converter.TagIframe, map[string]string{"src": src}),
	)
}
