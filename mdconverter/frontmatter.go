package mdconverter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	yaml "gopkg.in/yaml.v3"

	"github.com/rgonek/telegraph-extract/converter"
)

var yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

type frontMatter struct {
	Title      string `yaml:"title"`
	AuthorName string `yaml:"author_name"`
	Author     string `yaml:"author"`
	AuthorURL  string `yaml:"author_url"`
}

func (m frontMatter) authorName() string {
	if m.AuthorName != "" {
		return m.AuthorName
	}
	return m.Author
}

// splitFrontMatter strips a leading YAML block from s.source. A block that
// does not decode is left in place with a warning.
func (s *state) splitFrontMatter() frontMatter {
	if s.config.FrontMatter != FrontMatterParse || !hasFrontMatter(s.source) {
		return frontMatter{}
	}

	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(s.source), &meta, yamlFrontMatter)
	if err != nil {
		s.addWarning(converter.WarningMalformedNode, "front_matter", fmt.Sprintf("front matter ignored: %v", err))
		return frontMatter{}
	}

	s.source = body
	meta.Title = strings.TrimSpace(meta.Title)
	meta.AuthorName = strings.TrimSpace(meta.AuthorName)
	meta.Author = strings.TrimSpace(meta.Author)
	meta.AuthorURL = strings.TrimSpace(meta.AuthorURL)
	return meta
}

// hasFrontMatter reports whether source opens with a "---" line that is
// closed by a later "---" line.
func hasFrontMatter(source []byte) bool {
	source = bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))
	rest, ok := bytes.CutPrefix(source, []byte("---\n"))
	if !ok {
		return false
	}
	for _, line := range bytes.Split(rest, []byte("\n")) {
		if string(bytes.TrimRight(line, " \t")) == "---" {
			return true
		}
	}
	return false
}
