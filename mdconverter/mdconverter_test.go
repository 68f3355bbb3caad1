package mdconverter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgonek/telegraph-extract/converter"
)

func newTestConverter(t testing.TB, cfg Config) *Converter {
	t.Helper()

	conv, err := New(cfg)
	require.NoError(t, err)

	return conv
}

func convertJSON(t *testing.T, cfg Config, markdown string) (string, Result) {
	t.Helper()

	result, err := newTestConverter(t, cfg).Convert(markdown)
	require.NoError(t, err)

	content, err := result.ContentJSON()
	require.NoError(t, err)

	return string(content), result
}

func TestConvertBlocks(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name:     "empty",
			markdown: "",
			want:     `[]`,
		},
		{
			name:     "headings",
			markdown: "# Title\n\n## Sub\n\n### Small\n\n###### Tiny\n",
			want: `[{"tag":"h3","children":["Title"]},{"tag":"h3","children":["Sub"]},
				{"tag":"h4","children":["Small"]},{"tag":"h4","children":["Tiny"]}]`,
		},
		{
			name:     "inline marks",
			markdown: "Hello *em* **strong** ~~gone~~ `code` [link](https://x.example)",
			want: `[{"tag":"p","children":["Hello ",{"tag":"em","children":["em"]}," ",
				{"tag":"strong","children":["strong"]}," ",{"tag":"s","children":["gone"]}," ",
				{"tag":"code","children":["code"]}," ",
				{"tag":"a","attrs":{"href":"https://x.example"},"children":["link"]}]}]`,
		},
		{
			name:     "soft break",
			markdown: "a\nb",
			want:     `[{"tag":"p","children":["a b"]}]`,
		},
		{
			name:     "hard break",
			markdown: "a  \nb",
			want:     `[{"tag":"p","children":["a",{"tag":"br"},"b"]}]`,
		},
		{
			name:     "lists",
			markdown: "- one\n- two\n\n1. first\n2. second\n",
			want: `[{"tag":"ul","children":[{"tag":"li","children":["one"]},{"tag":"li","children":["two"]}]},
				{"tag":"ol","children":[{"tag":"li","children":["first"]},{"tag":"li","children":["second"]}]}]`,
		},
		{
			name:     "nested list",
			markdown: "- a\n  - b\n",
			want: `[{"tag":"ul","children":[{"tag":"li","children":["a",
				{"tag":"ul","children":[{"tag":"li","children":["b"]}]}]}]}]`,
		},
		{
			name:     "task list",
			markdown: "- [x] done\n- [ ] todo\n",
			want: `[{"tag":"ul","children":[{"tag":"li","children":["[x] done"]},
				{"tag":"li","children":["[ ] todo"]}]}]`,
		},
		{
			name:     "blockquote",
			markdown: "> line one\n> line two\n",
			want:     `[{"tag":"blockquote","children":["line one line two"]}]`,
		},
		{
			name:     "blockquote paragraphs",
			markdown: "> p1\n>\n> p2\n",
			want:     `[{"tag":"blockquote","children":["p1",{"tag":"br"},"p2"]}]`,
		},
		{
			name:     "fenced code",
			markdown: "```go\nx := 1\n```\n",
			want:     `[{"tag":"pre","children":["x := 1"]}]`,
		},
		{
			name:     "indented code",
			markdown: "    y\n",
			want:     `[{"tag":"pre","children":["y"]}]`,
		},
		{
			name:     "thematic break",
			markdown: "a\n\n---\n\nb",
			want:     `[{"tag":"p","children":["a"]},{"tag":"hr"},{"tag":"p","children":["b"]}]`,
		},
		{
			name:     "email autolink",
			markdown: "<me@example.com>",
			want:     `[{"tag":"p","children":[{"tag":"a","attrs":{"href":"mailto:me@example.com"},"children":["me@example.com"]}]}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := convertJSON(t, Config{}, tt.markdown)
			assert.JSONEq(t, tt.want, got)
		})
	}
}

func TestConvertFigures(t *testing.T) {
	got, _ := convertJSON(t, Config{}, `![A cat](/file/cat.png "Title")`)
	assert.JSONEq(t, `[{"tag":"figure","children":[{"tag":"img","attrs":{"src":"/file/cat.png"}},
		{"tag":"figcaption","children":["A cat"]}]}]`, got)

	got, _ = convertJSON(t, Config{FigureCaptions: CaptionTitle}, `![A cat](/file/cat.png "Title")`)
	assert.JSONEq(t, `[{"tag":"figure","children":[{"tag":"img","attrs":{"src":"/file/cat.png"}},
		{"tag":"figcaption","children":["Title"]}]}]`, got)

	got, _ = convertJSON(t, Config{FigureCaptions: CaptionNone}, `![A cat](/file/cat.png)`)
	assert.JSONEq(t, `[{"tag":"figure","children":[{"tag":"img","attrs":{"src":"/file/cat.png"}}]}]`, got)

	got, _ = convertJSON(t, Config{}, `![](/a.png)`)
	assert.JSONEq(t, `[{"tag":"figure","children":[{"tag":"img","attrs":{"src":"/a.png"}}]}]`, got)
}

func TestConvertVideoFigure(t *testing.T) {
	got, _ := convertJSON(t, Config{}, `![clip](https://cdn.example/v.MP4?x=1)`)
	assert.JSONEq(t, `[{"tag":"figure","children":[{"tag":"video","attrs":{"src":"https://cdn.example/v.MP4?x=1"}},
		{"tag":"figcaption","children":["clip"]}]}]`, got)

	got, _ = convertJSON(t, Config{VideoExtensions: []string{}}, `![clip](https://cdn.example/v.mp4)`)
	assert.Contains(t, got, `"tag":"img"`)
}

func TestConvertInlineImage(t *testing.T) {
	got, _ := convertJSON(t, Config{}, `Look ![i](/file/a.png) here`)
	assert.JSONEq(t, `[{"tag":"p","children":["Look ",{"tag":"img","attrs":{"src":"/file/a.png"}}," here"]}]`, got)
}

func TestConvertEmbeds(t *testing.T) {
	got, _ := convertJSON(t, Config{}, "https://www.youtube.com/watch?v=abc")
	assert.JSONEq(t, `[{"tag":"figure","children":[{"tag":"iframe",
		"attrs":{"src":"/embed/youtube?url=https%3A%2F%2Fwww.youtube.com%2Fwatch%3Fv%3Dabc"}}]}]`, got)

	got, _ = convertJSON(t, Config{}, "[video](https://vimeo.com/123)")
	assert.JSONEq(t, `[{"tag":"figure","children":[{"tag":"iframe",
		"attrs":{"src":"/embed/vimeo?url=https%3A%2F%2Fvimeo.com%2F123"}}]}]`, got)

	got, _ = convertJSON(t, Config{EmbedDetection: EmbedDetectNone}, "[video](https://vimeo.com/123)")
	assert.JSONEq(t, `[{"tag":"p","children":[{"tag":"a","attrs":{"href":"https://vimeo.com/123"},"children":["video"]}]}]`, got)

	got, _ = convertJSON(t, Config{}, "Watch [this](https://vimeo.com/123) now")
	assert.Contains(t, got, `"tag":"a"`)
	assert.NotContains(t, got, "iframe")
}

func TestConvertInlineHTML(t *testing.T) {
	got, result := convertJSON(t, Config{}, "x <u>under</u> <i>it</i> y<br>z")
	assert.JSONEq(t, `[{"tag":"p","children":["x ",{"tag":"u","children":["under"]}," ",
		{"tag":"i","children":["it"]}," y",{"tag":"br"},"z"]}]`, got)
	assert.Empty(t, result.Warnings)

	got, result = convertJSON(t, Config{}, "a <u>b")
	assert.JSONEq(t, `[{"tag":"p","children":["a ",{"tag":"u","children":["b"]}]}]`, got)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, converter.WarningDroppedFeature, result.Warnings[0].Type)

	got, result = convertJSON(t, Config{}, "a <span>b</span>")
	assert.JSONEq(t, `[{"tag":"p","children":["a b"]}]`, got)
	assert.Len(t, result.Warnings, 2)

	got, _ = convertJSON(t, Config{}, `see <a href="https://x.example" onclick="x()">here</a>`)
	assert.JSONEq(t, `[{"tag":"p","children":["see ",{"tag":"a","attrs":{"href":"https://x.example"},"children":["here"]}]}]`, got)
}

func TestConvertRawHTMLPolicies(t *testing.T) {
	got, _ := convertJSON(t, Config{RawHTML: HTMLText}, "<div>x</div>\n")
	assert.JSONEq(t, `[{"tag":"p","children":["<div>x</div>"]}]`, got)

	got, result := convertJSON(t, Config{RawHTML: HTMLDrop}, "<div>x</div>\n")
	assert.JSONEq(t, `[]`, got)
	require.Len(t, result.Warnings, 1)

	got, _ = convertJSON(t, Config{RawHTML: HTMLDrop}, "a <u>b</u>")
	assert.JSONEq(t, `[{"tag":"p","children":["a b"]}]`, got)
}

func TestConvertTable(t *testing.T) {
	got, result := convertJSON(t, Config{}, "| a | b |\n|---|---|\n| 1 | 2 |\n")
	assert.JSONEq(t, `[{"tag":"p","children":[{"tag":"strong","children":["a | b"]}]},
		{"tag":"p","children":["1 | 2"]}]`, got)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, converter.WarningDroppedFeature, result.Warnings[0].Type)
}

func TestMediaBaseURL(t *testing.T) {
	cfg := Config{MediaBaseURL: "https://cdn.example/assets/"}

	got, _ := convertJSON(t, cfg, "![x](img/a.png)")
	assert.Contains(t, got, `"src":"https://cdn.example/assets/img/a.png"`)

	got, _ = convertJSON(t, cfg, "![x](./b.png)")
	assert.Contains(t, got, `"src":"https://cdn.example/assets/b.png"`)

	got, _ = convertJSON(t, cfg, "![x](/file/c.png)")
	assert.Contains(t, got, `"src":"/file/c.png"`)

	got, _ = convertJSON(t, cfg, "![x](https://other.example/d.png)")
	assert.Contains(t, got, `"src":"https://other.example/d.png"`)
}

func TestConvertWithCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestConverter(t, Config{}).ConvertWithContext(ctx, "# x", ConvertOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRoundTripThroughConverter(t *testing.T) {
	markdown := strings.Join([]string{
		"# Title",
		"",
		"Hello ![i](/file/a.png) world",
		"",
		"![cap](/file/b.png)",
		"",
		"https://youtu.be/xyz",
		"",
	}, "\n")

	imported, err := newTestConverter(t, Config{}).Convert(markdown)
	require.NoError(t, err)

	conv, err := converter.New(converter.Config{})
	require.NoError(t, err)

	result, err := conv.Convert(imported.Nodes)
	require.NoError(t, err)

	assert.Equal(t, "Title\nHello [image_1] world\n[image_2]cap\n[video_1]", result.Text)
	assert.Equal(t, []string{"https://telegra.ph/file/a.png", "https://telegra.ph/file/b.png"}, result.ImageURLs)
	assert.Equal(t, []string{"https://www.youtube.com/embed/youtube?url=https%3A%2F%2Fyoutu.be%2Fxyz"}, result.VideoURLs)
}

func TestFrontMatter(t *testing.T) {
	markdown := "---\ntitle: Hello\nauthor: Ann\nauthor_url: https://t.me/ann\n---\n# Body\n"

	content, result := convertJSON(t, Config{}, markdown)
	assert.Equal(t, "Hello", result.Title)
	assert.Equal(t, "Ann", result.AuthorName)
	assert.Equal(t, "https://t.me/ann", result.AuthorURL)
	assert.JSONEq(t, `[{"tag":"h3","children":["Body"]}]`, content)
	assert.Empty(t, result.Warnings)
}

func TestFrontMatterAuthorNamePrecedence(t *testing.T) {
	_, result := convertJSON(t, Config{}, "---\nauthor: a\nauthor_name: b\n---\ntext")
	assert.Equal(t, "b", result.AuthorName)
}

func TestFrontMatterDisabled(t *testing.T) {
	content, result := convertJSON(t, Config{FrontMatter: FrontMatterNone}, "---\ntitle: Hello\n---\n\nbody")
	assert.Empty(t, result.Title)
	assert.Contains(t, content, `"tag":"hr"`)
}

func TestFrontMatterInvalidYAML(t *testing.T) {
	_, result := convertJSON(t, Config{}, "---\ntitle: [unclosed\n---\n\nbody")
	assert.Empty(t, result.Title)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "front_matter", result.Warnings[0].NodeType)
	assert.Contains(t, result.Warnings[0].Message, "front matter ignored")
}

func TestHasFrontMatter(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"---\ntitle: x\n---\nbody", true},
		{"---\r\ntitle: x\r\n---\r\n", true},
		{"---\nno closing line", false},
		{"a\n---\nb\n---", false},
		{"----\nx\n---", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hasFrontMatter([]byte(tt.source)), "%q", tt.source)
	}
}
