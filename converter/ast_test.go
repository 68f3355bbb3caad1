package converter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodes(t *testing.T) {
	nodes, err := ParseNodes([]byte(`[
		"text",
		{"tag": "a", "attrs": {"href": "https://example.com", "target": 1}, "children": ["link"]},
		{"children": ["untagged"]},
		{"tag": "p", "children": "not-an-array"},
		{"tag": 5},
		12
	]`))
	require.NoError(t, err)
	require.Len(t, nodes, 6)

	assert.Equal(t, Text("text"), nodes[0])

	assert.True(t, nodes[1].HasTag(TagA))
	assert.Equal(t, map[string]string{"href": "https://example.com"}, nodes[1].Attrs)
	assert.Equal(t, "https://example.com", nodes[1].Attr("href"))
	assert.Equal(t, "", nodes[1].Attr("target"))
	assert.Equal(t, []Node{Text("link")}, nodes[1].Children)

	assert.True(t, nodes[2].IsElement())
	assert.Equal(t, Tag(""), nodes[2].Tag)
	assert.Equal(t, []Node{Text("untagged")}, nodes[2].Children)

	assert.True(t, nodes[3].HasTag(TagP))
	assert.Empty(t, nodes[3].Children)

	assert.True(t, nodes[4].IsElement())
	assert.Equal(t, Tag(""), nodes[4].Tag)

	assert.Equal(t, KindInvalid, nodes[5].Kind)
}

func TestParseNodesNull(t *testing.T) {
	nodes, err := ParseNodes([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestNodeMarshalJSON(t *testing.T) {
	nodes := []Node{
		Text("hello"),
		ElementWithAttrs(TagA, map[string]string{"href": "/x"}, Text("x")),
		Element(TagHr),
		{Kind: KindInvalid},
	}

	data, err := json.Marshal(nodes)
	require.NoError(t, err)
	assert.JSONEq(t, `["hello",{"tag":"a","attrs":{"href":"/x"},"children":["x"]},{"tag":"hr"},null]`, string(data))
}

func TestNodeUnmarshalIntoStruct(t *testing.T) {
	var page struct {
		Content []Node `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"content":[{"tag":"p","children":["a",{"tag":"br"}]}]}`), &page))

	assert.Equal(t, []Node{Element(TagP, Text("a"), Element(TagBr))}, page.Content)
}

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "element", KindElement.String())
	assert.Equal(t, "invalid", KindInvalid.String())
}
