package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := DefaultNormalizer()

	tests := []struct {
		name     string
		src      string
		embed    bool
		expected string
	}{
		{name: "site relative", src: "/file/abc.jpg", expected: "https://telegra.ph/file/abc.jpg"},
		{name: "absolute unchanged", src: "https://cdn.example.com/a.png", expected: "https://cdn.example.com/a.png"},
		{name: "protocol relative", src: "//cdn.example.com/a.png", expected: "https://telegra.ph//cdn.example.com/a.png"},
		{name: "data uri unchanged", src: "data:image/png;base64,AAA", expected: "data:image/png;base64,AAA"},
		{name: "youtube embed", src: "/embed/youtube/xyz", embed: true, expected: "https://www.youtube.com/embed/youtube/xyz"},
		{name: "vimeo embed", src: "/embed/vimeo?url=1", embed: true, expected: "https://player.vimeo.com/embed/vimeo?url=1"},
		{name: "other embed", src: "/embed/twitter?url=1", embed: true, expected: "https://telegra.ph/embed/twitter?url=1"},
		{name: "youtube path without embed hint", src: "/embed/youtube/xyz", expected: "https://telegra.ph/embed/youtube/xyz"},
		{name: "absolute with embed hint", src: "https://www.youtube.com/embed/abc", embed: true, expected: "https://www.youtube.com/embed/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.src, tt.embed))
		})
	}
}
