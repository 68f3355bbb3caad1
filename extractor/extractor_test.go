package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgonek/telegraph-extract/converter"
	"github.com/rgonek/telegraph-extract/telegraph"
)

type fakeFetcher struct {
	page  *telegraph.Page
	err   error
	calls int
	paths []string
}

func (f *fakeFetcher) GetPage(_ context.Context, path string) (*telegraph.Page, error) {
	f.calls++
	f.paths = append(f.paths, path)
	return f.page, f.err
}

func newTestExtractor(t *testing.T, fetcher Fetcher, cfg converter.Config) *Extractor {
	t.Helper()

	conv, err := converter.New(cfg)
	require.NoError(t, err)

	return New(fetcher, conv, zerolog.Nop())
}

func TestExtract(t *testing.T) {
	fetcher := &fakeFetcher{page: &telegraph.Page{
		Path:  "Sample-01-01",
		URL:   "https://telegra.ph/Sample-01-01",
		Title: "Sample",
		Views: 7,
		Content: []converter.Node{
			converter.Element(converter.TagP, converter.Text("Hi")),
			converter.Element(converter.TagFigure,
				converter.ElementWithAttrs(converter.TagImg, map[string]string{"src": "/file/a.png"}),
				converter.Element(converter.TagFigcaption, converter.Text("cap")),
			),
			converter.ElementWithAttrs(converter.TagIframe, map[string]string{"src": "/embed/vimeo?url=x"}),
		},
	}}
	ex := newTestExtractor(t, fetcher, converter.Config{})

	doc, err := ex.Extract(context.Background(), "https://telegra.ph/Sample-01-01")
	require.NoError(t, err)

	assert.Equal(t, []string{"Sample-01-01"}, fetcher.paths)
	assert.Equal(t, "Sample", doc.Title)
	assert.Equal(t, 7, doc.Views)
	assert.Equal(t, "Hi\n[image_1]cap\n[video_1]", doc.Text)
	assert.Equal(t, []string{"https://telegra.ph/file/a.png"}, doc.ImageURLs)
	assert.Equal(t, []string{"https://player.vimeo.com/embed/vimeo?url=x"}, doc.VideoURLs)
}

func TestExtractInvalidInputBeforeFetch(t *testing.T) {
	for _, locator := range []string{"", "https://telegra.ph", "https://telegra.ph/", "http://[::1"} {
		t.Run(locator, func(t *testing.T) {
			fetcher := &fakeFetcher{}
			ex := newTestExtractor(t, fetcher, converter.Config{})

			_, err := ex.Extract(context.Background(), locator)
			require.Error(t, err)
			assert.Equal(t, KindInvalidInput, KindOf(err))
			assert.Zero(t, fetcher.calls)
		})
	}
}

func TestExtractMissingPathMessage(t *testing.T) {
	ex := newTestExtractor(t, &fakeFetcher{}, converter.Config{})

	_, err := ex.Extract(context.Background(), "https://telegra.ph/")
	assert.EqualError(t, err, "Invalid Telegraph URL: Missing path component.")
}

func TestExtractErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    Kind
		message string
	}{
		{
			name:    "upstream",
			err:     &telegraph.APIError{Message: "Page not found"},
			kind:    KindUpstream,
			message: "Telegraph API error: Page not found",
		},
		{
			name:    "upstream without message",
			err:     &telegraph.APIError{},
			kind:    KindUpstream,
			message: "Telegraph API error: Unknown error from Telegraph API",
		},
		{
			name:    "malformed",
			err:     telegraph.ErrMalformedResponse,
			kind:    KindMalformedResponse,
			message: "Error parsing JSON response from Telegraph API.",
		},
		{
			name:    "fetch",
			err:     &telegraph.FetchError{Status: 500, Err: errors.New("server error")},
			kind:    KindFetchFailed,
			message: "Error fetching Telegraph page: status 500: server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := newTestExtractor(t, &fakeFetcher{err: tt.err}, converter.Config{})

			doc, err := ex.Extract(context.Background(), "https://telegra.ph/page")
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.EqualError(t, err, tt.message)
			assert.True(t, errors.Is(err, tt.err))
			assert.Equal(t, Document{}, doc)
		})
	}
}

func TestExtractNilPage(t *testing.T) {
	ex := newTestExtractor(t, &fakeFetcher{}, converter.Config{})

	doc, err := ex.Extract(context.Background(), "https://telegra.ph/empty")
	require.NoError(t, err)
	assert.Equal(t, "empty", doc.Path)
	assert.Equal(t, "", doc.Text)
	assert.Equal(t, []string{}, doc.ImageURLs)
	assert.Equal(t, []string{}, doc.VideoURLs)
}

func TestExtractConversionError(t *testing.T) {
	fetcher := &fakeFetcher{page: &telegraph.Page{Content: []converter.Node{{Kind: converter.KindInvalid}}}}
	ex := newTestExtractor(t, fetcher, converter.Config{MalformedNodes: converter.UnknownError})

	_, err := ex.Extract(context.Background(), "https://telegra.ph/bad")
	require.Error(t, err)
	assert.Equal(t, KindConversion, KindOf(err))
}

func TestExtractWithTelegraphClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/getPage/Found-01-01":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"path":"Found-01-01","title":"Found","content":[
				{"tag":"p","children":["A ",{"tag":"a","attrs":{"href":"/x"},"children":["link"]}]},
				{"tag":"figure","children":[{"tag":"video","attrs":{"src":"/file/v.mp4"}},{"tag":"figcaption","children":["ignored"]}]}
			]}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":false,"error":"Page not found"}`))
		}
	}))
	t.Cleanup(srv.Close)

	client := &telegraph.Client{BaseURL: srv.URL}
	ex := newTestExtractor(t, client, converter.Config{})

	doc, err := ex.Extract(context.Background(), "https://telegra.ph/Found-01-01")
	require.NoError(t, err)
	assert.Equal(t, "A link\n[video_1]", doc.Text)
	assert.Equal(t, []string{"https://telegra.ph/file/v.mp4"}, doc.VideoURLs)

	_, err = ex.Extract(context.Background(), "https://telegra.ph/Missing")
	require.Error(t, err)
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.EqualError(t, err, "Telegraph API error: Page not found")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, KindFetchFailed, KindOf(&Error{Kind: KindFetchFailed}))
}
