package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const samplePage = `<!doctype html>
<html>
<head>
  <title>Hello <b>there</b> world</title>
  <meta property="og:title" content="First &amp; best">
  <meta property="og:title" content="Second">
  <meta property="og:description" content="">
  <meta name="og:image" content="ignored-by-property-selector.png">
  <link rel="icon" href="/favicon.ico">
</head>
<body><p>body</p></body>
</html>`

func TestFirstMatchReturnsFirstInDocumentOrder(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)
	el, ok := doc.FirstMatch(MustCompile("meta[property='og:title']")).Get()
	require.True(t, ok)

	content, ok := el.Attr("content").Get()
	require.True(t, ok)
	require.Equal(t, "First & best", content)
}

func TestFirstMatchNone(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)
	require.True(t, doc.FirstMatch(MustCompile("meta[property='og:image']")).IsNone())
	require.True(t, doc.FirstMatch(MustCompile("link[rel='apple-touch-icon']")).IsNone())
}

func TestAttrPresentEmptyAndAbsent(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)
	el, ok := doc.FirstMatch(MustCompile("meta[property='og:description']")).Get()
	require.True(t, ok)

	v, ok := el.Attr("content").Get()
	require.True(t, ok)
	require.Equal(t, "", v)

	require.True(t, el.Attr("href").IsNone())
}

func TestInnerTextStripsMarkup(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><head><title>Hello <b>there</b> world</title></head></html>`)
	el, ok := doc.FirstMatch(MustCompile("title")).Get()
	require.True(t, ok)
	// Title content is raw text to the HTML parser, so markup inside it is kept as text.
	require.Equal(t, "Hello <b>there</b> world", el.InnerText())

	doc = mustParse(t, `<div id="x">a<span>b<i>c</i></span>d</div>`)
	el, ok = doc.FirstMatch(MustCompile("div")).Get()
	require.True(t, ok)
	require.Equal(t, "abcd", el.InnerText())
}

func TestParseToleratesBrokenMarkup(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<title>Unclosed <meta property="og:type" content="article"`)
	require.NotNil(t, doc)

	doc = mustParse(t, "")
	require.True(t, doc.FirstMatch(MustCompile("title")).IsNone())
}

func TestParseReaderError(t *testing.T) {
	t.Parallel()

	_, err := Parse(failingReader{})
	require.Error(t, err)
	require.ErrorIs(t, err, errRead)
}

func TestCompileInvalidSelector(t *testing.T) {
	t.Parallel()

	_, err := Compile("meta[property=")
	require.Error(t, err)
	require.Panics(t, func() { MustCompile("meta[property=") })
}

func TestNilSafety(t *testing.T) {
	t.Parallel()

	var doc *Document
	require.True(t, doc.FirstMatch(MustCompile("title")).IsNone())

	var el Element
	require.True(t, el.Attr("content").IsNone())
	require.Equal(t, "", el.InnerText())
	require.Equal(t, "title", MustCompile("title").String())
}

var errRead = errors.New("read failed")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errRead
}

func mustParse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}
