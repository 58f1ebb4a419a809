// Package document parses fetched markup into a queryable tree and answers
// first-match selector queries against it.
package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/JakeFAU/linkpreview/internal/option"
)

// Selector is a compiled CSS selector.
type Selector struct {
	source  string
	matcher cascadia.Selector
}

// Compile parses a CSS selector.
func Compile(selector string) (Selector, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return Selector{}, fmt.Errorf("compile selector %q: %w", selector, err)
	}
	return Selector{source: selector, matcher: m}, nil
}

// MustCompile is like Compile but panics on an invalid selector. It is meant
// for package-level selector tables.
func MustCompile(selector string) Selector {
	s, err := Compile(selector)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Selector) String() string {
	return s.source
}

// Document is a parsed page.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from raw markup. The HTML parser is permissive, so
// the only realistic failure is an error from r itself.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return &Document{doc: goquery.NewDocumentFromNode(root)}, nil
}

// ParseBytes is Parse over an in-memory body.
func ParseBytes(body []byte) (*Document, error) {
	return Parse(bytes.NewReader(body))
}

// FirstMatch returns the first element in document order matching sel.
func (d *Document) FirstMatch(sel Selector) option.Option[Element] {
	if d == nil || d.doc == nil || sel.matcher == nil {
		return option.None[Element]()
	}
	found := d.doc.FindMatcher(goquery.SingleMatcher(sel.matcher))
	if found.Length() == 0 {
		return option.None[Element]()
	}
	return option.Some(Element{sel: found.First()})
}

// Element is a single matched node.
type Element struct {
	sel *goquery.Selection
}

// Attr returns the decoded value of the named attribute. A present but empty
// attribute is Some("").
func (e Element) Attr(name string) option.Option[string] {
	if e.sel == nil {
		return option.None[string]()
	}
	v, ok := e.sel.Attr(name)
	if !ok {
		return option.None[string]()
	}
	return option.Some(v)
}

// InnerText concatenates the descendant text nodes in document order.
func (e Element) InnerText() string {
	if e.sel == nil {
		return ""
	}
	return e.sel.Text()
}
