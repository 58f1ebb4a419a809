// Package resolver turns page-relative references into absolute URLs and
// normalizes hostnames for display.
//
// Parsing follows the WHATWG URL standard, the same parser colly uses for every
// Visit, so a URL accepted here is the URL that gets fetched. A lone "%" is
// percent-encoded rather than rejected.
package resolver

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	whatwg "github.com/nlnwa/whatwg-url/url"

	"github.com/JakeFAU/linkpreview/internal/option"
)

var parser = whatwg.NewParser(whatwg.WithPercentEncodeSinglePercentSign())

// ErrNotAbsolute reports a URL without both a scheme and a host.
var ErrNotAbsolute = errors.New("url must be absolute with a scheme and host")

// Parse reads an absolute URL. Surrounding whitespace is trimmed and embedded
// tabs and newlines are dropped, as browsers do.
func Parse(raw string) (*url.URL, error) {
	parsed, err := parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	u, err := toURL(parsed)
	if err != nil {
		return nil, err
	}
	if !IsAbsolute(u) {
		return nil, ErrNotAbsolute
	}
	return u, nil
}

// Resolve joins ref against base using standard reference resolution.
// It returns None when base is not absolute, when ref cannot be parsed, or when
// the joined result has no scheme. No network access is performed.
func Resolve(base *url.URL, ref string) option.Option[*url.URL] {
	if base == nil || !base.IsAbs() {
		return option.None[*url.URL]()
	}

	// The fragment of the page itself never leaks into a resolved reference.
	b := *base
	b.Fragment = ""
	b.RawFragment = ""

	joined, err := parser.ParseRef(b.String(), ref)
	if err != nil {
		return option.None[*url.URL]()
	}
	resolved, err := toURL(joined)
	if err != nil || !resolved.IsAbs() {
		return option.None[*url.URL]()
	}
	return option.Some(resolved)
}

// CanonicalHost returns the host of u, without any port, and with a single
// leading "www." removed. IPv6 literals keep their brackets. The match is
// case-sensitive and nothing else about the host is changed.
func CanonicalHost(u *url.URL) string {
	if u == nil {
		return ""
	}
	host := u.Host
	if port := u.Port(); port != "" {
		host = strings.TrimSuffix(host, ":"+port)
	}
	host = strings.TrimSuffix(host, ":")
	return strings.TrimPrefix(host, "www.")
}

// IsAbsolute reports whether u carries both a scheme and a host.
func IsAbsolute(u *url.URL) bool {
	return u != nil && u.Scheme != "" && u.Host != ""
}

// toURL hands a WHATWG-serialized URL to net/url. The serialization is already
// percent-encoded, so net/url keeps it byte for byte.
func toURL(u *whatwg.Url) (*url.URL, error) {
	out, err := url.Parse(u.Href(false))
	if err != nil {
		return nil, fmt.Errorf("convert url: %w", err)
	}
	return out, nil
}
