package preview

import (
	"net/url"

	"github.com/JakeFAU/linkpreview/internal/document"
	"github.com/JakeFAU/linkpreview/internal/option"
	"github.com/JakeFAU/linkpreview/internal/resolver"
)

// FieldExtractor derives one preview field from a parsed page and the URL the
// page was fetched from. Extractors never fail; a missing element, a missing
// attribute or an unresolvable reference all yield None.
type FieldExtractor func(doc *document.Document, target *url.URL) option.Option[string]

var (
	ogTitleSelector       = document.MustCompile("meta[property='og:title']")
	titleSelector         = document.MustCompile("title")
	ogDescriptionSelector = document.MustCompile("meta[property='og:description']")
	ogImageSelector       = document.MustCompile("meta[property='og:image']")
	ogURLSelector         = document.MustCompile("meta[property='og:url']")
	ogSiteNameSelector    = document.MustCompile("meta[property='og:site_name']")
	ogTypeSelector        = document.MustCompile("meta[property='og:type']")
	iconSelector          = document.MustCompile("link[rel='icon']")
)

// Field extractors, one per Metadata field.
var (
	ExtractTitle        = orElse(attrOf(ogTitleSelector, "content"), textOf(titleSelector))
	ExtractDescription  = attrOf(ogDescriptionSelector, "content")
	ExtractDomain       = FieldExtractor(targetDomain)
	ExtractFavicon      = resolvedAttrOf(iconSelector, "href")
	ExtractImage        = resolvedAttrOf(ogImageSelector, "content")
	ExtractCanonicalURL = attrOf(ogURLSelector, "content")
	ExtractSiteName     = attrOf(ogSiteNameSelector, "content")
	ExtractContentType  = attrOf(ogTypeSelector, "content")
)

// Extract runs every field extractor against doc and target. The extractors
// are independent of one another, so the result is a pure function of the
// two inputs.
func Extract(doc *document.Document, target *url.URL) Metadata {
	return Metadata{
		Title:        ExtractTitle(doc, target),
		Description:  ExtractDescription(doc, target),
		Domain:       ExtractDomain(doc, target),
		Favicon:      ExtractFavicon(doc, target),
		Image:        ExtractImage(doc, target),
		CanonicalURL: ExtractCanonicalURL(doc, target),
		SiteName:     ExtractSiteName(doc, target),
		ContentType:  ExtractContentType(doc, target),
	}
}

// attrOf reads an attribute of the first element matching sel.
func attrOf(sel document.Selector, name string) FieldExtractor {
	return func(doc *document.Document, _ *url.URL) option.Option[string] {
		return option.FlatMap(doc.FirstMatch(sel), func(el document.Element) option.Option[string] {
			return el.Attr(name)
		})
	}
}

// textOf reads the text content of the first element matching sel.
func textOf(sel document.Selector) FieldExtractor {
	return func(doc *document.Document, _ *url.URL) option.Option[string] {
		return option.Map(doc.FirstMatch(sel), document.Element.InnerText)
	}
}

// resolvedAttrOf reads a URL-valued attribute and makes it absolute against the target.
func resolvedAttrOf(sel document.Selector, name string) FieldExtractor {
	read := attrOf(sel, name)
	return func(doc *document.Document, target *url.URL) option.Option[string] {
		resolved := option.FlatMap(read(doc, target), func(ref string) option.Option[*url.URL] {
			return resolver.Resolve(target, ref)
		})
		return option.Map(resolved, (*url.URL).String)
	}
}

// orElse runs fallback only when primary yields nothing.
func orElse(primary, fallback FieldExtractor) FieldExtractor {
	return func(doc *document.Document, target *url.URL) option.Option[string] {
		return primary(doc, target).Or(func() option.Option[string] {
			return fallback(doc, target)
		})
	}
}

func targetDomain(_ *document.Document, target *url.URL) option.Option[string] {
	return option.Some(resolver.CanonicalHost(target)).Filter(func(host string) bool {
		return host != ""
	})
}
