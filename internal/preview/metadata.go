// Package preview extracts link-preview metadata from a fetched page.
//
// Each output field has its own FieldExtractor, a prioritized chain of
// selector lookups where the first lookup that yields a value wins. Extract
// runs every extractor over one parsed document; Service wraps fetching,
// parsing and extraction behind a single call.
package preview

import "github.com/JakeFAU/linkpreview/internal/option"

// DefaultUserAgent identifies outbound fetches when the caller supplies none.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux i686; rv:112.0) Gecko/20100101 Firefox/112.0"

// Metadata is the preview of one page. Every field is independently optional
// and serializes as a JSON string or null.
type Metadata struct {
	Title        option.Option[string] `json:"title"`
	Description  option.Option[string] `json:"description"`
	Domain       option.Option[string] `json:"domain"`
	Favicon      option.Option[string] `json:"favicon"`
	Image        option.Option[string] `json:"image"`
	CanonicalURL option.Option[string] `json:"og_url"`
	SiteName     option.Option[string] `json:"sitename"`
	ContentType  option.Option[string] `json:"type"`
}
