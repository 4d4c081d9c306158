package hal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"commerce-events-go/internal/client"
	"github.com/tidwall/gjson"
)

// AcceptHeader is sent on every collection fetch.
const AcceptHeader = "application/hal+json"

// Fetcher assembles complete result sets by following "next" hypermedia
// links. Each page is fetched exactly once, in link order. There is no page
// bound by default; WithMaxPages adds a safety cap for callers that want one.
type Fetcher struct {
	transport *client.Transport
	maxPages  int
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithMaxPages caps the number of pages followed. n <= 0 means unbounded,
// which is the compatible default.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) { f.maxPages = n }
}

// NewFetcher builds a Fetcher over the given transport.
func NewFetcher(transport *client.Transport, opts ...Option) *Fetcher {
	f := &Fetcher{transport: transport}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// FetchAll GETs startURL and every linked next page, returning the
// concatenation of all embedded items under embedKey in page order.
// A response that is not a JSON object or is missing the embedded array is a
// hard validation error, not an empty page.
func (f *Fetcher) FetchAll(ctx context.Context, startURL, embedKey string, headers map[string]string) ([]json.RawMessage, error) {
	if headers == nil {
		headers = map[string]string{}
	}
	if _, ok := headers["Accept"]; !ok {
		h := make(map[string]string, len(headers)+1)
		for k, v := range headers {
			h[k] = v
		}
		h["Accept"] = AcceptHeader
		headers = h
	}
	return f.fetch(ctx, startURL, embedKey, headers, nil, 0)
}

func (f *Fetcher) fetch(ctx context.Context, url, embedKey string, headers map[string]string, acc []json.RawMessage, pages int) ([]json.RawMessage, error) {
	if f.maxPages > 0 && pages >= f.maxPages {
		return nil, fmt.Errorf("pagination exceeded %d pages fetching %s collection", f.maxPages, embedKey)
	}

	page, err := f.fetchPage(ctx, url, embedKey, headers)
	if err != nil {
		return nil, err
	}

	acc = append(acc, page.Items...)
	if page.NextLink == "" {
		return acc, nil
	}
	return f.fetch(ctx, page.NextLink, embedKey, headers, acc, pages+1)
}

func (f *Fetcher) fetchPage(ctx context.Context, url, embedKey string, headers map[string]string) (*Page, error) {
	raw, _, err := f.transport.DoRaw(ctx, http.MethodGet, url, headers, nil)
	if err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, fmt.Errorf("unexpected %s collection response: not a JSON object", embedKey)
	}

	embedded := doc.Get("_embedded." + embedKey)
	if !embedded.Exists() || !embedded.IsArray() {
		return nil, fmt.Errorf("unexpected %s collection response: missing _embedded.%s array", embedKey, embedKey)
	}

	page := &Page{
		SelfLink: doc.Get("_links.self.href").String(),
		NextLink: doc.Get("_links.next.href").String(),
	}
	for _, item := range embedded.Array() {
		page.Items = append(page.Items, json.RawMessage(item.Raw))
	}
	return page, nil
}

// FetchAllAs decodes every accumulated item into T.
func FetchAllAs[T any](ctx context.Context, f *Fetcher, startURL, embedKey string, headers map[string]string) ([]T, error) {
	items, err := f.FetchAll(ctx, startURL, embedKey, headers)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s item: %w", embedKey, err)
		}
		out = append(out, v)
	}
	return out, nil
}
