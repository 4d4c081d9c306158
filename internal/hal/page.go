// Package hal walks HAL+JSON collections: items live under _embedded.<key>
// and navigation under _links (self, next).
package hal

import "encoding/json"

// Page is one hypermedia page of a collection. Consumed transiently by the
// fetcher; never persisted.
type Page struct {
	Items    []json.RawMessage
	SelfLink string
	NextLink string
}
