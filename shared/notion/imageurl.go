package notion

import (
	"net/url"
	"strings"
)

const notionHost = "https://www.notion.so"

// MapImageURL rewrites an asset URL from a property or block so it can be
// fetched through the public image proxy, using the owning block for the
// table/id context the proxy requires. Inline data URLs and already-public
// hosts pass through untouched. A URL that cannot be parsed maps to "".
func MapImageURL(rawURL string, block map[string]any) string {
	if rawURL == "" {
		return ""
	}
	if strings.HasPrefix(rawURL, "data:") {
		return rawURL
	}
	if strings.HasPrefix(rawURL, "https://images.unsplash.com") {
		return rawURL
	}

	target := rawURL
	if !strings.HasPrefix(target, notionHost) {
		if strings.HasPrefix(target, "/image") {
			target = notionHost + target
		} else {
			target = notionHost + "/image/" + encodeURIComponent(target)
		}
	}

	u, err := url.Parse(target)
	if err != nil {
		return ""
	}

	table := StringValue(block, "parent_table")
	switch table {
	case "", "space", "collection", "team":
		table = "block"
	}

	q := u.Query()
	q.Set("table", table)
	q.Set("id", StringValue(block, "id"))
	q.Set("cache", "v2")
	u.RawQuery = q.Encode()

	return u.String()
}

// ImageMapper adapts MapImageURL to the mapper interface the decoder consumes.
type ImageMapper struct{}

func (ImageMapper) Remap(rawURL string, block map[string]any) string {
	return MapImageURL(rawURL, block)
}

func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
