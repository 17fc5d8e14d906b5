// Package imageurl normalises the loosely typed image fields found on
// banknotes, collection items and listings. Depending on the row, an image
// field arrives as nothing, a single URL or a list of URLs.
package imageurl

import "github.com/ottocollect/ottocollect/internal/common"

// GetFirstImageURL returns the first usable URL in v, or the placeholder
// image when v holds nothing.
func GetFirstImageURL(v any) string {
	urls := NormalizeImageURLs(v)
	if len(urls) == 0 {
		return common.PlaceholderImage
	}
	return urls[0]
}

// NormalizeImageURLs turns v into a list of URLs. A lone string becomes a
// one-element list; nil and empty values become an empty list.
func NormalizeImageURLs(v any) []string {
	switch value := v.(type) {
	case nil:
		return []string{}
	case string:
		if value == "" {
			return []string{}
		}
		return []string{value}
	case *string:
		if value == nil {
			return []string{}
		}
		return NormalizeImageURLs(*value)
	case []string:
		if value == nil {
			return []string{}
		}
		return value
	case []any:
		urls := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				urls = append(urls, s)
			}
		}
		return urls
	default:
		return []string{}
	}
}
