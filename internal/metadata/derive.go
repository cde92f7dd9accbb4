// Package metadata assigns HTTP headers to blobs from their keys and keeps
// them in an optional JSON sidecar next to the uploaded files.
package metadata

import (
	"mime"
	"path"
	"regexp"
	"strings"
)

// Cache-Control values.
const (
	ImmutableCacheControl = "immutable, max-age=604800, public"
	EntryCacheControl     = "max-age=600, stale-while-revalidate=180, stale-if-error=300, public"
	NoCache               = "no-cache"
)

// Order matters: the first matching rule wins.
var cacheRules = []struct {
	pattern      *regexp.Regexp
	cacheControl string
}{
	// build outputs with a 20 character content hash before the extension
	{regexp.MustCompile(`^.*\.[a-z0-9]{20}\.(js|map\.js|css|map\.css|js\.LICENSE\.txt)$`), ImmutableCacheControl},
	// bootstrap files that reference the hashed assets, matched on whole
	// path segments so myindex.html is not one
	{regexp.MustCompile(`(^|/)(index\.html|login\.html|loaders/login\.js|loaders/result\.js)$`), EntryCacheControl},
}

// Used when the system MIME table has no entry for the extension.
var fallbackTypes = map[string]string{
	".map":         "application/json",
	".txt":         "text/plain; charset=utf-8",
	".ttf":         "font/ttf",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".webmanifest": "application/manifest+json",
}

// Headers are the HTTP headers stored with a blob.
type Headers struct {
	CacheControl string `json:"CacheControl,omitempty"`
	ContentType  string `json:"ContentType,omitempty"`
}

// IsZero reports whether no header is set.
func (h Headers) IsZero() bool {
	return h.CacheControl == "" && h.ContentType == ""
}

// Key is the blob key of rel under the logical blob directory blobDir.
func Key(blobDir, rel string) string {
	blobDir = strings.Trim(blobDir, "/")
	if blobDir == "" {
		return rel
	}
	return blobDir + "/" + rel
}

// Derive computes the headers for a blob key. It never fails; unknown
// extensions simply leave ContentType empty.
func Derive(key string) Headers {
	return Headers{
		CacheControl: CacheControl(key),
		ContentType:  ContentType(key),
	}
}

// CacheControl picks the caching policy for key.
func CacheControl(key string) string {
	for _, rule := range cacheRules {
		if rule.pattern.MatchString(key) {
			return rule.cacheControl
		}
	}
	return NoCache
}

// ContentType looks up the MIME type by (case-insensitive) extension.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return ""
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	return fallbackTypes[ext]
}
