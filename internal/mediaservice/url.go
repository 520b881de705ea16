package mediaservice

import (
	"fmt"
	"regexp"
	"strings"
)

const uploadMarker = "/upload/"

var (
	transformSegmentRX = regexp.MustCompile(`^([a-z]{1,4}_[^,/]+)(,[a-z]{1,4}_[^,/]+)*$`)
	versionSegmentRX   = regexp.MustCompile(`^v\d+$`)
)

// TransformOptions describe delivery-time resizing and format parameters.
// They only affect the constructed URL, never the stored object.
type TransformOptions struct {
	Width   int
	Height  int
	Crop    string
	Quality int
	Format  string
}

func (o TransformOptions) encode() string {
	var parts []string
	if o.Width > 0 {
		parts = append(parts, fmt.Sprintf("w_%d", o.Width))
	}
	if o.Height > 0 {
		parts = append(parts, fmt.Sprintf("h_%d", o.Height))
	}
	if o.Crop != "" {
		parts = append(parts, "c_"+o.Crop)
	}
	if o.Quality > 0 {
		parts = append(parts, fmt.Sprintf("q_%d", o.Quality))
	}
	return strings.Join(parts, ",")
}

// URLBuilder constructs delivery URLs for stored assets. The base URL ends
// with the upload marker, e.g. "https://cdn.example.com/media/upload".
type URLBuilder struct {
	baseURL string
}

func NewURLBuilder(baseURL string) *URLBuilder {
	return &URLBuilder{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// BuildURL is pure and deterministic; it performs no network I/O.
func (b *URLBuilder) BuildURL(publicID string, opts TransformOptions) string {
	format := opts.Format
	if format == "" {
		format = "jpg"
	}

	segments := []string{b.baseURL}
	if t := opts.encode(); t != "" {
		segments = append(segments, t)
	}
	segments = append(segments, "v1", publicID+"."+format)

	return strings.Join(segments, "/")
}

// DerivePublicID recovers the store identifier from a previously issued URL.
// It locates the upload marker, skips a transformation segment and an
// optional version segment, and strips the file extension. The second return
// value is false when the URL was not issued by this builder.
func DerivePublicID(url string) (string, bool) {
	i := strings.Index(url, uploadMarker)
	if i < 0 {
		return "", false
	}

	rest := url[i+len(uploadMarker):]
	segments := strings.Split(rest, "/")

	if len(segments) > 1 && transformSegmentRX.MatchString(segments[0]) {
		segments = segments[1:]
	}
	if len(segments) > 1 && versionSegmentRX.MatchString(segments[0]) {
		segments = segments[1:]
	}

	if len(segments) == 0 {
		return "", false
	}

	last := segments[len(segments)-1]
	if dot := strings.LastIndex(last, "."); dot > 0 {
		segments[len(segments)-1] = last[:dot]
	}

	publicID := strings.Join(segments, "/")
	if publicID == "" {
		return "", false
	}

	return publicID, true
}
