package mediaservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildURL(t *testing.T) {
	b := NewURLBuilder("https://cdn.netatlas.io/media/upload/")

	testCases := []struct {
		name     string
		publicID string
		opts     TransformOptions
		expected string
	}{
		{
			name:     "no transform",
			publicID: "blog/abc123",
			opts:     TransformOptions{},
			expected: "https://cdn.netatlas.io/media/upload/v1/blog/abc123.jpg",
		},
		{
			name:     "resize and crop",
			publicID: "blog/abc123",
			opts:     TransformOptions{Width: 300, Height: 200, Crop: "fill"},
			expected: "https://cdn.netatlas.io/media/upload/w_300,h_200,c_fill/v1/blog/abc123.jpg",
		},
		{
			name:     "explicit format",
			publicID: "blog/abc123",
			opts:     TransformOptions{Format: "webp"},
			expected: "https://cdn.netatlas.io/media/upload/v1/blog/abc123.webp",
		},
		{
			name:     "quality only",
			publicID: "events/banner",
			opts:     TransformOptions{Quality: 80, Format: "png"},
			expected: "https://cdn.netatlas.io/media/upload/q_80/v1/events/banner.png",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, b.BuildURL(tc.publicID, tc.opts))
		})
	}
}

// Derivation must invert construction for every valid id and any options.
func TestDerivePublicIDRoundTrip(t *testing.T) {
	b := NewURLBuilder("https://cdn.netatlas.io/media/upload")

	publicIDs := []string{
		"blog/abc123",
		"blog/9f8e7d6c-5b4a-4f3e-2d1c-0b9a8f7e6d5c",
		"country/de/hero",
		"single",
	}

	options := []TransformOptions{
		{},
		{Width: 640},
		{Width: 1280, Height: 720, Crop: "fit"},
		{Quality: 75, Format: "webp"},
		{Width: 64, Height: 64, Crop: "thumb", Quality: 90, Format: "gif"},
	}

	for _, id := range publicIDs {
		for _, opts := range options {
			url := b.BuildURL(id, opts)

			derived, ok := DerivePublicID(url)
			assert.True(t, ok, "url %s", url)
			assert.Equal(t, id, derived, "url %s", url)
		}
	}
}

func TestDerivePublicID(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
		ok       bool
	}{
		{
			name:     "no version segment",
			url:      "https://cdn.netatlas.io/media/upload/blog/abc123.jpg",
			expected: "blog/abc123",
			ok:       true,
		},
		{
			name:     "no extension",
			url:      "https://cdn.netatlas.io/media/upload/v1/blog/abc123",
			expected: "blog/abc123",
			ok:       true,
		},
		{
			name: "missing marker",
			url:  "https://cdn.netatlas.io/media/blog/abc123.jpg",
			ok:   false,
		},
		{
			name: "empty remainder",
			url:  "https://cdn.netatlas.io/media/upload/",
			ok:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			derived, ok := DerivePublicID(tc.url)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, derived)
			}
		})
	}
}
