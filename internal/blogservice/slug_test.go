package blogservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "simple title",
			title: "Broadband Rollout 2026",
			want:  "broadband-rollout-2026",
		},
		{
			name:  "punctuation collapsed",
			title: "Fiber, 5G & Satellite: What's Next?",
			want:  "fiber-5g-satellite-what-s-next",
		},
		{
			name:  "leading and trailing noise",
			title: "  --Connectivity!  ",
			want:  "connectivity",
		},
		{
			name:  "already a slug",
			title: "rural-coverage",
			want:  "rural-coverage",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.title))
		})
	}
}
