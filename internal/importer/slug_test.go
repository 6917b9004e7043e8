package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Mom's Famous Pad Thai!": "moms-famous-pad-thai",
		"  multiple   spaces ":   "multiple-spaces",
		"Mango Sticky Rice":      "mango-sticky-rice",
		"under_scored_title":     "under-scored-title",
		"--Già trimmed--":        "gi-trimmed",
		"":                       "",
	}

	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	assert.Equal(t, Slugify("Chang's House Fried Rice"), Slugify("Chang's House Fried Rice"))
}
