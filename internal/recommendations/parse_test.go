package recommendations_test

import (
	"testing"

	"books.xdoubleu.com/internal/recommendations"
	"books.xdoubleu.com/pkg/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Based on your reviews, here are three books you might enjoy:

1. **Dune** by Frank Herbert: a sweeping classic with the politics you liked.
2. "The Left Hand of Darkness" by Ursula K. Le Guin - thoughtful worldbuilding
   and a quiet, patient pace.
3) 3: Foundation by Isaac Asimov
   Reason: big ideas told through short episodes.

These picks lean towards classic science fiction.`

func TestParse(t *testing.T) {
	recs := recommendations.Parse(sample)
	require.Len(t, recs, 3)

	assert.Equal(t, 1, recs[0].Rank)
	assert.Equal(t, "Dune", recs[0].Title)
	assert.Equal(t, "Frank Herbert", recs[0].Author)
	assert.Equal(t, "a sweeping classic with the politics you liked.", recs[0].Reason)
	assert.Nil(t, recs[0].BookID)

	assert.Equal(t, "The Left Hand of Darkness", recs[1].Title)
	assert.Equal(t, "Ursula K. Le Guin", recs[1].Author)
	assert.Equal(
		t,
		"thoughtful worldbuilding and a quiet, patient pace.",
		recs[1].Reason,
	)

	assert.Equal(t, 3, recs[2].Rank)
	assert.Equal(t, "Foundation", recs[2].Title)
	assert.Equal(t, "Isaac Asimov", recs[2].Author)
	assert.Equal(t, "big ideas told through short episodes.", recs[2].Reason)
	require.NotNil(t, recs[2].BookID)
	assert.Equal(t, int64(3), *recs[2].BookID)
}

func TestParseBulletsAndCatalogLines(t *testing.T) {
	text := "- *Hyperion* by Dan Simmons, because you rated Dune highly\n" +
		"12: The Hobbit by J.R.R. Tolkien - a lighter read\n" +
		"Nothing to see here\n" +
		"* [Piranesi](https://example.com/piranesi) by Susanna Clarke"

	recs := recommendations.Parse(text)
	require.Len(t, recs, 3)

	assert.Equal(t, "Hyperion", recs[0].Title)
	assert.Equal(t, "Dan Simmons", recs[0].Author)
	assert.Equal(t, "because you rated Dune highly", recs[0].Reason)

	assert.Equal(t, 2, recs[1].Rank)
	assert.Equal(t, "The Hobbit", recs[1].Title)
	assert.Equal(t, "J.R.R. Tolkien", recs[1].Author)
	require.NotNil(t, recs[1].BookID)
	assert.Equal(t, int64(12), *recs[1].BookID)

	assert.Equal(t, "Piranesi", recs[2].Title)
	assert.Equal(t, "Susanna Clarke", recs[2].Author)
	assert.Empty(t, recs[2].Reason)
}

func TestParseNothing(t *testing.T) {
	assert.Empty(t, recommendations.Parse(""))
	assert.Empty(t, recommendations.Parse("I could not find any recommendations."))
}

func TestClean(t *testing.T) {
	text := "## Picks\r\n\r\n\r\n\r\n1. **Dune** by _Frank Herbert_\n> see [the wiki](https://example.com)"

	assert.Equal(
		t,
		"Picks\n\n1. Dune by Frank Herbert\n see the wiki",
		recommendations.Clean(text),
	)
}

func TestCleanStripsHyphens(t *testing.T) {
	assert.Equal(t, "SciFi classics", recommendations.Clean("- Sci-Fi classics"))
}

func TestMatch(t *testing.T) {
	duneID, hobbitID := int64(1), int64(2)
	books := []backend.Book{
		{ID: &duneID, Title: "Dune"},
		{ID: &hobbitID, Title: "The Hobbit"},
		{ID: nil, Title: "Foundation"},
	}

	unknown := int64(99)
	recs := []recommendations.Recommendation{
		{Rank: 1, Title: "DUNE!"},
		{Rank: 2, Title: "the  hobbit", BookID: &unknown},
		{Rank: 3, Title: "Foundation"},
		{Rank: 4, Title: "Dune", BookID: &hobbitID},
	}

	matched := recommendations.Match(recs, books)
	require.Len(t, matched, 4)

	require.NotNil(t, matched[0].BookID)
	assert.Equal(t, duneID, *matched[0].BookID)

	require.NotNil(t, matched[1].BookID)
	assert.Equal(t, hobbitID, *matched[1].BookID)

	assert.Nil(t, matched[2].BookID)

	// an id that exists in the catalog wins over the title
	require.NotNil(t, matched[3].BookID)
	assert.Equal(t, hobbitID, *matched[3].BookID)

	// the input is not modified
	assert.Equal(t, &unknown, recs[1].BookID)
}
