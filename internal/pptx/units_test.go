package pptx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/slidetrans/internal/testutil"
)

func TestUnitsOrderAndPositions(t *testing.T) {
	path := writeDeck(t,
		testutil.Slide{Shapes: []testutil.Shape{
			testutil.TextBox("Title", "", "  ", "Subtitle"),
			testutil.Table(
				[]string{"A1", "", "C1"},
				[]string{"A2", "B2\nsecond line", ""},
			),
		}},
		testutil.Slide{},
		testutil.Slide{Shapes: []testutil.Shape{
			{Paragraphs: [][]string{{"Hello ", "bold ", "world"}}},
		}},
	)

	deck, err := Open(path)
	require.NoError(t, err)
	units := deck.Units()

	assert.Equal(t, []string{
		"Title", "Subtitle",
		"A1", "C1", "A2", "B2\nsecond line",
		"Hello bold world",
	}, Texts(units))

	require.Len(t, units, 7)
	assert.Equal(t, ParagraphUnit{Slide: 1, Shape: 0, Paragraph: 3, text: "Subtitle", elem: units[1].(ParagraphUnit).elem}, units[1])

	cell, ok := units[3].(TableCellUnit)
	require.True(t, ok, "expected a table cell, got %T", units[3])
	assert.Equal(t, 1, cell.Slide)
	assert.Equal(t, 1, cell.Shape)
	assert.Equal(t, 0, cell.Row)
	assert.Equal(t, 2, cell.Column)

	last := units[6]
	assert.Equal(t, 3, last.SlideIndex())
	assert.IsType(t, ParagraphUnit{}, last)
}

func TestUnitsParagraphTextSources(t *testing.T) {
	p := parseParagraph(t, `<a:p><a:r><a:t>Page </a:t></a:r><a:fld id="{1}" type="slidenum"><a:t>3</a:t></a:fld><a:br/><a:r><a:t> of 10 </a:t></a:r><a:endParaRPr/></a:p>`)

	assert.Equal(t, "Page \n of 10 ", paragraphText(p))
}

func TestUnitsSkipEmptyDeck(t *testing.T) {
	path := writeDeck(t, testutil.Slide{}, testutil.Slide{Shapes: []testutil.Shape{testutil.TextBox("", " ")}})

	deck, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, deck.Units())
}
