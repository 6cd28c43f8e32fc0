package pptx

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNamespaces = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

// parseParagraph parses xml (one a:p or a:tc element) inside a namespaced root
func parseParagraph(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<p:root `+testNamespaces+`>`+xml+`</p:root>`))
	elems := doc.Root().ChildElements()
	require.Len(t, elems, 1)
	return elems[0]
}

func serialise(t *testing.T, e *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(e.Copy())
	s, err := doc.WriteToString()
	require.NoError(t, err)
	return s
}

func TestApplyParagraph(t *testing.T) {
	p := parseParagraph(t, `<a:p><a:pPr algn="ctr"/><a:r><a:rPr lang="en-US" b="1"/><a:t>Hello </a:t></a:r><a:br/><a:r><a:rPr lang="en-US" i="1"/><a:t>world</a:t></a:r><a:fld id="{1}" type="slidenum"><a:t>2</a:t></a:fld><a:endParaRPr lang="en-US"/></a:p>`)

	ApplyParagraph(p, "Hola mundo")

	assert.Equal(t,
		`<a:p><a:pPr algn="ctr"/><a:r><a:rPr lang="en-US" b="1"/><a:t>Hola mundo</a:t></a:r><a:fld id="{1}" type="slidenum"><a:t>2</a:t></a:fld><a:endParaRPr lang="en-US"/></a:p>`,
		serialise(t, p))
	assert.Equal(t, "Hola mundo", paragraphText(p))
}

func TestApplyParagraphLineBreaks(t *testing.T) {
	p := parseParagraph(t, `<a:p><a:r><a:rPr sz="1800"/><a:t>First</a:t></a:r><a:br/><a:r><a:t>second</a:t></a:r><a:endParaRPr/></a:p>`)
	require.Equal(t, "First\nsecond", paragraphText(p))

	ApplyParagraph(p, "Erste\nzweite")

	assert.Equal(t,
		`<a:p><a:r><a:rPr sz="1800"/><a:t>Erste</a:t></a:r><a:br><a:rPr sz="1800"/></a:br><a:r><a:rPr sz="1800"/><a:t>zweite</a:t></a:r><a:endParaRPr/></a:p>`,
		serialise(t, p))
	assert.Equal(t, "Erste\nzweite", paragraphText(p))

	before := serialise(t, p)
	ApplyParagraph(p, "Erste\nzweite")
	assert.Equal(t, before, serialise(t, p))
}

func TestApplyParagraphKeepsFields(t *testing.T) {
	p := parseParagraph(t, `<a:p><a:r><a:t>Slide </a:t></a:r><a:fld id="{7}" type="slidenum"><a:rPr/><a:t>4</a:t></a:fld><a:endParaRPr/></a:p>`)
	require.Equal(t, "Slide ", paragraphText(p))

	ApplyParagraph(p, "Folie ")

	assert.Equal(t,
		`<a:p><a:r><a:t>Folie </a:t></a:r><a:fld id="{7}" type="slidenum"><a:rPr/><a:t>4</a:t></a:fld><a:endParaRPr/></a:p>`,
		serialise(t, p))
}

func TestApplyParagraphIdempotent(t *testing.T) {
	p := parseParagraph(t, `<a:p><a:r><a:rPr sz="2400"/><a:t>Hello</a:t></a:r><a:r><a:t> there</a:t></a:r><a:endParaRPr/></a:p>`)

	ApplyParagraph(p, "Hola")
	first := serialise(t, p)
	ApplyParagraph(p, "Hola")

	assert.Equal(t, first, serialise(t, p))
	runs := children(p, nsDrawing, "r")
	require.Len(t, runs, 1)
	assert.Equal(t, "Hola", child(runs[0], nsDrawing, "t").Text())
}

func TestApplyParagraphEmptyText(t *testing.T) {
	p := parseParagraph(t, `<a:p><a:r><a:t>Hello</a:t></a:r><a:endParaRPr/></a:p>`)

	ApplyParagraph(p, "")

	assert.Equal(t, `<a:p><a:endParaRPr/></a:p>`, serialise(t, p))
}

func TestApplyParagraphWithoutEndProperties(t *testing.T) {
	p := parseParagraph(t, `<a:p><a:r><a:t>Hello</a:t></a:r></a:p>`)

	ApplyParagraph(p, "Bonjour")

	assert.Equal(t, `<a:p><a:r><a:t>Bonjour</a:t></a:r></a:p>`, serialise(t, p))
}

func TestApplyCell(t *testing.T) {
	tc := parseParagraph(t, `<a:tc><a:txBody><a:bodyPr/><a:lstStyle/><a:p><a:pPr algn="ctr"/><a:r><a:rPr b="1"/><a:t>World</a:t></a:r></a:p><a:p><a:r><a:t>Second</a:t></a:r></a:p></a:txBody><a:tcPr/></a:tc>`)

	ApplyCell(tc, "Mundo\nSegundo")

	assert.Equal(t, "Mundo\nSegundo", cellText(tc))
	assert.Equal(t,
		`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/>`+
			`<a:p><a:pPr algn="ctr"/><a:r><a:rPr b="1"/><a:t>Mundo</a:t></a:r></a:p>`+
			`<a:p><a:pPr algn="ctr"/><a:r><a:rPr b="1"/><a:t>Segundo</a:t></a:r></a:p>`+
			`</a:txBody><a:tcPr/></a:tc>`,
		serialise(t, tc))

	// reapplying yields the same tree
	before := serialise(t, tc)
	ApplyCell(tc, "Mundo\nSegundo")
	assert.Equal(t, before, serialise(t, tc))
}

func TestApplyCellDropsFields(t *testing.T) {
	tc := parseParagraph(t, `<a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>Page</a:t></a:r><a:fld id="{2}" type="slidenum"><a:t>1</a:t></a:fld></a:p></a:txBody></a:tc>`)

	ApplyCell(tc, "Seite\nZwei")

	assert.Equal(t, `<a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>Seite</a:t></a:r></a:p><a:p><a:r><a:t>Zwei</a:t></a:r></a:p></a:txBody></a:tc>`, serialise(t, tc))
}

func TestApplyCellEmptyText(t *testing.T) {
	tc := parseParagraph(t, `<a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>World</a:t></a:r></a:p></a:txBody></a:tc>`)

	ApplyCell(tc, "")

	assert.Equal(t, "", cellText(tc))
	assert.Len(t, children(child(tc, nsDrawing, "txBody"), nsDrawing, "p"), 1)
}

func TestApplyCellWithoutBody(t *testing.T) {
	tc := parseParagraph(t, `<a:tc><a:tcPr/></a:tc>`)

	ApplyCell(tc, "Neu")

	assert.Equal(t, "Neu", cellText(tc))
	assert.Equal(t, `<a:tc><a:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>Neu</a:t></a:r></a:p></a:txBody><a:tcPr/></a:tc>`, serialise(t, tc))
}
