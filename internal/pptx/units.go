package pptx

import (
	"strings"

	"github.com/beevik/etree"
)

// Unit is one translatable piece of text: a ParagraphUnit or a
// TableCellUnit. Positions are 1-based for slides and 0-based otherwise.
type Unit interface {
	// Text returns the trimmed source text
	Text() string
	// SlideIndex returns the 1-based slide the unit belongs to
	SlideIndex() int

	unit()
}

// ParagraphUnit is a non-empty paragraph of a text shape
type ParagraphUnit struct {
	Slide     int
	Shape     int
	Paragraph int
	text      string
	elem      *etree.Element
}

func (u ParagraphUnit) Text() string { return u.text }
func (u ParagraphUnit) SlideIndex() int { return u.Slide }
func (ParagraphUnit) unit() {}

// TableCellUnit is a non-empty cell of a table shape
type TableCellUnit struct {
	Slide  int
	Shape  int
	Row    int
	Column int
	text   string
	elem   *etree.Element
}

func (u TableCellUnit) Text() string { return u.text }
func (u TableCellUnit) SlideIndex() int { return u.Slide }
func (TableCellUnit) unit() {}

// Units returns every non-empty paragraph and table cell of the deck,
// slides in presentation order and shapes in document order. Group shapes
// are not descended into.
func (d *Deck) Units() []Unit {
	var units []Unit
	for _, slide := range d.slides {
		units = append(units, slide.units()...)
	}
	return units
}

// Texts returns the source text of units in order
func Texts(units []Unit) []string {
	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.Text()
	}
	return texts
}

func (s *Slide) units() []Unit {
	cSld := child(s.doc.Root(), nsPresentation, "cSld")
	tree := child(cSld, nsPresentation, "spTree")
	if tree == nil {
		return nil
	}

	var units []Unit
	shape := 0
	for _, e := range tree.ChildElements() {
		switch {
		case isPresentation(e, "sp"):
			units = append(units, paragraphUnits(s.Index, shape, child(e, nsPresentation, "txBody"))...)
		case isPresentation(e, "graphicFrame"):
			units = append(units, cellUnits(s.Index, shape, frameTable(e))...)
		case isPresentation(e, "grpSp"), isPresentation(e, "cxnSp"), isPresentation(e, "pic"), isPresentation(e, "contentPart"):
		default:
			continue
		}
		shape++
	}
	return units
}

func paragraphUnits(slide, shape int, body *etree.Element) []Unit {
	var units []Unit
	for i, p := range children(body, nsDrawing, "p") {
		text := strings.TrimSpace(paragraphText(p))
		if text == "" {
			continue
		}
		units = append(units, ParagraphUnit{Slide: slide, Shape: shape, Paragraph: i, text: text, elem: p})
	}
	return units
}

func cellUnits(slide, shape int, table *etree.Element) []Unit {
	var units []Unit
	for r, row := range children(table, nsDrawing, "tr") {
		for c, cell := range children(row, nsDrawing, "tc") {
			text := strings.TrimSpace(cellText(cell))
			if text == "" {
				continue
			}
			units = append(units, TableCellUnit{Slide: slide, Shape: shape, Row: r, Column: c, text: text, elem: cell})
		}
	}
	return units
}

// frameTable returns the a:tbl inside a graphic frame, or nil
func frameTable(frame *etree.Element) *etree.Element {
	graphic := child(frame, nsDrawing, "graphic")
	data := child(graphic, nsDrawing, "graphicData")
	return child(data, nsDrawing, "tbl")
}

// paragraphText concatenates the text of runs; line breaks become "\n".
// Fields are generated by the viewer and are not part of the text.
func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	for _, c := range p.ChildElements() {
		switch {
		case isDrawing(c, "r"):
			if t := child(c, nsDrawing, "t"); t != nil {
				sb.WriteString(t.Text())
			}
		case isDrawing(c, "br"):
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// cellText joins the paragraphs of a cell with "\n"
func cellText(tc *etree.Element) string {
	paragraphs := children(child(tc, nsDrawing, "txBody"), nsDrawing, "p")
	lines := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		lines[i] = paragraphText(p)
	}
	return strings.Join(lines, "\n")
}
