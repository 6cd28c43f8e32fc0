package pptx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Apply writes texts onto units, pairing them by position
func (d *Deck) Apply(units []Unit, texts []string) error {
	if len(units) != len(texts) {
		return fmt.Errorf("got %d texts for %d units", len(texts), len(units))
	}

	for i, u := range units {
		switch u := u.(type) {
		case ParagraphUnit:
			ApplyParagraph(u.elem, texts[i])
		case TableCellUnit:
			ApplyCell(u.elem, texts[i])
		default:
			return fmt.Errorf("unsupported unit type %T", u)
		}
	}
	return nil
}

// ApplyParagraph replaces the runs and line breaks of paragraph p with
// text. Each line of text becomes one run and lines are separated by a:br.
// The new runs take the place of the first run removed and keep its
// character properties. Fields such as slide numbers are left in place.
// Empty text leaves the paragraph without runs.
func ApplyParagraph(p *etree.Element, text string) {
	var props *etree.Element
	var removed []*etree.Element

	for _, c := range p.ChildElements() {
		if !isDrawing(c, "r") && !isDrawing(c, "br") {
			continue
		}
		if rPr := child(c, nsDrawing, "rPr"); rPr != nil && props == nil && isDrawing(c, "r") {
			props = rPr
		}
		removed = append(removed, c)
	}

	at := -1
	if len(removed) > 0 {
		at = removed[0].Index()
	}
	for i := len(removed) - 1; i >= 0; i-- {
		p.RemoveChild(removed[i])
	}

	if text == "" {
		return
	}

	if at < 0 {
		if end := child(p, nsDrawing, "endParaRPr"); end != nil {
			at = end.Index()
		} else {
			at = len(p.Child)
		}
	}

	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			p.InsertChildAt(at, newElement(p, "br", props))
			at++
		}
		if line == "" {
			continue
		}
		run := newElement(p, "r", props)
		run.CreateElement(qualified(p, "t")).SetText(line)
		p.InsertChildAt(at, run)
		at++
	}
}

// newElement creates a drawing element named tag carrying a copy of props
func newElement(parent *etree.Element, tag string, props *etree.Element) *etree.Element {
	e := etree.NewElement(qualified(parent, tag))
	if props != nil {
		e.AddChild(props.Copy())
	}
	return e
}

// ApplyCell replaces the paragraphs of table cell tc with one paragraph per
// line of text. New paragraphs copy the properties of the cell's first
// paragraph; fields inside a cell are dropped.
func ApplyCell(tc *etree.Element, text string) {
	body := child(tc, nsDrawing, "txBody")
	if body == nil {
		body = etree.NewElement(qualified(tc, "txBody"))
		body.CreateElement(qualified(tc, "bodyPr"))
		body.CreateElement(qualified(tc, "lstStyle"))
		tc.InsertChildAt(0, body)
	}

	paragraphs := children(body, nsDrawing, "p")
	var template *etree.Element
	if len(paragraphs) > 0 {
		template = paragraphs[0].Copy()
		for _, fld := range children(template, nsDrawing, "fld") {
			template.RemoveChild(fld)
		}
	}
	for _, p := range paragraphs {
		body.RemoveChild(p)
	}

	for _, line := range strings.Split(text, "\n") {
		var p *etree.Element
		if template != nil {
			p = template.Copy()
		} else {
			p = etree.NewElement(qualified(tc, "p"))
		}
		body.AddChild(p)
		ApplyParagraph(p, line)
	}
}
