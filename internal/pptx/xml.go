package pptx

import "github.com/beevik/etree"

const (
	nsDrawing      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPresentation = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsRelationship = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"

	relTypeSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
)

// is reports whether e is the element local in namespace ns. Prefixes are
// resolved against the document so decks using other prefixes still match.
func is(e *etree.Element, ns, local string) bool {
	return e != nil && e.Tag == local && e.NamespaceURI() == ns
}

func isDrawing(e *etree.Element, local string) bool {
	return is(e, nsDrawing, local)
}

func isPresentation(e *etree.Element, local string) bool {
	return is(e, nsPresentation, local)
}

// child returns the first child element of e named local in ns
func child(e *etree.Element, ns, local string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if is(c, ns, local) {
			return c
		}
	}
	return nil
}

// children returns all child elements of e named local in ns
func children(e *etree.Element, ns, local string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if is(c, ns, local) {
			out = append(out, c)
		}
	}
	return out
}

// qualified names a new element the way its sibling e is prefixed
func qualified(e *etree.Element, local string) string {
	if e.Space == "" {
		return local
	}
	return e.Space + ":" + local
}

// attr returns the value of the attribute local in namespace ns
func attr(e *etree.Element, ns, local string) string {
	for _, a := range e.Attr {
		if a.Key == local && a.NamespaceURI() == ns {
			return a.Value
		}
	}
	return ""
}
