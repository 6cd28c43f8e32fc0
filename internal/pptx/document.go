package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

const (
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
)

// ErrNotPresentation is returned for zip files without a presentation part
var ErrNotPresentation = errors.New("not a PowerPoint presentation")

// Slide is one parsed slide part
type Slide struct {
	Index int    // 1-based position in the deck
	Part  string // zip entry name, e.g. ppt/slides/slide1.xml
	doc   *etree.Document
}

// Deck is an opened .pptx file
type Deck struct {
	path   string
	reader *zip.Reader
	slides []*Slide
	parts  map[string]*Slide
}

// Open reads the deck at path and parses its slides in presentation order
func Open(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presentation: %w", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open presentation container: %w", err)
	}

	deck := &Deck{
		path:   path,
		reader: reader,
		parts:  make(map[string]*Slide),
	}

	order, err := deck.slideOrder()
	if err != nil {
		return nil, err
	}

	for i, part := range order {
		doc, err := deck.parsePart(part)
		if err != nil {
			return nil, fmt.Errorf("failed to parse slide %d: %w", i+1, err)
		}
		slide := &Slide{Index: i + 1, Part: part, doc: doc}
		deck.slides = append(deck.slides, slide)
		deck.parts[part] = slide
	}

	return deck, nil
}

// Path returns the file the deck was opened from
func (d *Deck) Path() string {
	return d.path
}

// Slides returns the slides in presentation order
func (d *Deck) Slides() []*Slide {
	return d.slides
}

// slideOrder resolves the slide parts listed in p:sldIdLst through the
// presentation relationships
func (d *Deck) slideOrder() ([]string, error) {
	pres, err := d.parsePart(presentationPart)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotPresentation
		}
		return nil, fmt.Errorf("failed to parse presentation: %w", err)
	}

	rels, err := d.parsePart(presentationRels)
	if err != nil {
		return nil, fmt.Errorf("failed to parse presentation relationships: %w", err)
	}

	targets := make(map[string]string)
	if root := rels.Root(); root != nil {
		for _, rel := range children(root, nsPackageRels, "Relationship") {
			if rel.SelectAttrValue("Type", "") != relTypeSlide {
				continue
			}
			targets[rel.SelectAttrValue("Id", "")] = resolveTarget(rel.SelectAttrValue("Target", ""))
		}
	}

	list := child(pres.Root(), nsPresentation, "sldIdLst")
	var order []string
	for _, id := range children(list, nsPresentation, "sldId") {
		rid := attr(id, nsRelationship, "id")
		target, ok := targets[rid]
		if !ok {
			return nil, fmt.Errorf("slide relationship %q not found", rid)
		}
		order = append(order, target)
	}

	return order, nil
}

// resolveTarget turns a relationship target of presentation.xml into a
// zip entry name
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join("ppt", target)
}

func (d *Deck) parsePart(name string) (*etree.Document, error) {
	f := d.find(name)
	if f == nil {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%s: empty XML part", name)
	}
	return doc, nil
}

func (d *Deck) find(name string) *zip.File {
	for _, f := range d.reader.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Save writes the deck to path. Slide parts are re-serialised from their
// trees; every other entry is copied as stored in the source file.
func (d *Deck) Save(path string) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range d.reader.File {
		slide, ok := d.parts[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("failed to copy %s: %w", f.Name, err)
			}
			continue
		}

		data, err := slide.doc.WriteToBytes()
		if err != nil {
			return fmt.Errorf("failed to serialise %s: %w", f.Name, err)
		}

		header := f.FileHeader
		header.Extra = nil
		header.CRC32 = 0
		header.CompressedSize64 = 0
		header.UncompressedSize64 = 0
		w, err := zw.CreateHeader(&header)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish presentation container: %w", err)
	}

	return writeFileAtomic(path, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".slidetrans-*.pptx.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write presentation: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write presentation: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save presentation: %w", err)
	}
	return nil
}
