package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Slide describes the shapes of one fixture slide
type Slide struct {
	Shapes []Shape
}

// Shape is either a text box (Paragraphs, each a list of runs) or a table
// (Table, rows of cell texts)
type Shape struct {
	Paragraphs [][]string
	Table      [][]string
}

// TextBox returns a text shape with one single-run paragraph per text
func TextBox(paragraphs ...string) Shape {
	shape := Shape{}
	for _, p := range paragraphs {
		if p == "" {
			shape.Paragraphs = append(shape.Paragraphs, nil)
			continue
		}
		shape.Paragraphs = append(shape.Paragraphs, []string{p})
	}
	return shape
}

// Table returns a table shape
func Table(rows ...[]string) Shape {
	return Shape{Table: rows}
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// WriteDeck writes a minimal .pptx containing slides to path
func WriteDeck(t *testing.T, path string, slides ...Slide) {
	t.Helper()

	data, err := DeckBytes(slides...)
	if err != nil {
		t.Fatalf("Failed to build deck: %v", err)
	}
	CreateTestFile(t, path, data)
}

const (
	nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// DeckBytes builds the zip container of a minimal presentation. Slide
// relationships are listed in reverse so readers must follow sldIdLst.
func DeckBytes(slides ...Slide) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypes(len(slides))},
		{"docProps/app.xml", xmlHeader + `<Properties><Application>slidetrans fixture</Application></Properties>`},
		{"ppt/presentation.xml", presentation(len(slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRels(len(slides))},
	}
	for i, slide := range slides {
		files = append(files, struct {
			name string
			body string
		}{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slideXML(slide)})
	}

	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func contentTypes(n int) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

func presentation(n int) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:presentation ` + nsDecl + `><p:sldIdLst>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1)
	}
	sb.WriteString(`</p:sldIdLst></p:presentation>`)
	return sb.String()
}

func presentationRels(n int) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := n; i >= 1; i-- {
		fmt.Fprintf(&sb, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

func slideXML(slide Slide) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<p:sld ` + nsDecl + `><p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)

	for i, shape := range slide.Shapes {
		id := i + 2
		if shape.Table != nil {
			writeTable(&sb, id, shape.Table)
		} else {
			writeTextBox(&sb, id, shape.Paragraphs)
		}
	}

	sb.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return sb.String()
}

func writeTextBox(sb *strings.Builder, id int, paragraphs [][]string) {
	fmt.Fprintf(sb, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr/>`, id, id-1)
	sb.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, runs := range paragraphs {
		sb.WriteString(`<a:p>`)
		for j, run := range runs {
			bold := ""
			if j%2 == 1 {
				bold = ` b="1"`
			}
			fmt.Fprintf(sb, `<a:r><a:rPr lang="en-US" sz="2400"%s/><a:t>%s</a:t></a:r>`, bold, html.EscapeString(run))
		}
		sb.WriteString(`<a:endParaRPr lang="en-US"/></a:p>`)
	}
	sb.WriteString(`</p:txBody></p:sp>`)
}

func writeTable(sb *strings.Builder, id int, rows [][]string) {
	fmt.Fprintf(sb, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`, id, id-1)
	sb.WriteString(`<p:xfrm><a:off x="0" y="0"/><a:ext cx="100" cy="100"/></p:xfrm>`)
	sb.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblGrid>`)
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	for c := 0; c < cols; c++ {
		sb.WriteString(`<a:gridCol w="100"/>`)
	}
	sb.WriteString(`</a:tblGrid>`)
	for _, row := range rows {
		sb.WriteString(`<a:tr h="100">`)
		for _, cell := range row {
			sb.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/>`)
			for _, line := range strings.Split(cell, "\n") {
				if line == "" {
					sb.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
					continue
				}
				fmt.Fprintf(sb, `<a:p><a:pPr algn="ctr"/><a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r></a:p>`, html.EscapeString(line))
			}
			sb.WriteString(`</a:txBody><a:tcPr/></a:tc>`)
		}
		sb.WriteString(`</a:tr>`)
	}
	sb.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
}
