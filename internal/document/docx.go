package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Parse dispatches on the file extension of name and returns the parsed
// block sequence. Only DOCX is supported; the pre-flight validator rejects
// other formats before any fetch happens, so an error here indicates a
// caller bug rather than bad user input.
func Parse(name string, data []byte) (*Document, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx":
		return parseDocx(data)
	default:
		return nil, fmt.Errorf("unsupported document format: %s", filepath.Ext(name))
	}
}

// parseDocx reads word/document.xml from the ZIP archive and classifies each
// body element into a text or table block. Body elements other than
// paragraphs and tables (section properties, bookmarks, ...) are skipped.
func parseDocx(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	doc := &Document{}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		// Table paragraphs are consumed by parseTable, so any <w:p> seen
		// here is a body-level paragraph.
		switch start.Name.Local {
		case "p":
			text, err := parseParagraph(decoder)
			if err != nil {
				return nil, err
			}
			doc.Blocks = append(doc.Blocks, NewTextBlock(text))
		case "tbl":
			tbl, err := parseTable(decoder)
			if err != nil {
				return nil, err
			}
			doc.Blocks = append(doc.Blocks, NewTableBlock(tbl))
		}
	}

	return doc, nil
}

// parseParagraph consumes tokens up to the closing </w:p> and returns the
// concatenated text of the paragraph's <w:t> runs.
func parseParagraph(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	inRun := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			return "", fmt.Errorf("parse paragraph: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun = true
			}
		case xml.CharData:
			if inRun {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				return text.String(), nil
			}
		}
	}
}

// parseTable consumes tokens up to the closing </w:tbl> and collects the
// table's rows, cells and cell paragraphs. Text inside a nested table is
// folded into the enclosing cell's paragraphs; only depth-1 rows and cells
// form the table structure.
func parseTable(decoder *xml.Decoder) (*Table, error) {
	tbl := &Table{}
	depth := 1
	inPara := false
	inRun := false
	var para strings.Builder

	for depth > 0 {
		tok, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("parse table: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				depth++
			case "tr":
				if depth == 1 {
					tbl.Rows = append(tbl.Rows, Row{})
				}
			case "tc":
				if depth == 1 && len(tbl.Rows) > 0 {
					row := &tbl.Rows[len(tbl.Rows)-1]
					row.Cells = append(row.Cells, Cell{})
				}
			case "p":
				if currentCell(tbl) != nil {
					inPara = true
					para.Reset()
				}
			case "t":
				if inPara {
					inRun = true
				}
			}
		case xml.CharData:
			if inRun {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				depth--
			case "t":
				inRun = false
			case "p":
				if inPara {
					if cell := currentCell(tbl); cell != nil {
						cell.Paragraphs = append(cell.Paragraphs, para.String())
					}
					inPara = false
				}
			}
		}
	}

	return tbl, nil
}

// currentCell returns the last cell of the last row, or nil when the table
// has no open cell yet.
func currentCell(tbl *Table) *Cell {
	if len(tbl.Rows) == 0 {
		return nil
	}
	row := &tbl.Rows[len(tbl.Rows)-1]
	if len(row.Cells) == 0 {
		return nil
	}
	return &row.Cells[len(row.Cells)-1]
}
