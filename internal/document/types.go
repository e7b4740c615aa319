// Package document models a parsed document as an ordered sequence of
// structural blocks — paragraphs and tables — and extracts that sequence
// from DOCX files.
package document

import "strings"

// BlockKind discriminates the two block variants. The kind is fixed at
// extraction time and is the sole dispatch key during alignment.
type BlockKind int

const (
	KindText BlockKind = iota
	KindTable
)

func (k BlockKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTable:
		return "table"
	}
	return "unknown"
}

// Block is one structural unit of a document body, in document order.
// Exactly one of Text or Table is meaningful, selected by Kind.
type Block struct {
	Kind  BlockKind
	Text  string
	Table *Table
}

// NewTextBlock wraps a paragraph's visible text. The text may be empty;
// blank paragraphs are removed later, before alignment.
func NewTextBlock(text string) Block {
	return Block{Kind: KindText, Text: text}
}

// NewTableBlock wraps a parsed table.
func NewTableBlock(t *Table) Block {
	return Block{Kind: KindTable, Table: t}
}

// Key returns the block's textual content for use in diagnostics.
// Table blocks report their joined cell text.
func (b Block) Key() string {
	if b.Kind == KindText {
		return b.Text
	}
	if b.Table == nil {
		return ""
	}
	return b.Table.JoinedText()
}

// Table holds an ordered sequence of rows.
type Table struct {
	Rows []Row
}

// JoinedText concatenates every row's joined text with single spaces.
func (t *Table) JoinedText() string {
	parts := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		parts = append(parts, r.JoinedText())
	}
	return strings.Join(parts, " ")
}

// Row is an ordered sequence of cells.
type Row struct {
	Cells []Cell
}

// JoinedText concatenates every cell paragraph of the row, in
// column-then-cell order, separated by single spaces.
func (r Row) JoinedText() string {
	var parts []string
	for _, c := range r.Cells {
		parts = append(parts, c.Paragraphs...)
	}
	return strings.Join(parts, " ")
}

// Cell holds the ordered paragraphs of one table cell.
type Cell struct {
	Paragraphs []string
}

// Document is an ordered sequence of body blocks.
type Document struct {
	Blocks []Block
}
