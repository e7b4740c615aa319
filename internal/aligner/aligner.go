// Package aligner walks a source document and its human-translated reference
// in lockstep and emits tab-separated line pairs for the parallel corpus.
// Blank paragraphs are filtered from both sides first so an asymmetric blank
// line cannot shift every subsequent pairing; after that, block kind is the
// only thing validated — content similarity is never checked.
package aligner

import (
	"fmt"
	"strings"

	"github.com/valpere/docalign/internal/document"
)

// MaxRowWords is the word bound applied to table-row pairs. A row where
// either side's joined text reaches the bound is diverted to the oversized
// collection instead of the corpus. Plain paragraph pairs are not bounded.
const MaxRowWords = 200

// PairWriter receives accepted line pairs in emission order.
type PairWriter interface {
	WritePair(src, ref string) error
}

// Mismatch records the first position where the block kinds of the two
// documents diverge. At most one exists per document pair; alignment stops
// there.
type Mismatch struct {
	Position  int
	SourceKey string
	Reference string
}

// OversizedRow is a table row pair excluded from the corpus because either
// side reached MaxRowWords.
type OversizedRow struct {
	Source    string
	Reference string
}

// Result aggregates the outcome of aligning one document pair. Diagnostics
// are returned explicitly rather than accumulated in package state so a
// batch of pairs composes into one aggregate at the call site.
type Result struct {
	Emitted   int
	Mismatch  *Mismatch
	Oversized []OversizedRow
	WriteErrs []error
}

// FilterBlanks removes text blocks whose trimmed content is empty. It must
// run on both sides of a pair, independently, before Align; removed blocks
// are not reported anywhere downstream. Table blocks pass through untouched.
func FilterBlanks(blocks []document.Block) []document.Block {
	var out []document.Block
	for _, b := range blocks {
		if b.Kind == document.KindText && strings.TrimSpace(b.Text) == "" {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Align pairs the two filtered block sequences position by position, writing
// accepted line pairs to w. It stops at the shorter sequence; a length
// difference beyond that is silently truncated, not an error. On the first
// kind mismatch it records the position and returns immediately — no later
// blocks are processed for that pair.
func Align(src, ref []document.Block, w PairWriter) Result {
	var res Result

	n := min(len(src), len(ref))
	for i := 0; i < n; i++ {
		s, r := src[i], ref[i]
		switch {
		case s.Kind == document.KindText && r.Kind == document.KindText:
			if err := w.WritePair(s.Text, r.Text); err != nil {
				res.WriteErrs = append(res.WriteErrs, fmt.Errorf("block %d: %w", i, err))
				continue
			}
			res.Emitted++
		case s.Kind == document.KindTable && r.Kind == document.KindTable:
			alignTables(s.Table, r.Table, w, &res)
		default:
			res.Mismatch = &Mismatch{
				Position:  i,
				SourceKey: s.Key(),
				Reference: r.Key(),
			}
			return res
		}
	}

	return res
}

// alignTables pairs table rows position by position, stopping at the shorter
// table. Each row's cell paragraphs are joined with single spaces per side;
// rows at or over the word bound go to the oversized collection, and a
// failed write drops only that row.
func alignTables(src, ref *document.Table, w PairWriter, res *Result) {
	n := min(len(src.Rows), len(ref.Rows))
	for i := 0; i < n; i++ {
		srcText := src.Rows[i].JoinedText()
		refText := ref.Rows[i].JoinedText()

		if wordCount(srcText) >= MaxRowWords || wordCount(refText) >= MaxRowWords {
			res.Oversized = append(res.Oversized, OversizedRow{Source: srcText, Reference: refText})
			continue
		}

		if err := w.WritePair(srcText, refText); err != nil {
			res.WriteErrs = append(res.WriteErrs, fmt.Errorf("table row %d: %w", i, err))
			continue
		}
		res.Emitted++
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
