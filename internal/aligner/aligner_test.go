package aligner_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/valpere/docalign/internal/aligner"
	"github.com/valpere/docalign/internal/document"
)

// memSink collects written pairs; failOn holds 0-based call indices that
// return an error instead.
type memSink struct {
	pairs  [][2]string
	failOn map[int]bool
	calls  int
}

func (s *memSink) WritePair(src, ref string) error {
	idx := s.calls
	s.calls++
	if s.failOn[idx] {
		return errors.New("disk full")
	}
	s.pairs = append(s.pairs, [2]string{src, ref})
	return nil
}

func textBlocks(texts ...string) []document.Block {
	var blocks []document.Block
	for _, t := range texts {
		blocks = append(blocks, document.NewTextBlock(t))
	}
	return blocks
}

func tableBlock(rows ...[]string) document.Block {
	tbl := &document.Table{}
	for _, cells := range rows {
		var row document.Row
		for _, c := range cells {
			row.Cells = append(row.Cells, document.Cell{Paragraphs: []string{c}})
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return document.NewTableBlock(tbl)
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

// --- FilterBlanks ---

func TestFilterBlanks_RemovesEmptyAndWhitespace(t *testing.T) {
	blocks := textBlocks("Hello", "", "  \t ", "World")
	got := aligner.FilterBlanks(blocks)
	if len(got) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(got))
	}
	if got[0].Text != "Hello" || got[1].Text != "World" {
		t.Errorf("unexpected blocks after filtering: %v", got)
	}
}

func TestFilterBlanks_KeepsTables(t *testing.T) {
	blocks := []document.Block{tableBlock([]string{""})}
	got := aligner.FilterBlanks(blocks)
	if len(got) != 1 {
		t.Errorf("table block must survive filtering, got %d blocks", len(got))
	}
}

func TestFilterBlanks_Empty(t *testing.T) {
	if got := aligner.FilterBlanks(nil); len(got) != 0 {
		t.Errorf("expected no blocks, got %d", len(got))
	}
}

// --- Align: text pairs ---

func TestAlign_BlankFilteredParagraphs(t *testing.T) {
	// Source ["Hello", "", "World"], reference ["Hallo", "", "Welt"]:
	// after filtering both sides, exactly two line pairs come out.
	src := aligner.FilterBlanks(textBlocks("Hello", "", "World"))
	ref := aligner.FilterBlanks(textBlocks("Hallo", "", "Welt"))

	sink := &memSink{}
	res := aligner.Align(src, ref, sink)

	if res.Emitted != 2 {
		t.Fatalf("expected 2 emitted pairs, got %d", res.Emitted)
	}
	want := [][2]string{{"Hello", "Hallo"}, {"World", "Welt"}}
	for i, w := range want {
		if sink.pairs[i] != w {
			t.Errorf("pair %d: expected %v, got %v", i, w, sink.pairs[i])
		}
	}
	if res.Mismatch != nil {
		t.Errorf("unexpected mismatch: %+v", res.Mismatch)
	}
}

func TestAlign_TruncatesAtShorterSide(t *testing.T) {
	src := textBlocks("one", "two", "three")
	ref := textBlocks("un", "deux")

	sink := &memSink{}
	res := aligner.Align(src, ref, sink)

	if res.Emitted != 2 {
		t.Errorf("expected 2 pairs, got %d", res.Emitted)
	}
	// Length difference is silently truncated, never a mismatch.
	if res.Mismatch != nil {
		t.Errorf("unexpected mismatch: %+v", res.Mismatch)
	}
}

func TestAlign_ContentNeverCompared(t *testing.T) {
	// Completely unrelated text still pairs; only the kind matters.
	sink := &memSink{}
	res := aligner.Align(textBlocks("apples"), textBlocks("Dampfschifffahrt"), sink)
	if res.Emitted != 1 {
		t.Errorf("expected 1 pair, got %d", res.Emitted)
	}
}

// --- Align: mismatch ---

func TestAlign_MismatchStopsImmediately(t *testing.T) {
	// Source [Text, Table], reference [Table, Text]: mismatch at position 0,
	// nothing emitted.
	src := []document.Block{
		document.NewTextBlock("intro"),
		tableBlock([]string{"a"}),
	}
	ref := []document.Block{
		tableBlock([]string{"b"}),
		document.NewTextBlock("intro"),
	}

	sink := &memSink{}
	res := aligner.Align(src, ref, sink)

	if res.Emitted != 0 {
		t.Errorf("expected 0 pairs, got %d", res.Emitted)
	}
	if res.Mismatch == nil {
		t.Fatal("expected a mismatch record")
	}
	if res.Mismatch.Position != 0 {
		t.Errorf("expected mismatch at 0, got %d", res.Mismatch.Position)
	}
	if res.Mismatch.SourceKey != "intro" {
		t.Errorf("mismatch key should be the source text, got %q", res.Mismatch.SourceKey)
	}
	if res.Mismatch.Reference != "b" {
		t.Errorf("mismatch value should be the reference content, got %q", res.Mismatch.Reference)
	}
}

func TestAlign_NoPairsAfterMismatch(t *testing.T) {
	src := []document.Block{
		document.NewTextBlock("first"),
		document.NewTextBlock("second"),
		tableBlock([]string{"x"}),
		document.NewTextBlock("never"),
	}
	ref := []document.Block{
		document.NewTextBlock("erste"),
		document.NewTextBlock("zweite"),
		document.NewTextBlock("dritte"),
		document.NewTextBlock("vierte"),
	}

	sink := &memSink{}
	res := aligner.Align(src, ref, sink)

	if res.Emitted != 2 {
		t.Errorf("expected 2 pairs before the mismatch, got %d", res.Emitted)
	}
	if res.Mismatch == nil || res.Mismatch.Position != 2 {
		t.Fatalf("expected mismatch at position 2, got %+v", res.Mismatch)
	}
	// Position 3 matches in kind but must not be processed.
	for _, p := range sink.pairs {
		if p[0] == "never" {
			t.Error("pair after mismatch position was emitted")
		}
	}
}

// --- Align: tables ---

func TestAlign_TableRows(t *testing.T) {
	src := []document.Block{tableBlock([]string{"A1", "B1"}, []string{"A2", "B2"})}
	ref := []document.Block{tableBlock([]string{"a1", "b1"}, []string{"a2", "b2"})}

	sink := &memSink{}
	res := aligner.Align(src, ref, sink)

	if res.Emitted != 2 {
		t.Fatalf("expected 2 row pairs, got %d", res.Emitted)
	}
	if sink.pairs[0] != [2]string{"A1 B1", "a1 b1"} {
		t.Errorf("unexpected first row pair: %v", sink.pairs[0])
	}
	if sink.pairs[1] != [2]string{"A2 B2", "a2 b2"} {
		t.Errorf("unexpected second row pair: %v", sink.pairs[1])
	}
}

func TestAlign_TableRowCountTruncated(t *testing.T) {
	src := []document.Block{tableBlock([]string{"r1"}, []string{"r2"}, []string{"r3"})}
	ref := []document.Block{tableBlock([]string{"s1"})}

	sink := &memSink{}
	res := aligner.Align(src, ref, sink)

	if res.Emitted != 1 {
		t.Errorf("expected 1 row pair, got %d", res.Emitted)
	}
	if res.Mismatch != nil {
		t.Errorf("row count difference must not be a mismatch: %+v", res.Mismatch)
	}
}

func TestAlign_OversizedRowDiverted(t *testing.T) {
	// 205-word source row with a 40-word reference: excluded from the
	// corpus, table continues with the next row.
	src := []document.Block{tableBlock([]string{words(205)}, []string{"small"})}
	ref := []document.Block{tableBlock([]string{words(40)}, []string{"klein"})}

	sink := &memSink{}
	res := aligner.Align(src, ref, sink)

	if len(res.Oversized) != 1 {
		t.Fatalf("expected 1 oversized row, got %d", len(res.Oversized))
	}
	if res.Emitted != 1 {
		t.Errorf("expected the following row to be emitted, got %d", res.Emitted)
	}
	for _, p := range sink.pairs {
		if strings.Contains(p[0], "word word") && len(strings.Fields(p[0])) >= aligner.MaxRowWords {
			t.Error("oversized row found in corpus output")
		}
	}
}

func TestAlign_WordBoundIsInclusive(t *testing.T) {
	// Exactly 200 words is already oversized; 199 is not.
	atBound := []document.Block{tableBlock([]string{words(aligner.MaxRowWords)})}
	ref := []document.Block{tableBlock([]string{"ok"})}

	sink := &memSink{}
	res := aligner.Align(atBound, ref, sink)
	if len(res.Oversized) != 1 || res.Emitted != 0 {
		t.Errorf("row of exactly %d words must be diverted: emitted=%d oversized=%d",
			aligner.MaxRowWords, res.Emitted, len(res.Oversized))
	}

	under := []document.Block{tableBlock([]string{words(aligner.MaxRowWords - 1)})}
	sink = &memSink{}
	res = aligner.Align(under, ref, sink)
	if len(res.Oversized) != 0 || res.Emitted != 1 {
		t.Errorf("row of %d words must be emitted: emitted=%d oversized=%d",
			aligner.MaxRowWords-1, res.Emitted, len(res.Oversized))
	}
}

func TestAlign_ReferenceSideTriggersBound(t *testing.T) {
	src := []document.Block{tableBlock([]string{"short"})}
	ref := []document.Block{tableBlock([]string{words(250)})}

	res := aligner.Align(src, ref, &memSink{})
	if len(res.Oversized) != 1 || res.Emitted != 0 {
		t.Errorf("oversized reference side must divert the row: emitted=%d oversized=%d",
			res.Emitted, len(res.Oversized))
	}
}

// --- Align: write failures ---

func TestAlign_WriteFailureDropsSinglePair(t *testing.T) {
	src := textBlocks("one", "two", "three")
	ref := textBlocks("un", "deux", "trois")

	sink := &memSink{failOn: map[int]bool{1: true}}
	res := aligner.Align(src, ref, sink)

	if res.Emitted != 2 {
		t.Errorf("expected 2 pairs, got %d", res.Emitted)
	}
	if len(res.WriteErrs) != 1 {
		t.Errorf("expected 1 write error, got %d", len(res.WriteErrs))
	}
	if len(sink.pairs) != 2 {
		t.Errorf("expected 2 written pairs, got %d", len(sink.pairs))
	}
}

func TestAlign_TableWriteFailureContinuesRows(t *testing.T) {
	src := []document.Block{tableBlock([]string{"r1"}, []string{"r2"}, []string{"r3"})}
	ref := []document.Block{tableBlock([]string{"s1"}, []string{"s2"}, []string{"s3"})}

	sink := &memSink{failOn: map[int]bool{0: true}}
	res := aligner.Align(src, ref, sink)

	if res.Emitted != 2 {
		t.Errorf("expected 2 pairs after one failed row, got %d", res.Emitted)
	}
	if len(res.WriteErrs) != 1 {
		t.Errorf("expected 1 write error, got %d", len(res.WriteErrs))
	}
}

// --- order across mixed blocks ---

func TestAlign_OrderPreserved(t *testing.T) {
	src := []document.Block{
		document.NewTextBlock("p1"),
		tableBlock([]string{"t1"}, []string{"t2"}),
		document.NewTextBlock("p2"),
	}
	ref := []document.Block{
		document.NewTextBlock("q1"),
		tableBlock([]string{"u1"}, []string{"u2"}),
		document.NewTextBlock("q2"),
	}

	sink := &memSink{}
	res := aligner.Align(src, ref, sink)

	if res.Emitted != 4 {
		t.Fatalf("expected 4 pairs, got %d", res.Emitted)
	}
	wantOrder := []string{"p1", "t1", "t2", "p2"}
	for i, w := range wantOrder {
		if sink.pairs[i][0] != w {
			t.Errorf("position %d: expected %q, got %q", i, w, sink.pairs[i][0])
		}
	}
}
