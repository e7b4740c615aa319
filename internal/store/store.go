package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/docalign/internal"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS alignment_runs (
		id TEXT PRIMARY KEY,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		corpus_path TEXT NOT NULL,
		pairs_processed INTEGER DEFAULT 0,
		pairs_skipped INTEGER DEFAULT 0,
		lines_written INTEGER DEFAULT 0,
		mismatches INTEGER DEFAULT 0,
		oversized_rows INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- one row per document pair that diverged structurally
	CREATE TABLE IF NOT EXISTS mismatches (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		pair_label TEXT NOT NULL,
		position INTEGER NOT NULL,
		source_key TEXT NOT NULL,
		reference_text TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (run_id) REFERENCES alignment_runs(id)
	);

	-- table rows excluded from the corpus by the word bound
	CREATE TABLE IF NOT EXISTS oversized_rows (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		pair_label TEXT NOT NULL,
		source_text TEXT NOT NULL,
		reference_text TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (run_id) REFERENCES alignment_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_mismatches_run ON mismatches(run_id);
	CREATE INDEX IF NOT EXISTS idx_oversized_run ON oversized_rows(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) SaveRun(ctx context.Context, run internal.AlignmentRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alignment_runs (id, source_lang, target_lang, corpus_path, pairs_processed, pairs_skipped, lines_written, mismatches, oversized_rows, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceLang, run.TargetLang, run.CorpusPath,
		run.PairsProcessed, run.PairsSkipped, run.LinesWritten,
		run.Mismatches, run.OversizedRows, run.Timestamp)
	return err
}

func (s *Store) SaveMismatch(ctx context.Context, runID, pairLabel string, position int, sourceKey, referenceText string) error {
	id := fmt.Sprintf("%s_mm_%s", runID, pairLabel)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO mismatches (id, run_id, pair_label, position, source_key, reference_text)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, runID, pairLabel, position, normalizeText(sourceKey), normalizeText(referenceText))
	return err
}

func (s *Store) SaveOversizedRow(ctx context.Context, runID, pairLabel string, index int, sourceText, referenceText string) error {
	id := fmt.Sprintf("%s_ov_%s_%d", runID, pairLabel, index)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO oversized_rows (id, run_id, pair_label, source_text, reference_text)
		 VALUES (?, ?, ?, ?, ?)`,
		id, runID, pairLabel, normalizeText(sourceText), normalizeText(referenceText))
	return err
}

// GetRun retrieves a run summary by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*internal.AlignmentRun, error) {
	var run internal.AlignmentRun
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source_lang, target_lang, corpus_path, pairs_processed, pairs_skipped, lines_written, mismatches, oversized_rows, created_at
		 FROM alignment_runs WHERE id = ?`, runID).Scan(
		&run.ID, &run.SourceLang, &run.TargetLang, &run.CorpusPath,
		&run.PairsProcessed, &run.PairsSkipped, &run.LinesWritten,
		&run.Mismatches, &run.OversizedRows, &run.Timestamp)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns all run summaries ordered by most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]internal.AlignmentRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_lang, target_lang, corpus_path, pairs_processed, pairs_skipped, lines_written, mismatches, oversized_rows, created_at
		 FROM alignment_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []internal.AlignmentRun
	for rows.Next() {
		var run internal.AlignmentRun
		if err := rows.Scan(&run.ID, &run.SourceLang, &run.TargetLang, &run.CorpusPath,
			&run.PairsProcessed, &run.PairsSkipped, &run.LinesWritten,
			&run.Mismatches, &run.OversizedRows, &run.Timestamp); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// MismatchEntry is a row from the mismatches table.
type MismatchEntry struct {
	PairLabel     string
	Position      int
	SourceKey     string
	ReferenceText string
}

// ListMismatches returns the structural mismatches recorded for a run.
func (s *Store) ListMismatches(ctx context.Context, runID string) ([]MismatchEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pair_label, position, source_key, reference_text FROM mismatches WHERE run_id = ? ORDER BY pair_label`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []MismatchEntry
	for rows.Next() {
		var e MismatchEntry
		if err := rows.Scan(&e.PairLabel, &e.Position, &e.SourceKey, &e.ReferenceText); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// OversizedEntry is a row from the oversized_rows table.
type OversizedEntry struct {
	PairLabel     string
	SourceText    string
	ReferenceText string
}

// ListOversizedRows returns the excluded table rows recorded for a run.
func (s *Store) ListOversizedRows(ctx context.Context, runID string) ([]OversizedEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pair_label, source_text, reference_text FROM oversized_rows WHERE run_id = ? ORDER BY id`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []OversizedEntry
	for rows.Next() {
		var e OversizedEntry
		if err := rows.Scan(&e.PairLabel, &e.SourceText, &e.ReferenceText); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearRuns removes all run history, including per-run diagnostics.
func (s *Store) ClearRuns(ctx context.Context) (int64, error) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM mismatches`); err != nil {
		return 0, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM oversized_rows`); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM alignment_runs`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// diagnostic text compares consistently across runs.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
