package internal

import "time"

// AlignmentRun summarises one invocation of the aligner over a batch of
// document pairs.
type AlignmentRun struct {
	ID             string    `json:"id"`
	SourceLang     string    `json:"source_lang"`
	TargetLang     string    `json:"target_lang"`
	CorpusPath     string    `json:"corpus_path"`
	PairsProcessed int       `json:"pairs_processed"`
	PairsSkipped   int       `json:"pairs_skipped"`
	LinesWritten   int       `json:"lines_written"`
	Mismatches     int       `json:"mismatches"`
	OversizedRows  int       `json:"oversized_rows"`
	Timestamp      time.Time `json:"timestamp"`
}
