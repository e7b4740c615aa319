/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/docalign/internal"
	"github.com/valpere/docalign/internal/aligner"
	"github.com/valpere/docalign/internal/corpus"
	"github.com/valpere/docalign/internal/detector"
	"github.com/valpere/docalign/internal/document"
	"github.com/valpere/docalign/internal/fetcher"
	"github.com/valpere/docalign/internal/store"
	"github.com/valpere/docalign/internal/validator"
)

var (
	alignOutput      string
	alignSourceLang  string
	alignTargetLang  string
	alignManifest    string
	alignVerifyLangs bool
	alignNoHistory   bool
)

var alignCmd = &cobra.Command{
	Use:   "align [source=reference ...]",
	Short: "Align document pairs into a tab-separated parallel corpus",
	Long: `Align source documents with their human-translated references and
append the resulting line pairs to a tab-separated corpus file.

Each pair is given as source=reference, naming two objects in the bucket,
or listed in a manifest file (one source<TAB>reference per line).

Paragraphs are paired position by position after blank lines are dropped
from both sides; table rows are paired the same way, with rows of 200 or
more words on either side excluded from the corpus. A structural mismatch
stops alignment for that pair; already-written lines are kept.

Example:
  docalign align -b my-bucket -s en -t uk -o corpus.tsv contract.docx=contract_uk.docx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket := viper.GetString("bucket")
		if bucket == "" {
			return fmt.Errorf("bucket is required")
		}

		if err := validator.ValidateLanguages(alignSourceLang, alignTargetLang); err != nil {
			return err
		}

		pairs, err := parsePairArgs(args)
		if err != nil {
			return err
		}
		if alignManifest != "" {
			manifestPairs, err := readManifest(alignManifest)
			if err != nil {
				return err
			}
			pairs = append(pairs, manifestPairs...)
		}
		if len(pairs) == 0 {
			return fmt.Errorf("no document pairs given")
		}

		// Pre-flight: reject bad pairs before any network or parsing work.
		var valid []validator.PairSpec
		skipped := 0
		for _, p := range pairs {
			if err := validator.ValidatePair(p); err != nil {
				fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", pairLabel(p), err)
				skipped++
				continue
			}
			valid = append(valid, p)
		}
		if len(valid) == 0 {
			return fmt.Errorf("no valid document pairs to process")
		}

		ctx := context.Background()

		f, err := fetcher.New(ctx, viper.GetString("credentials"))
		if err != nil {
			return err
		}
		defer f.Close()

		w, err := corpus.NewWriter(alignOutput)
		if err != nil {
			return err
		}

		var det *detector.Detector
		if alignVerifyLangs {
			det = detector.New()
		}

		run := internal.AlignmentRun{
			ID:         uuid.New().String(),
			SourceLang: alignSourceLang,
			TargetLang: alignTargetLang,
			CorpusPath: alignOutput,
			Timestamp:  time.Now(),
		}

		type pairOutcome struct {
			label string
			res   aligner.Result
		}
		var outcomes []pairOutcome

		for _, p := range valid {
			label := pairLabel(p)

			srcDoc, err := f.FetchDocument(ctx, bucket, p.Source)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", label, err)
				skipped++
				continue
			}
			refDoc, err := f.FetchDocument(ctx, bucket, p.Reference)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", label, err)
				skipped++
				continue
			}

			srcBlocks := aligner.FilterBlanks(srcDoc.Blocks)
			refBlocks := aligner.FilterBlanks(refDoc.Blocks)

			if det != nil {
				spotCheckLanguages(det, label, srcBlocks, refBlocks)
			}

			res := aligner.Align(srcBlocks, refBlocks, w)

			for _, werr := range res.WriteErrs {
				fmt.Fprintf(os.Stderr, "Dropped pair in %s: %v\n", label, werr)
			}
			if res.Mismatch != nil {
				fmt.Fprintf(os.Stderr, "Structure mismatch in %s at block %d, alignment stopped\n",
					label, res.Mismatch.Position)
			}

			run.PairsProcessed++
			run.LinesWritten += res.Emitted
			run.OversizedRows += len(res.Oversized)
			if res.Mismatch != nil {
				run.Mismatches++
			}
			outcomes = append(outcomes, pairOutcome{label: label, res: res})
		}
		run.PairsSkipped = skipped

		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to finalize corpus: %w", err)
		}

		if !alignNoHistory {
			db, err := store.New(viper.GetString("db"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Run history unavailable: %v\n", err)
			} else {
				defer db.Close()
				_ = db.SaveRun(ctx, run)
				for _, o := range outcomes {
					if o.res.Mismatch != nil {
						_ = db.SaveMismatch(ctx, run.ID, o.label, o.res.Mismatch.Position,
							o.res.Mismatch.SourceKey, o.res.Mismatch.Reference)
					}
					for i, ov := range o.res.Oversized {
						_ = db.SaveOversizedRow(ctx, run.ID, o.label, i, ov.Source, ov.Reference)
					}
				}
			}
		}

		fmt.Printf("Run %s\n", run.ID)
		fmt.Printf("Pairs processed: %d (skipped %d)\n", run.PairsProcessed, run.PairsSkipped)
		fmt.Printf("Lines written:   %d → %s\n", run.LinesWritten, alignOutput)
		fmt.Printf("Mismatches:      %d\n", run.Mismatches)
		fmt.Printf("Oversized rows:  %d\n", run.OversizedRows)
		return nil
	},
}

// spotCheckLanguages warns when the first paragraph of either side does not
// look like its declared language. Advisory only.
func spotCheckLanguages(det *detector.Detector, label string, srcBlocks, refBlocks []document.Block) {
	if text, ok := firstText(srcBlocks); ok && !det.Matches(text, alignSourceLang) {
		fmt.Fprintf(os.Stderr, "Warning: %s source does not look like %s\n", label, alignSourceLang)
	}
	if text, ok := firstText(refBlocks); ok && !det.Matches(text, alignTargetLang) {
		fmt.Fprintf(os.Stderr, "Warning: %s reference does not look like %s\n", label, alignTargetLang)
	}
}

func firstText(blocks []document.Block) (string, bool) {
	for _, b := range blocks {
		if b.Kind == document.KindText {
			return b.Text, true
		}
	}
	return "", false
}

func init() {
	rootCmd.AddCommand(alignCmd)

	alignCmd.Flags().StringVarP(&alignOutput, "output", "o", "corpus.tsv", "Output corpus file (appended to)")
	alignCmd.Flags().StringVarP(&alignSourceLang, "source", "s", "", "Source language code (required)")
	alignCmd.Flags().StringVarP(&alignTargetLang, "target", "t", "", "Target language code (required)")
	alignCmd.Flags().StringVarP(&alignManifest, "manifest", "m", "", "Manifest file of pairs (source<TAB>reference per line)")
	alignCmd.Flags().BoolVar(&alignVerifyLangs, "verify-langs", false, "Warn when document text does not match the declared languages")
	alignCmd.Flags().BoolVar(&alignNoHistory, "no-history", false, "Do not record the run in the history database")

	alignCmd.MarkFlagRequired("source")
	alignCmd.MarkFlagRequired("target")
}
