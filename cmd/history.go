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
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/docalign/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect alignment run history",
	Long:  `List past alignment runs and show their diagnostic records.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all alignment runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(viper.GetString("db"))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No alignment runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLANGS\tPAIRS\tSKIPPED\tLINES\tMISMATCH\tOVERSIZED\tWHEN")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s→%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
				r.ID, r.SourceLang, r.TargetLang,
				r.PairsProcessed, r.PairsSkipped, r.LinesWritten,
				r.Mismatches, r.OversizedRows,
				r.Timestamp.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show diagnostics of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(viper.GetString("db"))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		ctx := context.Background()
		run, err := db.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Run %s (%s→%s, %s)\n", run.ID, run.SourceLang, run.TargetLang,
			run.Timestamp.Format("2006-01-02 15:04"))
		fmt.Printf("Corpus:          %s\n", run.CorpusPath)
		fmt.Printf("Pairs processed: %d (skipped %d)\n", run.PairsProcessed, run.PairsSkipped)
		fmt.Printf("Lines written:   %d\n", run.LinesWritten)

		mismatches, err := db.ListMismatches(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to list mismatches: %w", err)
		}
		if len(mismatches) > 0 {
			fmt.Printf("\nStructural mismatches (%d):\n", len(mismatches))
			for _, m := range mismatches {
				fmt.Printf("  %s block %d: %s | %s\n",
					m.PairLabel, m.Position, snippet(m.SourceKey), snippet(m.ReferenceText))
			}
		}

		oversized, err := db.ListOversizedRows(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to list oversized rows: %w", err)
		}
		if len(oversized) > 0 {
			fmt.Printf("\nOversized table rows (%d):\n", len(oversized))
			for _, o := range oversized {
				fmt.Printf("  %s: %s | %s\n",
					o.PairLabel, snippet(o.SourceText), snippet(o.ReferenceText))
			}
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(viper.GetString("db"))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		n, err := db.ClearRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Removed %d runs\n", n)
		return nil
	},
}

func snippet(s string) string {
	const maxLen = 60
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
}
