package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/haneol/mundap/internal/corpus"
	"github.com/haneol/mundap/internal/store"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect and export labeled reasoning records",
}

var corpusCheckCmd = &cobra.Command{
	Use:   "check <file.jsonl>",
	Short: "Validate a record file and print its label distribution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := corpus.ReadFile(args[0])
		if err != nil {
			return err
		}
		printStats(cmd, corpus.Summarize(records))
		return nil
	},
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print label counts from the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		counts, err := s.CountCorpusByLabel(context.Background())
		if err != nil {
			return err
		}
		total := 0
		labels := make([]string, 0, len(counts))
		for label, n := range counts {
			labels = append(labels, label)
			total += n
		}
		sort.Strings(labels)
		fmt.Fprintf(cmd.OutOrStdout(), "총 %d건\n", total)
		for _, label := range labels {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-24s %d\n", label, counts[label])
		}
		return nil
	},
}

var corpusExportCmd = &cobra.Command{
	Use:   "export <file.jsonl>",
	Short: "Export records from the local database to a JSONL file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label, _ := cmd.Flags().GetString("label")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		rows, err := s.ListCorpus(context.Background(), label)
		if err != nil {
			return err
		}
		records := make([]corpus.Record, 0, len(rows))
		for _, row := range rows {
			if err := corpus.ValidateBytes(row.Payload); err != nil {
				return fmt.Errorf("record %d: %w", row.ID, err)
			}
			var rec corpus.Record
			if err := json.Unmarshal(row.Payload, &rec); err != nil {
				return fmt.Errorf("record %d: %w", row.ID, err)
			}
			records = append(records, rec)
		}
		if len(records) == 0 {
			return fmt.Errorf("no records to export")
		}
		if err := corpus.AppendFile(args[0], records...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d건을 %s에 내보냈습니다\n", len(records), args[0])
		return nil
	},
}

func init() {
	corpusExportCmd.Flags().String("label", "", "Only export records with this label")
	corpusCmd.AddCommand(corpusCheckCmd, corpusStatsCmd, corpusExportCmd)
}

func printStats(cmd *cobra.Command, stats corpus.Stats) {
	fmt.Fprintf(cmd.OutOrStdout(), "총 %d건\n", stats.Total)
	labels := make([]string, 0, len(stats.ByLabel))
	for label := range stats.ByLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-24s %d\n", label, stats.ByLabel[label])
	}
	modes := make([]string, 0, len(stats.ByGenMode))
	for mode := range stats.ByGenMode {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	for _, mode := range modes {
		fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %d\n", mode, stats.ByGenMode[mode])
	}
}
