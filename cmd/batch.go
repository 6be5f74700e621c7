package cmd

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/haneol/mundap/internal/analyzer"
	"github.com/haneol/mundap/internal/corpus"
	"github.com/haneol/mundap/internal/evaluate"
	"github.com/haneol/mundap/internal/llm"
	"github.com/haneol/mundap/internal/store"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate graded reasoning records from a passage file",
	Long: `Read passages from a JSON or JSONL file, synthesize a reasoning answer
for each through the configured model, grade it, and append the labeled
records to a JSONL file and the local database.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("input", "", "Passage file (.json or .jsonl)")
	batchCmd.Flags().String("output", "", "Output JSONL file for labeled records")
	batchCmd.Flags().String("mode", string(corpus.GenModeGood), "Generation mode")
	batchCmd.Flags().Int("limit", 0, "Stop after this many records (0 = no limit)")
	batchCmd.Flags().Int("shard-idx", 0, "Shard index for parallel runs")
	batchCmd.Flags().Int("num-shards", 1, "Total shard count for parallel runs")
	batchCmd.Flags().Bool("no-store", false, "Skip the local database")
	batchCmd.Flags().Bool("embed-scorer", false, "Grade with embedding similarity instead of bigram overlap")
	_ = batchCmd.MarkFlagRequired("input")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	modeStr, _ := cmd.Flags().GetString("mode")
	noStore, _ := cmd.Flags().GetBool("no-store")
	embedScorer, _ := cmd.Flags().GetBool("embed-scorer")

	mode := corpus.GenMode(modeStr)
	if !mode.Valid() {
		return fmt.Errorf("unknown generation mode %q", modeStr)
	}

	passages, err := corpus.ReadPassages(input)
	if err != nil {
		return fmt.Errorf("read passages: %w", err)
	}
	if len(passages) == 0 {
		return fmt.Errorf("no passages in %s", input)
	}

	ctx := context.Background()

	provider, err := llm.NewProvider(ctx, appConfig.LLM, logger)
	if err != nil {
		return fmt.Errorf("configure model provider: %w", err)
	}

	var scorer evaluate.Scorer
	if embedScorer {
		if appConfig.LLM.OpenAI.APIKey == "" {
			return fmt.Errorf("embedding scorer requires an OpenAI API key")
		}
		client := openai.NewClient(appConfig.LLM.OpenAI.APIKey)
		scorer = evaluate.NewEmbeddingScorer(client, "")
	}

	var repo corpus.Appender
	if !noStore {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()
		repo = s
	}

	builder := corpus.NewBuilder(
		analyzer.New(appConfig.AnalyzerPackageConfig(), logger),
		evaluate.New(appConfig.EvaluatePackageConfig(), scorer, nil, logger),
		provider,
		repo,
		logger,
	)

	opts := corpus.BatchOptions{Mode: mode}
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.ShardIdx, _ = cmd.Flags().GetInt("shard-idx")
	opts.NumShards, _ = cmd.Flags().GetInt("num-shards")

	records, err := builder.BuildBatch(ctx, passages, opts)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records produced")
	}

	if output != "" {
		if err := corpus.AppendFile(output, records...); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	stats := corpus.Summarize(records)
	fmt.Fprintf(cmd.OutOrStdout(), "생성 %d건 (모드 %s)\n", stats.Total, mode)
	for label, n := range stats.ByLabel {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-24s %d\n", label, n)
	}
	return nil
}
