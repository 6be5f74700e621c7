package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haneol/mundap/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Model provider utilities",
}

var llmTestCmd = &cobra.Command{
	Use:   "test [prompt]",
	Short: "Send a short prompt through the configured provider",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := "안녕하세요. 한 문장으로 답해 주세요."
		if len(args) == 1 {
			prompt = args[0]
		}

		ctx := llm.WithPurpose(context.Background(), "cli-test")
		provider, err := llm.NewProvider(ctx, appConfig.LLM, logger)
		if err != nil {
			return fmt.Errorf("configure model provider: %w", err)
		}

		resp, err := provider.Generate(ctx, llm.Request{
			Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
			MaxTokens: 256,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, resp.Text)
		fmt.Fprintf(out, "\nmodel=%s tokens_in=%d tokens_out=%d stop=%s\n",
			resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.StopReason)
		return nil
	},
}

var llmConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig.LLM
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "provider: %s\n", cfg.Provider)
		fmt.Fprintf(out, "timeout:  %s\n", cfg.Timeout)
		fmt.Fprintf(out, "retry:    attempts=%d initial=%s max=%s\n",
			cfg.Retry.MaxAttempts, cfg.Retry.InitialWait, cfg.Retry.MaxWait)
		fmt.Fprintf(out, "anthropic: model=%s key=%s\n", cfg.Anthropic.Model, redactKey(cfg.Anthropic.APIKey))
		fmt.Fprintf(out, "openai:    model=%s key=%s", cfg.OpenAI.Model, redactKey(cfg.OpenAI.APIKey))
		if cfg.OpenAI.BaseURL != "" {
			fmt.Fprintf(out, " base_url=%s", cfg.OpenAI.BaseURL)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "gemini:    model=%s key=%s\n", cfg.Gemini.Model, redactKey(cfg.Gemini.APIKey))
		return nil
	},
}

func redactKey(key string) string {
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
}

func init() {
	llmCmd.AddCommand(llmTestCmd, llmConfigCmd)
}
