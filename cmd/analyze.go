package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haneol/mundap/internal/analyzer"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Extract logic nodes from a passage",
	Long: `Segment a passage into sentences, assign argumentative roles
(claim / evidence / premise / conclusion) and weights, and print the
resulting nodes. Reads the passage from the file argument or stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "Print nodes as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	_, passage, err := readPassage(args)
	if err != nil {
		return err
	}

	an := analyzer.New(appConfig.AnalyzerPackageConfig(), logger)
	nodes, err := an.Analyze(passage)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(nodes)
	}

	fmt.Fprintf(out, "%-4s  %-10s  %-6s  %s\n", "ID", "Role", "Weight", "Text")
	fmt.Fprintln(out, strings.Repeat("─", 80))
	for _, n := range nodes {
		text := n.Text
		if r := []rune(text); len(r) > 50 {
			text = string(r[:50]) + "…"
		}
		fmt.Fprintf(out, "%-4s  %-10s  %6.2f  %s\n", n.ID, n.PrimaryRole, n.Weight, text)
	}
	return nil
}
