package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haneol/mundap/internal/analyzer"
	"github.com/haneol/mundap/internal/evaluate"
	"github.com/haneol/mundap/internal/questgen"
	"github.com/haneol/mundap/internal/session"
	"github.com/haneol/mundap/internal/store"
	"github.com/haneol/mundap/internal/tui"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor [file]",
	Short: "Run an interactive 4-question tutoring session",
	Long: `Open the terminal tutor on a passage. The passage is read from the
file argument or stdin. Session state is persisted after every turn, so an
interrupted session can be reopened with --resume.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTutor,
}

func init() {
	tutorCmd.Flags().String("passage-id", "", "Passage identifier (default: file name)")
	tutorCmd.Flags().String("resume", "", "Resume a persisted session by id")
	tutorCmd.Flags().Bool("no-store", false, "Run without persistence")
}

func runTutor(cmd *cobra.Command, args []string) error {
	resumeID, _ := cmd.Flags().GetString("resume")
	noStore, _ := cmd.Flags().GetBool("no-store")

	var repo session.Repo
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

	orch := session.New(
		analyzer.New(appConfig.AnalyzerPackageConfig(), logger),
		questgen.New(appConfig.QuestgenPackageConfig(), logger),
		evaluate.New(appConfig.EvaluatePackageConfig(), nil, nil, logger),
		repo,
		logger,
	)

	if resumeID != "" {
		st, err := orch.Resume(context.Background(), resumeID)
		if err != nil {
			return fmt.Errorf("resume session %s: %w", resumeID, err)
		}
		return tui.RunResume(orch, st)
	}

	passageID, passage, err := readPassage(args)
	if err != nil {
		return err
	}
	if id, _ := cmd.Flags().GetString("passage-id"); id != "" {
		passageID = id
	}

	return tui.Run(orch, passageID, passage)
}
