package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haneol/mundap/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored tutoring sessions",
	Long: `List persisted sessions newest first. Pass an ACTIVE session's id to
"tutor --resume" to pick it back up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		recs, err := s.ListSessions(context.Background(), limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "저장된 세션이 없습니다")
			return nil
		}
		fmt.Fprintf(out, "%-36s  %-9s  %-4s  %s\n", "ID", "Status", "Turn", "Updated")
		for _, rec := range recs {
			fmt.Fprintf(out, "%-36s  %-9s  %-4d  %s\n",
				rec.ID, rec.Status, rec.CurrentTurn,
				rec.UpdatedAt.Local().Format(time.DateTime))
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().Int("limit", 20, "Show at most this many sessions")
}
