package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haneol/mundap/internal/config"
	"github.com/haneol/mundap/internal/logging"
	"github.com/haneol/mundap/internal/store"
)

var (
	cfgPath   string
	verbose   bool
	appConfig config.Config
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mundap",
	Short: "Socratic reading tutor for Korean expository passages",
	Long: "mundap reads an expository passage, extracts its claim/evidence " +
		"structure, and walks a learner through four probing questions about it. " +
		"It also builds silver-labeled reasoning corpora from passage collections.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		appConfig, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if verbose {
			appConfig.Verbose = true
		}

		logPath := appConfig.LogPath
		if logPath == "" {
			logPath, err = logging.DefaultLogPath()
			if err != nil {
				return err
			}
		}
		logger, err = logging.New(logPath, appConfig.Verbose)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MUNDAP_DB env var)")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (default: $XDG_CONFIG_HOME/mundap/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if appConfig.DBPath != "" {
		return appConfig.DBPath, store.EnsureDir(appConfig.DBPath)
	}
	return store.DefaultDBPath()
}

// readPassage loads the passage text from the file argument, or from
// stdin when no argument is given.
func readPassage(args []string) (id, text string, err error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("read passage: %w", err)
		}
		base := filepath.Base(args[0])
		id = strings.TrimSuffix(base, filepath.Ext(base))
		return id, string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("read passage from stdin: %w", err)
	}
	return "stdin", string(data), nil
}
