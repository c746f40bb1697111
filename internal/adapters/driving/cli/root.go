// Package cli provides the ragserver command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"ragserver/internal/logger"
)

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "ragserver",
	Short: "Chat with your documents over a minimal RAG pipeline",
	Long: `ragserver ingests pasted text, PDFs and YouTube transcripts, indexes
them in a vector database and answers questions grounded in the
retrieved content.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config.toml (default ~/.ragserver/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
