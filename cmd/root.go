package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "paperlens",
	Short: "AI-powered technical paper analysis and grounded question answering",
	Long: `Paperlens extracts the text of a technical paper (PDF), classifies its
domain, produces a summary, and answers free-form questions grounded in
the paper's content. Documents and question/answer history are persisted
per user when running the HTTP server.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// API keys are commonly kept in a local .env file.
	cobra.OnInitialize(func() { _ = godotenv.Load() })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".paperlens.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
