package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyunwoo-dev/paperlens/internal/chunker"
	"github.com/hyunwoo-dev/paperlens/internal/extract"
	"github.com/hyunwoo-dev/paperlens/internal/progress"
)

var analyzeQuestion string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <paper.pdf>",
	Short: "Analyze a paper: extract, summarize, classify, and optionally answer a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		p, err := buildPipeline(cfg, nil)
		if err != nil {
			return err
		}

		reporter := progress.NewReporter()
		steps := 2
		if analyzeQuestion != "" {
			steps = 3
		}
		reporter.Start(steps)

		reporter.Update(1, "Extracting text")
		doc, err := extract.File(args[0])
		if err != nil {
			reporter.Finish()
			return fmt.Errorf("extracting %s: %w", args[0], err)
		}
		meta := chunker.Meta{Title: doc.Meta.Title, Source: doc.Meta.Source}

		reporter.Update(2, "Analyzing document")
		ctx := cmd.Context()

		var summary, domain, answer string
		var faults []error
		if analyzeQuestion != "" {
			state, err := p.AnalyzeAndAnswer(ctx, doc.Text, meta, analyzeQuestion)
			if err != nil {
				reporter.Finish()
				return err
			}
			reporter.Update(3, "Answering question")
			summary, domain, answer, faults = state.Summary, state.Domain, state.Answer, state.Faults
		} else {
			state, err := p.Analyze(ctx, doc.Text, meta)
			if err != nil {
				reporter.Finish()
				return err
			}
			summary, domain, faults = state.Summary, state.Domain, state.Faults
		}
		reporter.Finish()

		fmt.Printf("Domain:  %s\n", domain)
		fmt.Printf("Summary:\n%s\n", summary)
		if answer != "" {
			fmt.Printf("\nAnswer:\n%s\n", answer)
		}
		if verbose {
			for _, fault := range faults {
				fmt.Printf("warning: %v\n", fault)
			}
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeQuestion, "question", "q", "", "question to answer about the paper")
	rootCmd.AddCommand(analyzeCmd)
}
