package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/examiz/internal/api"
	"github.com/abhisek/examiz/internal/review"
	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results <exam-id>",
	Short: "Print the review of a submitted exam",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimSpace(args[0])
		if id == "" {
			return fmt.Errorf("exam id must not be empty")
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, closer, err := openLog(cfg.LogFile)
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
		defer cancel()

		resp, err := newClient(cfg, "", logger).ExamResult(ctx, id)
		if err != nil {
			return fmt.Errorf("%s: %w", api.UserMessage(err), err)
		}
		printReport(cmd.OutOrStdout(), review.Build(resp, review.Categories(resp), "", 0))
		return nil
	},
}

// printReport writes a plain-text rendition of r.
func printReport(w io.Writer, r *review.Report) {
	fmt.Fprintf(w, "Exam %s\n", r.ExamID)
	fmt.Fprintf(w, "Score: %d%% (%d / %d correct)\n", r.Percent, r.Correct, r.Total)

	if r.Clean() {
		fmt.Fprintln(w, "AI usage: none detected")
	} else {
		fmt.Fprintln(w, "AI usage detected:")
		for _, e := range r.AIEntries {
			fmt.Fprintf(w, "  %s: %s\n", e.Heading, e.Label)
		}
	}

	for _, tab := range r.Tabs {
		fmt.Fprintf(w, "\n== %s ==\n", tab.Title())
		for _, it := range tab.Items {
			fmt.Fprintf(w, "%s %d. %s\n", it.Status.Icon(), it.Number, it.Question)
			if it.Instruction != "" {
				fmt.Fprintf(w, "     %s\n", it.Instruction)
			}
			fmt.Fprintf(w, "     Your answer: %s\n", it.YourAnswer)
			if it.CorrectAnswer != "" {
				fmt.Fprintf(w, "     Correct answer: %s\n", it.CorrectAnswer)
			}
			if it.AILabel != "" {
				fmt.Fprintf(w, "     AI: %s\n", it.AILabel)
			}
		}
	}
}
