package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Run summary and sentiment analysis on a piece of text",
	Long:  "Analyzes the given text (or stdin when omitted) and prints the summary, sentiment, and which provider produced each.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) > 0 {
			text = args[0]
		} else {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return eris.Wrap(err, "read stdin")
			}
			text = string(b)
		}
		text = strings.TrimSpace(text)

		analyzer := initAnalyzer()

		res, err := analyzer.Analyze(cmd.Context(), text)
		if err != nil {
			return err
		}

		fmt.Printf("Summary:   %s\n", res.Summary)
		fmt.Printf("Sentiment: %s\n", res.Sentiment)
		fmt.Printf("Provider:  %s (summary: %s, sentiment: %s)\n",
			res.Provider, res.SummarySource, res.SentimentSource)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
