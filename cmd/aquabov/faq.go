package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aquabov-backend/internal/chat"
)

var faqJSON bool

var faqCmd = &cobra.Command{
	Use:   "faq",
	Short: "Print frequently asked questions",
	Args:  cobra.NoArgs,
	RunE:  runFAQ,
}

func init() {
	faqCmd.Flags().BoolVar(&faqJSON, "json", false, "Print as JSON")
}

func runFAQ(cmd *cobra.Command, args []string) error {
	content, err := chat.LoadFAQ()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if faqJSON {
		return printJSON(out, content)
	}
	for i, e := range content.Entries {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Q: %s\nA: %s\n", e.Question, e.Answer)
	}
	return nil
}
