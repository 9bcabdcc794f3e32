package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/autodeviq/iqcore/data"
	"github.com/autodeviq/iqcore/internal/ui"
	"github.com/autodeviq/iqcore/service"
	"github.com/spf13/cobra"
)

var diffProject string

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().IntP("context", "c", 3, "Number of context lines to show")
	diffCmd.Flags().Bool("no-color", false, "Disable colored output")
	diffCmd.Flags().Bool("all", false, "Compare the whole answers, not only their code")
	diffCmd.Flags().StringVarP(&diffProject, "project", "p", "", "Project of @id history references (default: current directory name)")
}

var diffCmd = &cobra.Command{
	Use:   "diff [answer1] [answer2]",
	Short: "Show how the code of two answers differs",
	Long: `Compare the fenced code of two answers.

Each answer is a file, or @id for an answer kept in history.
  - Red lines with '-' prefix were removed from the first answer
  - Green lines with '+' prefix were added in the second answer
  - Line numbers are shown for context lines

Examples:
  iqcore diff old.md new.md
  iqcore diff @3f2a @9c1d -p shop`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextLines, _ := cmd.Flags().GetInt("context")
		noColor, _ := cmd.Flags().GetBool("no-color")
		all, _ := cmd.Flags().GetBool("all")

		content1, err := loadAnswer(args[0])
		if err != nil {
			return fmt.Errorf("error reading %s: %w", args[0], err)
		}
		content2, err := loadAnswer(args[1])
		if err != nil {
			return fmt.Errorf("error reading %s: %w", args[1], err)
		}

		colored := !noColor && ui.TerminalSupportsColor()
		var out string
		if all {
			out, err = service.Diff(content1, content2, args[0], args[1], contextLines, colored)
		} else {
			out, err = service.DiffCode(content1, content2, args[0], args[1], contextLines, colored)
		}
		if err != nil {
			return err
		}
		if out == "" {
			fmt.Println("No differences.")
			return nil
		}
		fmt.Print(out)
		return nil
	},
}

// loadAnswer reads a file, or a history entry when ref starts with '@'.
func loadAnswer(ref string) (string, error) {
	if id, ok := strings.CutPrefix(ref, "@"); ok {
		project := diffProject
		if project == "" {
			project = currentProjectID()
		}
		entry, err := data.NewHistoryStore().Load(project, id)
		if err != nil {
			return "", err
		}
		return entry.Text, nil
	}
	content, err := os.ReadFile(ref)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
