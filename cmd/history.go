package cmd

import (
	"fmt"
	"strings"

	"github.com/autodeviq/iqcore/data"
	"github.com/autodeviq/iqcore/internal/ui"
	"github.com/autodeviq/iqcore/service"
	"github.com/spf13/cobra"
)

var (
	historyProject string
	historyFormat  string
	historyForce   bool
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"hist"},
	Short:   "Manage answer history",
	Long:    `Commands to list, show and clear the answers kept for a project.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListCmd.RunE(cmd, args)
	},
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the answers of a project, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		project := historyProjectID()
		entries, err := data.NewHistoryStore().List(project)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No answers kept for %s.\n", project)
			return nil
		}

		styled := ui.TerminalSupportsColor()
		fmt.Printf("Answers for %s:\n", project)
		for _, e := range entries {
			fmt.Println(formatHistoryLine(e, styled))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a kept answer",
	Long:  `Show a kept answer. The id may be abbreviated to any unique prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := service.ParseOutputFormat(historyFormat)
		if err != nil {
			return err
		}
		entry, err := data.NewHistoryStore().Load(historyProjectID(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Q: %s\n\n", entry.Question)
		answer := service.NewMarkdown()
		answer.Write(entry.Text)
		return printAnswer(answer, format, data.NewConfigStore().GetRenderStyle())
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every answer kept for a project",
	Long:  `Remove every answer kept for a project. This action cannot be undone.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		project := historyProjectID()
		if !historyForce {
			return fmt.Errorf("refusing to clear history of %s without --force", project)
		}
		if err := data.NewHistoryStore().Clear(project); err != nil {
			return err
		}
		fmt.Printf("History of %s cleared.\n", project)
		return nil
	},
}

var historyProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects that have history",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := data.NewHistoryStore().Projects()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No history found.")
			return nil
		}
		for _, n := range names {
			fmt.Println("  - " + n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd, historyProjectsCmd)
	historyCmd.PersistentFlags().StringVarP(&historyProject, "project", "p", "", "Project id (default: current directory name)")
	historyShowCmd.Flags().StringVarP(&historyFormat, "format", "f", "term", "Output format: term, html, text, code or raw")
	historyClearCmd.Flags().BoolVarP(&historyForce, "force", "F", false, "Clear without refusing")
}

func historyProjectID() string {
	if historyProject != "" {
		return historyProject
	}
	return currentProjectID()
}

// formatHistoryLine renders "id  time  outcome  question" for one entry.
func formatHistoryLine(e *data.HistoryEntry, styled bool) string {
	question := strings.Join(strings.Fields(e.Question), " ")
	if len(question) > 60 {
		question = question[:57] + "..."
	}
	id := e.ShortID()
	when := e.Time.Format("2006-01-02 15:04")
	outcome := fmt.Sprintf("%-9s", e.Outcome)
	if styled {
		id = ui.KeyStyle.Render(id)
		when = ui.DetailStyle.Render(when)
		switch e.Outcome {
		case "completed":
			outcome = ui.OkStyle.Render(outcome)
		case "cancelled":
			outcome = ui.WarnStyle.Render(outcome)
		default:
			outcome = ui.FailStyle.Render(outcome)
		}
	}
	return fmt.Sprintf("  %s  %s  %s  %s", id, when, outcome, question)
}
