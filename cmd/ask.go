package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/autodeviq/iqcore/data"
	"github.com/autodeviq/iqcore/internal/ui"
	"github.com/autodeviq/iqcore/service"
	"github.com/spf13/cobra"
)

var (
	askProject   string
	askMode      string
	askFormat    string
	askEndpoint  string
	askMaxDocs   int
	askNoHistory bool
)

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askProject, "project", "p", "", "Project id sent to the server (default: current directory name)")
	askCmd.Flags().StringVarP(&askMode, "mode", "m", "auto", "Response mode: auto, incremental or buffered")
	askCmd.Flags().StringVarP(&askFormat, "format", "f", "term", "Output format: term, html, text, code or raw")
	askCmd.Flags().StringVar(&askEndpoint, "endpoint", "", "askStream endpoint (default from config)")
	askCmd.Flags().IntVarP(&askMaxDocs, "max-docs", "n", 0, "Documents the server may retrieve (default from config)")
	askCmd.Flags().BoolVar(&askNoHistory, "no-history", false, "Do not keep the answer in history")
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about a project",
	Long: `Send a question to the askStream server and show the streamed answer.

Questions mentioning visualize, flowchart or mermaid are answered in buffered
mode: the diagram is held back until it is complete. Every other answer is
printed as it arrives, unless --format is given, in which case it is shown
once complete.

Press Ctrl-C to stop an answer; the partial answer is kept in history.

Examples:
  iqcore ask -p shop "How does the cart reach checkout?"
  iqcore ask -p shop "Visualize the login flow" --format code`,
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			question = strings.TrimSpace(readStdin())
		}
		if question == "" {
			return fmt.Errorf("no question given")
		}

		format, err := service.ParseOutputFormat(askFormat)
		if err != nil {
			return err
		}

		store := data.NewConfigStore()
		project := askProject
		if project == "" {
			project = currentProjectID()
		}

		mode := service.ClassifyMode(question, store.GetModeKeywords())
		if m := strings.ToLower(askMode); m != "" && m != "auto" {
			mode = service.ParseResponseMode(m)
		}
		live := mode == service.ModeIncremental && !cmd.Flags().Changed("format")

		endpoint := store.GetEndpoint()
		if askEndpoint != "" {
			endpoint = askEndpoint
		}
		maxDocs := store.GetMaxDocs()
		if askMaxDocs > 0 {
			maxDocs = askMaxDocs
		}
		client := service.NewAskClient(endpoint, maxDocs, store.GetServerTimeout())

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		service.Debugf("Asking project=%s mode=%s", project, mode)
		answer := service.NewMarkdown()
		outcome := askQuestion(ctx, client, project, question, mode, live, answer)

		if !askNoHistory && outcome.Status != service.OutcomeFailed {
			entry := &data.HistoryEntry{
				ProjectID: project,
				Question:  question,
				Mode:      mode.String(),
				Outcome:   outcome.Status.String(),
				Complete:  outcome.State.IsComplete,
				Text:      outcome.Text(),
			}
			if err := data.NewHistoryStore().Save(entry); err != nil {
				service.Warnf("Failed to save history: %v", err)
			} else {
				service.Debugf("Saved answer %s", entry.ShortID())
			}
		}

		switch outcome.Status {
		case service.OutcomeFailed:
			return outcome.Err
		case service.OutcomeCancelled:
			if live {
				fmt.Println()
			}
			return nil
		}

		if live {
			fmt.Println()
			return nil
		}
		return printAnswer(answer, format, store.GetRenderStyle())
	},
}

// askQuestion streams one answer. In live mode tokens go straight to stdout;
// otherwise they are collected in answer and the indicator runs until the
// answer is complete.
func askQuestion(ctx context.Context, client *service.AskClient, project, question string, mode service.ResponseMode, live bool, answer *service.Markdown) service.StreamOutcome {
	indicator := ui.GetIndicator()
	if mode == service.ModeBuffered {
		indicator.Start(ui.IndicatorDiagram)
	} else {
		indicator.Start(ui.IndicatorWaiting)
	}
	defer indicator.Stop()

	started := false
	return client.Ask(ctx, project, question, mode, func(n service.StreamNotify) {
		switch n.Status {
		case service.StatusData, service.StatusBuffered:
			if !live {
				answer.Write(n.Data)
				return
			}
			if !started {
				indicator.Stop()
				started = true
			}
			fmt.Print(n.Data)
		case service.StatusWarning:
			service.Debugf("Skipped event: %s", n.Data)
		case service.StatusFinished:
			indicator.Stop()
			answer.Reset()
			answer.Write(n.Data)
		}
	})
}

// printAnswer renders a complete answer to stdout.
func printAnswer(answer *service.Markdown, format service.OutputFormat, style string) error {
	width := 0
	if ui.IsTerminal(os.Stdout) {
		width = ui.GetTerminalWidth()
	}
	out, err := answer.Render(format, style, width)
	if err != nil {
		return err
	}
	fmt.Print(out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Println()
	}
	return nil
}

// currentProjectID names the project after the working directory.
func currentProjectID() string {
	wd, err := os.Getwd()
	if err != nil {
		return "default"
	}
	return filepath.Base(wd)
}
