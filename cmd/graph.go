package cmd

import (
	"context"
	"encoding/json"
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
	graphFormat  string
	graphOutput  string
	graphWorkers int
)

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVarP(&graphFormat, "format", "f", "text", "Output format: text, json, yaml or mermaid")
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Write to a file instead of stdout")
	graphCmd.Flags().IntVarP(&graphWorkers, "workers", "w", 0, "Files parsed in parallel (default from config)")
}

var graphCmd = &cobra.Command{
	Use:   "graph [dir]",
	Short: "Draw the component call graph of a project",
	Long: `Scan a project for .js/.jsx/.ts/.tsx files, find the React components
each file defines and draw an edge from every file to the files defining the
components it renders.

node_modules, .git and .next are skipped. Files that fail to parse are
reported and left out of the graph.

Examples:
  iqcore graph ./src
  iqcore graph ./src --format mermaid -o graph.mmd`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(graphFormat)
		switch format {
		case "text", "json", "yaml", "mermaid":
		default:
			return fmt.Errorf("unknown format '%s' (want text, json, yaml or mermaid)", graphFormat)
		}

		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		store := data.NewConfigStore()
		workers := graphWorkers
		if workers <= 0 {
			workers = store.GetScanWorkers()
		}

		parser := newParser(store)
		defer parser.Close()

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		indicator := ui.GetIndicator()
		indicator.Start(ui.IndicatorScanning)
		scan, err := service.ScanProject(ctx, root, parser, workers, store.GetMaxDepth())
		indicator.Stop()
		if err != nil {
			return err
		}
		graph := service.BuildCallGraph(scan)

		out, closeOut, err := ui.NewRenderer(graphOutput)
		if err != nil {
			return fmt.Errorf("cannot open output: %w", err)
		}
		defer closeOut()

		switch format {
		case "json":
			encoded, err := json.MarshalIndent(graph, "", "  ")
			if err != nil {
				return err
			}
			out.Writeln(string(encoded))
		case "yaml":
			var b strings.Builder
			if err := writeYAML(&b, graph); err != nil {
				return err
			}
			out.Write(b.String())
		case "mermaid":
			out.Write(graph.Mermaid())
		default:
			out.Write(formatGraph(scan, graph, graphOutput == "" && ui.TerminalSupportsColor()))
		}
		return nil
	},
}

// formatGraph lists edges grouped by caller, followed by a scan summary.
func formatGraph(scan *service.ProjectScan, graph *service.CallGraph, styled bool) string {
	style := func(s string, fn func(...string) string) string {
		if styled {
			return fn(s)
		}
		return s
	}

	var b strings.Builder
	if graph.Empty() {
		b.WriteString(style("No component edges found.", ui.DetailStyle.Render) + "\n")
	}
	last := ""
	for _, e := range graph.Edges {
		if e.From != last {
			b.WriteString(style(e.From, ui.SectionStyle.Render) + "\n")
			last = e.From
		}
		b.WriteString("  └─ " + style(e.To, ui.KeyStyle.Render) + "\n")
	}

	components := 0
	for _, f := range scan.Files {
		components += len(f.Components)
	}
	summary := fmt.Sprintf("%s, %s, %s",
		pluralize(len(scan.Files), "file"),
		pluralize(components, "component"),
		pluralize(len(graph.Edges), "edge"))
	if len(scan.Failed) > 0 {
		var failed []string
		for _, f := range scan.Failed {
			failed = append(failed, filepath.Base(f))
		}
		summary += "\n" + style("failed: "+strings.Join(failed, ", "), ui.WarnStyle.Render)
	}
	if styled {
		b.WriteString(ui.Box(filepath.Clean(scan.Root), summary) + "\n")
	} else {
		b.WriteString("\n" + summary + "\n")
	}
	return b.String()
}
