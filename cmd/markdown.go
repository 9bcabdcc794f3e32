package cmd

import (
	"fmt"
	"os"

	"github.com/autodeviq/iqcore/data"
	"github.com/autodeviq/iqcore/internal/ui"
	"github.com/autodeviq/iqcore/service"
	"github.com/spf13/cobra"
)

var (
	renderFormat string
	renderOutput string
	extractOut   string
)

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(extractCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "Output format: html, text, term, code or raw")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write to a file instead of stdout")
	extractCmd.Flags().StringVarP(&extractOut, "output", "o", "", "Write to a file instead of stdout")
}

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render an answer document",
	Long: `Render an answer written in the assistant's markdown dialect.

html turns fenced blocks into <pre><code> with escaped content, **bold** into
headings, ` + "`code`" + ` into code spans and line ends into <br/>.
text shows the same document as plain text, term styles it for the terminal.

The document is read from the file given, or from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := service.ParseOutputFormat(renderFormat)
		if err != nil {
			return err
		}
		doc, err := readDocument(args)
		if err != nil {
			return err
		}

		width := 0
		if renderOutput == "" && ui.IsTerminal(os.Stdout) {
			width = ui.GetTerminalWidth()
		}
		out, err := service.RenderAnswer(doc, format, data.NewConfigStore().GetRenderStyle(), width)
		if err != nil {
			return err
		}
		return writeResult(renderOutput, out)
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract [file|-]",
	Short: "Print the fenced code of an answer",
	Long: "Print the bodies of every ```lang fenced block in the document, separated\n" +
		"by a blank line. An unterminated fence contributes nothing.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args)
		if err != nil {
			return err
		}
		code := service.ExtractCode(doc)
		if code == "" {
			service.Debugf("No fenced code found")
			return nil
		}
		return writeResult(extractOut, code+"\n")
	},
}

// writeResult writes s to path, or to stdout when path is empty.
func writeResult(path, s string) error {
	out, closeOut, err := ui.NewRenderer(path)
	if err != nil {
		return fmt.Errorf("cannot open output: %w", err)
	}
	out.Write(s)
	return closeOut()
}
