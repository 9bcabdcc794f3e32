package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/autodeviq/iqcore/data"
	"github.com/autodeviq/iqcore/internal/ui"
	"github.com/autodeviq/iqcore/service"
	"github.com/spf13/cobra"
)

var (
	tagsAstInput bool
	tagsFormat   string
	tagsOutput   string
)

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.Flags().BoolVar(&tagsAstInput, "ast", false, "Treat the input as a Babel JSON AST instead of source code")
	tagsCmd.Flags().StringVarP(&tagsFormat, "format", "f", "json", "Output format: json, tags or yaml")
	tagsCmd.Flags().StringVarP(&tagsOutput, "output", "o", "", "Write to a file instead of stdout")
}

var tagsCmd = &cobra.Command{
	Use:   "tags [file]",
	Short: "List the JSX tags a source file renders",
	Long: `Parse a .js/.jsx/.ts/.tsx file with @babel/parser and list every JSX
element tag it contains, deduplicated, in order of first appearance.

Output formats:
  json  the full syntax tree with a top-level "__jsxTags" array
  tags  one tag per line
  yaml  the file name and its tags

With --ast the input is an already parsed Babel JSON AST; pass '-' to read it
from stdin.

Examples:
  iqcore tags src/App.jsx --format tags
  npx babel-parse App.jsx | iqcore tags --ast -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(tagsFormat)
		switch format {
		case "json", "tags", "yaml":
		default:
			return fmt.Errorf("unknown format '%s' (want json, tags or yaml)", tagsFormat)
		}

		store := data.NewConfigStore()
		source := "-"
		if len(args) > 0 {
			source = args[0]
		}

		tree, err := loadTree(cmd.Context(), store, source)
		if err != nil {
			return err
		}
		tags, err := service.AttachTags(tree, store.GetMaxDepth())
		if err != nil {
			return err
		}
		service.Debugf("%s: %s", source, pluralize(len(tags), "tag"))

		out, closeOut, err := ui.NewRenderer(tagsOutput)
		if err != nil {
			return fmt.Errorf("cannot open output: %w", err)
		}
		defer closeOut()

		switch format {
		case "tags":
			for _, t := range tags {
				out.Writeln(t)
			}
		case "yaml":
			var b strings.Builder
			doc := struct {
				File    string   `yaml:"file"`
				JSXTags []string `yaml:"jsxTags"`
			}{File: source, JSXTags: tags}
			if err := writeYAML(&b, doc); err != nil {
				return err
			}
			out.Write(b.String())
		default:
			encoded, err := tree.MarshalJSON()
			if err != nil {
				return err
			}
			out.Writeln(string(encoded))
		}
		return nil
	},
}

// loadTree parses source, or decodes it as JSON when --ast is set.
func loadTree(ctx context.Context, store *data.ConfigStore, source string) (*service.SyntaxNode, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if tagsAstInput {
		content, err := readContentFromPath(source)
		if err != nil {
			return nil, err
		}
		tree, err := service.ParseSyntaxTree(content, store.GetMaxDepth())
		if err != nil && !service.IsTraversalLimitError(err) {
			return nil, &service.ParseError{Path: source, Message: "invalid syntax tree", Err: err}
		}
		return tree, err
	}

	if source == "-" {
		return nil, fmt.Errorf("a source file is required unless --ast is given")
	}
	if _, err := os.Stat(source); err != nil {
		return nil, err
	}

	parser := newParser(store)
	defer parser.Close()
	return parser.Parse(ctx, source)
}
