package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/autodeviq/iqcore/data"
	"github.com/autodeviq/iqcore/service"
	"gopkg.in/yaml.v3"
)

// readStdin returns piped stdin, or "" when stdin is a terminal.
func readStdin() string {
	if !hasStdinData() {
		return ""
	}
	reader := bufio.NewReader(os.Stdin)
	var buffer bytes.Buffer
	if _, err := io.Copy(&buffer, reader); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading from stdin: %v\n", err)
		return ""
	}
	return buffer.String()
}

func hasStdinData() bool {
	// Check if stdin has data (is being piped)
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readContentFromPath reads a file, or stdin when source is "-".
func readContentFromPath(source string) ([]byte, error) {
	if source == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(source)
}

// readDocument reads the document named by args, falling back to piped stdin.
func readDocument(args []string) (string, error) {
	if len(args) > 0 {
		content, err := readContentFromPath(args[0])
		if err != nil {
			return "", err
		}
		return string(content), nil
	}
	if hasStdinData() {
		return readStdin(), nil
	}
	return "", fmt.Errorf("no input: pass a file, '-' or pipe the document on stdin")
}

// newParser builds the Babel parser runner from config.
func newParser(store *data.ConfigStore) *service.BabelParser {
	p := service.NewBabelParser(store.GetParserNode(), store.GetParserScript(), store.GetParserTimeout(), store.GetMaxDepth())
	p.NodePath = store.GetParserNodePath()
	return p
}

// writeYAML encodes v as YAML to w.
func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
