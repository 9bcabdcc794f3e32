package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/autodeviq/iqcore/internal/ui"
	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// DiffCode compares the fenced code of two answers. It returns "" when the
// extracted code is identical.
func DiffCode(answer1, answer2, name1, name2 string, contextLines int, colored bool) (string, error) {
	return Diff(ExtractCode(answer1), ExtractCode(answer2), name1, name2, contextLines, colored)
}

// Diff renders a unified diff of two texts with line numbers.
func Diff(content1, content2, file1, file2 string, contextLines int, colored bool) (string, error) {
	plain := func(s string) string { return s }
	red, green, cyan, dim := plain, plain, plain, plain
	if colored {
		red = func(s string) string { return color.New(color.FgRed).Sprint(s) }
		green = func(s string) string { return color.New(color.FgGreen).Sprint(s) }
		cyan = func(s string) string { return color.New(color.FgCyan, color.Bold).Sprint(s) }
		dim = func(s string) string { return color.New(color.Faint).Sprint(s) }
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(content1),
		B:        difflib.SplitLines(content2),
		FromFile: file1,
		ToFile:   file2,
		Context:  contextLines,
	}
	diffText, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to diff: %w", err)
	}
	if diffText == "" {
		return "", nil
	}

	lineNum1 := 0
	lineNum2 := 0

	var output strings.Builder
	for _, line := range strings.Split(diffText, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			output.WriteString(cyan(line) + "\n")
		case strings.HasPrefix(line, "@@"):
			separator := strings.Repeat("═", (ui.GetTerminalWidth()*3)/4)
			output.WriteString(dim(separator) + "\n")
			lineNum1, lineNum2 = parseHunkHeader(line, lineNum1, lineNum2)
		case strings.HasPrefix(line, "-"):
			lineNum1++
			output.WriteString(red(fmt.Sprintf("%-6d", lineNum1)) + red(line) + "\n")
		case strings.HasPrefix(line, "+"):
			lineNum2++
			output.WriteString(green(fmt.Sprintf("%-6d", lineNum2)) + green(line) + "\n")
		case strings.HasPrefix(line, " "):
			lineNum1++
			lineNum2++
			output.WriteString(dim(fmt.Sprintf("%-6d", lineNum1)) + dim(fmt.Sprintf("%-6d", lineNum2)) + line + "\n")
		}
	}
	return output.String(), nil
}

// parseHunkHeader reads the starting line numbers from "@@ -l1,c1 +l2,c2 @@".
func parseHunkHeader(line string, currentLineNum1, currentLineNum2 int) (int, int) {
	parts := strings.Split(strings.Trim(line, "@ "), " ")
	if len(parts) < 2 {
		return currentLineNum1, currentLineNum2
	}

	file1Part := strings.Split(strings.TrimPrefix(parts[0], "-"), ",")
	if num, err := strconv.Atoi(file1Part[0]); err == nil {
		currentLineNum1 = num - 1
	}

	file2Part := strings.Split(strings.TrimPrefix(parts[1], "+"), ",")
	if num, err := strconv.Atoi(file2Part[0]); err == nil {
		currentLineNum2 = num - 1
	}

	return currentLineNum1, currentLineNum2
}
