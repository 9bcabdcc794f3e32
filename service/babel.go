package service

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

//go:embed scripts/parse.js
var babelScript []byte

// SourceParser turns a source file into a syntax tree.
type SourceParser interface {
	Parse(ctx context.Context, path string) (*SyntaxNode, error)
}

// BabelParser runs @babel/parser through node and decodes the JSON it prints.
type BabelParser struct {
	Node     string        // node executable
	Script   string        // parser script; the embedded one is used when empty
	NodePath string        // NODE_PATH for resolving @babel/parser from the embedded script
	Timeout  time.Duration // per-file limit, 0 for none
	MaxDepth int

	once       sync.Once
	scriptPath string
	scriptErr  error
}

// NewBabelParser creates a parser using the given node binary and script.
func NewBabelParser(node, script string, timeout time.Duration, maxDepth int) *BabelParser {
	if node == "" {
		node = "node"
	}
	return &BabelParser{
		Node:     node,
		Script:   script,
		Timeout:  timeout,
		MaxDepth: maxDepth,
	}
}

// Parse runs the parser on path. Any failure of the parser process or of its
// output is a ParseError.
func (p *BabelParser) Parse(ctx context.Context, path string) (*SyntaxNode, error) {
	script, err := p.script()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Node, script, path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if p.NodePath != "" {
		cmd.Env = append(os.Environ(), "NODE_PATH="+p.NodePath)
	}

	Debugf("Running parser: %s %s %s", p.Node, script, path)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &ParseError{
			Path:    path,
			Message: strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	tree, err := ParseSyntaxTree(stdout.Bytes(), p.MaxDepth)
	if err != nil {
		var limit *TraversalLimitError
		if errors.As(err, &limit) {
			return nil, err
		}
		return nil, &ParseError{Path: path, Message: "invalid parser output", Err: err}
	}
	return tree, nil
}

// script returns the path of the parser script, writing the embedded copy to
// the temp directory on first use.
func (p *BabelParser) script() (string, error) {
	if p.Script != "" {
		return p.Script, nil
	}
	p.once.Do(func() {
		dir, err := os.MkdirTemp("", "iqcore-parser-")
		if err != nil {
			p.scriptErr = fmt.Errorf("failed to create parser dir: %w", err)
			return
		}
		path := filepath.Join(dir, "parse.js")
		if err := os.WriteFile(path, babelScript, 0644); err != nil {
			p.scriptErr = fmt.Errorf("failed to write parser script: %w", err)
			return
		}
		p.scriptPath = path
	})
	return p.scriptPath, p.scriptErr
}

// Close removes the temporary copy of the embedded script, if one was written.
func (p *BabelParser) Close() error {
	if p.scriptPath == "" {
		return nil
	}
	return os.RemoveAll(filepath.Dir(p.scriptPath))
}
