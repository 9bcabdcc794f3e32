package service

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SourceExtensions are the file types picked up by ScanProject.
var SourceExtensions = []string{".js", ".jsx", ".ts", ".tsx"}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".next":        true,
}

// FileScan is the result of parsing one source file.
type FileScan struct {
	Path       string      `json:"path" yaml:"path"`
	Tags       TagSet      `json:"jsxTags" yaml:"jsxTags"`
	Components []Component `json:"components" yaml:"components"`
}

// ProjectScan holds every successfully parsed file, sorted by path, and the
// files that failed to parse.
type ProjectScan struct {
	Root   string     `json:"root" yaml:"root"`
	Files  []FileScan `json:"files" yaml:"files"`
	Failed []string   `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// FindSourceFiles lists the source files below root.
func FindSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, e := range SourceExtensions {
			if ext == e {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ScanProject parses every source file below root with up to workers parsers
// running at once. A file that fails to parse is logged and skipped; only
// context cancellation or a traversal limit aborts the scan. A cancelled ctx
// yields a UserCancelError.
func ScanProject(ctx context.Context, root string, parser SourceParser, workers int, maxDepth int) (*ProjectScan, error) {
	files, err := FindSourceFiles(root)
	if err != nil {
		return nil, err
	}
	Infof("Found %d source files in %s", len(files), root)

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu     sync.Mutex
		scans  = make([]*FileScan, len(files))
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scan, err := scanFile(gctx, parser, path, maxDepth)
			if err != nil {
				if IsTraversalLimitError(err) || gctx.Err() != nil {
					return err
				}
				Warnf("Skipping %s due to parse failure: %v", path, err)
				mu.Lock()
				failed = append(failed, path)
				mu.Unlock()
				return nil
			}
			Debugf("%s: %d component(s), %d tag(s)", filepath.Base(path), len(scan.Components), len(scan.Tags))
			scans[i] = scan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, &UserCancelError{Reason: UserCancelReasonAbort}
		}
		return nil, err
	}

	result := &ProjectScan{Root: root}
	for _, s := range scans {
		if s != nil {
			result.Files = append(result.Files, *s)
		}
	}
	sort.Strings(failed)
	result.Failed = failed
	return result, nil
}

func scanFile(ctx context.Context, parser SourceParser, path string, maxDepth int) (*FileScan, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := parser.Parse(ctx, path)
	if err != nil {
		return nil, err
	}
	tags, err := ExtractTags(tree, maxDepth)
	if err != nil {
		return nil, err
	}
	return &FileScan{
		Path:       path,
		Tags:       tags,
		Components: ExtractComponents(tree, string(code)),
	}, nil
}
