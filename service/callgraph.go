package service

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Edge is a "renders" relation between two source files.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// CallGraph links each file to the files defining the components it renders.
// Nodes are file base names.
type CallGraph struct {
	Nodes []string `json:"nodes" yaml:"nodes"`
	Edges []Edge   `json:"edges" yaml:"edges"`
}

// BuildCallGraph resolves each JSX tag of each file against the components
// defined in the scan. Tags naming no known component (HTML elements, library
// components) are ignored. When two files define the same name, the later
// file in path order wins.
func BuildCallGraph(scan *ProjectScan) *CallGraph {
	defs := make(map[string]string)
	for _, f := range scan.Files {
		for _, c := range f.Components {
			defs[c.Name] = f.Path
		}
	}

	g := &CallGraph{}
	nodes := make(map[string]bool)
	edges := make(map[Edge]bool)
	for _, f := range scan.Files {
		caller := filepath.Base(f.Path)
		for _, tag := range f.Tags {
			calleeFile, ok := defs[tag]
			if !ok {
				continue
			}
			e := Edge{From: caller, To: filepath.Base(calleeFile)}
			if edges[e] {
				continue
			}
			edges[e] = true
			g.Edges = append(g.Edges, e)
			nodes[e.From] = true
			nodes[e.To] = true
		}
	}
	for n := range nodes {
		g.Nodes = append(g.Nodes, n)
	}
	sort.Strings(g.Nodes)
	return g
}

// Empty reports whether the graph has no edges.
func (g *CallGraph) Empty() bool {
	return len(g.Edges) == 0
}

// Mermaid renders the graph as a mermaid flowchart document.
func (g *CallGraph) Mermaid() string {
	ids := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[n] = fmt.Sprintf("n%d", i)
	}

	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", ids[n], strings.ReplaceAll(n, `"`, "#quot;"))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "    %s --> %s\n", ids[e.From], ids[e.To])
	}
	return b.String()
}

// String lists one edge per line.
func (g *CallGraph) String() string {
	var b strings.Builder
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "%s -> %s\n", e.From, e.To)
	}
	return b.String()
}
