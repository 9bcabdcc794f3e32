package service

import (
	"unicode/utf16"
)

// ComponentKind describes how a component was declared.
type ComponentKind string

const (
	ComponentFunction      ComponentKind = "function"
	ComponentArrowFunction ComponentKind = "arrow_function"
	ComponentClass         ComponentKind = "class_component"
)

// Component is a declaration that may be used as a JSX tag elsewhere.
type Component struct {
	Name string        `json:"name" yaml:"name"`
	Kind ComponentKind `json:"type" yaml:"type"`
	Body string        `json:"body,omitempty" yaml:"body,omitempty"`
}

// ExtractComponents finds function declarations, arrow functions bound by
// const/let/var, and class declarations. Bodies are cut from source using the
// node offsets, which Babel counts in UTF-16 code units.
func ExtractComponents(root *SyntaxNode, source string) []Component {
	units := utf16.Encode([]rune(source))
	slice := func(n *SyntaxNode) string {
		start, ok1 := n.Get("start").Int()
		end, ok2 := n.Get("end").Int()
		if !ok1 || !ok2 || start < 0 || end > len(units) || start > end {
			return ""
		}
		return string(utf16.Decode(units[start:end]))
	}

	var out []Component
	stack := []*SyntaxNode{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}

		if node.Kind == NodeObject {
			switch node.Type {
			case "FunctionDeclaration":
				if name := node.Get("id").Get("name").String(); name != "" {
					out = append(out, Component{Name: name, Kind: ComponentFunction, Body: slice(node)})
				}
			case "VariableDeclaration":
				decls := node.Get("declarations")
				if decls != nil {
					for _, decl := range decls.Items {
						if !decl.Get("init").Is("ArrowFunctionExpression") {
							continue
						}
						if name := decl.Get("id").Get("name").String(); name != "" {
							out = append(out, Component{Name: name, Kind: ComponentArrowFunction, Body: slice(decl)})
						}
					}
				}
			case "ClassDeclaration":
				if name := node.Get("id").Get("name").String(); name != "" {
					out = append(out, Component{Name: name, Kind: ComponentClass, Body: slice(node)})
				}
			}
		}

		children := node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			if c := children[i]; c != nil && c.Kind != NodeScalar {
				stack = append(stack, c)
			}
		}
	}
	return out
}
