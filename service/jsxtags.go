package service

import (
	"fmt"
)

// JSXTagsKey is the root field the tag list is attached under.
const JSXTagsKey = "__jsxTags"

// DefaultMaxTreeDepth bounds tree traversal when no limit is configured.
const DefaultMaxTreeDepth = 10000

// TagSet is an ordered list of unique JSX tag names.
type TagSet []string

// ExtractTags walks the tree depth-first, pre-order, and collects the opening
// element name of every JSXElement whose name is a plain identifier.
// Member expressions (<Foo.Bar>) and namespaced names (<svg:rect>) carry no
// string name and are traversed but not collected.
//
// The walk uses an explicit stack. A node deeper than maxDepth aborts the walk
// with a TraversalLimitError; maxDepth <= 0 selects DefaultMaxTreeDepth.
func ExtractTags(root *SyntaxNode, maxDepth int) (TagSet, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxTreeDepth
	}

	type frame struct {
		node  *SyntaxNode
		depth int
	}

	tags := TagSet{}
	seen := make(map[string]struct{})
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := top.node
		if node == nil {
			continue
		}
		if top.depth > maxDepth {
			return nil, &TraversalLimitError{Limit: maxDepth}
		}

		switch node.Kind {
		case NodeObject:
			if name, ok := jsxElementName(node); ok {
				if _, dup := seen[name]; !dup {
					seen[name] = struct{}{}
					tags = append(tags, name)
				}
			}
		case NodeArray:
		case NodeScalar:
			continue
		default:
			panic(fmt.Sprintf("unknown node kind %d", node.Kind))
		}

		// Push in reverse so the first child is visited first.
		children := node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			if c := children[i]; c != nil && c.Kind != NodeScalar {
				stack = append(stack, frame{node: c, depth: top.depth + 1})
			}
		}
	}
	return tags, nil
}

// jsxElementName reports the tag of a JSXElement with an identifier name.
func jsxElementName(n *SyntaxNode) (string, bool) {
	if !n.Is("JSXElement") {
		return "", false
	}
	name := n.Get("openingElement").Get("name").Get("name")
	if name == nil || name.Kind != NodeScalar {
		return "", false
	}
	s := name.String()
	return s, s != ""
}

// AttachTags extracts the tags of root and stores them under JSXTagsKey on the
// root object.
func AttachTags(root *SyntaxNode, maxDepth int) (TagSet, error) {
	if root == nil || root.Kind != NodeObject {
		return nil, fmt.Errorf("syntax tree root must be an object, got %v", kindOf(root))
	}
	tags, err := ExtractTags(root, maxDepth)
	if err != nil {
		return nil, err
	}
	items := make([]*SyntaxNode, len(tags))
	for i, t := range tags {
		items[i] = NewScalar(t)
	}
	root.Set(JSXTagsKey, NewArray(items...))
	return tags, nil
}

func kindOf(n *SyntaxNode) string {
	if n == nil {
		return "null"
	}
	return n.Kind.String()
}
