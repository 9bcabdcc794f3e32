package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// NodeKind tags the shape of a SyntaxNode.
type NodeKind int

const (
	NodeScalar NodeKind = iota
	NodeObject
	NodeArray
)

func (k NodeKind) String() string {
	switch k {
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	default:
		return "scalar"
	}
}

// Field is one named value of an object node. Fields keep source order,
// which is the order tags are discovered in.
type Field struct {
	Key   string
	Value *SyntaxNode
}

// SyntaxNode is a node of a Babel-style JSON syntax tree.
//
// Object nodes carry their fields in order and expose the value of their
// "type" field as Type. Array nodes carry Items. Scalar nodes carry a decoded
// JSON scalar (string, json.Number, bool or nil).
type SyntaxNode struct {
	Kind   NodeKind
	Type   string
	Fields []Field
	Items  []*SyntaxNode
	Value  any
}

// NewObject builds an object node from the given fields.
func NewObject(fields ...Field) *SyntaxNode {
	n := &SyntaxNode{Kind: NodeObject}
	for _, f := range fields {
		n.Set(f.Key, f.Value)
	}
	return n
}

func NewArray(items ...*SyntaxNode) *SyntaxNode {
	return &SyntaxNode{Kind: NodeArray, Items: items}
}

func NewScalar(v any) *SyntaxNode {
	return &SyntaxNode{Kind: NodeScalar, Value: v}
}

// Get returns the value of the named field, or nil when the node is not an
// object or has no such field.
func (n *SyntaxNode) Get(key string) *SyntaxNode {
	if n == nil || n.Kind != NodeObject {
		return nil
	}
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// Is reports whether n is an object node of the given syntax type.
func (n *SyntaxNode) Is(typ string) bool {
	return n != nil && n.Kind == NodeObject && n.Type == typ
}

// Set replaces the named field or appends it at the end.
func (n *SyntaxNode) Set(key string, value *SyntaxNode) {
	if n.Kind != NodeObject {
		return
	}
	if key == "type" && value != nil && value.Kind == NodeScalar {
		if s, ok := value.Value.(string); ok {
			n.Type = s
		}
	}
	for i := range n.Fields {
		if n.Fields[i].Key == key {
			n.Fields[i].Value = value
			return
		}
	}
	n.Fields = append(n.Fields, Field{Key: key, Value: value})
}

// String returns the scalar string value, or "" for any other node.
func (n *SyntaxNode) String() string {
	if n == nil || n.Kind != NodeScalar {
		return ""
	}
	s, _ := n.Value.(string)
	return s
}

// Int returns the scalar integer value.
func (n *SyntaxNode) Int() (int, bool) {
	if n == nil || n.Kind != NodeScalar {
		return 0, false
	}
	num, ok := n.Value.(json.Number)
	if !ok {
		return 0, false
	}
	v, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// Children returns the direct child nodes in traversal order.
func (n *SyntaxNode) Children() []*SyntaxNode {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NodeObject:
		out := make([]*SyntaxNode, 0, len(n.Fields))
		for _, f := range n.Fields {
			out = append(out, f.Value)
		}
		return out
	case NodeArray:
		return n.Items
	default:
		return nil
	}
}

// DecodeSyntaxTree reads one JSON value into a SyntaxNode, preserving object
// key order. Nesting deeper than maxDepth fails with a TraversalLimitError;
// maxDepth <= 0 selects DefaultMaxTreeDepth.
func DecodeSyntaxTree(r io.Reader, maxDepth int) (*SyntaxNode, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxTreeDepth
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	root, err := decodeNode(dec, 0, maxDepth)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after syntax tree")
	}
	return root, nil
}

// ParseSyntaxTree is DecodeSyntaxTree over a byte slice.
func ParseSyntaxTree(data []byte, maxDepth int) (*SyntaxNode, error) {
	return DecodeSyntaxTree(bytes.NewReader(data), maxDepth)
}

func decodeNode(dec *json.Decoder, depth, maxDepth int) (*SyntaxNode, error) {
	if depth > maxDepth {
		return nil, &TraversalLimitError{Limit: maxDepth}
	}
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n := &SyntaxNode{Kind: NodeObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				child, err := decodeNode(dec, depth+1, maxDepth)
				if err != nil {
					return nil, err
				}
				n.Set(key, child)
			}
			if _, err := dec.Token(); err != nil { // '}'
				return nil, err
			}
			return n, nil
		case '[':
			n := &SyntaxNode{Kind: NodeArray}
			for dec.More() {
				child, err := decodeNode(dec, depth+1, maxDepth)
				if err != nil {
					return nil, err
				}
				n.Items = append(n.Items, child)
			}
			if _, err := dec.Token(); err != nil { // ']'
				return nil, err
			}
			return n, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return &SyntaxNode{Kind: NodeScalar, Value: t}, nil
	}
}

// MarshalJSON writes the node back out with fields in their original order.
func (n *SyntaxNode) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *SyntaxNode) writeJSON(buf *bytes.Buffer) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.Kind {
	case NodeObject:
		buf.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case NodeArray:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(n.Value)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}
