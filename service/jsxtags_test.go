package service

import (
	"reflect"
	"strings"
	"testing"
)

func typed(typ string, fields ...Field) *SyntaxNode {
	return NewObject(append([]Field{{Key: "type", Value: NewScalar(typ)}}, fields...)...)
}

// jsxElement builds <name>children</name>.
func jsxElement(name string, children ...*SyntaxNode) *SyntaxNode {
	return typed("JSXElement",
		Field{Key: "openingElement", Value: typed("JSXOpeningElement",
			Field{Key: "name", Value: typed("JSXIdentifier", Field{Key: "name", Value: NewScalar(name)})},
		)},
		Field{Key: "children", Value: NewArray(children...)},
	)
}

// nest wraps n in depth levels of expression statements.
func nest(n *SyntaxNode, depth int) *SyntaxNode {
	for i := 0; i < depth; i++ {
		n = typed("ExpressionStatement", Field{Key: "expression", Value: n})
	}
	return n
}

func program(body ...*SyntaxNode) *SyntaxNode {
	return typed("File", Field{Key: "program", Value: typed("Program", Field{Key: "body", Value: NewArray(body...)})})
}

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name string
		root *SyntaxNode
		want TagSet
	}{
		{
			name: "nil tree",
			root: nil,
			want: TagSet{},
		},
		{
			name: "no elements",
			root: program(typed("VariableDeclaration")),
			want: TagSet{},
		},
		{
			name: "duplicates nested deep",
			root: program(
				nest(jsxElement("Foo", nest(jsxElement("Bar"), 5)), 3),
				nest(jsxElement("Foo"), 40),
			),
			want: TagSet{"Foo", "Bar"},
		},
		{
			name: "pre-order over children",
			root: program(jsxElement("div", jsxElement("Header"), jsxElement("span", jsxElement("Logo")), jsxElement("Footer"))),
			want: TagSet{"div", "Header", "span", "Logo", "Footer"},
		},
		{
			name: "element in attribute value",
			root: program(typed("JSXElement",
				Field{Key: "openingElement", Value: typed("JSXOpeningElement",
					Field{Key: "name", Value: typed("JSXIdentifier", Field{Key: "name", Value: NewScalar("Route")})},
					Field{Key: "attributes", Value: NewArray(typed("JSXAttribute", Field{Key: "value", Value: jsxElement("Home")}))},
				)},
			)),
			want: TagSet{"Route", "Home"},
		},
		{
			name: "member expression name is skipped",
			root: program(typed("JSXElement",
				Field{Key: "openingElement", Value: typed("JSXOpeningElement",
					Field{Key: "name", Value: typed("JSXMemberExpression",
						Field{Key: "object", Value: typed("JSXIdentifier", Field{Key: "name", Value: NewScalar("Foo")})},
					)},
				)},
				Field{Key: "children", Value: NewArray(jsxElement("Inner"))},
			)),
			want: TagSet{"Inner"},
		},
		{
			name: "empty name is skipped",
			root: program(jsxElement(""), jsxElement("Ok")),
			want: TagSet{"Ok"},
		},
		{
			name: "opening element shape without JSXElement type",
			root: program(typed("Other", Field{Key: "openingElement", Value: typed("JSXOpeningElement",
				Field{Key: "name", Value: typed("JSXIdentifier", Field{Key: "name", Value: NewScalar("Nope")})})})),
			want: TagSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTags(tt.root, 0)
			if err != nil {
				t.Fatalf("ExtractTags() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractTagsDepthLimit(t *testing.T) {
	root := nest(jsxElement("Deep"), 100)

	tags, err := ExtractTags(root, 50)
	if !IsTraversalLimitError(err) {
		t.Fatalf("ExtractTags() error = %v, want TraversalLimitError", err)
	}
	if tags != nil {
		t.Errorf("ExtractTags() returned partial tags %v", tags)
	}

	tags, err = ExtractTags(root, 500)
	if err != nil {
		t.Fatalf("ExtractTags() with higher limit error = %v", err)
	}
	if !reflect.DeepEqual(tags, TagSet{"Deep"}) {
		t.Errorf("ExtractTags() = %v, want [Deep]", tags)
	}
}

func TestExtractTagsVeryDeepTree(t *testing.T) {
	// Far deeper than a recursive walk would comfortably handle.
	root := nest(jsxElement("Leaf"), 200000)
	tags, err := ExtractTags(root, 1000000)
	if err != nil {
		t.Fatalf("ExtractTags() error = %v", err)
	}
	if !reflect.DeepEqual(tags, TagSet{"Leaf"}) {
		t.Errorf("ExtractTags() = %v, want [Leaf]", tags)
	}
}

func TestAttachTags(t *testing.T) {
	src := `{"type":"File","program":{"type":"Program","body":[` +
		`{"type":"JSXElement","openingElement":{"type":"JSXOpeningElement","name":{"type":"JSXIdentifier","name":"App"}},` +
		`"children":[{"type":"JSXElement","openingElement":{"type":"JSXOpeningElement","name":{"type":"JSXIdentifier","name":"Nav"}},"children":[]}]}]}}`

	root, err := ParseSyntaxTree([]byte(src), 0)
	if err != nil {
		t.Fatalf("ParseSyntaxTree() error = %v", err)
	}
	tags, err := AttachTags(root, 0)
	if err != nil {
		t.Fatalf("AttachTags() error = %v", err)
	}
	if !reflect.DeepEqual(tags, TagSet{"App", "Nav"}) {
		t.Errorf("AttachTags() = %v, want [App Nav]", tags)
	}

	out, err := root.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	wantSuffix := `,"__jsxTags":["App","Nav"]}`
	if !strings.HasSuffix(string(out), wantSuffix) {
		t.Errorf("MarshalJSON() = %s, want suffix %s", out, wantSuffix)
	}
	if !strings.HasPrefix(string(out), src[:len(src)-1]) {
		t.Errorf("MarshalJSON() did not keep the original tree: %s", out)
	}

	if _, err := AttachTags(NewArray(), 0); err == nil {
		t.Errorf("AttachTags() on array root error = nil, want error")
	}
}
