package service

import (
	"strings"
	"testing"
)

func TestDiffCode(t *testing.T) {
	a := "Old:\n```js\nconst x = 1;\nrun(x);\n```"
	b := "New, with other prose:\n```js\nconst x = 2;\nrun(x);\n```"

	out, err := DiffCode(a, b, "a.md", "b.md", 3, false)
	if err != nil {
		t.Fatalf("DiffCode() error = %v", err)
	}
	for _, want := range []string{"--- a.md", "+++ b.md", "-const x = 1;", "+const x = 2;"} {
		if !strings.Contains(out, want) {
			t.Errorf("DiffCode() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "prose") {
		t.Errorf("DiffCode() compared prose:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("DiffCode() colored output with colored=false")
	}

	same, err := DiffCode(a, "Other prose\n```js\nconst x = 1;\nrun(x);\n```", "a", "b", 3, false)
	if err != nil {
		t.Fatal(err)
	}
	if same != "" {
		t.Errorf("DiffCode() of equal code = %q, want empty", same)
	}
}

func TestParseHunkHeader(t *testing.T) {
	tests := []struct {
		line   string
		w1, w2 int
	}{
		{"@@ -1,3 +1,4 @@", 0, 0},
		{"@@ -10,2 +12,2 @@", 9, 11},
		{"@@ bogus", 5, 6},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			g1, g2 := parseHunkHeader(tt.line, 5, 6)
			if g1 != tt.w1 || g2 != tt.w2 {
				t.Errorf("parseHunkHeader() = %d, %d, want %d, %d", g1, g2, tt.w1, tt.w2)
			}
		})
	}
}
