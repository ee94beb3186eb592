package ldp

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
)

func TestParse(t *testing.T) {
	src := `(score (vers 2.0) // first line
   (title center "Sonata \"1\"")
   (instrument (musicData (n +c4 q. p1))))`

	root, err := Parse("sonata.lms", src)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if root.Name != "score" || root.Line != 1 {
		t.Errorf("root = %q at line %d", root.Name, root.Line)
	}
	if got := root.Child("vers").Values(); !cmp.Equal(got, []string{"2.0"}) {
		t.Errorf("vers values = %v", got)
	}

	title := root.Child("title")
	if title == nil || title.Line != 2 {
		t.Fatalf("title = %+v", title)
	}
	if title.String() != `Sonata "1"` {
		t.Errorf("title text = %q", title.String())
	}
	if !title.Items[1].Quoted || title.Items[0].Quoted {
		t.Error("only the string value should be quoted")
	}

	note := root.Child("instrument").Child("musicData").Child("n")
	if diff := cmp.Diff([]string{"+c4", "q.", "p1"}, note.Values()); diff != "" {
		t.Errorf("note values (-want +got):\n%s", diff)
	}
	if root.Child("missing") != nil {
		t.Error("Child() of a missing name should be nil")
	}
}

func TestParseLeaves(t *testing.T) {
	root, err := Parse("", `(opt Score.Title "x" 12 (a))`)
	if err != nil {
		t.Fatal(err)
	}
	kinds := make([]bool, len(root.Items))
	for i, it := range root.Items {
		kinds[i] = it.IsLeaf()
	}
	if diff := cmp.Diff([]bool{true, true, true, false}, kinds); diff != "" {
		t.Errorf("IsLeaf (-want +got):\n%s", diff)
	}
	if root.Items[3].String() != "" {
		t.Error("String() of an element without strings should be empty")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"blank", "  \n\t "},
		{"unclosed", "(score (vers 2.0)"},
		{"no list", "score"},
		{"unnamed list", `("x")`},
		{"trailing", "(score) )"},
		{"unterminated string", `(title "abc)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.lms", tt.src)
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			var pe *errors.ParseError
			if !stderrors.As(err, &pe) || pe.Format != "ldp" || pe.Path != "bad.lms" {
				t.Errorf("error = %v, want an ldp ParseError", err)
			}
		})
	}
}

func TestParseErrorLine(t *testing.T) {
	_, err := Parse("bad.lms", "(score (vers 2.0))\n)")
	var pe *errors.ParseError
	if !stderrors.As(err, &pe) {
		t.Fatalf("error = %v, want ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
	if !strings.Contains(err.Error(), "bad.lms:2") {
		t.Errorf("error %q should carry the position", err)
	}
}
