package tokens

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

func TestFromSitter(t *testing.T) {
	source := []byte("let x = 1")
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	st, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		t.Fatal(err)
	}

	tree := FromSitter(st.RootNode(), source)
	if tree.Version != Hash(source) {
		t.Error("version must derive from the source")
	}

	toks := tree.Root.Tokens()
	if len(toks) == 0 {
		t.Fatal("expected leaf tokens")
	}

	// Tokens come in document order and cover exactly the
	// non-whitespace text.
	prev := 0
	text := ""
	for _, tk := range toks {
		if tk.Pos < prev {
			t.Fatalf("token %s out of order (prev end %d)", tk, prev)
		}
		if tk.Text != string(source[tk.Pos:tk.End]) {
			t.Errorf("token %s text does not match its range", tk)
		}
		prev = tk.End
		text += tk.Text
	}
	if text != "letx=1" {
		t.Errorf("concatenated tokens = %q, want %q", text, "letx=1")
	}
}
