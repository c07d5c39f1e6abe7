package token

import "testing"

func collect(src string) []Token {
	tok := New(src)
	var toks []Token
	for {
		tk := tok.Next()
		toks = append(toks, tk)
		if tk.Type == EOF {
			return toks
		}
	}
}

func TestNextBasicKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "modifier plus char",
			src:  "alt + a",
			want: []Token{
				{Type: Modifier, Text: "alt"},
				{Type: Punctuation, Text: "+"},
				{Type: Char, Text: "a"},
				{Type: EOF},
			},
		},
		{
			name: "layer ref with name",
			src:  "|work",
			want: []Token{
				{Type: LayerRef, Text: "work"},
				{Type: EOF},
			},
		},
		{
			name: "bare layer ref",
			src:  "|",
			want: []Token{
				{Type: LayerRef, Text: ""},
				{Type: EOF},
			},
		},
		{
			name: "option",
			src:  ".blocklist",
			want: []Token{
				{Type: Option, Text: "blocklist"},
				{Type: EOF},
			},
		},
		{
			name: "alias and event",
			src:  "$hyper @enter_layer",
			want: []Token{
				{Type: Alias, Text: "hyper"},
				{Type: Event, Text: "enter_layer"},
				{Type: EOF},
			},
		},
		{
			name: "hex keycode",
			src:  "0x1A",
			want: []Token{
				{Type: HexKeycode, Text: "0x1A"},
				{Type: EOF},
			},
		},
		{
			name: "literal key name",
			src:  "space",
			want: []Token{
				{Type: LiteralKey, Text: "space"},
				{Type: EOF},
			},
		},
		{
			name: "identifier fallback",
			src:  "foobar",
			want: []Token{
				{Type: Identifier, Text: "foobar"},
				{Type: EOF},
			},
		},
		{
			name: "arrow punctuation",
			src:  "-> [ ] ( ) <",
			want: []Token{
				{Type: Punctuation, Text: "->"},
				{Type: Punctuation, Text: "["},
				{Type: Punctuation, Text: "]"},
				{Type: Punctuation, Text: "("},
				{Type: Punctuation, Text: ")"},
				{Type: Punctuation, Text: "<"},
				{Type: EOF},
			},
		},
		{
			name: "comment is skipped",
			src:  "a # trailing comment\nb",
			want: []Token{
				{Type: Char, Text: "a"},
				{Type: Char, Text: "b"},
				{Type: EOF},
			},
		},
		{
			name: "string literal",
			src:  `"Google Chrome"`,
			want: []Token{
				{Type: String, Text: "Google Chrome"},
				{Type: EOF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(tt.src)
			if len(got) != len(tt.want) {
				t.Fatalf("token count = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i, w := range tt.want {
				if got[i].Type != w.Type || got[i].Text != w.Text {
					t.Errorf("token %d = %s(%q), want %s(%q)", i, got[i].Type, got[i].Text, w.Type, w.Text)
				}
			}
		})
	}
}

func TestReadCommandStopsAtUnescapedNewline(t *testing.T) {
	toks := collect(": echo hi\nnext")
	if toks[0].Type != Command || toks[0].Text != "echo hi" {
		t.Fatalf("command token = %+v, want Command(%q)", toks[0], "echo hi")
	}
	if toks[1].Type != LiteralKey || toks[1].Text != "next" {
		t.Fatalf("token after command = %+v", toks[1])
	}
}

func TestReadCommandEscapesNewline(t *testing.T) {
	toks := collect(": echo hi \\\ncontinued")
	if toks[0].Type != Command {
		t.Fatalf("expected a single Command token, got %+v", toks[0])
	}
	if toks[0].Text != "echo hi \ncontinued" {
		t.Errorf("command text = %q", toks[0].Text)
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	tok := New("a\nb")
	first := tok.Next()
	if first.Line != 1 || first.Column != 1 {
		t.Fatalf("first token position = %d:%d, want 1:1", first.Line, first.Column)
	}
	second := tok.Next()
	if second.Line != 2 || second.Column != 1 {
		t.Fatalf("second token position = %d:%d, want 2:1", second.Line, second.Column)
	}
}

func TestUnknownCharacter(t *testing.T) {
	toks := collect("%")
	if toks[0].Type != Unknown || toks[0].Text != "%" {
		t.Fatalf("expected Unknown(%%), got %+v", toks[0])
	}
}

func TestIsModifierAndLiteralKeyName(t *testing.T) {
	if !IsModifierName("ALT") {
		t.Errorf("expected ALT to be a modifier name")
	}
	if !IsLiteralKeyName("F12") {
		t.Errorf("expected F12 to be a literal key name")
	}
	if IsModifierName("space") {
		t.Errorf("space should not be a modifier name")
	}
}
