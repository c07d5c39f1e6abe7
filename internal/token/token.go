// Package token implements the tokenizer for the hotkey configuration
// language (spec §4.A): a single forward scan over a source buffer that
// tracks line/column per character and classifies identifiers against
// the modifier-name and literal-keyname tables before falling back to a
// plain identifier.
package token

import (
	"fmt"
	"strings"
)

// Type enumerates the token kinds the tokenizer produces.
type Type int

const (
	Identifier Type = iota
	Command          // text after ':', up to the next unescaped newline
	Modifier
	LiteralKey  // return, space, tab, f1..f20, arrows, ...
	HexKeycode  // 0x[0-9A-F]+
	Char        // single-character key
	LayerRef    // |name (name may be empty)
	Option      // .name
	Alias       // $name
	Event       // @name
	Punctuation // , + - -> * [ ] ( ) <
	String      // "..."
	Unknown
	EOF
)

func (t Type) String() string {
	names := [...]string{
		"Identifier", "Command", "Modifier", "LiteralKey", "HexKeycode",
		"Char", "LayerRef", "Option", "Alias", "Event", "Punctuation",
		"String", "Unknown", "EOF",
	}
	if int(t) < 0 || int(t) >= len(names) {
		return "Type(?)"
	}
	return names[t]
}

// Token is one lexical unit: its type, the slice of source text it
// covers, and its starting line/column (1-based).
type Token struct {
	Type   Type
	Text   string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Text, t.Line, t.Column)
}

// modifierNames is the exact-match table consulted before LiteralKey and
// before falling back to Identifier.
var modifierNames = map[string]bool{
	"alt": true, "lalt": true, "ralt": true,
	"shift": true, "lshift": true, "rshift": true,
	"cmd": true, "lcmd": true, "rcmd": true,
	"ctrl": true, "lctrl": true, "rctrl": true,
	"fn": true, "nx": true,
}

// literalKeyNames is the table of multi-character key names recognized
// after the modifier-name table fails to match.
var literalKeyNames = map[string]bool{
	"return": true, "space": true, "tab": true, "delete": true, "escape": true,
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pageup": true, "pagedown": true, "insert": true,
	"capslock": true, "numlock": true, "scrolllock": true,
	"play": true, "pause": true, "next": true, "previous": true, "rewind": true, "fastforward": true,
	"mute": true, "volumeup": true, "volumedown": true,
	"brightnessup": true, "brightnessdown": true,
	"illuminationup": true, "illuminationdown": true,
}

func init() {
	for i := 1; i <= 20; i++ {
		literalKeyNames[fmt.Sprintf("f%d", i)] = true
	}
}

// IsModifierName reports whether name names a modifier; the lookup is
// case-insensitive.
func IsModifierName(name string) bool { return modifierNames[strings.ToLower(name)] }

// IsLiteralKeyName reports whether name names a literal key; the lookup
// is case-insensitive.
func IsLiteralKeyName(name string) bool { return literalKeyNames[strings.ToLower(name)] }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')
}

// Tokenizer is a pull scanner: call Next repeatedly until it returns an
// EOF token.
type Tokenizer struct {
	src    string
	pos    int
	line   int
	column int
}

// New returns a Tokenizer over src.
func New(src string) *Tokenizer {
	return &Tokenizer{src: src, line: 1, column: 1}
}

func (t *Tokenizer) peek() byte {
	if t.pos >= len(t.src) {
		return 0
	}
	return t.src[t.pos]
}

func (t *Tokenizer) peekAt(offset int) byte {
	if t.pos+offset >= len(t.src) {
		return 0
	}
	return t.src[t.pos+offset]
}

func (t *Tokenizer) advance() byte {
	c := t.src[t.pos]
	t.pos++
	if c == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
	return c
}

func (t *Tokenizer) atEOF() bool { return t.pos >= len(t.src) }

// skipSpaceAndComments consumes whitespace and '#'-prefixed line
// comments between tokens.
func (t *Tokenizer) skipSpaceAndComments() {
	for !t.atEOF() {
		c := t.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			t.advance()
		case c == '#':
			for !t.atEOF() && t.peek() != '\n' {
				t.advance()
			}
		default:
			return
		}
	}
}

func (t *Tokenizer) readIdentBody() string {
	start := t.pos
	for !t.atEOF() && isIdentCont(t.peek()) {
		t.advance()
	}
	return t.src[start:t.pos]
}

// Next scans and returns the next token, advancing past it.
func (t *Tokenizer) Next() Token {
	t.skipSpaceAndComments()
	if t.atEOF() {
		return Token{Type: EOF, Line: t.line, Column: t.column}
	}

	line, col := t.line, t.column
	c := t.peek()

	switch {
	case c == '.':
		t.advance()
		name := t.readIdentBody()
		return Token{Type: Option, Text: name, Line: line, Column: col}
	case c == '$':
		t.advance()
		name := t.readIdentBody()
		return Token{Type: Alias, Text: name, Line: line, Column: col}
	case c == '@':
		t.advance()
		name := t.readIdentBody()
		return Token{Type: Event, Text: name, Line: line, Column: col}
	case c == '|':
		t.advance()
		name := t.readIdentBody()
		return Token{Type: LayerRef, Text: name, Line: line, Column: col}
	case c == ':':
		t.advance()
		return t.readCommand(line, col)
	case c == '"':
		t.advance()
		return t.readString(line, col)
	case c == '0' && (t.peekAt(1) == 'x' || t.peekAt(1) == 'X'):
		return t.readHex(line, col)
	case c == '-' && t.peekAt(1) == '>':
		t.advance()
		t.advance()
		return Token{Type: Punctuation, Text: "->", Line: line, Column: col}
	case strings.ContainsRune(",+-*[]()<", rune(c)):
		t.advance()
		return Token{Type: Punctuation, Text: string(c), Line: line, Column: col}
	case isIdentStart(c):
		return t.readIdentifier(line, col)
	default:
		t.advance()
		return Token{Type: Unknown, Text: string(c), Line: line, Column: col}
	}
}

// readCommand reads everything up to the next unescaped newline as a
// single Command token body; '\' escapes the following character,
// including a newline (allowing a command to continue on the next
// line).
func (t *Tokenizer) readCommand(line, col int) Token {
	var b strings.Builder
	for !t.atEOF() {
		c := t.peek()
		if c == '\\' {
			t.advance()
			if !t.atEOF() {
				b.WriteByte(t.advance())
			}
			continue
		}
		if c == '\n' {
			break
		}
		b.WriteByte(t.advance())
	}
	return Token{Type: Command, Text: strings.TrimSpace(b.String()), Line: line, Column: col}
}

// readString reads a raw "..." token. No escape processing happens
// inside — it is used only for process names, which never contain a
// literal quote in practice.
func (t *Tokenizer) readString(line, col int) Token {
	start := t.pos
	for !t.atEOF() && t.peek() != '"' {
		t.advance()
	}
	text := t.src[start:t.pos]
	if !t.atEOF() {
		t.advance() // closing quote
	}
	return Token{Type: String, Text: text, Line: line, Column: col}
}

func (t *Tokenizer) readHex(line, col int) Token {
	start := t.pos
	t.advance() // '0'
	t.advance() // 'x'
	for !t.atEOF() && isHexDigit(toUpper(t.peek())) {
		t.advance()
	}
	return Token{Type: HexKeycode, Text: t.src[start:t.pos], Line: line, Column: col}
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func (t *Tokenizer) readIdentifier(line, col int) Token {
	start := t.pos
	t.advance()
	for !t.atEOF() && isIdentCont(t.peek()) {
		t.advance()
	}
	text := t.src[start:t.pos]

	if len([]rune(text)) == 1 {
		return Token{Type: Char, Text: text, Line: line, Column: col}
	}
	lower := strings.ToLower(text)
	switch {
	case IsModifierName(lower):
		return Token{Type: Modifier, Text: lower, Line: line, Column: col}
	case IsLiteralKeyName(lower):
		return Token{Type: LiteralKey, Text: lower, Line: line, Column: col}
	default:
		return Token{Type: Identifier, Text: text, Line: line, Column: col}
	}
}
