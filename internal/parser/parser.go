// Package parser implements the recursive-descent parser for the hotkey
// configuration DSL (spec §4.B): it consumes a token.Tokenizer stream
// and fills a ruleset.EngineState with layers, hotkeys, aliases, and the
// blocklist, collecting any .load directives for the driver to resolve
// and re-parse.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Danondso/mkhd/internal/action"
	"github.com/Danondso/mkhd/internal/keyevent"
	"github.com/Danondso/mkhd/internal/ruleset"
	"github.com/Danondso/mkhd/internal/token"
)

// SyntaxError is returned on the first diagnostic the parser finds; the
// parser is single-pass and fails fast (spec §4.B "Error policy").
type SyntaxError struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// LoadDirective is a collected-but-not-yet-executed `.load "path"`
// statement; the driver resolves Path relative to the directory of the
// including file and re-invokes Parse.
type LoadDirective struct {
	Path string
}

// KeycodeMap resolves a character outside the built-in ASCII table to a
// keycode — the collaborator interface spec §6 calls keycode_map,
// consulted only when keyevent.CharKeyCode doesn't already know ch.
type KeycodeMap interface {
	Keycode(ch rune) (keyevent.Key, bool)
}

// Parse parses src (one configuration file's contents) into state,
// returning any collected .load directives. On error, state may be
// partially mutated; per spec §4.B the arena reset on the next reload is
// what actually discards partial state — callers that care about a
// clean state on error should parse into a fresh ruleset.EngineState and
// only adopt it after Parse succeeds.
func Parse(src string, filename string, state *ruleset.EngineState, kc KeycodeMap) ([]LoadDirective, error) {
	p := &parser{
		tok:      token.New(src),
		file:     filename,
		state:    state,
		keycodes: kc,
	}
	p.advance()
	for p.cur.Type != token.EOF {
		if err := p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return p.loads, nil
}

// ParseKeyCombination parses src as a single key_event fragment (either
// a pseudo-event or a key combination) in isolation, consulting state
// for alias lookups. It is the entry point `mkhd --key` uses for
// dry-running what a key specification resolves to without a whole
// config file around it.
func ParseKeyCombination(src string, state *ruleset.EngineState, kc KeycodeMap) (keyevent.KeyEvent, error) {
	p := &parser{tok: token.New(src), state: state, keycodes: kc}
	p.advance()
	ev, _, err := p.parseKeyEvent()
	if err != nil {
		return keyevent.KeyEvent{}, err
	}
	if p.cur.Type != token.EOF {
		return keyevent.KeyEvent{}, p.errorf("unexpected trailing input %s", p.cur)
	}
	return ev, nil
}

type parser struct {
	tok      *token.Tokenizer
	cur      token.Token
	file     string
	state    *ruleset.EngineState
	keycodes KeycodeMap
	loads    []LoadDirective
}

func (p *parser) advance() { p.cur = p.tok.Next() }

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{File: p.file, Line: p.cur.Line, Col: p.cur.Column, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) isPunct(text string) bool {
	return p.cur.Type == token.Punctuation && p.cur.Text == text
}

func (p *parser) expectPunct(text string) error {
	if !p.isPunct(text) {
		return p.errorf("expected %q, found %s", text, p.cur)
	}
	p.advance()
	return nil
}

// parseStatement parses one top-level statement: either a bare option
// (.blocklist/.load/.alias) or a hotkey.
func (p *parser) parseStatement() error {
	if p.cur.Type == token.Option {
		switch strings.ToLower(p.cur.Text) {
		case "blocklist", "load", "alias":
			return p.parseOption()
		default:
			return p.errorf("unknown option %q", p.cur.Text)
		}
	}
	return p.parseHotkey()
}

func (p *parser) parseOption() error {
	name := strings.ToLower(p.cur.Text)
	p.advance()
	switch name {
	case "blocklist":
		return p.parseBlocklist()
	case "load":
		return p.parseLoad()
	case "alias":
		return p.parseAlias()
	default:
		return p.errorf("unknown option %q", name)
	}
}

func (p *parser) parseBlocklist() error {
	if err := p.expectPunct("["); err != nil {
		return err
	}
	var names []string
	for p.cur.Type == token.String {
		names = append(names, strings.ToLower(p.cur.Text))
		p.advance()
	}
	if len(names) == 0 {
		return p.errorf("blocklist requires at least one entry")
	}
	if err := p.expectPunct("]"); err != nil {
		return err
	}
	for _, n := range names {
		p.state.Blocklist[n] = struct{}{}
	}
	return nil
}

func (p *parser) parseLoad() error {
	if p.cur.Type != token.String {
		return p.errorf("expected a path string after .load")
	}
	path := p.cur.Text
	p.advance()
	p.loads = append(p.loads, LoadDirective{Path: path})
	return nil
}

func (p *parser) parseAlias() error {
	if p.cur.Type != token.Alias {
		return p.errorf("expected an alias name after .alias")
	}
	name := p.cur.Text
	p.advance()
	ev, _, err := p.parseKeyEvent()
	if err != nil {
		return err
	}
	p.state.Aliases[name] = ev
	return nil
}

// parseHotkey parses: layer_list? keyevent action_clause
func (p *parser) parseHotkey() error {
	var layers []string
	for p.cur.Type == token.LayerRef {
		if p.cur.Text == "" {
			return p.errorf("empty layer name")
		}
		layers = append(layers, p.cur.Text)
		p.advance()
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if len(layers) == 0 {
		layers = []string{ruleset.DefaultLayerName}
	}

	event, isPseudoSyntax, err := p.parseKeyEvent()
	if err != nil {
		return err
	}

	processNames, perProcessActions, defaultAction, err := p.parseActionClause(isPseudoSyntax)
	if err != nil {
		return err
	}

	for _, layerName := range layers {
		layer := p.state.Layer(layerName)
		hotkey := &ruleset.Hotkey{
			Event:             event,
			ProcessNames:      append([]string(nil), processNames...),
			PerProcessActions: append([]action.Action(nil), perProcessActions...),
			DefaultAction:     defaultAction,
		}
		if _, err := p.state.Arena.Alloc(hotkey); err != nil {
			return p.errorf("%s", err)
		}
		layer.Put(hotkey)
	}
	return nil
}

// parseActionClause parses: action | '[' process_map+ ']'
func (p *parser) parseActionClause(isPseudoSyntax bool) (processNames []string, perProcessActions []action.Action, defaultAction action.Action, err error) {
	if p.isPunct("[") {
		if isPseudoSyntax {
			return nil, nil, nil, p.errorf("pseudo-event hotkeys do not support process-scoped actions")
		}
		p.advance()
		count := 0
		for !p.isPunct("]") {
			switch {
			case p.cur.Type == token.String:
				name := strings.ToLower(p.cur.Text)
				p.advance()
				act, err := p.parseAction()
				if err != nil {
					return nil, nil, nil, err
				}
				processNames = append(processNames, name)
				perProcessActions = append(perProcessActions, act)
				count++
			case p.isPunct("*"):
				p.advance()
				act, err := p.parseAction()
				if err != nil {
					return nil, nil, nil, err
				}
				defaultAction = act
				count++
			default:
				return nil, nil, nil, p.errorf("expected a process name string or '*', found %s", p.cur)
			}
		}
		if count == 0 {
			return nil, nil, nil, p.errorf("process-scoped action list requires at least one entry")
		}
		p.advance() // ']'
		return processNames, perProcessActions, defaultAction, nil
	}

	act, err := p.parseAction()
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, nil, act, nil
}

// parseAction parses: COMMAND | '.' action_name ( LAYER_REF )?
func (p *parser) parseAction() (action.Action, error) {
	switch p.cur.Type {
	case token.Command:
		text := p.cur.Text
		if strings.HasPrefix(text, ".") {
			// `: .activate |layer` and the like name a built-in action; a body
			// that does not parse as one (e.g. `./script.sh`) stays a command.
			sub := &parser{tok: token.New(text), file: p.file, state: p.state, keycodes: p.keycodes}
			sub.advance()
			if act, err := sub.parseAction(); err == nil && sub.cur.Type == token.EOF {
				p.advance()
				return act, nil
			}
		}
		p.advance()
		return action.Command{Text: text}, nil
	case token.Option:
		name := strings.ToLower(p.cur.Text)
		p.advance()
		switch name {
		case "activate":
			target, err := p.expectLayerRefArgument()
			if err != nil {
				return nil, err
			}
			return action.PushLayer{Layer: target}, nil
		case "oneshot":
			target, err := p.expectLayerRefArgument()
			if err != nil {
				return nil, err
			}
			return action.PushLayerOneshot{Layer: target}, nil
		case "deactivate":
			return action.PopLayer{}, nil
		case "fallthrough":
			return action.Fallthrough{}, nil
		case "nop":
			return action.NoOp{}, nil
		case "nocapture":
			return action.Nocapture{}, nil
		default:
			return nil, p.errorf("unknown action %q", name)
		}
	default:
		return nil, p.errorf("expected an action, found %s", p.cur)
	}
}

func (p *parser) expectLayerRefArgument() (string, error) {
	if p.cur.Type != token.LayerRef {
		return "", p.errorf("expected a layer reference, found %s", p.cur)
	}
	if p.cur.Text == "" {
		return "", p.errorf("empty layer name")
	}
	name := p.cur.Text
	p.advance()
	return name, nil
}

// parseKeyEvent parses: pseudo_event | key_combination
func (p *parser) parseKeyEvent() (keyevent.KeyEvent, bool, error) {
	if p.cur.Type == token.Event {
		ev, err := p.parsePseudoEvent()
		return ev, true, err
	}
	ev, err := p.parseKeyCombination()
	return ev, false, err
}

var pseudoEventTypes = map[string]keyevent.Type{
	"unmatched":   keyevent.Unmatched,
	"enter_layer": keyevent.EnterLayer,
	"exit_layer":  keyevent.ExitLayer,
	"keydown":     keyevent.KeyDown,
	"keyup":       keyevent.KeyUp,
}

// parsePseudoEvent parses: '@' name ( '(' key_combination? ')' )?
func (p *parser) parsePseudoEvent() (keyevent.KeyEvent, error) {
	name := strings.ToLower(p.cur.Text)
	t, ok := pseudoEventTypes[name]
	if !ok {
		return keyevent.KeyEvent{}, p.errorf("invalid pseudo-event name %q", p.cur.Text)
	}
	p.advance()

	ev := keyevent.KeyEvent{Type: t}
	if !p.isPunct("(") {
		return ev, nil
	}
	if t == keyevent.Unmatched || t == keyevent.EnterLayer || t == keyevent.ExitLayer {
		return ev, p.errorf("@%s does not take a parenthesized key", name)
	}
	p.advance()
	if !p.isPunct(")") {
		combo, err := p.parseKeyCombination()
		if err != nil {
			return keyevent.KeyEvent{}, err
		}
		ev.Flags = combo.Flags
		ev.Key = combo.Key
	}
	if err := p.expectPunct(")"); err != nil {
		return keyevent.KeyEvent{}, err
	}
	return ev, nil
}

// parseKeyCombination parses: modifier_chain? ( '-' key )? | key
func (p *parser) parseKeyCombination() (keyevent.KeyEvent, error) {
	event := keyevent.KeyEvent{Type: keyevent.Key}

	if p.cur.Type == token.Modifier || p.cur.Type == token.Alias {
		first := true
		for {
			frag, err := p.parseChainFragment(first)
			if err != nil {
				return keyevent.KeyEvent{}, err
			}
			merged, ok := keyevent.Merge(event, frag)
			if !ok {
				return keyevent.KeyEvent{}, p.errorf("alias and chain both supply a concrete key")
			}
			event = merged
			first = false
			if p.isPunct("+") {
				p.advance()
				continue
			}
			break
		}
		if generic, bad := conflictingFamily(event.Flags); bad {
			return keyevent.KeyEvent{}, p.errorf("rule sets two modifier bits from the same %s family", familyLabel(generic))
		}
		if p.isPunct("-") {
			p.advance()
			keyEv, err := p.parseKeyToken()
			if err != nil {
				return keyevent.KeyEvent{}, err
			}
			merged, ok := keyevent.Merge(event, keyEv)
			if !ok {
				return keyevent.KeyEvent{}, p.errorf("rule specifies two concrete keys")
			}
			event = merged
		}
		return event, nil
	}

	keyEv, err := p.parseKeyToken()
	if err != nil {
		return keyevent.KeyEvent{}, err
	}
	merged, _ := keyevent.Merge(event, keyEv)
	return merged, nil
}

// conflictingFamily reports whether flags sets two bits belonging to the
// same modifier family (e.g. both cmd and lcmd), which spec §3 forbids
// ("a rule sets at most one of the three per modifier family"). A chain
// like `cmd + lcmd - q` builds exactly this conflict one fragment at a
// time, so the check runs once per completed modifier_chain rather than
// per fragment.
func conflictingFamily(flags keyevent.Flags) (generic keyevent.Flags, bad bool) {
	seen := make(map[keyevent.Flags]bool, 4)
	for bit := keyevent.Flags(1); bit != 0; bit <<= 1 {
		if flags&bit == 0 {
			continue
		}
		fam, ok := keyevent.FamilyOf(bit)
		if !ok {
			continue
		}
		if seen[fam] {
			return fam, true
		}
		seen[fam] = true
	}
	return 0, false
}

// familyLabel names a family by its generic bit, for diagnostics.
func familyLabel(generic keyevent.Flags) string {
	switch generic {
	case keyevent.Alt:
		return "alt"
	case keyevent.Shift:
		return "shift"
	case keyevent.Cmd:
		return "cmd"
	case keyevent.Ctrl:
		return "ctrl"
	default:
		return "modifier"
	}
}

// parseChainFragment consumes one MODIFIER or ALIAS entry in a
// modifier_chain, enforcing that a non-leading, modifier-less alias is
// rejected as ambiguous (spec §4.B "Alias expansion").
func (p *parser) parseChainFragment(first bool) (keyevent.KeyEvent, error) {
	switch p.cur.Type {
	case token.Modifier:
		flag, ok := keyevent.ModifierFlag(p.cur.Text)
		if !ok {
			return keyevent.KeyEvent{}, p.errorf("unknown modifier %q", p.cur.Text)
		}
		p.advance()
		return keyevent.KeyEvent{Flags: flag}, nil
	case token.Alias:
		name := p.cur.Text
		aliasEvent, ok := p.state.Aliases[name]
		if !ok {
			return keyevent.KeyEvent{}, p.errorf("undefined alias $%s", name)
		}
		if !first && aliasEvent.Flags == 0 {
			return keyevent.KeyEvent{}, p.errorf("ambiguous alias $%s: it supplies no modifier bits and cannot appear after the first chain position", name)
		}
		p.advance()
		return aliasEvent, nil
	default:
		return keyevent.KeyEvent{}, p.errorf("expected a modifier or alias, found %s", p.cur)
	}
}

// parseKeyToken parses: CHAR | HEX | LITERAL | ALIAS
func (p *parser) parseKeyToken() (keyevent.KeyEvent, error) {
	switch p.cur.Type {
	case token.Char:
		r := []rune(p.cur.Text)[0]
		code, ok := keyevent.CharKeyCode(r)
		if !ok && p.keycodes != nil {
			code, ok = p.keycodes.Keycode(r)
		}
		if !ok {
			return keyevent.KeyEvent{}, p.errorf("unknown character key %q", p.cur.Text)
		}
		p.advance()
		return keyevent.KeyEvent{Type: keyevent.Key, Key: code}, nil
	case token.HexKeycode:
		n, err := strconv.ParseUint(p.cur.Text[2:], 16, 32)
		if err != nil {
			return keyevent.KeyEvent{}, p.errorf("invalid hex keycode %q", p.cur.Text)
		}
		p.advance()
		return keyevent.KeyEvent{Type: keyevent.Key, Key: keyevent.Key(n)}, nil
	case token.LiteralKey:
		code, ok := keyevent.LiteralKeyCode(p.cur.Text)
		if !ok {
			return keyevent.KeyEvent{}, p.errorf("unknown key name %q", p.cur.Text)
		}
		p.advance()
		return keyevent.KeyEvent{Type: keyevent.Key, Key: code}, nil
	case token.Alias:
		name := p.cur.Text
		aliasEvent, ok := p.state.Aliases[name]
		if !ok {
			return keyevent.KeyEvent{}, p.errorf("undefined alias $%s", name)
		}
		p.advance()
		return aliasEvent, nil
	default:
		return keyevent.KeyEvent{}, p.errorf("expected a key, found %s", p.cur)
	}
}
