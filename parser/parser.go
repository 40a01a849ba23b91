// Copyright 2026 The CWTools Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parser implements the recursive-descent parser for both document
// dialects (spec §4.1). The schema grammar is the script grammar's
// superset, so one parser struct drives both, switching on a `schema` flag
// for the handful of constructs that differ (complex rule keys, simple
// value atoms with inline ranges, and the absence of conditional blocks).
//
// Grounded on cuelang.org/go's cue/parser.parser: a single struct holding a
// scanner and an error list, recursive methods named after grammar
// productions, and a panic/recover "bailout" for the first fatal error
// (spec §4.1 "Failure semantics": parse failure is fatal for the document,
// no partial-recovery AST is produced).
package parser

import (
	"fmt"
	"strings"

	"github.com/cwtools/cwtools-go/ast"
	"github.com/cwtools/cwtools-go/errors"
	"github.com/cwtools/cwtools-go/intern"
	"github.com/cwtools/cwtools-go/scanner"
	"github.com/cwtools/cwtools-go/token"
)

type parser struct {
	file   *token.File
	sc     scanner.Scanner
	schema bool

	errs    errors.List
	context []string // rule names currently being parsed, for ParseError

	pending []*ast.CommentGroup // comment groups not yet attached to a node
}

// bailout unwinds the recursive descent back to the entry point on the
// first fatal error, matching cue/parser's recovery mechanism.
type bailout struct{}

func newParser(filename string, src []byte, schema bool) *parser {
	p := &parser{
		file:   token.NewFile(filename, len(src)),
		schema: schema,
	}
	p.sc.Init(p.file, src, p.scanError)
	return p
}

func (p *parser) scanError(pos token.Pos, msg string) {
	p.fail(pos, "", msg)
}

// fail records a ParseError and aborts the current parse via panic(bailout{}).
func (p *parser) fail(pos token.Pos, expected, format string, args ...interface{}) {
	ctx := make([]string, len(p.context))
	copy(ctx, p.context)
	p.errs.Add(&errors.ParseError{
		Offset:   p.file.Offset(pos),
		Pos:      pos,
		Expected: expected,
		Context:  ctx,
		Msg:      fmt.Sprintf(format, args...),
	})
	panic(bailout{})
}

func (p *parser) enter(rule string) func() {
	p.context = append(p.context, rule)
	return func() { p.context = p.context[:len(p.context)-1] }
}

// skipSpace consumes whitespace and comments, buffering any comment groups
// found so the next node constructed can claim them.
func (p *parser) skipSpace() {
	groups := p.sc.SkipSpaceAndComments()
	p.pending = append(p.pending, groups...)
}

// claimComments attaches every buffered comment group to n and clears the
// buffer.
func (p *parser) claimComments(n ast.Node) {
	for _, g := range p.pending {
		n.AddComment(g)
	}
	p.pending = nil
}

// parseModule parses the top level of a document: a sequence of items, no
// enclosing braces (spec §3 "A module is a top-level entity").
func (p *parser) parseModule() *ast.Module {
	defer p.enter("module")()
	start := p.sc.Pos()
	props, items, _ := p.parseItems(false, false, false)
	m := &ast.Module{Filename: p.file.Name(), Properties: props, Items: items}
	m.SetSpan(token.Span{Start: start, End: p.sc.Pos()})
	return m
}

// parseItems parses a run of items until EOF, a closing `}` (stopAtRBrace),
// or a closing `]` (stopAtRBrack). It returns the expressions collected
// into a Properties multimap, the bare value items, and — for the script
// dialect only — any conditional blocks encountered.
//
// insideConditional is set while parsing a conditional block's own items:
// a `[` encountered there is not a nested conditional-block marker (nesting
// is illegal, see SPEC_FULL.md "Open Questions — Decisions" #2) but an
// ordinary, invalid item start, and falls through to parseItem's failure
// path.
func (p *parser) parseItems(stopAtRBrace, stopAtRBrack, insideConditional bool) (*ast.Properties, []ast.Value, []*ast.ConditionalBlock) {
	props := ast.NewProperties()
	var items []ast.Value
	var conds []*ast.ConditionalBlock

	for {
		p.skipSpace()
		ch := p.sc.Ch()
		switch {
		case ch < 0:
			return props, items, conds
		case stopAtRBrace && ch == '}':
			return props, items, conds
		case stopAtRBrack && ch == ']':
			return props, items, conds
		case ch == '[' && !p.schema && !insideConditional:
			cb := p.parseConditionalBlock()
			conds = append(conds, cb)
		default:
			isExpr, expr, val := p.parseItem()
			if isExpr {
				p.claimComments(expr)
				props.Add(expr)
			} else {
				p.claimComments(val)
				items = append(items, val)
			}
		}
	}
}

// parseItem parses one item: either `key op value` or a bare value (spec
// §3). It decides between the two by scanning a key-shaped token and then
// checking whether an operator immediately follows it (modulo horizontal
// whitespace).
func (p *parser) parseItem() (isExpr bool, expr *ast.Expression, val ast.Value) {
	defer p.enter("item")()
	ch := p.sc.Ch()

	switch {
	case ch == '{':
		return false, nil, p.parseEntity()
	case ch == '@':
		return false, nil, p.parseMaths()
	case ch == '"':
		text, span, ok := p.sc.ScanQuoted()
		if !ok {
			p.fail(span.End, `"`, "string literal not terminated")
		}
		return p.afterKeyCandidate(text, span, true)
	case p.schema && ch == '!':
		keyStart := p.sc.Pos()
		p.sc.Advance()
		text, span := p.scanKeyText()
		span.Start = keyStart
		return p.afterKeyCandidate("!"+text, span, false)
	case p.sc.CanStartIdent():
		text, span := p.scanKeyText()
		return p.afterKeyCandidate(text, span, false)
	case p.sc.LooksLikeNumberStart():
		text, span := p.sc.ScanNumber()
		isExpr, expr, val = p.afterKeyCandidate(text, span, false)
		if !isExpr && !p.sc.AtTerminator() {
			p.fail(p.sc.Pos(), "value terminator", "number literal %q not properly terminated", text)
		}
		return isExpr, expr, val
	default:
		p.fail(p.sc.Pos(), "", "unexpected character %q", string(ch))
		panic("unreachable")
	}
}

// scanKeyText scans an unquoted key, extending it through the schema
// dialect's `[scope:name]` / `<name>suffix` complex-key continuations when
// p.schema is set (spec §3, §4.1).
func (p *parser) scanKeyText() (string, token.Span) {
	text, span := p.sc.ScanIdent()
	if !p.schema || !complexKeyPrefixes[text] {
		return text, span
	}
	var b strings.Builder
	b.WriteString(text)
	switch p.sc.Ch() {
	case '[':
		p.sc.Advance()
		inner, _, ok := p.sc.ScanUntilRBrack()
		if !ok {
			p.fail(p.sc.Pos(), "]", "unterminated complex key")
		}
		p.sc.Advance() // ']'
		b.WriteByte('[')
		b.WriteString(inner)
		b.WriteByte(']')
	case '<':
		p.sc.Advance()
		var name strings.Builder
		for p.sc.Ch() != '>' {
			if p.sc.Ch() < 0 || p.sc.Ch() == '\n' {
				p.fail(p.sc.Pos(), ">", "unterminated complex key")
			}
			name.WriteRune(p.sc.Ch())
			p.sc.Advance()
		}
		p.sc.Advance() // '>'
		b.WriteByte('<')
		b.WriteString(name.String())
		b.WriteByte('>')
		if p.sc.CanStartIdent() {
			suffix, _ := p.sc.ScanIdent()
			b.WriteString(suffix)
		}
	}
	return b.String(), token.Span{Start: span.Start, End: p.sc.Pos()}
}

// afterKeyCandidate decides whether the just-scanned token is a key
// (followed by an operator) or a bare value, and parses accordingly.
func (p *parser) afterKeyCandidate(text string, span token.Span, quoted bool) (bool, *ast.Expression, ast.Value) {
	op, ok := p.peekOperator()
	if ok {
		expr := &ast.Expression{
			KeySpan:   span,
			Key:       internText(text),
			KeyQuoted: quoted,
			Operator:  op,
		}
		expr.Value = p.parseValue()
		expr.SetSpan(token.Span{Start: span.Start, End: expr.Value.End()})
		return true, expr, nil
	}
	return false, nil, p.literalFromText(text, span, quoted)
}

// peekOperator skips horizontal whitespace (not across a blank-line
// boundary that would itself start a new item) and tries to match an
// operator; on success the scanner is left just past the operator.
func (p *parser) peekOperator() (token.Token, bool) {
	for p.sc.Ch() == ' ' || p.sc.Ch() == '\t' {
		p.sc.Advance()
	}
	return p.sc.MatchOperator()
}

func (p *parser) literalFromText(text string, span token.Span, quoted bool) ast.Value {
	if !quoted && looksNumeric(text) {
		lit := &ast.NumberLit{Text: text}
		lit.SetSpan(span)
		return lit
	}
	if p.schema {
		if v := p.maybeSimpleValueAtom(text, span); v != nil {
			return v
		}
	}
	if !quoted {
		switch text {
		case "yes", "true":
			lit := &ast.BoolLit{Value: true}
			lit.SetSpan(span)
			return lit
		case "no", "false":
			lit := &ast.BoolLit{Value: false}
			lit.SetSpan(span)
			return lit
		case "rgb", "hsv":
			if p.atColorBody() {
				return p.parseColor(text, span)
			}
		}
	}
	lit := &ast.StringLit{Value: internText(text), Quoted: quoted}
	lit.SetSpan(span)
	return lit
}

func (p *parser) atColorBody() bool {
	for p.sc.Ch() == ' ' || p.sc.Ch() == '\t' {
		p.sc.Advance()
	}
	return p.sc.Ch() == '{'
}

func (p *parser) parseColor(kindText string, start token.Span) ast.Value {
	defer p.enter("color")()
	kind := ast.RGB
	if kindText == "hsv" {
		kind = ast.HSV
	}
	p.sc.Advance() // '{'
	comps := make([]string, 0, 4)
	for {
		p.skipSpaceNoComment()
		if p.sc.Ch() == '}' {
			break
		}
		if !p.sc.LooksLikeNumberStart() {
			p.fail(p.sc.Pos(), "number", "expected colour component")
		}
		n, _ := p.sc.ScanNumber()
		comps = append(comps, n)
		if len(comps) > 4 {
			p.fail(p.sc.Pos(), "}", "too many colour components")
		}
	}
	end := p.sc.Pos()
	p.sc.Advance() // '}'
	if len(comps) < 3 {
		p.fail(end, "3 or 4 components", "colour literal needs 3 or 4 components")
	}
	lit := &ast.ColorLit{Kind: kind, A: comps[0], B: comps[1], C: comps[2]}
	if len(comps) == 4 {
		lit.D, lit.HasD = comps[3], true
	}
	lit.SetSpan(token.Span{Start: start.Start, End: end.Add(1)})
	return lit
}

// skipSpaceNoComment skips ASCII horizontal/vertical whitespace only,
// without comment handling, for use inside a colour literal's braces where
// structured comments are not meaningful.
func (p *parser) skipSpaceNoComment() {
	for {
		switch p.sc.Ch() {
		case ' ', '\t', '\n', '\r':
			p.sc.Advance()
		default:
			return
		}
	}
}

// parseEntity parses a `{ ... }` composite value (spec §3).
func (p *parser) parseEntity() *ast.Entity {
	defer p.enter("entity")()
	start := p.sc.Pos()
	p.sc.Advance() // '{'
	props, items, conds := p.parseItems(true, false, false)
	if p.sc.Ch() != '}' {
		p.fail(p.sc.Pos(), "}", "entity not terminated")
	}
	end := p.sc.Pos()
	p.sc.Advance()
	e := &ast.Entity{Properties: props, Items: items, Conditionals: conds}
	e.SetSpan(token.Span{Start: start, End: end.Add(1)})
	return e
}

// parseConditionalBlock parses `[[!?KEY] …items… ]` (spec §3, script only).
func (p *parser) parseConditionalBlock() *ast.ConditionalBlock {
	defer p.enter("conditional")()
	start := p.sc.Pos()
	p.sc.Advance() // outer '['
	p.skipSpace()
	if p.sc.Ch() != '[' {
		p.fail(p.sc.Pos(), "[", "expected conditional-block marker")
	}
	p.sc.Advance() // inner '['
	negated := false
	if p.sc.Ch() == '!' {
		negated = true
		p.sc.Advance()
	}
	if !p.sc.CanStartIdent() {
		p.fail(p.sc.Pos(), "identifier", "expected conditional-block key")
	}
	keyText, _ := p.sc.ScanIdent()
	if p.sc.Ch() != ']' {
		p.fail(p.sc.Pos(), "]", "expected ']' after conditional-block key")
	}
	p.sc.Advance() // inner ']'
	props, items, _ := p.parseItems(false, true, true)
	if p.sc.Ch() != ']' {
		p.fail(p.sc.Pos(), "]", "conditional block not terminated")
	}
	end := p.sc.Pos()
	p.sc.Advance() // outer ']'
	cb := &ast.ConditionalBlock{Negated: negated, Key: internText(keyText), Properties: props, Items: items}
	cb.SetSpan(token.Span{Start: start, End: end.Add(1)})
	return cb
}

// parseMaths parses `@[ ... ]` / `@\[ ... ]` (spec §3, §4.1).
func (p *parser) parseMaths() ast.Value {
	defer p.enter("maths")()
	start := p.sc.Pos()
	p.sc.Advance() // '@'
	escaped := false
	if p.sc.Ch() == '\\' {
		escaped = true
		p.sc.Advance()
	}
	if p.sc.Ch() != '[' {
		p.fail(p.sc.Pos(), "[", "expected '[' after '@' in inline maths")
	}
	p.sc.Advance()
	text, _, ok := p.sc.ScanUntilRBrack()
	if !ok {
		p.fail(p.sc.Pos(), "]", "inline maths expression not terminated")
	}
	end := p.sc.Pos()
	p.sc.Advance() // ']'
	lit := &ast.MathsLit{Text: text, Escaped: escaped}
	lit.SetSpan(token.Span{Start: start, End: end.Add(1)})
	return lit
}

// parseValue parses a value in RHS position (spec §3 "value").
func (p *parser) parseValue() ast.Value {
	defer p.enter("value")()
	p.skipSpace()
	ch := p.sc.Ch()
	switch {
	case ch == '{':
		return p.parseEntity()
	case ch == '@':
		return p.parseMaths()
	case ch == '"':
		text, span, ok := p.sc.ScanQuoted()
		if !ok {
			p.fail(span.End, `"`, "string literal not terminated")
		}
		return p.literalFromText(text, span, true)
	case p.sc.LooksLikeNumberStart():
		text, span := p.sc.ScanNumber()
		if !p.sc.AtTerminator() {
			p.fail(p.sc.Pos(), "value terminator", "number literal %q not properly terminated", text)
		}
		return p.literalFromText(text, span, false)
	case p.sc.CanStartIdent():
		text, span := p.scanKeyText()
		return p.literalFromText(text, span, false)
	default:
		p.fail(p.sc.Pos(), "value", "unexpected character %q in value position", string(ch))
		panic("unreachable")
	}
}

func internText(s string) intern.Sym { return intern.Intern(s) }

// looksNumeric reports whether text matches the scanner's number grammar
// `[+-]?\d+(\.\d+)?`, distinguishing a scanned numeric token from an
// identifier that happens to share the same key charset.
func looksNumeric(text string) bool {
	i := 0
	if i < len(text) && (text[i] == '+' || text[i] == '-') {
		i++
	}
	digitsStart := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == digitsStart {
		return false
	}
	if i < len(text) && text[i] == '.' {
		i++
		fracStart := i
		for i < len(text) && text[i] >= '0' && text[i] <= '9' {
			i++
		}
		if i == fracStart {
			return false
		}
	}
	return i == len(text)
}
