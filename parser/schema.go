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

package parser

import (
	"github.com/cwtools/cwtools-go/ast"
	"github.com/cwtools/cwtools-go/token"
)

// simpleValueAtoms is the closed set of schema value-atom keywords (spec §3
// "Values may be simple value atoms").
var simpleValueAtoms = map[string]bool{
	"bool":                 true,
	"int":                  true,
	"float":                true,
	"scalar":               true,
	"percentage_field":     true,
	"localisation":         true,
	"localisation_synced":  true,
	"localisation_inline":  true,
	"date_field":           true,
	"variable_field":       true,
	"int_variable_field":   true,
	"value_field":          true,
	"int_value_field":      true,
	"scope_field":          true,
	"filepath":             true,
	"icon":                 true,
}

// complexKeyPrefixes is the closed set of schema rule-key prefixes (spec
// §6 "Key prefixes accepted in rule keys").
var complexKeyPrefixes = map[string]bool{
	"type":                   true,
	"subtype":                true,
	"enum":                   true,
	"complex_enum":           true,
	"value":                  true,
	"value_set":               true,
	"scope":                  true,
	"scope_group":            true,
	"alias":                  true,
	"alias_name":             true,
	"alias_match_left":       true,
	"alias_keys_field":       true,
	"single_alias":           true,
	"single_alias_right":     true,
	"icon":                   true,
	"filepath":               true,
	"colour":                 true,
	"stellaris_name_format":  true,
}

// maybeSimpleValueAtom recognises text as a simple value atom keyword and,
// if one matches, consumes a following inline `[min..max]` range (spec §3,
// §4.1 "Rule values may additionally be simple value atoms ... optionally
// followed by [min..max] where .. and ... are equivalent").
func (p *parser) maybeSimpleValueAtom(text string, span token.Span) *ast.SimpleValueAtom {
	if !simpleValueAtoms[text] {
		return nil
	}
	atom := &ast.SimpleValueAtom{Atom: text}
	end := span.End
	if p.sc.Ch() == '[' {
		rng := p.parseInlineRange()
		atom.Range = rng
		end = rng.End()
	}
	atom.SetSpan(token.Span{Start: span.Start, End: end})
	return atom
}

// parseInlineRange parses `[min..max]` or `[min...max]` (the two dot
// spellings are equivalent, spec §4.1). min/max are either decimal literal
// text or the `inf` keyword.
func (p *parser) parseInlineRange() *ast.Range {
	defer p.enter("range")()
	start := p.sc.Pos()
	p.sc.Advance() // '['
	min := p.scanRangeBound()
	p.skipDots()
	max := p.scanRangeBound()
	if p.sc.Ch() != ']' {
		p.fail(p.sc.Pos(), "]", "inline range not terminated")
	}
	end := p.sc.Pos()
	p.sc.Advance()
	r := &ast.Range{Min: min, Max: max}
	r.SetSpan(token.Span{Start: start, End: end.Add(1)})
	return r
}

func (p *parser) skipDots() {
	n := 0
	for p.sc.Ch() == '.' {
		p.sc.Advance()
		n++
	}
	if n != 2 && n != 3 {
		p.fail(p.sc.Pos(), "'..' or '...'", "expected range separator")
	}
}

func (p *parser) scanRangeBound() ast.RangeBound {
	if p.sc.CanStartIdent() && !p.sc.LooksLikeNumberStart() {
		text, span := p.sc.ScanIdent()
		if text != "inf" {
			p.fail(span.Start, "inf", "unexpected range bound %q", text)
		}
		return ast.RangeBound{Inf: true}
	}
	if !p.sc.LooksLikeNumberStart() {
		p.fail(p.sc.Pos(), "number or 'inf'", "expected range bound")
	}
	text, _ := p.sc.ScanNumber()
	return ast.RangeBound{Text: text}
}

// ParseCommentOptions parses the joined text of an Option-tier comment
// group into a structured option list (spec §3 "Structured comments",
// §4.2). It is a standalone entry point used by the schema loader, which
// owns deciding which comment groups are option comments.
func ParseCommentOptions(filename string, text string) (*ast.CommentOption, error) {
	p := newParser(filename, []byte(text), true)
	var out *ast.CommentOption
	var err error
	func() {
		defer func() {
			switch r := recover().(type) {
			case nil:
			case bailout:
			default:
				panic(r)
			}
			if e := p.errs.Err(); e != nil {
				err = e
			}
		}()
		out = p.parseCommentOptionList()
	}()
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) parseCommentOptionList() *ast.CommentOption {
	defer p.enter("option-comment")()
	start := p.sc.Pos()
	co := &ast.CommentOption{}
	for {
		p.skipSpaceNoComment()
		if p.sc.AtEOF() {
			break
		}
		co.Entries = append(co.Entries, p.parseOptionEntry())
	}
	co.SetSpan(token.Span{Start: start, End: p.sc.Pos()})
	return co
}

// parseOptionEntry parses one `key`, `key = value`, or `key != value`
// option (spec §3).
func (p *parser) parseOptionEntry() *ast.OptionEntry {
	defer p.enter("option")()
	if !p.sc.CanStartIdent() {
		p.fail(p.sc.Pos(), "identifier", "expected option key")
	}
	key, span := p.sc.ScanIdent()
	entry := &ast.OptionEntry{Key: key}
	p.skipSpaceNoComment()
	switch {
	case p.sc.Ch() == '=':
		p.sc.Advance()
		p.skipSpaceNoComment()
		entry.Value = p.parseOptionValue()
	case p.sc.Ch() == '!':
		save := p.sc.Pos()
		p.sc.Advance()
		if p.sc.Ch() != '=' {
			p.fail(save, "!=", "expected '!=' in option")
		}
		p.sc.Advance()
		entry.Negated = true
		p.skipSpaceNoComment()
		entry.Value = p.parseOptionValue()
	default:
		entry.Bare = true
	}
	end := span.End
	if entry.Value != nil {
		end = entry.Value.End()
	}
	entry.SetSpan(token.Span{Start: span.Start, End: end})
	return entry
}

// parseOptionValue parses an option's right-hand side: an identifier or
// quoted-string atom, a (possibly lenient) range, or a nested `{ ... }`
// block (spec §3).
func (p *parser) parseOptionValue() ast.OptionValue {
	defer p.enter("option-value")()
	if p.sc.Ch() == '{' {
		return p.parseOptionBlock()
	}
	if p.sc.Ch() == '"' {
		text, span, ok := p.sc.ScanQuoted()
		if !ok {
			p.fail(span.End, `"`, "string literal not terminated")
		}
		atom := &ast.OptionAtom{Text: text, Quoted: true}
		atom.SetSpan(span)
		return atom
	}
	lenient := false
	start := p.sc.Pos()
	if p.sc.Ch() == '~' {
		lenient = true
		p.sc.Advance()
	}
	if !p.sc.CanStartIdent() && !p.sc.LooksLikeNumberStart() {
		p.fail(p.sc.Pos(), "value", "expected option value")
	}
	text, span := p.scanOptionToken()
	if p.sc.Ch() == '.' {
		// range, e.g. `a..b` / `~a..b`
		min := ast.RangeBound{Text: text, Inf: text == "inf"}
		p.skipDots()
		max := p.scanRangeBound()
		r := &ast.Range{Min: min, Max: max, Lenient: lenient}
		r.SetSpan(token.Span{Start: start, End: p.sc.Pos()})
		return r
	}
	atom := &ast.OptionAtom{Text: text}
	atom.SetSpan(span)
	return atom
}

func (p *parser) scanOptionToken() (string, token.Span) {
	if p.sc.LooksLikeNumberStart() {
		return p.sc.ScanNumber()
	}
	return p.sc.ScanIdent()
}

// parseOptionBlock parses a `{ ... }` option value: either a list of bare
// atoms or nested `key = value` assignments (spec §3; both shapes share
// [ast.OptionEntry], see ast.OptionBlock's doc comment).
func (p *parser) parseOptionBlock() *ast.OptionBlock {
	defer p.enter("option-block")()
	start := p.sc.Pos()
	p.sc.Advance() // '{'
	block := &ast.OptionBlock{}
	for {
		p.skipSpaceNoComment()
		if p.sc.Ch() == '}' {
			break
		}
		if p.sc.AtEOF() {
			p.fail(p.sc.Pos(), "}", "option block not terminated")
		}
		block.Entries = append(block.Entries, p.parseOptionEntry())
	}
	end := p.sc.Pos()
	p.sc.Advance()
	block.SetSpan(token.Span{Start: start, End: end.Add(1)})
	return block
}
