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

package ast

import (
	"github.com/cwtools/cwtools-go/intern"
	"github.com/cwtools/cwtools-go/token"
)

// Value is implemented by every node that can occupy a value position: the
// right-hand side of an [Expression], or a bare array element inside a
// [Module]/[Entity]/[ConditionalBlock]'s Items (spec §3 "Script AST").
type Value interface {
	Node
	valueNode()
}

func (*StringLit) valueNode() {}
func (*NumberLit) valueNode() {}
func (*BoolLit) valueNode()   {}
func (*Entity) valueNode()    {}
func (*ColorLit) valueNode()  {}
func (*MathsLit) valueNode()  {}

// StringLit is a quoted or unquoted string value.
type StringLit struct {
	base
	Value  intern.Sym
	Quoted bool
}

// NumberLit is a decimal literal, stored as the raw source text (spec §3:
// `[+-]?\d+(\.\d+)?`); callers that need arithmetic parse it with
// github.com/cockroachdb/apd/v3, see schema/model.ParseDecimal.
type NumberLit struct {
	base
	Text string
}

// BoolLit is the `yes`/`no` (or `true`/`false`) boolean literal.
type BoolLit struct {
	base
	Value bool
}

// ColorKind distinguishes the two colour literal forms.
type ColorKind int

const (
	RGB ColorKind = iota
	HSV
)

// ColorLit is a `rgb { a b c d? }` or `hsv { a b c d? }` literal. Components
// are kept as raw number text; D is empty and HasD is false when the
// literal has three components.
type ColorLit struct {
	base
	Kind       ColorKind
	A, B, C, D string
	HasD       bool
}

// MathsLit is the opaque contents of an `@[ ... ]` or `@\[ ... ]` inline
// maths expression; the dialect's arithmetic semantics are not evaluated by
// this module (spec §1 Non-goals).
type MathsLit struct {
	base
	Text   string
	Escaped bool // true for the `@\[...]` spelling
}

// Expression is a `key op value` item (spec §3). It is also the element
// type stored in a [Properties] multimap entry, so that each occurrence of
// a repeated key keeps its own span and operator.
type Expression struct {
	base
	KeySpan   token.Span
	Key       intern.Sym
	KeyQuoted bool
	Operator  token.Token
	Value     Value
}

// Properties is the order-preserving `Sym -> list of (operator, value)`
// multimap described in spec §3. Ordering is preserved both across distinct
// keys and across repeated occurrences of the same key (spec §8 scenario 4).
type Properties struct {
	order   []intern.Sym
	seen    map[intern.Sym]bool
	entries map[intern.Sym][]*Expression
}

// NewProperties returns an empty Properties multimap.
func NewProperties() *Properties {
	return &Properties{
		seen:    make(map[intern.Sym]bool),
		entries: make(map[intern.Sym][]*Expression),
	}
}

// Add appends expr under its key, preserving insertion order.
func (p *Properties) Add(expr *Expression) {
	if !p.seen[expr.Key] {
		p.seen[expr.Key] = true
		p.order = append(p.order, expr.Key)
	}
	p.entries[expr.Key] = append(p.entries[expr.Key], expr)
}

// Keys returns the distinct keys in first-occurrence order.
func (p *Properties) Keys() []intern.Sym {
	if p == nil {
		return nil
	}
	return p.order
}

// Get returns every occurrence recorded for key, in source order.
func (p *Properties) Get(key intern.Sym) []*Expression {
	if p == nil {
		return nil
	}
	return p.entries[key]
}

// Len reports the number of distinct keys.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// Module is the top level of a parsed document: a sequence of items
// separated by whitespace/comments (spec §3 "a module is a top-level
// entity").
type Module struct {
	base
	Filename   string
	Properties *Properties
	Items      []Value
}

// Entity is a `{ ... }` block: the script dialect's only composite value,
// doubling as object and array depending on whether its items are
// key-values or bare values (spec §3).
type Entity struct {
	base
	Properties   *Properties
	Items        []Value
	Conditionals []*ConditionalBlock
}

// ConditionalBlock is a `[[!?KEY] …items… ]` script-only construct (spec
// §3, §4.1). Nesting a ConditionalBlock directly inside another is not
// supported; see SPEC_FULL.md "Open Questions — Decisions" #2.
type ConditionalBlock struct {
	base
	Negated    bool
	Key        intern.Sym
	Properties *Properties
	Items      []Value
}
