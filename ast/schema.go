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

import "strings"

// SimpleValueAtom is one of the schema dialect's built-in value-atom
// keywords (spec §3 "Values may be simple value atoms"), optionally
// followed by an inline `[min..max]` range.
type SimpleValueAtom struct {
	base
	Atom  string
	Range *Range
}

func (*SimpleValueAtom) valueNode() {}

// RangeBound is one endpoint of an inline range: either a decimal literal's
// raw text, or the `inf` keyword.
type RangeBound struct {
	Inf  bool
	Text string
}

// Range is the `[min..max]` (or `[min...max]`, equivalent per spec §4.2)
// inline range suffix on a schema value atom, and also the `a..b` /
// `~a..b` structured-comment option value (spec §3 "Structured comments").
// Lenient marks the `~`-prefixed spelling used in `cardinality`.
type Range struct {
	base
	Min, Max RangeBound
	Lenient  bool
}

func (*Range) valueNode() {}

// ComplexKey is a schema rule key of the form `prefix[scope:name]` or
// `prefix<name>suffix` (spec §3 "Rule keys may be complex identifiers").
// Negated records a leading `!`. A rule key that is just a plain
// identifier has Prefix == "" and Name holding the whole text.
type ComplexKey struct {
	Negated bool
	Prefix  string // e.g. "type", "subtype", "enum", ... (spec §6)
	Scope   string // the "scope:" part of prefix[scope:name], if present
	Name    string
	Suffix  string // the trailing text of prefix<name>suffix, if present
	Angle   bool   // true for the prefix<name>suffix spelling
}

// CommentOption is the parsed form of an Option-tier [CommentGroup]'s text:
// an ordered list of `key = value`, `key != value`, or bare-flag options
// (spec §3, enumerated keys in §3/§6, semantics in §4.2).
type CommentOption struct {
	base
	Entries []*OptionEntry
}

// OptionEntry is one parsed option: `key`, `key = value`, or `key != value`.
type OptionEntry struct {
	base
	Key     string
	Negated bool // `!=` form
	Bare    bool // bare flag, e.g. `required`
	Value   OptionValue
}

// OptionValue is implemented by the legal right-hand sides of an option
// assignment: an identifier/quoted-string atom, a range, or a nested block.
type OptionValue interface {
	Node
	optionValueNode()
}

func (*OptionAtom) optionValueNode()  {}
func (*Range) optionValueNode()       {}
func (*OptionBlock) optionValueNode() {}

// OptionAtom is a bare identifier or quoted string used as an option value,
// e.g. `severity = warning` or `display_name = "Civic"`.
type OptionAtom struct {
	base
	Text   string
	Quoted bool
}

// OptionBlock is a `{ … }` option value: either a list of bare atoms (e.g.
// `scope = { Country Planet }`, each recorded as a Bare [OptionEntry]) or
// nested `key = value` assignments (e.g. `replace_scope = { this = X root =
// Y }`), per spec §3. The two shapes share one representation; a caller
// distinguishes them by checking whether any Entry carries a Value.
type OptionBlock struct {
	base
	Entries []*OptionEntry
}

// DecomposeComplexKey splits the raw text of a schema rule key or
// reference value (as captured by the parser, e.g. "type[army]",
// "type[scope:army]", "type<Foo>Bar") into its prefix/scope/name/suffix
// parts (spec §3 "Rule keys may be complex identifiers of the form
// prefix[scope:name] or prefix<name>suffix"). A plain identifier with no
// bracket/angle form decomposes to Name == text, Prefix == "".
func DecomposeComplexKey(text string) ComplexKey {
	var ck ComplexKey
	if strings.HasPrefix(text, "!") {
		ck.Negated = true
		text = text[1:]
	}
	if i := strings.IndexByte(text, '['); i >= 0 {
		ck.Prefix = text[:i]
		rest := text[i+1:]
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			ck.Name = rest
			return ck
		}
		inner := rest[:end]
		if c := strings.IndexByte(inner, ':'); c >= 0 {
			ck.Scope = inner[:c]
			ck.Name = inner[c+1:]
		} else {
			ck.Name = inner
		}
		return ck
	}
	if i := strings.IndexByte(text, '<'); i >= 0 {
		ck.Prefix = text[:i]
		rest := text[i+1:]
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			ck.Name = rest
			return ck
		}
		ck.Name = rest[:end]
		ck.Suffix = rest[end+1:]
		ck.Angle = true
		return ck
	}
	ck.Name = text
	return ck
}
