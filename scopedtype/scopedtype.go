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

// Package scopedtype holds the navigator and resolver's result value: a
// schema [schema.Type] paired with the scope stack and active subtype set
// it carries at a particular point in a document (spec §3 "Scoped type").
//
// cuelang.org/go has no analogue — CUE values don't carry a parallel
// dynamic-scope stack — so this is grounded on
// original_source/lsp/src/handlers/scoped_type.rs, expressed with the same
// "immutable, builder-constructed" discipline the teacher's schema package
// uses for its own Type variants.
package scopedtype

import (
	"sort"
	"strings"

	"github.com/cwtools/cwtools-go/intern"
	"github.com/cwtools/cwtools-go/schema"
	"github.com/cwtools/cwtools-go/scope"
)

// ScopedType pairs a resolved [schema.Type] with the scope stack and
// active subtype set in effect where it was found (spec §3 "Scoped type.
// Fields: type, scope, subtypes, in_scripted_effect"). The zero value is
// not meaningful; construct with [New].
//
// Immutable once produced: every field is either a value type or a
// pointer this package never hands out for mutation (scope.Stack is
// cloned on entry, Subtypes is copied on entry).
type ScopedType struct {
	typ               schema.Type
	scope             *scope.Stack
	subtypes          map[intern.Sym]bool
	inScriptedEffect  intern.Sym // 0 if unset
}

// New builds a ScopedType, cloning s so the caller's stack is never
// shared mutably across queries (spec §3 invariant "scope never shared
// mutably across queries").
func New(t schema.Type, s *scope.Stack, subtypes []intern.Sym) ScopedType {
	set := make(map[intern.Sym]bool, len(subtypes))
	for _, sym := range subtypes {
		set[sym] = true
	}
	var cloned *scope.Stack
	if s != nil {
		cloned = s.Clone()
	}
	return ScopedType{typ: t, scope: cloned, subtypes: set}
}

// WithScriptedEffect returns a copy of st with in_scripted_effect set to
// sym (spec §3 "in_scripted_effect: Option<Sym>").
func (st ScopedType) WithScriptedEffect(sym intern.Sym) ScopedType {
	st.inScriptedEffect = sym
	return st
}

// Type returns the wrapped schema type.
func (st ScopedType) Type() schema.Type { return st.typ }

// Scope returns the scope stack in effect, or nil if none was set.
func (st ScopedType) Scope() *scope.Stack { return st.scope }

// HasSubtype reports whether sym is one of the active subtypes (spec §3
// invariant "subtypes are a subset of the current block's declared
// subtypes" — enforcement of the subset relationship itself is the
// resolver's responsibility when it builds a ScopedType from a BlockType).
func (st ScopedType) HasSubtype(sym intern.Sym) bool { return st.subtypes[sym] }

// Subtypes returns the active subtype set as a sorted slice.
func (st ScopedType) Subtypes() []intern.Sym {
	out := make([]intern.Sym, 0, len(st.subtypes))
	for sym := range st.subtypes {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return intern.Resolve(out[i]) < intern.Resolve(out[j]) })
	return out
}

// InScriptedEffect returns the scripted-effect argument name in scope, if
// any.
func (st ScopedType) InScriptedEffect() (intern.Sym, bool) {
	return st.inScriptedEffect, st.inScriptedEffect != 0
}

// Fingerprint extends the wrapped type's structural fingerprint with the
// scope stack's own fingerprint and the sorted subtype set, so that two
// ScopedTypes compare equal only when their full contextual state matches
// (spec §3 "Fingerprint ... ScopedType fingerprints include the scope
// stack's fingerprint and sorted subtype names").
func (st ScopedType) Fingerprint() schema.Fingerprint {
	var b strings.Builder
	b.WriteString(st.typ.Fingerprint().String())
	b.WriteString("|scope:")
	if st.scope != nil {
		for _, name := range st.scope.AvailableNames() {
			if sym, ok := st.scope.GetByName(name); ok {
				b.WriteString(name + "=" + intern.Resolve(sym) + ",")
			}
		}
	}
	b.WriteString("|subtypes:")
	for i, sym := range st.Subtypes() {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(intern.Resolve(sym))
	}
	if sym, ok := st.InScriptedEffect(); ok {
		b.WriteString("|effect:" + intern.Resolve(sym))
	}
	return schema.Fingerprint(b.String())
}

// ScopedUnion is the navigator's result when more than one candidate
// matches a lookup, each carrying its own scope stack (spec §3 "type:
// Type | ScopedUnion(list<ScopedType>)", §4.4 "Result combination ...
// Many → ScopedUnion preserving each candidate's scope stack").
type ScopedUnion struct {
	Candidates []ScopedType
}

// NewScopedUnion collects candidates into a ScopedUnion, deduplicating by
// fingerprint so that re-running navigation against an already-expanded
// block doesn't produce duplicate candidates.
func NewScopedUnion(candidates []ScopedType) ScopedUnion {
	seen := make(map[schema.Fingerprint]bool, len(candidates))
	out := make([]ScopedType, 0, len(candidates))
	for _, c := range candidates {
		fp := c.Fingerprint()
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out = append(out, c)
	}
	return ScopedUnion{Candidates: out}
}
