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

// Package resolve implements the type resolver described in spec §4.3:
// walking [schema.ReferenceType] values to concrete types, unwrapping
// Comparable, expanding a Block's enum/alias patterns, and deduplicating
// unions — all keyed by [schema.Fingerprint] so repeated resolution of
// the same structural type is O(1) after the first pass.
//
// Grounded on original_source/lsp/src/handlers/cache/resolver.rs for the
// reference-kind dispatch table and the in-progress-fingerprint
// cycle-breaking rule; the cache/cycle-guard shape itself follows
// cuelang.org/go's general "evaluate once, memoise by identity" idiom
// used throughout internal/core for cyclic CUE values.
package resolve

import (
	"strconv"

	"github.com/cwtools/cwtools-go/gamedata"
	"github.com/cwtools/cwtools-go/intern"
	"github.com/cwtools/cwtools-go/schema"
	"github.com/cwtools/cwtools-go/scopedtype"
)

// Resolver walks [schema.Type] values to canonical form against a loaded
// [schema.Model] and a [gamedata.Source] (spec §4.3 "Public contract:
// resolve(ScopedType) -> ScopedType").
type Resolver struct {
	model *schema.Model
	data  gamedata.Source

	cache      map[schema.Fingerprint]schema.Type
	inProgress map[schema.Fingerprint]bool
}

// New builds a Resolver over model, consulting data for namespace key
// sets. A nil data defaults to [gamedata.Empty].
func New(model *schema.Model, data gamedata.Source) *Resolver {
	if data == nil {
		data = gamedata.Empty{}
	}
	return &Resolver{
		model:      model,
		data:       data,
		cache:      make(map[schema.Fingerprint]schema.Type),
		inProgress: make(map[schema.Fingerprint]bool),
	}
}

// Resolve returns st with its type walked to canonical form: references
// resolved where possible, Comparable unwrapped, and Block enum/alias
// patterns expanded (spec §4.3).
func (r *Resolver) Resolve(st scopedtype.ScopedType) scopedtype.ScopedType {
	resolved := r.resolveType(st.Type())
	return scopedtype.New(resolved, st.Scope(), st.Subtypes())
}

// ResolveType is the type-only entry point used by the navigator when it
// needs a canonical type without the surrounding scope context.
func (r *Resolver) ResolveType(t schema.Type) schema.Type { return r.resolveType(t) }

func (r *Resolver) resolveType(t schema.Type) schema.Type {
	fp := t.Fingerprint()
	if cached, ok := r.cache[fp]; ok {
		return cached
	}
	if r.inProgress[fp] {
		// Cycle: return the original, unresolved type (spec §4.3 "Cycle
		// handling").
		return t
	}
	r.inProgress[fp] = true
	result := r.resolveOnce(t)
	delete(r.inProgress, fp)
	r.cache[fp] = result
	return result
}

func (r *Resolver) resolveOnce(t schema.Type) schema.Type {
	switch v := t.(type) {
	case schema.ComparableType:
		return r.resolveType(v.Inner)
	case schema.ReferenceType:
		return r.resolveReference(v.Kind)
	case schema.UnionType:
		members := make([]schema.Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = r.resolveType(m)
		}
		return FlattenUnion(members)
	case schema.ArrayType:
		return schema.ArrayType{Element: r.resolveType(v.Element)}
	case *schema.BlockType:
		return r.expandBlock(v)
	default:
		return t
	}
}

// resolveReference implements the table in spec §4.3 "Reference
// resolution rules (by RefKind)".
func (r *Resolver) resolveReference(k schema.RefKind) schema.Type {
	unresolved := schema.ReferenceType{Kind: k}
	switch k.Tag {
	case schema.RefType:
		td, ok := r.model.Types[k.Key]
		if !ok {
			return unresolved
		}
		keys, ok := r.data.KeysOf(td.Path)
		if !ok {
			return unresolved
		}
		return schema.LiteralSetType{Values: keys}

	case schema.RefEnum, schema.RefComplexEnum:
		def, ok := r.model.Enums[k.Key]
		if !ok {
			def, ok = r.model.ComplexEnums[k.Key]
		}
		if !ok {
			return unresolved
		}
		return schema.LiteralSetType{Values: def.Values}

	case schema.RefValueSet:
		vs, ok := r.model.ValueSets[k.Key]
		if !ok {
			return unresolved
		}
		var all []intern.Sym
		for _, vals := range vs.Values {
			all = append(all, vals...)
		}
		return schema.LiteralSetType{Values: all}

	case schema.RefValue:
		keys, ok := r.data.KeysSetOf(intern.Resolve(k.Key))
		if !ok {
			return unresolved
		}
		return schema.LiteralSetType{Values: keys}

	case schema.RefAliasMatchLeft:
		return r.resolveAliasMatchLeft(k.Category)

	case schema.RefSingleAlias:
		sa, ok := r.model.SingleAliases[k.Key]
		if !ok {
			return unresolved
		}
		return r.resolveType(sa.Type)

	case schema.RefAliasKeysField:
		sa, ok := r.model.SingleAliases[k.Key]
		if !ok {
			return unresolved
		}
		return r.resolveType(sa.Type)

	case schema.RefSubtype:
		return schema.LiteralType{Value: intern.Intern("subtype:" + intern.Resolve(k.Key))}

	case schema.RefColour:
		return schema.SimpleType{Kind: schema.SimpleKind("colour")}
	case schema.RefIcon:
		return schema.SimpleType{Kind: schema.SimpleIcon}
	case schema.RefFilepath:
		return schema.SimpleType{Kind: schema.SimpleFilepath}
	case schema.RefStellarisNameFormat:
		return schema.SimpleType{Kind: schema.SimpleKind("stellaris_name_format")}
	case schema.RefScope:
		return schema.SimpleType{Kind: schema.SimpleScopeField}
	case schema.RefScopeGroup:
		return schema.SimpleType{Kind: schema.SimpleScopeField}

	case schema.RefAlias, schema.RefAliasName:
		// Not meaningful on the right-hand side (spec §4.3).
		return unresolved

	default:
		return unresolved
	}
}

// resolveAliasMatchLeft implements spec §4.3's "Union of the RHS types of
// every alias in category cat, deduplicated by fingerprint; single-element
// unions collapse; empty unions stay as the original reference."
func (r *Resolver) resolveAliasMatchLeft(category intern.Sym) schema.Type {
	var members []schema.Type
	for key, def := range r.model.Aliases {
		if key.Category != category {
			continue
		}
		members = append(members, r.resolveType(def.To))
	}
	if len(members) == 0 {
		return schema.ReferenceType{Kind: schema.RefKind{Tag: schema.RefAliasMatchLeft, Category: category}}
	}
	return FlattenUnion(members)
}

// expandBlock implements spec §4.3's "Pattern expansion in a Block": each
// enum_patterns / alias_patterns entry becomes synthetic Properties,
// merged in exactly once per block (memoised via [schema.BlockType.Expanded]).
func (r *Resolver) expandBlock(b *schema.BlockType) *schema.BlockType {
	if b.Expanded() {
		return b
	}
	for _, ep := range b.EnumPatterns {
		def, ok := r.model.Enums[ep.EnumKey]
		if !ok {
			def = r.model.ComplexEnums[ep.EnumKey]
		}
		if def == nil {
			continue
		}
		for _, v := range def.Values {
			if _, exists := b.Properties[v]; !exists {
				b.Properties[v] = schema.Property{Type: ep.ValueType}
			}
		}
	}
	for _, ap := range b.AliasPatterns {
		for key, def := range r.model.Aliases {
			if key.Category != ap.Category {
				continue
			}
			r.addAliasPatternProperty(b, def.Name, ap.ValueType)
		}
	}
	b.MarkExpanded()
	return b
}

func (r *Resolver) addAliasPatternProperty(b *schema.BlockType, name schema.AliasName, valueType schema.Type) {
	switch name.Kind {
	case schema.AliasNameStatic:
		if _, exists := b.Properties[name.Key]; !exists {
			b.Properties[name.Key] = schema.Property{Type: valueType}
		}
	case schema.AliasNameTypeRef:
		td, ok := r.model.Types[name.Key]
		if !ok {
			return
		}
		keys, ok := r.data.KeysOf(td.Path)
		if !ok {
			return
		}
		for _, k := range keys {
			if _, exists := b.Properties[k]; !exists {
				b.Properties[k] = schema.Property{Type: valueType}
			}
		}
	case schema.AliasNameEnum:
		def, ok := r.model.Enums[name.Key]
		if !ok {
			def, ok = r.model.ComplexEnums[name.Key]
		}
		if !ok {
			return
		}
		for _, v := range def.Values {
			if _, exists := b.Properties[v]; !exists {
				b.Properties[v] = schema.Property{Type: valueType}
			}
		}
	}
}

// MatchesInt reports whether text parses as an integer, for the
// navigator's "declares int, keys parsable as integers match" wildcard
// (spec §4.4 step 5).
func MatchesInt(text string) bool {
	_, err := strconv.Atoi(text)
	return err == nil
}
