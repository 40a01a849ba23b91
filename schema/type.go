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

// Package schema holds the typed schema model described in spec §3
// "Schema model entities" and §4.2 "Schema loader": the Type tagged union,
// the named entities the loader populates (TypeDefinition, EnumDef,
// AliasDef, LinkDef, ...), and the loader itself.
//
// cuelang.org/go has no real counterpart to a game-data schema model; the
// nearest teacher analogue is cue/ast's closed set of expression node
// types each implementing an unexported marker method, which this package
// reuses for the Type tagged union (spec §3 "Type (tagged union):
// Unknown | Any | Simple | Literal | ... | Reference").
package schema

import (
	"sort"

	"github.com/cwtools/cwtools-go/intern"
)

// Type is implemented by every member of the schema type tagged union
// (spec §3). Values are immutable after construction (spec §3 invariant
// "Each Type value is immutable after construction").
type Type interface {
	typeNode()
	// Fingerprint returns a deterministic digest of this type's structure,
	// used for resolver cache keys, union deduplication, and cycle
	// breaking (spec §4.3 "deduplicating via stable type fingerprints").
	Fingerprint() Fingerprint
}

func (UnknownType) typeNode()    {}
func (AnyType) typeNode()        {}
func (SimpleType) typeNode()     {}
func (LiteralType) typeNode()    {}
func (LiteralSetType) typeNode() {}
func (*BlockType) typeNode()     {}
func (ArrayType) typeNode()      {}
func (UnionType) typeNode()      {}
func (ComparableType) typeNode() {}
func (ReferenceType) typeNode()  {}

// UnknownType is the bottom/placeholder type produced when a reference
// cannot be resolved (spec §3 Type variant `Unknown`).
type UnknownType struct{}

// AnyType matches anything (spec §3 Type variant `Any`).
type AnyType struct{}

// SimpleKind enumerates the schema dialect's built-in value-atom kinds
// (spec §3 "simple value atoms").
type SimpleKind string

const (
	SimpleBool               SimpleKind = "bool"
	SimpleInt                SimpleKind = "int"
	SimpleFloat              SimpleKind = "float"
	SimpleScalar             SimpleKind = "scalar"
	SimplePercentageField    SimpleKind = "percentage_field"
	SimpleLocalisation       SimpleKind = "localisation"
	SimpleLocalisationSynced SimpleKind = "localisation_synced"
	SimpleLocalisationInline SimpleKind = "localisation_inline"
	SimpleDateField          SimpleKind = "date_field"
	SimpleVariableField      SimpleKind = "variable_field"
	SimpleIntVariableField   SimpleKind = "int_variable_field"
	SimpleValueField         SimpleKind = "value_field"
	SimpleIntValueField      SimpleKind = "int_value_field"
	SimpleScopeField         SimpleKind = "scope_field"
	SimpleFilepath           SimpleKind = "filepath"
	SimpleIcon               SimpleKind = "icon"
)

// SimpleType is a simple value atom, optionally range-constrained (spec §3
// Type variant `Simple(SimpleKind)`). Range carries the inline `[min..max]`
// suffix on int/float atoms, if any; numeric bounds checking itself stays a
// validator concern, outside this module's scope.
type SimpleType struct {
	Kind  SimpleKind
	Range *DecimalRange
}

// LiteralType is a single fixed string value (spec §3 `Literal(Sym)`).
type LiteralType struct {
	Value intern.Sym
}

// LiteralSetType is a closed set of fixed string values, e.g. an inline
// enum (spec §3 `LiteralSet(set<Sym>)`).
type LiteralSetType struct {
	Values []intern.Sym
}

// ArrayType is a homogeneous list (spec §3 `Array(element)`).
type ArrayType struct {
	Element Type
}

// UnionType is an ordered, deduplicated alternation (spec §3
// `Union(list)`). The resolver package builds these via its own
// fingerprint-sorted [resolve.FlattenUnion]/[resolve.Dedupe] pair, which
// is the canonical, mpvl/unique-backed dedup this module uses at resolve
// time (spec §4.3 "deduplicating via stable type fingerprints").
type UnionType struct {
	Members []Type
}

// collapseElementUnion folds a schema entity's bare array items into a
// single element Type for [loader.typeOfEntity]'s inline-enum-shorthand
// case, deduplicating structurally-equal members by fingerprint. This is
// a load-time convenience over literal schema text, not the resolver's
// runtime union canonicalization, so it stays a small sort-based helper
// here rather than reaching into package resolve (which already imports
// this package, so the reverse import isn't possible).
func collapseElementUnion(members []Type) Type {
	if len(members) == 0 {
		return UnknownType{}
	}
	type entry struct {
		fp Fingerprint
		t  Type
	}
	entries := make([]entry, len(members))
	for i, m := range members {
		entries[i] = entry{fp: m.Fingerprint(), t: m}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].fp.String() < entries[j].fp.String() })
	out := entries[:0:0]
	var last Fingerprint
	haveLast := false
	for _, e := range entries {
		if haveLast && e.fp == last {
			continue
		}
		out = append(out, e)
		last, haveLast = e.fp, true
	}
	if len(out) == 1 {
		return out[0].t
	}
	result := make([]Type, len(out))
	for i, e := range out {
		result[i] = e.t
	}
	return UnionType{Members: result}
}

// ComparableType unwraps to Inner during resolution (spec §3
// `Comparable(inner)`, §4.3 "Comparable(T) has been unwrapped to T").
type ComparableType struct {
	Inner Type
}

// RefKindTag discriminates [RefKind]'s variants (spec §3 "RefKind:
// Type(key), Enum(key), ...").
type RefKindTag int

const (
	RefType RefKindTag = iota
	RefEnum
	RefValue
	RefValueSet
	RefScope
	RefScopeGroup
	RefAlias
	RefAliasName
	RefAliasMatchLeft
	RefSingleAlias
	RefAliasKeysField
	RefComplexEnum
	RefColour
	RefIcon
	RefFilepath
	RefStellarisNameFormat
	RefSubtype
	RefTypeRefWithPrefixSuffix
)

// RefKind is an unresolved reference to another schema entity (spec §3
// "Reference(RefKind)").
type RefKind struct {
	Tag RefKindTag

	Key      intern.Sym // Type/Enum/Value/ValueSet/Scope/ScopeGroup/SingleAlias/AliasKeysField/ComplexEnum/StellarisNameFormat/Subtype
	Category intern.Sym // Alias/AliasName/AliasMatchLeft: the alias category
	Name     intern.Sym // Alias: the alias name half of (category, name)
	Format   string      // Colour: format (rgb/hsv/hex)
	Path     string      // Icon/Filepath: the configured path root

	Prefix *string // TypeRefWithPrefixSuffix
	Suffix *string
}

// ReferenceType is a Type wrapping a RefKind (spec §3 `Reference(RefKind)`).
type ReferenceType struct {
	Kind RefKind
}
