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

package schema

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/cwtools/cwtools-go/intern"
)

// Severity is the diagnostic level a rule or subtype carries (spec §4.2
// "severity (error|warning|information|hint)").
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Cardinality bounds how many times a property may occur (spec §3
// "RuleOptions: cardinality {min, max, soft}").
type Cardinality struct {
	Min, Max int
	// MaxInf marks an unbounded maximum (`cardinality = 0..inf`).
	MaxInf bool
	// Soft marks the lenient `~a..b` spelling: a validator warning instead
	// of an error on violation.
	Soft bool
}

// ParseDecimal parses a schema Number literal's raw text (spec §3
// `[+-]?\d+(\.\d+)?`) into an exact decimal, used for the inline
// `[min..max]` range on int/float value atoms (spec §3/§4.2) where
// float64 rounding would let two distinct bounds compare equal.
func ParseDecimal(text string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(text)
	return d, err
}

// DecimalRange is the inline `[min..max]` (or `[min...max]`) bound
// attached to an int/float [SimpleType] (spec §3 "optionally with an
// inline range [min..max] where bounds are numbers or inf").
type DecimalRange struct {
	Min, Max *apd.Decimal // nil Min means unbounded below
	MaxInf   bool         // true when Max is `inf`; Max is then nil
}

// TypeKeyFilterKind discriminates [TypeKeyFilter]'s variants (spec §4.2
// "type_key_filter = x | { x y } | !x → Specific | OneOf | Not").
type TypeKeyFilterKind int

const (
	FilterSpecific TypeKeyFilterKind = iota
	FilterOneOf
	FilterNot
)

// TypeKeyFilter constrains which subtype-discriminating key a rule applies
// under.
type TypeKeyFilter struct {
	Kind   TypeKeyFilterKind
	Keys   []intern.Sym // OneOf (len > 1), Specific/Not (len == 1)
}

// RuleOptions is the structured-comment-derived option set attached to a
// Property or PatternProperty (spec §3 "RuleOptions", §4.2 "Rule
// options").
type RuleOptions struct {
	Cardinality   *Cardinality
	PushScope     intern.Sym // 0 if unset
	ReplaceScope  map[string]intern.Sym
	ScopeConstraint []intern.Sym // the `scope = { X Y }` constraint set
	Severity      Severity
	StartsWith    string
	TypeKeyFilter *TypeKeyFilter
	GraphRelatedTypes []intern.Sym
	Required      bool
	Primary       bool
	Optional      bool
}

// Property is a named rule's converted type and options (spec §3
// "Property { type, options, doc? }").
type Property struct {
	Type    Type
	Options RuleOptions
	Doc     string
}

// PatternKind discriminates [PatternProperty]'s pattern_type (spec §3
// "PatternProperty { pattern_type ∈ {Enum(key), Alias(category),
// AliasName(category), TypeRef(key), Scalar, Int}, ... }").
type PatternKind int

const (
	PatternEnum PatternKind = iota
	PatternAlias
	PatternAliasName
	PatternTypeRef
	PatternScalar
	PatternInt
)

// PatternProperty is a rule whose key is itself a reference pattern
// (enum/alias/typeref) rather than a fixed name (spec §3).
type PatternProperty struct {
	Kind    PatternKind
	Key     intern.Sym // the enum/alias-category/type key, when applicable
	ValueType Type
	Options RuleOptions
}

// Subtype is a conditional refinement of a [BlockType] (spec §3 "Subtype
// { condition_properties, allowed_properties, allowed_pattern_properties,
// options, inverted? }").
type Subtype struct {
	ConditionProperties    map[intern.Sym]Property
	AllowedProperties      map[intern.Sym]Property
	AllowedPatternProperties []PatternProperty
	Options                SubtypeOptions
	Inverted               bool
}

// SubtypeOptions holds the display metadata a subtype's comments may carry
// (spec §4.2 "display_name, abbreviation on subtypes").
type SubtypeOptions struct {
	DisplayName  string
	Abbreviation string
}

// BlockType is a composite (`{ ... }`) schema type: fixed properties plus
// pattern properties, with lazily-expanded enum/alias pattern entries
// (spec §3 "BlockType", invariant "enum_patterns/alias_patterns are
// expanded lazily ... the first time that block is resolved").
type BlockType struct {
	Properties        map[intern.Sym]Property
	PatternProperties []PatternProperty
	EnumPatterns      []EnumPatternEntry
	AliasPatterns     []AliasPatternEntry
	Subtypes          map[intern.Sym]Subtype

	expanded bool // set once EnumPatterns/AliasPatterns have been folded into Properties
}

// EnumPatternEntry is one `enum_patterns` member: every value of the named
// enum becomes a synthetic property with ValueType (spec §3 invariant).
type EnumPatternEntry struct {
	EnumKey   intern.Sym
	ValueType Type
}

// AliasPatternEntry is one `alias_patterns` member: every alias under the
// named category becomes a synthetic property (spec §3 invariant).
type AliasPatternEntry struct {
	Category  intern.Sym
	ValueType Type
}

// Expanded reports whether this block's enum/alias patterns have already
// been folded into Properties (spec §3 invariant "the expansion is
// idempotent"); the resolver checks this before doing the expansion work.
func (b *BlockType) Expanded() bool { return b.expanded }

// MarkExpanded records that pattern expansion has been performed. Callers
// (the resolver) must have already merged the synthetic properties into
// b.Properties before calling this.
func (b *BlockType) MarkExpanded() { b.expanded = true }

// SkipRootKeyKind discriminates [SkipRootKey]'s variants (spec §4.2
// "skip_root_key combination").
type SkipRootKeyKind int

const (
	SkipRootKeyNone SkipRootKeyKind = iota
	SkipRootKeyAny
	SkipRootKeySpecific
	SkipRootKeyExcept
	SkipRootKeyMultiple
)

// SkipRootKey is the combined result of every `skip_root_key` occurrence
// on a type (spec §4.2 "skip_root_key combination").
type SkipRootKey struct {
	Kind SkipRootKeyKind
	Keys []intern.Sym // Specific (len 1), Except/Multiple (len >= 1)
}

// LocRequirement is one localisation key's requirement (spec §4.2
// "Localisation. Each key maps to a pattern string; option flags
// required/primary/optional set boolean fields").
type LocRequirement struct {
	Pattern  string
	Required bool
	Primary  bool
	Optional bool
	// PerSubtype holds subtype-specific overrides contributed by a nested
	// `subtype[Y] = { ... }` rule inside the localisation block.
	PerSubtype map[intern.Sym]LocRequirement
}

// Modifiers is a type's modifier-key-to-scope map, with optional
// per-subtype overrides (spec §4.2 "Modifiers").
type Modifiers struct {
	Base       map[intern.Sym]intern.Sym
	PerSubtype map[intern.Sym]map[intern.Sym]intern.Sym
}

// TypeOptions holds a TypeDefinition's own comment-derived metadata, as
// distinct from the RuleOptions attached to the rule that names it (spec
// §3 "options: TypeOptions").
type TypeOptions struct {
	Severity Severity
}

// TypeDefinition is a named `type[X] = { ... }` schema entity (spec §3
// "TypeDefinition").
type TypeDefinition struct {
	Name          intern.Sym
	Path          string
	NameField     string
	SkipRootKey   SkipRootKey
	Unique        bool
	TypePerFile   bool
	PathStrict    bool
	PathFile      string
	PathExtension string
	StartsWith    string
	Severity      Severity

	Subtypes     map[intern.Sym]Subtype
	Localisation map[intern.Sym]LocRequirement
	Modifiers    Modifiers

	Rules       Type
	Options     TypeOptions
	RuleOptions RuleOptions
}

// EnumDef is a named closed set of values (spec §3 "EnumDef { name,
// values: set<Sym> }").
type EnumDef struct {
	Name   intern.Sym
	Values []intern.Sym
}

// ValueSet is a named set of sets: `value_set[X] = { key = { a b } }`
// (spec §3 "ValueSet (map Sym -> set<Sym>)").
type ValueSet struct {
	Name   intern.Sym
	Values map[intern.Sym][]intern.Sym
}

// AliasNameKind discriminates [AliasName] (spec §3 "AliasName: Static(Sym)
// | TypeRef(Sym) | Enum(Sym)").
type AliasNameKind int

const (
	AliasNameStatic AliasNameKind = iota
	AliasNameTypeRef
	AliasNameEnum
)

// AliasName is the name half of an alias's (category, name) key (spec §3;
// §4.2 "For alias[cat:name], the name is classified into Static, TypeRef,
// or Enum").
type AliasName struct {
	Kind AliasNameKind
	Key  intern.Sym // the static name, or the referenced type/enum key
}

// AliasDef is a named `alias[category:name] = type` schema entity (spec §3
// "AliasDef { key: (category, AliasName), to: Type, options }").
type AliasDef struct {
	Category intern.Sym
	Name     AliasName
	To       Type
	Options  RuleOptions
}

// LinkDef is a named `link[X] = { ... }` schema entity describing a
// cross-entity reference's scope transition (spec §3 "LinkDef { name,
// input_scope, output_scope, usable_from }").
type LinkDef struct {
	Name        intern.Sym
	InputScope  intern.Sym
	OutputScope intern.Sym
	UsableFrom  []intern.Sym
}

// SingleAliasDef is a named, block-typed rule reusable by reference (spec
// §3 "SingleAliasDef is a block-typed named rule").
type SingleAliasDef struct {
	Name intern.Sym
	Type Type
}

// ScopeDef is a named entry in the `scopes = { ... }` block: a scope-type
// name, optionally with a display alias (spec §6 "scope" prefix).
type ScopeDef struct {
	Name intern.Sym
}

// ScopeGroupDef is a named `scope_group[X] = { A B }` set of scope-type
// alternatives (spec §6 "scope_group" prefix).
type ScopeGroupDef struct {
	Name    intern.Sym
	Members []intern.Sym
}

// Model is the write-once schema model the loader produces (spec §2
// "Schema model: Typed representation of the schema AST"). All maps are
// keyed by the entity's interned name.
type Model struct {
	Types        map[intern.Sym]*TypeDefinition
	Enums        map[intern.Sym]*EnumDef
	ComplexEnums map[intern.Sym]*EnumDef
	ValueSets    map[intern.Sym]*ValueSet
	Aliases      map[aliasKey]*AliasDef
	SingleAliases map[intern.Sym]*SingleAliasDef
	Links        map[intern.Sym]*LinkDef
	Scopes       map[intern.Sym]*ScopeDef
	ScopeGroups  map[intern.Sym]*ScopeGroupDef
}

// aliasKey is the (category, name) composite key an AliasDef is stored
// under, mirroring spec §3's "key: (category, AliasName)".
type aliasKey struct {
	Category intern.Sym
	Name     intern.Sym // the Static/TypeRef/Enum key component of AliasName
}

// NewModel returns an empty, ready-to-populate Model.
func NewModel() *Model {
	return &Model{
		Types:         make(map[intern.Sym]*TypeDefinition),
		Enums:         make(map[intern.Sym]*EnumDef),
		ComplexEnums:  make(map[intern.Sym]*EnumDef),
		ValueSets:     make(map[intern.Sym]*ValueSet),
		Aliases:       make(map[aliasKey]*AliasDef),
		SingleAliases: make(map[intern.Sym]*SingleAliasDef),
		Links:         make(map[intern.Sym]*LinkDef),
		Scopes:        make(map[intern.Sym]*ScopeDef),
		ScopeGroups:   make(map[intern.Sym]*ScopeGroupDef),
	}
}

// LookupAlias finds an AliasDef by (category, name-key), the same
// composite key the loader stores aliases under.
func (m *Model) LookupAlias(category, nameKey intern.Sym) (*AliasDef, bool) {
	d, ok := m.Aliases[aliasKey{Category: category, Name: nameKey}]
	return d, ok
}

// addAlias stores def under its own (category, name) key.
func (m *Model) addAlias(def *AliasDef) {
	m.Aliases[aliasKey{Category: def.Category, Name: def.Name.Key}] = def
}
