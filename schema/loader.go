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
	"fmt"
	"strconv"
	"strings"

	"github.com/cwtools/cwtools-go/ast"
	"github.com/cwtools/cwtools-go/errors"
	"github.com/cwtools/cwtools-go/intern"
	"github.com/cwtools/cwtools-go/parser"
	"github.com/cwtools/cwtools-go/token"
)

// Load walks a parsed schema module and produces a [Model] (spec §4.2
// "Walks the schema AST and produces the schema model"). Errors
// encountered along the way never abort the walk; they accumulate on the
// returned list (spec §4.2 "loading never aborts early", §7
// "SchemaConversionError ... non-fatal").
//
// Grounded on original_source/cw_model/src/types/cwt/visitors/type_visitor.rs:
// a top-level `types = { type[X] = { ... } }` wrapper block whose nested
// complex keys populate the model, generalized here to the sibling
// wrapper blocks (enums, links, scopes, scope_groups) spec §3 names.
func Load(mod *ast.Module) (*Model, errors.List) {
	l := &loader{model: NewModel()}
	for _, key := range mod.Properties.Keys() {
		for _, expr := range mod.Properties.Get(key) {
			l.topLevel(intern.Resolve(key), expr)
		}
	}
	return l.model, l.errs
}

type loader struct {
	model *Model
	errs  errors.List
}

func (l *loader) errf(pos int, format string, args ...interface{}) {
	_ = pos
	l.errs.Add(&errors.SchemaConversionError{Msg: fmt.Sprintf(format, args...)})
}

func (l *loader) topLevel(keyText string, expr *ast.Expression) {
	switch keyText {
	case "types":
		l.loadWrapperBlock(expr, l.loadTypeEntry)
	case "enums":
		l.loadWrapperBlock(expr, l.loadEnumEntry)
	case "links":
		l.loadWrapperBlock(expr, l.loadLinkEntry)
	case "scopes":
		l.loadWrapperBlock(expr, l.loadScopeEntry)
	case "scope_groups":
		l.loadWrapperBlock(expr, l.loadScopeGroupEntry)
	default:
		// Tolerate complex keys appearing unwrapped at module top level.
		l.dispatchComplexKey(keyText, expr)
	}
}

func (l *loader) loadWrapperBlock(expr *ast.Expression, f func(keyText string, inner *ast.Expression)) {
	ent, ok := expr.Value.(*ast.Entity)
	if !ok {
		l.errf(0, "expected block value for %q", intern.Resolve(expr.Key))
		return
	}
	for _, key := range ent.Properties.Keys() {
		for _, inner := range ent.Properties.Get(key) {
			f(intern.Resolve(key), inner)
		}
	}
}

func (l *loader) dispatchComplexKey(keyText string, expr *ast.Expression) {
	ck := ast.DecomposeComplexKey(keyText)
	switch ck.Prefix {
	case "type":
		l.loadTypeEntry(keyText, expr)
	case "enum", "complex_enum":
		l.loadEnumEntry(keyText, expr)
	case "value_set":
		l.loadValueSetEntry(keyText, expr)
	case "alias", "alias_name", "alias_match_left":
		l.loadAliasEntry(keyText, expr)
	case "single_alias", "single_alias_right":
		l.loadSingleAliasEntry(keyText, expr)
	case "scope_group":
		l.loadScopeGroupEntry(keyText, expr)
	case "scope":
		l.loadScopeEntry(keyText, expr)
	}
}

// --- types -----------------------------------------------------------

func (l *loader) loadTypeEntry(keyText string, expr *ast.Expression) {
	ck := ast.DecomposeComplexKey(keyText)
	if ck.Prefix != "type" {
		return
	}
	ent, ok := expr.Value.(*ast.Entity)
	if !ok {
		l.errf(0, "type[%s]: expected block value", ck.Name)
		return
	}
	td := &TypeDefinition{
		Name:         intern.Intern(ck.Name),
		Subtypes:     make(map[intern.Sym]Subtype),
		Localisation: make(map[intern.Sym]LocRequirement),
		Modifiers:    Modifiers{Base: make(map[intern.Sym]intern.Sym), PerSubtype: make(map[intern.Sym]map[intern.Sym]intern.Sym)},
	}

	var skipRootOccurrences []skipRootOccurrence
	var ruleProps []*ast.Expression

	for _, key := range ent.Properties.Keys() {
		keyText := intern.Resolve(key)
		for _, inner := range ent.Properties.Get(key) {
			switch keyText {
			case "path":
				td.Path = l.stringValue(inner.Value)
			case "name_field":
				td.NameField = l.stringValue(inner.Value)
			case "unique":
				td.Unique = l.boolValue(inner.Value)
			case "type_per_file":
				td.TypePerFile = l.boolValue(inner.Value)
			case "path_strict":
				td.PathStrict = l.boolValue(inner.Value)
			case "path_file":
				td.PathFile = l.stringValue(inner.Value)
			case "path_extension":
				td.PathExtension = l.stringValue(inner.Value)
			case "starts_with":
				td.StartsWith = l.stringValue(inner.Value)
			case "severity":
				td.Severity = parseSeverity(l.stringValue(inner.Value))
			case "localisation":
				l.loadLocalisation(inner.Value, td.Localisation)
			case "modifiers":
				l.loadModifiers(inner.Value, &td.Modifiers)
			case "skip_root_key":
				skipRootOccurrences = append(skipRootOccurrences, skipRootOccurrence{
					negated: inner.Operator == token.NOT_EQ,
					value:   inner.Value,
				})
			default:
				innerCK := ast.DecomposeComplexKey(keyText)
				if innerCK.Prefix == "subtype" {
					td.Subtypes[intern.Intern(innerCK.Name)] = l.loadSubtype(inner)
				} else {
					ruleProps = append(ruleProps, inner)
				}
			}
		}
	}

	td.SkipRootKey = combineSkipRootKey(skipRootOccurrences)
	td.RuleOptions = l.optionsFor(expr)
	td.Rules = l.blockFromExpressions(ent, ruleProps)

	l.model.Types[td.Name] = td
}

type skipRootOccurrence struct {
	negated bool
	value   ast.Value
}

// combineSkipRootKey implements spec §4.2's skip_root_key combination
// rule: "If any is = any, result is Any. Otherwise, if any uses !=,
// result is Except(union of != values). Otherwise, if any value is a
// block, result is Multiple(values). Otherwise one specific key ->
// Specific; more than one -> Multiple."
func combineSkipRootKey(occ []skipRootOccurrence) SkipRootKey {
	if len(occ) == 0 {
		return SkipRootKey{Kind: SkipRootKeyNone}
	}
	for _, o := range occ {
		if s, ok := o.value.(*ast.StringLit); ok && !o.negated && strings.EqualFold(intern.Resolve(s.Value), "any") {
			return SkipRootKey{Kind: SkipRootKeyAny}
		}
	}
	var negatedKeys []intern.Sym
	anyNegated := false
	for _, o := range occ {
		if o.negated {
			anyNegated = true
			negatedKeys = append(negatedKeys, valueKeys(o.value)...)
		}
	}
	if anyNegated {
		return SkipRootKey{Kind: SkipRootKeyExcept, Keys: negatedKeys}
	}
	anyBlock := false
	var keys []intern.Sym
	for _, o := range occ {
		if _, ok := o.value.(*ast.Entity); ok {
			anyBlock = true
		}
		keys = append(keys, valueKeys(o.value)...)
	}
	if anyBlock || len(keys) > 1 {
		return SkipRootKey{Kind: SkipRootKeyMultiple, Keys: keys}
	}
	return SkipRootKey{Kind: SkipRootKeySpecific, Keys: keys}
}

func valueKeys(v ast.Value) []intern.Sym {
	switch t := v.(type) {
	case *ast.StringLit:
		return []intern.Sym{t.Value}
	case *ast.Entity:
		var out []intern.Sym
		for _, key := range t.Properties.Keys() {
			out = append(out, key)
		}
		for _, item := range t.Items {
			if s, ok := item.(*ast.StringLit); ok {
				out = append(out, s.Value)
			}
		}
		return out
	}
	return nil
}

func (l *loader) loadLocalisation(v ast.Value, out map[intern.Sym]LocRequirement) {
	ent, ok := v.(*ast.Entity)
	if !ok {
		return
	}
	for _, key := range ent.Properties.Keys() {
		keyText := intern.Resolve(key)
		ck := ast.DecomposeComplexKey(keyText)
		if ck.Prefix == "subtype" {
			for _, inner := range ent.Properties.Get(key) {
				sub, ok := inner.Value.(*ast.Entity)
				if !ok {
					continue
				}
				subName := intern.Intern(ck.Name)
				for _, baseKey := range sub.Properties.Keys() {
					for _, innerExpr := range sub.Properties.Get(baseKey) {
						req := out[baseKey]
						if req.PerSubtype == nil {
							req.PerSubtype = make(map[intern.Sym]LocRequirement)
						}
						req.PerSubtype[subName] = l.locRequirementOf(innerExpr)
						out[baseKey] = req
					}
				}
			}
			continue
		}
		for _, inner := range ent.Properties.Get(key) {
			out[key] = l.locRequirementOf(inner)
		}
	}
}

func (l *loader) locRequirementOf(expr *ast.Expression) LocRequirement {
	opts := l.optionsFor(expr)
	return LocRequirement{
		Pattern:  l.stringValue(expr.Value),
		Required: opts.Required,
		Primary:  opts.Primary,
		Optional: opts.Optional,
	}
}

func (l *loader) loadModifiers(v ast.Value, out *Modifiers) {
	ent, ok := v.(*ast.Entity)
	if !ok {
		return
	}
	for _, key := range ent.Properties.Keys() {
		keyText := intern.Resolve(key)
		ck := ast.DecomposeComplexKey(keyText)
		if ck.Prefix == "subtype" {
			for _, inner := range ent.Properties.Get(key) {
				sub, ok := inner.Value.(*ast.Entity)
				if !ok {
					continue
				}
				subName := intern.Intern(ck.Name)
				m := out.PerSubtype[subName]
				if m == nil {
					m = make(map[intern.Sym]intern.Sym)
				}
				for _, baseKey := range sub.Properties.Keys() {
					for _, innerExpr := range sub.Properties.Get(baseKey) {
						m[baseKey] = intern.Intern(l.stringValue(innerExpr.Value))
					}
				}
				out.PerSubtype[subName] = m
			}
			continue
		}
		for _, inner := range ent.Properties.Get(key) {
			out.Base[key] = intern.Intern(l.stringValue(inner.Value))
		}
	}
}

// loadSubtype converts a `subtype[Y] = { ... }` rule into a Subtype (spec
// §4.2 "Subtype condition_properties").
func (l *loader) loadSubtype(expr *ast.Expression) Subtype {
	sub := Subtype{
		ConditionProperties:      make(map[intern.Sym]Property),
		AllowedProperties:        make(map[intern.Sym]Property),
		AllowedPatternProperties: nil,
	}
	entries := l.rawOptionEntries(expr)
	sub.Options.DisplayName = rawOptionString(entries, "display_name")
	sub.Options.Abbreviation = rawOptionString(entries, "abbreviation")

	ent, ok := expr.Value.(*ast.Entity)
	if !ok {
		return sub
	}
	for _, key := range ent.Properties.Keys() {
		for _, inner := range ent.Properties.Get(key) {
			prop := Property{
				Type:    l.typeOfValue(inner.Value),
				Options: l.optionsFor(inner),
			}
			sub.ConditionProperties[key] = prop
			sub.AllowedProperties[key] = prop
		}
	}
	return sub
}

// rawOptionEntries parses expr's attached Option-tier comment group, if
// any, returning its entries directly (for keys like display_name/
// abbreviation that [RuleOptions] has no dedicated field for).
func (l *loader) rawOptionEntries(expr *ast.Expression) []*ast.OptionEntry {
	group := lastOptionGroup(expr.Comments())
	if group == nil {
		return nil
	}
	parsed, err := parser.ParseCommentOptions("<option-comment>", group.Text())
	if err != nil {
		l.errs.Add(&errors.SchemaConversionError{Msg: err.Error()})
		return nil
	}
	return parsed.Entries
}

func rawOptionString(entries []*ast.OptionEntry, key string) string {
	for _, e := range entries {
		if e.Key == key {
			return optionAtomText(e.Value)
		}
	}
	return ""
}

// --- enums -------------------------------------------------------------

func (l *loader) loadEnumEntry(keyText string, expr *ast.Expression) {
	ck := ast.DecomposeComplexKey(keyText)
	def := &EnumDef{Name: intern.Intern(ck.Name)}
	switch v := expr.Value.(type) {
	case *ast.Entity:
		for _, item := range v.Items {
			if s, ok := item.(*ast.StringLit); ok {
				def.Values = append(def.Values, s.Value)
			}
		}
		for _, key := range v.Properties.Keys() {
			def.Values = append(def.Values, key)
		}
	}
	if ck.Prefix == "complex_enum" {
		l.model.ComplexEnums[def.Name] = def
	} else {
		l.model.Enums[def.Name] = def
	}
}

// --- value sets ----------------------------------------------------------

func (l *loader) loadValueSetEntry(keyText string, expr *ast.Expression) {
	ck := ast.DecomposeComplexKey(keyText)
	vs := &ValueSet{Name: intern.Intern(ck.Name), Values: make(map[intern.Sym][]intern.Sym)}
	ent, ok := expr.Value.(*ast.Entity)
	if ok {
		for _, key := range ent.Properties.Keys() {
			for _, inner := range ent.Properties.Get(key) {
				if sub, ok := inner.Value.(*ast.Entity); ok {
					var vals []intern.Sym
					for _, item := range sub.Items {
						if s, ok := item.(*ast.StringLit); ok {
							vals = append(vals, s.Value)
						}
					}
					vs.Values[key] = vals
				}
			}
		}
	}
	l.model.ValueSets[vs.Name] = vs
}

// --- aliases -------------------------------------------------------------

func (l *loader) loadAliasEntry(keyText string, expr *ast.Expression) {
	ck := ast.DecomposeComplexKey(keyText)
	def := &AliasDef{
		Category: intern.Intern(ck.Scope),
		To:       l.typeOfValue(expr.Value),
		Options:  l.optionsFor(expr),
	}
	def.Name = classifyAliasName(ck.Name)
	l.model.addAlias(def)
}

// classifyAliasName implements spec §4.2 "the name is classified into
// Static, TypeRef, or Enum" from the raw name text of an `alias[cat:name]`
// key.
func classifyAliasName(name string) AliasName {
	ck := ast.DecomposeComplexKey(name)
	switch ck.Prefix {
	case "enum":
		return AliasName{Kind: AliasNameEnum, Key: intern.Intern(ck.Name)}
	case "type":
		return AliasName{Kind: AliasNameTypeRef, Key: intern.Intern(ck.Name)}
	}
	if strings.HasPrefix(name, "<") && strings.HasSuffix(name, ">") {
		return AliasName{Kind: AliasNameTypeRef, Key: intern.Intern(name[1 : len(name)-1])}
	}
	return AliasName{Kind: AliasNameStatic, Key: intern.Intern(name)}
}

func (l *loader) loadSingleAliasEntry(keyText string, expr *ast.Expression) {
	ck := ast.DecomposeComplexKey(keyText)
	l.model.SingleAliases[intern.Intern(ck.Name)] = &SingleAliasDef{
		Name: intern.Intern(ck.Name),
		Type: l.typeOfValue(expr.Value),
	}
}

// --- links, scopes, scope groups ------------------------------------------

func (l *loader) loadLinkEntry(keyText string, expr *ast.Expression) {
	ck := ast.DecomposeComplexKey(keyText)
	ld := &LinkDef{Name: intern.Intern(ck.Name)}
	ent, ok := expr.Value.(*ast.Entity)
	if ok {
		for _, key := range ent.Properties.Keys() {
			keyText := intern.Resolve(key)
			for _, inner := range ent.Properties.Get(key) {
				switch keyText {
				case "input_scopes", "input_scope":
					ld.InputScope = intern.Intern(l.stringValue(inner.Value))
				case "output_scopes", "output_scope":
					ld.OutputScope = intern.Intern(l.stringValue(inner.Value))
				case "from_data":
					// from_data links derive scope at query time; no static scope recorded.
				case "usable_from":
					if sub, ok := inner.Value.(*ast.Entity); ok {
						for _, item := range sub.Items {
							if s, ok := item.(*ast.StringLit); ok {
								ld.UsableFrom = append(ld.UsableFrom, s.Value)
							}
						}
					}
				}
			}
		}
	}
	l.model.Links[ld.Name] = ld
}

func (l *loader) loadScopeEntry(keyText string, expr *ast.Expression) {
	name := intern.Resolve(expr.Key)
	_ = keyText
	l.model.Scopes[intern.Intern(name)] = &ScopeDef{Name: intern.Intern(name)}
}

func (l *loader) loadScopeGroupEntry(keyText string, expr *ast.Expression) {
	ck := ast.DecomposeComplexKey(keyText)
	sg := &ScopeGroupDef{Name: intern.Intern(ck.Name)}
	if ent, ok := expr.Value.(*ast.Entity); ok {
		for _, item := range ent.Items {
			if s, ok := item.(*ast.StringLit); ok {
				sg.Members = append(sg.Members, s.Value)
			}
		}
	}
	l.model.ScopeGroups[sg.Name] = sg
}

// --- shared value/type conversion ----------------------------------------

// blockFromExpressions converts a schema block's rule expressions into a
// BlockType, splitting plain-name rules into Properties and
// complex-key-shaped rules into PatternProperties (spec §3 "BlockType").
func (l *loader) blockFromExpressions(ent *ast.Entity, exprs []*ast.Expression) *BlockType {
	bt := &BlockType{Properties: make(map[intern.Sym]Property), Subtypes: make(map[intern.Sym]Subtype)}
	for _, expr := range exprs {
		keyText := intern.Resolve(expr.Key)
		ck := ast.DecomposeComplexKey(keyText)
		prop := Property{Type: l.typeOfValue(expr.Value), Options: l.optionsFor(expr)}
		if ck.Prefix == "" {
			bt.Properties[expr.Key] = prop
			continue
		}
		pp := PatternProperty{ValueType: prop.Type, Options: prop.Options}
		switch ck.Prefix {
		case "enum":
			pp.Kind, pp.Key = PatternEnum, intern.Intern(ck.Name)
		case "alias":
			pp.Kind, pp.Key = PatternAlias, intern.Intern(ck.Scope)
		case "alias_name":
			pp.Kind, pp.Key = PatternAliasName, intern.Intern(ck.Name)
		case "type":
			pp.Kind, pp.Key = PatternTypeRef, intern.Intern(ck.Name)
		default:
			bt.Properties[expr.Key] = prop
			continue
		}
		bt.PatternProperties = append(bt.PatternProperties, pp)
	}
	return bt
}

// typeOfValue converts a schema rule's raw AST value into a [Type] (spec
// §4.2; the rule-value grammar itself is spec §3's "simple value atoms"
// plus block/array/reference forms).
func (l *loader) typeOfValue(v ast.Value) Type {
	switch val := v.(type) {
	case *ast.SimpleValueAtom:
		return SimpleType{Kind: SimpleKind(val.Atom), Range: decimalRangeOf(val.Range)}
	case *ast.Entity:
		return l.typeOfEntity(val)
	case *ast.StringLit:
		return l.typeOfReferenceText(intern.Resolve(val.Value))
	case *ast.NumberLit:
		return LiteralType{Value: intern.Intern(val.Text)}
	case *ast.BoolLit:
		if val.Value {
			return LiteralType{Value: intern.Intern("yes")}
		}
		return LiteralType{Value: intern.Intern("no")}
	}
	return UnknownType{}
}

// typeOfEntity converts a `{ ... }` schema value: a block if it has any
// key/value rules, otherwise an array/union of its bare items (inline
// enum shorthand).
func (l *loader) typeOfEntity(ent *ast.Entity) Type {
	if ent.Properties.Len() > 0 {
		var exprs []*ast.Expression
		for _, key := range ent.Properties.Keys() {
			exprs = append(exprs, ent.Properties.Get(key)...)
		}
		return l.blockFromExpressions(ent, exprs)
	}
	if len(ent.Items) == 0 {
		return &BlockType{Properties: make(map[intern.Sym]Property)}
	}
	var values []intern.Sym
	for _, item := range ent.Items {
		if s, ok := item.(*ast.StringLit); ok {
			values = append(values, s.Value)
		}
	}
	if len(values) == len(ent.Items) {
		return LiteralSetType{Values: values}
	}
	var members []Type
	for _, item := range ent.Items {
		members = append(members, l.typeOfValue(item))
	}
	return ArrayType{Element: collapseElementUnion(members)}
}

// typeOfReferenceText recognises a string value shaped like a complex-key
// reference (e.g. "enum[quality]", "type[army]", "scope[country]") and
// converts it to a [ReferenceType]; anything else is a literal.
func (l *loader) typeOfReferenceText(text string) Type {
	ck := ast.DecomposeComplexKey(text)
	switch ck.Prefix {
	case "type":
		return ReferenceType{Kind: RefKind{Tag: RefType, Key: intern.Intern(ck.Name)}}
	case "subtype":
		return ReferenceType{Kind: RefKind{Tag: RefSubtype, Key: intern.Intern(ck.Name)}}
	case "enum":
		return ReferenceType{Kind: RefKind{Tag: RefEnum, Key: intern.Intern(ck.Name)}}
	case "complex_enum":
		return ReferenceType{Kind: RefKind{Tag: RefComplexEnum, Key: intern.Intern(ck.Name)}}
	case "value":
		return ReferenceType{Kind: RefKind{Tag: RefValue, Key: intern.Intern(ck.Name)}}
	case "value_set":
		return ReferenceType{Kind: RefKind{Tag: RefValueSet, Key: intern.Intern(ck.Name)}}
	case "scope":
		return ReferenceType{Kind: RefKind{Tag: RefScope, Key: intern.Intern(ck.Name)}}
	case "scope_group":
		return ReferenceType{Kind: RefKind{Tag: RefScopeGroup, Key: intern.Intern(ck.Name)}}
	case "alias_match_left":
		return ReferenceType{Kind: RefKind{Tag: RefAliasMatchLeft, Category: intern.Intern(ck.Name)}}
	case "alias_name":
		return ReferenceType{Kind: RefKind{Tag: RefAliasName, Category: intern.Intern(ck.Name)}}
	case "alias_keys_field":
		return ReferenceType{Kind: RefKind{Tag: RefAliasKeysField, Key: intern.Intern(ck.Name)}}
	case "single_alias", "single_alias_right":
		return ReferenceType{Kind: RefKind{Tag: RefSingleAlias, Key: intern.Intern(ck.Name)}}
	case "icon":
		return ReferenceType{Kind: RefKind{Tag: RefIcon, Path: ck.Name}}
	case "filepath":
		return ReferenceType{Kind: RefKind{Tag: RefFilepath, Path: ck.Name}}
	case "colour":
		return ReferenceType{Kind: RefKind{Tag: RefColour, Format: ck.Name}}
	case "stellaris_name_format":
		return ReferenceType{Kind: RefKind{Tag: RefStellarisNameFormat, Key: intern.Intern(ck.Name)}}
	case "alias":
		return ReferenceType{Kind: RefKind{Tag: RefAlias, Category: intern.Intern(ck.Scope), Name: intern.Intern(ck.Name)}}
	}
	if ck.Angle {
		var prefix, suffix *string
		if ck.Prefix != "" {
			p := ck.Prefix
			prefix = &p
		}
		if ck.Suffix != "" {
			s := ck.Suffix
			suffix = &s
		}
		return ReferenceType{Kind: RefKind{Tag: RefTypeRefWithPrefixSuffix, Prefix: prefix, Suffix: suffix, Key: intern.Intern(ck.Name)}}
	}
	return LiteralType{Value: intern.Intern(text)}
}

func (l *loader) stringValue(v ast.Value) string {
	switch val := v.(type) {
	case *ast.StringLit:
		return intern.Resolve(val.Value)
	case *ast.NumberLit:
		return val.Text
	case *ast.SimpleValueAtom:
		return val.Atom
	}
	return ""
}

func (l *loader) boolValue(v ast.Value) bool {
	if b, ok := v.(*ast.BoolLit); ok {
		return b.Value
	}
	return false
}

func parseSeverity(text string) Severity {
	switch strings.ToLower(text) {
	case "warning":
		return SeverityWarning
	case "information":
		return SeverityInformation
	case "hint":
		return SeverityHint
	default:
		return SeverityError
	}
}

// --- option-comment conversion --------------------------------------------

// optionsFor derives a RuleOptions from the Option-tier comment group
// attached to expr, if any (spec §4.2 "Rule options").
func (l *loader) optionsFor(expr *ast.Expression) RuleOptions {
	var opts RuleOptions
	group := lastOptionGroup(expr.Comments())
	if group == nil {
		return opts
	}
	parsed, err := parser.ParseCommentOptions("<option-comment>", group.Text())
	if err != nil {
		l.errs.Add(&errors.SchemaConversionError{Msg: err.Error()})
		return opts
	}
	for _, e := range parsed.Entries {
		l.applyOption(&opts, e)
	}
	return opts
}

func lastOptionGroup(groups []*ast.CommentGroup) *ast.CommentGroup {
	var last *ast.CommentGroup
	for _, g := range groups {
		if g.Tier == ast.Option {
			last = g
		}
	}
	return last
}

func (l *loader) applyOption(opts *RuleOptions, e *ast.OptionEntry) {
	switch e.Key {
	case "cardinality":
		opts.Cardinality = l.cardinalityOf(e.Value)
	case "push_scope":
		opts.PushScope = intern.Intern(optionAtomText(e.Value))
	case "replace_scope":
		opts.ReplaceScope = l.replaceScopeOf(e.Value)
	case "scope":
		opts.ScopeConstraint = optionSetSyms(e.Value)
	case "severity":
		opts.Severity = parseSeverity(optionAtomText(e.Value))
	case "starts_with":
		opts.StartsWith = optionAtomText(e.Value)
	case "type_key_filter":
		opts.TypeKeyFilter = typeKeyFilterOf(e)
	case "graph_related_types":
		opts.GraphRelatedTypes = optionSetSyms(e.Value)
	case "required":
		opts.Required = true
	case "primary":
		opts.Primary = true
	case "optional":
		opts.Optional = true
	}
}

func (l *loader) cardinalityOf(v ast.OptionValue) *Cardinality {
	r, ok := v.(*ast.Range)
	if !ok {
		return nil
	}
	c := &Cardinality{Soft: r.Lenient}
	if r.Min.Inf {
		c.Min = 0
	} else if n, err := strconv.Atoi(r.Min.Text); err == nil {
		c.Min = n
	}
	if r.Max.Inf {
		c.MaxInf = true
	} else if n, err := strconv.Atoi(r.Max.Text); err == nil {
		c.Max = n
	}
	return c
}

// decimalRangeOf converts a schema value atom's inline `[min..max]` suffix,
// parsing bounds with [ParseDecimal] for exact decimal comparison (spec §3).
// A bound that fails to parse as a decimal is left nil rather than rejecting
// the whole type, matching cardinalityOf's tolerant handling of malformed
// bounds.
func decimalRangeOf(r *ast.Range) *DecimalRange {
	if r == nil {
		return nil
	}
	dr := &DecimalRange{}
	if !r.Min.Inf {
		if d, err := ParseDecimal(r.Min.Text); err == nil {
			dr.Min = d
		}
	}
	if r.Max.Inf {
		dr.MaxInf = true
	} else if d, err := ParseDecimal(r.Max.Text); err == nil {
		dr.Max = d
	}
	return dr
}

func (l *loader) replaceScopeOf(v ast.OptionValue) map[string]intern.Sym {
	block, ok := v.(*ast.OptionBlock)
	if !ok {
		return nil
	}
	out := make(map[string]intern.Sym)
	for _, entry := range block.Entries {
		out[entry.Key] = intern.Intern(optionAtomText(entry.Value))
	}
	return out
}

func typeKeyFilterOf(e *ast.OptionEntry) *TypeKeyFilter {
	if e.Negated {
		return &TypeKeyFilter{Kind: FilterNot, Keys: []intern.Sym{intern.Intern(optionAtomText(e.Value))}}
	}
	if block, ok := e.Value.(*ast.OptionBlock); ok {
		var keys []intern.Sym
		for _, entry := range block.Entries {
			keys = append(keys, intern.Intern(entry.Key))
		}
		return &TypeKeyFilter{Kind: FilterOneOf, Keys: keys}
	}
	return &TypeKeyFilter{Kind: FilterSpecific, Keys: []intern.Sym{intern.Intern(optionAtomText(e.Value))}}
}

func optionAtomText(v ast.OptionValue) string {
	if a, ok := v.(*ast.OptionAtom); ok {
		return a.Text
	}
	return ""
}

func optionSetSyms(v ast.OptionValue) []intern.Sym {
	block, ok := v.(*ast.OptionBlock)
	if !ok {
		if a, ok := v.(*ast.OptionAtom); ok {
			return []intern.Sym{intern.Intern(a.Text)}
		}
		return nil
	}
	var out []intern.Sym
	for _, entry := range block.Entries {
		out = append(out, intern.Intern(entry.Key))
	}
	return out
}
