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

// Package navigate implements the property navigator described in spec
// §4.4: given a [scopedtype.ScopedType] and a property key, it walks the
// eleven match sources and combines whatever they yield into a single
// [Result].
//
// Grounded on
// original_source/lsp/src/handlers/cache/resolver_modules/properties/navigation.rs
// for the match-source ordering and the AliasMatchLeft-as-current-type
// special case; the candidate-collection-then-combine shape otherwise
// follows this module's own resolver package, which this navigator is a
// direct collaborator of.
package navigate

import (
	"strings"

	"github.com/cwtools/cwtools-go/gamedata"
	"github.com/cwtools/cwtools-go/intern"
	"github.com/cwtools/cwtools-go/resolve"
	"github.com/cwtools/cwtools-go/schema"
	"github.com/cwtools/cwtools-go/scope"
	"github.com/cwtools/cwtools-go/scopedtype"
)

// ResultKind discriminates [Result]'s three shapes (spec §4.4 "navigate(scoped,
// key) -> Success(scoped') | ScopeError(e) | NotFound").
type ResultKind int

const (
	NotFound ResultKind = iota
	Success
	ScopeErrorResult
)

// Result is the navigator's outcome for one step.
type Result struct {
	Kind  ResultKind
	One   scopedtype.ScopedType  // Success with exactly one candidate
	Union scopedtype.ScopedUnion // Success with more than one candidate
	Err   *scope.Error           // ScopeErrorResult
}

// inlineScriptName is the reserved schema type name the "inline_script"
// sentinel key resolves to (spec §4.4 step 6).
const inlineScriptName = "inline_script"

// scriptedEffectParamsEnum is the reserved enum name a block's pattern
// property must key off of for step 9 to apply.
const scriptedEffectParamsEnum = "scripted_effect_params"

// Config holds the project-level settings that bear on navigation
// outcomes rather than just diagnostic output (spec §4.5): whether
// unknown scope identifiers and unvalidated localisation keys are
// accepted as matches, and how deep a scope stack may branch.
type Config struct {
	ReportUnknownScopes  bool
	ValidateLocalisation bool
	MaxScopeDepth        int
}

// Navigator steps a [scopedtype.ScopedType] through property keys (spec
// §4.4).
type Navigator struct {
	model    *schema.Model
	resolver *resolve.Resolver
	data     gamedata.Source
	cfg      Config
}

// New builds a Navigator over model, resolving through resolver and
// consulting data for namespace membership.
func New(model *schema.Model, resolver *resolve.Resolver, data gamedata.Source, cfg Config) *Navigator {
	if data == nil {
		data = gamedata.Empty{}
	}
	return &Navigator{model: model, resolver: resolver, data: data, cfg: cfg}
}

// Navigate steps scoped through key, consulting every match source and
// combining their candidates per spec §4.4 "Result combination". Sources
// are consulted, and candidates collected, in the order 1, 2, 3-4, 5, 8, 9
// (steps 2-9 only when the resolved type is a block), then 6, 7, 10, 11;
// the inline_script and event_target: steps therefore come after the
// pattern-property steps, not before them.
func (n *Navigator) Navigate(scoped scopedtype.ScopedType, key intern.Sym) Result {
	keyText := intern.Resolve(key)
	resolved := n.resolver.Resolve(scoped)

	var candidates []scopedtype.ScopedType
	var scopeErr *scope.Error

	// Step 1: scope property, skipped when the current type IS an
	// AliasMatchLeft reference (spec §4.4 "For an AliasMatchLeft(cat)
	// that is itself the current type ... step (1) is skipped").
	if _, isAliasMatchLeft := currentAliasMatchLeft(resolved.Type()); !isAliasMatchLeft {
		if c, err := n.scopeStep(resolved, keyText); err != nil {
			if scopeErr == nil {
				scopeErr = err
			}
		} else if c != nil {
			candidates = append(candidates, *c)
		} else if !n.cfg.ReportUnknownScopes {
			if c := n.unknownScopeStep(resolved, key); c != nil {
				candidates = append(candidates, *c)
			}
		}
	}

	block, isBlock := asBlock(resolved.Type())

	if isBlock {
		// Step 2: declared property.
		if prop, ok := block.Properties[key]; ok {
			candidates = append(candidates, n.applyPropertyOptions(resolved, prop))
		}

		// Steps 3-4: subtype condition/allowed properties, then subtype
		// pattern properties.
		for _, subName := range resolved.Subtypes() {
			sub, ok := block.Subtypes[subName]
			if !ok {
				continue
			}
			if prop, ok := sub.ConditionProperties[key]; ok {
				candidates = append(candidates, n.applyPropertyOptions(resolved, prop))
				continue
			}
			if prop, ok := sub.AllowedProperties[key]; ok {
				candidates = append(candidates, n.applyPropertyOptions(resolved, prop))
				continue
			}
			for _, pp := range sub.AllowedPatternProperties {
				if n.patternMatches(pp, keyText) {
					candidates = append(candidates, n.applyPatternOptions(resolved, pp, keyText))
				}
			}
		}

		// Step 5: scalar/int/localisation wildcards.
		if _, ok := block.Properties[intern.Intern("scalar")]; ok {
			candidates = append(candidates, n.applyPropertyOptions(resolved, block.Properties[intern.Intern("scalar")]))
		} else if _, ok := block.Properties[intern.Intern("int")]; ok && resolve.MatchesInt(keyText) {
			candidates = append(candidates, n.applyPropertyOptions(resolved, block.Properties[intern.Intern("int")]))
		} else if !n.cfg.ValidateLocalisation {
			if prop, ok := block.Properties[intern.Intern("localisation")]; ok {
				candidates = append(candidates, n.applyPropertyOptions(resolved, prop))
			}
		}

		// Step 8: pattern properties.
		for _, pp := range block.PatternProperties {
			if n.patternMatches(pp, keyText) {
				candidates = append(candidates, n.applyPatternOptions(resolved, pp, keyText))
			}
		}

		// Step 9: scripted-effect parameter pattern.
		if effectName, ok := resolved.InScriptedEffect(); ok {
			if args, ok := n.data.ScriptedEffectArguments(effectName); ok && containsSym(args, key) {
				for _, pp := range block.PatternProperties {
					if pp.Kind == schema.PatternEnum && intern.Resolve(pp.Key) == scriptedEffectParamsEnum {
						candidates = append(candidates, scopedtype.New(n.resolver.ResolveType(pp.ValueType), resolved.Scope(), resolved.Subtypes()))
					}
				}
			}
		}
	}

	// Step 6: inline_script sentinel.
	if keyText == "inline_script" {
		if td, ok := n.model.Types[intern.Intern(inlineScriptName)]; ok {
			candidates = append(candidates, scopedtype.New(n.resolver.ResolveType(td.Rules), resolved.Scope(), resolved.Subtypes()))
		}
	}

	// Step 7: event_target: prefix.
	if strings.HasPrefix(keyText, "event_target:") {
		branched := resolved.Scope()
		if branched != nil {
			branched = branched.Clone()
			_ = branched.PushScope(intern.Intern("unknown"))
		}
		candidates = append(candidates, scopedtype.New(resolved.Type(), branched, resolved.Subtypes()))
	}

	// Step 10: scripted argument placeholder.
	if strings.Contains(keyText, "$") {
		candidates = append(candidates, scopedtype.New(schema.AnyType{}, resolved.Scope(), resolved.Subtypes()))
	}

	// Step 11: link.
	if link, ok := n.model.Links[key]; ok && linkUsableFrom(link, resolved.Scope()) {
		branched := resolved.Scope()
		if branched != nil {
			branched = branched.Clone()
			_ = branched.PushScope(link.OutputScope)
		}
		candidates = append(candidates, scopedtype.New(resolved.Type(), branched, resolved.Subtypes()))
	}

	// AliasMatchLeft-as-current-type special case (spec §4.4, the
	// paragraph after step 11): every alias cat:key contributes a
	// candidate, with its own alias-level scope changes applied.
	if cat, ok := currentAliasMatchLeft(resolved.Type()); ok {
		if def, ok := n.model.LookupAlias(cat, key); ok {
			candidates = append(candidates, n.applyOptionsScope(resolved, n.resolver.ResolveType(def.To), def.Options))
		}
	}

	return combine(candidates, scopeErr)
}

func combine(candidates []scopedtype.ScopedType, scopeErr *scope.Error) Result {
	switch len(candidates) {
	case 0:
		if scopeErr != nil {
			return Result{Kind: ScopeErrorResult, Err: scopeErr}
		}
		return Result{Kind: NotFound}
	case 1:
		return Result{Kind: Success, One: candidates[0]}
	default:
		return Result{Kind: Success, Union: scopedtype.NewScopedUnion(candidates)}
	}
}

// scopeStep implements step 1 (spec §4.4): if key names an available
// scope slot, branch the stack and yield the same type under it.
func (n *Navigator) scopeStep(st scopedtype.ScopedType, keyText string) (*scopedtype.ScopedType, *scope.Error) {
	s := st.Scope()
	if s == nil {
		return nil, nil
	}
	sym, ok := s.GetByName(keyText)
	if !ok {
		return nil, nil
	}
	branched := s.Clone()
	if err := branched.PushScope(sym); err != nil {
		if se, ok := err.(*scope.Error); ok {
			return nil, se
		}
		return nil, &scope.Error{Kind: scope.StackOverflow}
	}
	result := scopedtype.New(st.Type(), branched, st.Subtypes())
	return &result, nil
}

// unknownScopeStep implements step 1's second clause (spec §4.4): when
// report-unknown-scopes is disabled and key names a scope identifier the
// schema declares (even though it isn't an available stack slot), push
// key itself as a scope-type and yield the same type under it.
func (n *Navigator) unknownScopeStep(st scopedtype.ScopedType, key intern.Sym) *scopedtype.ScopedType {
	if _, ok := n.model.Scopes[key]; !ok {
		return nil
	}
	s := st.Scope()
	if s == nil {
		return nil
	}
	branched := s.Clone()
	if err := branched.PushScopeType(key); err != nil {
		return nil
	}
	result := scopedtype.New(st.Type(), branched, st.Subtypes())
	return &result
}

func (n *Navigator) applyPropertyOptions(st scopedtype.ScopedType, prop schema.Property) scopedtype.ScopedType {
	return n.applyOptionsScope(st, n.resolver.ResolveType(prop.Type), prop.Options)
}

func (n *Navigator) applyPatternOptions(st scopedtype.ScopedType, pp schema.PatternProperty, keyText string) scopedtype.ScopedType {
	valueType := n.resolver.ResolveType(pp.ValueType)
	if ref, ok := valueType.(schema.ReferenceType); ok && ref.Kind.Tag == schema.RefAliasMatchLeft {
		if def, ok := n.model.LookupAlias(ref.Kind.Category, intern.Intern(keyText)); ok {
			st = n.applyOptionsScope(st, n.resolver.ResolveType(def.To), def.Options)
			return n.applyOptionsScope(st, st.Type(), pp.Options)
		}
	}
	return n.applyOptionsScope(st, valueType, pp.Options)
}

// applyOptionsScope applies push_scope/replace_scope from opts to st's
// scope stack before wrapping newType (spec §4.4 step 2 "apply push_scope
// / replace_scope from the property's options").
func (n *Navigator) applyOptionsScope(st scopedtype.ScopedType, newType schema.Type, opts schema.RuleOptions) scopedtype.ScopedType {
	s := st.Scope()
	if s == nil {
		return scopedtype.New(newType, nil, st.Subtypes())
	}
	branched := s.Clone()
	if opts.PushScope != 0 {
		_ = branched.PushScope(opts.PushScope)
	}
	if opts.ReplaceScope != nil {
		branched.ReplaceScope(opts.ReplaceScope)
	}
	return scopedtype.New(newType, branched, st.Subtypes())
}

func (n *Navigator) patternMatches(pp schema.PatternProperty, keyText string) bool {
	switch pp.Kind {
	case schema.PatternEnum:
		def, ok := n.model.Enums[pp.Key]
		if !ok {
			def, ok = n.model.ComplexEnums[pp.Key]
		}
		return ok && containsSym(def.Values, intern.Intern(keyText))
	case schema.PatternAlias:
		_, ok := n.model.LookupAlias(pp.Key, intern.Intern(keyText))
		return ok
	case schema.PatternAliasName:
		_, ok := n.model.LookupAlias(pp.Key, intern.Intern(keyText))
		return ok
	case schema.PatternTypeRef:
		td, ok := n.model.Types[pp.Key]
		if !ok {
			return false
		}
		keys, ok := n.data.KeysOf(td.Path)
		return ok && containsSym(keys, intern.Intern(keyText))
	case schema.PatternScalar:
		return true
	case schema.PatternInt:
		return resolve.MatchesInt(keyText)
	}
	return false
}

func asBlock(t schema.Type) (*schema.BlockType, bool) {
	b, ok := t.(*schema.BlockType)
	return b, ok
}

// currentAliasMatchLeft reports whether t is itself an
// AliasMatchLeft(cat) reference (not resolved into a union), and if so,
// returns cat (spec §4.4, the paragraph after step 11).
func currentAliasMatchLeft(t schema.Type) (intern.Sym, bool) {
	ref, ok := t.(schema.ReferenceType)
	if !ok || ref.Kind.Tag != schema.RefAliasMatchLeft {
		return 0, false
	}
	return ref.Kind.Category, true
}

func containsSym(syms []intern.Sym, sym intern.Sym) bool {
	for _, s := range syms {
		if s == sym {
			return true
		}
	}
	return false
}

func linkUsableFrom(link *schema.LinkDef, s *scope.Stack) bool {
	if len(link.UsableFrom) == 0 {
		return true
	}
	if s == nil {
		return false
	}
	this := intern.Resolve(s.This())
	for _, u := range link.UsableFrom {
		if intern.Resolve(u) == this {
			return true
		}
	}
	return false
}
