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

// Package query implements the three synchronous, pure query entry
// points described in spec §6 "Query surface": GetType, GetTypeFromAST,
// and Completions, all driven by a loaded [typecache.Cache].
//
// Grounded on original_source/lsp/src/handlers/completion.rs and
// lsp/src/handlers/diagnostics/type_validation.rs for what a [TypeInfo]
// needs to carry for hover rendering and what completions enumerates;
// the dotted-path-walk shape otherwise follows this module's own
// navigate package, which this is a thin pure-function wrapper over.
package query

import (
	"strings"

	"github.com/cwtools/cwtools-go/ast"
	"github.com/cwtools/cwtools-go/intern"
	"github.com/cwtools/cwtools-go/navigate"
	"github.com/cwtools/cwtools-go/schema"
	"github.com/cwtools/cwtools-go/scopedtype"
	"github.com/cwtools/cwtools-go/typecache"
	"github.com/kr/pretty"
)

// Config bundles the editor-transport-supplied options that affect query
// behaviour (spec §6 "a configuration bundle { report_unknown_scopes,
// validate_localisation, max_scope_depth }"). It is the same type the
// navigator and type cache consume, so a project's loaded configuration
// threads through to every layer that acts on it without conversion.
type Config = navigate.Config

// TypeInfo is the result of a successful or partially-successful type
// query (spec §6 "returns a TypeInfo carrying that step's path prefix and
// a rendered description").
type TypeInfo struct {
	// Path is the longest prefix of the requested property path that
	// resolved successfully.
	Path []string
	// Type is the scoped type reached at Path.
	Type scopedtype.ScopedType
	// Description is a structural rendering of Type.Type(), suitable for
	// hover display.
	Description string
}

// GetType performs dotted-path navigation from namespace's top-level type,
// terminating on the first unresolved step (spec §6 "get_type(namespace,
// property_path) -> TypeInfo?").
func GetType(cache *typecache.Cache, namespace intern.Sym, propertyPath string) (*TypeInfo, bool) {
	start, ok := cache.StartingType(namespace)
	if !ok {
		return nil, false
	}
	return walkPath(cache.Navigator, start, propertyPath)
}

// GetTypeFromAST is identical to [GetType] but first narrows the
// namespace type using the subtype matcher against entity's top-level
// key/value pairs (spec §6 "get_type_from_ast ... first narrows the
// namespace type using the subtype matcher").
func GetTypeFromAST(cache *typecache.Cache, namespace intern.Sym, entity *ast.Entity, propertyPath string) (*TypeInfo, bool) {
	start, ok := cache.StartingType(namespace)
	if !ok {
		return nil, false
	}
	td, _ := cache.TypeDefinition(namespace)
	if td != nil {
		start = narrowBySubtype(start, td, entity)
	}
	return walkPath(cache.Navigator, start, propertyPath)
}

// narrowBySubtype matches entity's top-level properties against each
// subtype's condition_properties, activating every subtype whose
// conditions are all present (spec §3 "Subtype" / §4.4 step 3).
func narrowBySubtype(st scopedtype.ScopedType, td *schema.TypeDefinition, entity *ast.Entity) scopedtype.ScopedType {
	var active []intern.Sym
	for name, sub := range td.Subtypes {
		if subtypeConditionsMatch(sub, entity) {
			active = append(active, name)
		}
	}
	return scopedtype.New(st.Type(), st.Scope(), active)
}

func subtypeConditionsMatch(sub schema.Subtype, entity *ast.Entity) bool {
	if len(sub.ConditionProperties) == 0 {
		return !sub.Inverted
	}
	allPresent := true
	for key := range sub.ConditionProperties {
		if len(entity.Properties.Get(key)) == 0 {
			allPresent = false
			break
		}
	}
	if sub.Inverted {
		return !allPresent
	}
	return allPresent
}

func walkPath(nav *navigate.Navigator, start scopedtype.ScopedType, propertyPath string) (*TypeInfo, bool) {
	parts := splitPath(propertyPath)
	current := start
	walked := make([]string, 0, len(parts))
	for _, part := range parts {
		result := nav.Navigate(current, intern.Intern(part))
		switch result.Kind {
		case navigate.Success:
			if len(result.Union.Candidates) > 0 {
				current = scopedtype.New(result.Union.Candidates[0].Type(), result.Union.Candidates[0].Scope(), result.Union.Candidates[0].Subtypes())
			} else {
				current = result.One
			}
			walked = append(walked, part)
		default:
			return &TypeInfo{Path: walked, Type: current, Description: describe(current.Type())}, len(walked) > 0
		}
	}
	return &TypeInfo{Path: walked, Type: current, Description: describe(current.Type())}, true
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Completions returns the union of candidate property names reachable
// from scoped: declared properties, subtype properties, pattern
// completions, available scope names, and applicable link names (spec §6
// "completions(scoped) -> list<Sym>").
func Completions(cache *typecache.Cache, scoped scopedtype.ScopedType) []intern.Sym {
	resolved := cache.Resolver.Resolve(scoped)
	seen := make(map[intern.Sym]bool)
	var out []intern.Sym
	add := func(s intern.Sym) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	if block, ok := resolved.Type().(*schema.BlockType); ok {
		for key := range block.Properties {
			add(key)
		}
		for _, name := range resolved.Subtypes() {
			sub, ok := block.Subtypes[name]
			if !ok {
				continue
			}
			for key := range sub.AllowedProperties {
				add(key)
			}
			addPatternCompletions(cache, sub.AllowedPatternProperties, add)
		}
		addPatternCompletions(cache, block.PatternProperties, add)
	}

	if s := resolved.Scope(); s != nil {
		for _, name := range s.AvailableNames() {
			add(intern.Intern(name))
		}
	}

	for name, link := range cache.Model.Links {
		if linkApplicable(link, resolved) {
			add(name)
		}
	}

	return out
}

func addPatternCompletions(cache *typecache.Cache, patterns []schema.PatternProperty, add func(intern.Sym)) {
	for _, pp := range patterns {
		switch pp.Kind {
		case schema.PatternEnum:
			def, ok := cache.Model.Enums[pp.Key]
			if !ok {
				def, ok = cache.Model.ComplexEnums[pp.Key]
			}
			if ok {
				for _, v := range def.Values {
					add(v)
				}
			}
		case schema.PatternAlias, schema.PatternAliasName:
			for key, def := range cache.Model.Aliases {
				if key.Category != pp.Key {
					continue
				}
				addAliasNameCompletion(cache, def.Name, add)
			}
		case schema.PatternTypeRef:
			td, ok := cache.Model.Types[pp.Key]
			if !ok {
				continue
			}
			// Namespace membership for TypeRef completions is supplied by
			// the game-data source at resolve time; nothing to add here
			// without an active game-data snapshot (spec §1 Non-goals:
			// game-data loading is out of scope for this module).
			_ = td
		}
	}
}

func addAliasNameCompletion(cache *typecache.Cache, name schema.AliasName, add func(intern.Sym)) {
	switch name.Kind {
	case schema.AliasNameStatic:
		add(name.Key)
	case schema.AliasNameEnum:
		def, ok := cache.Model.Enums[name.Key]
		if !ok {
			def, ok = cache.Model.ComplexEnums[name.Key]
		}
		if ok {
			for _, v := range def.Values {
				add(v)
			}
		}
	case schema.AliasNameTypeRef:
		// Namespace expansion depends on the game-data snapshot; see
		// addPatternCompletions's PatternTypeRef case.
	}
}

func linkApplicable(link *schema.LinkDef, st scopedtype.ScopedType) bool {
	s := st.Scope()
	if s == nil || len(link.UsableFrom) == 0 {
		return true
	}
	this := intern.Resolve(s.This())
	for _, u := range link.UsableFrom {
		if intern.Resolve(u) == this {
			return true
		}
	}
	return false
}

// describe renders t structurally for [TypeInfo.Description] (spec §6
// "a rendered description").
func describe(t schema.Type) string {
	return pretty.Sprint(t)
}
