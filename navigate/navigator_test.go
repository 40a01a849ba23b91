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

package navigate

import (
	"testing"

	"github.com/cwtools/cwtools-go/intern"
	"github.com/cwtools/cwtools-go/resolve"
	"github.com/cwtools/cwtools-go/schema"
	"github.com/cwtools/cwtools-go/scope"
	"github.com/cwtools/cwtools-go/scopedtype"
	"github.com/go-quicktest/qt"
)

func blockWith(props map[intern.Sym]schema.Property) *schema.BlockType {
	return &schema.BlockType{Properties: props, Subtypes: make(map[intern.Sym]schema.Subtype)}
}

func TestNavigateDeclaredPropertyYieldsSuccess(t *testing.T) {
	model := schema.NewModel()
	ownerKey := intern.Intern("owner")
	block := blockWith(map[intern.Sym]schema.Property{
		ownerKey: {Type: schema.SimpleType{Kind: schema.SimpleScalar}},
	})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})

	s := scope.New(intern.Intern("country"), 0)
	st := scopedtype.New(block, s, nil)

	res := n.Navigate(st, ownerKey)
	qt.Assert(t, qt.Equals(res.Kind, Success))
	simp, ok := res.One.Type().(schema.SimpleType)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(simp.Kind, schema.SimpleScalar))
}

func TestNavigateUnknownKeyIsNotFound(t *testing.T) {
	model := schema.NewModel()
	block := blockWith(map[intern.Sym]schema.Property{})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, intern.Intern("nonexistent"))
	qt.Assert(t, qt.Equals(res.Kind, NotFound))
}

func TestNavigateScopeStepBranchesStack(t *testing.T) {
	model := schema.NewModel()
	block := blockWith(map[intern.Sym]schema.Property{})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})

	s := scope.New(intern.Intern("country"), 0)
	s.ReplaceScope(map[string]intern.Sym{"from": intern.Intern("army")})
	st := scopedtype.New(block, s, nil)

	res := n.Navigate(st, intern.Intern("from"))
	qt.Assert(t, qt.Equals(res.Kind, Success))
	qt.Assert(t, qt.Equals(res.One.Scope().This(), intern.Intern("army")))
	// original scope untouched
	qt.Assert(t, qt.Equals(st.Scope().This(), intern.Intern("country")))
}

func TestNavigateScopeStepOverflowReturnsScopeError(t *testing.T) {
	model := schema.NewModel()
	block := blockWith(map[intern.Sym]schema.Property{})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})

	s := scope.New(intern.Intern("country"), 1)
	s.ReplaceScope(map[string]intern.Sym{"from": intern.Intern("army")})
	st := scopedtype.New(block, s, nil)

	res := n.Navigate(st, intern.Intern("from"))
	qt.Assert(t, qt.Equals(res.Kind, ScopeErrorResult))
	qt.Assert(t, qt.Not(qt.IsNil(res.Err)))
}

func TestNavigateSubtypeConditionProperty(t *testing.T) {
	model := schema.NewModel()
	subName := intern.Intern("naval")
	key := intern.Intern("is_naval")
	block := &schema.BlockType{
		Properties: map[intern.Sym]schema.Property{},
		Subtypes: map[intern.Sym]schema.Subtype{
			subName: {
				ConditionProperties: map[intern.Sym]schema.Property{
					key: {Type: schema.SimpleType{Kind: schema.SimpleBool}},
				},
				AllowedProperties: map[intern.Sym]schema.Property{},
			},
		},
	}
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), []intern.Sym{subName})

	res := n.Navigate(st, key)
	qt.Assert(t, qt.Equals(res.Kind, Success))
}

func TestNavigateScalarWildcard(t *testing.T) {
	model := schema.NewModel()
	scalarKey := intern.Intern("scalar")
	block := blockWith(map[intern.Sym]schema.Property{
		scalarKey: {Type: schema.SimpleType{Kind: schema.SimpleScalar}},
	})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, intern.Intern("anything_at_all"))
	qt.Assert(t, qt.Equals(res.Kind, Success))
}

func TestNavigateIntWildcardOnlyMatchesIntegerKeys(t *testing.T) {
	model := schema.NewModel()
	intKey := intern.Intern("int")
	block := blockWith(map[intern.Sym]schema.Property{
		intKey: {Type: schema.SimpleType{Kind: schema.SimpleInt}},
	})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, intern.Intern("42"))
	qt.Assert(t, qt.Equals(res.Kind, Success))

	res2 := n.Navigate(st, intern.Intern("not_a_number"))
	qt.Assert(t, qt.Equals(res2.Kind, NotFound))
}

func TestNavigatePatternPropertyEnumMatch(t *testing.T) {
	model := schema.NewModel()
	enumKey := intern.Intern("quality")
	model.Enums[enumKey] = &schema.EnumDef{Name: enumKey, Values: []intern.Sym{intern.Intern("common"), intern.Intern("rare")}}
	block := &schema.BlockType{
		Properties: map[intern.Sym]schema.Property{},
		PatternProperties: []schema.PatternProperty{
			{Kind: schema.PatternEnum, Key: enumKey, ValueType: schema.SimpleType{Kind: schema.SimpleBool}},
		},
	}
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, intern.Intern("rare"))
	qt.Assert(t, qt.Equals(res.Kind, Success))

	res2 := n.Navigate(st, intern.Intern("legendary"))
	qt.Assert(t, qt.Equals(res2.Kind, NotFound))
}

func TestNavigateInlineScriptSentinel(t *testing.T) {
	model := schema.NewModel()
	model.Types[intern.Intern(inlineScriptName)] = &schema.TypeDefinition{
		Name: intern.Intern(inlineScriptName),
		Rules: schema.AnyType{},
	}
	block := blockWith(map[intern.Sym]schema.Property{})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, intern.Intern("inline_script"))
	qt.Assert(t, qt.Equals(res.Kind, Success))
}

func TestNavigateEventTargetPrefixBranchesUnknownScope(t *testing.T) {
	model := schema.NewModel()
	block := blockWith(map[intern.Sym]schema.Property{})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, intern.Intern("event_target:my_target"))
	qt.Assert(t, qt.Equals(res.Kind, Success))
	qt.Assert(t, qt.Equals(res.One.Scope().This(), intern.Intern("unknown")))
}

func TestNavigateScriptedArgumentPlaceholderYieldsAny(t *testing.T) {
	model := schema.NewModel()
	block := blockWith(map[intern.Sym]schema.Property{})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, intern.Intern("$my_arg$"))
	qt.Assert(t, qt.Equals(res.Kind, Success))
	_, ok := res.One.Type().(schema.AnyType)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestNavigateLinkRespectsUsableFrom(t *testing.T) {
	model := schema.NewModel()
	linkKey := intern.Intern("owner")
	model.Links[linkKey] = &schema.LinkDef{
		Name:        linkKey,
		OutputScope: intern.Intern("country"),
		UsableFrom:  []intern.Sym{intern.Intern("army")},
	}
	block := blockWith(map[intern.Sym]schema.Property{})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})

	st := scopedtype.New(block, scope.New(intern.Intern("fleet"), 0), nil)
	res := n.Navigate(st, linkKey)
	qt.Assert(t, qt.Equals(res.Kind, NotFound))

	st2 := scopedtype.New(block, scope.New(intern.Intern("army"), 0), nil)
	res2 := n.Navigate(st2, linkKey)
	qt.Assert(t, qt.Equals(res2.Kind, Success))
	qt.Assert(t, qt.Equals(res2.One.Scope().This(), intern.Intern("country")))
}

func TestNavigateAliasMatchLeftAsCurrentTypeWithNoRegisteredAlias(t *testing.T) {
	model := schema.NewModel()
	cat := intern.Intern("effect")
	name := intern.Intern("set_owner")

	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})

	current := schema.ReferenceType{Kind: schema.RefKind{Tag: schema.RefAliasMatchLeft, Category: cat}}
	st := scopedtype.New(current, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, name)
	qt.Assert(t, qt.Equals(res.Kind, NotFound))
}

func TestNavigateMultipleCandidatesCombineToUnion(t *testing.T) {
	model := schema.NewModel()
	enumKey := intern.Intern("quality")
	model.Enums[enumKey] = &schema.EnumDef{Name: enumKey, Values: []intern.Sym{intern.Intern("shared_key")}}
	sharedKey := intern.Intern("shared_key")
	block := &schema.BlockType{
		Properties: map[intern.Sym]schema.Property{
			sharedKey: {Type: schema.SimpleType{Kind: schema.SimpleBool}},
		},
		PatternProperties: []schema.PatternProperty{
			{Kind: schema.PatternEnum, Key: enumKey, ValueType: schema.SimpleType{Kind: schema.SimpleInt}},
		},
	}
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, sharedKey)
	qt.Assert(t, qt.Equals(res.Kind, Success))
	qt.Assert(t, qt.HasLen(res.Union.Candidates, 2))
}

func TestNavigateUnknownScopeIdentifierYieldsWhenReportUnknownScopesDisabled(t *testing.T) {
	model := schema.NewModel()
	unownedKey := intern.Intern("colonial_overlord")
	model.Scopes[unownedKey] = &schema.ScopeDef{Name: unownedKey}
	block := blockWith(nil)
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{ReportUnknownScopes: false})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, unownedKey)
	qt.Assert(t, qt.Equals(res.Kind, Success))
	qt.Assert(t, qt.Equals(res.One.Scope().This(), unownedKey))
}

func TestNavigateUnknownScopeIdentifierIsNotFoundWhenReportUnknownScopesEnabled(t *testing.T) {
	model := schema.NewModel()
	unownedKey := intern.Intern("colonial_overlord")
	model.Scopes[unownedKey] = &schema.ScopeDef{Name: unownedKey}
	block := blockWith(nil)
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{ReportUnknownScopes: true})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, unownedKey)
	qt.Assert(t, qt.Equals(res.Kind, NotFound))
}

func TestNavigateLocalisationWildcardMatchesWhenValidationDisabled(t *testing.T) {
	model := schema.NewModel()
	locKey := intern.Intern("localisation")
	anyKey := intern.Intern("some_custom_key")
	block := blockWith(map[intern.Sym]schema.Property{
		locKey: {Type: schema.SimpleType{Kind: schema.SimpleLocalisation}},
	})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{ValidateLocalisation: false})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, anyKey)
	qt.Assert(t, qt.Equals(res.Kind, Success))
	simp, ok := res.One.Type().(schema.SimpleType)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(simp.Kind, schema.SimpleLocalisation))
}

func TestNavigateLocalisationWildcardDoesNotMatchWhenValidationEnabled(t *testing.T) {
	model := schema.NewModel()
	locKey := intern.Intern("localisation")
	anyKey := intern.Intern("some_custom_key")
	block := blockWith(map[intern.Sym]schema.Property{
		locKey: {Type: schema.SimpleType{Kind: schema.SimpleLocalisation}},
	})
	r := resolve.New(model, nil)
	n := New(model, r, nil, Config{ValidateLocalisation: true})
	st := scopedtype.New(block, scope.New(intern.Intern("country"), 0), nil)

	res := n.Navigate(st, anyKey)
	qt.Assert(t, qt.Equals(res.Kind, NotFound))
}
