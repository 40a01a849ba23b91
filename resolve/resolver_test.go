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

package resolve

import (
	"testing"

	"github.com/cwtools/cwtools-go/intern"
	"github.com/cwtools/cwtools-go/schema"
	"github.com/go-quicktest/qt"
)

type fakeSource struct {
	keys    map[string][]intern.Sym
	keySets map[string][]intern.Sym
	args    map[intern.Sym][]intern.Sym
}

func (f fakeSource) KeysOf(path string) ([]intern.Sym, bool) {
	v, ok := f.keys[path]
	return v, ok
}

func (f fakeSource) KeysSetOf(path string) ([]intern.Sym, bool) {
	v, ok := f.keySets[path]
	return v, ok
}

func (f fakeSource) ScriptedEffectArguments(name intern.Sym) ([]intern.Sym, bool) {
	v, ok := f.args[name]
	return v, ok
}

func TestResolverResolvesTypeReferenceViaGameData(t *testing.T) {
	model := schema.NewModel()
	model.Types[intern.Intern("army")] = &schema.TypeDefinition{Name: intern.Intern("army"), Path: "game/common/armies"}
	data := fakeSource{keys: map[string][]intern.Sym{
		"game/common/armies": {intern.Intern("first_army"), intern.Intern("second_army")},
	}}
	r := New(model, data)

	resolved := r.ResolveType(schema.ReferenceType{Kind: schema.RefKind{Tag: schema.RefType, Key: intern.Intern("army")}})
	set, ok := resolved.(schema.LiteralSetType)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(set.Values, 2))
}

func TestResolverUnresolvedTypeReferenceWithoutGameData(t *testing.T) {
	model := schema.NewModel()
	model.Types[intern.Intern("army")] = &schema.TypeDefinition{Name: intern.Intern("army"), Path: "game/common/armies"}
	r := New(model, nil)
	resolved := r.ResolveType(schema.ReferenceType{Kind: schema.RefKind{Tag: schema.RefType, Key: intern.Intern("army")}})
	_, ok := resolved.(schema.ReferenceType)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestResolverResolvesEnumReference(t *testing.T) {
	model := schema.NewModel()
	model.Enums[intern.Intern("quality")] = &schema.EnumDef{Name: intern.Intern("quality"), Values: []intern.Sym{intern.Intern("common"), intern.Intern("rare")}}
	r := New(model, nil)
	resolved := r.ResolveType(schema.ReferenceType{Kind: schema.RefKind{Tag: schema.RefEnum, Key: intern.Intern("quality")}})
	set, ok := resolved.(schema.LiteralSetType)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(set.Values, 2))
}

func TestResolverUnwrapsComparable(t *testing.T) {
	r := New(schema.NewModel(), nil)
	resolved := r.ResolveType(schema.ComparableType{Inner: schema.SimpleType{Kind: schema.SimpleInt}})
	s, ok := resolved.(schema.SimpleType)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(s.Kind, schema.SimpleInt))
}

func TestResolverResolvesUnionMembers(t *testing.T) {
	model := schema.NewModel()
	model.Enums[intern.Intern("quality")] = &schema.EnumDef{Name: intern.Intern("quality"), Values: []intern.Sym{intern.Intern("common")}}
	r := New(model, nil)
	resolved := r.ResolveType(schema.UnionType{Members: []schema.Type{
		schema.ReferenceType{Kind: schema.RefKind{Tag: schema.RefEnum, Key: intern.Intern("quality")}},
		schema.SimpleType{Kind: schema.SimpleBool},
	}})
	u, ok := resolved.(schema.UnionType)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(u.Members, 2))
}

func TestResolverAliasMatchLeftWithNoCandidatesStaysUnresolved(t *testing.T) {
	model := schema.NewModel()
	cat := intern.Intern("cyclic")
	r := New(model, nil)

	// No aliases registered under this category: the resolver must
	// terminate with the original reference rather than loop forever.
	resolved := r.ResolveType(schema.ReferenceType{Kind: schema.RefKind{Tag: schema.RefAliasMatchLeft, Category: cat}})
	_, ok := resolved.(schema.ReferenceType)
	qt.Assert(t, qt.IsTrue(ok))
}

func TestResolverExpandsBlockEnumPatternsOnce(t *testing.T) {
	model := schema.NewModel()
	model.Enums[intern.Intern("quality")] = &schema.EnumDef{Name: intern.Intern("quality"), Values: []intern.Sym{intern.Intern("common"), intern.Intern("rare")}}
	r := New(model, nil)

	block := &schema.BlockType{
		Properties:   make(map[intern.Sym]schema.Property),
		EnumPatterns: []schema.EnumPatternEntry{{EnumKey: intern.Intern("quality"), ValueType: schema.SimpleType{Kind: schema.SimpleBool}}},
	}
	resolved := r.ResolveType(block).(*schema.BlockType)
	qt.Assert(t, qt.HasLen(resolved.Properties, 2))
	qt.Assert(t, qt.IsTrue(resolved.Expanded()))

	// Re-resolving is a no-op (memoised via Expanded).
	again := r.ResolveType(block).(*schema.BlockType)
	qt.Assert(t, qt.HasLen(again.Properties, 2))
}

func TestResolverAliasMatchLeftEmptyModelStaysUnresolved(t *testing.T) {
	model := schema.NewModel()
	r := New(model, nil)
	resolved := r.ResolveType(schema.ReferenceType{Kind: schema.RefKind{Tag: schema.RefAliasMatchLeft, Category: intern.Intern("effect")}})
	_, ok := resolved.(schema.ReferenceType)
	qt.Assert(t, qt.IsTrue(ok))
}
