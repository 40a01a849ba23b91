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

package parser

import (
	"testing"

	"github.com/cwtools/cwtools-go/ast"
	"github.com/cwtools/cwtools-go/errors"
	"github.com/cwtools/cwtools-go/intern"
	"github.com/go-quicktest/qt"
)

func firstParseError(t *testing.T, err error) *errors.ParseError {
	t.Helper()
	list, ok := err.(errors.List)
	if !ok || len(list) == 0 {
		t.Fatalf("expected a non-empty errors.List, got %#v", err)
	}
	pe, ok := list[0].(*errors.ParseError)
	if !ok {
		t.Fatalf("expected *errors.ParseError, got %#v", list[0])
	}
	return pe
}

func TestParseScriptSimpleAssignment(t *testing.T) {
	mod, err := ParseScript("t.txt", []byte(`owner = "some_country"`))
	qt.Assert(t, qt.IsNil(err))
	keys := mod.Properties.Keys()
	qt.Assert(t, qt.HasLen(keys, 1))
	qt.Assert(t, qt.Equals(keys[0], intern.Intern("owner")))
	exprs := mod.Properties.Get(keys[0])
	qt.Assert(t, qt.HasLen(exprs, 1))
	lit, ok := exprs[0].Value.(*ast.StringLit)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(lit.Quoted))
	qt.Assert(t, qt.Equals(lit.Value, intern.Intern("some_country")))
}

func TestParseScriptNestedEntity(t *testing.T) {
	mod, err := ParseScript("t.txt", []byte(`limit = { owner = { is_ai = yes } }`))
	qt.Assert(t, qt.IsNil(err))
	exprs := mod.Properties.Get(intern.Intern("limit"))
	qt.Assert(t, qt.HasLen(exprs, 1))
	outer, ok := exprs[0].Value.(*ast.Entity)
	qt.Assert(t, qt.IsTrue(ok))
	ownerExprs := outer.Properties.Get(intern.Intern("owner"))
	qt.Assert(t, qt.HasLen(ownerExprs, 1))
	inner, ok := ownerExprs[0].Value.(*ast.Entity)
	qt.Assert(t, qt.IsTrue(ok))
	isAI := inner.Properties.Get(intern.Intern("is_ai"))
	qt.Assert(t, qt.HasLen(isAI, 1))
	b, ok := isAI[0].Value.(*ast.BoolLit)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(b.Value))
}

func TestParseScriptBareValueList(t *testing.T) {
	mod, err := ParseScript("t.txt", []byte(`targets = { 1 2 3 }`))
	qt.Assert(t, qt.IsNil(err))
	exprs := mod.Properties.Get(intern.Intern("targets"))
	qt.Assert(t, qt.HasLen(exprs, 1))
	e, ok := exprs[0].Value.(*ast.Entity)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(e.Items, 3))
	for i, want := range []string{"1", "2", "3"} {
		n, ok := e.Items[i].(*ast.NumberLit)
		qt.Assert(t, qt.IsTrue(ok))
		qt.Assert(t, qt.Equals(n.Text, want))
	}
}

func TestParseScriptConditionalBlock(t *testing.T) {
	mod, err := ParseScript("t.txt", []byte(`[[has_dlc] owner = "dlc_country" ]`))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(mod.Properties.Len(), 0))
	// reaching Items/Conditionals requires walking the module's own fields;
	// the module doesn't expose Conditionals directly so re-parse as the
	// entity produced by wrapping in braces instead.
	mod2, err2 := ParseScript("t2.txt", []byte(`block = { [[has_dlc] owner = "dlc_country" ] }`))
	qt.Assert(t, qt.IsNil(err2))
	exprs := mod2.Properties.Get(intern.Intern("block"))
	qt.Assert(t, qt.HasLen(exprs, 1))
	e, ok := exprs[0].Value.(*ast.Entity)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(e.Conditionals, 1))
	cb := e.Conditionals[0]
	qt.Assert(t, qt.IsFalse(cb.Negated))
	qt.Assert(t, qt.Equals(cb.Key, intern.Intern("has_dlc")))
	ownerExprs := cb.Properties.Get(intern.Intern("owner"))
	qt.Assert(t, qt.HasLen(ownerExprs, 1))
}

func TestParseScriptConditionalBlockNegated(t *testing.T) {
	mod, err := ParseScript("t.txt", []byte(`block = { [[!has_dlc] owner = "base_country" ] }`))
	qt.Assert(t, qt.IsNil(err))
	e := mod.Properties.Get(intern.Intern("block"))[0].Value.(*ast.Entity)
	qt.Assert(t, qt.HasLen(e.Conditionals, 1))
	qt.Assert(t, qt.IsTrue(e.Conditionals[0].Negated))
}

// TestParseScriptNestedConditionalBlockIsRejected is a regression test for
// the conditional-block nesting guard: a `[[...]]` found directly inside
// another conditional block's own items is not a legal nested block.
func TestParseScriptNestedConditionalBlockIsRejected(t *testing.T) {
	_, err := ParseScript("t.txt", []byte(`[[outer] [[inner] owner = "x" ] ]`))
	qt.Assert(t, qt.Not(qt.IsNil(err)))
	pe := firstParseError(t, err)
	qt.Assert(t, qt.Equals(pe.Expected, ""))
}

func TestParseScriptMathsLiteral(t *testing.T) {
	mod, err := ParseScript("t.txt", []byte(`value = @[ 1 + 2 ]`))
	qt.Assert(t, qt.IsNil(err))
	exprs := mod.Properties.Get(intern.Intern("value"))
	m, ok := exprs[0].Value.(*ast.MathsLit)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsFalse(m.Escaped))
	qt.Assert(t, qt.Equals(m.Text, " 1 + 2 "))
}

func TestParseScriptMathsLiteralEscaped(t *testing.T) {
	mod, err := ParseScript("t.txt", []byte(`value = @\[ 1 + 2 ]`))
	qt.Assert(t, qt.IsNil(err))
	m := mod.Properties.Get(intern.Intern("value"))[0].Value.(*ast.MathsLit)
	qt.Assert(t, qt.IsTrue(m.Escaped))
}

func TestParseScriptColorLiteral(t *testing.T) {
	mod, err := ParseScript("t.txt", []byte(`colour = rgb { 10 20 30 }`))
	qt.Assert(t, qt.IsNil(err))
	lit, ok := mod.Properties.Get(intern.Intern("colour"))[0].Value.(*ast.ColorLit)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(lit.Kind, ast.RGB))
	qt.Assert(t, qt.Equals(lit.A, "10"))
	qt.Assert(t, qt.Equals(lit.C, "30"))
	qt.Assert(t, qt.IsFalse(lit.HasD))
}

func TestParseScriptColorLiteralFourComponents(t *testing.T) {
	mod, err := ParseScript("t.txt", []byte(`colour = hsv { 1 2 3 4 }`))
	qt.Assert(t, qt.IsNil(err))
	lit := mod.Properties.Get(intern.Intern("colour"))[0].Value.(*ast.ColorLit)
	qt.Assert(t, qt.Equals(lit.Kind, ast.HSV))
	qt.Assert(t, qt.IsTrue(lit.HasD))
	qt.Assert(t, qt.Equals(lit.D, "4"))
}

func TestParseScriptNumberTerminatorEnforced(t *testing.T) {
	_, err := ParseScript("t.txt", []byte(`value = 12abc`))
	qt.Assert(t, qt.Not(qt.IsNil(err)))
	pe := firstParseError(t, err)
	qt.Assert(t, qt.Equals(pe.Expected, "value terminator"))
}

func TestParseScriptUnterminatedEntity(t *testing.T) {
	_, err := ParseScript("t.txt", []byte(`a = { b = 1`))
	qt.Assert(t, qt.Not(qt.IsNil(err)))
	pe := firstParseError(t, err)
	qt.Assert(t, qt.Equals(pe.Expected, "}"))
}

func TestParseScriptTrailingInputRejected(t *testing.T) {
	_, err := ParseScript("t.txt", []byte(`a = 1 }`))
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}

func TestParseScriptReadmePlaceholderSkipsScanning(t *testing.T) {
	mod, err := ParseScript("events/99_README.txt", []byte(`this is not valid cwt {{{`))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(mod.Properties.Len(), 0))
}

func TestParseSchemaSimpleValueAtom(t *testing.T) {
	mod, err := ParseSchema("t.cwt", []byte(`owner = scalar`))
	qt.Assert(t, qt.IsNil(err))
	atom, ok := mod.Properties.Get(intern.Intern("owner"))[0].Value.(*ast.SimpleValueAtom)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(atom.Atom, "scalar"))
	qt.Assert(t, qt.IsNil(atom.Range))
}

func TestParseSchemaSimpleValueAtomWithRange(t *testing.T) {
	mod, err := ParseSchema("t.cwt", []byte(`count = int[0..10]`))
	qt.Assert(t, qt.IsNil(err))
	atom := mod.Properties.Get(intern.Intern("count"))[0].Value.(*ast.SimpleValueAtom)
	qt.Assert(t, qt.Equals(atom.Atom, "int"))
	qt.Assert(t, qt.Not(qt.IsNil(atom.Range)))
	qt.Assert(t, qt.Equals(atom.Range.Min.Text, "0"))
	qt.Assert(t, qt.Equals(atom.Range.Max.Text, "10"))
}

func TestParseSchemaSimpleValueAtomWithRangeThreeDots(t *testing.T) {
	mod, err := ParseSchema("t.cwt", []byte(`count = float[0...inf]`))
	qt.Assert(t, qt.IsNil(err))
	atom := mod.Properties.Get(intern.Intern("count"))[0].Value.(*ast.SimpleValueAtom)
	qt.Assert(t, qt.IsTrue(atom.Range.Max.Inf))
}

func TestParseSchemaComplexKeyBracketForm(t *testing.T) {
	mod, err := ParseSchema("t.cwt", []byte(`type[scope:army] = { owner = scalar }`))
	qt.Assert(t, qt.IsNil(err))
	keys := mod.Properties.Keys()
	qt.Assert(t, qt.HasLen(keys, 1))
	qt.Assert(t, qt.Equals(keys[0], intern.Intern("type[scope:army]")))
}

func TestParseSchemaComplexKeyAngleForm(t *testing.T) {
	mod, err := ParseSchema("t.cwt", []byte(`alias_name<event_effect>trigger_effect = scalar`))
	qt.Assert(t, qt.IsNil(err))
	keys := mod.Properties.Keys()
	qt.Assert(t, qt.HasLen(keys, 1))
	qt.Assert(t, qt.Equals(keys[0], intern.Intern("alias_name<event_effect>trigger_effect")))
}

func TestParseSchemaHasNoConditionalBlocks(t *testing.T) {
	// In the schema dialect a leading '[' is not a conditional-block marker;
	// it is only ever consumed as part of a complex key's bracket form, so a
	// bare '[' at item-start position is simply an invalid item.
	_, err := ParseSchema("t.cwt", []byte(`[foo] = scalar`))
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}

func TestParseSchemaOptionComments(t *testing.T) {
	opt, err := ParseCommentOptions("t.cwt", " cardinality = 0..1 required")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(opt.Entries, 2))
	qt.Assert(t, qt.Equals(opt.Entries[0].Key, "cardinality"))
	rng, ok := opt.Entries[0].Value.(*ast.Range)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(rng.Min.Text, "0"))
	qt.Assert(t, qt.Equals(rng.Max.Text, "1"))
	qt.Assert(t, qt.IsTrue(opt.Entries[1].Bare))
	qt.Assert(t, qt.Equals(opt.Entries[1].Key, "required"))
}

func TestParseSchemaOptionCommentNegated(t *testing.T) {
	opt, err := ParseCommentOptions("t.cwt", "severity != error")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(opt.Entries, 1))
	qt.Assert(t, qt.IsTrue(opt.Entries[0].Negated))
	atom, ok := opt.Entries[0].Value.(*ast.OptionAtom)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(atom.Text, "error"))
}

func TestParseSchemaOptionCommentBlock(t *testing.T) {
	opt, err := ParseCommentOptions("t.cwt", "push_scope = { army fleet }")
	qt.Assert(t, qt.IsNil(err))
	block, ok := opt.Entries[0].Value.(*ast.OptionBlock)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(block.Entries, 2))
	qt.Assert(t, qt.Equals(block.Entries[0].Key, "army"))
	qt.Assert(t, qt.IsTrue(block.Entries[0].Bare))
}
