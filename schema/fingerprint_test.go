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
	"testing"

	"github.com/cwtools/cwtools-go/intern"
	"github.com/go-quicktest/qt"
)

func TestFingerprintStableAcrossEqualValues(t *testing.T) {
	a := SimpleType{Kind: SimpleInt}
	b := SimpleType{Kind: SimpleInt}
	qt.Assert(t, qt.Equals(a.Fingerprint(), b.Fingerprint()))
}

func TestFingerprintDistinguishesKinds(t *testing.T) {
	a := SimpleType{Kind: SimpleInt}
	b := SimpleType{Kind: SimpleBool}
	qt.Assert(t, qt.Not(qt.Equals(a.Fingerprint(), b.Fingerprint())))
}

func TestFingerprintLiteralUsesResolvedText(t *testing.T) {
	a := LiteralType{Value: intern.Intern("fingerprint_test_value")}
	b := LiteralType{Value: intern.Intern("fingerprint_test_value")}
	qt.Assert(t, qt.Equals(a.Fingerprint(), b.Fingerprint()))
}

func TestFingerprintLiteralSetIgnoresOrder(t *testing.T) {
	a := LiteralSetType{Values: []intern.Sym{intern.Intern("fs_a"), intern.Intern("fs_b")}}
	b := LiteralSetType{Values: []intern.Sym{intern.Intern("fs_b"), intern.Intern("fs_a")}}
	qt.Assert(t, qt.Equals(a.Fingerprint(), b.Fingerprint()))
}

func TestFingerprintUnionIgnoresMemberOrder(t *testing.T) {
	a := UnionType{Members: []Type{SimpleType{Kind: SimpleInt}, SimpleType{Kind: SimpleBool}}}
	b := UnionType{Members: []Type{SimpleType{Kind: SimpleBool}, SimpleType{Kind: SimpleInt}}}
	qt.Assert(t, qt.Equals(a.Fingerprint(), b.Fingerprint()))
}

func TestFingerprintBlockIgnoresPropertyInsertionOrder(t *testing.T) {
	a := &BlockType{Properties: map[intern.Sym]Property{
		intern.Intern("fb_x"): {Type: SimpleType{Kind: SimpleInt}},
		intern.Intern("fb_y"): {Type: SimpleType{Kind: SimpleBool}},
	}}
	b := &BlockType{Properties: map[intern.Sym]Property{
		intern.Intern("fb_y"): {Type: SimpleType{Kind: SimpleBool}},
		intern.Intern("fb_x"): {Type: SimpleType{Kind: SimpleInt}},
	}}
	qt.Assert(t, qt.Equals(a.Fingerprint(), b.Fingerprint()))
}

func TestFingerprintBlockSensitiveToPropertyType(t *testing.T) {
	a := &BlockType{Properties: map[intern.Sym]Property{
		intern.Intern("fb_z"): {Type: SimpleType{Kind: SimpleInt}},
	}}
	b := &BlockType{Properties: map[intern.Sym]Property{
		intern.Intern("fb_z"): {Type: SimpleType{Kind: SimpleBool}},
	}}
	qt.Assert(t, qt.Not(qt.Equals(a.Fingerprint(), b.Fingerprint())))
}

func TestFingerprintReferenceDistinguishesTag(t *testing.T) {
	key := intern.Intern("fr_key")
	a := ReferenceType{Kind: RefKind{Tag: RefType, Key: key}}
	b := ReferenceType{Kind: RefKind{Tag: RefEnum, Key: key}}
	qt.Assert(t, qt.Not(qt.Equals(a.Fingerprint(), b.Fingerprint())))
}

func TestFingerprintArrayRecursesIntoElement(t *testing.T) {
	a := ArrayType{Element: SimpleType{Kind: SimpleInt}}
	b := ArrayType{Element: SimpleType{Kind: SimpleBool}}
	qt.Assert(t, qt.Not(qt.Equals(a.Fingerprint(), b.Fingerprint())))
}

func TestFingerprintBlockSensitiveToPatternPropertyContent(t *testing.T) {
	a := &BlockType{PatternProperties: []PatternProperty{
		{Kind: PatternEnum, Key: intern.Intern("fp_enum_a"), ValueType: SimpleType{Kind: SimpleInt}},
	}}
	b := &BlockType{PatternProperties: []PatternProperty{
		{Kind: PatternEnum, Key: intern.Intern("fp_enum_b"), ValueType: SimpleType{Kind: SimpleInt}},
	}}
	qt.Assert(t, qt.Not(qt.Equals(a.Fingerprint(), b.Fingerprint())))
}

func TestFingerprintBlockIgnoresPatternPropertyOrder(t *testing.T) {
	pp1 := PatternProperty{Kind: PatternScalar, ValueType: SimpleType{Kind: SimpleInt}}
	pp2 := PatternProperty{Kind: PatternInt, ValueType: SimpleType{Kind: SimpleBool}}
	a := &BlockType{PatternProperties: []PatternProperty{pp1, pp2}}
	b := &BlockType{PatternProperties: []PatternProperty{pp2, pp1}}
	qt.Assert(t, qt.Equals(a.Fingerprint(), b.Fingerprint()))
}

func TestFingerprintBlockSensitiveToSubtypeConditionProperties(t *testing.T) {
	subKey := intern.Intern("fb_subtype")
	a := &BlockType{Subtypes: map[intern.Sym]Subtype{
		subKey: {ConditionProperties: map[intern.Sym]Property{
			intern.Intern("fb_cond"): {Type: SimpleType{Kind: SimpleInt}},
		}},
	}}
	b := &BlockType{Subtypes: map[intern.Sym]Subtype{
		subKey: {ConditionProperties: map[intern.Sym]Property{
			intern.Intern("fb_cond"): {Type: SimpleType{Kind: SimpleBool}},
		}},
	}}
	qt.Assert(t, qt.Not(qt.Equals(a.Fingerprint(), b.Fingerprint())))
}

func TestFingerprintBlockSameCountDifferentSubtypesAreDistinct(t *testing.T) {
	a := &BlockType{Subtypes: map[intern.Sym]Subtype{
		intern.Intern("fb_sub_x"): {},
	}}
	b := &BlockType{Subtypes: map[intern.Sym]Subtype{
		intern.Intern("fb_sub_y"): {},
	}}
	qt.Assert(t, qt.Not(qt.Equals(a.Fingerprint(), b.Fingerprint())))
}

func TestFingerprintSimpleTypeSensitiveToDecimalRange(t *testing.T) {
	minA, err := ParseDecimal("0")
	qt.Assert(t, qt.IsNil(err))
	maxA, err := ParseDecimal("10")
	qt.Assert(t, qt.IsNil(err))
	minB, err := ParseDecimal("0")
	qt.Assert(t, qt.IsNil(err))
	maxB, err := ParseDecimal("20")
	qt.Assert(t, qt.IsNil(err))
	a := SimpleType{Kind: SimpleInt, Range: &DecimalRange{Min: minA, Max: maxA}}
	b := SimpleType{Kind: SimpleInt, Range: &DecimalRange{Min: minB, Max: maxB}}
	qt.Assert(t, qt.Not(qt.Equals(a.Fingerprint(), b.Fingerprint())))
}
