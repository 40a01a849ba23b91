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

package scanner

import (
	"testing"

	"github.com/cwtools/cwtools-go/ast"
	"github.com/cwtools/cwtools-go/token"
	"github.com/go-quicktest/qt"
)

func newScanner(src string) *Scanner {
	s := new(Scanner)
	f := token.NewFile("test", len(src))
	s.Init(f, []byte(src), nil)
	return s
}

func TestScanIdent(t *testing.T) {
	s := newScanner("owner_name = rest")
	qt.Assert(t, qt.IsTrue(s.CanStartIdent()))
	text, _ := s.ScanIdent()
	qt.Assert(t, qt.Equals(text, "owner_name"))
	qt.Assert(t, qt.Equals(s.Ch(), ' '))
}

func TestScanIdentAllowsKeyRunes(t *testing.T) {
	s := newScanner("event_target:owner ")
	text, _ := s.ScanIdent()
	qt.Assert(t, qt.Equals(text, "event_target:owner"))
}

func TestScanQuotedResolvesEscapes(t *testing.T) {
	s := newScanner(`"a\"b\\c"`)
	text, _, terminated := s.ScanQuoted()
	qt.Assert(t, qt.IsTrue(terminated))
	qt.Assert(t, qt.Equals(text, `a"b\c`))
}

func TestScanQuotedUnterminatedAtNewline(t *testing.T) {
	s := newScanner("\"abc\nrest")
	_, _, terminated := s.ScanQuoted()
	qt.Assert(t, qt.IsFalse(terminated))
}

func TestScanNumberIntegerAndFraction(t *testing.T) {
	s := newScanner("-12.5 rest")
	text, _ := s.ScanNumber()
	qt.Assert(t, qt.Equals(text, "-12.5"))
}

func TestScanNumberStopsBeforeSecondDot(t *testing.T) {
	s := newScanner("1.2.3")
	text, _ := s.ScanNumber()
	qt.Assert(t, qt.Equals(text, "1.2"))
}

func TestLooksLikeNumberStart(t *testing.T) {
	qt.Assert(t, qt.IsTrue(newScanner("42").LooksLikeNumberStart()))
	qt.Assert(t, qt.IsTrue(newScanner("-1").LooksLikeNumberStart()))
	qt.Assert(t, qt.IsFalse(newScanner("-x").LooksLikeNumberStart()))
	qt.Assert(t, qt.IsFalse(newScanner("abc").LooksLikeNumberStart()))
}

func TestMatchOperatorLongestFirst(t *testing.T) {
	s := newScanner(">= 1")
	tok, ok := s.MatchOperator()
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(tok, token.GTR_EQ))
}

func TestMatchOperatorSingleChar(t *testing.T) {
	s := newScanner("= 1")
	tok, ok := s.MatchOperator()
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(tok, token.ASSIGN))
}

func TestAtTerminator(t *testing.T) {
	s := newScanner("a}")
	s.Advance()
	qt.Assert(t, qt.IsTrue(s.AtTerminator()))
}

func TestSkipSpaceAndCommentsTiers(t *testing.T) {
	src := "# regular\n## option\n### doc\nkey"
	s := newScanner(src)
	groups := s.SkipSpaceAndComments()
	qt.Assert(t, qt.HasLen(groups, 3))
	qt.Assert(t, qt.Equals(groups[0].Tier, ast.Regular))
	qt.Assert(t, qt.Equals(groups[1].Tier, ast.Option))
	qt.Assert(t, qt.Equals(groups[2].Tier, ast.Doc))
	qt.Assert(t, qt.Equals(s.Ch(), 'k'))
}

func TestSkipSpaceAndCommentsBlankLineSplitsGroup(t *testing.T) {
	src := "# first\n\n# second\nkey"
	s := newScanner(src)
	groups := s.SkipSpaceAndComments()
	qt.Assert(t, qt.HasLen(groups, 2))
}

func TestBOMConsumedSilently(t *testing.T) {
	src := "﻿key"
	s := newScanner(src)
	qt.Assert(t, qt.Equals(s.Ch(), 'k'))
}

func TestScanUntilRBrack(t *testing.T) {
	s := newScanner("1 + 2]rest")
	text, _, closed := s.ScanUntilRBrack()
	qt.Assert(t, qt.IsTrue(closed))
	qt.Assert(t, qt.Equals(text, "1 + 2"))
}
