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

package token

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestFilePositionLineColumn(t *testing.T) {
	content := []byte("a = b\nc = d\ne = f")
	f := NewFile("doc.txt", len(content))
	f.SetLinesForContent(content)

	pos := f.Pos(6) // 'c', first byte of line 2
	got := f.Position(pos)
	qt.Assert(t, qt.Equals(got.Line, 2))
	qt.Assert(t, qt.Equals(got.Column, 1))
	qt.Assert(t, qt.Equals(got.Filename, "doc.txt"))
}

func TestFilePositionFirstLine(t *testing.T) {
	content := []byte("a = b\nc = d")
	f := NewFile("doc.txt", len(content))
	f.SetLinesForContent(content)

	got := f.Position(f.Pos(2))
	qt.Assert(t, qt.Equals(got.Line, 1))
	qt.Assert(t, qt.Equals(got.Column, 3))
}

func TestPosClampsToFileBounds(t *testing.T) {
	f := NewFile("doc.txt", 5)
	qt.Assert(t, qt.Equals(f.Offset(f.Pos(-1)), 0))
	qt.Assert(t, qt.Equals(f.Offset(f.Pos(100)), 5))
}

func TestSpanContainsAndLen(t *testing.T) {
	outer := Span{Start: 0, End: 10}
	inner := Span{Start: 2, End: 5}
	qt.Assert(t, qt.IsTrue(outer.Contains(inner)))
	qt.Assert(t, qt.IsFalse(inner.Contains(outer)))
	qt.Assert(t, qt.Equals(inner.Len(), 3))
}

func TestSpanText(t *testing.T) {
	content := []byte("hello world")
	f := NewFile("t.txt", len(content))
	s := Span{Start: f.Pos(6), End: f.Pos(11)}
	qt.Assert(t, qt.Equals(string(s.Text(content)), "world"))
}

func TestNoPosInvalid(t *testing.T) {
	qt.Assert(t, qt.IsFalse(NoPos.IsValid()))
	qt.Assert(t, qt.IsFalse(NoSpan.IsValid()))
}

func TestPositionStringUnresolved(t *testing.T) {
	p := Position{Filename: "doc.txt"}
	qt.Assert(t, qt.Equals(p.String(), "doc.txt"))
}
