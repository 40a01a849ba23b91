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

// Package token defines source positions and the token kinds shared by the
// script and schema scanners and parsers.
package token

import "sort"

// Pos is a byte offset into a [File]'s buffer plus one (see [File.Pos] and
// [File.Offset]), so that the zero value, [NoPos], carries no position
// information.
type Pos int

// NoPos is the zero [Pos]. [Pos.IsValid] reports false for it.
const NoPos Pos = 0

// IsValid reports whether p denotes a valid position.
func (p Pos) IsValid() bool { return p != NoPos }

// Add returns p shifted by n bytes; used to turn a closing delimiter's
// position into the position just past it.
func (p Pos) Add(n int) Pos { return p + Pos(n) }

// Span is a half-open byte range [Start, End) into a [File]'s buffer. Every
// AST node carries one; a parent span always covers each of its children's
// spans.
type Span struct {
	Start, End Pos
}

// NoSpan is the zero [Span].
var NoSpan = Span{}

// IsValid reports whether the span has a valid Start and an End that is not
// before it; an empty span is valid.
func (s Span) IsValid() bool { return s.Start.IsValid() && s.End >= s.Start }

// Contains reports whether s fully contains o.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Len returns the number of bytes spanned.
func (s Span) Len() int { return int(s.End - s.Start) }

// Position is the human-readable unpacking of a [Pos]: filename, 1-based
// line and column, and the raw byte offset.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// IsValid reports whether the position has a meaningful line number.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		if p.Filename != "" {
			return p.Filename
		}
		return "-"
	}
	s := p.Filename
	if s != "" {
		s += ":"
	}
	return s + itoa(p.Line) + ":" + itoa(p.Column)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// File tracks the byte offset of every line start for a single document
// buffer, so that a [Pos] can be unpacked into a [Position] on demand. One
// File exists per parsed document; unlike a multi-file build system this
// package never merges positions across files.
type File struct {
	name  string
	size  int
	lines []int // offsets of the first byte of each line; lines[0] == 0
}

// NewFile creates a File for a document of the given name and size. Line
// offsets are added as the scanner discovers them via [File.AddLine], or in
// bulk via [File.SetLinesForContent].
func NewFile(name string, size int) *File {
	return &File{name: name, size: size, lines: []int{0}}
}

// Name returns the file's name.
func (f *File) Name() string { return f.name }

// Size returns the file's content length in bytes.
func (f *File) Size() int { return f.size }

// AddLine records the offset of the first byte following a newline. Offsets
// must be added in increasing order; out-of-order or out-of-range offsets
// are ignored.
func (f *File) AddLine(offset int) {
	if n := len(f.lines); (n == 0 || f.lines[n-1] < offset) && offset < f.size {
		f.lines = append(f.lines, offset)
	}
}

// SetLinesForContent scans content for newlines and records every line
// start in one pass; it is typically cheaper than calling [File.AddLine]
// from the scanner one byte at a time for documents read from disk.
func (f *File) SetLinesForContent(content []byte) {
	lines := []int{0}
	for offset, b := range content {
		if b == '\n' && offset+1 < len(content) {
			lines = append(lines, offset+1)
		}
	}
	f.lines = lines
}

// Pos returns the [Pos] value for a byte offset in this file, clamped to
// [0, Size()].
func (f *File) Pos(offset int) Pos {
	switch {
	case offset < 0:
		offset = 0
	case offset > f.size:
		offset = f.size
	}
	return Pos(offset + 1)
}

// Offset returns the byte offset for a [Pos] produced by this file.
func (f *File) Offset(p Pos) int {
	if !p.IsValid() {
		return 0
	}
	return int(p) - 1
}

// Position unpacks p into a human-readable [Position].
func (f *File) Position(p Pos) Position {
	if !p.IsValid() {
		return Position{}
	}
	offset := f.Offset(p)
	line := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Position{
		Filename: f.name,
		Offset:   offset,
		Line:     line + 1,
		Column:   offset - f.lines[line] + 1,
	}
}

// PositionOf unpacks a [Span]'s start position.
func (f *File) PositionOf(s Span) Position { return f.Position(s.Start) }

// Text returns the substring of content identified by s. The caller must
// pass the same buffer the file's positions were computed from.
func (s Span) Text(content []byte) []byte {
	if !s.IsValid() {
		return nil
	}
	return content[s.Start-1 : s.End-1]
}
