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

// Package scanner implements the low-level rune scanner shared by the
// script and schema parsers (spec §4.1). The two dialects differ in
// grammar, not in their lexical primitives — identifier charset, quoted and
// raw string escaping, decimal number scanning, and `#`-comment tiering are
// identical — so one scanner engine backs both, in the shape of
// cuelang.org/go's cue/scanner (next()/offset/rdOffset rune buffering, BOM
// handling, comment scanning) adapted to this dialect's own character set
// and tokens.
package scanner

import (
	"unicode/utf8"

	"github.com/cwtools/cwtools-go/ast"
	"github.com/cwtools/cwtools-go/token"
)

const bom = 0xFEFF

// Scanner holds the mutable state of a single scanning pass over one
// document buffer. It must be initialized with [Scanner.Init] before use.
type Scanner struct {
	file *token.File
	src  []byte

	ch       rune // current lookahead rune, -1 at EOF
	offset   int  // offset of ch
	rdOffset int  // offset of the rune after ch

	ErrorCount int
	onError    func(pos token.Pos, msg string)
}

// Init prepares s to scan src, whose length must equal file.Size(). A
// leading UTF-8 BOM is consumed silently (spec §4.1 "A UTF-8 BOM is
// permitted at module start").
func (s *Scanner) Init(file *token.File, src []byte, onError func(token.Pos, string)) {
	s.file = file
	s.src = src
	s.onError = onError
	s.offset = 0
	s.rdOffset = 0
	s.ch = ' '
	s.ErrorCount = 0
	s.advance()
	if s.ch == bom {
		s.advance()
	}
}

// advance reads the next rune into s.ch.
func (s *Scanner) advance() {
	if s.rdOffset < len(s.src) {
		s.offset = s.rdOffset
		if s.ch == '\n' {
			s.file.AddLine(s.offset)
		}
		r, w := rune(s.src[s.rdOffset]), 1
		if r >= utf8.RuneSelf {
			r, w = utf8.DecodeRune(s.src[s.rdOffset:])
			if r == utf8.RuneError && w == 1 {
				s.error(s.offset, "illegal UTF-8 encoding")
			}
		}
		s.rdOffset += w
		s.ch = r
	} else {
		s.offset = len(s.src)
		if s.ch == '\n' {
			s.file.AddLine(s.offset)
		}
		s.ch = -1
	}
}

func (s *Scanner) error(offset int, msg string) {
	s.ErrorCount++
	if s.onError != nil {
		s.onError(s.file.Pos(offset), msg)
	}
}

// File returns the token.File this scanner positions against.
func (s *Scanner) File() *token.File { return s.file }

// Ch returns the current lookahead rune, or -1 at end of input.
func (s *Scanner) Ch() rune { return s.ch }

// Offset returns the byte offset of the current lookahead rune.
func (s *Scanner) Offset() int { return s.offset }

// Pos returns the [token.Pos] of the current lookahead rune.
func (s *Scanner) Pos() token.Pos { return s.file.Pos(s.offset) }

// Advance consumes the current lookahead rune.
func (s *Scanner) Advance() { s.advance() }

// AtEOF reports whether the scanner has consumed all input.
func (s *Scanner) AtEOF() bool { return s.ch < 0 }

// isSpace reports whether r is scanner whitespace: ASCII whitespace (spec
// §4.1 "Whitespace comprises ASCII whitespace plus `#…EOL`").
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

// isKeyRune reports whether r may appear anywhere in an unquoted
// identifier (spec §3: `[A-Za-z0-9_:.@|/$'-]`).
func isKeyRune(r rune) bool {
	switch r {
	case ':', '.', '@', '|', '/', '$', '\'', '-', '_':
		return true
	}
	return isLetter(r) || isDigit(r)
}

// isKeyStartRune reports whether r may start an unquoted identifier (spec
// §3: "first char excludes `:.|/'`").
func isKeyStartRune(r rune) bool {
	switch r {
	case ':', '.', '|', '/', '\'':
		return false
	}
	return isKeyRune(r)
}

// SkipSpaceAndComments advances past whitespace and `#`-comments, returning
// every comment group encountered, classified by tier (spec §3). A group
// ends at a blank line or a change in tier.
func (s *Scanner) SkipSpaceAndComments() []*ast.CommentGroup {
	var groups []*ast.CommentGroup
	var cur *ast.CommentGroup
	flush := func() {
		if cur != nil {
			groups = append(groups, cur)
			cur = nil
		}
	}
	blankSinceComment := false
	for {
		switch {
		case isSpace(s.ch):
			if s.ch == '\n' {
				if blankSinceComment {
					flush()
				}
				blankSinceComment = cur != nil
			}
			s.advance()
		case s.ch == '#':
			tier, text, span := s.scanCommentLine()
			if cur != nil && cur.Tier != tier {
				flush()
			}
			if cur == nil {
				cur = &ast.CommentGroup{Tier: tier}
				setSpan(cur, span)
			} else {
				exp := cur.Span()
				setSpan(cur, token.Span{Start: exp.Start, End: span.End})
			}
			c := &ast.Comment{Text: text}
			setSpan(c, span)
			cur.Lines = append(cur.Lines, c)
			blankSinceComment = false
		default:
			flush()
			return groups
		}
	}
}

// scanCommentLine scans one `#`/`##`/`###` line to end-of-line (exclusive)
// and returns its tier, trimmed text, and span.
func (s *Scanner) scanCommentLine() (ast.CommentTier, string, token.Span) {
	start := s.offset
	n := 0
	for s.ch == '#' {
		n++
		s.advance()
	}
	tier := ast.Regular
	switch {
	case n >= 3:
		tier = ast.Doc
	case n == 2:
		tier = ast.Option
	}
	if s.ch == ' ' {
		s.advance()
	}
	textStart := s.offset
	for s.ch != '\n' && s.ch >= 0 {
		s.advance()
	}
	text := string(s.src[textStart:s.offset])
	return tier, text, token.Span{Start: s.file.Pos(start), End: s.file.Pos(s.offset)}
}

// ScanIdent scans an unquoted identifier/key starting at the current
// position, which must satisfy [isKeyStartRune].
func (s *Scanner) ScanIdent() (string, token.Span) {
	start := s.offset
	s.advance() // first rune already validated by caller
	for isKeyRune(s.ch) {
		s.advance()
	}
	return string(s.src[start:s.offset]), token.Span{Start: s.file.Pos(start), End: s.file.Pos(s.offset)}
}

// CanStartIdent reports whether the current lookahead rune can start an
// unquoted identifier.
func (s *Scanner) CanStartIdent() bool { return isKeyStartRune(s.ch) }

// ScanQuoted scans a double-quoted string; the opening quote must already
// be the current rune. Only `\\` and `\"` are honoured as escapes (spec
// §4.1). The returned text has quotes and escapes resolved.
func (s *Scanner) ScanQuoted() (text string, span token.Span, terminated bool) {
	start := s.offset
	s.advance() // consume opening quote
	var buf []byte
	for {
		switch {
		case s.ch == '"':
			s.advance()
			return string(buf), token.Span{Start: s.file.Pos(start), End: s.file.Pos(s.offset)}, true
		case s.ch < 0 || s.ch == '\n':
			return string(buf), token.Span{Start: s.file.Pos(start), End: s.file.Pos(s.offset)}, false
		case s.ch == '\\':
			s.advance()
			switch s.ch {
			case '"':
				buf = append(buf, '"')
				s.advance()
			case '\\':
				buf = append(buf, '\\')
				s.advance()
			default:
				buf = append(buf, '\\')
			}
		default:
			var b [utf8.UTFMax]byte
			n := utf8.EncodeRune(b[:], s.ch)
			buf = append(buf, b[:n]...)
			s.advance()
		}
	}
}

// ScanNumber scans `[+-]?\d+(\.\d+)?`. The caller is responsible for
// checking that a legal terminator follows (spec §4.1 "Operators and
// terminators"; spec §8 scenario 8).
func (s *Scanner) ScanNumber() (string, token.Span) {
	start := s.offset
	if s.ch == '+' || s.ch == '-' {
		s.advance()
	}
	for isDigit(s.ch) {
		s.advance()
	}
	if s.ch == '.' {
		// Only consume the dot if followed by a digit; `1.2.3` must not be
		// treated as a single number (spec §8 scenario 8).
		if p := s.offset + 1; p < len(s.src) && isDigit(rune(s.src[p])) {
			s.advance()
			for isDigit(s.ch) {
				s.advance()
			}
		}
	}
	return string(s.src[start:s.offset]), token.Span{Start: s.file.Pos(start), End: s.file.Pos(s.offset)}
}

// LooksLikeNumberStart reports whether the current rune could start a
// number literal.
func (s *Scanner) LooksLikeNumberStart() bool {
	if isDigit(s.ch) {
		return true
	}
	if s.ch == '+' || s.ch == '-' {
		p := s.offset + 1
		return p < len(s.src) && isDigit(rune(s.src[p]))
	}
	return false
}

// ScanUntilRBrack scans raw text up to (not including) the next `]`,
// without interpreting escapes; used for the opaque `@[...]`/`@\[...]`
// inline-maths body (spec §4.1).
func (s *Scanner) ScanUntilRBrack() (string, token.Span, bool) {
	start := s.offset
	for s.ch != ']' {
		if s.ch < 0 {
			return string(s.src[start:s.offset]), token.Span{Start: s.file.Pos(start), End: s.file.Pos(s.offset)}, false
		}
		s.advance()
	}
	return string(s.src[start:s.offset]), token.Span{Start: s.file.Pos(start), End: s.file.Pos(s.offset)}, true
}

// AtTerminator reports whether the current position is a legal value
// terminator: whitespace, `}`, `=`, `]`, `#` (a comment start), or EOF
// (spec §4.1).
func (s *Scanner) AtTerminator() bool {
	return s.ch < 0 || isSpace(s.ch) || s.ch == '}' || s.ch == '=' || s.ch == ']' || s.ch == '#'
}

// MatchOperator tries the dialect's operator table in declining length
// (spec §4.1) starting at the current position and, on a match, advances
// past it.
func (s *Scanner) MatchOperator() (token.Token, bool) {
	for _, op := range token.Operators {
		if s.hasPrefix(op.Text) {
			for range op.Text {
				s.advance()
			}
			return op.Tok, true
		}
	}
	return token.ILLEGAL, false
}

func (s *Scanner) hasPrefix(text string) bool {
	if len(text) == 1 {
		return s.ch == rune(text[0])
	}
	if s.offset+len(text) > len(s.src) {
		return false
	}
	return string(s.src[s.offset:s.offset+len(text)]) == text
}

// setSpan is a small helper that lets this package, which cannot reach
// ast.base directly, position a freshly built comment node by re-wrapping
// it through an exported setter on the node itself.
func setSpan(n interface{ SetSpan(token.Span) }, span token.Span) {
	n.SetSpan(span)
}
