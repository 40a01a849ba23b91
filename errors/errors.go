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

// Package errors defines the diagnostic types shared by the parser, schema
// loader, scope stack and property navigator. It mirrors cuelang.org/go's
// cue/errors in shape: an [Error] interface, a sorting [List] accumulator,
// and Newf/Wrapf constructors — generalized to this dialect's own error
// kinds (spec §7 "Error Handling Design").
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cwtools/cwtools-go/token"
)

// Error is the common diagnostic type produced anywhere in this module.
type Error interface {
	error
	Position() token.Pos
	InputPositions() []token.Pos
}

// Newf creates a plain diagnostic at pos with a formatted message.
func Newf(pos token.Pos, format string, args ...interface{}) Error {
	return &posError{pos: pos, msg: fmt.Sprintf(format, args...)}
}

// Wrapf creates a diagnostic at pos that wraps an existing error, preserving
// Unwrap semantics.
func Wrapf(err error, pos token.Pos, format string, args ...interface{}) Error {
	return &posError{pos: pos, msg: fmt.Sprintf(format, args...), wrapped: err}
}

type posError struct {
	pos     token.Pos
	msg     string
	wrapped error
}

func (e *posError) Error() string                { return e.msg }
func (e *posError) Position() token.Pos           { return e.pos }
func (e *posError) InputPositions() []token.Pos   { return nil }
func (e *posError) Unwrap() error                 { return e.wrapped }

// ParseError is returned for unparsable input (spec §4.1 "Failure
// semantics", §7 ParseError). It is always fatal for the document being
// parsed.
type ParseError struct {
	// Offset is the byte offset at which parsing failed.
	Offset int
	Pos    token.Pos
	// Expected names the terminator or token the parser wanted, if any.
	Expected string
	// Context is the stack of grammar rule names being attempted when the
	// failure occurred, innermost last (spec §4.1).
	Context []string
	Msg     string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Expected != "" {
		fmt.Fprintf(&b, " (expected %s)", e.Expected)
	}
	if len(e.Context) > 0 {
		fmt.Fprintf(&b, " [in %s]", strings.Join(e.Context, " > "))
	}
	return b.String()
}

func (e *ParseError) Position() token.Pos         { return e.Pos }
func (e *ParseError) InputPositions() []token.Pos { return nil }

// SchemaConversionError is accumulated on a schema [List] while the loader
// walks the schema AST; it never aborts the walk (spec §4.2, §7).
type SchemaConversionError struct {
	Pos token.Pos
	Msg string
}

func (e *SchemaConversionError) Error() string         { return e.Msg }
func (e *SchemaConversionError) Position() token.Pos   { return e.Pos }
func (e *SchemaConversionError) InputPositions() []token.Pos { return nil }

// List is a sortable, deduplicating accumulator of [Error] values, used by
// the schema loader (spec §4.2) and by any caller that wants to collect
// multiple diagnostics from one pass rather than stopping at the first.
type List []Error

// Add appends err to the list; a nil err, or one with the same position and
// message as an error already in the list, is ignored.
func (l *List) Add(err Error) {
	if err == nil {
		return
	}
	for _, e := range *l {
		if e.Position() == err.Position() && e.Error() == err.Error() {
			return
		}
	}
	*l = append(*l, err)
}

// Addf is a convenience wrapper combining [Newf] and [List.Add].
func (l *List) Addf(pos token.Pos, format string, args ...interface{}) {
	l.Add(Newf(pos, format, args...))
}

// Err returns the list as an error, or nil if it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Error()
	}
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(l), strings.Join(parts, "; "))
}

// Sort orders the list by position, matching cue/errors.Sanitize's ordering
// guarantee for reproducible diagnostic output.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool { return l[i].Position() < l[j].Position() })
}
