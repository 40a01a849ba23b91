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

// Package ast declares the node types shared by the script and schema
// dialects described in spec §3-§4.1: a zero-copy AST with byte spans over
// the originating input buffer, and structured comments captured on the
// node that follows them.
//
// Mirrors the node-interface shape of cuelang.org/go's cue/ast, generalized
// from CUE's expression grammar to this dialect's flatter key/operator/value
// and entity/array grammar.
package ast

import "github.com/cwtools/cwtools-go/token"

// Node is implemented by every AST node in both dialects. Every node's span
// lies within its file's buffer, and a parent's span covers every child's
// (spec §3 invariant "Span containment").
type Node interface {
	Pos() token.Pos
	End() token.Pos
	Span() token.Span

	// Comments returns the structured comment groups that immediately
	// precede this node, in source order.
	Comments() []*CommentGroup
	AddComment(*CommentGroup)
}

// base is embedded by every concrete node to provide the Node plumbing.
type base struct {
	span     token.Span
	comments []*CommentGroup
}

func (b *base) Pos() token.Pos   { return b.span.Start }
func (b *base) End() token.Pos   { return b.span.End }
func (b *base) Span() token.Span { return b.span }

// SetSpan sets the node's source span. Parsers call this once, immediately
// after constructing a node, since base's fields are unexported.
func (b *base) SetSpan(s token.Span) { b.span = s }

func (b *base) Comments() []*CommentGroup { return b.comments }
func (b *base) AddComment(c *CommentGroup) {
	b.comments = append(b.comments, c)
}

// CommentTier classifies a comment by its leading marker (spec §3
// "Structured comments"): `#` is prose, `##` carries a structured option
// list consumed by the schema loader, `###` is user-facing documentation.
type CommentTier int

const (
	Regular CommentTier = iota // #
	Option                     // ##
	Doc                        // ###
)

// Comment is a single `#`-introduced line comment.
type Comment struct {
	base
	Text string
}

// CommentGroup is a run of adjacent same-tier comment lines, captured on
// the node that immediately follows it. An Option-tier group additionally
// parses into a structured option list on demand; see schema.ParseOptions.
type CommentGroup struct {
	base
	Tier  CommentTier
	Lines []*Comment
}

// Text joins the group's lines with newlines.
func (c *CommentGroup) Text() string {
	var out string
	for i, l := range c.Lines {
		if i > 0 {
			out += "\n"
		}
		out += l.Text
	}
	return out
}
