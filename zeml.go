//-----------------------------------------------------------------------------
// Copyright (c) 2008-present Zine Team
//
// This file is part of Zine.
//
// Zine is licensed under the BSD license. Please see file LICENSE.txt for
// your rights and obligations under this license.
//
// SPDX-License-Identifier: BSD-3-Clause
// SPDX-FileCopyrightText: 2008-present Zine Team
//-----------------------------------------------------------------------------

// Package zeml bundles the ZEML markup system: a total parser for the
// HTML-like ZEML syntax, an allow-list sanitizer for untrusted input, an
// HTML serializer, a plain text rendition and a binary cache format.
package zeml

import (
	"strings"

	"zine.pocoo.org/zeml/ast"
	"zine.pocoo.org/zeml/binenc"
	"zine.pocoo.org/zeml/encoder"
	"zine.pocoo.org/zeml/parser"
	"zine.pocoo.org/zeml/sanitizer"
)

// Parse parses ZEML markup into a tree. It never fails; malformed input
// degrades to literal text or inline error nodes. The reason is an opaque
// tag, such as "comment" or "entry", that is handed to every extension.
func Parse(markup, reason string, exts ...parser.Extension) *ast.RootElement {
	return parser.Parse(markup, reason, exts...)
}

// ParseSyntax parses input of the named syntax ("zeml", "markdown",
// "text") into a tree. An unknown syntax name selects ZEML.
func ParseSyntax(syntax, markup, reason string, exts ...parser.Extension) *ast.RootElement {
	return parser.ParseSyntax(syntax, markup, reason, exts...)
}

// Sanitize filters untrusted trees through the fixed allow-lists. The tree
// is rewritten in place and returned.
func Sanitize(root *ast.RootElement) *ast.RootElement {
	return sanitizer.Sanitize(root)
}

// ToHTML serializes a tree into fragmentary HTML.
func ToHTML(root *ast.RootElement) string {
	var sb strings.Builder
	_ = encoder.Create(encoder.EncoderHTML, nil).WriteTree(&sb, root)
	return sb.String()
}

// ToText renders a tree as wrapped plain text.
func ToText(root *ast.RootElement, opts encoder.TextOptions) string {
	var sb strings.Builder
	enc := encoder.Create(encoder.EncoderText, &encoder.CreateParameter{Text: opts})
	_ = enc.WriteTree(&sb, root)
	return sb.String()
}

// Encode serializes a tree into the binary cache format.
func Encode(root *ast.RootElement) ([]byte, error) {
	return binenc.Encode(root)
}

// Decode reconstructs a tree from the binary cache format.
func Decode(data []byte) (*ast.RootElement, error) {
	return binenc.Decode(data)
}
