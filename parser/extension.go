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

package parser

import "zine.pocoo.org/zeml/ast"

// Extension lets an embedding application claim an element name during
// parsing. When the element is left, Process may rewrite it into a plain
// element or into a dynamic node with computed content.
//
// The class methods mirror the parser's built-in element classes: a void
// extension never has a body, an isolated one receives its body as raw
// text, a semi-isolated one as raw text with entities resolved. BrokenBy
// installs a breaking rule for the element; the returned names may include
// the sentinels "#block" and "#inline".
type Extension interface {
	Name() string
	IsVoid() bool
	IsIsolated() bool
	IsSemiIsolated() bool
	IsBlockLevel() bool
	BrokenBy() []string

	// AcceptedAttrs names the attributes the extension understands; nil
	// accepts everything. An attribute outside this set replaces the whole
	// element with a MarkupErrorElement naming the attribute.
	AcceptedAttrs() []string

	// Process transforms the finished element. The reason is the opaque
	// parsing reason given to Parse. The element's attributes and children
	// hold the parsed content.
	Process(elem *ast.Element, reason string) ast.Node
}

// ExtensionBase is a convenience base with inline, non-isolated, non-void
// defaults. Embed it and override what differs.
type ExtensionBase struct{}

func (ExtensionBase) IsVoid() bool            { return false }
func (ExtensionBase) IsIsolated() bool        { return false }
func (ExtensionBase) IsSemiIsolated() bool    { return false }
func (ExtensionBase) IsBlockLevel() bool      { return false }
func (ExtensionBase) BrokenBy() []string      { return nil }
func (ExtensionBase) AcceptedAttrs() []string { return nil }
