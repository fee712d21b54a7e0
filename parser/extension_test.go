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

package parser_test

import (
	"strings"
	"testing"

	"zine.pocoo.org/zeml/ast"
	"zine.pocoo.org/zeml/parser"
)

// sourcecodeExt mimics a code highlighting extension: it replaces its
// element with pre-rendered HTML.
type sourcecodeExt struct {
	parser.ExtensionBase
	lastReason string
}

func (*sourcecodeExt) Name() string              { return "sourcecode" }
func (*sourcecodeExt) IsIsolated() bool          { return true }
func (*sourcecodeExt) IsBlockLevel() bool        { return true }
func (*sourcecodeExt) AcceptedAttrs() []string   { return []string{"syntax"} }
func (e *sourcecodeExt) Process(el *ast.Element, reason string) ast.Node {
	e.lastReason = reason
	return ast.NewHTML("<pre>" + ast.EscapeText(el.Text) + "</pre>")
}

// stampExt is a void extension producing a fixed marker.
type stampExt struct{ parser.ExtensionBase }

func (*stampExt) Name() string            { return "stamp" }
func (*stampExt) IsVoid() bool            { return true }
func (*stampExt) AcceptedAttrs() []string { return []string{} }
func (*stampExt) Process(*ast.Element, string) ast.Node {
	return ast.NewHTML("<span>stamp</span>")
}

func TestExtensionProcess(t *testing.T) {
	t.Parallel()
	ext := &sourcecodeExt{}
	tree := parser.Parse("<sourcecode syntax=go>a < b</sourcecode>tail", "entry", ext)
	if len(tree.Children) != 1 {
		t.Fatalf("expected one child, got %d", len(tree.Children))
	}
	html, isHTML := tree.Children[0].(*ast.HTMLElement)
	if !isHTML {
		t.Fatalf("expected a html node, got %T", tree.Children[0])
	}
	if expect := "<pre>a &lt; b</pre>"; html.Value != expect {
		t.Errorf("expected %q, got %q", expect, html.Value)
	}
	if html.Tail() != "tail" {
		t.Errorf("expected tail %q, got %q", "tail", html.Tail())
	}
	if ext.lastReason != "entry" {
		t.Errorf("expected reason %q, got %q", "entry", ext.lastReason)
	}
}

func TestExtensionInvalidAttribute(t *testing.T) {
	t.Parallel()
	tree := parser.Parse(`<sourcecode evil="1">x</sourcecode>`, "entry", &sourcecodeExt{})
	errNode, isErr := tree.Children[0].(*ast.MarkupErrorElement)
	if !isErr {
		t.Fatalf("expected a markup error node, got %T", tree.Children[0])
	}
	if !strings.Contains(errNode.Message, "evil") ||
		!strings.Contains(errNode.Message, "sourcecode") {
		t.Errorf("message does not name the problem: %q", errNode.Message)
	}
}

func TestVoidExtension(t *testing.T) {
	t.Parallel()
	tree := parser.Parse("a<stamp>b", "comment", &stampExt{})
	if tree.Text != "a" {
		t.Errorf("expected text %q, got %q", "a", tree.Text)
	}
	html, isHTML := tree.Children[0].(*ast.HTMLElement)
	if !isHTML {
		t.Fatalf("expected a html node, got %T", tree.Children[0])
	}
	if html.Tail() != "b" {
		t.Errorf("expected tail %q, got %q", "b", html.Tail())
	}
}

func TestExtensionBreaking(t *testing.T) {
	t.Parallel()
	// A block-level extension closes an open paragraph like any block tag.
	tree := parser.Parse("<p>a<sourcecode>b</sourcecode>", "entry", &sourcecodeExt{})
	if len(tree.Children) != 2 {
		t.Fatalf("expected two children, got %d", len(tree.Children))
	}
	para := tree.Children[0].(*ast.Element)
	if para.Name != "p" || para.Text != "a" || len(para.Children) != 0 {
		t.Errorf("paragraph was not closed before the extension: %s", dump(para))
	}
}
