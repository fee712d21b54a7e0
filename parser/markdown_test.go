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
	"testing"

	"zine.pocoo.org/zeml/ast"
	"zine.pocoo.org/zeml/parser"
)

func TestParseMarkdown(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		descr  string
		md     string
		expect *ast.RootElement
	}{
		{"empty", "", root("")},
		{"paragraph", "hello", root("", textElem("p", "hello"))},
		{"heading", "# Title", root("", textElem("h1", "Title"))},
		{
			"emphasis",
			"a *b* **c**",
			root("", textElem("p", "a ",
				tailed(textElem("em", "b"), " "),
				textElem("strong", "c"))),
		},
		{
			"link",
			"[here](http://example.com/)",
			root("", elem("p", func() *ast.Element {
				link := textElem("a", "here")
				link.Attrs.Set("href", "http://example.com/")
				return link
			}())),
		},
		{
			"code span",
			"use `go vet`",
			root("", textElem("p", "use ", textElem("code", "go vet"))),
		},
		{
			"thematic break",
			"---",
			root("", elem("hr")),
		},
		{
			"unordered list",
			"* one\n* two",
			root("", elem("ul", textElem("li", "one"), textElem("li", "two"))),
		},
		{
			"escaped asterisk",
			`a \* b`,
			root("", textElem("p", "a * b")),
		},
		{
			"entity",
			"a &amp; b",
			root("", textElem("p", "a & b")),
		},
	}
	for _, tc := range testCases {
		got := parser.ParseSyntax("markdown", tc.md, "entry")
		if !ast.Equal(got, tc.expect) {
			t.Errorf("%s\nMarkdown: %q\nExpected: %v\nGot:      %v",
				tc.descr, tc.md, dump(tc.expect), dump(got))
		}
	}
}

func TestParseMarkdownFencedCode(t *testing.T) {
	t.Parallel()
	got := parser.ParseSyntax("md", "```go\nx := 1\n```", "entry")
	pre := got.Children[0].(*ast.Element)
	if pre.Name != "pre" {
		t.Fatalf("expected pre, got %q", pre.Name)
	}
	code := pre.Children[0].(*ast.Element)
	if code.Text != "x := 1" {
		t.Errorf("expected code %q, got %q", "x := 1", code.Text)
	}
	if class, _ := code.Attrs.Get("class"); class != "language-go" {
		t.Errorf("expected class %q, got %q", "language-go", class)
	}
}

func TestParseMarkdownRawHTML(t *testing.T) {
	t.Parallel()
	got := parser.ParseSyntax("markdown", "a <span>b</span> c", "entry")
	para := got.Children[0].(*ast.Element)
	if para.Text != "a " {
		t.Errorf("expected text %q, got %q", "a ", para.Text)
	}
	if _, isHTML := para.Children[0].(*ast.HTMLElement); !isHTML {
		t.Errorf("expected a html node, got %T", para.Children[0])
	}
}
