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

func TestParsePlainText(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		descr  string
		text   string
		expect *ast.RootElement
	}{
		{"empty", "", root("")},
		{"single paragraph", "hello", root("", textElem("p", "hello"))},
		{
			"line break inside paragraph",
			"a\nb",
			root("", textElem("p", "a", tailed(elem("br"), "b"))),
		},
		{
			"blank line separates paragraphs",
			"a\n\nb",
			root("", textElem("p", "a"), textElem("p", "b")),
		},
		{
			"multiple blank lines count once",
			"a\n\n\n\nb",
			root("", textElem("p", "a"), textElem("p", "b")),
		},
		{
			"markup is not interpreted",
			"<b>x</b>",
			root("", textElem("p", "<b>x</b>")),
		},
	}
	for _, tc := range testCases {
		got := parser.ParseSyntax("text", tc.text, "comment")
		if !ast.Equal(got, tc.expect) {
			t.Errorf("%s\nText:     %q\nExpected: %v\nGot:      %v",
				tc.descr, tc.text, dump(tc.expect), dump(got))
		}
	}
}

func TestParserRegistry(t *testing.T) {
	t.Parallel()
	for _, syntax := range []string{"zeml", "markdown", "md", "text", "plain"} {
		if pi := parser.Get(syntax); pi == nil {
			t.Errorf("syntax %q is not registered", syntax)
		}
	}
	if pi := parser.Get("no such syntax"); pi == nil || pi.Name != "zeml" {
		t.Error("unknown syntax does not fall back to zeml")
	}
}
