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

package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"zine.pocoo.org/zeml/ast"
)

func queryTree() *ast.RootElement {
	// <div id="top"><a href="x" class="foo bar">1</a><a href="y">2</a>
	//   <p><a href="z">3</a></p></div>
	a1 := ast.NewElement("a")
	a1.Attrs.Set("href", "x")
	a1.Attrs.Set("class", "foo bar")
	a1.Text = "1"
	a2 := ast.NewElement("a")
	a2.Attrs.Set("href", "y")
	a2.Text = "2"
	a3 := ast.NewElement("a")
	a3.Attrs.Set("href", "z")
	a3.Text = "3"
	p := ast.NewElement("p")
	p.Children = []ast.Node{a3}
	div := ast.NewElement("div")
	div.Attrs.Set("id", "top")
	div.Children = []ast.Node{a1, a2, p}
	root := ast.NewRoot()
	root.Children = []ast.Node{div}
	ast.AttachParents(root)
	return root
}

func queryTexts(qr *ast.QueryResult) []string {
	var texts []string
	for node := range qr.All() {
		texts = append(texts, ast.NodeText(node))
	}
	return texts
}

func TestQuery(t *testing.T) {
	t.Parallel()
	tree := queryTree()
	testCases := []struct {
		expr   string
		expect []string
	}{
		{"a", []string{"1", "2", "3"}},
		{"/a", nil},
		{"div/a", []string{"1", "2", "3"}},
		{"div//a", []string{"1", "2"}},
		{"p/a", []string{"3"}},
		{"#top//a", []string{"1", "2"}},
		{"*[href]", []string{"1", "2", "3"}},
		{"a[href=y]", []string{"2"}},
		{"a[href!=y]", []string{"1", "3"}},
		{"a[class~=foo]", []string{"1"}},
		{"a[class~=bar]", []string{"1"}},
		{"a[class~=fo]", nil},
		{"a[missing]", nil},
		{"nothing", nil},
	}
	for _, tc := range testCases {
		got := queryTexts(tree.Query(tc.expr))
		if diff := cmp.Diff(tc.expect, got); diff != "" {
			t.Errorf("Query(%q) mismatch (-expect +got):\n%s", tc.expr, diff)
		}
	}
}

func TestQueryResultAccess(t *testing.T) {
	t.Parallel()
	tree := queryTree()
	qr := tree.Query("a")
	if first := qr.First(); first == nil || ast.NodeText(first) != "1" {
		t.Error("First did not return the first match")
	}
	if node, found := qr.At(1); !found || ast.NodeText(node) != "2" {
		t.Error("At(1) did not return the second match")
	}
	if node, found := qr.At(-1); !found || ast.NodeText(node) != "3" {
		t.Error("At(-1) did not return the last match")
	}
	if qr.Len() != 3 {
		t.Errorf("expected 3 results, got %d", qr.Len())
	}
	if tree.Query("nothing").First() != nil {
		t.Error("First on an empty result is not nil")
	}
	// chain a sub-query on a previous result
	sub := tree.Query("div").Query("p/a")
	if texts := queryTexts(sub); len(texts) != 1 || texts[0] != "3" {
		t.Errorf("chained query returned %v", texts)
	}
}
