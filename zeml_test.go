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

package zeml_test

import (
	"testing"

	"zine.pocoo.org/zeml"
	"zine.pocoo.org/zeml/ast"
	"zine.pocoo.org/zeml/encoder"
)

// TestCommentPipeline runs untrusted markup through the full path a blog
// comment takes: parse, sanitize, cache, render.
func TestCommentPipeline(t *testing.T) {
	t.Parallel()
	const comment = `<p onclick="evil()">Nice <b>post</b>!` +
		`<script>document.cookie</script>` +
		` See <a href="http://example.com/">this</a>.</p>`

	tree := zeml.Sanitize(zeml.Parse(comment, "comment"))

	data, err := zeml.Encode(tree)
	if err != nil {
		t.Fatal(err)
	}
	cached, err := zeml.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if !ast.Equal(tree, cached) {
		t.Error("cached tree differs from the sanitized tree")
	}

	html := zeml.ToHTML(cached)
	expect := `<p>Nice <b>post</b>! See <a href="http://example.com/">this</a>.</p>`
	if html != expect {
		t.Errorf("Expected: %q\nGot:      %q", expect, html)
	}

	text := zeml.ToText(cached, encoder.TextOptions{Multiline: true})
	if expect := "Nice post! See this <http://example.com/>.\n"; text != expect {
		t.Errorf("Expected: %q\nGot:      %q", expect, text)
	}
}

func TestParseSyntaxSelectsParser(t *testing.T) {
	t.Parallel()
	md := zeml.ParseSyntax("markdown", "# Title", "entry")
	if h1, valid := md.Children[0].(*ast.Element); !valid || h1.Name != "h1" {
		t.Errorf("markdown syntax was not used: %v", md.Children[0])
	}
	plain := zeml.ParseSyntax("text", "<b>x</b>", "comment")
	if para := plain.Children[0].(*ast.Element); para.Text != "<b>x</b>" {
		t.Errorf("plain text syntax was not used: %q", para.Text)
	}
}
