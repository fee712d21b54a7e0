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

package encoder_test

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"t73f.de/r/sx/sxreader"

	"zine.pocoo.org/zeml/ast"
	"zine.pocoo.org/zeml/encoder"
	"zine.pocoo.org/zeml/parser"
)

type zemlTestCase struct {
	descr  string
	zeml   string
	expect expectMap
}

type expectMap map[encoder.Enum]string

var tcsEncoder = []zemlTestCase{
	{
		descr: "empty markup",
		zeml:  "",
		expect: expectMap{
			encoder.EncoderHTML: "",
			encoder.EncoderText: "",
		},
	},
	{
		descr: "simple paragraph",
		zeml:  "<p>hello <b>world</b></p>",
		expect: expectMap{
			encoder.EncoderHTML: "<p>hello <b>world</b></p>",
			encoder.EncoderText: "hello world\n",
		},
	},
	{
		descr: "text escaping",
		zeml:  "<p>1 &lt; 2 &amp; 3</p>",
		expect: expectMap{
			encoder.EncoderHTML: "<p>1 &lt; 2 &amp; 3</p>",
			encoder.EncoderText: "1 < 2 & 3\n",
		},
	},
	{
		descr: "void element with tail",
		zeml:  "<p>a<br>b</p>",
		expect: expectMap{
			encoder.EncoderHTML: "<p>a<br>b</p>",
			encoder.EncoderText: "a\nb\n",
		},
	},
	{
		descr: "attribute escaping",
		zeml:  `<img src="x.png" alt="a &quot;b&quot;">`,
		expect: expectMap{
			encoder.EncoderHTML: `<img src="x.png" alt="a &quot;b&quot;">`,
		},
	},
	{
		descr: "bare attribute renders with empty value",
		zeml:  "<p foo>x</p>",
		expect: expectMap{
			encoder.EncoderHTML: `<p foo="">x</p>`,
		},
	},
	{
		descr: "boolean attribute renders bare",
		zeml:  `<option selected="selected">x</option>`,
		expect: expectMap{
			encoder.EncoderHTML: "<option selected>x</option>",
		},
	},
	{
		descr: "raw body is not escaped",
		zeml:  "<script>a < b && c</script>",
		expect: expectMap{
			encoder.EncoderHTML: "<script>a < b && c</script>",
		},
	},
	{
		descr: "character data body is escaped",
		zeml:  "<textarea>&lt;tag&gt;</textarea>",
		expect: expectMap{
			encoder.EncoderHTML: "<textarea>&lt;tag&gt;</textarea>",
		},
	},
	{
		descr: "unordered list",
		zeml:  "<ul><li>one<li>two</ul>",
		expect: expectMap{
			encoder.EncoderHTML: "<ul><li>one</li><li>two</li></ul>",
			encoder.EncoderText: "* one\n* two\n",
		},
	},
	{
		descr: "ordered list honors start",
		zeml:  `<ol start="3"><li>a<li>b</ol>`,
		expect: expectMap{
			encoder.EncoderText: "3. a\n4. b\n",
		},
	},
	{
		descr: "blockquote indents",
		zeml:  "<p>intro</p><blockquote><p>quoted</p></blockquote>",
		expect: expectMap{
			encoder.EncoderText: "intro\n\n  quoted\n",
		},
	},
	{
		descr: "link URL suffix",
		zeml:  `<p>see <a href="http://example.com/">here</a>.</p>`,
		expect: expectMap{
			encoder.EncoderText: "see here <http://example.com/>.\n",
		},
	},
	{
		descr: "preformatted bypasses wrapping",
		zeml:  "<pre>one\n    two</pre>",
		expect: expectMap{
			encoder.EncoderText: "one\n    two\n",
		},
	},
}

func TestEncoder(t *testing.T) {
	t.Parallel()
	for testNum, tc := range tcsEncoder {
		root := parser.Parse(tc.zeml, "entry")
		for enc, exp := range tc.expect {
			var sb strings.Builder
			encdr := encoder.Create(enc, &encoder.CreateParameter{
				Text: encoder.TextOptions{Multiline: true},
			})
			if err := encdr.WriteTree(&sb, root); err != nil {
				t.Errorf("Test #%d (%s): encoder %s failed: %v", testNum, tc.descr, enc, err)
				continue
			}
			if got := sb.String(); got != exp {
				t.Errorf("Test #%d\nReason:   %s\nEncoder:  %s\nExpected: %q\nGot:      %q",
					testNum, tc.descr, enc, exp, got)
			}
		}
		checkSz(t, testNum, tc.descr, root)
	}
}

// checkSz ensures the sz encoding is a well-formed symbolic expression by
// reading it back and comparing the canonical rendition.
func checkSz(t *testing.T, testNum int, descr string, root *ast.RootElement) {
	t.Helper()
	var sb strings.Builder
	if err := encoder.Create(encoder.EncoderSz, nil).WriteTree(&sb, root); err != nil {
		t.Errorf("Test #%d (%s): sz encoding failed: %v", testNum, descr, err)
		return
	}
	exp := sb.String()
	val, err := sxreader.MakeReader(strings.NewReader(exp)).Read()
	if err != nil {
		t.Errorf("Test #%d (%s): sz output is unreadable: %v", testNum, descr, err)
		return
	}
	if got := val.String(); got != exp {
		t.Errorf("Test #%d\nReason:   %s\nExpected: %q\nGot:      %q", testNum, descr, exp, got)
	}
}

func TestTextWrapping(t *testing.T) {
	t.Parallel()
	words := make([]string, 40)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	root := parser.Parse("<p>"+strings.Join(words, " ")+"</p>", "entry")
	const maxWidth = 20
	var sb strings.Builder
	enc := encoder.Create(encoder.EncoderText, &encoder.CreateParameter{
		Text: encoder.TextOptions{Multiline: true, MaxWidth: maxWidth},
	})
	if err := enc.WriteTree(&sb, root); err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		if len(line) > maxWidth {
			t.Errorf("line longer than %d: %q", maxWidth, line)
		}
	}
}

func TestTextWrappingUnicode(t *testing.T) {
	t.Parallel()
	root := parser.Parse("<p>"+strings.Repeat("héllo wörld ", 12)+"</p>", "entry")
	const maxWidth = 20
	var sb strings.Builder
	enc := encoder.Create(encoder.EncoderText, &encoder.CreateParameter{
		Text: encoder.TextOptions{Multiline: true, MaxWidth: maxWidth},
	})
	if err := enc.WriteTree(&sb, root); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapped output, got %q", sb.String())
	}
	for _, line := range lines {
		if utf8.RuneCountInString(line) > maxWidth {
			t.Errorf("line longer than %d runes: %q", maxWidth, line)
		}
	}
}

func TestTextTableUnicode(t *testing.T) {
	t.Parallel()
	root := parser.Parse(
		"<table><tr><td>café</td><td>x</td></tr>"+
			"<tr><td>ab</td><td>naïve</td></tr></table>", "entry")
	var sb strings.Builder
	enc := encoder.Create(encoder.EncoderText, &encoder.CreateParameter{
		Text: encoder.TextOptions{Multiline: true},
	})
	if err := enc.WriteTree(&sb, root); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	want := utf8.RuneCountInString(lines[0])
	for _, line := range lines {
		if utf8.RuneCountInString(line) != want {
			t.Errorf("misaligned grid line (%d runes, expected %d): %q",
				utf8.RuneCountInString(line), want, line)
		}
	}
}

func TestTextCollectURLs(t *testing.T) {
	t.Parallel()
	root := parser.Parse(
		`<p><a href="http://a.example/">a</a> and <a href="http://b.example/">b</a>`+
			` and <a href="http://a.example/">a again</a></p>`, "entry")
	var sb strings.Builder
	enc := encoder.Create(encoder.EncoderText, &encoder.CreateParameter{
		Text: encoder.TextOptions{Multiline: true, CollectURLs: true},
	})
	if err := enc.WriteTree(&sb, root); err != nil {
		t.Fatal(err)
	}
	expect := "a [1] and b [2] and a again [1]\n\n[1] http://a.example/\n[2] http://b.example/\n"
	if got := sb.String(); got != expect {
		t.Errorf("Expected: %q\nGot:      %q", expect, got)
	}
}

func TestTextSingleLine(t *testing.T) {
	t.Parallel()
	root := parser.Parse("<p>one</p><p>two</p>", "entry")
	var sb strings.Builder
	enc := encoder.Create(encoder.EncoderText, &encoder.CreateParameter{})
	if err := enc.WriteTree(&sb, root); err != nil {
		t.Fatal(err)
	}
	if got := sb.String(); got != "one two" {
		t.Errorf("expected %q, got %q", "one two", got)
	}
}

func TestTextIgnoreRelative(t *testing.T) {
	t.Parallel()
	root := parser.Parse(`<p><a href="about.html">about</a></p>`, "entry")
	var sb strings.Builder
	enc := encoder.Create(encoder.EncoderText, &encoder.CreateParameter{
		Text: encoder.TextOptions{Multiline: true, IgnoreRelative: true},
	})
	if err := enc.WriteTree(&sb, root); err != nil {
		t.Fatal(err)
	}
	if got := sb.String(); got != "about\n" {
		t.Errorf("expected %q, got %q", "about\n", got)
	}
}

func TestTextTable(t *testing.T) {
	t.Parallel()
	root := parser.Parse(
		"<table><tr><th>name</th><th>value</th></tr>"+
			"<tr><td>alpha</td><td>1</td></tr>"+
			"<tr><td>beta</td><td>22</td></tr></table>", "entry")
	var sb strings.Builder
	enc := encoder.Create(encoder.EncoderText, &encoder.CreateParameter{
		Text: encoder.TextOptions{Multiline: true},
	})
	if err := enc.WriteTree(&sb, root); err != nil {
		t.Fatal(err)
	}
	expect := strings.Join([]string{
		"+-------+-------+",
		"| name  | value |",
		"+=======+=======+",
		"| alpha | 1     |",
		"+-------+-------+",
		"| beta  | 22    |",
		"+-------+-------+",
	}, "\n") + "\n"
	if got := sb.String(); got != expect {
		t.Errorf("Expected:\n%s\nGot:\n%s", expect, got)
	}
}

func TestParseEncoding(t *testing.T) {
	t.Parallel()
	for _, enc := range encoder.GetEncodings() {
		if got := encoder.ParseEncoding(enc.String()); got != enc {
			t.Errorf("ParseEncoding(%q) == %v, expected %v", enc.String(), got, enc)
		}
	}
	if got := encoder.ParseEncoding("gif"); got != encoder.EncoderUnknown {
		t.Errorf("ParseEncoding(%q) == %v, expected unknown", "gif", got)
	}
}
