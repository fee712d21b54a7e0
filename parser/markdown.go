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

// markdown provides an input syntax that parses markdown into ZEML trees.

import (
	"bytes"
	"strconv"
	"strings"

	gm "github.com/yuin/goldmark"
	gmAst "github.com/yuin/goldmark/ast"
	gmText "github.com/yuin/goldmark/text"

	"t73f.de/r/zsx"
	"t73f.de/r/zsx/input"

	"zine.pocoo.org/zeml/ast"
)

func init() {
	register(&Info{
		Name:         "markdown",
		AltNames:     []string{"md"},
		IsTextFormat: true,
		Parse:        parseMarkdown,
	})
}

func parseMarkdown(inp *input.Input, _ string, _ []Extension) *ast.RootElement {
	source := []byte(inp.Src[inp.Pos:])
	docNode := gm.DefaultParser().Parse(gmText.NewReader(source))
	p := mdP{source: source}
	root := ast.NewRoot()
	for child := docNode.FirstChild(); child != nil; child = child.NextSibling() {
		if block := p.acceptBlock(child); block != nil {
			root.Children = append(root.Children, block)
		}
	}
	return root
}

type mdP struct {
	source []byte
}

func (p *mdP) acceptBlock(node gmAst.Node) ast.Node {
	switch n := node.(type) {
	case *gmAst.Paragraph:
		return p.acceptInlineContainer("p", n)
	case *gmAst.TextBlock:
		return p.acceptInlineContainer("p", n)
	case *gmAst.Heading:
		return p.acceptInlineContainer("h"+strconv.Itoa(n.Level), n)
	case *gmAst.ThematicBreak:
		return ast.NewElement("hr")
	case *gmAst.CodeBlock:
		return p.acceptCodeBlock(n, "")
	case *gmAst.FencedCodeBlock:
		return p.acceptCodeBlock(n, string(n.Language(p.source)))
	case *gmAst.Blockquote:
		return p.acceptItemContainer("blockquote", n)
	case *gmAst.List:
		return p.acceptList(n)
	case *gmAst.HTMLBlock:
		return p.acceptHTMLBlock(n)
	}
	return nil
}

func (p *mdP) acceptInlineContainer(name string, node gmAst.Node) ast.Node {
	elem := ast.NewElement(name)
	p.acceptInlineChildren(elem, node)
	if name == "p" && elem.Text == "" && len(elem.Children) == 0 {
		return nil
	}
	return elem
}

func (p *mdP) acceptItemContainer(name string, node gmAst.Node) *ast.Element {
	elem := ast.NewElement(name)
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if block := p.acceptBlock(child); block != nil {
			elem.Children = append(elem.Children, block)
		}
	}
	return elem
}

func (p *mdP) acceptCodeBlock(node gmAst.Node, language string) ast.Node {
	pre := ast.NewElement("pre")
	code := ast.NewElement("code")
	if language != "" {
		code.Attrs.Set("class", "language-"+cleanMDText([]byte(language), true))
	}
	code.Text = string(p.acceptRawText(node))
	pre.Children = append(pre.Children, code)
	return pre
}

func (p *mdP) acceptRawText(node gmAst.Node) []byte {
	lines := node.Lines()
	result := make([]byte, 0, 512)
	for i := range lines.Len() {
		s := lines.At(i)
		line := s.Value(p.source)
		if l := len(line); l > 0 {
			if l > 1 && line[l-2] == '\r' && line[l-1] == '\n' {
				line = line[0 : l-2]
			} else if line[l-1] == '\n' || line[l-1] == '\r' {
				line = line[0 : l-1]
			}
		}
		if i > 0 {
			result = append(result, '\n')
		}
		result = append(result, line...)
	}
	return result
}

func (p *mdP) acceptList(node *gmAst.List) ast.Node {
	name := "ul"
	elem := ast.NewElement(name)
	if node.IsOrdered() {
		elem.Name = "ol"
		if node.Start != 1 {
			elem.Attrs.Set("start", strconv.Itoa(node.Start))
		}
	}
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		item := ast.NewElement("li")
		for sub := child.FirstChild(); sub != nil; sub = sub.NextSibling() {
			// A tight list item holds TextBlocks; render their inlines
			// directly into the li instead of wrapping paragraphs.
			if tb, isText := sub.(*gmAst.TextBlock); isText {
				p.acceptInlineChildren(item, tb)
				continue
			}
			if block := p.acceptBlock(sub); block != nil {
				item.Children = append(item.Children, block)
			}
		}
		elem.Children = append(elem.Children, item)
	}
	return elem
}

func (p *mdP) acceptHTMLBlock(node *gmAst.HTMLBlock) ast.Node {
	content := p.acceptRawText(node)
	if node.HasClosure() {
		closure := node.ClosureLine.Value(p.source)
		if l := len(closure); l > 1 && closure[l-1] == '\n' {
			closure = closure[:l-1]
		}
		if len(content) > 1 {
			content = append(content, '\n')
		}
		content = append(content, closure...)
	}
	return ast.NewHTML(string(content))
}

func (p *mdP) acceptInlineChildren(parent *ast.Element, node gmAst.Node) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		p.acceptInline(parent, child)
	}
}

func (p *mdP) acceptInline(parent *ast.Element, node gmAst.Node) {
	switch n := node.(type) {
	case *gmAst.Text:
		text := n.Segment.Value(p.source)
		if text == nil {
			return
		}
		if n.IsRaw() {
			addMDText(parent, string(text))
		} else {
			addMDText(parent, cleanMDText(text, true))
		}
		if n.HardLineBreak() {
			addMDChild(parent, ast.NewElement("br"))
		} else if n.SoftLineBreak() {
			addMDText(parent, "\n")
		}
	case *gmAst.CodeSpan:
		code := ast.NewElement("code")
		code.Text = p.codeSpanContent(n)
		addMDChild(parent, code)
	case *gmAst.Emphasis:
		name := "em"
		if n.Level == 2 {
			name = "strong"
		}
		elem := ast.NewElement(name)
		p.acceptInlineChildren(elem, n)
		addMDChild(parent, elem)
	case *gmAst.Link:
		link := ast.NewElement("a")
		link.Attrs.Set("href", cleanMDText(n.Destination, true))
		if title := n.Title; len(title) > 0 {
			link.Attrs.Set("title", cleanMDText(title, true))
		}
		p.acceptInlineChildren(link, n)
		addMDChild(parent, link)
	case *gmAst.Image:
		img := ast.NewElement("img")
		img.Attrs.Set("src", cleanMDText(n.Destination, true))
		if alt := p.inlineText(n); alt != "" {
			img.Attrs.Set("alt", alt)
		}
		if title := n.Title; len(title) > 0 {
			img.Attrs.Set("title", cleanMDText(title, true))
		}
		addMDChild(parent, img)
	case *gmAst.AutoLink:
		u := n.URL(p.source)
		if n.AutoLinkType == gmAst.AutoLinkEmail &&
			!bytes.HasPrefix(bytes.ToLower(u), []byte("mailto:")) {
			u = append([]byte("mailto:"), u...)
		}
		href := cleanMDText(u, false)
		link := ast.NewElement("a")
		link.Attrs.Set("href", href)
		link.Text = string(n.Label(p.source))
		addMDChild(parent, link)
	case *gmAst.RawHTML:
		segs := make([][]byte, 0, n.Segments.Len())
		for i := range n.Segments.Len() {
			s := n.Segments.At(i)
			segs = append(segs, s.Value(p.source))
		}
		addMDChild(parent, ast.NewHTML(string(bytes.Join(segs, nil))))
	}
}

func (p *mdP) codeSpanContent(node *gmAst.CodeSpan) string {
	var segBuf strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if text, isText := c.(*gmAst.Text); isText {
			segBuf.Write(text.Segment.Value(p.source))
		}
	}
	// Newlines inside a code span collapse to single spaces.
	return strings.Join(strings.Split(segBuf.String(), "\n"), " ")
}

func (p *mdP) inlineText(node gmAst.Node) string {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if text, isText := child.(*gmAst.Text); isText {
			sb.Write(text.Segment.Value(p.source))
			continue
		}
		sb.WriteString(p.inlineText(child))
	}
	return sb.String()
}

func addMDText(parent *ast.Element, text string) {
	if text == "" {
		return
	}
	if len(parent.Children) > 0 {
		last := parent.Children[len(parent.Children)-1]
		last.SetTail(last.Tail() + text)
		return
	}
	parent.Text += text
}

func addMDChild(parent *ast.Element, child ast.Node) {
	parent.Children = append(parent.Children, child)
}

var ignoreAfterBS = map[byte]struct{}{
	'!': {}, '"': {}, '#': {}, '$': {}, '%': {}, '&': {}, '\'': {}, '(': {},
	')': {}, '*': {}, '+': {}, ',': {}, '-': {}, '.': {}, '/': {}, ':': {},
	';': {}, '<': {}, '=': {}, '>': {}, '?': {}, '@': {}, '[': {}, '\\': {},
	']': {}, '^': {}, '_': {}, '`': {}, '{': {}, '|': {}, '}': {}, '~': {},
}

// cleanMDText removes backslash escapes and expands entities.
func cleanMDText(text []byte, cleanBS bool) string {
	lastPos := 0
	var sb strings.Builder
	for pos := 0; pos < len(text); pos++ {
		ch := text[pos]
		if ch == '&' {
			inp := input.NewInput(text[pos:])
			if s, ok := zsx.ScanEntity(inp); ok {
				sb.Write(text[lastPos:pos])
				sb.WriteString(s)
				lastPos = pos + inp.Pos
				pos = lastPos - 1
			}
			continue
		}
		if cleanBS && ch == '\\' && pos < len(text)-1 {
			if _, found := ignoreAfterBS[text[pos+1]]; found {
				sb.Write(text[lastPos:pos])
				sb.WriteByte(text[pos+1])
				lastPos = pos + 2
				pos++
			}
		}
	}
	if lastPos < len(text) {
		sb.Write(text[lastPos:])
	}
	return sb.String()
}
