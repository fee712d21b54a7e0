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

package encoder

// textenc renders a tree as wrapped, readable plain text, suitable for
// notification mails and log output.

import (
	"io"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"t73f.de/r/zero/set"

	"zine.pocoo.org/zeml/ast"
)

// TextOptions control the plain text rendition of a tree.
type TextOptions struct {
	// Simple drops all decoration: no link URLs, no table grids.
	Simple bool

	// Multiline keeps the line structure. When false, the whole output is
	// collapsed into a single line.
	Multiline bool

	// MaxWidth is the maximum output line width. Zero selects the default.
	MaxWidth int

	// CollectURLs replaces inline " <url>" suffixes with numbered "[N]"
	// footnote markers and a trailing reference list.
	CollectURLs bool

	// IgnoreRelative drops URLs without a scheme from link rendering.
	IgnoreRelative bool
}

const defaultMaxWidth = 74

type textEncoder struct {
	opts TextOptions
}

func (te *textEncoder) WriteTree(w io.Writer, root *ast.RootElement) error {
	opts := te.opts
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = defaultMaxWidth
	}
	v := newTextVisitor(opts)
	v.addText(root.Text)
	for _, child := range root.Children {
		v.visitNode(child)
	}
	v.flushParagraph()
	v.writeReferences()
	result := v.out.String()
	if !opts.Multiline {
		result = strings.Join(strings.Fields(result), " ")
	} else {
		result = strings.TrimRight(result, "\n")
		if result != "" {
			result += "\n"
		}
	}
	enc := newEncWriter(w)
	enc.WriteString(result)
	return enc.Flush()
}

// hardBreak marks a forced line break inside the paragraph buffer. It
// survives whitespace normalization where a plain newline would not.
const hardBreak = "\x00"

var textSkipElements = set.New("script", "style", "head", "object", "embed")

var textBlockElements = set.New(
	"p", "div", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6",
	"ul", "ol", "dl", "pre", "hr", "table", "form", "fieldset", "address")

type listLevel struct {
	ordered bool
	index   int
}

type textVisitor struct {
	opts    TextOptions
	out     strings.Builder
	para    strings.Builder
	indent  int
	pending string // item prefix consumed by the next flushed line
	lists   []listLevel
	links   []string
}

func newTextVisitor(opts TextOptions) *textVisitor {
	return &textVisitor{opts: opts}
}

func (v *textVisitor) visitNode(node ast.Node) {
	elem, isElem := node.(*ast.Element)
	if !isElem {
		// Dynamic content renders out of band; only the tail joins the flow.
		v.addText(node.Tail())
		return
	}
	if !v.visitElement(elem) {
		v.addText(elem.Text)
		for _, child := range elem.Children {
			v.visitNode(child)
		}
		v.departElement(elem)
	}
	v.addText(elem.TailText)
}

// visitElement handles the start of an element. A true result suppresses
// the descent into children and the depart step.
func (v *textVisitor) visitElement(elem *ast.Element) bool {
	if textSkipElements.Contains(elem.Name) {
		return true
	}
	switch elem.Name {
	case "br":
		v.para.WriteString(hardBreak)
	case "hr":
		v.flushParagraph()
		v.writeLine(strings.Repeat("-", max(v.availWidth(), 1)))
		v.blankLine()
	case "blockquote":
		v.flushParagraph()
		v.indent += 2
	case "ul":
		v.flushParagraph()
		v.lists = append(v.lists, listLevel{})
	case "ol":
		v.flushParagraph()
		start := elem.Attrs.GetInt("start", 1)
		v.lists = append(v.lists, listLevel{ordered: true, index: start - 1})
	case "li":
		v.flushParagraph()
		v.beginItem(elem)
		return true
	case "pre":
		v.flushParagraph()
		v.writePreformatted(elem)
		v.blankLine()
		return true
	case "table":
		v.flushParagraph()
		v.writeTable(elem)
		v.blankLine()
		return true
	default:
		if textBlockElements.Contains(elem.Name) {
			v.flushParagraph()
		}
	}
	return false
}

func (v *textVisitor) departElement(elem *ast.Element) {
	switch elem.Name {
	case "a":
		v.addLinkSuffix(elem)
	case "img":
		if alt, found := elem.Attrs.Get("alt"); found && alt != "" {
			v.addText(alt)
		}
	case "blockquote":
		v.flushParagraph()
		v.indent -= 2
		v.blankLine()
	case "ul", "ol":
		v.flushParagraph()
		v.lists = v.lists[:len(v.lists)-1]
		if len(v.lists) == 0 {
			v.blankLine()
		}
	default:
		if textBlockElements.Contains(elem.Name) {
			v.flushParagraph()
			v.blankLine()
		}
	}
}

// beginItem renders one list item with its prefix and a hanging indent.
func (v *textVisitor) beginItem(elem *ast.Element) {
	prefix := "* "
	if lvl := len(v.lists); lvl > 0 {
		if level := &v.lists[lvl-1]; level.ordered {
			level.index++
			prefix = strconv.Itoa(level.index) + ". "
		}
	}
	v.pending = prefix
	v.indent += len(prefix)
	v.addText(elem.Text)
	for _, child := range elem.Children {
		v.visitNode(child)
	}
	v.flushParagraph()
	v.indent -= len(prefix)
	v.pending = ""
}

func (v *textVisitor) addText(text string) {
	if text != "" {
		v.para.WriteString(text)
	}
}

func (v *textVisitor) addLinkSuffix(elem *ast.Element) {
	if v.opts.Simple {
		return
	}
	href, found := elem.Attrs.Get("href")
	if !found || href == "" {
		return
	}
	if v.opts.IgnoreRelative {
		if u, err := url.Parse(href); err != nil || !u.IsAbs() {
			return
		}
	}
	if v.opts.CollectURLs {
		v.para.WriteString(" [" + strconv.Itoa(v.collectURL(href)) + "]")
		return
	}
	v.para.WriteString(" <" + href + ">")
}

func (v *textVisitor) collectURL(u string) int {
	for i, known := range v.links {
		if known == u {
			return i + 1
		}
	}
	v.links = append(v.links, u)
	return len(v.links)
}

func (v *textVisitor) writeReferences() {
	if !v.opts.CollectURLs || len(v.links) == 0 {
		return
	}
	v.blankLine()
	for i, u := range v.links {
		v.writeLine("[" + strconv.Itoa(i+1) + "] " + u)
	}
}

// flushParagraph wraps and writes the accumulated paragraph buffer. The
// first flushed line of a list item carries its pending prefix; all
// further lines hang at the current indentation.
func (v *textVisitor) flushParagraph() {
	text := v.para.String()
	v.para.Reset()
	if strings.TrimSpace(strings.ReplaceAll(text, hardBreak, " ")) == "" {
		return
	}
	width := max(v.availWidth(), 1)
	var lines []string
	for _, segment := range strings.Split(text, hardBreak) {
		lines = append(lines, wrapText(segment, width)...)
	}
	for _, line := range lines {
		v.writeLine(line)
	}
}

// wrapText normalizes whitespace and greedily fills lines up to width,
// measured in runes. A single word longer than width stays on its own
// overlong line.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		if text != "" {
			return []string{""}
		}
		return nil
	}
	var lines []string
	line := words[0]
	lineLen := utf8.RuneCountInString(line)
	for _, word := range words[1:] {
		wordLen := utf8.RuneCountInString(word)
		if lineLen+1+wordLen > width {
			lines = append(lines, line)
			line = word
			lineLen = wordLen
			continue
		}
		line += " " + word
		lineLen += 1 + wordLen
	}
	return append(lines, line)
}

func (v *textVisitor) availWidth() int { return v.opts.MaxWidth - v.indent }

func (v *textVisitor) writeLine(line string) {
	if v.pending != "" {
		lead := strings.Repeat(" ", max(v.indent-len(v.pending), 0))
		v.out.WriteString(lead + v.pending + line + "\n")
		v.pending = ""
		return
	}
	v.out.WriteString(strings.Repeat(" ", v.indent) + line + "\n")
}

// blankLine separates two blocks with a single empty line.
func (v *textVisitor) blankLine() {
	s := v.out.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	v.out.WriteString("\n")
}

// writePreformatted emits the raw content of a pre element, indented but
// neither normalized nor wrapped.
func (v *textVisitor) writePreformatted(elem *ast.Element) {
	var raw strings.Builder
	collectRawText(&raw, elem)
	content := strings.Trim(raw.String(), "\n")
	if content == "" {
		return
	}
	for _, line := range strings.Split(content, "\n") {
		v.writeLine(line)
	}
}

func collectRawText(sb *strings.Builder, elem *ast.Element) {
	sb.WriteString(elem.Text)
	for _, child := range elem.Children {
		if sub, isElem := child.(*ast.Element); isElem {
			collectRawText(sb, sub)
		}
		sb.WriteString(child.Tail())
	}
}
