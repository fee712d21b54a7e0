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

// zeml implements the parser for ZEML, an HTML inspired markup syntax that
// extensions can extend. ZEML always represents fragmentary documents;
// there is no support for meta elements and the like by definition.
//
// The parser is a single-pass state machine with five states. Elements fall
// into classes that steer parsing:
//
//   - isolated: everything up to the end tag is raw text (script, style)
//   - semi-isolated: raw text, but entities are expanded (textarea)
//   - void: never pushed on the open-element stack, can have no children
//   - block vs inline: only used to resolve breaking rules
//
// Breaking rules specify implicit auto-close rules: "<p>foo<p>bar" is
// equivalent to "<p>foo</p><p>bar</p>" because p is broken by every block
// tag. Unlike HTML, the text directly behind an element is the tail of
// that element, not part of the parent's text.
//
// The parser never fails: unparseable markup degrades to literal text or
// to an inline error node.

import (
	"fmt"
	"strings"
	"unicode"

	"t73f.de/r/zsx"
	"t73f.de/r/zsx/input"

	"zine.pocoo.org/zeml/ast"
)

const syntaxZeml = "zeml"

func init() {
	register(&Info{
		Name:         syntaxZeml,
		AltNames:     nil,
		IsTextFormat: true,
		Parse:        parseZeml,
	})
}

type parseState uint8

const (
	stateData parseState = iota
	stateStartTag
	stateEndTag
	stateComment
	stateDone
)

// Sentinels usable in breaking rule sets.
const (
	BreakBlock  = "#block"
	BreakInline = "#inline"
)

var defaultIsolated = []string{"script", "style", "noscript", "iframe"}
var defaultSemiIsolated = []string{"textarea"}
var defaultVoid = []string{"br", "img", "area", "hr", "param", "input", "embed", "col"}
var defaultBlock = []string{
	"div", "p", "form", "ul", "ol", "li", "table", "tr", "tbody", "thead",
	"tfoot", "td", "th", "dl", "dt", "dd", "blockquote",
}

var defaultBreaking = map[string][]string{
	"p":  {BreakBlock},
	"li": {"li"},
	"td": {"td", "th", "tr", "tbody", "thead", "tfoot"},
	"th": {"td", "th", "tr", "tbody", "thead", "tfoot"},
	"tr": {"tr", "tbody", "thead", "tfoot"},
	"dd": {"dl", "dt", "dd"},
	"dt": {"dl", "dt", "dd"},
}

type zemlParser struct {
	inp    *input.Input
	reason string
	root   *ast.RootElement
	stack  []ast.Node // root at the bottom, open elements above

	isolated     map[string]bool
	semiIsolated map[string]bool
	void         map[string]bool
	block        map[string]bool
	breaking     map[string]map[string]bool
	extensions   map[string]Extension
}

func parseZeml(inp *input.Input, reason string, exts []Extension) *ast.RootElement {
	p := newZemlParser(inp, reason, exts)
	p.parse()
	return p.root
}

func newZemlParser(inp *input.Input, reason string, exts []Extension) *zemlParser {
	root := ast.NewRoot()
	p := &zemlParser{
		inp:          inp,
		reason:       reason,
		root:         root,
		stack:        []ast.Node{root},
		isolated:     makeClassSet(defaultIsolated),
		semiIsolated: makeClassSet(defaultSemiIsolated),
		void:         makeClassSet(defaultVoid),
		block:        makeClassSet(defaultBlock),
		breaking:     make(map[string]map[string]bool, len(defaultBreaking)),
		extensions:   make(map[string]Extension, len(exts)),
	}
	for name, breakers := range defaultBreaking {
		p.breaking[name] = makeClassSet(breakers)
	}
	for _, ext := range exts {
		tag := strings.ToLower(ext.Name())
		if ext.IsIsolated() {
			p.isolated[tag] = true
		}
		if ext.IsSemiIsolated() {
			p.semiIsolated[tag] = true
		}
		if ext.IsVoid() {
			p.void[tag] = true
		}
		if ext.IsBlockLevel() {
			p.block[tag] = true
		}
		if brokenBy := ext.BrokenBy(); len(brokenBy) > 0 {
			p.breaking[tag] = makeClassSet(brokenBy)
		}
		p.extensions[tag] = ext
	}
	return p
}

func makeClassSet(names []string) map[string]bool {
	rv := make(map[string]bool, len(names))
	for _, name := range names {
		rv[name] = true
	}
	return rv
}

func (p *zemlParser) parse() {
	state := stateData
	for state != stateDone && p.inp.Ch != input.EOS {
		switch state {
		case stateData:
			state = p.parseData()
		case stateStartTag:
			state = p.parseStartTag()
		case stateEndTag:
			state = p.parseEndTag()
		case stateComment:
			state = p.parseComment()
		}
	}
	// End of input force-closes all remaining open elements.
	for !p.inRoot() {
		p.leave("")
	}
}

func (p *zemlParser) current() ast.Node { return p.stack[len(p.stack)-1] }
func (p *zemlParser) inRoot() bool      { return len(p.stack) == 1 }

func (p *zemlParser) currentName() string { return ast.NodeName(p.current()) }

// writeText appends text to the current element: to the tail of its last
// child if it has one, to its body text otherwise.
func (p *zemlParser) writeText(text string) {
	if text == "" {
		return
	}
	children := ast.NodeChildren(p.current())
	if len(children) > 0 {
		last := children[len(children)-1]
		last.SetTail(last.Tail() + text)
		return
	}
	switch cur := p.current().(type) {
	case *ast.RootElement:
		cur.Text += text
	case *ast.Element:
		cur.Text += text
	}
}

func (p *zemlParser) replaceLastChild(node ast.Node) {
	switch cur := p.current().(type) {
	case *ast.RootElement:
		cur.Children[len(cur.Children)-1] = node
	case *ast.Element:
		cur.Children[len(cur.Children)-1] = node
	}
}

// parseData reads everything up to the next tag. Entities are resolved
// unless the current element is isolated.
func (p *zemlParser) parseData() parseState {
	inp := p.inp
	resolve := !p.isolated[p.currentName()]
	var sb strings.Builder
	for inp.Ch != input.EOS && inp.Ch != '<' {
		if resolve && inp.Ch == '&' {
			pos := inp.Pos
			if entity, ok := zsx.ScanEntity(inp); ok {
				sb.WriteString(entity)
				continue
			}
			inp.SetPos(pos)
			sb.WriteByte('&')
			inp.Next()
			continue
		}
		sb.WriteRune(inp.Ch)
		inp.Next()
	}
	p.writeText(sb.String())
	if inp.Ch == input.EOS {
		return stateDone
	}
	inp.Next() // consume '<'
	return stateStartTag
}

// parseStartTag parses a start tag or hands over to the comment/end-tag
// handling. An unparseable '<' is emitted literally as text.
func (p *zemlParser) parseStartTag() parseState {
	inp := p.inp
	if inp.Ch == '/' {
		inp.Next()
		return stateEndTag
	}

	curName := p.currentName()
	if p.isolated[curName] || p.semiIsolated[curName] {
		p.writeText("<")
		return stateData
	}

	if inp.Accept("!--") {
		return stateComment
	}

	name := strings.ToLower(p.scanName())
	if name == "" {
		p.writeText("<")
		return stateData
	}

	elem := p.enter(name)
	for {
		if key, value, hasValue, ok := p.scanAttribute(); ok {
			if hasValue {
				elem.Attrs.Set(key, value)
			} else {
				elem.Attrs.SetFlag(key)
			}
			continue
		}
		var next parseState
		if inp.Ch == input.EOS {
			next = stateDone
		} else if p.acceptTagEnd() {
			next = stateData
		} else {
			inp.Next()
			continue
		}
		// A void element is complete now; process it in place.
		if p.void[elem.Name] {
			p.replaceLastChild(p.process(elem))
		}
		return next
	}
}

// parseEndTag parses an end tag and leaves the named element. Inside an
// isolated element a non-matching end tag is literal text.
func (p *zemlParser) parseEndTag() parseState {
	inp := p.inp
	raw := p.scanName()
	tag := strings.ToLower(raw)
	if raw != "" {
		curName := p.currentName()
		if curName != tag && (p.isolated[curName] || p.semiIsolated[curName]) {
			p.writeText("</" + raw)
			return stateData
		}
	}
	for inp.Ch != input.EOS && inp.Ch != '>' {
		inp.Next()
	}
	if inp.Ch == input.EOS {
		return stateDone
	}
	inp.Next()
	p.leave(tag)
	return stateData
}

// parseComment skips everything up to and including "-->".
func (p *zemlParser) parseComment() parseState {
	inp := p.inp
	for inp.Ch != input.EOS {
		if inp.Ch == '-' && inp.Accept("-->") {
			break
		}
		inp.Next()
	}
	return stateData
}

// enter opens the given tag, auto-closing every open element the tag is
// allowed to break.
func (p *zemlParser) enter(tag string) *ast.Element {
	for !p.inRoot() && p.isBreaking(tag, p.currentName()) {
		p.leave("")
	}
	elem := ast.NewElement(tag)
	switch cur := p.current().(type) {
	case *ast.RootElement:
		cur.Children = append(cur.Children, elem)
	case *ast.Element:
		cur.Children = append(cur.Children, elem)
	}
	if !p.void[tag] {
		p.stack = append(p.stack, elem)
	}
	return elem
}

// leave closes the named tag, or the innermost element for the empty tag.
//
// If the tag does not match the innermost element, the stack is scanned
// outward: all elements up to and including a match are closed, but only
// if every element along the way has breaking rules and may therefore be
// closed implicitly. Otherwise the end tag is ignored.
func (p *zemlParser) leave(tag string) {
	if tag == "" || tag == p.currentName() {
		if !p.inRoot() {
			popped := p.stack[len(p.stack)-1].(*ast.Element)
			p.stack = p.stack[:len(p.stack)-1]
			p.replaceLastChild(p.process(popped))
		}
		return
	}
	closable := true
	for idx := 0; idx < len(p.stack); idx++ {
		name := ast.NodeName(p.stack[len(p.stack)-1-idx])
		if name == tag {
			if closable {
				for n := 0; n <= idx; n++ {
					p.leave("")
				}
			}
			break
		}
		if len(p.breaking[name]) == 0 {
			closable = false
		}
	}
}

// isBreaking reports whether the incoming tag may implicitly close the
// named open element.
func (p *zemlParser) isBreaking(tag, elementName string) bool {
	breaking := p.breaking[elementName]
	if len(breaking) == 0 {
		return false
	}
	if breaking[tag] {
		return true
	}
	if p.block[tag] {
		return breaking[BreakBlock]
	}
	return breaking[BreakInline]
}

// process runs the extension hook for a finished element.
func (p *zemlParser) process(elem *ast.Element) ast.Node {
	ext := p.extensions[elem.Name]
	if ext == nil {
		return elem
	}
	if accepted := ext.AcceptedAttrs(); accepted != nil {
		allowed := makeClassSet(accepted)
		for _, attr := range elem.Attrs {
			if !allowed[attr.Key] {
				return ast.NewMarkupError(fmt.Sprintf(
					"invalid attribute %q for element <%s>", attr.Key, elem.Name))
			}
		}
	}
	if node := ext.Process(elem, p.reason); node != nil {
		return node
	}
	return elem
}

func (p *zemlParser) scanName() string {
	inp := p.inp
	start := inp.Pos
	for isNameRune(inp.Ch) {
		inp.Next()
	}
	return string(inp.Src[start:inp.Pos])
}

func isNameRune(ch rune) bool {
	return ch == '.' || ch == '-' || ch == '_' ||
		unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// scanAttribute matches one `name[=value]` pair. It consumes nothing when
// no attribute starts at the current position.
func (p *zemlParser) scanAttribute() (key, value string, hasValue, ok bool) {
	inp := p.inp
	pos := inp.Pos
	p.skipSpace()
	key = strings.ToLower(p.scanName())
	if key == "" {
		inp.SetPos(pos)
		return "", "", false, false
	}
	pos = inp.Pos
	p.skipSpace()
	if inp.Ch != '=' {
		inp.SetPos(pos)
		return key, "", false, true
	}
	inp.Next()
	p.skipSpace()
	return key, resolveEntities(p.scanAttrValue()), true, true
}

// scanAttrValue reads a quoted or bare attribute value. An unterminated
// quote falls back to bare parsing, so the quote char becomes part of the
// value.
func (p *zemlParser) scanAttrValue() string {
	inp := p.inp
	if q := inp.Ch; q == '"' || q == '\'' {
		qpos := inp.Pos
		inp.Next()
		start := inp.Pos
		for inp.Ch != input.EOS && inp.Ch != q && inp.Ch != '\n' {
			inp.Next()
		}
		if inp.Ch == q {
			value := string(inp.Src[start:inp.Pos])
			inp.Next()
			return value
		}
		inp.SetPos(qpos)
	}
	start := inp.Pos
	for inp.Ch != input.EOS && inp.Ch != '>' && !input.IsSpace(inp.Ch) {
		inp.Next()
	}
	return string(inp.Src[start:inp.Pos])
}

func (p *zemlParser) acceptTagEnd() bool {
	inp := p.inp
	pos := inp.Pos
	p.skipSpace()
	if inp.Ch == '>' {
		inp.Next()
		return true
	}
	inp.SetPos(pos)
	return false
}

func (p *zemlParser) skipSpace() {
	for input.IsSpace(p.inp.Ch) || input.IsEOLEOS(p.inp.Ch) {
		if p.inp.Ch == input.EOS {
			return
		}
		p.inp.Next()
	}
}

// resolveEntities expands known HTML entities and numeric references in s.
// Unresolvable entities pass through unchanged.
func resolveEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	inp := input.NewInput([]byte(s))
	var sb strings.Builder
	for inp.Ch != input.EOS {
		if inp.Ch == '&' {
			pos := inp.Pos
			if entity, ok := zsx.ScanEntity(inp); ok {
				sb.WriteString(entity)
				continue
			}
			inp.SetPos(pos)
			sb.WriteByte('&')
			inp.Next()
			continue
		}
		sb.WriteRune(inp.Ch)
		inp.Next()
	}
	return sb.String()
}
