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

// htmlenc serializes trees into fragmentary HTML4/5. The output should be
// compatible to both of the standards but not XHTML. Broken trees are not
// corrected; their output is undefined but never aborts the serialization.

import (
	"io"

	"t73f.de/r/zero/set"

	"zine.pocoo.org/zeml/ast"
)

type htmlEncoder struct{}

func (he *htmlEncoder) WriteTree(w io.Writer, root *ast.RootElement) error {
	enc := newEncWriter(w)
	v := htmlVisitor{w: &enc}
	v.visitBody(root.Text, root.Children, false, false)
	return enc.Flush()
}

// elements that must not have a body
var htmlVoidElements = set.New(
	"base", "command", "event-source", "link", "meta", "hr", "br", "img",
	"embed", "param", "area", "col", "input", "source")

// elements whose body is emitted raw, without escaping
var htmlRawElements = set.New(
	"noscript", "style", "script", "iframe", "noembed", "xmp", "noframes")

// elements whose body is emitted as escaped character data
var htmlCDataElements = set.New("title", "textarea")

// boolean attributes valid on every element
var htmlGlobalBooleanAttrs = set.New("irrelevant")

// boolean attributes per element name
var htmlBooleanAttrs = map[string]*set.Set[string]{
	"style":    set.New("scoped"),
	"img":      set.New("ismap"),
	"audio":    set.New("autoplay", "controls"),
	"video":    set.New("autoplay", "controls"),
	"script":   set.New("defer", "async"),
	"details":  set.New("open"),
	"datagrid": set.New("multiple", "disabled"),
	"command":  set.New("hidden", "disabled", "checked", "default"),
	"menu":     set.New("autosubmit"),
	"fieldset": set.New("disabled", "readonly"),
	"option":   set.New("disabled", "readonly", "selected"),
	"optgroup": set.New("disabled", "readonly"),
	"button":   set.New("disabled", "autofocus"),
	"input": set.New(
		"disabled", "readonly", "required", "autofocus", "checked", "ismap"),
	"select": set.New("disabled", "readonly", "autofocus", "multiple"),
	"output": set.New("disabled", "readonly"),
}

type htmlVisitor struct {
	w *encWriter
}

func (v *htmlVisitor) visitNode(node ast.Node) {
	switch n := node.(type) {
	case *ast.Element:
		v.visitElement(n)
	case ast.DynamicNode:
		v.w.WriteString(n.Render())
	}
	if tail := node.Tail(); tail != "" {
		v.w.WriteString(ast.EscapeText(tail))
	}
}

func (v *htmlVisitor) visitElement(elem *ast.Element) {
	v.w.WriteStrings("<", elem.Name)
	for _, attr := range elem.Attrs {
		if v.isBooleanAttr(elem.Name, attr.Key) {
			v.w.WriteStrings(" ", attr.Key)
			continue
		}
		value := ""
		if attr.HasValue {
			value = ast.EscapeAttr(attr.Value)
		}
		v.w.WriteStrings(" ", attr.Key, `="`, value, `"`)
	}
	v.w.WriteString(">")
	if htmlVoidElements.Contains(elem.Name) {
		return
	}
	raw := htmlRawElements.Contains(elem.Name)
	cdata := htmlCDataElements.Contains(elem.Name)
	v.visitBody(elem.Text, elem.Children, raw, cdata)
	v.w.WriteStrings("</", elem.Name, ">")
}

func (v *htmlVisitor) visitBody(text string, children []ast.Node, raw, cdata bool) {
	if raw || cdata {
		// Isolated bodies hold their whole content as text.
		if cdata {
			text = ast.EscapeText(text)
		}
		v.w.WriteString(text)
		return
	}
	if text != "" {
		v.w.WriteString(ast.EscapeText(text))
	}
	for _, child := range children {
		v.visitNode(child)
	}
}

func (v *htmlVisitor) isBooleanAttr(elemName, key string) bool {
	if htmlGlobalBooleanAttrs.Contains(key) {
		return true
	}
	if s := htmlBooleanAttrs[elemName]; s != nil {
		return s.Contains(key)
	}
	return false
}
