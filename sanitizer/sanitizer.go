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

// Package sanitizer filters untrusted trees through fixed allow-lists.
package sanitizer

import (
	"net/url"
	"strings"

	"t73f.de/r/zero/set"

	"zine.pocoo.org/zeml/ast"
)

var acceptableElements = set.New(
	"a", "abbr", "acronym", "address", "area", "b", "big", "blockquote",
	"br", "button", "caption", "center", "cite", "code", "col",
	"colgroup", "dd", "del", "dfn", "dir", "div", "dl", "dt", "em",
	"fieldset", "font", "form", "h1", "h2", "h3", "h4", "h5", "h6", "hr",
	"i", "img", "input", "ins", "kbd", "label", "legend", "li", "map",
	"menu", "ol", "optgroup", "option", "p", "pre", "q", "s", "samp",
	"select", "small", "span", "strike", "strong", "sub", "sup", "table",
	"tbody", "td", "textarea", "tfoot", "th", "thead", "tr", "tt", "u",
	"ul", "var")

var acceptableAttributes = set.New(
	"abbr", "accept", "accept-charset", "accesskey", "action", "align",
	"alt", "axis", "border", "cellpadding", "cellspacing", "char",
	"charoff", "charset", "checked", "cite", "class", "clear", "cols",
	"colspan", "color", "compact", "coords", "datetime", "dir",
	"disabled", "enctype", "for", "frame", "headers", "height", "href",
	"hreflang", "hspace", "id", "ismap", "label", "lang", "longdesc",
	"maxlength", "media", "method", "multiple", "name", "nohref",
	"noshade", "nowrap", "prompt", "readonly", "rel", "rev", "rows",
	"rowspan", "rules", "scope", "selected", "shape", "size", "span",
	"src", "start", "style", "summary", "tabindex", "target", "title",
	"type", "usemap", "valign", "value", "vspace", "width")

var uriAttributes = set.New("href", "src", "cite", "action", "longdesc")

// elements whose body is raw code, dropped entirely on unwrap
var rawContentElements = set.New("script", "style", "noscript", "iframe")

var acceptableProtocols = set.New(
	"ed2k", "ftp", "http", "https", "irc", "mailto", "news", "gopher",
	"nntp", "telnet", "webcal", "xmpp", "callto", "feed", "urn",
	"aim", "rsync", "tag", "ssh", "sftp", "rtsp", "afs", "git", "msn")

// Sanitize rewrites the tree in place and returns its argument. Elements
// outside the allow-list are unwrapped: their already sanitized children
// are spliced into the parent's child list, their text and tail merge into
// the surrounding text flow. Dynamic content is dropped the same way.
// Sanitizing a sanitized tree is a no-op.
func Sanitize(root *ast.RootElement) *ast.RootElement {
	root.Children = sanitizeBody(&root.Text, root.Children)
	ast.AttachParents(root)
	return root
}

func sanitizeBody(text *string, children []ast.Node) []ast.Node {
	result := make([]ast.Node, 0, len(children))
	var prev ast.Node
	writeText := func(t string) {
		if t == "" {
			return
		}
		if prev != nil {
			prev.SetTail(prev.Tail() + t)
			return
		}
		*text += t
	}
	for _, child := range children {
		elem, isElem := child.(*ast.Element)
		if !isElem {
			// Dynamic content is never trusted; only the tail survives.
			writeText(child.Tail())
			continue
		}
		elem.Children = sanitizeBody(&elem.Text, elem.Children)
		if !acceptableElements.Contains(elem.Name) {
			if !rawContentElements.Contains(elem.Name) {
				writeText(elem.Text)
			}
			result = append(result, elem.Children...)
			if n := len(elem.Children); n > 0 {
				prev = elem.Children[n-1]
			}
			writeText(elem.TailText)
			continue
		}
		sanitizeAttrs(elem)
		prev = elem
		result = append(result, elem)
	}
	return result
}

func sanitizeAttrs(elem *ast.Element) {
	kept := elem.Attrs[:0]
	for _, attr := range elem.Attrs {
		if !acceptableAttributes.Contains(attr.Key) {
			continue
		}
		if uriAttributes.Contains(attr.Key) && !isAllowedURI(attr.Value) {
			continue
		}
		if attr.Key == "style" && attr.Value != "" {
			attr.Value = cleanCSS(attr.Value)
		}
		kept = append(kept, attr)
	}
	elem.Attrs = kept
}

func isAllowedURI(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil {
		return false
	}
	return acceptableProtocols.Contains(strings.ToLower(u.Scheme))
}
