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

// Package collect provides functions to collect items from a tree.
package collect

import (
	"iter"

	"zine.pocoo.org/zeml/ast"
)

// Reference is one URL a document points to.
type Reference struct {
	URL   string
	Image bool // the URL is an image source, not a link target
}

// ReferenceSeq returns an iterator over all references mentioned in the
// tree, in document order. This also includes references to images.
func ReferenceSeq(node ast.Node) iter.Seq[Reference] {
	return func(yield func(Reference) bool) {
		for n := range ast.Walk(node) {
			elem, isElem := n.(*ast.Element)
			if !isElem {
				continue
			}
			switch elem.Name {
			case "a":
				if href, found := elem.Attrs.Get("href"); found && href != "" {
					if !yield(Reference{URL: href}) {
						return
					}
				}
			case "img":
				if src, found := elem.Attrs.Get("src"); found && src != "" {
					if !yield(Reference{URL: src, Image: true}) {
						return
					}
				}
			}
		}
	}
}

// References returns all link targets and image sources of the tree, in
// document order.
func References(node ast.Node) []Reference {
	var refs []Reference
	for ref := range ReferenceSeq(node) {
		refs = append(refs, ref)
	}
	return refs
}

// Links returns just the link target URLs of the tree.
func Links(node ast.Node) []string {
	var links []string
	for ref := range ReferenceSeq(node) {
		if !ref.Image {
			links = append(links, ref.URL)
		}
	}
	return links
}
