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

// szenc encodes a tree into a s-expression. The form is stable and mostly
// used for debugging and test comparisons.

import (
	"io"

	"t73f.de/r/sx"

	"zine.pocoo.org/zeml/ast"
)

type szEncoder struct{}

func (enc *szEncoder) WriteTree(w io.Writer, root *ast.RootElement) error {
	_, err := getRootSz(root).Print(w)
	return err
}

func getRootSz(root *ast.RootElement) *sx.Pair {
	var lb sx.ListBuilder
	lb.Add(sx.MakeSymbol("root"))
	lb.Add(sx.MakeString(root.Text))
	for _, child := range root.Children {
		lb.Add(getNodeSz(child))
	}
	return lb.List()
}

func getNodeSz(node ast.Node) sx.Object {
	if dn, isDynamic := node.(ast.DynamicNode); isDynamic {
		return sx.MakeList(
			sx.MakeSymbol("dynamic"),
			sx.MakeString(dn.DynamicType()),
			sx.MakeString(dn.Render()),
			sx.MakeString(dn.Tail()),
		)
	}
	elem := node.(*ast.Element)
	var lb sx.ListBuilder
	lb.Add(sx.MakeSymbol("elem"))
	lb.Add(sx.MakeSymbol(elem.Name))
	lb.Add(getAttrsSz(elem.Attrs))
	lb.Add(sx.MakeString(elem.Text))
	lb.Add(sx.MakeString(elem.TailText))
	for _, child := range elem.Children {
		lb.Add(getNodeSz(child))
	}
	return lb.List()
}

// getAttrsSz encodes attributes as an assoc list. An attribute without a
// value maps its key to nil instead of a string.
func getAttrsSz(attrs ast.Attributes) sx.Object {
	var lb sx.ListBuilder
	for _, attr := range attrs {
		var value sx.Object = sx.Nil()
		if attr.HasValue {
			value = sx.MakeString(attr.Value)
		}
		lb.Add(sx.Cons(sx.MakeString(attr.Key), value))
	}
	return lb.List()
}
