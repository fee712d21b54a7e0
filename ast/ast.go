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

// Package ast provides the document model for ZEML trees.
//
// A tree is built of three kinds of nodes: the single RootElement that owns
// the whole tree, named Elements with attributes and children, and dynamic
// nodes that render themselves. The API is influenced by ElementTree, with
// one important difference: the text directly behind an element belongs to
// that element as its tail, not to the parent's text.
package ast

import "iter"

// RootName is the sentinel name reported for the root element.
const RootName = "#root"

// Type names of the built-in dynamic nodes.
const (
	TypeBroken      = "zeml.broken"
	TypeMarkupError = "zeml.markuperror"
	TypeHTML        = "zeml.html"
)

// Node is implemented by every member of a ZEML tree.
type Node interface {
	// Tail returns the text immediately following the node's end tag. The
	// tail belongs to the parent's text flow, not to the node's body.
	Tail() string

	// SetTail replaces the tail text. Calling it on the root is a no-op.
	SetTail(string)

	zemlNode()
}

// Element is a named node with attributes, body text and children.
//
// For the markup "1 <b>2</b> 3" the root's text is "1 ", the b element's
// text is "2" and its tail is " 3".
type Element struct {
	Name     string // lowercase tag name
	Attrs    Attributes
	Children []Node
	Text     string // text before the first child
	TailText string
	Parent   Node // non-owning back-reference, nil until attached
}

// NewElement creates an empty element with the given (lowercased) name.
func NewElement(name string) *Element {
	return &Element{Name: name}
}

func (e *Element) Tail() string     { return e.TailText }
func (e *Element) SetTail(s string) { e.TailText = s }
func (*Element) zemlNode()          {}

// Query runs a path expression over the element's children.
func (e *Element) Query(expr string) *QueryResult {
	return runQuery(sliceSeq(e.Children), expr)
}

// RootElement wraps a forest of top-level nodes and owns the entire tree.
type RootElement struct {
	Text     string
	Children []Node
}

// NewRoot creates an empty root element.
func NewRoot() *RootElement { return &RootElement{} }

func (*RootElement) Tail() string   { return "" }
func (*RootElement) SetTail(string) {}
func (*RootElement) zemlNode()      {}

// Query runs a path expression over the root's children.
func (r *RootElement) Query(expr string) *QueryResult {
	return runQuery(sliceSeq(r.Children), expr)
}

// DynamicNode is a node that renders itself instead of exposing the generic
// name/attributes/children structure. It still carries a tail.
type DynamicNode interface {
	Node

	// DynamicType returns the registered type name used by the binary codec
	// to reconstruct the node.
	DynamicType() string

	// Render produces the HTML representation of the node, without the tail.
	Render() string
}

// dynamic carries the tail handling shared by all dynamic nodes.
type dynamic struct {
	TailText string
}

func (d *dynamic) Tail() string     { return d.TailText }
func (d *dynamic) SetTail(s string) { d.TailText = s }
func (*dynamic) zemlNode()          {}

// BrokenElement replaces a dynamic node whose implementation is no longer
// available when a persisted tree is loaded.
type BrokenElement struct {
	dynamic
	TypeName string // dynamic type that could not be reconstructed
	Message  string // human-readable error description
}

// NewBroken creates a placeholder for the named unavailable dynamic type.
func NewBroken(typeName, message string) *BrokenElement {
	return &BrokenElement{TypeName: typeName, Message: message}
}

func (*BrokenElement) DynamicType() string { return TypeBroken }

func (b *BrokenElement) Render() string {
	return `<div class="error"><strong>Error loading dynamic element ` +
		EscapeText(b.TypeName) + `</strong>: ` + EscapeText(b.Message) + `</div>`
}

// MarkupErrorElement marks a piece of markup the parser rejected, so that
// authors can see what went wrong without the whole document failing.
type MarkupErrorElement struct {
	dynamic
	Message string
}

// NewMarkupError creates an inline error marker with the given message.
func NewMarkupError(message string) *MarkupErrorElement {
	return &MarkupErrorElement{Message: message}
}

func (*MarkupErrorElement) DynamicType() string { return TypeMarkupError }

func (m *MarkupErrorElement) Render() string {
	return `<em class="markup-error">` + EscapeText(m.Message) + `</em>`
}

// HTMLElement stores raw HTML that is emitted verbatim.
type HTMLElement struct {
	dynamic
	Value string
}

// NewHTML creates a node that renders the given HTML unchanged.
func NewHTML(value string) *HTMLElement { return &HTMLElement{Value: value} }

func (*HTMLElement) DynamicType() string { return TypeHTML }
func (h *HTMLElement) Render() string    { return h.Value }

// AttachParents walks the tree and sets the parent reference of every node
// reachable from the given node.
func AttachParents(node Node) {
	for _, child := range NodeChildren(node) {
		if elem, isElem := child.(*Element); isElem {
			elem.Parent = node
		}
		AttachParents(child)
	}
}

// NodeChildren returns the child list of a node. Dynamic nodes have none.
func NodeChildren(node Node) []Node {
	switch n := node.(type) {
	case *Element:
		return n.Children
	case *RootElement:
		return n.Children
	}
	return nil
}

// NodeName returns the element name of a node, RootName for the root and
// the empty string for dynamic nodes.
func NodeName(node Node) string {
	switch n := node.(type) {
	case *Element:
		return n.Name
	case *RootElement:
		return RootName
	}
	return ""
}

// NodeAttrs returns the attributes of a node; nil for anything that is not
// a named element.
func NodeAttrs(node Node) Attributes {
	if elem, isElem := node.(*Element); isElem {
		return elem.Attrs
	}
	return nil
}

// NodeText returns the body text of a node; dynamic nodes have none.
func NodeText(node Node) string {
	switch n := node.(type) {
	case *Element:
		return n.Text
	case *RootElement:
		return n.Text
	}
	return ""
}

// Walk yields the node and all its descendants in depth-first pre-order.
func Walk(node Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(node, yield)
	}
}

func walk(node Node, yield func(Node) bool) bool {
	if !yield(node) {
		return false
	}
	for _, child := range NodeChildren(node) {
		if !walk(child, yield) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the node. The copy has no parent references
// attached.
func Copy(node Node) Node {
	switch n := node.(type) {
	case *RootElement:
		rv := &RootElement{Text: n.Text}
		rv.Children = copyChildren(n.Children)
		return rv
	case *Element:
		rv := &Element{
			Name:     n.Name,
			Attrs:    n.Attrs.Copy(),
			Text:     n.Text,
			TailText: n.TailText,
		}
		rv.Children = copyChildren(n.Children)
		return rv
	case *BrokenElement:
		rv := *n
		return &rv
	case *MarkupErrorElement:
		rv := *n
		return &rv
	case *HTMLElement:
		rv := *n
		return &rv
	}
	return node
}

func copyChildren(children []Node) []Node {
	if children == nil {
		return nil
	}
	rv := make([]Node, len(children))
	for i, child := range children {
		rv[i] = Copy(child)
	}
	return rv
}

// Equal reports structural equality: same variant, name, attributes,
// children, text and tail. Parent references are ignored.
func Equal(a, b Node) bool {
	switch an := a.(type) {
	case *RootElement:
		bn, ok := b.(*RootElement)
		return ok && an.Text == bn.Text && equalChildren(an.Children, bn.Children)
	case *Element:
		bn, ok := b.(*Element)
		return ok && an.Name == bn.Name && an.Text == bn.Text &&
			an.TailText == bn.TailText && an.Attrs.Equal(bn.Attrs) &&
			equalChildren(an.Children, bn.Children)
	case *BrokenElement:
		bn, ok := b.(*BrokenElement)
		return ok && *an == *bn
	case *MarkupErrorElement:
		bn, ok := b.(*MarkupErrorElement)
		return ok && *an == *bn
	case *HTMLElement:
		bn, ok := b.(*HTMLElement)
		return ok && *an == *bn
	case DynamicNode:
		bn, ok := b.(DynamicNode)
		return ok && an.DynamicType() == bn.DynamicType() &&
			an.Render() == bn.Render() && an.Tail() == bn.Tail()
	}
	return false
}

func equalChildren(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sliceSeq(nodes []Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, node := range nodes {
			if !yield(node) {
				return
			}
		}
	}
}
