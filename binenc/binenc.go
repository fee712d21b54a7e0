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

// Package binenc persists trees in a compact tag-length-value binary
// format, so parsed documents can be cached without re-parsing markup.
//
// Every value starts with a one-byte opcode: N (null), I (signed 32 bit
// integer), S (UTF-8 string, 32 bit length prefix), L (list, 16 bit count
// prefix), M (ordered attribute mapping, 16 bit count prefix), R (root),
// E (element), D (dynamic node). All prefixes are big-endian. A dynamic
// node carries its type name and tail, followed by a length-prefixed
// payload blob that is opaque to this format and owned by the type's
// payload codec.
package binenc

import (
	"errors"
	"fmt"

	"zine.pocoo.org/zeml/ast"
	"zine.pocoo.org/zeml/logger"
)

// ErrFormat reports structurally corrupt input: an unknown opcode or a
// truncated buffer. There is no partial recovery from it.
var ErrFormat = errors.New("format error")

// PayloadCodec translates one dynamic node type to and from its payload
// blob. Extensions register a codec for every dynamic type they produce.
type PayloadCodec interface {
	Marshal(node ast.DynamicNode) ([]byte, error)
	Unmarshal(payload []byte) (ast.DynamicNode, error)
}

// Codec encodes and decodes trees. The zero value is not usable; create
// it with NewCodec.
type Codec struct {
	payloads map[string]PayloadCodec
	log      *logger.Logger
}

// NewCodec creates a codec with the built-in dynamic types registered.
// The logger may be nil; it receives a message for every dynamic node
// that degrades to a BrokenElement during decoding.
func NewCodec(log *logger.Logger) *Codec {
	c := &Codec{payloads: map[string]PayloadCodec{}, log: log}
	c.RegisterPayload(ast.TypeBroken, brokenPayload{})
	c.RegisterPayload(ast.TypeMarkupError, markupErrorPayload{})
	c.RegisterPayload(ast.TypeHTML, htmlPayload{})
	return c
}

// RegisterPayload registers the payload codec for a dynamic type name.
// A later registration replaces an earlier one.
func (c *Codec) RegisterPayload(typeName string, pc PayloadCodec) {
	c.payloads[typeName] = pc
}

var defaultCodec = NewCodec(nil)

// Encode serializes a tree with the default codec.
func Encode(root *ast.RootElement) ([]byte, error) { return defaultCodec.Encode(root) }

// Decode reconstructs a tree with the default codec.
func Decode(data []byte) (*ast.RootElement, error) { return defaultCodec.Decode(data) }

// built-in payload codecs

type brokenPayload struct{}

func (brokenPayload) Marshal(node ast.DynamicNode) ([]byte, error) {
	bn, valid := node.(*ast.BrokenElement)
	if !valid {
		return nil, fmt.Errorf("not a broken element: %T", node)
	}
	return appendBlobString(appendBlobString(nil, bn.TypeName), bn.Message), nil
}

func (brokenPayload) Unmarshal(payload []byte) (ast.DynamicNode, error) {
	typeName, rest, err := readBlobString(payload)
	if err != nil {
		return nil, err
	}
	message, _, err := readBlobString(rest)
	if err != nil {
		return nil, err
	}
	return ast.NewBroken(typeName, message), nil
}

type markupErrorPayload struct{}

func (markupErrorPayload) Marshal(node ast.DynamicNode) ([]byte, error) {
	men, valid := node.(*ast.MarkupErrorElement)
	if !valid {
		return nil, fmt.Errorf("not a markup error element: %T", node)
	}
	return []byte(men.Message), nil
}

func (markupErrorPayload) Unmarshal(payload []byte) (ast.DynamicNode, error) {
	return ast.NewMarkupError(string(payload)), nil
}

type htmlPayload struct{}

func (htmlPayload) Marshal(node ast.DynamicNode) ([]byte, error) {
	hn, valid := node.(*ast.HTMLElement)
	if !valid {
		return nil, fmt.Errorf("not a html element: %T", node)
	}
	return []byte(hn.Value), nil
}

func (htmlPayload) Unmarshal(payload []byte) (ast.DynamicNode, error) {
	return ast.NewHTML(string(payload)), nil
}
