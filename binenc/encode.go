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

package binenc

import (
	"encoding/binary"
	"fmt"
	"maps"
	"math"
	"slices"

	"zine.pocoo.org/zeml/ast"
)

func sortedKeys(docs map[string]*ast.RootElement) []string {
	return slices.Sorted(maps.Keys(docs))
}

// Encode serializes a tree into bytes.
func (c *Codec) Encode(root *ast.RootElement) ([]byte, error) {
	var e encoder
	e.payloads = c.payloads
	if err := e.writeRoot(root); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// EncodeDocuments serializes a set of named trees, such as the parsed
// parts of one blog post, into a single blob.
func (c *Codec) EncodeDocuments(docs map[string]*ast.RootElement) ([]byte, error) {
	var e encoder
	e.payloads = c.payloads
	e.writeInt(int32(len(docs)))
	for _, key := range sortedKeys(docs) {
		e.writeString(key)
		if err := e.writeRoot(docs[key]); err != nil {
			return nil, err
		}
	}
	return e.buf, nil
}

type encoder struct {
	buf      []byte
	payloads map[string]PayloadCodec
}

func (e *encoder) writeRoot(root *ast.RootElement) error {
	e.buf = append(e.buf, 'R')
	e.writeString(root.Text)
	return e.writeChildren(root.Children)
}

func (e *encoder) writeNode(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Element:
		e.buf = append(e.buf, 'E')
		e.writeString(n.Name)
		if err := e.writeChildren(n.Children); err != nil {
			return err
		}
		if err := e.writeAttrs(n.Attrs); err != nil {
			return err
		}
		e.writeString(n.Text)
		e.writeString(n.TailText)
		return nil
	case ast.DynamicNode:
		return e.writeDynamic(n)
	case *ast.RootElement:
		return e.writeRoot(n)
	}
	return fmt.Errorf("unsupported node %T", node)
}

func (e *encoder) writeDynamic(node ast.DynamicNode) error {
	typeName := node.DynamicType()
	pc, registered := e.payloads[typeName]
	if !registered {
		return fmt.Errorf("no payload codec for dynamic type %q", typeName)
	}
	payload, err := pc.Marshal(node)
	if err != nil {
		return fmt.Errorf("marshal dynamic type %q: %w", typeName, err)
	}
	e.buf = append(e.buf, 'D')
	e.writeString(typeName)
	e.writeString(node.Tail())
	e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(len(payload)))
	e.buf = append(e.buf, payload...)
	return nil
}

func (e *encoder) writeChildren(children []ast.Node) error {
	if len(children) > math.MaxUint16 {
		return fmt.Errorf("too many child nodes: %d", len(children))
	}
	e.buf = append(e.buf, 'L')
	e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(len(children)))
	for _, child := range children {
		if err := e.writeNode(child); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) writeAttrs(attrs ast.Attributes) error {
	if attrs.Len() > math.MaxUint16 {
		return fmt.Errorf("too many attributes: %d", attrs.Len())
	}
	e.buf = append(e.buf, 'M')
	e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(attrs.Len()))
	for _, attr := range attrs {
		e.writeString(attr.Key)
		if attr.HasValue {
			e.writeString(attr.Value)
		} else {
			e.buf = append(e.buf, 'N')
		}
	}
	return nil
}

func (e *encoder) writeString(s string) {
	e.buf = append(e.buf, 'S')
	e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) writeInt(i int32) {
	e.buf = append(e.buf, 'I')
	e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(i))
}

// appendBlobString length-prefixes a string inside a payload blob.
func appendBlobString(blob []byte, s string) []byte {
	blob = binary.BigEndian.AppendUint32(blob, uint32(len(s)))
	return append(blob, s...)
}

// readBlobString reads one length-prefixed string from a payload blob.
func readBlobString(blob []byte) (string, []byte, error) {
	if len(blob) < 4 {
		return "", nil, fmt.Errorf("%w: truncated payload", ErrFormat)
	}
	length := binary.BigEndian.Uint32(blob)
	blob = blob[4:]
	if uint32(len(blob)) < length {
		return "", nil, fmt.Errorf("%w: truncated payload", ErrFormat)
	}
	return string(blob[:length]), blob[length:], nil
}
