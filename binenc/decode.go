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

	"zine.pocoo.org/zeml/ast"
	"zine.pocoo.org/zeml/logger"
)

// Decode reconstructs a tree from bytes. A dynamic node whose type has no
// registered payload codec, or whose payload cannot be unmarshalled,
// degrades to a BrokenElement; structural corruption aborts with an error
// wrapping ErrFormat.
func (c *Codec) Decode(data []byte) (*ast.RootElement, error) {
	d := decoder{data: data, payloads: c.payloads, log: c.log}
	root, err := d.readRoot()
	if err != nil {
		return nil, err
	}
	ast.AttachParents(root)
	return root, nil
}

// DecodeDocuments reconstructs a set of named trees from a single blob.
func (c *Codec) DecodeDocuments(data []byte) (map[string]*ast.RootElement, error) {
	d := decoder{data: data, payloads: c.payloads, log: c.log}
	count, err := d.readInt()
	if err != nil {
		return nil, err
	}
	docs := make(map[string]*ast.RootElement, count)
	for range count {
		key, err2 := d.readTaggedString()
		if err2 != nil {
			return nil, err2
		}
		root, err2 := d.readRoot()
		if err2 != nil {
			return nil, err2
		}
		ast.AttachParents(root)
		docs[key] = root
	}
	return docs, nil
}

type decoder struct {
	data     []byte
	pos      int
	payloads map[string]PayloadCodec
	log      *logger.Logger
}

func (d *decoder) readRoot() (*ast.RootElement, error) {
	if err := d.expect('R'); err != nil {
		return nil, err
	}
	root := ast.NewRoot()
	var err error
	if root.Text, err = d.readTaggedString(); err != nil {
		return nil, err
	}
	if root.Children, err = d.readChildren(); err != nil {
		return nil, err
	}
	return root, nil
}

func (d *decoder) readNode() (ast.Node, error) {
	opcode, err := d.readByte()
	if err != nil {
		return nil, err
	}
	switch opcode {
	case 'E':
		return d.readElement()
	case 'D':
		return d.readDynamic()
	}
	return nil, fmt.Errorf("%w: unexpected opcode %q", ErrFormat, opcode)
}

func (d *decoder) readElement() (*ast.Element, error) {
	name, err := d.readTaggedString()
	if err != nil {
		return nil, err
	}
	elem := ast.NewElement(name)
	if elem.Children, err = d.readChildren(); err != nil {
		return nil, err
	}
	if elem.Attrs, err = d.readAttrs(); err != nil {
		return nil, err
	}
	if elem.Text, err = d.readTaggedString(); err != nil {
		return nil, err
	}
	if elem.TailText, err = d.readTaggedString(); err != nil {
		return nil, err
	}
	return elem, nil
}

func (d *decoder) readDynamic() (ast.Node, error) {
	typeName, err := d.readTaggedString()
	if err != nil {
		return nil, err
	}
	tail, err := d.readTaggedString()
	if err != nil {
		return nil, err
	}
	length, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	payload, err := d.readBytes(int(length))
	if err != nil {
		return nil, err
	}
	node := d.reconstruct(typeName, payload)
	node.SetTail(tail)
	return node, nil
}

// reconstruct rebuilds a dynamic node from its payload, degrading to a
// BrokenElement placeholder when the type is unknown or its payload codec
// fails. The rest of the tree is unaffected.
func (d *decoder) reconstruct(typeName string, payload []byte) ast.DynamicNode {
	pc, registered := d.payloads[typeName]
	if !registered {
		d.log.Error().Str("type", typeName).Msg("Unknown dynamic element type, element ignored")
		return ast.NewBroken(typeName, "dynamic type is not registered")
	}
	node, err := pc.Unmarshal(payload)
	if err != nil {
		d.log.Error().Str("type", typeName).Err(err).Msg("Error loading dynamic element, element ignored")
		return ast.NewBroken(typeName, err.Error())
	}
	return node
}

func (d *decoder) readChildren() ([]ast.Node, error) {
	if err := d.expect('L'); err != nil {
		return nil, err
	}
	count, err := d.readUint16()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	children := make([]ast.Node, 0, count)
	for range count {
		child, err2 := d.readNode()
		if err2 != nil {
			return nil, err2
		}
		children = append(children, child)
	}
	return children, nil
}

func (d *decoder) readAttrs() (ast.Attributes, error) {
	if err := d.expect('M'); err != nil {
		return nil, err
	}
	count, err := d.readUint16()
	if err != nil {
		return nil, err
	}
	var attrs ast.Attributes
	for range count {
		key, err2 := d.readTaggedString()
		if err2 != nil {
			return nil, err2
		}
		opcode, err2 := d.readByte()
		if err2 != nil {
			return nil, err2
		}
		switch opcode {
		case 'N':
			attrs.SetFlag(key)
		case 'S':
			value, err3 := d.readString()
			if err3 != nil {
				return nil, err3
			}
			attrs.Set(key, value)
		default:
			return nil, fmt.Errorf("%w: unexpected opcode %q", ErrFormat, opcode)
		}
	}
	return attrs, nil
}

func (d *decoder) readTaggedString() (string, error) {
	if err := d.expect('S'); err != nil {
		return "", err
	}
	return d.readString()
}

func (d *decoder) readString() (string, error) {
	length, err := d.readUint32()
	if err != nil {
		return "", err
	}
	data, err := d.readBytes(int(length))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (d *decoder) readInt() (int32, error) {
	if err := d.expect('I'); err != nil {
		return 0, err
	}
	u, err := d.readUint32()
	return int32(u), err
}

func (d *decoder) expect(opcode byte) error {
	got, err := d.readByte()
	if err != nil {
		return err
	}
	if got != opcode {
		return fmt.Errorf("%w: expected opcode %q, got %q", ErrFormat, opcode, got)
	}
	return nil
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, fmt.Errorf("%w: truncated input", ErrFormat)
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readBytes(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.data) {
		return nil, fmt.Errorf("%w: truncated input", ErrFormat)
	}
	data := d.data[d.pos : d.pos+n]
	d.pos += n
	return data, nil
}

func (d *decoder) readUint16() (uint16, error) {
	data, err := d.readBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(data), nil
}

func (d *decoder) readUint32() (uint32, error) {
	data, err := d.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(data), nil
}
