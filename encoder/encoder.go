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

// Package encoder provides a generic interface to encode ZEML trees into
// some output form.
package encoder

import (
	"io"

	"zine.pocoo.org/zeml/ast"
)

// Encoder is an interface that allows to encode a tree into some output form.
type Encoder interface {
	// WriteTree encodes a whole tree and writes it to the Writer.
	WriteTree(io.Writer, *ast.RootElement) error
}

// Enum lists all supported encodings.
type Enum uint8

const (
	EncoderUnknown Enum = iota
	EncoderHTML         // HTML serialization
	EncoderText         // Plain text rendition
	EncoderSz           // Symbolic expression
)

var encodingNames = map[Enum]string{
	EncoderHTML: "html",
	EncoderText: "text",
	EncoderSz:   "sz",
}

func (e Enum) String() string {
	if name, found := encodingNames[e]; found {
		return name
	}
	return "*Unknown*"
}

// ParseEncoding returns the encoding for the given string value.
func ParseEncoding(value string) Enum {
	for enc, name := range encodingNames {
		if name == value {
			return enc
		}
	}
	return EncoderUnknown
}

// GetEncodings returns all supported encodings, ordered by encoding value.
func GetEncodings() []Enum { return []Enum{EncoderHTML, EncoderText, EncoderSz} }

// Create builds a new encoder with the given options.
func Create(enc Enum, params *CreateParameter) Encoder {
	switch enc {
	case EncoderHTML:
		return &htmlEncoder{}
	case EncoderText:
		if params == nil {
			return &textEncoder{opts: TextOptions{MaxWidth: defaultMaxWidth}}
		}
		return &textEncoder{opts: params.Text}
	case EncoderSz:
		return &szEncoder{}
	}
	return nil
}

// CreateParameter contains values that are needed to create some encoder.
type CreateParameter struct {
	Text TextOptions // options for the text encoder
}
