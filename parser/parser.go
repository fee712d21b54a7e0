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

// Package parser provides the ZEML parser and a generic interface to the
// other input syntaxes that produce ZEML trees.
package parser

import (
	"fmt"

	"t73f.de/r/zsx/input"

	"zine.pocoo.org/zeml/ast"
)

// Info describes a single input syntax.
type Info struct {
	Name         string
	AltNames     []string
	IsTextFormat bool
	Parse        func(inp *input.Input, reason string, exts []Extension) *ast.RootElement
}

var registry = map[string]*Info{}

// register the parser (info) for later retrieval.
func register(pi *Info) {
	if _, ok := registry[pi.Name]; ok {
		panic(fmt.Sprintf("Parser %q already registered", pi.Name))
	}
	registry[pi.Name] = pi
	for _, alt := range pi.AltNames {
		if _, ok := registry[alt]; ok {
			panic(fmt.Sprintf("Parser %q already registered", alt))
		}
		registry[alt] = pi
	}
}

// Syntaxes returns the names of all registered input syntaxes.
func Syntaxes() []string {
	result := make([]string, 0, len(registry))
	for syntax := range registry {
		result = append(result, syntax)
	}
	return result
}

// Get the parser (info) by name. If name is not found, the ZEML parser is
// used.
func Get(name string) *Info {
	if pi := registry[name]; pi != nil {
		return pi
	}
	return registry[syntaxZeml]
}

// Parse parses ZEML markup into a tree. The reason is an opaque tag (such
// as "comment" or "entry") that is handed to every extension; it never
// fails, malformed input degrades to literal text or inline error nodes.
func Parse(markup, reason string, exts ...Extension) *ast.RootElement {
	return ParseSyntax(syntaxZeml, markup, reason, exts...)
}

// ParseSyntax parses input of the named syntax into a tree.
func ParseSyntax(syntax, markup, reason string, exts ...Extension) *ast.RootElement {
	inp := input.NewInput([]byte(markup))
	root := Get(syntax).Parse(inp, reason, exts)
	if root == nil {
		root = ast.NewRoot()
	}
	ast.AttachParents(root)
	return root
}
