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

package parser

// plain turns raw text into a tree of paragraphs. Blank lines separate
// paragraphs, single line breaks become br elements.

import (
	"strings"

	"t73f.de/r/zsx/input"

	"zine.pocoo.org/zeml/ast"
)

func init() {
	register(&Info{
		Name:         "text",
		AltNames:     []string{"plain"},
		IsTextFormat: true,
		Parse:        parsePlain,
	})
}

func parsePlain(inp *input.Input, _ string, _ []Extension) *ast.RootElement {
	root := ast.NewRoot()
	for _, block := range splitParagraphs(string(inp.Src[inp.Pos:])) {
		para := ast.NewElement("p")
		for i, line := range strings.Split(block, "\n") {
			if i == 0 {
				para.Text = line
				continue
			}
			br := ast.NewElement("br")
			br.TailText = line
			para.Children = append(para.Children, br)
		}
		root.Children = append(root.Children, para)
	}
	return root
}

// splitParagraphs splits text at runs of two or more newlines. Trailing
// whitespace on a line does not keep a paragraph alive.
func splitParagraphs(text string) []string {
	var blocks []string
	var lines []string
	flush := func() {
		if len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
			lines = nil
		}
	}
	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	flush()
	return blocks
}
