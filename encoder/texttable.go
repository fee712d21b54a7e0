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

// texttable lays out table elements as fixed-width character grids.

import (
	"strings"
	"unicode/utf8"

	"zine.pocoo.org/zeml/ast"
)

type textCell struct {
	elem *ast.Element
	span int
	col  int
}

type textRow struct {
	cells  []textCell
	header bool
}

// writeTable renders a table element. Column widths come from a two-pass
// measurement: simple cells first, then colspanning cells widen their
// columns evenly. The grid uses +, - and | characters; the boundary after
// the last header row is drawn with = instead of -.
func (v *textVisitor) writeTable(table *ast.Element) {
	rows := collectTableRows(table)
	if len(rows) == 0 {
		return
	}
	if v.opts.Simple {
		for _, row := range rows {
			var parts []string
			for _, cell := range row.cells {
				parts = append(parts, strings.Join(v.renderCell(cell.elem, v.availWidth()), " "))
			}
			v.writeLine(strings.Join(parts, "  "))
		}
		return
	}

	numCols := 0
	for _, row := range rows {
		cols := 0
		for _, cell := range row.cells {
			cols += cell.span
		}
		numCols = max(numCols, cols)
	}
	widths := make([]int, numCols)

	// First pass: natural widths of cells spanning a single column.
	for _, row := range rows {
		for _, cell := range row.cells {
			if cell.span == 1 {
				widths[cell.col] = max(widths[cell.col], v.cellWidth(cell.elem))
			}
		}
	}
	// Second pass: widen spanned columns when a colspanning cell needs more.
	for _, row := range rows {
		for _, cell := range row.cells {
			if cell.span > 1 {
				v.widenColumns(widths, cell)
			}
		}
	}
	v.shrinkColumns(widths)

	separator := gridSeparator(widths, '-')
	v.writeLine(separator)
	for i, row := range rows {
		for _, line := range v.renderRow(row, widths) {
			v.writeLine(line)
		}
		if row.header && (i+1 == len(rows) || !rows[i+1].header) {
			v.writeLine(gridSeparator(widths, '='))
			continue
		}
		v.writeLine(separator)
	}
}

// collectTableRows flattens the rows of a table, looking through the row
// group elements. Rows inside thead, and rows made up of th cells only,
// count as header rows.
func collectTableRows(table *ast.Element) []textRow {
	var rows []textRow
	var fromGroup func(group *ast.Element, header bool)
	fromGroup = func(group *ast.Element, header bool) {
		for _, child := range group.Children {
			elem, isElem := child.(*ast.Element)
			if !isElem {
				continue
			}
			switch elem.Name {
			case "thead":
				fromGroup(elem, true)
			case "tbody", "tfoot":
				fromGroup(elem, false)
			case "tr":
				rows = append(rows, makeTableRow(elem, header))
			}
		}
	}
	fromGroup(table, false)
	return rows
}

func makeTableRow(tr *ast.Element, header bool) textRow {
	row := textRow{header: header}
	col := 0
	allHeads := true
	for _, child := range tr.Children {
		elem, isElem := child.(*ast.Element)
		if !isElem || (elem.Name != "td" && elem.Name != "th") {
			continue
		}
		if elem.Name != "th" {
			allHeads = false
		}
		span := max(elem.Attrs.GetInt("colspan", 1), 1)
		row.cells = append(row.cells, textCell{elem: elem, span: span, col: col})
		col += span
	}
	if len(row.cells) > 0 && allHeads {
		row.header = true
	}
	return row
}

// cellWidth measures the natural width of a cell: its longest line when
// rendered without a width constraint beyond the table's own limit.
func (v *textVisitor) cellWidth(cell *ast.Element) int {
	width := 0
	for _, line := range v.renderCell(cell, max(v.availWidth()-4, 1)) {
		width = max(width, utf8.RuneCountInString(line))
	}
	return width
}

// widenColumns grows the columns under a colspanning cell until they hold
// its natural width, distributing the deficit evenly.
func (v *textVisitor) widenColumns(widths []int, cell textCell) {
	last := min(cell.col+cell.span, len(widths))
	span := last - cell.col
	if span < 1 {
		return
	}
	have := 3 * (span - 1)
	for i := cell.col; i < last; i++ {
		have += widths[i]
	}
	need := v.cellWidth(cell.elem)
	for i := 0; have < need; i++ {
		widths[cell.col+i%span]++
		have++
	}
}

// shrinkColumns narrows the widest columns until the grid fits the
// available width.
func (v *textVisitor) shrinkColumns(widths []int) {
	avail := v.availWidth()
	for gridWidth(widths) > avail {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 1 {
			return
		}
		widths[widest]--
	}
}

func gridWidth(widths []int) int {
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	return total
}

func gridSeparator(widths []int, fill byte) string {
	var sb strings.Builder
	sb.WriteByte('+')
	for _, w := range widths {
		for range w + 2 {
			sb.WriteByte(fill)
		}
		sb.WriteByte('+')
	}
	return sb.String()
}

// renderRow lays the rendered cell lines of one row side by side.
func (v *textVisitor) renderRow(row textRow, widths []int) []string {
	cellLines := make([][]string, len(row.cells))
	cellWidths := make([]int, len(row.cells))
	height := 1
	for i, cell := range row.cells {
		last := min(cell.col+cell.span, len(widths))
		width := 3 * (last - cell.col - 1)
		for c := cell.col; c < last; c++ {
			width += widths[c]
		}
		cellWidths[i] = width
		cellLines[i] = v.renderCell(cell.elem, width)
		height = max(height, len(cellLines[i]))
	}
	lines := make([]string, 0, height)
	for ln := range height {
		var sb strings.Builder
		sb.WriteByte('|')
		for i := range row.cells {
			content := ""
			if ln < len(cellLines[i]) {
				content = cellLines[i][ln]
			}
			sb.WriteString(" " + pad(content, cellWidths[i]) + " |")
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func pad(s string, width int) string {
	if l := utf8.RuneCountInString(s); l < width {
		return s + strings.Repeat(" ", width-l)
	}
	return s
}

// renderCell renders the content of a table cell into its own buffer at
// the given width. Footnote URLs collected inside the cell keep their
// numbering in the surrounding document.
func (v *textVisitor) renderCell(cell *ast.Element, width int) []string {
	sub := newTextVisitor(TextOptions{
		Simple:         v.opts.Simple,
		Multiline:      true,
		MaxWidth:       width,
		CollectURLs:    v.opts.CollectURLs,
		IgnoreRelative: v.opts.IgnoreRelative,
	})
	sub.links = v.links
	sub.addText(cell.Text)
	for _, child := range cell.Children {
		sub.visitNode(child)
	}
	sub.flushParagraph()
	v.links = sub.links
	content := strings.TrimRight(sub.out.String(), "\n")
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}
