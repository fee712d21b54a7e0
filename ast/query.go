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

package ast

// query implements the minimal path expression language over trees.
//
// An expression is a sequence of segments separated by "/". A segment that
// starts the expression with "/" only searches the direct children of the
// invocation point; without it, all descendants are searched depth-first.
// A segment is a tag name, "*", or "#id", optionally followed by a
// predicate in brackets: [key=value], [key!=value], [key~=value] (one
// whitespace-separated token of the value equals), or [key] (presence).

import (
	"iter"
	"slices"
	"strings"
)

// QueryResult is a lazily evaluated query cursor. Items already produced
// are memoized, so random access after partial iteration does not re-run
// the underlying generator. First is cheap; Last and Len force full
// evaluation.
type QueryResult struct {
	next  func() (Node, bool)
	stop  func()
	items []Node
	done  bool
}

func makeQueryResult(seq iter.Seq[Node]) *QueryResult {
	next, stop := iter.Pull(seq)
	return &QueryResult{next: next, stop: stop}
}

// All iterates over all result nodes, starting with the memoized ones.
func (qr *QueryResult) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for i := 0; ; i++ {
			node, found := qr.At(i)
			if !found {
				return
			}
			if !yield(node) {
				return
			}
		}
	}
}

// At returns the i-th result, fetching only as much as needed.
func (qr *QueryResult) At(i int) (Node, bool) {
	if i < 0 {
		qr.fetchAll()
		i += len(qr.items)
		if i < 0 {
			return nil, false
		}
	}
	for !qr.done && i >= len(qr.items) {
		node, ok := qr.next()
		if !ok {
			qr.done = true
			qr.stop()
			break
		}
		qr.items = append(qr.items, node)
	}
	if i < len(qr.items) {
		return qr.items[i], true
	}
	return nil, false
}

// First returns the first result or nil.
func (qr *QueryResult) First() Node {
	if node, found := qr.At(0); found {
		return node
	}
	return nil
}

// Last returns the final result or nil. It forces full evaluation; prefer
// First where possible.
func (qr *QueryResult) Last() Node {
	if node, found := qr.At(-1); found {
		return node
	}
	return nil
}

// Len forces full evaluation and returns the number of results.
func (qr *QueryResult) Len() int {
	qr.fetchAll()
	return len(qr.items)
}

// Query applies a further expression to every result node.
func (qr *QueryResult) Query(expr string) *QueryResult {
	return runQuery(qr.All(), expr)
}

func (qr *QueryResult) fetchAll() {
	for !qr.done {
		node, ok := qr.next()
		if !ok {
			qr.done = true
			qr.stop()
			return
		}
		qr.items = append(qr.items, node)
	}
}

type nodeTest func(Node) bool

func runQuery(elements iter.Seq[Node], expr string) *QueryResult {
	return makeQueryResult(querySeq(elements, expr))
}

func querySeq(elements iter.Seq[Node], expr string) iter.Seq[Node] {
	if rest, isDirect := strings.CutPrefix(expr, "/"); isDirect {
		expr = rest
	} else {
		elements = descendants(elements)
	}
	part, rest, hasRest := strings.Cut(expr, "/")

	tests := compileSegment(part)

	return func(yield func(Node) bool) {
		for node := range elements {
			if !matchesAll(node, tests) {
				continue
			}
			if hasRest {
				// Re-apply the remaining expression to the children of
				// every match; a leading "/" in the rest again restricts
				// the search to direct children.
				sub := querySeq(sliceSeq(NodeChildren(node)), rest)
				for hit := range sub {
					if !yield(hit) {
						return
					}
				}
				continue
			}
			if !yield(node) {
				return
			}
		}
	}
}

func compileSegment(part string) []nodeTest {
	var tests []nodeTest
	if idx := strings.IndexByte(part, '['); idx >= 0 && strings.HasSuffix(part, "]") {
		tests = append(tests, compilePredicate(part[idx+1:len(part)-1]))
		part = part[:idx]
	}
	switch {
	case part == "" || part == "*":
		// every node matches
	case strings.HasPrefix(part, "#"):
		id := part[1:]
		tests = append(tests, func(n Node) bool {
			value, found := NodeAttrs(n).Get("id")
			return found && value == id
		})
	default:
		name := part
		tests = append(tests, func(n Node) bool { return NodeName(n) == name })
	}
	return tests
}

func compilePredicate(expr string) nodeTest {
	if key, value, found := strings.Cut(expr, "!="); found {
		return func(n Node) bool {
			got, has := NodeAttrs(n).Get(key)
			return !has || got != value
		}
	}
	if key, value, found := strings.Cut(expr, "~="); found {
		return func(n Node) bool {
			got, has := NodeAttrs(n).Get(key)
			return has && slices.Contains(strings.Fields(got), value)
		}
	}
	if key, value, found := strings.Cut(expr, "="); found {
		return func(n Node) bool {
			got, has := NodeAttrs(n).Get(key)
			return has && got == value
		}
	}
	key := expr
	return func(n Node) bool { return NodeAttrs(n).Has(key) }
}

func matchesAll(node Node, tests []nodeTest) bool {
	for _, test := range tests {
		if !test(node) {
			return false
		}
	}
	return true
}

// descendants yields every element of the sequence followed by all its
// descendants, depth-first.
func descendants(elements iter.Seq[Node]) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for node := range elements {
			if !walk(node, yield) {
				return
			}
		}
	}
}
