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

import "strings"

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeText escapes body text for HTML output.
func EscapeText(s string) string { return textEscaper.Replace(s) }

// EscapeAttr escapes an attribute value for double-quoted HTML output.
func EscapeAttr(s string) string { return attrEscaper.Replace(s) }
