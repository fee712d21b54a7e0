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

package sanitizer

// css holds the inline style sub-sanitizer.

import (
	"regexp"
	"strings"

	"t73f.de/r/zero/set"
)

var acceptableCSSProperties = set.New(
	"azimuth", "background-color", "border-bottom-color",
	"border-collapse", "border-color", "border-left-color",
	"border-right-color", "border-top-color", "clear", "color",
	"cursor", "direction", "display", "elevation", "float", "font",
	"font-family", "font-size", "font-style", "font-variant",
	"font-weight", "height", "letter-spacing", "line-height", "overflow",
	"pause", "pause-after", "pause-before", "pitch", "pitch-range",
	"richness", "speak", "speak-header", "speak-numeral",
	"speak-punctuation", "speech-rate", "stress", "text-align",
	"text-decoration", "text-indent", "unicode-bidi", "vertical-align",
	"voice-family", "volume", "white-space", "width")

var acceptableCSSKeywords = set.New(
	"auto", "aqua", "black", "block", "blue", "bold", "both", "bottom",
	"brown", "center", "collapse", "dashed", "dotted", "fuchsia",
	"gray", "green", "!important", "italic", "left", "lime", "maroon",
	"medium", "none", "navy", "normal", "nowrap", "olive", "pointer",
	"purple", "red", "right", "solid", "silver", "teal", "top",
	"transparent", "underline", "white", "yellow")

// properties whose compound values are validated keyword by keyword
var shorthandCSSProperties = set.New("background", "border", "margin", "padding")

var (
	cssURLRe         = regexp.MustCompile(`url\s*\(\s*[^\s)]+?\s*\)\s*`)
	cssSanityCheckRe = regexp.MustCompile(
		`^([:,;#%.\sa-zA-Z0-9!]|\w-\w|'[\s\w]+'|"[\s\w]+"|\([\d,\s]+\))*$`)
	cssPairRe = regexp.MustCompile(`([-\w]+)\s*:\s*([^:;]*)`)
	cssUnitRe = regexp.MustCompile(
		`^(#[0-9a-f]+|rgb\(\d+%?,\d*%?,?\d*%?\)?` +
			`|\d{0,2}\.?\d{0,2}(cm|em|ex|in|mm|pc|pt|px|%|,|\))?)$`)
)

// cleanCSS strips url() references and rebuilds the style value from its
// allow-listed property/value pairs. A value that fails the sanity check
// yields the empty string.
func cleanCSS(css string) string {
	css = cssURLRe.ReplaceAllString(css, " ")
	if !cssSanityCheckRe.MatchString(css) {
		return ""
	}
	var clean []string
	for _, pair := range cssPairRe.FindAllStringSubmatch(css, -1) {
		prop, value := pair[1], pair[2]
		if value == "" {
			continue
		}
		if acceptableCSSProperties.Contains(strings.ToLower(prop)) {
			clean = append(clean, prop+": "+value)
			continue
		}
		base, _, _ := strings.Cut(prop, "-")
		if shorthandCSSProperties.Contains(strings.ToLower(base)) &&
			keywordsAcceptable(value) {
			clean = append(clean, prop+": "+value)
		}
	}
	return strings.Join(clean, "; ")
}

func keywordsAcceptable(value string) bool {
	for _, keyword := range strings.Fields(value) {
		if !acceptableCSSKeywords.Contains(keyword) &&
			!cssUnitRe.MatchString(keyword) {
			return false
		}
	}
	return true
}
