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

import (
	"strconv"
	"strings"
)

// Attribute is a single key/value pair. An attribute present without a
// value (as in "<option selected>") has HasValue false, which is different
// from an attribute with an empty string value.
type Attribute struct {
	Key      string
	Value    string
	HasValue bool
}

// Attributes is an insertion-ordered attribute list. Keys are lowercased on
// every access, so lookups are case-insensitive.
type Attributes []Attribute

// Get returns the value for the key. A bare attribute yields the empty
// string with found true.
func (a Attributes) Get(key string) (value string, found bool) {
	key = strings.ToLower(key)
	for i := range a {
		if a[i].Key == key {
			return a[i].Value, true
		}
	}
	return "", false
}

// GetDefault returns the value for the key, or def if it is absent.
func (a Attributes) GetDefault(key, def string) string {
	if value, found := a.Get(key); found {
		return value
	}
	return def
}

// GetInt returns the attribute parsed as integer, or def.
func (a Attributes) GetInt(key string, def int) int {
	if value, found := a.Get(key); found {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return def
}

// Has reports whether the key is present, with or without a value.
func (a Attributes) Has(key string) bool {
	_, found := a.Get(key)
	return found
}

// Set stores a value for the key, keeping the position of an existing key.
func (a *Attributes) Set(key, value string) {
	a.put(key, value, true)
}

// SetFlag stores the key as a bare value-less attribute.
func (a *Attributes) SetFlag(key string) {
	a.put(key, "", false)
}

func (a *Attributes) put(key, value string, hasValue bool) {
	key = strings.ToLower(key)
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			(*a)[i].HasValue = hasValue
			return
		}
	}
	*a = append(*a, Attribute{Key: key, Value: value, HasValue: hasValue})
}

// Remove deletes the key and reports whether it was present.
func (a *Attributes) Remove(key string) bool {
	key = strings.ToLower(key)
	for i := range *a {
		if (*a)[i].Key == key {
			*a = append((*a)[:i], (*a)[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of attributes.
func (a Attributes) Len() int { return len(a) }

// Copy returns an independent copy of the attribute list.
func (a Attributes) Copy() Attributes {
	if a == nil {
		return nil
	}
	rv := make(Attributes, len(a))
	copy(rv, a)
	return rv
}

// Equal reports whether both lists hold the same pairs in the same order.
func (a Attributes) Equal(b Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
