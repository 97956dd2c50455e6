// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package msg

import (
	"encoding/xml"
)

// Registry is the ordered set of child element names a decoder recognizes.
//
// Entries with an empty Space match an element with that local name in any
// namespace; this keeps generically named elements such as "active" or
// "delay" out of the opaque extension list even when they arrive in an
// unexpected namespace. Entries with a Space match only elements in exactly
// that namespace.
type Registry []xml.Name

// Known reports whether name matches any entry of the registry.
func (r Registry) Known(name xml.Name) bool {
	for _, e := range r {
		if e.Local != name.Local {
			continue
		}
		if e.Space == "" || e.Space == name.Space {
			return true
		}
	}
	return false
}

// DefaultRegistry recognizes the payloads modeled by this package. It must
// not be modified; decoders needing different classification construct their
// own Registry.
var DefaultRegistry = func() Registry {
	r := Registry{
		{Local: "body"},
		{Local: "subject"},
		{Local: "thread"},
		{Local: "html"},
		{Space: NSReceipts, Local: "received"},
		{Local: "request"},
		{Local: "delay"},
		{Local: "attention"},
		{Local: "addresses"},
	}
	for _, cs := range chatStates {
		r = append(r, xml.Name{Local: cs.name})
	}
	return r
}()
