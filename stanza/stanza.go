// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"encoding/xml"

	"mellium.im/msg/jid"
)

// NSXML is the namespace of the xml:lang attribute.
const NSXML = "http://www.w3.org/XML/1998/namespace"

// Header contains fields common to any top level XMPP stanza (message,
// presence, or IQ).
type Header struct {
	ID   string
	To   jid.JID
	From jid.JID
	Lang string
}

// Attr returns the header as a list of XML attributes in the order they are
// written on the wire: xml:lang, id, to, from. Empty fields are omitted.
func (h Header) Attr() []xml.Attr {
	var attr []xml.Attr
	if h.Lang != "" {
		attr = append(attr, xml.Attr{Name: xml.Name{Local: "xml:lang"}, Value: h.Lang})
	}
	if h.ID != "" {
		attr = append(attr, xml.Attr{Name: xml.Name{Local: "id"}, Value: h.ID})
	}
	if !h.To.Equal(jid.JID{}) {
		attr = append(attr, xml.Attr{Name: xml.Name{Local: "to"}, Value: h.To.String()})
	}
	if !h.From.Equal(jid.JID{}) {
		attr = append(attr, xml.Attr{Name: xml.Name{Local: "from"}, Value: h.From.String()})
	}
	return attr
}

// ReadHeader extracts the envelope fields from a stanza's attribute list.
//
// Reading is permissive: addresses that do not parse as JIDs are left at the
// zero value rather than failing the whole stanza.
func ReadHeader(attr []xml.Attr) Header {
	var h Header
	for _, a := range attr {
		switch a.Name.Local {
		case "lang":
			if a.Name.Space == "xml" || a.Name.Space == NSXML {
				h.Lang = a.Value
			}
		case "id":
			if a.Name.Space == "" {
				h.ID = a.Value
			}
		case "to":
			if a.Name.Space == "" {
				h.To, _ = jid.Parse(a.Value)
			}
		case "from":
			if a.Name.Space == "" {
				h.From, _ = jid.Parse(a.Value)
			}
		}
	}
	return h
}
