// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package msg

import (
	"bytes"
	"encoding/xml"
	"strings"
	"time"

	"mellium.im/msg/internal/attr"
	"mellium.im/msg/jid"
	"mellium.im/msg/stanza"
	"mellium.im/msg/xmltree"
)

// legacyStampLayout is the timestamp layout of XEP-0091 legacy delayed
// delivery. Stamps in this layout are always UTC.
const legacyStampLayout = "20060102T15:04:05"

// Unmarshal decodes a message stanza from its wire form.
func Unmarshal(b []byte) (Message, error) {
	root, err := xmltree.Decode(xml.NewDecoder(bytes.NewReader(b)))
	if err != nil {
		return Message{}, err
	}
	return Decode(root), nil
}

// UnmarshalXML implements xml.Unmarshaler.
func (m *Message) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	root, err := xmltree.DecodeElement(d, start)
	if err != nil {
		return err
	}
	*m = Decode(root)
	return nil
}

// Decode decodes a message stanza from a parsed element tree using
// DefaultRegistry.
//
// The root element is assumed to be a message stanza; its name and namespace
// are not checked. Decoding is permissive: payloads that are missing or
// malformed leave the corresponding fields at their zero values, and every
// child element that is neither modeled nor known to the registry is
// preserved as an opaque extension.
func Decode(root xmltree.Element) Message {
	return DefaultRegistry.Decode(root)
}

// Decode is like the package level Decode but classifies unrecognized child
// elements against r instead of DefaultRegistry.
func (r Registry) Decode(root xmltree.Element) Message {
	var m Message

	// Elements consumed by one of the payload checks below must not also end
	// up in the extension list.
	claimed := make(map[*xmltree.Element]bool)
	claim := func(el *xmltree.Element) *xmltree.Element {
		if el != nil {
			claimed[el] = true
		}
		return el
	}

	m.Header = stanza.ReadHeader(root.Attr)
	if el := root.FirstChild("error"); el != nil {
		claim(el)
		e := stanza.ReadError(*el)
		m.Error = &e
	}

	m.Type = NormalMessage
	typ := attr.Get(root.Attr, "type")
	for _, t := range messageTypes {
		if typ == string(t) {
			m.Type = t
			break
		}
	}

	if el := claim(root.FirstChild("body")); el != nil {
		m.Body = el.Text()
	}
	if el := claim(root.FirstChild("subject")); el != nil {
		m.Subject = el.Text()
	}
	if el := claim(root.FirstChild("thread")); el != nil {
		m.Thread = el.Text()
	}

	// First matching state wins even if several are present.
	for _, cs := range chatStates {
		if el := root.FirstChild(cs.name); el != nil && el.Name.Space == NSChatStates {
			claim(el)
			m.State = cs.state
			break
		}
	}

	if html := root.FirstChild("html"); html != nil && html.Name.Space == NSXHTMLIM {
		claim(html)
		if body := html.FirstChild("body"); body != nil && body.Name.Space == NSXHTML {
			m.XHTML = strings.TrimSpace(body.InnerXML())
		}
	}

	// Delivery receipts. Carbons reuse the "received" name, distinguished only
	// by namespace, and like the rest of this decoder only the first child
	// with a given name is ever examined.
	if el := root.FirstChild("received"); el != nil {
		switch el.Name.Space {
		case NSReceipts:
			claim(el)
			m.ReceiptID = attr.Get(el.Attr, "id")
			if m.ReceiptID == "" {
				// Old-style receipts carried no id attribute and reused the
				// stanza's own ID instead.
				m.ReceiptID = m.ID
			}
		case NSCarbons:
			claim(el)
			if fwd := el.FirstChild("forwarded"); fwd != nil {
				m.CarbonCopy = r.decodeForwarded(*fwd)
			}
		}
	}
	if el := root.FirstChild("request"); el != nil && el.Name.Space == NSReceipts {
		claim(el)
		m.ReceiptRequested = true
	}

	if el := root.FirstChild("delay"); el != nil && el.Name.Space == NSDelay {
		claim(el)
		m.Stamp = parseStamp(attr.Get(el.Attr, "stamp"))
		m.StampType = DelayedDelivery
	}

	if el := root.FirstChild("result"); el != nil && el.Name.Space == NSArchive {
		claim(el)
		if fwd := el.FirstChild("forwarded"); fwd != nil {
			m.Archived = r.decodeForwarded(*fwd)
		}
	}
	if el := root.FirstChild("sent"); el != nil && el.Name.Space == NSCarbons {
		claim(el)
		if fwd := el.FirstChild("forwarded"); fwd != nil {
			m.CarbonCopy = r.decodeForwarded(*fwd)
		}
	}
	if el := root.FirstChild("forwarded"); el != nil {
		if fwd := r.decodeForwarded(*el); fwd != nil {
			claim(el)
			m.Forwarded = fwd
		}
	}

	if el := root.FirstChild("attention"); el != nil && el.Name.Space == NSAttention {
		claim(el)
		m.AttentionRequested = true
	}

	for _, h := range hints {
		if el := root.FirstChild(h.name); el != nil && el.Name.Space == NSHints {
			claim(el)
			m.Hints |= h.hint
		}
	}

	if el := root.FirstChild("markable"); el != nil {
		claim(el)
		m.Markable = true
	}
	for _, mk := range markers {
		if el := root.FirstChild(mk.name); el != nil && el.Name.Space == NSChatMarkers {
			claim(el)
			m.Marker = mk.marker
			m.MarkerID = attr.Get(el.Attr, "id")
			m.MarkerThread = attr.Get(el.Attr, "thread")
			break
		}
	}

	if el := root.FirstChild("replace"); el != nil && el.Name.Space == NSCorrection {
		claim(el)
		m.Replace = true
		m.ReplaceID = attr.Get(el.Attr, "id")
	}

	// Everything not claimed above is either a generic "x" payload, known to
	// the registry (and silently dropped, matching every deployed
	// implementation of this vocabulary), or an opaque extension.
	for i := range root.Children {
		child := root.Children[i].Element
		if child == nil {
			continue
		}
		if child.Name.Local == "x" {
			switch child.Name.Space {
			case NSLegacyDelay:
				// The legacy encoding is only a fallback; a XEP-0203 delay
				// already seen takes priority.
				if m.Stamp.IsZero() {
					m.Stamp, _ = time.Parse(legacyStampLayout, attr.Get(child.Attr, "stamp"))
					m.StampType = LegacyDelayedDelivery
				}
			case NSConference:
				m.Invite.JID, _ = jid.Parse(attr.Get(child.Attr, "jid"))
				m.Invite.Password = attr.Get(child.Attr, "password")
				m.Invite.Reason = attr.Get(child.Attr, "reason")
				m.Invite.Direct = true
			default:
				m.Extensions = append(m.Extensions, child.Copy())
			}
			continue
		}
		if claimed[child] || r.Known(child.Name) {
			continue
		}
		m.Extensions = append(m.Extensions, child.Copy())
	}

	return m
}

// decodeForwarded decodes the message inside a XEP-0297 forwarding envelope.
// A delay on the envelope itself carries the time the stanza was forwarded
// and overrides any timestamp of the inner message. Returns nil if el is not
// a forwarding envelope.
func (r Registry) decodeForwarded(el xmltree.Element) *Message {
	if el.Name.Space != NSForward {
		return nil
	}
	var fwd Message
	if inner := el.FirstChild("message"); inner != nil {
		fwd = r.Decode(*inner)
	} else {
		fwd.Type = NormalMessage
	}
	if d := el.FirstChild("delay"); d != nil && d.Name.Space == NSDelay {
		fwd.Stamp = parseStamp(attr.Get(d.Attr, "stamp"))
		fwd.StampType = DelayedDelivery
	}
	return &fwd
}

// parseStamp parses a XEP-0203 timestamp, returning the zero time if the
// value does not conform to the date-time profile.
func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
