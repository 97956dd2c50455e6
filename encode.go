// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package msg

import (
	"encoding/xml"
	"strings"
	"time"

	"mellium.im/xmlstream"

	"mellium.im/msg/jid"
)

// TokenReader satisfies the xmlstream.Marshaler interface.
//
// Payloads are emitted in a fixed order so that output is deterministic:
// subject, body, thread, stanza error, chat state, rich body, timestamp,
// receipt, receipt request, attention, invitation, processing hints,
// markable, marker, correction, embedded messages, and finally all opaque
// extensions in the order they were decoded.
func (m Message) TokenReader() xml.TokenReader {
	start := xml.StartElement{
		Name: xml.Name{Local: "message"},
		Attr: m.startAttr(),
	}

	var payload []xml.TokenReader
	add := func(r xml.TokenReader) {
		payload = append(payload, r)
	}

	if m.Subject != "" {
		add(textElement("subject", m.Subject))
	}
	if m.Body != "" {
		add(textElement("body", m.Body))
	}
	if m.Thread != "" {
		add(textElement("thread", m.Thread))
	}
	if m.Error != nil {
		add(m.Error.TokenReader())
	}
	if m.State != StateNone {
		add(emptyElement(NSChatStates, m.State.wireName()))
	}
	if m.XHTML != "" {
		add(xmlstream.Wrap(
			xmlstream.Wrap(
				xml.NewDecoder(strings.NewReader(m.XHTML)),
				xml.StartElement{Name: xml.Name{Space: NSXHTML, Local: "body"}},
			),
			xml.StartElement{Name: xml.Name{Space: NSXHTMLIM, Local: "html"}},
		))
	}
	if !m.Stamp.IsZero() {
		utc := m.Stamp.UTC()
		if m.StampType == LegacyDelayedDelivery {
			add(emptyElement(NSLegacyDelay, "x", xml.Attr{
				Name:  xml.Name{Local: "stamp"},
				Value: utc.Format(legacyStampLayout),
			}))
		} else {
			add(emptyElement(NSDelay, "delay", xml.Attr{
				Name:  xml.Name{Local: "stamp"},
				Value: utc.Format(time.RFC3339),
			}))
		}
	}
	if m.ReceiptID != "" {
		add(emptyElement(NSReceipts, "received", xml.Attr{
			Name:  xml.Name{Local: "id"},
			Value: m.ReceiptID,
		}))
	}
	if m.ReceiptRequested {
		add(emptyElement(NSReceipts, "request"))
	}
	if m.AttentionRequested {
		add(emptyElement(NSAttention, "attention"))
	}
	if !m.Invite.JID.Equal(jid.JID{}) {
		add(m.Invite.tokenReader())
	}
	for _, h := range hints {
		if m.Hints&h.hint != 0 {
			add(emptyElement(NSHints, h.name))
		}
	}
	if m.Markable {
		add(emptyElement(NSChatMarkers, "markable"))
	}
	if m.Marker != NoMarker {
		attrs := []xml.Attr{{Name: xml.Name{Local: "id"}, Value: m.MarkerID}}
		if m.MarkerThread != "" {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "thread"}, Value: m.MarkerThread})
		}
		add(emptyElement(NSChatMarkers, m.Marker.wireName(), attrs...))
	}
	if m.Replace {
		if m.Body == "" {
			// A correction with nothing to replace the body with still needs
			// an explicit empty body element, or peers treat the stanza as
			// having no body field at all.
			add(textElement("body", ""))
		}
		add(emptyElement(NSCorrection, "replace", xml.Attr{
			Name:  xml.Name{Local: "id"},
			Value: m.ReplaceID,
		}))
	}
	if m.Forwarded != nil {
		add(wrapForwarded(m.Forwarded))
	}
	if m.Archived != nil {
		add(xmlstream.Wrap(
			wrapForwarded(m.Archived),
			xml.StartElement{Name: xml.Name{Space: NSArchive, Local: "result"}},
		))
	}
	if m.CarbonCopy != nil {
		add(xmlstream.Wrap(
			wrapForwarded(m.CarbonCopy),
			xml.StartElement{Name: xml.Name{Space: NSCarbons, Local: "received"}},
		))
	}
	for i := range m.Extensions {
		add(m.Extensions[i].TokenReader())
	}

	return xmlstream.Wrap(xmlstream.MultiReader(payload...), start)
}

// WriteXML satisfies the xmlstream.WriterTo interface.
// It is like MarshalXML except it writes tokens to w.
func (m Message) WriteXML(w xmlstream.TokenWriter) (int, error) {
	return xmlstream.Copy(w, m.TokenReader())
}

// MarshalXML implements xml.Marshaler.
func (m Message) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	_, err := m.WriteXML(e)
	if err != nil {
		return err
	}
	return e.Flush()
}

func (m Message) startAttr() []xml.Attr {
	attr := m.Header.Attr()
	typ := m.Type
	switch typ {
	case ErrorMessage, NormalMessage, ChatMessage, GroupChatMessage, HeadlineMessage:
	default:
		typ = NormalMessage
	}
	return append(attr, xml.Attr{Name: xml.Name{Local: "type"}, Value: string(typ)})
}

func (i Invite) tokenReader() xml.TokenReader {
	if i.Direct {
		attrs := []xml.Attr{{Name: xml.Name{Local: "jid"}, Value: i.JID.String()}}
		if i.Password != "" {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "password"}, Value: i.Password})
		}
		if i.Reason != "" {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "reason"}, Value: i.Reason})
		}
		return emptyElement(NSConference, "x", attrs...)
	}

	var inner []xml.TokenReader
	if i.Reason != "" {
		inner = append(inner, textElement("reason", i.Reason))
	}
	invite := xmlstream.Wrap(
		xmlstream.MultiReader(inner...),
		xml.StartElement{
			Name: xml.Name{Local: "invite"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "to"}, Value: i.JID.String()}},
		},
	)
	payload := []xml.TokenReader{invite}
	if i.Password != "" {
		payload = append(payload, textElement("password", i.Password))
	}
	return xmlstream.Wrap(
		xmlstream.MultiReader(payload...),
		xml.StartElement{Name: xml.Name{Space: NSMUCUser, Local: "x"}},
	)
}

func wrapForwarded(m *Message) xml.TokenReader {
	return xmlstream.Wrap(
		m.TokenReader(),
		xml.StartElement{Name: xml.Name{Space: NSForward, Local: "forwarded"}},
	)
}

func textElement(local, text string) xml.TokenReader {
	start := xml.StartElement{Name: xml.Name{Local: local}}
	if text == "" {
		return xmlstream.Wrap(nil, start)
	}
	return xmlstream.Wrap(xmlstream.Token(xml.CharData(text)), start)
}

func emptyElement(space, local string, attr ...xml.Attr) xml.TokenReader {
	return xmlstream.Wrap(nil, xml.StartElement{
		Name: xml.Name{Space: space, Local: local},
		Attr: attr,
	})
}
