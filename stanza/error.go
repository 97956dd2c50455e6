// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"encoding/xml"

	"mellium.im/xmlstream"

	"mellium.im/msg/internal/attr"
	"mellium.im/msg/jid"
	"mellium.im/msg/xmltree"
)

// NSStanzas is the namespace of defined stanza error conditions.
const NSStanzas = "urn:ietf:params:xml:ns:xmpp-stanzas"

// ErrorType is the type of a stanza error payload.
// It should normally be one of the constants defined in this package.
type ErrorType string

const (
	// Cancel indicates that the error cannot be remedied and the operation
	// should not be retried.
	Cancel ErrorType = "cancel"

	// Auth indicates that an operation should be retried after providing
	// credentials.
	Auth ErrorType = "auth"

	// Continue indicates that the operation can proceed (the condition was only
	// a warning).
	Continue ErrorType = "continue"

	// Modify indicates that the operation can be retried after changing the
	// data sent.
	Modify ErrorType = "modify"

	// Wait indicates that an error is temporary and may be retried.
	Wait ErrorType = "wait"
)

// Condition represents a more specific stanza error condition that can be
// encapsulated by an <error/> element.
type Condition string

// A list of stanza error conditions defined in RFC 6120 §8.3.3.
const (
	BadRequest            Condition = "bad-request"
	Conflict              Condition = "conflict"
	FeatureNotImplemented Condition = "feature-not-implemented"
	Forbidden             Condition = "forbidden"
	Gone                  Condition = "gone"
	InternalServerError   Condition = "internal-server-error"
	ItemNotFound          Condition = "item-not-found"
	JIDMalformed          Condition = "jid-malformed"
	NotAcceptable         Condition = "not-acceptable"
	NotAllowed            Condition = "not-allowed"
	NotAuthorized         Condition = "not-authorized"
	PolicyViolation       Condition = "policy-violation"
	RecipientUnavailable  Condition = "recipient-unavailable"
	Redirect              Condition = "redirect"
	RegistrationRequired  Condition = "registration-required"
	RemoteServerNotFound  Condition = "remote-server-not-found"
	RemoteServerTimeout   Condition = "remote-server-timeout"
	ResourceConstraint    Condition = "resource-constraint"
	ServiceUnavailable    Condition = "service-unavailable"
	SubscriptionRequired  Condition = "subscription-required"
	UndefinedCondition    Condition = "undefined-condition"
	UnexpectedRequest     Condition = "unexpected-request"
)

// Error is a stanza level error payload.
type Error struct {
	By        jid.JID
	Type      ErrorType
	Condition Condition
	Text      string
}

// Error satisfies the error interface and returns the condition.
func (e Error) Error() string {
	return string(e.Condition)
}

// ReadError extracts a stanza error from a parsed <error/> element.
//
// Like the rest of stanza decoding this is permissive: missing or unexpected
// content simply leaves the corresponding field at its zero value.
func ReadError(el xmltree.Element) Error {
	e := Error{
		Type: ErrorType(attr.Get(el.Attr, "type")),
	}
	e.By, _ = jid.Parse(attr.Get(el.Attr, "by"))
	for i := range el.Children {
		c := el.Children[i].Element
		if c == nil || c.Name.Space != NSStanzas {
			continue
		}
		if c.Name.Local == "text" {
			e.Text = c.Text()
			continue
		}
		if e.Condition == "" {
			e.Condition = Condition(c.Name.Local)
		}
	}
	return e
}

// TokenReader satisfies the xmlstream.Marshaler interface.
func (e Error) TokenReader() xml.TokenReader {
	start := xml.StartElement{Name: xml.Name{Local: "error"}}
	if e.Type != "" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "type"},
			Value: string(e.Type),
		})
	}
	if !e.By.Equal(jid.JID{}) {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "by"},
			Value: e.By.String(),
		})
	}

	var payload []xml.TokenReader
	if e.Condition != "" {
		payload = append(payload, xmlstream.Wrap(
			nil,
			xml.StartElement{Name: xml.Name{Space: NSStanzas, Local: string(e.Condition)}},
		))
	}
	if e.Text != "" {
		payload = append(payload, xmlstream.Wrap(
			xmlstream.Token(xml.CharData(e.Text)),
			xml.StartElement{Name: xml.Name{Space: NSStanzas, Local: "text"}},
		))
	}
	return xmlstream.Wrap(xmlstream.MultiReader(payload...), start)
}

// WriteXML satisfies the xmlstream.WriterTo interface.
// It is like MarshalXML except it writes tokens to w.
func (e Error) WriteXML(w xmlstream.TokenWriter) (int, error) {
	return xmlstream.Copy(w, e.TokenReader())
}

// MarshalXML implements xml.Marshaler.
func (e Error) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	_, err := e.WriteXML(enc)
	return err
}
