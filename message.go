// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package msg

import (
	"time"

	"mellium.im/msg/internal/attr"
	"mellium.im/msg/jid"
	"mellium.im/msg/stanza"
	"mellium.im/msg/xmltree"
)

// MessageType is the type attribute of a message stanza.
type MessageType string

// Wire values of the message type attribute. Anything else decodes as
// NormalMessage.
const (
	ErrorMessage     MessageType = "error"
	NormalMessage    MessageType = "normal"
	ChatMessage      MessageType = "chat"
	GroupChatMessage MessageType = "groupchat"
	HeadlineMessage  MessageType = "headline"
)

// messageTypes lists recognized type values in the order the decoder scans
// them.
var messageTypes = [...]MessageType{
	ErrorMessage,
	NormalMessage,
	ChatMessage,
	GroupChatMessage,
	HeadlineMessage,
}

// ChatState is a chat state notification as defined by XEP-0085.
type ChatState uint8

// Valid chat states. StateNone means no chat state element is present or
// emitted.
const (
	StateNone ChatState = iota
	StateActive
	StateInactive
	StateGone
	StateComposing
	StatePaused
)

// chatStates maps states to wire names in decoder scan order. The scan order
// decides which state wins when a stanza carries several, so it is part of
// the wire contract.
var chatStates = [...]struct {
	state ChatState
	name  string
}{
	{StateActive, "active"},
	{StateInactive, "inactive"},
	{StateGone, "gone"},
	{StateComposing, "composing"},
	{StatePaused, "paused"},
}

func (s ChatState) wireName() string {
	for _, cs := range chatStates {
		if cs.state == s {
			return cs.name
		}
	}
	return ""
}

// StampType records which delayed delivery encoding produced, or will carry,
// a message's timestamp.
type StampType uint8

const (
	// DelayedDelivery is the XEP-0203 encoding and the default.
	DelayedDelivery StampType = iota

	// LegacyDelayedDelivery is the XEP-0091 encoding, accepted on input for
	// compatibility with old archives and emitted only when explicitly
	// selected.
	LegacyDelayedDelivery
)

// Marker is a chat marker kind as defined by XEP-0333.
type Marker uint8

// Valid chat markers. NoMarker means no marker element is present or emitted.
const (
	NoMarker Marker = iota
	MarkerReceived
	MarkerDisplayed
	MarkerAcknowledged
)

// markers maps marker kinds to wire names in decoder scan order.
var markers = [...]struct {
	marker Marker
	name   string
}{
	{MarkerReceived, "received"},
	{MarkerDisplayed, "displayed"},
	{MarkerAcknowledged, "acknowledged"},
}

func (m Marker) wireName() string {
	for _, mk := range markers {
		if mk.marker == m {
			return mk.name
		}
	}
	return ""
}

// Hint is a set of message processing hints as defined by XEP-0334.
// The zero value is the empty set.
type Hint uint8

// The defined processing hints.
const (
	NoPermanentStorage Hint = 1 << iota
	NoStore
	NoCopy
	AllowPermanentStorage
)

// hints maps each hint to its wire name. Emission always follows this order
// regardless of the order hints were added in.
var hints = [...]struct {
	hint Hint
	name string
}{
	{NoPermanentStorage, "no-permanent-storage"},
	{NoStore, "no-store"},
	{NoCopy, "no-copy"},
	{AllowPermanentStorage, "allow-permanent-storage"},
}

// Invite is a group chat invitation. The zero value means no invitation; an
// invitation is present whenever JID is set.
type Invite struct {
	JID      jid.JID
	Password string
	Reason   string

	// Direct selects the XEP-0249 direct encoding; otherwise the invitation is
	// emitted in the mediated XEP-0045 form.
	Direct bool
}

// Message is a single message stanza and all of the payloads this package
// models. It is plain data: copying the struct copies the message, except for
// the embedded messages and extensions, which are shared until Copy is
// called. The setters that construct embedded messages always deep copy.
type Message struct {
	stanza.Header

	Type    MessageType
	Subject string
	Body    string
	Thread  string

	// Stamp is the delayed delivery timestamp. The zero time means the message
	// carries no timestamp; StampType selects the wire encoding.
	Stamp     time.Time
	StampType StampType

	State              ChatState
	AttentionRequested bool

	// XHTML is the rich text body with its XHTML <body> wrapper and namespace
	// qualification stripped.
	XHTML string

	// ReceiptID marks this message as a delivery receipt for the message with
	// that ID.
	ReceiptID        string
	ReceiptRequested bool

	// At most one of Forwarded, Archived, and CarbonCopy is normally present,
	// matching the mutually exclusive wire encodings, but all that are set
	// will be emitted.
	Forwarded  *Message
	Archived   *Message
	CarbonCopy *Message

	Invite Invite
	Hints  Hint

	Markable     bool
	Marker       Marker
	MarkerID     string
	MarkerThread string

	// Replace marks this message as a correction of the message with ID
	// ReplaceID.
	Replace   bool
	ReplaceID string

	Error *stanza.Error

	// Extensions holds every child element the decoder did not recognize, in
	// document order. They are re-emitted verbatim after all modeled payloads.
	Extensions []xmltree.Element
}

// New returns an empty chat message.
//
// Messages constructed by hand default to the chat type and to direct
// invitations; decoded messages default to the normal type per RFC 6121.
func New() Message {
	return Message{
		Type:   ChatMessage,
		Invite: Invite{Direct: true},
	}
}

// Copy returns a deep copy of the message sharing no data with the original.
func (m Message) Copy() Message {
	if m.Forwarded != nil {
		fwd := m.Forwarded.Copy()
		m.Forwarded = &fwd
	}
	if m.Archived != nil {
		arc := m.Archived.Copy()
		m.Archived = &arc
	}
	if m.CarbonCopy != nil {
		cc := m.CarbonCopy.Copy()
		m.CarbonCopy = &cc
	}
	if m.Error != nil {
		e := *m.Error
		m.Error = &e
	}
	if m.Extensions != nil {
		ext := make([]xmltree.Element, len(m.Extensions))
		for i := range m.Extensions {
			ext[i] = m.Extensions[i].Copy()
		}
		m.Extensions = ext
	}
	return m
}

// SetForwarded embeds a deep copy of fwd as the forwarded message.
func (m *Message) SetForwarded(fwd Message) {
	c := fwd.Copy()
	m.Forwarded = &c
}

// SetArchived embeds a deep copy of arc as the archived message.
func (m *Message) SetArchived(arc Message) {
	c := arc.Copy()
	m.Archived = &c
}

// SetCarbonCopy embeds a deep copy of cc as the carbon copied message.
func (m *Message) SetCarbonCopy(cc Message) {
	c := cc.Copy()
	m.CarbonCopy = &c
}

// SetReceiptRequested requests (or stops requesting) a delivery receipt for
// this message. A receipt can only be correlated through the stanza ID, so
// requesting one generates and assigns a random ID if the message does not
// have one yet.
func (m *Message) SetReceiptRequested(requested bool) {
	m.ReceiptRequested = requested
	if requested && m.ID == "" {
		m.ID = attr.RandomID()
	}
}

// SetReplace marks this message as a correction replacing the previously sent
// message with the given ID. The body is left untouched; callers set it to
// the corrected text.
func (m *Message) SetReplace(id string) {
	m.Replace = true
	m.ReplaceID = id
}

// SetMarker sets the chat marker kind, leaving the marker ID and thread as
// they were. Use Mark to set all three together.
func (m *Message) SetMarker(marker Marker) {
	m.Marker = marker
}

// Mark sets the chat marker kind together with the ID and thread of the
// message being marked.
func (m *Message) Mark(marker Marker, id, thread string) {
	m.Marker = marker
	m.MarkerID = id
	m.MarkerThread = thread
}

// AddHint adds a processing hint to the message. Adding a hint that is
// already present has no effect.
func (m *Message) AddHint(h Hint) {
	m.Hints |= h
}

// RemoveHint removes a processing hint from the message.
func (m *Message) RemoveHint(h Hint) {
	m.Hints &^= h
}

// HasHint reports whether the given processing hint is set.
func (m *Message) HasHint(h Hint) bool {
	return m.Hints&h != 0
}
