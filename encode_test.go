// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package msg_test

import (
	"encoding/xml"
	"reflect"
	"strconv"
	"testing"
	"time"

	"mellium.im/msg"
	"mellium.im/msg/jid"
	"mellium.im/msg/stanza"
)

func marshal(t *testing.T, m msg.Message) string {
	t.Helper()
	b, err := xml.Marshal(m)
	if err != nil {
		t.Fatalf("unexpected error marshaling: %v", err)
	}
	return string(b)
}

var encodeTests = [...]struct {
	in  msg.Message
	out string
}{
	0: {
		in:  msg.Message{Type: msg.NormalMessage},
		out: `<message type="normal"></message>`,
	},
	1: {
		// An unset type is normalized rather than emitted empty.
		in:  msg.Message{},
		out: `<message type="normal"></message>`,
	},
	2: {
		in: msg.Message{
			Header: stanza.Header{
				ID:   "123",
				To:   jid.MustParse("me@example.net"),
				Lang: "en",
			},
			Type:      msg.ChatMessage,
			Subject:   "s",
			Body:      "b",
			Thread:    "t",
			State:     msg.StateActive,
			Stamp:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			ReceiptID: "r1",

			ReceiptRequested:   true,
			AttentionRequested: true,
			Hints:              msg.NoStore | msg.NoCopy,
			Markable:           true,
			Marker:             msg.MarkerReceived,
			MarkerID:           "m1",
			Replace:            true,
			ReplaceID:          "old",
		},
		out: `<message xml:lang="en" id="123" to="me@example.net" type="chat">` +
			`<subject>s</subject>` +
			`<body>b</body>` +
			`<thread>t</thread>` +
			`<active xmlns="http://jabber.org/protocol/chatstates"></active>` +
			`<delay xmlns="urn:xmpp:delay" stamp="2020-01-01T00:00:00Z"></delay>` +
			`<received xmlns="urn:xmpp:receipts" id="r1"></received>` +
			`<request xmlns="urn:xmpp:receipts"></request>` +
			`<attention xmlns="urn:xmpp:attention:0"></attention>` +
			`<no-store xmlns="urn:xmpp:hints"></no-store>` +
			`<no-copy xmlns="urn:xmpp:hints"></no-copy>` +
			`<markable xmlns="urn:xmpp:chat-markers:0"></markable>` +
			`<received xmlns="urn:xmpp:chat-markers:0" id="m1"></received>` +
			`<replace xmlns="urn:xmpp:message-correct:0" id="old"></replace>` +
			`</message>`,
	},
	3: {
		// A correction that retracts the body still needs an explicit empty
		// body element.
		in: msg.Message{
			Type:      msg.ChatMessage,
			Replace:   true,
			ReplaceID: "msg-1",
		},
		out: `<message type="chat">` +
			`<body></body>` +
			`<replace xmlns="urn:xmpp:message-correct:0" id="msg-1"></replace>` +
			`</message>`,
	},
	4: {
		in: msg.Message{
			Type:      msg.ChatMessage,
			Stamp:     time.Date(2020, 1, 1, 12, 30, 0, 0, time.UTC),
			StampType: msg.LegacyDelayedDelivery,
		},
		out: `<message type="chat">` +
			`<x xmlns="jabber:x:delay" stamp="20200101T12:30:00"></x>` +
			`</message>`,
	},
	5: {
		// Direct invitation.
		in: msg.Message{
			Type: msg.NormalMessage,
			Invite: msg.Invite{
				JID:      jid.MustParse("room@muc.example.net"),
				Password: "pw",
				Reason:   "come",
				Direct:   true,
			},
		},
		out: `<message type="normal">` +
			`<x xmlns="jabber:x:conference" jid="room@muc.example.net" password="pw" reason="come"></x>` +
			`</message>`,
	},
	6: {
		// Mediated invitation.
		in: msg.Message{
			Type: msg.NormalMessage,
			Invite: msg.Invite{
				JID:      jid.MustParse("friend@example.net"),
				Password: "pw",
				Reason:   "come",
			},
		},
		out: `<message type="normal">` +
			`<x xmlns="http://jabber.org/protocol/muc#user">` +
			`<invite to="friend@example.net">` +
			`<reason>come</reason>` +
			`</invite>` +
			`<password>pw</password>` +
			`</x>` +
			`</message>`,
	},
	7: {
		in: msg.Message{
			Type: msg.ErrorMessage,
			Error: &stanza.Error{
				Type:      stanza.Cancel,
				Condition: stanza.ItemNotFound,
			},
		},
		out: `<message type="error">` +
			`<error type="cancel">` +
			`<item-not-found xmlns="urn:ietf:params:xml:ns:xmpp-stanzas"></item-not-found>` +
			`</error>` +
			`</message>`,
	},
}

func TestEncode(t *testing.T) {
	for i, tc := range encodeTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if out := marshal(t, tc.in); out != tc.out {
				t.Errorf("wrong output:\nwant=%s,\n got=%s", tc.out, out)
			}
		})
	}
}

func TestEncodeExtensions(t *testing.T) {
	// Opaque extensions are re-emitted verbatim and in order, but always
	// after the modeled payloads regardless of where they appeared on input.
	m := unmarshal(t, `<message type="chat">`+
		`<custom xmlns="urn:example:custom" k="v">data</custom>`+
		`<body>hi</body>`+
		`<other xmlns="urn:example:other"/>`+
		`</message>`)
	want := `<message type="chat">` +
		`<body>hi</body>` +
		`<custom xmlns="urn:example:custom" k="v">data</custom>` +
		`<other xmlns="urn:example:other"></other>` +
		`</message>`
	if out := marshal(t, m); out != want {
		t.Errorf("wrong output:\nwant=%s,\n got=%s", want, out)
	}
}

func TestEncodeXHTML(t *testing.T) {
	m := msg.Message{
		Type:  msg.ChatMessage,
		Body:  "hi",
		XHTML: `<p>hi <em>there</em></p>`,
	}
	want := `<message type="chat">` +
		`<body>hi</body>` +
		`<html xmlns="http://jabber.org/protocol/xhtml-im">` +
		`<body xmlns="http://www.w3.org/1999/xhtml"><p>hi <em>there</em></p></body>` +
		`</html>` +
		`</message>`
	out := marshal(t, m)
	if out != want {
		t.Errorf("wrong output:\nwant=%s,\n got=%s", want, out)
	}

	back, err := msg.Unmarshal([]byte(out))
	if err != nil {
		t.Fatalf("unexpected error decoding: %v", err)
	}
	if back.XHTML != m.XHTML {
		t.Errorf("rich body did not survive the round trip: want=%q, got=%q", m.XHTML, back.XHTML)
	}
}

func TestEncodeForwarded(t *testing.T) {
	inner := msg.Message{Type: msg.ChatMessage, Body: "hi"}
	m := msg.Message{Type: msg.NormalMessage}
	m.SetForwarded(inner)
	want := `<message type="normal">` +
		`<forwarded xmlns="urn:xmpp:forward:0">` +
		`<message type="chat"><body>hi</body></message>` +
		`</forwarded>` +
		`</message>`
	if out := marshal(t, m); out != want {
		t.Errorf("wrong output:\nwant=%s,\n got=%s", want, out)
	}
}

func TestEncodeCarbon(t *testing.T) {
	inner := msg.Message{Type: msg.ChatMessage, Body: "hi"}
	m := msg.Message{Type: msg.ChatMessage}
	m.SetCarbonCopy(inner)
	want := `<message type="chat">` +
		`<received xmlns="urn:xmpp:carbons:2">` +
		`<forwarded xmlns="urn:xmpp:forward:0">` +
		`<message type="chat"><body>hi</body></message>` +
		`</forwarded>` +
		`</received>` +
		`</message>`
	if out := marshal(t, m); out != want {
		t.Errorf("wrong output:\nwant=%s,\n got=%s", want, out)
	}
}

var roundTripTests = [...]msg.Message{
	0: {Type: msg.NormalMessage},
	1: {
		Header: stanza.Header{
			ID: "42",
			To: jid.MustParse("me@example.net"),
		},
		Type:    msg.ChatMessage,
		Subject: "s",
		Body:    "b <escaped> & fine",
		Thread:  "t",
	},
	2: {
		Type:  msg.ChatMessage,
		State: msg.StatePaused,
		Stamp: time.Date(2019, 6, 15, 8, 0, 0, 0, time.UTC),
	},
	3: {
		Type:      msg.ChatMessage,
		Stamp:     time.Date(2019, 6, 15, 8, 0, 0, 0, time.UTC),
		StampType: msg.LegacyDelayedDelivery,
	},
	4: {
		Type:               msg.NormalMessage,
		AttentionRequested: true,
		Hints:              msg.NoPermanentStorage | msg.AllowPermanentStorage,
		Markable:           true,
	},
	5: {
		Type:         msg.ChatMessage,
		Marker:       msg.MarkerDisplayed,
		MarkerID:     "m1",
		MarkerThread: "t1",
	},
	6: {
		Type:      msg.ChatMessage,
		Body:      "better",
		Replace:   true,
		ReplaceID: "old",
	},
	7: {
		Type: msg.NormalMessage,
		Invite: msg.Invite{
			JID:    jid.MustParse("room@muc.example.net"),
			Reason: "come",
			Direct: true,
		},
	},
	8: {
		Type:             msg.ChatMessage,
		ReceiptID:        "r1",
		ReceiptRequested: true,
	},
}

func TestRoundTrip(t *testing.T) {
	for i, in := range roundTripTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			out, err := msg.Unmarshal([]byte(marshal(t, in)))
			if err != nil {
				t.Fatalf("unexpected error decoding: %v", err)
			}
			if !reflect.DeepEqual(in, out) {
				t.Errorf("message did not survive the round trip:\nwant=%+v,\n got=%+v", in, out)
			}
		})
	}
}
