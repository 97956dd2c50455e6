// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza_test

import (
	"encoding/xml"
	"strconv"
	"strings"
	"testing"

	"mellium.im/xmlstream"

	"mellium.im/msg/stanza"
	"mellium.im/msg/xmltree"
)

var (
	_ error               = stanza.Error{}
	_ xml.Marshaler       = stanza.Error{}
	_ xmlstream.Marshaler = stanza.Error{}
	_ xmlstream.WriterTo  = stanza.Error{}
)

var errorEncodingTests = [...]struct {
	in  stanza.Error
	out string
}{
	0: {
		out: `<error></error>`,
	},
	1: {
		in:  stanza.Error{Type: stanza.Cancel, Condition: stanza.ServiceUnavailable},
		out: `<error type="cancel"><service-unavailable xmlns="urn:ietf:params:xml:ns:xmpp-stanzas"></service-unavailable></error>`,
	},
	2: {
		in: stanza.Error{Type: stanza.Modify, Condition: stanza.BadRequest, Text: "bad timestamp"},
		out: `<error type="modify">` +
			`<bad-request xmlns="urn:ietf:params:xml:ns:xmpp-stanzas"></bad-request>` +
			`<text xmlns="urn:ietf:params:xml:ns:xmpp-stanzas">bad timestamp</text>` +
			`</error>`,
	},
}

func TestErrorEncode(t *testing.T) {
	for i, tc := range errorEncodingTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			b, err := xml.Marshal(tc.in)
			if err != nil {
				t.Fatalf("unexpected error marshaling: %v", err)
			}
			if out := string(b); out != tc.out {
				t.Errorf("wrong output:\nwant=%s,\n got=%s", tc.out, out)
			}
		})
	}
}

func TestReadError(t *testing.T) {
	const in = `<error type="wait">` +
		`<resource-constraint xmlns="urn:ietf:params:xml:ns:xmpp-stanzas"/>` +
		`<text xmlns="urn:ietf:params:xml:ns:xmpp-stanzas">slow down</text>` +
		`</error>`
	el, err := xmltree.Decode(xml.NewDecoder(strings.NewReader(in)))
	if err != nil {
		t.Fatalf("unexpected error decoding: %v", err)
	}
	e := stanza.ReadError(el)
	if e.Type != stanza.Wait {
		t.Errorf("wrong type: want=%q, got=%q", stanza.Wait, e.Type)
	}
	if e.Condition != stanza.ResourceConstraint {
		t.Errorf("wrong condition: want=%q, got=%q", stanza.ResourceConstraint, e.Condition)
	}
	if e.Text != "slow down" {
		t.Errorf("wrong text: want=%q, got=%q", "slow down", e.Text)
	}
	if e.Error() != string(stanza.ResourceConstraint) {
		t.Errorf("Error() should return the condition, got %q", e.Error())
	}
}

func TestReadErrorConditionOutsideNamespace(t *testing.T) {
	const in = `<error type="cancel"><gone xmlns="urn:example:wrong"/></error>`
	el, err := xmltree.Decode(xml.NewDecoder(strings.NewReader(in)))
	if err != nil {
		t.Fatalf("unexpected error decoding: %v", err)
	}
	if e := stanza.ReadError(el); e.Condition != "" {
		t.Errorf("condition outside the stanzas namespace must be ignored, got %q", e.Condition)
	}
}
