// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza_test

import (
	"encoding/xml"
	"reflect"
	"strconv"
	"testing"

	"mellium.im/msg/jid"
	"mellium.im/msg/stanza"
)

var headerTests = [...]struct {
	in  []xml.Attr
	out stanza.Header
}{
	0: {},
	1: {
		in: []xml.Attr{
			{Name: xml.Name{Local: "id"}, Value: "abc123"},
			{Name: xml.Name{Local: "to"}, Value: "me@example.net"},
			{Name: xml.Name{Local: "from"}, Value: "you@example.net/balcony"},
			{Name: xml.Name{Space: "xml", Local: "lang"}, Value: "de"},
		},
		out: stanza.Header{
			ID:   "abc123",
			To:   jid.MustParse("me@example.net"),
			From: jid.MustParse("you@example.net/balcony"),
			Lang: "de",
		},
	},
	2: {
		// Unparseable addresses degrade to the zero JID instead of failing.
		in: []xml.Attr{
			{Name: xml.Name{Local: "to"}, Value: "@not-a-jid"},
			{Name: xml.Name{Local: "id"}, Value: "x"},
		},
		out: stanza.Header{ID: "x"},
	},
	3: {
		// A lang attribute without the xml prefix is not the stanza language.
		in: []xml.Attr{
			{Name: xml.Name{Local: "lang"}, Value: "de"},
		},
		out: stanza.Header{},
	},
}

func TestReadHeader(t *testing.T) {
	for i, tc := range headerTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if h := stanza.ReadHeader(tc.in); !reflect.DeepEqual(h, tc.out) {
				t.Errorf("wrong header: want=%+v, got=%+v", tc.out, h)
			}
		})
	}
}

func TestHeaderAttr(t *testing.T) {
	h := stanza.Header{
		ID:   "abc123",
		To:   jid.MustParse("me@example.net"),
		Lang: "en",
	}
	attr := h.Attr()
	want := []xml.Attr{
		{Name: xml.Name{Local: "xml:lang"}, Value: "en"},
		{Name: xml.Name{Local: "id"}, Value: "abc123"},
		{Name: xml.Name{Local: "to"}, Value: "me@example.net"},
	}
	if !reflect.DeepEqual(attr, want) {
		t.Errorf("wrong attributes:\nwant=%+v,\n got=%+v", want, attr)
	}

	if attr := (stanza.Header{}).Attr(); len(attr) != 0 {
		t.Errorf("expected no attributes for the zero header, got %+v", attr)
	}
}
