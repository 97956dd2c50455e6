// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package msg

// Namespaces of the message payloads understood by this package, provided as
// a convenience. Elements in any other namespace are treated as opaque
// extensions.
const (
	// NSClient is the namespace of stanzas in client-to-server streams.
	NSClient = "jabber:client"

	// NSChatStates is the chat state notifications namespace (XEP-0085).
	NSChatStates = "http://jabber.org/protocol/chatstates"

	// NSXHTMLIM is the XHTML-IM wrapper namespace (XEP-0071).
	NSXHTMLIM = "http://jabber.org/protocol/xhtml-im"

	// NSXHTML is the XHTML namespace of the rich body itself.
	NSXHTML = "http://www.w3.org/1999/xhtml"

	// NSReceipts is the message delivery receipts namespace (XEP-0184).
	NSReceipts = "urn:xmpp:receipts"

	// NSDelay is the delayed delivery namespace (XEP-0203).
	NSDelay = "urn:xmpp:delay"

	// NSLegacyDelay is the legacy delayed delivery namespace (XEP-0091).
	NSLegacyDelay = "jabber:x:delay"

	// NSForward is the stanza forwarding namespace (XEP-0297).
	NSForward = "urn:xmpp:forward:0"

	// NSArchive is the message archive management namespace (XEP-0313).
	NSArchive = "urn:xmpp:mam:2"

	// NSCarbons is the message carbons namespace (XEP-0280).
	NSCarbons = "urn:xmpp:carbons:2"

	// NSConference is the direct MUC invitation namespace (XEP-0249).
	NSConference = "jabber:x:conference"

	// NSMUCUser is the mediated MUC invitation namespace (XEP-0045).
	NSMUCUser = "http://jabber.org/protocol/muc#user"

	// NSAttention is the attention namespace (XEP-0224).
	NSAttention = "urn:xmpp:attention:0"

	// NSHints is the message processing hints namespace (XEP-0334).
	NSHints = "urn:xmpp:hints"

	// NSChatMarkers is the chat markers namespace (XEP-0333).
	NSChatMarkers = "urn:xmpp:chat-markers:0"

	// NSCorrection is the last message correction namespace (XEP-0308).
	NSCorrection = "urn:xmpp:message-correct:0"
)
