// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package msg encodes and decodes XMPP message stanzas.
//
// A Message is a value type that models the message stanza along with the
// optional payloads a chat client commonly needs: chat states (XEP-0085),
// XHTML-IM rich bodies (XEP-0071), delivery receipts (XEP-0184), delayed
// delivery in both its modern (XEP-0203) and legacy (XEP-0091) encodings,
// stanza forwarding (XEP-0297), archived results (XEP-0313), carbon copies
// (XEP-0280), direct and mediated group chat invitations (XEP-0249,
// XEP-0045), processing hints (XEP-0334), chat markers (XEP-0333), attention
// (XEP-0224), and message correction (XEP-0308).
//
// Child elements the decoder does not recognize are preserved in order as
// opaque extensions and re-emitted on encoding, so that stanzas may be
// round-tripped through this package without losing payloads defined by
// protocol revisions it was not built against.
//
// Decoding and encoding are pure transformations with no I/O of their own
// and may be used concurrently on independent messages.
package msg // import "mellium.im/msg"
