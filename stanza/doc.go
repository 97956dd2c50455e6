// Copyright 2022 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package stanza contains the fields and error payload shared by all XMPP
// stanza kinds.
//
// The types in this package know nothing about any particular stanza; they
// provide the generic envelope (addressing, identity, language) and the error
// element defined by RFC 6120 §8.3 that message, presence, and IQ stanzas all
// carry.
package stanza // import "mellium.im/msg/stanza"
