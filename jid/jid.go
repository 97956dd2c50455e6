// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package jid implements the XMPP address format defined in RFC 7622.
package jid // import "mellium.im/msg/jid"

import (
	"encoding/xml"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/text/secure/precis"
)

// Errors returned while parsing or constructing JIDs.
var (
	errNoDomain    = errors.New("jid: domainpart must not be empty")
	errInvalidUTF8 = errors.New("jid: JID contains invalid UTF-8")
	errLongPart    = errors.New("jid: part must be smaller than 1024 bytes")
	errEmptyPart   = errors.New("jid: localpart or resourcepart must not be empty if present")
)

// JID represents an XMPP address comprising a localpart, domainpart, and
// resourcepart. The zero value is an empty JID and is not valid for
// transmission, but may be used for comparison.
//
// All parts of a constructed JID are guaranteed to be valid UTF-8 and are
// stored in their canonical form, which gives comparison with == the greatest
// chance of succeeding.
type JID struct {
	local    string
	domain   string
	resource string
}

// Parse constructs a new JID from its string representation.
func Parse(s string) (JID, error) {
	local, domain, resource, err := splitString(s)
	if err != nil {
		return JID{}, err
	}
	return New(local, domain, resource)
}

// MustParse is like Parse but panics if the JID cannot be parsed.
// It simplifies safe initialization of JIDs from known-good constant strings.
func MustParse(s string) JID {
	j, err := Parse(s)
	if err != nil {
		if strconv.CanBackquote(s) {
			s = "`" + s + "`"
		} else {
			s = strconv.Quote(s)
		}
		panic(`jid: Parse(` + s + `): ` + err.Error())
	}
	return j
}

// New constructs a new JID from the given localpart, domainpart, and
// resourcepart, enforcing each part per RFC 7622 §3.
func New(localpart, domainpart, resourcepart string) (JID, error) {
	if !utf8.ValidString(localpart) || !utf8.ValidString(resourcepart) {
		return JID{}, errInvalidUTF8
	}
	if domainpart == "" {
		return JID{}, errNoDomain
	}

	domainpart, err := idna.ToUnicode(domainpart)
	if err != nil {
		return JID{}, err
	}
	if !utf8.ValidString(domainpart) {
		return JID{}, errInvalidUTF8
	}

	if localpart != "" {
		localpart, err = precis.UsernameCaseMapped.String(localpart)
		if err != nil {
			return JID{}, err
		}
	}
	if resourcepart != "" {
		resourcepart, err = precis.OpaqueString.String(resourcepart)
		if err != nil {
			return JID{}, err
		}
	}

	if len(localpart) > 1023 || len(domainpart) > 1023 || len(resourcepart) > 1023 {
		return JID{}, errLongPart
	}

	return JID{
		local:    localpart,
		domain:   domainpart,
		resource: resourcepart,
	}, nil
}

// Localpart returns the localpart of the JID (typically a username).
func (j JID) Localpart() string {
	return j.local
}

// Domainpart returns the domainpart of the JID (typically a server).
func (j JID) Domainpart() string {
	return j.domain
}

// Resourcepart returns the resourcepart of the JID (an optional identifier for
// a specific client or session).
func (j JID) Resourcepart() string {
	return j.resource
}

// Bare returns a copy of the JID with no resourcepart.
func (j JID) Bare() JID {
	j.resource = ""
	return j
}

// Equal reports whether j and other have the same localpart, domainpart, and
// resourcepart.
func (j JID) Equal(other JID) bool {
	return j == other
}

// String converts the JID to its string representation, or the empty string
// for the zero value.
func (j JID) String() string {
	var b strings.Builder
	if j.local != "" {
		b.WriteString(j.local)
		b.WriteByte('@')
	}
	b.WriteString(j.domain)
	if j.resource != "" {
		b.WriteByte('/')
		b.WriteString(j.resource)
	}
	return b.String()
}

// MarshalXMLAttr satisfies the xml.MarshalerAttr interface.
func (j JID) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	if j == (JID{}) {
		return xml.Attr{}, nil
	}
	return xml.Attr{Name: name, Value: j.String()}, nil
}

// UnmarshalXMLAttr satisfies the xml.UnmarshalerAttr interface.
func (j *JID) UnmarshalXMLAttr(attr xml.Attr) error {
	parsed, err := Parse(attr.Value)
	if err != nil {
		return err
	}
	*j = parsed
	return nil
}

// splitString breaks a JID string into its three parts without performing any
// enforcement or validation of the individual parts.
func splitString(s string) (localpart, domainpart, resourcepart string, err error) {
	// RFC 7622 §3.1:
	//    jid = [ localpart "@" ] domainpart [ "/" resourcepart ]

	if idx := strings.Index(s, "/"); idx != -1 {
		resourcepart = s[idx+1:]
		s = s[:idx]
		if resourcepart == "" {
			return "", "", "", errEmptyPart
		}
	}

	if idx := strings.Index(s, "@"); idx != -1 {
		localpart = s[:idx]
		s = s[idx+1:]
		if localpart == "" {
			return "", "", "", errEmptyPart
		}
	}

	return localpart, s, resourcepart, nil
}
