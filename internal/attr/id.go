// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package attr

import (
	"crypto/rand"
	"encoding/hex"
	"io"
)

// IDLen is the length in characters of generated stanza identifiers.
const IDLen = 16

// RandomID returns a hex encoded identifier of length IDLen. Receipts are
// correlated through the stanza ID, so generated IDs must be unpredictable
// and unique; RandomID panics rather than degrade if the system source of
// randomness fails.
func RandomID() string {
	return randomID(IDLen, rand.Reader)
}

// RandomLen is like RandomID but returns an identifier of length n.
func RandomLen(n int) string {
	return randomID(n, rand.Reader)
}

func randomID(n int, r io.Reader) string {
	b := make([]byte, (n+1)/2)
	if _, err := io.ReadFull(r, b); err != nil {
		panic("attr: failed to read randomness: " + err.Error())
	}
	return hex.EncodeToString(b)[:n]
}
