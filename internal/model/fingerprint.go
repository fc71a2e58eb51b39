package model

import "strconv"

// fingerprintSeed is the djb2 starting value.
const fingerprintSeed uint64 = 5381

// Fingerprint is a cheap digest of message content used only to detect change.
// Equal content always yields an equal fingerprint; the reverse is not
// guaranteed and must not be relied on for integrity or identity.
type Fingerprint uint64

// FingerprintOf computes the djb2 fingerprint (h = h*33 + b) of content.
func FingerprintOf(content string) Fingerprint {
	h := fingerprintSeed
	for i := 0; i < len(content); i++ {
		h = (h << 5) + h + uint64(content[i])
	}
	return Fingerprint(h)
}

// String returns the decimal representation of the fingerprint.
func (f Fingerprint) String() string {
	return strconv.FormatUint(uint64(f), 10)
}
